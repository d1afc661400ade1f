// Package validate checks the map descriptions in a directory. For each
// file it checks:
//   - JSON structure and value ranges (engine.ValidateDescription)
//   - That at least one goal is marked
//   - That there are enough free cells for every robot
//   - Which goals can be reached without a blocker: a goal backed by a wall
//     or an edge on one side and open on the other is a stopping point for a
//     robot sliding in; any other goal needs a robot placed behind it
package validate

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/wricardo/ricochet-robots/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// ValidateMap loads and validates a single map description file.
func ValidateMap(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	desc, err := engine.LoadDescription(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	board, err := engine.FromDescription(desc)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to build board: %v", err))
		return result
	}

	if len(desc.Goals) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Must have at least 1 goal")
	}
	free := len(engine.FreeCells(board, nil))
	if free < engine.MaxRobots {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Only %d free cells, need %d for the robots", free, engine.MaxRobots))
	}
	if !result.Valid {
		return result
	}

	result.Errors = append(result.Errors, stopPoints(board)...)
	name := desc.Name
	if name == "" {
		name = strings.TrimSuffix(result.File, ".json")
	}
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", name),
		fmt.Sprintf("✓ Board: %dx%d", desc.Width, desc.Height),
		fmt.Sprintf("✓ Goals: %d", len(desc.Goals)),
		fmt.Sprintf("✓ Barriers: %d", len(desc.Barriers)),
		fmt.Sprintf("✓ Obstacles: %d", engine.CountTiles(board, engine.InaccessibleTile)),
		fmt.Sprintf("✓ Free cells: %d", free),
	)
	return result
}

// stopPoints reports the goals a robot can stop on without help from
// another robot.
func stopPoints(board *engine.Board) []string {
	var open, blocked []string
	for _, g := range board.Goals() {
		if isStopPoint(board, g.Position) {
			open = append(open, g.Position.String())
		} else {
			blocked = append(blocked, g.String())
		}
	}

	msgs := []string{fmt.Sprintf("✓ Stopping points: %d/%d goals reachable without a blocker", len(open), len(open)+len(blocked))}
	for _, g := range blocked {
		msgs = append(msgs, fmt.Sprintf("Needs a blocker: %s", g))
	}
	return msgs
}

func isStopPoint(board *engine.Board, p engine.Position) bool {
	for _, d := range engine.AllDirections {
		if board.DistanceToWall(p, d) == 0 && board.DistanceToWall(p, d.Opposite()) > 0 {
			return true
		}
	}
	return false
}

// ValidateDir validates every *.json file in dir, sorted by name.
func ValidateDir(dir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "finding map files")
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateMap(file))
	}
	return results, nil
}

// Report prints a concise report of results to w and reports whether every
// map was valid.
func Report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	switch {
	case len(results) == 0:
		fmt.Fprintln(w, "⚠️  No maps found")
	case allValid:
		fmt.Fprintln(w, "✅ All maps are valid!")
	default:
		fmt.Fprintln(w, "❌ Some maps have errors")
	}
	return allValid
}
