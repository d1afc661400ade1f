package dataset

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/explore"
)

// SchemaVersion is stored under the "schema" footer key.
const SchemaVersion = "ricochet_state_v1"

// StateRow is one reachable robot configuration.
//
// Move is the "color:direction" move that first discovered the state and is
// empty for the start configuration. OutDegree is the number of successful
// moves out of the state, or -1 when the traversal did not record it (BFS).
type StateRow struct {
	Hash      uint64 `parquet:"hash"`
	Depth     int32  `parquet:"depth"`
	Parent    uint64 `parquet:"parent"`
	Move      string `parquet:"move,dict"`
	OutDegree int32  `parquet:"out_degree"`

	RobotColors []string `parquet:"robot_colors"`
	RobotX      []int32  `parquet:"robot_x"`
	RobotY      []int32  `parquet:"robot_y"`
}

func robotColumns(row *StateRow, robots engine.Robots) {
	for _, c := range robots.Colors() {
		p := robots.Position(c)
		row.RobotColors = append(row.RobotColors, c.String())
		row.RobotX = append(row.RobotX, int32(p.X))
		row.RobotY = append(row.RobotY, int32(p.Y))
	}
}

// FromGraph converts a BFS graph into rows in discovery order.
func FromGraph(g *explore.Graph) []StateRow {
	rows := make([]StateRow, 0, len(g.Order))
	g.Walk(func(n *explore.Node) bool {
		row := StateRow{
			Hash:      n.Hash,
			Depth:     int32(n.Depth),
			OutDegree: -1,
		}
		if n.Depth > 0 {
			row.Parent = n.Parent
			row.Move = n.Via.String()
		}
		robotColumns(&row, n.Robots)
		rows = append(rows, row)
		return true
	})
	return rows
}

// FromStateGraph converts a DFS state graph into rows ordered by depth and
// then hash. DFS keeps no parent pointers, so Parent and Move stay empty.
func FromStateGraph(g *explore.StateGraph) []StateRow {
	rows := make([]StateRow, 0, len(g.States))
	for _, s := range g.States {
		row := StateRow{
			Hash:      s.Hash,
			Depth:     int32(s.Depth),
			OutDegree: int32(s.OutDegree()),
		}
		robotColumns(&row, s.Robots)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Depth != rows[j].Depth {
			return rows[i].Depth < rows[j].Depth
		}
		return rows[i].Hash < rows[j].Hash
	})
	return rows
}

// WriteStates writes rows to outPath through a temporary file, so readers
// never see a partial file. Entries of meta are added to the footer.
func WriteStates(outPath string, rows []StateRow, meta map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	opts := []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		opts = append(opts, parquet.KeyValueMetadata(k, meta[k]))
	}

	if err := parquet.WriteFile(tmpPath, rows, opts...); err != nil {
		return errors.Wrap(err, "write parquet")
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return errors.Wrap(err, "rename parquet")
	}
	return nil
}

// ReadStates loads every row of a file written by WriteStates.
func ReadStates(path string) ([]StateRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "open parquet %s", path)
	}
	if v, ok := pf.Lookup("schema"); ok && v != SchemaVersion {
		return nil, errors.Errorf("%s: unsupported schema %q", path, v)
	}

	reader := parquet.NewGenericReader[StateRow](pf)
	defer reader.Close()

	rows := make([]StateRow, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
	}
	return rows[:read], nil
}
