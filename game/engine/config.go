package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// WallSpec places a wall on one side of a cell. Location uses the
// Direction numbering (1 north, 2 east, 3 south, 4 west).
type WallSpec struct {
	Location Direction `json:"location"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
}

// GoalSpec places a goal symbol.
type GoalSpec struct {
	Color Color    `json:"color"`
	Type  GoalKind `json:"type"`
	X     int      `json:"x"`
	Y     int      `json:"y"`
}

// ObstacleSpec blocks a single cell.
type ObstacleSpec struct {
	Type ObstacleKind `json:"type"`
	X    int          `json:"x"`
	Y    int          `json:"y"`
}

// BarrierSpec places a colored diagonal barrier.
type BarrierSpec struct {
	Type  BarrierOrientation `json:"type"`
	Color Color              `json:"color"`
	X     int                `json:"x"`
	Y     int                `json:"y"`
}

// Description is the serializable form of a board.
type Description struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Walls       []WallSpec     `json:"walls"`
	Goals       []GoalSpec     `json:"goals"`
	Obstacles   []ObstacleSpec `json:"obstacles"`
	Barriers    []BarrierSpec  `json:"barriers"`
}

// NewDescription starts an empty description of the given size.
func NewDescription(width, height int) *Description {
	return &Description{
		Width:     width,
		Height:    height,
		Walls:     []WallSpec{},
		Goals:     []GoalSpec{},
		Obstacles: []ObstacleSpec{},
		Barriers:  []BarrierSpec{},
	}
}

// AddWall records a wall on the loc side of p.
func (d *Description) AddWall(p Position, loc Direction) *Description {
	d.Walls = append(d.Walls, WallSpec{Location: loc, X: p.X, Y: p.Y})
	return d
}

// AddGoal records a goal.
func (d *Description) AddGoal(g Goal) *Description {
	d.Goals = append(d.Goals, GoalSpec{Color: g.Color, Type: g.Kind, X: g.Position.X, Y: g.Position.Y})
	return d
}

// AddObstacle records an inaccessible cell.
func (d *Description) AddObstacle(p Position) *Description {
	d.Obstacles = append(d.Obstacles, ObstacleSpec{Type: InaccessibleCenterArea, X: p.X, Y: p.Y})
	return d
}

// AddBarrier records a barrier.
func (d *Description) AddBarrier(p Position, bar Barrier) *Description {
	d.Barriers = append(d.Barriers, BarrierSpec{Type: bar.Orientation, Color: bar.Color, X: p.X, Y: p.Y})
	return d
}

// ValidateDescription checks a description for consistency before a board
// is built from it.
func ValidateDescription(d *Description) error {
	if d == nil {
		return fmt.Errorf("map validation: description is nil")
	}
	if d.Width < MinBoardSize || d.Width > MaxBoardSize {
		return fmt.Errorf("map validation: width must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, d.Width)
	}
	if d.Height < MinBoardSize || d.Height > MaxBoardSize {
		return fmt.Errorf("map validation: height must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, d.Height)
	}

	inside := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < d.Width && y < d.Height
	}

	for i, w := range d.Walls {
		if !w.Location.Valid() {
			return fmt.Errorf("map validation: wall %d has invalid location %d", i+1, w.Location)
		}
		if !inside(w.X, w.Y) {
			return fmt.Errorf("map validation: wall %d at (%d,%d) is outside the board", i+1, w.X, w.Y)
		}
	}

	used := make(map[Position]string)
	claim := func(what string, i, x, y int) error {
		if !inside(x, y) {
			return fmt.Errorf("map validation: %s %d at (%d,%d) is outside the board", what, i+1, x, y)
		}
		p := Position{X: x, Y: y}
		if prev, ok := used[p]; ok {
			return fmt.Errorf("map validation: %s %d at %s overlaps a %s", what, i+1, p, prev)
		}
		used[p] = what
		return nil
	}

	for i, o := range d.Obstacles {
		if !o.Type.Valid() {
			return fmt.Errorf("map validation: obstacle %d has invalid type %d", i+1, o.Type)
		}
		if err := claim("obstacle", i, o.X, o.Y); err != nil {
			return err
		}
	}
	for i, g := range d.Goals {
		if !g.Type.Valid() {
			return fmt.Errorf("map validation: goal %d has invalid type %d", i+1, g.Type)
		}
		if !g.Color.Valid() {
			return fmt.Errorf("map validation: goal %d has invalid color %d", i+1, g.Color)
		}
		if err := claim("goal", i, g.X, g.Y); err != nil {
			return err
		}
	}
	for i, b := range d.Barriers {
		if !b.Type.Valid() {
			return fmt.Errorf("map validation: barrier %d has invalid type %d", i+1, b.Type)
		}
		if !b.Color.Valid() {
			return fmt.Errorf("map validation: barrier %d has invalid color %d", i+1, b.Color)
		}
		if err := claim("barrier", i, b.X, b.Y); err != nil {
			return err
		}
	}

	if len(used) == d.Width*d.Height {
		return fmt.Errorf("map validation: no free cell left for robots")
	}
	return nil
}

// FromDescription validates d and builds the board it describes.
func FromDescription(d *Description) (*Board, error) {
	if err := ValidateDescription(d); err != nil {
		return nil, err
	}

	b, err := NewBoard(d.Width, d.Height)
	if err != nil {
		return nil, err
	}
	for _, w := range d.Walls {
		if err := b.InsertWall(Position{X: w.X, Y: w.Y}, w.Location); err != nil {
			return nil, err
		}
	}
	for _, o := range d.Obstacles {
		if err := b.InsertInaccessible(Position{X: o.X, Y: o.Y}); err != nil {
			return nil, err
		}
	}
	for _, g := range d.Goals {
		goal := Goal{Kind: g.Type, Color: g.Color, Position: Position{X: g.X, Y: g.Y}}
		if err := b.InsertGoal(goal); err != nil {
			return nil, err
		}
	}
	for _, bs := range d.Barriers {
		bar := Barrier{Orientation: bs.Type, Color: bs.Color}
		if err := b.InsertBarrier(bar, Position{X: bs.X, Y: bs.Y}); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ParseDescription decodes and validates a JSON map description.
func ParseDescription(data []byte) (*Description, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode map description")
	}
	if err := ValidateDescription(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadDescription reads a map description from a JSON file.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read map %s", path)
	}
	d, err := ParseDescription(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load map %s", path)
	}
	return d, nil
}

// Marshal encodes d as indented JSON.
func (d *Description) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// SaveDescription writes d to path after validating it.
func SaveDescription(path string, d *Description) error {
	if err := ValidateDescription(d); err != nil {
		return err
	}
	data, err := d.Marshal()
	if err != nil {
		return errors.Wrap(err, "encode map description")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write map %s", path)
	}
	return nil
}
