package engine

import (
	"fmt"
	"strings"
)

// Board dimension and robot limits
const (
	MinBoardSize = 2
	MaxBoardSize = 64
	MaxRobots    = 5
	// Slots is the number of (color, direction) pairs a configuration can expand into.
	Slots = MaxRobots * 4
)

// Position represents x,y coordinates. (0,0) is the north-west corner.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoPosition marks a robot that is not on the board.
var NoPosition = Position{X: -1, Y: -1}

// Step returns the position n cells away in direction d.
func (p Position) Step(d Direction, n int) Position {
	switch d {
	case North:
		p.Y -= n
	case East:
		p.X += n
	case South:
		p.Y += n
	case West:
		p.X -= n
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four travel directions. The numeric values match
// the "location" field of the map description.
type Direction uint8

const (
	North Direction = iota + 1
	East
	South
	West
)

// AllDirections lists directions in slot order.
var AllDirections = [4]Direction{North, East, South, West}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	}
	return d
}

// Perpendicular reports whether d and o form a 90 degree turn.
func (d Direction) Perpendicular(o Direction) bool {
	return d != o && d != o.Opposite()
}

func (d Direction) index() int { return int(d) - 1 }

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts full names and single-letter abbreviations.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north", "n", "N", "up":
		return North, nil
	case "east", "e", "E", "right":
		return East, nil
	case "south", "s", "S", "down":
		return South, nil
	case "west", "w", "W", "left":
		return West, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// Color identifies a robot. Mix is only meaningful as a goal color and
// matches any robot.
type Color uint8

const (
	Red Color = iota + 1
	Green
	Blue
	Yellow
	Silver
	Mix
)

// RobotColors lists robot colors in ordinal order.
var RobotColors = [MaxRobots]Color{Red, Green, Blue, Yellow, Silver}

// IsRobot reports whether c names an actual robot.
func (c Color) IsRobot() bool {
	return c >= Red && c <= Silver
}

// Valid reports whether c is a robot color or Mix.
func (c Color) Valid() bool {
	return c >= Red && c <= Mix
}

// Matches reports whether a goal of color c accepts robot r.
func (c Color) Matches(r Color) bool {
	return c == Mix || c == r
}

func (c Color) index() int { return int(c) - 1 }

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	case Silver:
		return "silver"
	case Mix:
		return "mix"
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ParseColor accepts color names and their first letter.
func ParseColor(s string) (Color, error) {
	switch s {
	case "red", "r", "R":
		return Red, nil
	case "green", "g", "G":
		return Green, nil
	case "blue", "b", "B":
		return Blue, nil
	case "yellow", "y", "Y":
		return Yellow, nil
	case "silver", "s", "S":
		return Silver, nil
	case "mix", "m", "M", "any":
		return Mix, nil
	}
	return 0, fmt.Errorf("invalid color %q", s)
}

// BarrierOrientation is the diagonal a barrier is drawn along.
type BarrierOrientation uint8

const (
	// Forward barriers mirror like '/'.
	Forward BarrierOrientation = iota + 1
	// Backward barriers mirror like '\'.
	Backward
)

// Valid reports whether o is Forward or Backward.
func (o BarrierOrientation) Valid() bool {
	return o == Forward || o == Backward
}

// Reflect returns the direction a robot leaves the barrier with after
// entering it while travelling in d.
func (o BarrierOrientation) Reflect(d Direction) Direction {
	if o == Forward {
		switch d {
		case North:
			return East
		case East:
			return North
		case South:
			return West
		case West:
			return South
		}
		return d
	}
	switch d {
	case North:
		return West
	case West:
		return North
	case South:
		return East
	case East:
		return South
	}
	return d
}

func (o BarrierOrientation) String() string {
	switch o {
	case Forward:
		return "/"
	case Backward:
		return "\\"
	}
	return fmt.Sprintf("orientation(%d)", uint8(o))
}

// GoalKind is the symbol printed on a goal tile.
type GoalKind uint8

const (
	RectangleSaturn GoalKind = iota + 1
	RoundEclipse
	HexagonCompass
	TriangleCog
	SwirlySwirl
)

// Valid reports whether k is a known goal symbol.
func (k GoalKind) Valid() bool {
	return k >= RectangleSaturn && k <= SwirlySwirl
}

func (k GoalKind) String() string {
	switch k {
	case RectangleSaturn:
		return "saturn"
	case RoundEclipse:
		return "eclipse"
	case HexagonCompass:
		return "compass"
	case TriangleCog:
		return "cog"
	case SwirlySwirl:
		return "swirl"
	}
	return fmt.Sprintf("goal(%d)", uint8(k))
}

// ObstacleKind enumerates static obstacles of the map description.
type ObstacleKind uint8

const (
	InaccessibleCenterArea ObstacleKind = iota + 1
)

// Valid reports whether k is a known obstacle kind.
func (k ObstacleKind) Valid() bool {
	return k == InaccessibleCenterArea
}

// Goal is a target cell for a robot of the given color (or any robot for Mix).
type Goal struct {
	Kind     GoalKind `json:"kind"`
	Color    Color    `json:"color"`
	Position Position `json:"position"`
}

func (g Goal) String() string {
	return fmt.Sprintf("%s %s at %s", g.Color, g.Kind, g.Position)
}

// Move pushes one robot in one direction.
type Move struct {
	Color     Color     `json:"color"`
	Direction Direction `json:"direction"`
}

func (m Move) String() string {
	return m.Color.String() + ":" + m.Direction.String()
}

// MoveSequence is an ordered list of moves applied as one transaction.
type MoveSequence []Move

// ParseMove parses "color:direction", e.g. "red:north" or "b:w".
func ParseMove(s string) (Move, error) {
	color, dir, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Move{}, fmt.Errorf("move %q: want color:direction", s)
	}
	c, err := ParseColor(strings.ToLower(color))
	if err != nil {
		return Move{}, err
	}
	if !c.IsRobot() {
		return Move{}, fmt.Errorf("move %q: %s is not a robot", s, c)
	}
	d, err := ParseDirection(strings.ToLower(dir))
	if err != nil {
		return Move{}, err
	}
	return Move{Color: c, Direction: d}, nil
}

// ParseMoves parses a comma or space separated list of moves.
func ParseMoves(s string) (MoveSequence, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	seq := make(MoveSequence, 0, len(fields))
	for _, f := range fields {
		m, err := ParseMove(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, m)
	}
	return seq, nil
}

// Strings renders each move as color:direction.
func (s MoveSequence) Strings() []string {
	out := make([]string, len(s))
	for i, m := range s {
		out[i] = m.String()
	}
	return out
}
