package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds      = errors.New("position out of bounds")
	ErrCellOccupied     = errors.New("cell already occupied")
	ErrInvalidBoardSize = errors.New("invalid board size")
)

// Board is the static part of a game: walls, barriers, goals and
// inaccessible cells. It is built once and then only read; robot positions
// live in Robots.
type Board struct {
	width  int
	height int
	geo    *geometry
	tiles  []Tile
	keys   *hashKeys
}

// NewBoard creates an empty board surrounded by its outer walls.
func NewBoard(width, height int) (*Board, error) {
	return NewBoardWithSeed(width, height, DefaultHashSeed)
}

// NewBoardWithSeed creates an empty board whose content hash table is drawn
// from seed. Boards built with the same seed and size hash configurations
// identically.
func NewBoardWithSeed(width, height int, seed int64) (*Board, error) {
	if width < MinBoardSize || width > MaxBoardSize || height < MinBoardSize || height > MaxBoardSize {
		return nil, fmt.Errorf("%w: %dx%d (allowed %d..%d)", ErrInvalidBoardSize, width, height, MinBoardSize, MaxBoardSize)
	}

	tiles := make([]Tile, width*height)
	for i := range tiles {
		tiles[i] = Empty{}
	}

	return &Board{
		width:  width,
		height: height,
		geo:    newGeometry(width, height),
		tiles:  tiles,
		keys:   newHashKeys(width*height, seed),
	}, nil
}

// Width returns the number of columns
func (b *Board) Width() int { return b.width }

// Height returns the number of rows
func (b *Board) Height() int { return b.height }

// Valid reports whether p lies on the board.
func (b *Board) Valid(p Position) bool {
	return b.geo.valid(p)
}

// Tile returns the tile at p. Cells off the board read as Inaccessible.
func (b *Board) Tile(p Position) Tile {
	if !b.Valid(p) {
		return Inaccessible{}
	}
	return b.tiles[b.geo.index(p)]
}

// Barrier returns the barrier at p, if any.
func (b *Board) Barrier(p Position) (Barrier, bool) {
	bar, ok := b.Tile(p).(Barrier)
	return bar, ok
}

// Goal returns the goal marked at p, if any.
func (b *Board) Goal(p Position) (Goal, bool) {
	marker, ok := b.Tile(p).(GoalMarker)
	return marker.Goal, ok
}

// Goals returns every goal on the board in row-major order.
func (b *Board) Goals() []Goal {
	var goals []Goal
	for _, t := range b.tiles {
		if marker, ok := t.(GoalMarker); ok {
			goals = append(goals, marker.Goal)
		}
	}
	return goals
}

// Standable reports whether a robot may rest on p at placement time.
func (b *Board) Standable(p Position) bool {
	switch b.Tile(p).(type) {
	case Empty, GoalMarker:
		return b.Valid(p)
	default:
		return false
	}
}

// InsertWall places a wall on the d side of p.
func (b *Board) InsertWall(p Position, d Direction) error {
	return b.geo.insertWall(p, d)
}

// InsertBarrier places a barrier on an empty cell. The barrier cell stops
// incoming robots from every side but stays enterable.
func (b *Board) InsertBarrier(bar Barrier, p Position) error {
	if err := b.claim(p, "barrier"); err != nil {
		return err
	}
	if !bar.Orientation.Valid() {
		return fmt.Errorf("insert barrier at %s: invalid orientation %d", p, bar.Orientation)
	}
	if !bar.Color.Valid() {
		return fmt.Errorf("insert barrier at %s: invalid color %d", p, bar.Color)
	}

	b.tiles[b.geo.index(p)] = bar
	for _, d := range AllDirections {
		if err := b.geo.insertSemiWall(p, d, true); err != nil {
			return err
		}
	}
	return nil
}

// InsertInaccessible blocks the cell at p by walling off its neighbours.
func (b *Board) InsertInaccessible(p Position) error {
	if err := b.claim(p, "inaccessible"); err != nil {
		return err
	}

	b.tiles[b.geo.index(p)] = Inaccessible{}
	for _, d := range AllDirections {
		neighbour := p.Step(d, 1)
		if !b.Valid(neighbour) {
			continue
		}
		if err := b.geo.insertSemiWall(neighbour, d.Opposite(), false); err != nil {
			return err
		}
	}
	return nil
}

// InsertGoal marks a goal on an empty cell.
func (b *Board) InsertGoal(g Goal) error {
	if err := b.claim(g.Position, "goal"); err != nil {
		return err
	}
	if !g.Kind.Valid() {
		return fmt.Errorf("insert goal at %s: invalid kind %d", g.Position, g.Kind)
	}
	if !g.Color.Valid() {
		return fmt.Errorf("insert goal at %s: invalid color %d", g.Position, g.Color)
	}

	b.tiles[b.geo.index(g.Position)] = GoalMarker{Goal: g}
	return nil
}

func (b *Board) claim(p Position, what string) error {
	if !b.Valid(p) {
		return fmt.Errorf("insert %s: %w: %s", what, ErrOutOfBounds, p)
	}
	if _, empty := b.tiles[b.geo.index(p)].(Empty); !empty {
		return fmt.Errorf("insert %s: %w: %s", what, ErrCellOccupied, p)
	}
	return nil
}

// DistanceToWall returns how many cells a robot at p can travel in d before
// a wall, barrier cell or inaccessible cell stops it.
func (b *Board) DistanceToWall(p Position, d Direction) int {
	if !b.Valid(p) || !d.Valid() {
		return 0
	}
	return b.geo.distance(p, d)
}

// DistanceToRobot bounds maxDist by the nearest robot in direction d from
// p. A robot standing on p itself is ignored.
func (b *Board) DistanceToRobot(p Position, d Direction, maxDist int, robots *Robots) int {
	return distanceToRobot(p, d, maxDist, robots, 0)
}

// CanTravel reports whether a robot at p can move at least one cell in d.
// A nil robots skips the occupancy check.
func (b *Board) CanTravel(p Position, d Direction, robots *Robots) bool {
	wall := b.DistanceToWall(p, d)
	if wall == 0 {
		return false
	}
	if robots == nil {
		return true
	}
	return b.DistanceToRobot(p, d, wall, robots) > 0
}

func distanceToRobot(p Position, d Direction, maxDist int, robots *Robots, skip Color) int {
	best := maxDist
	for i, c := range RobotColors {
		if c == skip || robots.placed&(1<<i) == 0 {
			continue
		}
		q := robots.positions[i]
		var k int
		switch d {
		case North:
			if q.X != p.X || q.Y >= p.Y {
				continue
			}
			k = p.Y - q.Y
		case South:
			if q.X != p.X || q.Y <= p.Y {
				continue
			}
			k = q.Y - p.Y
		case East:
			if q.Y != p.Y || q.X <= p.X {
				continue
			}
			k = q.X - p.X
		case West:
			if q.Y != p.Y || q.X >= p.X {
				continue
			}
			k = p.X - q.X
		default:
			return 0
		}
		if k-1 < best {
			best = k - 1
		}
	}
	return best
}
