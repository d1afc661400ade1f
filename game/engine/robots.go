package engine

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultHashSeed seeds the content hash table of boards built with NewBoard.
const DefaultHashSeed int64 = 0x52_69_63_6f_63_68_65_74

var (
	ErrRobotMissing     = errors.New("robot not on board")
	ErrInvalidColor     = errors.New("invalid robot color")
	ErrCellNotStandable = errors.New("cell cannot hold a robot")
)

// hashKeys is the per-(cell, color) random table behind the content hash.
type hashKeys struct {
	keys []uint64
}

func newHashKeys(cells int, seed int64) *hashKeys {
	rng := rand.New(rand.NewSource(seed))
	keys := make([]uint64, cells*MaxRobots)
	for i := range keys {
		// zero keys would make a robot invisible to the hash
		v := rng.Uint64()
		for v == 0 {
			v = rng.Uint64()
		}
		keys[i] = v
	}
	return &hashKeys{keys: keys}
}

func (k *hashKeys) key(cell int, c Color) uint64 {
	return k.keys[cell*MaxRobots+c.index()]
}

// Robots is a robot configuration plus its content hash. The zero value has
// no robots on the board. Robots is a plain value: copying it takes a
// snapshot, and two snapshots compare equal with ==.
type Robots struct {
	positions [MaxRobots]Position
	placed    uint8
	hash      uint64
}

// Position returns where robot c stands, or NoPosition.
func (r Robots) Position(c Color) Position {
	if !r.Placed(c) {
		return NoPosition
	}
	return r.positions[c.index()]
}

// Placed reports whether robot c is on the board.
func (r Robots) Placed(c Color) bool {
	return c.IsRobot() && r.placed&(1<<c.index()) != 0
}

// Colors returns the placed robots in ordinal order.
func (r Robots) Colors() []Color {
	colors := make([]Color, 0, MaxRobots)
	for _, c := range RobotColors {
		if r.Placed(c) {
			colors = append(colors, c)
		}
	}
	return colors
}

// At returns the robot standing on p, if any.
func (r Robots) At(p Position) (Color, bool) {
	for i, c := range RobotColors {
		if r.placed&(1<<i) != 0 && r.positions[i] == p {
			return c, true
		}
	}
	return 0, false
}

// Hash returns the incrementally maintained content hash.
func (r Robots) Hash() uint64 {
	return r.hash
}

// Snapshot returns a map of placed robots to their positions.
func (r Robots) Snapshot() map[Color]Position {
	out := make(map[Color]Position, MaxRobots)
	for _, c := range r.Colors() {
		out[c] = r.positions[c.index()]
	}
	return out
}

func (r *Robots) relocate(keys *hashKeys, width int, c Color, from, to Position) {
	i := c.index()
	r.hash ^= keys.key(from.Y*width+from.X, c)
	r.hash ^= keys.key(to.Y*width+to.X, c)
	r.positions[i] = to
}

// restsOn reports whether c can stop on the barrier at p, which only a move
// through a barrier of c's own color does.
func (b *Board) restsOn(c Color, p Position) bool {
	bar, ok := b.Barrier(p)
	return ok && !bar.Deflects(c)
}

// Place puts robot c on p, moving it if it is already on the board. Besides
// standable cells it accepts a barrier of c's own color, where moves can
// leave a robot.
func (b *Board) Place(robots *Robots, c Color, p Position) error {
	if !c.IsRobot() {
		return fmt.Errorf("place %s: %w", c, ErrInvalidColor)
	}
	if !b.Valid(p) {
		return fmt.Errorf("place %s: %w: %s", c, ErrOutOfBounds, p)
	}
	if !b.Standable(p) && !b.restsOn(c, p) {
		return fmt.Errorf("place %s: %w: %s is %s", c, ErrCellNotStandable, p, b.Tile(p).Kind())
	}
	if other, ok := robots.At(p); ok && other != c {
		return fmt.Errorf("place %s: %w by %s at %s", c, ErrCellOccupied, other, p)
	}

	if robots.Placed(c) {
		robots.relocate(b.keys, b.width, c, robots.positions[c.index()], p)
		return nil
	}
	robots.placed |= 1 << c.index()
	robots.positions[c.index()] = p
	robots.hash ^= b.keys.key(b.geo.index(p), c)
	return nil
}

// Remove takes robot c off the board.
func (b *Board) Remove(robots *Robots, c Color) {
	if !robots.Placed(c) {
		return
	}
	p := robots.positions[c.index()]
	robots.hash ^= b.keys.key(b.geo.index(p), c)
	robots.placed &^= 1 << c.index()
	robots.positions[c.index()] = Position{}
}

// NewRobots places the given robots on b.
func (b *Board) NewRobots(placement map[Color]Position) (Robots, error) {
	var robots Robots
	for _, c := range RobotColors {
		p, ok := placement[c]
		if !ok {
			continue
		}
		if err := b.Place(&robots, c, p); err != nil {
			return Robots{}, err
		}
	}
	for c := range placement {
		if !c.IsRobot() {
			return Robots{}, fmt.Errorf("place %s: %w", c, ErrInvalidColor)
		}
	}
	return robots, nil
}

// Rehash recomputes the content hash of robots from scratch. Moves never
// need this; it exists to check the incremental hash.
func (b *Board) Rehash(robots *Robots) uint64 {
	var h uint64
	for _, c := range robots.Colors() {
		h ^= b.keys.key(b.geo.index(robots.positions[c.index()]), c)
	}
	return h
}
