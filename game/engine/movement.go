package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidDirection = errors.New("invalid direction")

var (
	// ErrBlocked means the robot cannot leave its cell in the requested
	// direction.
	ErrBlocked = errors.New("move blocked")
	// ErrBounceCycle is returned for a path that keeps bouncing between
	// barriers forever. It wraps ErrBlocked.
	ErrBounceCycle = fmt.Errorf("%w: barrier bounce cycle", ErrBlocked)
)

// Trace records how a resolved move travelled.
type Trace struct {
	Color   Color     `json:"color"`
	From    Position  `json:"from"`
	To      Position  `json:"to"`
	First   Direction `json:"first"`
	Last    Direction `json:"last"`
	Bounces int       `json:"bounces"`
	Cells   int       `json:"cells"`
}

// Turned reports whether a barrier deflected the robot at least once.
func (t Trace) Turned() bool {
	return t.Bounces > 0
}

// Resolve moves robot c in direction d until a wall, an inaccessible cell or
// another robot stops it. Foreign-colored barriers reflect the robot and it
// keeps travelling; barriers of its own color let it through unchanged.
// On success robots is updated in place, hash included. On error robots is
// left untouched.
func Resolve(b *Board, robots *Robots, c Color, d Direction) (Trace, error) {
	if !c.IsRobot() {
		return Trace{}, fmt.Errorf("resolve %s: %w", c, ErrInvalidColor)
	}
	if !robots.Placed(c) {
		return Trace{}, fmt.Errorf("resolve %s: %w", c, ErrRobotMissing)
	}
	if !d.Valid() {
		return Trace{}, fmt.Errorf("resolve %s: %w %d", c, ErrInvalidDirection, d)
	}

	start := robots.positions[c.index()]
	tr := Trace{Color: c, From: start, First: d, Last: d}

	pos, dir := start, d
	through := false
	var guardPos Position
	var guardDir Direction
	guarded := false
	limit := 4*b.width*b.height + 4

	for segment := 0; ; segment++ {
		if segment > limit {
			return Trace{}, fmt.Errorf("resolve %s %s from %s: %w", c, d, start, ErrBounceCycle)
		}

		n := b.geo.distance(pos, dir)
		n = distanceToRobot(pos, dir, n, robots, c)
		if n == 0 {
			if through {
				// resting on a barrier of its own color
				break
			}
			return Trace{}, fmt.Errorf("resolve %s %s from %s: %w", c, d, start, ErrBlocked)
		}

		next := pos.Step(dir, n)
		tr.Cells += n
		bar, isBarrier := b.tiles[b.geo.index(next)].(Barrier)
		if !isBarrier {
			pos = next
			break
		}

		if !bar.Deflects(c) {
			pos = next
			through = true
			continue
		}

		dir = bar.Orientation.Reflect(dir)
		tr.Bounces++
		tr.Last = dir
		through = false
		pos = next
		if !guarded {
			guardPos, guardDir, guarded = pos, dir, true
		} else if pos == guardPos && dir == guardDir {
			return Trace{}, fmt.Errorf("resolve %s %s from %s: %w", c, d, start, ErrBounceCycle)
		}
	}

	if pos == start {
		// looped back onto its own cell: the configuration would not change
		return Trace{}, fmt.Errorf("resolve %s %s from %s: %w", c, d, start, ErrBlocked)
	}

	tr.To = pos
	robots.relocate(b.keys, b.width, c, start, pos)
	return tr, nil
}

// Apply resolves every move of seq in order. It stops at the first illegal
// move and returns the traces collected so far together with the error;
// robots then reflects the moves that did succeed.
func Apply(b *Board, robots *Robots, seq MoveSequence) ([]Trace, error) {
	traces := make([]Trace, 0, len(seq))
	for i, m := range seq {
		tr, err := Resolve(b, robots, m.Color, m.Direction)
		if err != nil {
			return traces, fmt.Errorf("move %d (%s): %w", i+1, m, err)
		}
		traces = append(traces, tr)
	}
	return traces, nil
}

// AllMoves lists every (color, direction) pair for colors in slot order.
func AllMoves(colors []Color) []Move {
	moves := make([]Move, 0, len(colors)*4)
	for _, c := range colors {
		for _, d := range AllDirections {
			moves = append(moves, Move{Color: c, Direction: d})
		}
	}
	return moves
}

// Slot returns the fixed index of m among the Slots possible moves.
func (m Move) Slot() int {
	return m.Color.index()*4 + m.Direction.index()
}

// MoveAt is the inverse of Move.Slot.
func MoveAt(slot int) Move {
	return Move{Color: RobotColors[slot/4], Direction: AllDirections[slot%4]}
}
