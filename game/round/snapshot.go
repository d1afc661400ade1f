package round

import (
	"fmt"
	"math/rand"

	"github.com/wricardo/ricochet-robots/game/engine"
)

// Snapshot is the serializable progress of a round. The board itself is not
// part of it; restore against the same map description.
type Snapshot struct {
	Robots    map[engine.Color]engine.Position `json:"robots"`
	Remaining []engine.Goal                    `json:"remaining"`
	Current   *engine.Goal                     `json:"current,omitempty"`
	Completed []engine.Goal                    `json:"completed"`
	Moves     int                              `json:"moves"`
}

// Snapshot captures the current progress.
func (r *Round) Snapshot() Snapshot {
	s := Snapshot{
		Robots:    r.robots.Snapshot(),
		Remaining: append([]engine.Goal(nil), r.remaining...),
		Completed: r.Completed(),
		Moves:     r.moves,
	}
	if r.current != nil {
		g := *r.current
		s.Current = &g
	}
	return s
}

// Restore rebuilds a round on board from a snapshot. Every goal in the
// snapshot has to be marked on the board.
func Restore(board *engine.Board, s Snapshot, rng *rand.Rand) (*Round, error) {
	robots, err := board.NewRobots(s.Robots)
	if err != nil {
		return nil, fmt.Errorf("restore robots: %w", err)
	}
	r, err := New(board, robots, rng)
	if err != nil {
		return nil, err
	}

	check := func(g engine.Goal) error {
		marked, ok := board.Goal(g.Position)
		if !ok || marked != g {
			return fmt.Errorf("restore: goal %s is not on the board", g)
		}
		return nil
	}
	for _, g := range s.Remaining {
		if err := check(g); err != nil {
			return nil, err
		}
	}
	for _, g := range s.Completed {
		if err := check(g); err != nil {
			return nil, err
		}
	}
	if s.Current != nil {
		if err := check(*s.Current); err != nil {
			return nil, err
		}
		g := *s.Current
		r.current = &g
	}

	r.remaining = append([]engine.Goal(nil), s.Remaining...)
	r.completed = append([]engine.Goal(nil), s.Completed...)
	r.moves = s.Moves
	return r, nil
}
