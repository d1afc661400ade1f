package round

import (
	"errors"
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/ricochet-robots/game/engine"
)

// State is the lifecycle of a round.
type State int

const (
	Idle State = iota
	GoalActive
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GoalActive:
		return "goal_active"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrDone          = errors.New("all goals completed")
	ErrNoActiveGoal  = errors.New("no active goal")
	ErrEmptySequence = errors.New("empty move sequence")
	ErrIllegalMove   = errors.New("illegal move")
	ErrGoalMissed    = errors.New("goal not reached")
	ErrTrailingMoves = errors.New("moves after the goal was reached")
	ErrNoRicochet    = errors.New("goal robot never changed direction")
	ErrNoRobots      = errors.New("no robots on the board")
)

// Result describes a validated move sequence.
type Result struct {
	Goal      engine.Goal    `json:"goal"`
	Robot     engine.Color   `json:"robot"`
	Traces    []engine.Trace `json:"traces"`
	Committed bool           `json:"committed"`
}

// Round runs one game on a fixed board: it hands out goals and checks
// submitted move sequences against them.
type Round struct {
	board     *engine.Board
	robots    engine.Robots
	tx        *engine.TxStack
	rng       *rand.Rand
	remaining []engine.Goal
	current   *engine.Goal
	completed []engine.Goal
	moves     int
}

// New starts a round with the given robot placement. Every goal marked on
// the board goes into the pool.
func New(board *engine.Board, robots engine.Robots, rng *rand.Rand) (*Round, error) {
	if len(robots.Colors()) == 0 {
		return nil, ErrNoRobots
	}
	if rng == nil {
		return nil, fmt.Errorf("new round: random source is required")
	}

	r := &Round{
		board:     board,
		robots:    robots,
		rng:       rng,
		remaining: board.Goals(),
	}
	r.tx = engine.NewTxStack(&r.robots)
	return r, nil
}

// NewRandom places robots at random and starts a round.
func NewRandom(board *engine.Board, rng *rand.Rand, useSilver bool) (*Round, error) {
	robots, err := PlaceRandomly(board, rng, useSilver)
	if err != nil {
		return nil, err
	}
	return New(board, robots, rng)
}

// Board returns the board the round is played on
func (r *Round) Board() *engine.Board { return r.board }

// Robots returns a copy of the current configuration.
func (r *Round) Robots() engine.Robots { return r.robots }

// State reports where the round is in its lifecycle.
func (r *Round) State() State {
	if r.current != nil {
		return GoalActive
	}
	if len(r.remaining) == 0 {
		return Done
	}
	return Idle
}

// CurrentGoal returns the active goal, if any.
func (r *Round) CurrentGoal() (engine.Goal, bool) {
	if r.current == nil {
		return engine.Goal{}, false
	}
	return *r.current, true
}

// Remaining returns how many goals are still in the pool.
func (r *Round) Remaining() int { return len(r.remaining) }

// Completed returns the goals solved so far in completion order.
func (r *Round) Completed() []engine.Goal {
	out := make([]engine.Goal, len(r.completed))
	copy(out, r.completed)
	return out
}

// Score is the number of completed goals.
func (r *Round) Score() int { return len(r.completed) }

// Moves is the number of moves committed over the whole round.
func (r *Round) Moves() int { return r.moves }

// NextGoal draws a goal at random from the pool. An active goal that has
// not been completed goes back into the pool first, so when it is the only
// one left it is returned again.
func (r *Round) NextGoal() (engine.Goal, error) {
	if r.State() == Done {
		return engine.Goal{}, ErrDone
	}
	if r.current != nil {
		if len(r.remaining) == 0 {
			return *r.current, nil
		}
		r.remaining = append(r.remaining, *r.current)
		r.current = nil
	}

	i := r.rng.Intn(len(r.remaining))
	goal := r.remaining[i]
	r.remaining[i] = r.remaining[len(r.remaining)-1]
	r.remaining = r.remaining[:len(r.remaining)-1]
	r.current = &goal

	log.WithFields(log.Fields{"goal": goal.String(), "remaining": len(r.remaining)}).Debug("next goal")
	return goal, nil
}

// CancelGoal returns the active goal to the pool. It reports false when no
// goal was active.
func (r *Round) CancelGoal() bool {
	if r.current == nil {
		return false
	}
	r.remaining = append(r.remaining, *r.current)
	log.WithField("goal", r.current.String()).Debug("goal cancelled")
	r.current = nil
	return true
}

// ValidateAndApply plays seq against the active goal. The sequence is legal
// when every move succeeds, the last move brings a matching robot onto the
// goal, no earlier move already did so, and that robot changed direction at
// least once along the way (a barrier bounce counts). With commit set a
// legal sequence is kept and completes the goal; in every other case the
// configuration is rolled back.
func (r *Round) ValidateAndApply(seq engine.MoveSequence, commit bool) (Result, error) {
	if r.current == nil {
		return Result{}, ErrNoActiveGoal
	}
	if len(seq) == 0 {
		return Result{}, ErrEmptySequence
	}

	goal := *r.current
	r.tx.Push()
	res, err := r.check(goal, seq)
	if err != nil || !commit {
		r.tx.PopAll()
		return res, err
	}

	r.tx.Apply()
	res.Committed = true
	r.completed = append(r.completed, goal)
	r.current = nil
	r.moves += len(seq)

	log.WithFields(log.Fields{
		"goal":  goal.String(),
		"robot": res.Robot.String(),
		"moves": len(seq),
		"score": r.Score(),
	}).Info("goal completed")
	return res, nil
}

func (r *Round) check(goal engine.Goal, seq engine.MoveSequence) (Result, error) {
	res := Result{Goal: goal, Traces: make([]engine.Trace, 0, len(seq))}
	last := len(seq) - 1

	for i, m := range seq {
		tr, err := engine.Resolve(r.board, &r.robots, m.Color, m.Direction)
		if err != nil {
			return res, fmt.Errorf("%w: move %d (%s): %w", ErrIllegalMove, i+1, m, err)
		}
		res.Traces = append(res.Traces, tr)

		if tr.To == goal.Position && goal.Color.Matches(m.Color) {
			if i != last {
				return res, fmt.Errorf("%w: %s reached the goal at move %d of %d", ErrTrailingMoves, m.Color, i+1, len(seq))
			}
			res.Robot = m.Color
		}
	}

	if res.Robot == 0 {
		return res, fmt.Errorf("%w: %s", ErrGoalMissed, goal)
	}
	if !Ricocheted(res.Traces, res.Robot) {
		return res, fmt.Errorf("%w: %s", ErrNoRicochet, res.Robot)
	}
	return res, nil
}

// Ricocheted reports whether robot c turned by 90 degrees at some point in
// traces: either a barrier deflected it inside a move, or one of its moves
// started perpendicular to where its previous move ended.
func Ricocheted(traces []engine.Trace, c engine.Color) bool {
	var prev engine.Direction
	for _, tr := range traces {
		if tr.Color != c {
			continue
		}
		if tr.Turned() {
			return true
		}
		if prev != 0 && prev.Perpendicular(tr.First) {
			return true
		}
		prev = tr.Last
	}
	return false
}
