package round

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/explore"
)

// Hint search limits applied before caller options
const (
	DefaultHintDepth  = 8
	DefaultHintStates = 250000
)

var ErrNoSolution = errors.New("no solution found within the search limits")

// Hint searches breadth first for a legal solution of the active goal
// without changing the round. The result is the first legal sequence found
// along the search tree, so no shorter tree path solves the goal.
func (r *Round) Hint(opts ...explore.Option) (engine.MoveSequence, explore.Stats, error) {
	goal, ok := r.CurrentGoal()
	if !ok {
		return nil, explore.Stats{}, ErrNoActiveGoal
	}

	var found engine.MoveSequence
	stop := func(g *explore.Graph, n *explore.Node) bool {
		if n.Robots.Position(n.Via.Color) != goal.Position || !goal.Color.Matches(n.Via.Color) {
			return false
		}
		path, ok := g.Path(n.Hash)
		if !ok {
			return false
		}
		if _, err := r.ValidateAndApply(path, false); err != nil {
			return false
		}
		found = path
		return true
	}

	all := append([]explore.Option{
		explore.WithMaxDepth(DefaultHintDepth),
		explore.WithMaxStates(DefaultHintStates),
	}, opts...)
	all = append(all, explore.WithStopWhen(stop))

	g := explore.BFS(r.board, r.robots, all...)
	log.WithFields(log.Fields{
		"goal":   goal.String(),
		"states": g.Stats.States,
		"found":  found != nil,
	}).Debug("hint search finished")

	if found == nil {
		return nil, g.Stats, fmt.Errorf("%w: %s after %d states", ErrNoSolution, goal, g.Stats.States)
	}
	return found, g.Stats, nil
}
