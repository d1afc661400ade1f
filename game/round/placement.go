package round

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/wricardo/ricochet-robots/game/engine"
)

var ErrNoRoom = errors.New("not enough free cells for robots")

// PlaceRandomly puts Red, Green, Blue and Yellow (and Silver when useSilver
// is set) on distinct empty or goal cells drawn from rng.
func PlaceRandomly(b *engine.Board, rng *rand.Rand, useSilver bool) (engine.Robots, error) {
	colors := engine.RobotColors[:4]
	if useSilver {
		colors = engine.RobotColors[:]
	}

	free := engine.FreeCells(b, nil)
	if len(free) < len(colors) {
		return engine.Robots{}, fmt.Errorf("%w: need %d, have %d", ErrNoRoom, len(colors), len(free))
	}

	var robots engine.Robots
	for _, c := range colors {
		i := rng.Intn(len(free))
		if err := b.Place(&robots, c, free[i]); err != nil {
			return engine.Robots{}, err
		}
		free[i] = free[len(free)-1]
		free = free[:len(free)-1]
	}
	return robots, nil
}
