package round

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/ricochet-robots/game/engine"
)

func TestPlaceRandomly(t *testing.T) {
	b := testBoard(t, threeGoals()...)

	tests := []struct {
		name      string
		useSilver bool
		count     int
	}{
		{"four robots", false, 4},
		{"with silver", true, 5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			robots, err := PlaceRandomly(b, rand.New(rand.NewSource(5)), test.useSilver)
			require.NoError(t, err)
			assert.Len(t, robots.Colors(), test.count)
			assert.Equal(t, test.useSilver, robots.Placed(engine.Silver))

			cells := map[engine.Position]bool{}
			for _, c := range robots.Colors() {
				p := robots.Position(c)
				assert.True(t, b.Standable(p), "%s placed on %s", c, b.Tile(p).Kind())
				assert.False(t, cells[p], "two robots on %s", p)
				cells[p] = true
			}
			assert.Equal(t, b.Rehash(&robots), robots.Hash())
		})
	}
}

func TestPlaceRandomlyDeterministic(t *testing.T) {
	b := testBoard(t)
	first, err := PlaceRandomly(b, rand.New(rand.NewSource(11)), true)
	require.NoError(t, err)
	second, err := PlaceRandomly(b, rand.New(rand.NewSource(11)), true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlaceRandomlyNoRoom(t *testing.T) {
	b, err := engine.FromDescription(engine.NewDescription(2, 2).AddObstacle(engine.Position{X: 1, Y: 1}))
	require.NoError(t, err)

	_, err = PlaceRandomly(b, rand.New(rand.NewSource(1)), false)
	assert.ErrorIs(t, err, ErrNoRoom)
}

func TestNewRandom(t *testing.T) {
	r, err := NewRandom(testBoard(t), rand.New(rand.NewSource(3)), false)
	require.NoError(t, err)
	robots := r.Robots()
	assert.Len(t, robots.Colors(), 4)
	assert.Equal(t, Idle, r.State())
}
