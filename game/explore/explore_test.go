package explore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/ricochet-robots/game/engine"
)

func cornerBoard(t *testing.T) (*engine.Board, engine.Robots) {
	t.Helper()
	b, err := engine.NewBoard(3, 3)
	require.NoError(t, err)
	robots, err := b.NewRobots(map[engine.Color]engine.Position{engine.Red: {X: 0, Y: 0}})
	require.NoError(t, err)
	return b, robots
}

func barrierBoard(t *testing.T) (*engine.Board, engine.Robots) {
	t.Helper()
	d := engine.NewDescription(5, 5).
		AddBarrier(engine.Position{X: 2, Y: 2}, engine.Barrier{Orientation: engine.Forward, Color: engine.Green}).
		AddWall(engine.Position{X: 1, Y: 3}, engine.East)
	b, err := engine.FromDescription(d)
	require.NoError(t, err)
	robots, err := b.NewRobots(map[engine.Color]engine.Position{
		engine.Red:   {X: 0, Y: 0},
		engine.Green: {X: 4, Y: 4},
	})
	require.NoError(t, err)
	return b, robots
}

func TestBFSCorners(t *testing.T) {
	b, start := cornerBoard(t)
	g := BFS(b, start)

	assert.Equal(t, 4, g.Stats.States)
	assert.Equal(t, 8, g.Stats.Transitions)
	assert.Equal(t, 2, g.Stats.MaxDepth)
	assert.False(t, g.Stats.Truncated)

	depths := map[engine.Position]int{}
	for _, n := range g.Nodes {
		depths[n.Robots.Position(engine.Red)] = n.Depth
	}
	assert.Equal(t, map[engine.Position]int{
		{X: 0, Y: 0}: 0,
		{X: 2, Y: 0}: 1,
		{X: 0, Y: 2}: 1,
		{X: 2, Y: 2}: 2,
	}, depths)
}

func TestBFSMonotonicDepth(t *testing.T) {
	b, start := barrierBoard(t)
	g := BFS(b, start)

	require.Equal(t, g.Start, g.Order[0])
	prev := 0
	g.Walk(func(n *Node) bool {
		assert.GreaterOrEqual(t, n.Depth, prev, "discovery order must not decrease in depth")
		prev = n.Depth
		return true
	})
	assert.Len(t, g.Order, g.Stats.States)
	assert.Len(t, g.Nodes, g.Stats.States)
}

func TestBFSPathsReplay(t *testing.T) {
	b, start := barrierBoard(t)
	g := BFS(b, start)

	for h, n := range g.Nodes {
		path, ok := g.Path(h)
		require.True(t, ok)
		require.Len(t, path, n.Depth)

		robots := start
		_, err := engine.Apply(b, &robots, path)
		require.NoError(t, err)
		assert.Equal(t, n.Robots, robots)
	}

	_, ok := g.Path(12345)
	assert.False(t, ok)
}

// bruteForce records the fewest moves needed to reach every configuration
// within limit moves by trying every sequence.
func bruteForce(b *engine.Board, robots engine.Robots, depth, limit int, moves []engine.Move, best map[engine.Robots]int) {
	if d, ok := best[robots]; ok && d <= depth {
		return
	}
	best[robots] = depth
	if depth == limit {
		return
	}
	for _, m := range moves {
		next := robots
		if _, err := engine.Resolve(b, &next, m.Color, m.Direction); err != nil {
			continue
		}
		bruteForce(b, next, depth+1, limit, moves, best)
	}
}

func TestBFSShortestPathsMatchBruteForce(t *testing.T) {
	const limit = 4
	b, start := barrierBoard(t)

	best := map[engine.Robots]int{}
	bruteForce(b, start, 0, limit, engine.AllMoves(start.Colors()), best)

	g := BFS(b, start, WithMaxDepth(limit))
	assert.Equal(t, len(best), g.Stats.States)
	for robots, depth := range best {
		n, ok := g.Node(robots.Hash())
		if assert.True(t, ok, "configuration missing from BFS") {
			assert.Equal(t, depth, n.Depth)
		}
	}
}

func TestBFSLimits(t *testing.T) {
	b, start := cornerBoard(t)

	g := BFS(b, start, WithMaxDepth(1))
	assert.Equal(t, 3, g.Stats.States)
	assert.Equal(t, 1, g.Stats.MaxDepth)

	g = BFS(b, start, WithMaxStates(2))
	assert.Equal(t, 2, g.Stats.States)
	assert.True(t, g.Stats.Truncated)
}

func TestBFSObserver(t *testing.T) {
	b, start := cornerBoard(t)

	var calls []Progress
	BFS(b, start, WithObserver(func(p Progress) { calls = append(calls, p) }, 1))

	require.NotEmpty(t, calls)
	last := calls[len(calls)-1]
	assert.Equal(t, 4, last.States)
	assert.Equal(t, 8, last.Transitions)
	assert.Equal(t, 4, last.Expanded)
}

func TestBFSStopWhen(t *testing.T) {
	b, start := cornerBoard(t)
	target := engine.Position{X: 2, Y: 2}

	g := BFS(b, start, WithStopWhen(func(_ *Graph, n *Node) bool {
		return n.Robots.Position(engine.Red) == target
	}))

	require.NotNil(t, g.Stopped)
	assert.Equal(t, 2, g.Stopped.Depth)
	path, ok := g.Path(g.Stopped.Hash)
	require.True(t, ok)
	assert.Len(t, path, 2)
}

func TestBFSWithColors(t *testing.T) {
	b, start := barrierBoard(t)
	g := BFS(b, start, WithColors(engine.Red))

	for _, n := range g.Nodes {
		assert.Equal(t, engine.Position{X: 4, Y: 4}, n.Robots.Position(engine.Green))
	}
}

func TestDFSCorners(t *testing.T) {
	b, start := cornerBoard(t)
	g := DFS(b, start)

	assert.Equal(t, 4, g.Stats.States)
	assert.Equal(t, 8, g.Stats.Transitions)
	// the stack walks east, south, west before backtracking
	assert.Equal(t, 3, g.Stats.MaxDepth)

	in := 0
	for _, s := range g.States {
		assert.Equal(t, 2, s.OutDegree())
		in += len(s.In)
	}
	assert.Equal(t, g.Stats.Transitions, in)

	root := g.States[g.Start]
	east, ok := root.Successor(engine.Move{Color: engine.Red, Direction: engine.East})
	require.True(t, ok)
	assert.Equal(t, engine.Position{X: 2, Y: 0}, g.States[east].Robots.Position(engine.Red))
	_, ok = root.Successor(engine.Move{Color: engine.Red, Direction: engine.North})
	assert.False(t, ok)
}

func TestDFSMatchesBFS(t *testing.T) {
	b, start := barrierBoard(t)
	bfs := BFS(b, start)
	dfs := DFS(b, start)

	assert.Equal(t, bfs.Stats.States, dfs.Stats.States)
	assert.Equal(t, bfs.Stats.Transitions, dfs.Stats.Transitions)
	assert.GreaterOrEqual(t, dfs.Stats.MaxDepth, bfs.Stats.MaxDepth)
	for h := range bfs.Nodes {
		_, ok := dfs.States[h]
		assert.True(t, ok)
	}
}

func TestDFSTransitionTable(t *testing.T) {
	b, start := barrierBoard(t)
	g := DFS(b, start)

	for _, s := range g.States {
		for _, m := range engine.AllMoves(start.Colors()) {
			robots := s.Robots
			_, err := engine.Resolve(b, &robots, m.Color, m.Direction)
			next, ok := s.Successor(m)
			if err != nil {
				assert.False(t, ok, "blocked move %s recorded", m)
				continue
			}
			if assert.True(t, ok, "successful move %s missing", m) {
				assert.Equal(t, robots.Hash(), next)
			}
		}
	}
}

func TestDFSLimits(t *testing.T) {
	b, start := cornerBoard(t)

	g := DFS(b, start, WithMaxDepth(1))
	assert.Equal(t, 1, g.Stats.MaxDepth)
	assert.Equal(t, 3, g.Stats.States)

	g = DFS(b, start, WithMaxStates(3))
	assert.Equal(t, 3, g.Stats.States)
	assert.True(t, g.Stats.Truncated)
}

func TestCancelledContext(t *testing.T) {
	b, start := barrierBoard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := BFS(b, start, WithContext(ctx))
	assert.True(t, g.Stats.Truncated)
	assert.Equal(t, 1, g.Stats.States)

	d := DFS(b, start, WithContext(ctx))
	assert.True(t, d.Stats.Truncated)
	assert.Equal(t, 1, d.Stats.States)
}

func TestDFSDepthLimitMatchesBFS(t *testing.T) {
	b, err := engine.NewBoard(6, 6)
	require.NoError(t, err)
	start, err := b.NewRobots(map[engine.Color]engine.Position{
		engine.Red:   {X: 2, Y: 3},
		engine.Blue:  {X: 4, Y: 1},
		engine.Green: {X: 1, Y: 4},
	})
	require.NoError(t, err)

	for depth := 1; depth <= 5; depth++ {
		bfs := BFS(b, start, WithMaxDepth(depth))
		dfs := DFS(b, start, WithMaxDepth(depth))

		assert.False(t, dfs.Stats.Truncated)
		require.Equal(t, bfs.Stats.States, dfs.Stats.States, "depth %d", depth)
		assert.Equal(t, bfs.Stats.Transitions, dfs.Stats.Transitions, "depth %d", depth)
		assert.Equal(t, bfs.Stats.MaxDepth, dfs.Stats.MaxDepth, "depth %d", depth)
		for h, n := range bfs.Nodes {
			s, ok := dfs.States[h]
			if assert.True(t, ok, "depth %d: configuration missing from DFS", depth) {
				assert.Equal(t, n.Depth, s.Depth)
			}
		}
	}
}
