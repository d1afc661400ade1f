package explore

import (
	"github.com/wricardo/ricochet-robots/game/engine"
)

// Node is a configuration discovered by BFS.
type Node struct {
	Robots engine.Robots `json:"-"`
	Hash   uint64        `json:"hash"`
	Depth  int           `json:"depth"`
	// Parent and Via are unset on the start node.
	Parent uint64      `json:"parent"`
	Via    engine.Move `json:"via"`
}

// Graph is the breadth-first tree of reachable configurations.
type Graph struct {
	Start uint64
	Nodes map[uint64]*Node
	// Order lists hashes in discovery order, which is also non-decreasing
	// depth order.
	Order []uint64
	Stats Stats
	// Stopped is the node accepted by WithStopWhen, if any.
	Stopped *Node
}

// Node looks a configuration up by hash.
func (g *Graph) Node(hash uint64) (*Node, bool) {
	n, ok := g.Nodes[hash]
	return n, ok
}

// Path rebuilds the moves leading from the start configuration to hash.
// Because parents are set on first discovery the path is a shortest one.
func (g *Graph) Path(hash uint64) (engine.MoveSequence, bool) {
	n, ok := g.Nodes[hash]
	if !ok {
		return nil, false
	}
	seq := make(engine.MoveSequence, n.Depth)
	for i := n.Depth - 1; i >= 0; i-- {
		seq[i] = n.Via
		n = g.Nodes[n.Parent]
	}
	return seq, true
}

// Walk visits nodes in discovery order until fn returns false.
func (g *Graph) Walk(fn func(*Node) bool) {
	for _, h := range g.Order {
		if !fn(g.Nodes[h]) {
			return
		}
	}
}

// BFS enumerates the configurations reachable from start breadth first.
func BFS(b *engine.Board, start engine.Robots, opts ...Option) *Graph {
	o := buildOptions(&start, opts)
	moves := engine.AllMoves(o.colors)

	root := &Node{Robots: start, Hash: start.Hash()}
	g := &Graph{
		Start: root.Hash,
		Nodes: map[uint64]*Node{root.Hash: root},
		Order: []uint64{root.Hash},
	}
	g.Stats.States = 1

	current := start
	tx := engine.NewTxStack(&current)
	queue := []*Node{root}
	expanded := 0

	for len(queue) > 0 {
		if o.cancelled() {
			g.Stats.Truncated = true
			break
		}
		n := queue[0]
		queue = queue[1:]
		if !o.depthAllowed(n.Depth) {
			continue
		}

		current = n.Robots
		tok := tx.Push()
		for _, m := range moves {
			// tok stays live until the Pop below
			_ = tx.Restore(tok)
			if _, err := engine.Resolve(b, &current, m.Color, m.Direction); err != nil {
				continue
			}
			g.Stats.Transitions++

			h := current.Hash()
			if _, seen := g.Nodes[h]; seen {
				continue
			}
			if !o.roomFor(len(g.Nodes)) {
				g.Stats.Truncated = true
				continue
			}

			child := &Node{Robots: current, Hash: h, Depth: n.Depth + 1, Parent: n.Hash, Via: m}
			g.Nodes[h] = child
			g.Order = append(g.Order, h)
			g.Stats.States++
			if child.Depth > g.Stats.MaxDepth {
				g.Stats.MaxDepth = child.Depth
			}
			queue = append(queue, child)

			if o.stop != nil && o.stop(g, child) {
				g.Stopped = child
				tx.Pop(false)
				o.report(g.progress(expanded, child.Depth, len(queue)), true)
				return g
			}
		}
		tx.Pop(false)

		expanded++
		o.report(g.progress(expanded, n.Depth, len(queue)), false)
	}

	o.report(g.progress(expanded, g.Stats.MaxDepth, 0), true)
	return g
}

func (g *Graph) progress(expanded, depth, pending int) Progress {
	return Progress{
		Expanded:    expanded,
		States:      g.Stats.States,
		Transitions: g.Stats.Transitions,
		Depth:       depth,
		Pending:     pending,
	}
}
