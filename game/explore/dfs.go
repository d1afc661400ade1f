package explore

import (
	"github.com/wricardo/ricochet-robots/game/engine"
)

// State is a configuration discovered by DFS together with its transition
// table.
type State struct {
	Robots engine.Robots `json:"-"`
	Hash   uint64        `json:"hash"`
	// Depth is the stack depth at first discovery, not necessarily the
	// shortest distance from the start. Under WithMaxDepth it is lowered to
	// the shallowest depth the traversal reaches the state at.
	Depth int `json:"depth"`
	// Next holds the target hash for every move slot that succeeds; Known
	// marks which slots are filled.
	Next  [engine.Slots]uint64 `json:"-"`
	Known uint32               `json:"known"`
	// In lists the configurations with a transition into this one, once per
	// transition.
	In []uint64 `json:"in"`
}

// Successor returns the configuration reached by m, if that move succeeds.
func (s *State) Successor(m engine.Move) (uint64, bool) {
	slot := m.Slot()
	if s.Known&(1<<slot) == 0 {
		return 0, false
	}
	return s.Next[slot], true
}

// OutDegree counts the successful moves out of s.
func (s *State) OutDegree() int {
	n := 0
	for k := s.Known; k != 0; k &= k - 1 {
		n++
	}
	return n
}

// StateGraph is the result of a depth-first traversal.
type StateGraph struct {
	Start  uint64
	States map[uint64]*State
	Stats  Stats
}

type frame struct {
	state *State
	tok   engine.Token
	depth int
	next  int
}

// DFS enumerates the configurations reachable from start depth first with
// an explicit stack. Every frame owns a TxStack snapshot; moves are tried
// from that snapshot and the frame is popped once all moves are exhausted.
//
// With WithMaxDepth a configuration first found deep in the stack may be
// cut off by the limit. When it is reached again along a shorter path its
// depth is lowered and it is expanded again, so the result holds exactly the
// configurations within the limit. Transitions already in a state's table
// are reused and counted once.
func DFS(b *engine.Board, start engine.Robots, opts ...Option) *StateGraph {
	o := buildOptions(&start, opts)
	moves := engine.AllMoves(o.colors)

	root := &State{Robots: start, Hash: start.Hash()}
	g := &StateGraph{
		Start:  root.Hash,
		States: map[uint64]*State{root.Hash: root},
	}
	g.Stats.States = 1

	current := start
	tx := engine.NewTxStack(&current)
	stack := []frame{{state: root, tok: tx.Push()}}
	expanded := 0

	for len(stack) > 0 {
		if o.cancelled() {
			g.Stats.Truncated = true
			break
		}
		top := len(stack) - 1
		f := &stack[top]

		if f.next >= len(moves) || !o.depthAllowed(f.depth) {
			tx.Pop(false)
			stack = stack[:top]
			expanded++
			o.report(g.progress(expanded, top, len(stack)), false)
			continue
		}

		m := moves[f.next]
		f.next++
		parent := f.state
		depth := f.depth + 1
		_ = tx.Restore(f.tok)

		slot := m.Slot()
		if parent.Known&(1<<slot) != 0 {
			// revisit under a depth limit: only the depth can improve
			next, ok := g.States[parent.Next[slot]]
			if ok && next.Depth > depth {
				next.Depth = depth
				current = next.Robots
				stack = append(stack, frame{state: next, tok: tx.Push(), depth: depth})
			}
			continue
		}

		if _, err := engine.Resolve(b, &current, m.Color, m.Direction); err != nil {
			continue
		}
		g.Stats.Transitions++

		h := current.Hash()
		parent.Next[slot] = h
		parent.Known |= 1 << slot

		if seen, ok := g.States[h]; ok {
			seen.In = append(seen.In, parent.Hash)
			if o.maxDepth > 0 && seen.Depth > depth {
				seen.Depth = depth
				stack = append(stack, frame{state: seen, tok: tx.Push(), depth: depth})
			}
			continue
		}
		if !o.roomFor(len(g.States)) {
			g.Stats.Truncated = true
			continue
		}

		child := &State{Robots: current, Hash: h, Depth: depth, In: []uint64{parent.Hash}}
		g.States[h] = child
		g.Stats.States++
		stack = append(stack, frame{state: child, tok: tx.Push(), depth: depth})
	}

	for _, s := range g.States {
		if s.Depth > g.Stats.MaxDepth {
			g.Stats.MaxDepth = s.Depth
		}
	}
	o.report(g.progress(expanded, 0, 0), true)
	return g
}

func (g *StateGraph) progress(expanded, depth, pending int) Progress {
	return Progress{
		Expanded:    expanded,
		States:      g.Stats.States,
		Transitions: g.Stats.Transitions,
		Depth:       depth,
		Pending:     pending,
	}
}
