// Package explore enumerates the robot configurations reachable from a
// start configuration.
//
// BFS builds a tree with parent links in discovery order, so Graph.Path
// returns a shortest move sequence to any discovered configuration. DFS uses
// an explicit stack of TxStack snapshots and records, for every
// configuration, a transition table with one slot per (color, direction)
// pair plus the list of its predecessors.
//
// Configurations are deduplicated on their content hash. Both traversals
// report the number of distinct configurations, the number of successful
// transitions and the maximum depth. Limits and a progress observer are set
// with functional options:
//
//	g := explore.BFS(board, robots,
//		explore.WithMaxDepth(6),
//		explore.WithObserver(func(p explore.Progress) {
//			log.WithField("states", p.States).Info("exploring")
//		}, 10000),
//	)
//	path, _ := g.Path(hash)
package explore
