// Package dataset exports explored state spaces as Parquet files.
//
// Each configuration discovered by explore.BFS or explore.DFS becomes one
// StateRow: its hash, depth, the move that first reached it and the robot
// positions as parallel color/x/y columns. Files are written with zstd
// compression and a "schema" key in the footer metadata so readers can
// tell versions apart.
//
// Usage:
//
//	g := explore.BFS(board, robots, explore.WithMaxDepth(6))
//	rows := dataset.FromGraph(g)
//	if err := dataset.WriteStates("states.parquet", rows, nil); err != nil {
//		return err
//	}
package dataset
