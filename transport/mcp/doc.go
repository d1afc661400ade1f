// Package mcp exposes Ricochet Robots to AI agents over the Model Context
// Protocol.
//
// The package implements:
//   - An MCP server backed directly by a service.GameService
//   - Tool definitions for sessions, goals, move submission and search
//   - Text formatting of boards and results for language models
//
// MCP Tools:
//   - list_maps: List available map descriptions
//   - create_session: Start a game on a map with an optional seed
//   - get_session: Board, robots, goal and score of a session
//   - next_goal: Draw the next goal
//   - cancel_goal: Return the active goal to the pool
//   - submit_moves: Validate or commit a sequence such as ["red:north", "blue:west"]
//   - hint: Shortest legal solution found for the active goal
//   - explore: Reachability statistics from the current robots
//
// Usage:
//
//	srv := mcp.NewServer(gameService)
//	if err := srv.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
//
// Rule violations in submit_moves are reported as normal text results with
// the reason code; lookup failures come back as tool errors.
package mcp
