// Package engine implements the board and move rules of Ricochet Robots.
//
// The engine package covers:
//   - Static board geometry kept as four per-direction distance tables
//   - Colored diagonal barriers that deflect every robot but their owner
//   - Robot configurations with an incrementally updated content hash
//   - Move resolution with barrier bounces and bounce-cycle detection
//   - Snapshot and rollback of configurations through TxStack
//   - JSON map descriptions with validation
//
// Core Types:
//
// Board is built once from a Description and only read afterwards. Robots
// is a small value type holding robot positions and their hash; copying it
// takes a snapshot. Resolve is the single entry point that moves a robot.
// Tile is a closed sum type (Empty, Barrier, GoalMarker, Inaccessible)
// inspected with a type switch.
//
// Usage:
//
//	desc, err := engine.LoadDescription("maps/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	board, err := engine.FromDescription(desc)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	robots, _ := board.NewRobots(map[engine.Color]engine.Position{
//		engine.Red: {X: 0, Y: 0},
//	})
//	trace, err := engine.Resolve(board, &robots, engine.Red, engine.East)
//
// Move Rules:
//
// A robot slides until a wall, an inaccessible cell or another robot stops
// it. Entering a barrier of another color turns the robot by 90 degrees and
// it keeps sliding. A move that cannot leave the starting cell returns
// ErrBlocked.
package engine
