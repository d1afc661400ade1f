// Package service provides the business logic layer for Ricochet Robots.
//
// The service package implements:
//   - Multi-session game management
//   - Goal drawing and move sequence validation
//   - Hints and reachability exploration
//   - Map listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface used by the CLI and the MCP
// server. SessionManager stores sessions; ConfigManager loads map
// descriptions.
//
// Architecture:
//
// The service layer sits between the transports and the game packages
// (engine, round, explore). Each session owns its own board and round. Round
// mutations are serialized by the service; exploration copies the robots
// under a read lock and searches without holding it.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	mapMgr, _ := config.NewManager("maps")
//	gameService := service.NewGameService(sessionMgr, mapMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateOptions{MapName: "classic", Seed: 42})
//	if err != nil {
//		log.Fatal(err)
//	}
//	info, _ = gameService.NextGoal(ctx, info.ID)
//	moves, _ := engine.ParseMoves("red:north,red:east")
//	result, _ := gameService.SubmitMoves(ctx, info.ID, moves, true)
//
// Rule violations in a submitted sequence come back as a SubmitResult with
// Valid unset and a ReasonCode; only lookups and infrastructure failures
// return errors.
package service
