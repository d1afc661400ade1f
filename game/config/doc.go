// Package config loads Ricochet Robots map descriptions from a directory.
//
// Each map is a JSON file holding an engine.Description: board size, walls,
// obstacles, goals and barriers. The file name without .json is the map ID
// used when creating sessions.
//
// Maps are validated on load and cached; RefreshCache drops the cache after
// files change on disk. The default map is "classic" when present, else the
// first valid map in the directory, else a built-in 8x8 board.
//
// Usage:
//
//	manager, err := config.NewManager("maps")
//	if err != nil {
//		log.Fatal(err)
//	}
//	desc, err := manager.LoadMap("classic")
//	board, err := engine.FromDescription(desc)
package config
