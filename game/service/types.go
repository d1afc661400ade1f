package service

import (
	"time"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/explore"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string                     `json:"id"`
	MapName        string                     `json:"map_name"`
	Seed           int64                      `json:"seed"`
	CreatedAt      time.Time                  `json:"created_at"`
	LastAccessedAt time.Time                  `json:"last_accessed_at"`
	Width          int                        `json:"width"`
	Height         int                        `json:"height"`
	State          string                     `json:"state"`
	Robots         map[string]engine.Position `json:"robots"`
	CurrentGoal    *engine.Goal               `json:"current_goal,omitempty"`
	Remaining      int                        `json:"remaining_goals"`
	Completed      []engine.Goal              `json:"completed_goals"`
	Score          int                        `json:"score"`
	Moves          int                        `json:"moves"`
	// Board is the text rendering of the board with the robots on it
	Board string `json:"board"`
}

// CreateOptions configures a new session
type CreateOptions struct {
	// MapName selects a map from the maps directory; empty means the default.
	MapName string `json:"map_name"`
	// Seed drives robot placement and goal order; zero picks one at random.
	Seed      int64 `json:"seed"`
	UseSilver bool  `json:"use_silver"`
}

// SubmitResult contains the outcome of a submitted move sequence
type SubmitResult struct {
	Valid     bool   `json:"valid"`
	Committed bool   `json:"committed"`
	Reason    string `json:"reason,omitempty"`
	// ReasonCode is machine friendly: illegal_move|goal_missed|trailing_moves|no_ricochet|empty_sequence|no_active_goal
	ReasonCode string         `json:"reason_code,omitempty"`
	Robot      string         `json:"robot,omitempty"`
	Traces     []engine.Trace `json:"traces,omitempty"`
	Session    *SessionInfo   `json:"session"`
}

// HintResult is the shortest legal sequence found for the active goal
type HintResult struct {
	Goal  engine.Goal   `json:"goal"`
	Moves []string      `json:"moves"`
	Stats explore.Stats `json:"stats"`
}

// ExploreOptions configures a reachability run
type ExploreOptions struct {
	// Strategy is "bfs" or "dfs".
	Strategy  string `json:"strategy"`
	MaxDepth  int    `json:"max_depth"`
	MaxStates int    `json:"max_states"`
	// Export, when set, is a path the discovered states are written to as
	// Parquet.
	Export string `json:"export,omitempty"`
}

// ExploreResult summarizes a reachability run
type ExploreResult struct {
	Strategy string        `json:"strategy"`
	Stats    explore.Stats `json:"stats"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	// Exported is the number of rows written to ExploreOptions.Export.
	Exported int `json:"exported,omitempty"`
}

// MapInfo provides information about a map description
type MapInfo struct {
	Filename    string `json:"filename"`
	MapID       string `json:"map_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Goals       int    `json:"goals"`
	Barriers    int    `json:"barriers"`
}
