package service

import (
	"context"
	"time"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/round"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Round Operations
	NextGoal(ctx context.Context, sessionID string) (*SessionInfo, error)
	CancelGoal(ctx context.Context, sessionID string) (*SessionInfo, error)
	SubmitMoves(ctx context.Context, sessionID string, moves engine.MoveSequence, commit bool) (*SubmitResult, error)

	// Search
	Hint(ctx context.Context, sessionID string, maxDepth int) (*HintResult, error)
	Explore(ctx context.Context, sessionID string, opts ExploreOptions) (*ExploreResult, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	LoadMap(ctx context.Context, name string) (*engine.Description, error)
	SaveMap(ctx context.Context, name string, desc *engine.Description) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, mapName string, desc *engine.Description, opts CreateOptions) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles map description loading
type ConfigManager interface {
	LoadMap(name string) (*engine.Description, error)
	ListMaps() ([]*MapInfo, error)
	GetDefault() (string, *engine.Description)
	SaveMap(name string, desc *engine.Description) error
}

// Session represents an active game session
type Session struct {
	ID             string
	MapName        string
	Seed           int64
	UseSilver      bool
	Map            *engine.Description
	Board          *engine.Board
	Round          *round.Round
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
