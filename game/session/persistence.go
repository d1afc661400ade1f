package session

import (
	"time"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/round"
	"github.com/wricardo/ricochet-robots/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// The map description travels with the session so edits to the maps
// directory never change a game in progress.
type PersistedSessionData struct {
	ID             string              `json:"id"`
	MapName        string              `json:"map_name"`
	Seed           int64               `json:"seed"`
	UseSilver      bool                `json:"use_silver"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	Map            *engine.Description `json:"map"`
	Round          round.Snapshot      `json:"round"`
}
