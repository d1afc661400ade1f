package session

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/round"
	"github.com/wricardo/ricochet-robots/game/service"
)

// FilePersistence implements SessionPersistence with one JSON file per session
type FilePersistence struct {
	sessionsDir string
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create sessions directory")
	}
	return &FilePersistence{sessionsDir: sessionsDir}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	data := PersistedSessionData{
		ID:             session.ID,
		MapName:        session.MapName,
		Seed:           session.Seed,
		UseSilver:      session.UseSilver,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Map:            session.Map,
		Round:          session.Round.Snapshot(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal session data")
	}
	if err := os.WriteFile(fp.getFilePath(session.ID), jsonData, 0o644); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}
	return nil
}

// Load rebuilds a session from its JSON file. Goal draws after a reload
// come from a source seeded with the session seed and the goals completed
// so far.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	jsonData, err := os.ReadFile(fp.getFilePath(id))
	if os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session file")
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session data")
	}
	if data.Map == nil {
		return nil, fmt.Errorf("session %s has no map", id)
	}

	board, err := engine.FromDescription(data.Map)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to rebuild board for session %s", id)
	}
	rng := rand.New(rand.NewSource(data.Seed + int64(len(data.Round.Completed))))
	r, err := round.Restore(board, data.Round, rng)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore round for session %s", id)
	}

	return &service.Session{
		ID:             data.ID,
		MapName:        data.MapName,
		Seed:           data.Seed,
		UseSilver:      data.UseSilver,
		Map:            data.Map,
		Board:          board,
		Round:          r,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sessions directory")
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, strings.ToLower(id)+".json")
}
