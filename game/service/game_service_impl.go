package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/ricochet-robots/game/dataset"
	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/explore"
	"github.com/wricardo/ricochet-robots/game/round"
)

// Explore limits applied when the request leaves them at zero
const (
	DefaultExploreDepth  = 6
	DefaultExploreStates = 500000
)

var ErrUnknownStrategy = errors.New("unknown exploration strategy")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	maps     ConfigManager
	// mu serializes round mutations across sessions
	mu sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, maps ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
}

// CreateSession creates a new game session on the named map, or the default
// map when opts.MapName is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		mapName = opts.MapName
		desc    *engine.Description
		err     error
	)
	if mapName != "" {
		desc, err = s.maps.LoadMap(mapName)
		if err != nil {
			if available := s.mapIDs(); len(available) > 0 {
				return nil, fmt.Errorf("map '%s' not available (%v). Available maps: %v", mapName, err, available)
			}
			return nil, fmt.Errorf("failed to load map %s: %w", mapName, err)
		}
	} else {
		mapName, desc = s.maps.GetDefault()
	}

	session, err := s.sessions.Create("", mapName, desc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sessionInfo(session), nil
}

// GetSession retrieves session information. It takes the write lock
// because reading a session updates its access time.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.touch(sessionID)
	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, sessionInfo(session))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// NextGoal draws the next goal of the session's round
func (s *gameServiceImpl) NextGoal(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if _, err := session.Round.NextGoal(); err != nil {
		return nil, err
	}
	s.touch(sessionID)
	return sessionInfo(session), nil
}

// CancelGoal puts the active goal back into the pool
func (s *gameServiceImpl) CancelGoal(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if !session.Round.CancelGoal() {
		return nil, round.ErrNoActiveGoal
	}
	s.touch(sessionID)
	return sessionInfo(session), nil
}

// SubmitMoves validates a move sequence against the active goal and, with
// commit set, applies it when legal. A rule violation is reported in the
// result rather than as an error.
func (s *gameServiceImpl) SubmitMoves(ctx context.Context, sessionID string, moves engine.MoveSequence, commit bool) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	res, err := session.Round.ValidateAndApply(moves, commit)
	result := &SubmitResult{
		Valid:     err == nil,
		Committed: res.Committed,
		Traces:    res.Traces,
	}
	if err != nil {
		result.Reason = err.Error()
		result.ReasonCode = reasonCode(err)
	} else {
		result.Robot = res.Robot.String()
	}

	log.WithFields(log.Fields{
		"session": sessionID,
		"moves":   len(moves),
		"valid":   result.Valid,
		"commit":  commit,
	}).Debug("moves submitted")

	if commit && result.Valid {
		s.touch(sessionID)
	}
	result.Session = sessionInfo(session)
	return result, nil
}

// Hint searches for a solution of the active goal without changing the round
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string, maxDepth int) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	goal, ok := session.Round.CurrentGoal()
	if !ok {
		return nil, round.ErrNoActiveGoal
	}

	opts := []explore.Option{explore.WithContext(ctx)}
	if maxDepth > 0 {
		opts = append(opts, explore.WithMaxDepth(maxDepth))
	}
	seq, stats, err := session.Round.Hint(opts...)
	if err != nil {
		return nil, err
	}
	return &HintResult{Goal: goal, Moves: seq.Strings(), Stats: stats}, nil
}

// Explore enumerates the configurations reachable from the session's
// current robots. The round is not touched.
func (s *gameServiceImpl) Explore(ctx context.Context, sessionID string, opts ExploreOptions) (*ExploreResult, error) {
	s.mu.RLock()
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("session not found: %w", err)
	}
	board, robots := session.Board, session.Round.Robots()
	s.mu.RUnlock()

	strategy := strings.ToLower(opts.Strategy)
	if strategy == "" {
		strategy = "bfs"
	}
	maxDepth, maxStates := opts.MaxDepth, opts.MaxStates
	if maxDepth <= 0 {
		maxDepth = DefaultExploreDepth
	}
	if maxStates <= 0 {
		maxStates = DefaultExploreStates
	}

	logger := log.WithFields(log.Fields{"session": sessionID, "strategy": strategy})
	searchOpts := []explore.Option{
		explore.WithContext(ctx),
		explore.WithMaxDepth(maxDepth),
		explore.WithMaxStates(maxStates),
		explore.WithObserver(func(p explore.Progress) {
			logger.WithFields(log.Fields{
				"states":      p.States,
				"transitions": p.Transitions,
				"depth":       p.Depth,
				"pending":     p.Pending,
			}).Debug("exploring")
		}, 0),
	}

	started := time.Now()
	var (
		stats explore.Stats
		rows  []dataset.StateRow
	)
	switch strategy {
	case "bfs":
		g := explore.BFS(board, robots, searchOpts...)
		stats = g.Stats
		if opts.Export != "" {
			rows = dataset.FromGraph(g)
		}
	case "dfs":
		g := explore.DFS(board, robots, searchOpts...)
		stats = g.Stats
		if opts.Export != "" {
			rows = dataset.FromStateGraph(g)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
	elapsed := time.Since(started)

	logger.WithFields(log.Fields{
		"states":  stats.States,
		"elapsed": elapsed,
	}).Info("exploration finished")

	result := &ExploreResult{Strategy: strategy, Stats: stats, Elapsed: elapsed}
	if opts.Export != "" {
		meta := map[string]string{
			"session":   sessionID,
			"map":       session.MapName,
			"strategy":  strategy,
			"truncated": fmt.Sprint(stats.Truncated),
		}
		if err := dataset.WriteStates(opts.Export, rows, meta); err != nil {
			return nil, fmt.Errorf("export states: %w", err)
		}
		result.Exported = len(rows)
		logger.WithFields(log.Fields{"path": opts.Export, "rows": len(rows)}).Info("states exported")
	}
	return result, nil
}

// ListMaps returns information about all available maps
func (s *gameServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListMaps()
}

// LoadMap loads a map description by name
func (s *gameServiceImpl) LoadMap(ctx context.Context, name string) (*engine.Description, error) {
	return s.maps.LoadMap(name)
}

// SaveMap validates and stores a map description
func (s *gameServiceImpl) SaveMap(ctx context.Context, name string, desc *engine.Description) error {
	return s.maps.SaveMap(name, desc)
}

func (s *gameServiceImpl) touch(sessionID string) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		log.WithError(err).WithField("session", sessionID).Debug("failed to update last access")
	}
}

func (s *gameServiceImpl) mapIDs() []string {
	maps, err := s.maps.ListMaps()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(maps))
	for _, m := range maps {
		ids = append(ids, m.MapID)
	}
	return ids
}

func sessionInfo(session *Session) *SessionInfo {
	r := session.Round
	current := r.Robots()
	robots := make(map[string]engine.Position)
	for c, p := range current.Snapshot() {
		robots[c.String()] = p
	}

	info := &SessionInfo{
		ID:             session.ID,
		MapName:        session.MapName,
		Seed:           session.Seed,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Width:          session.Board.Width(),
		Height:         session.Board.Height(),
		State:          r.State().String(),
		Robots:         robots,
		Remaining:      r.Remaining(),
		Completed:      r.Completed(),
		Score:          r.Score(),
		Moves:          r.Moves(),
		Board:          engine.Render(session.Board, &current),
	}
	if goal, ok := r.CurrentGoal(); ok {
		info.CurrentGoal = &goal
	}
	return info
}

// reasonCode maps round errors onto stable short codes for clients
func reasonCode(err error) string {
	switch {
	case errors.Is(err, round.ErrNoActiveGoal):
		return "no_active_goal"
	case errors.Is(err, round.ErrEmptySequence):
		return "empty_sequence"
	case errors.Is(err, round.ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, round.ErrTrailingMoves):
		return "trailing_moves"
	case errors.Is(err, round.ErrGoalMissed):
		return "goal_missed"
	case errors.Is(err, round.ErrNoRicochet):
		return "no_ricochet"
	}
	return "invalid"
}
