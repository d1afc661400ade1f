package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/ricochet-robots/game/engine"
	"github.com/wricardo/ricochet-robots/game/service"
)

// DefaultMapName is the map preferred as default when present
const DefaultMapName = "classic"

var (
	ErrMapNotFound = errors.New("map not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// Manager loads and caches map descriptions from a directory of JSON files
type Manager struct {
	mapDir      string
	defaultName string
	defaultMap  *engine.Description
	maps        map[string]*engine.Description
	mu          sync.RWMutex
}

// NewManager creates a new map manager over mapDir
func NewManager(mapDir string) (*Manager, error) {
	if _, err := os.Stat(mapDir); os.IsNotExist(err) {
		return nil, errors.Errorf("map directory does not exist: %s", mapDir)
	}

	m := &Manager{
		mapDir: mapDir,
		maps:   make(map[string]*engine.Description),
	}
	m.loadDefaultMap()
	return m, nil
}

// LoadMap loads a map description by name, with or without the .json suffix
func (m *Manager) LoadMap(name string) (*engine.Description, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, errors.Wrapf(ErrMapNotFound, "bad map name %q", name)
	}

	m.mu.RLock()
	if desc, exists := m.maps[name]; exists {
		m.mu.RUnlock()
		return desc, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if desc, exists := m.maps[name]; exists {
		return desc, nil
	}

	path := filepath.Join(m.mapDir, name+".json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrap(ErrMapNotFound, name)
	}
	desc, err := engine.LoadDescription(path)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidMap, "%v", err)
	}

	m.maps[name] = desc
	return desc, nil
}

// ListMaps returns information about every valid map in the directory
func (m *Manager) ListMaps() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read map directory")
	}

	var maps []*service.MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		desc, err := m.LoadMap(name)
		if err != nil {
			log.WithError(err).WithField("map", name).Debug("skipping map")
			continue
		}
		maps = append(maps, &service.MapInfo{
			Filename:    entry.Name(),
			MapID:       name,
			Name:        desc.Name,
			Description: desc.Description,
			Width:       desc.Width,
			Height:      desc.Height,
			Goals:       len(desc.Goals),
			Barriers:    len(desc.Barriers),
		})
	}
	return maps, nil
}

// GetDefault returns the default map and its name
func (m *Manager) GetDefault() (string, *engine.Description) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName, m.defaultMap
}

// SetDefault sets the default map by name
func (m *Manager) SetDefault(name string) error {
	desc, err := m.LoadMap(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = strings.TrimSuffix(name, ".json")
	m.defaultMap = desc
	return nil
}

// RefreshCache drops every cached map and reloads the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.maps = make(map[string]*engine.Description)
	m.mu.Unlock()

	m.loadDefaultMap()
}

// SaveMap validates desc and writes it to the directory
func (m *Manager) SaveMap(name string, desc *engine.Description) error {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return errors.Errorf("bad map name %q", name)
	}
	if err := engine.ValidateDescription(desc); err != nil {
		return errors.Wrapf(ErrInvalidMap, "%v", err)
	}
	if err := engine.SaveDescription(filepath.Join(m.mapDir, name+".json"), desc); err != nil {
		return err
	}

	m.mu.Lock()
	m.maps[name] = desc
	m.mu.Unlock()
	return nil
}

// loadDefaultMap prefers classic, then the first map in the directory, then
// a small built-in board
func (m *Manager) loadDefaultMap() {
	name := DefaultMapName
	desc, err := m.LoadMap(name)
	if err != nil {
		maps, listErr := m.ListMaps()
		if listErr == nil && len(maps) > 0 {
			name = maps[0].MapID
			desc, err = m.LoadMap(name)
		}
	}
	if err != nil || desc == nil {
		log.WithField("dir", m.mapDir).Warn("no usable map found, using the built-in default")
		name, desc = "default", minimalMap()
	}

	m.mu.Lock()
	m.defaultName, m.defaultMap = name, desc
	m.mu.Unlock()
}

// minimalMap is an 8x8 practice board with one goal per color
func minimalMap() *engine.Description {
	d := engine.NewDescription(8, 8)
	d.Name = "default"
	d.Description = "Built-in 8x8 practice board"
	goals := []engine.Goal{
		{Kind: engine.RectangleSaturn, Color: engine.Red, Position: engine.Position{X: 1, Y: 2}},
		{Kind: engine.RoundEclipse, Color: engine.Green, Position: engine.Position{X: 6, Y: 1}},
		{Kind: engine.HexagonCompass, Color: engine.Blue, Position: engine.Position{X: 5, Y: 6}},
		{Kind: engine.TriangleCog, Color: engine.Yellow, Position: engine.Position{X: 2, Y: 5}},
	}
	for _, g := range goals {
		d.AddGoal(g)
	}
	d.AddWall(engine.Position{X: 1, Y: 2}, engine.North).
		AddWall(engine.Position{X: 1, Y: 2}, engine.East).
		AddWall(engine.Position{X: 6, Y: 1}, engine.South).
		AddWall(engine.Position{X: 6, Y: 1}, engine.West).
		AddWall(engine.Position{X: 5, Y: 6}, engine.North).
		AddWall(engine.Position{X: 5, Y: 6}, engine.West).
		AddWall(engine.Position{X: 2, Y: 5}, engine.South).
		AddWall(engine.Position{X: 2, Y: 5}, engine.East).
		AddBarrier(engine.Position{X: 4, Y: 3}, engine.Barrier{Orientation: engine.Forward, Color: engine.Red})
	return d
}
