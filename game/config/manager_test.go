package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/ricochet-robots/game/engine"
)

func validMap(name string) *engine.Description {
	d := engine.NewDescription(4, 4).
		AddGoal(engine.Goal{Kind: engine.SwirlySwirl, Color: engine.Mix, Position: engine.Position{X: 2, Y: 1}}).
		AddBarrier(engine.Position{X: 1, Y: 2}, engine.Barrier{Orientation: engine.Backward, Color: engine.Yellow})
	d.Name = name
	d.Description = name + " board"
	return d
}

func writeMap(t *testing.T, dir, file string, d *engine.Description) {
	t.Helper()
	data, err := d.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), data, 0o644))
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("classic preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeMap(t, dir, "aaa.json", validMap("First"))
		writeMap(t, dir, "classic.json", validMap("Classic"))

		m, err := NewManager(dir)
		require.NoError(t, err)
		name, desc := m.GetDefault()
		assert.Equal(t, "classic", name)
		assert.Equal(t, "Classic", desc.Name)
	})

	t.Run("first map when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeMap(t, dir, "beta.json", validMap("Beta"))

		m, err := NewManager(dir)
		require.NoError(t, err)
		name, _ := m.GetDefault()
		assert.Equal(t, "beta", name)
	})

	t.Run("built-in when empty", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		require.NoError(t, err)
		name, desc := m.GetDefault()
		assert.Equal(t, "default", name)
		_, err = engine.FromDescription(desc)
		assert.NoError(t, err)
	})
}

func TestLoadMap(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "small.json", validMap("Small"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	bad := validMap("Bad")
	bad.Width = 1
	writeMap(t, dir, "bad.json", bad)

	m, err := NewManager(dir)
	require.NoError(t, err)

	desc, err := m.LoadMap("small")
	require.NoError(t, err)
	assert.Equal(t, "Small", desc.Name)

	again, err := m.LoadMap("small.json")
	require.NoError(t, err)
	assert.Same(t, desc, again, "second load must come from the cache")

	_, err = m.LoadMap("missing")
	assert.ErrorIs(t, err, ErrMapNotFound)
	_, err = m.LoadMap("../small")
	assert.ErrorIs(t, err, ErrMapNotFound)
	_, err = m.LoadMap("broken")
	assert.ErrorIs(t, err, ErrInvalidMap)
	_, err = m.LoadMap("bad")
	assert.ErrorIs(t, err, ErrInvalidMap)
}

func TestListMaps(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "one.json", validMap("One"))
	writeMap(t, dir, "two.json", validMap("Two"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	maps, err := m.ListMaps()
	require.NoError(t, err)
	require.Len(t, maps, 2)
	assert.Equal(t, "one", maps[0].MapID)
	assert.Equal(t, "One", maps[0].Name)
	assert.Equal(t, 4, maps[0].Width)
	assert.Equal(t, 1, maps[0].Goals)
	assert.Equal(t, 1, maps[0].Barriers)
}

func TestSaveAndSetDefault(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, m.SaveMap("custom", validMap("Custom")))
	_, err = os.Stat(filepath.Join(dir, "custom.json"))
	require.NoError(t, err)

	bad := validMap("Bad")
	bad.Height = 0
	assert.ErrorIs(t, m.SaveMap("bad", bad), ErrInvalidMap)
	assert.Error(t, m.SaveMap("../escape", validMap("Escape")))

	require.NoError(t, m.SetDefault("custom"))
	name, desc := m.GetDefault()
	assert.Equal(t, "custom", name)
	assert.Equal(t, "Custom", desc.Name)

	assert.ErrorIs(t, m.SetDefault("missing"), ErrMapNotFound)
}

func TestRefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "classic.json", validMap("Before"))
	m, err := NewManager(dir)
	require.NoError(t, err)

	writeMap(t, dir, "classic.json", validMap("After"))
	desc, err := m.LoadMap("classic")
	require.NoError(t, err)
	assert.Equal(t, "Before", desc.Name)

	m.RefreshCache()
	desc, err = m.LoadMap("classic")
	require.NoError(t, err)
	assert.Equal(t, "After", desc.Name)
	_, def := m.GetDefault()
	assert.Equal(t, "After", def.Name)
}

func TestConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "classic.json", validMap("Classic"))
	m, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.LoadMap("classic")
			assert.NoError(t, err)
			_, err = m.ListMaps()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
