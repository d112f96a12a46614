package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/pathfind"
	"github.com/milk9111/tilepath/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietSpec(t *testing.T, maxDistance int) *prefabs.NavigatorSpec {
	t.Helper()
	spec, err := prefabs.LoadNavigatorSpec("navigator.yaml")
	require.NoError(t, err)
	off := false
	spec.Metrics = &off
	if maxDistance > 0 {
		spec.MaxSearchDistance = maxDistance
	}
	return spec
}

func TestWorldArenaFirstStep(t *testing.T) {
	w, err := NewWorld("arena", quietSpec(t, 0))
	require.NoError(t, err)
	assert.Equal(t, 32, w.Finder.Options().TileSize)

	events := w.Step()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.PathEventFound, events[0].Data.(ecs.PathEvent).Kind)

	agents := w.Agents()
	require.Len(t, agents, 1)
	assert.True(t, agents[0].HasWaypoint)
	assert.Equal(t, pathfind.Vec{X: 64, Y: 64}, agents[0].Waypoint)
	assert.Equal(t, 1, w.Frame())
}

func TestWorldArenaScriptCosts(t *testing.T) {
	w, err := NewWorld("arena", quietSpec(t, 0))
	require.NoError(t, err)
	assert.False(t, w.Grid.Passable(9, 4), "water blocked by cost script")
	assert.Equal(t, 3.0, w.Grid.CostAt(6, 6))
}

func TestWorldCorridorNeedsDeeperSearch(t *testing.T) {
	w, err := NewWorld("corridor", quietSpec(t, 0))
	require.NoError(t, err)

	assert.Empty(t, w.Step())
	require.Len(t, w.Agents(), 1)
	assert.False(t, w.Agents()[0].HasWaypoint)

	require.NoError(t, w.Reload(quietSpec(t, 20)))
	events := w.Step()
	require.Len(t, events, 1)
	agent := w.Agents()[0]
	require.True(t, agent.HasWaypoint)
	assert.Equal(t, pathfind.Vec{X: 64, Y: 32}, agent.Waypoint)
}

func TestWorldAgentReachesTarget(t *testing.T) {
	w, err := NewWorld("corridor", quietSpec(t, 20))
	require.NoError(t, err)

	arrived := false
	for i := 0; i < 400 && !arrived; i++ {
		for _, evt := range w.Step() {
			if pe, ok := evt.Data.(ecs.PathEvent); ok && pe.Kind == ecs.PathEventArrived {
				arrived = true
			}
		}
	}
	require.True(t, arrived)
	assert.Equal(t, pathfind.Tile{X: 1, Y: 3}, w.Agents()[0].Tile)
}

func TestWorldLoadErrors(t *testing.T) {
	_, err := NewWorld("missing", quietSpec(t, 0))
	assert.Error(t, err)

	_, err = NewWorld("arena", nil)
	assert.Error(t, err)

	bad := quietSpec(t, 0)
	bad.CostScript = "nothere.tengo"
	_, err = NewWorld("arena", bad)
	assert.Error(t, err)
}

func TestLoadLevelFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	body := `{"width":3,"height":1,"tile_size":16,"layers":[[0,0,0]],
		"entities":[{"type":"agent","x":0,"y":0},{"type":"target","x":40,"y":0}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	w, err := NewWorld(path, quietSpec(t, 0))
	require.NoError(t, err)
	assert.Equal(t, "tiny", w.Level.Name)
	assert.Equal(t, 16, w.Finder.Options().TileSize)

	w.Step()
	agent := w.Agents()[0]
	require.True(t, agent.HasWaypoint)
	assert.Equal(t, pathfind.Vec{X: 16, Y: 0}, agent.Waypoint)

	require.NoError(t, w.ReloadLevel())
	assert.Equal(t, 0, w.Frame())
}

func TestWorldUsesLevelFile(t *testing.T) {
	embedded, err := NewWorld("arena", quietSpec(t, 0))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	body := `{"width":2,"height":1,"layers":[[0,0]]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	onDisk, err := NewWorld(path, quietSpec(t, 0))
	require.NoError(t, err)

	tests := []struct {
		name  string
		world *World
		path  string
		want  bool
	}{
		{"shadow_copy", embedded, filepath.Join("levels", "arena.json"), true},
		{"other_level", embedded, filepath.Join("levels", "corridor.json"), false},
		{"same_file", onDisk, path, true},
		{"same_file_unclean", onDisk, filepath.Join(dir, ".", "tiny.json"), true},
		{"sibling", onDisk, filepath.Join(dir, "other.json"), false},
		{"empty", onDisk, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.world.UsesLevelFile(tc.path))
		})
	}
}
