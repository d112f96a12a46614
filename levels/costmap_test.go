package levels

import (
	"testing"

	"github.com/milk9111/tilepath/pathfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCostScript = `
cost := func(layer, tile) {
	if layer.name == "water" && tile >= 10 && tile < 20 {
		return -1
	}
	if tile >= 40 && tile < 48 {
		return 3.5
	}
	return 1
}
`

func TestLoadEmbeddedLevels(t *testing.T) {
	assert.Equal(t, []string{"arena", "corridor"}, List())

	for _, name := range []string{"arena", "arena.json", "levels/arena.json"} {
		lvl, err := LoadLevelFromFS(name)
		require.NoError(t, err, name)
		assert.Equal(t, "arena", lvl.Name)
		assert.Equal(t, 12, lvl.Width)
		assert.Equal(t, 8, lvl.Height)
		assert.Equal(t, 32, lvl.TileSize)
	}

	_, err := LoadLevelFromFS("missing")
	assert.Error(t, err)
}

func TestValidateLayerSize(t *testing.T) {
	lvl := &Level{Name: "bad", Width: 2, Height: 2, Layers: [][]int{{0, 0, 0}}}
	assert.Error(t, lvl.Validate())

	lvl = &Level{Name: "empty", Width: 0, Height: 2}
	assert.Error(t, lvl.Validate())

	_, err := lvl.CostMap(nil)
	assert.Error(t, err)
}

func TestCostMapWithoutRules(t *testing.T) {
	lvl, err := LoadLevelFromFS("arena")
	require.NoError(t, err)

	grid, err := lvl.CostMap(nil)
	require.NoError(t, err)
	assert.Equal(t, lvl.Width, grid.Width())
	assert.Equal(t, lvl.Height, grid.Height())

	assert.Equal(t, pathfind.Impassable, grid.CostAt(0, 0))
	assert.Equal(t, pathfind.Impassable, grid.CostAt(3, 2))
	assert.Equal(t, DefaultTileCost, grid.CostAt(1, 1))
	assert.Equal(t, DefaultTileCost, grid.CostAt(9, 4), "water is walkable without rules")
}

func TestCostMapWithScriptRules(t *testing.T) {
	lvl, err := LoadLevelFromFS("arena")
	require.NoError(t, err)
	rules, err := NewScriptRules("test", []byte(testCostScript))
	require.NoError(t, err)

	grid, err := lvl.CostMap(rules)
	require.NoError(t, err)

	assert.Equal(t, pathfind.Impassable, grid.CostAt(9, 4))
	assert.Equal(t, pathfind.Impassable, grid.CostAt(10, 4))
	assert.Equal(t, 3.5, grid.CostAt(5, 6))
	assert.Equal(t, DefaultTileCost, grid.CostAt(1, 1))
}

func TestScriptRulesErrors(t *testing.T) {
	_, err := NewScriptRules("empty", []byte("  "))
	assert.Error(t, err)

	_, err = NewScriptRules("nocost", []byte(`x := 1`))
	assert.Error(t, err)

	_, err = NewScriptRules("syntax", []byte(`cost := func(layer, tile) {`))
	assert.Error(t, err)

	rules, err := NewScriptRules("string", []byte(`cost := func(layer, tile) { return "slow" }`))
	require.NoError(t, err)
	_, err = rules.Cost(LayerMeta{Name: "water"}, 1)
	assert.Error(t, err)
}

func TestScriptRulesCache(t *testing.T) {
	rules, err := NewScriptRules("test", []byte(testCostScript))
	require.NoError(t, err)

	c, err := rules.Cost(LayerMeta{Name: "water"}, 12)
	require.NoError(t, err)
	assert.Equal(t, -1.0, c)
	assert.Len(t, rules.cache, 1)

	c, err = rules.Cost(LayerMeta{Name: "water"}, 12)
	require.NoError(t, err)
	assert.Equal(t, -1.0, c)
	assert.Len(t, rules.cache, 1)

	c, err = rules.Cost(LayerMeta{Name: "deco"}, 12)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c)
}

func TestSpawnPositions(t *testing.T) {
	lvl, err := LoadLevelFromFS("corridor")
	require.NoError(t, err)

	agent, ok := lvl.SpawnPosition("agent")
	require.True(t, ok)
	assert.Equal(t, pathfind.Vec{X: 48, Y: 48}, agent)

	_, ok = lvl.SpawnPosition("boss")
	assert.False(t, ok)
	assert.Len(t, lvl.EntitiesOfType("target"), 1)

	mixed := &Level{Entities: []Entity{
		{Type: "Agent", X: 1},
		{Type: "target", X: 2},
		{Type: "AGENT", X: 3},
	}}
	placed := mixed.EntitiesOfType("agent")
	require.Len(t, placed, 2)
	assert.Equal(t, 1, placed[0].X)
	assert.Equal(t, 3, placed[1].X)
	first, ok := mixed.SpawnPosition("agent")
	require.True(t, ok)
	assert.Equal(t, 1.0, first.X)
}

func TestLevelFileName(t *testing.T) {
	tests := map[string]string{
		"arena":             "arena.json",
		"arena.json":        "arena.json",
		"levels/arena.json": "arena.json",
		"../arena":          "arena.json",
		`levels\arena`:      "arena.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, levelFileName(in), in)
	}
}

func TestParseLevelSchema(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"minimal", `{"width":2,"height":1,"layers":[[0,1]]}`, true},
		{"missing_layers", `{"width":2,"height":1}`, false},
		{"zero_width", `{"width":0,"height":1,"layers":[]}`, false},
		{"fractional_tile", `{"width":1,"height":1,"layers":[[1.5]]}`, false},
		{"entity_without_type", `{"width":1,"height":1,"layers":[[0]],"entities":[{"x":0,"y":0}]}`, false},
		{"unknown_layer_key", `{"width":1,"height":1,"layers":[[0]],"layer_meta":[{"solid":true}]}`, false},
		{"not_json", `{`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl, err := parseLevel(tc.name+".json", []byte(tc.body))
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.name, lvl.Name)
			assert.Equal(t, 32, lvl.TileSize)
		})
	}
}
