package levels

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// The script must define `cost := func(layer, tile) { ... }`. layer is a map
// with "name" and "physics"; tile is the layer's tile id.
const costDispatchScript = `
__result = cost(__layer, __tile)
`

type ruleKey struct {
	layer string
	tile  int
}

// ScriptRules prices tiles with a tengo script. Results are memoised per
// layer name and tile id. Not safe for concurrent use.
type ScriptRules struct {
	name     string
	compiled *tengo.Compiled
	cache    map[ruleKey]float64
}

var _ CostRules = (*ScriptRules)(nil)

func NewScriptRules(name string, src []byte) (*ScriptRules, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, fmt.Errorf("levels: cost script %s: empty", name)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + costDispatchScript))
	_ = script.Add("__layer", map[string]interface{}{})
	_ = script.Add("__tile", 0)
	_ = script.Add("__result", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	// A script without a cost function fails here on the unresolved reference.
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("levels: cost script %s: %w", name, err)
	}

	return &ScriptRules{
		name:     name,
		compiled: compiled,
		cache:    make(map[ruleKey]float64),
	}, nil
}

func (r *ScriptRules) Cost(layer LayerMeta, tileID int) (float64, error) {
	key := ruleKey{layer: layer.Name, tile: tileID}
	if v, ok := r.cache[key]; ok {
		return v, nil
	}

	layerObj := map[string]interface{}{
		"name":    layer.Name,
		"physics": layer.Physics,
	}
	if err := r.compiled.Set("__layer", layerObj); err != nil {
		return 0, fmt.Errorf("levels: cost script %s: %w", r.name, err)
	}
	if err := r.compiled.Set("__tile", tileID); err != nil {
		return 0, fmt.Errorf("levels: cost script %s: %w", r.name, err)
	}
	if err := r.compiled.Run(); err != nil {
		return 0, fmt.Errorf("levels: cost script %s: %w", r.name, err)
	}

	result := r.compiled.Get("__result")
	switch result.ValueType() {
	case "int", "float":
	default:
		return 0, fmt.Errorf("levels: cost script %s: cost(%q, %d) returned %s", r.name, layer.Name, tileID, result.ValueType())
	}

	cost := result.Float()
	r.cache[key] = cost
	return cost, nil
}
