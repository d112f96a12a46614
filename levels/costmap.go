package levels

import (
	"fmt"
	"strings"

	"github.com/milk9111/tilepath/pathfind"
)

// DefaultTileCost is the cost of a tile no layer says anything about.
const DefaultTileCost = 1.0

// CostRules prices a non-empty tile on a layer without physics. Returning a
// negative cost blocks the tile.
type CostRules interface {
	Cost(layer LayerMeta, tileID int) (float64, error)
}

// CostMap builds the pathfinding grid for the level. Tiles on physics layers
// are solid; other layers are priced by rules, or left at DefaultTileCost
// when rules is nil. A tile takes the highest cost any layer gives it.
func (l *Level) CostMap(rules CostRules) (*pathfind.Grid, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	grid := pathfind.NewGrid(l.Width, l.Height, DefaultTileCost)

	for layerIdx, layer := range l.Layers {
		meta := l.layerMeta(layerIdx)
		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				tileID := layer[y*l.Width+x]
				if tileID <= 0 {
					continue // skip empty tiles
				}
				current := grid.CostAt(x, y)
				if current < 0 {
					continue
				}
				if meta.Physics {
					grid.Set(x, y, pathfind.Impassable)
					continue
				}
				if rules == nil {
					continue
				}
				cost, err := rules.Cost(meta, tileID)
				if err != nil {
					return nil, fmt.Errorf("level %s: tile (%d,%d) layer %d: %w", l.Name, x, y, layerIdx, err)
				}
				if cost < 0 {
					grid.Set(x, y, pathfind.Impassable)
				} else if cost > current {
					grid.Set(x, y, cost)
				}
			}
		}
	}
	return grid, nil
}

func (l *Level) layerMeta(idx int) LayerMeta {
	if idx < len(l.LayerMeta) {
		return l.LayerMeta[idx]
	}
	return LayerMeta{Name: fmt.Sprintf("layer%d", idx)}
}

// SpawnPosition returns the world position of the first entity of type kind.
func (l *Level) SpawnPosition(kind string) (pathfind.Vec, bool) {
	placed := l.EntitiesOfType(kind)
	if len(placed) == 0 {
		return pathfind.Vec{}, false
	}
	return pathfind.Vec{X: float64(placed[0].X), Y: float64(placed[0].Y)}, true
}

// EntitiesOfType returns every placed entity of type kind, in file order.
// Types compare case-insensitively.
func (l *Level) EntitiesOfType(kind string) []Entity {
	var out []Entity
	for _, e := range l.Entities {
		if strings.EqualFold(e.Type, kind) {
			out = append(out, e)
		}
	}
	return out
}
