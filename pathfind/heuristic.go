package pathfind

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic estimates the remaining cost from one tile to another.
type Heuristic func(from, to Tile) float64

// Chebyshev is exact on an open grid where diagonal and orthogonal steps
// both cost 1, so it never overestimates.
func Chebyshev(from, to Tile) float64 {
	dx, dy := absInt(from.X-to.X), absInt(from.Y-to.Y)
	if dx > dy {
		return float64(dx)
	}
	return float64(dy)
}

// Manhattan can overestimate when diagonal moves are allowed.
func Manhattan(from, to Tile) float64 {
	return float64(absInt(from.X-to.X) + absInt(from.Y-to.Y))
}

// Euclidean is the straight-line distance between tile origins.
func Euclidean(from, to Tile) float64 {
	return math.Hypot(float64(from.X-to.X), float64(from.Y-to.Y))
}

// HeuristicByName resolves a config name. An empty name selects Chebyshev.
func HeuristicByName(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "chebyshev":
		return Chebyshev, nil
	case "manhattan":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	default:
		return nil, fmt.Errorf("%w: unknown heuristic %q", ErrInvalidOption, name)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
