package pathfind

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	findNextTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tilepath_find_next_total",
		Help: "Total next-waypoint queries by result",
	}, []string{"result"})

	findNextDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tilepath_find_next_duration_seconds",
		Help:    "Next-waypoint query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.000005, 2, 14), // 5us to ~40ms
	})

	expandedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tilepath_expanded_nodes",
		Help:    "Nodes expanded per next-waypoint query",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// Outcome names the result of a query for metrics and API responses.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, ErrAtTarget):
		return "at_target"
	case errors.Is(err, ErrUnreachableTarget):
		return "unreachable"
	case errors.Is(err, ErrInvalidCoordinate):
		return "invalid"
	case errors.Is(err, ErrSearchExhausted):
		return "exhausted"
	default:
		return "error"
	}
}

func observeQuery(res Result, err error, elapsed time.Duration) {
	findNextTotal.WithLabelValues(Outcome(err)).Inc()
	findNextDuration.Observe(elapsed.Seconds())
	expandedNodes.Observe(float64(res.Expanded))
}
