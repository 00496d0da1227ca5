package ports

import (
	"context"
	"haul-turn-planner/internal/domain"
)

// Solved and sampled path stored under a cache key.
type CachedPath struct {
	Path     domain.DubinsPath
	Polyline []domain.Point
}

// Port: a boundary for storing solved paths between requests.
type PathCache interface {
	// Return the cached entry and whether it was present.
	Get(ctx context.Context, key string) (CachedPath, bool, error)
	// Store an entry, replacing any previous one under the same key.
	Put(ctx context.Context, key string, entry CachedPath) error
}
