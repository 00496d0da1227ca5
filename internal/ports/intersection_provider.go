package ports

import (
	"context"
	"haul-turn-planner/internal/domain"
)

// Contract for resolving intersection movements to concrete poses.
type IntersectionProvider interface {
	// Return the movement from one road to another through an intersection.
	// Unknown movements yield an error wrapping domain.ErrMovementNotFound.
	GetMovement(ctx context.Context, intersectionID, fromRoadID, toRoadID string) (domain.Movement, error)
	// Return every movement of an intersection ordered by (from, to) road.
	ListMovements(ctx context.Context, intersectionID string) ([]domain.Movement, error)
}
