package repositories

import (
	"cmp"
	"context"
	"fmt"
	"haul-turn-planner/internal/domain"
	"slices"
)

// In-memory IntersectionProvider for tests and offline tools.
type MemoryIntersectionRepository struct {
	m map[string]domain.Movement
}

func NewMemoryIntersectionRepository(movements []domain.Movement) *MemoryIntersectionRepository {
	m := make(map[string]domain.Movement, len(movements))
	for _, mv := range movements {
		m[movementKey(mv.IntersectionID, mv.FromRoadID, mv.ToRoadID)] = mv
	}
	return &MemoryIntersectionRepository{m: m}
}

// LoadMemoryIntersectionRepository reads the same JSON seed format as
// SeedFromJSON.
func LoadMemoryIntersectionRepository(jsonPath string) (*MemoryIntersectionRepository, error) {
	data, err := ReadMovementSeeds(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}

	movements := make([]domain.Movement, 0, len(data))
	for _, s := range data {
		movements = append(movements, domain.Movement{
			IntersectionID: s.IntersectionID,
			FromRoadID:     s.FromRoadID,
			ToRoadID:       s.ToRoadID,
			Start:          domain.Pose{X: s.Start.X, Y: s.Start.Y, Theta: degToRad(s.Start.HeadingDeg)},
			Goal:           domain.Pose{X: s.Goal.X, Y: s.Goal.Y, Theta: degToRad(s.Goal.HeadingDeg)},
		})
	}
	return NewMemoryIntersectionRepository(movements), nil
}

func movementKey(intersectionID, fromRoadID, toRoadID string) string {
	return intersectionID + "|" + fromRoadID + "|" + toRoadID
}

func (r *MemoryIntersectionRepository) GetMovement(
	ctx context.Context,
	intersectionID string,
	fromRoadID string,
	toRoadID string,
) (domain.Movement, error) {
	mv, ok := r.m[movementKey(intersectionID, fromRoadID, toRoadID)]
	if !ok {
		return domain.Movement{}, fmt.Errorf(
			"get movement: intersection %q %s -> %s: %w",
			intersectionID, fromRoadID, toRoadID, domain.ErrMovementNotFound,
		)
	}
	return mv, nil
}

func (r *MemoryIntersectionRepository) ListMovements(ctx context.Context, intersectionID string) ([]domain.Movement, error) {
	out := make([]domain.Movement, 0)
	for _, mv := range r.m {
		if mv.IntersectionID == intersectionID {
			out = append(out, mv)
		}
	}
	slices.SortFunc(out, func(a, b domain.Movement) int {
		return cmp.Or(cmp.Compare(a.FromRoadID, b.FromRoadID), cmp.Compare(a.ToRoadID, b.ToRoadID))
	})
	return out, nil
}
