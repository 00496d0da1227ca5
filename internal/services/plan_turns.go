package services

import (
	"context"
	"errors"
	"fmt"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/ports"
	"sync"
)

// Upper bound on movements solved concurrently for one intersection.
const maxConcurrentMovements = 5

type movementResult struct {
	index int
	plan  *domain.TurnPlan
	err   error
}

// Inputs for planning every movement of an intersection.
type PlanIntersectionRequest struct {
	IntersectionID string
	ProfileID      string
	Profile        *domain.VehicleProfile
	StepSizeM      float64
}

// Plan every movement of an intersection for one vehicle.
//
// Movements are solved concurrently; the first failure cancels the
// remaining work. Plans are returned in the provider's movement order.
func PlanIntersectionTurns(
	ctx context.Context,
	req PlanIntersectionRequest,
	registry *domain.ProfileRegistry,
	provider ports.IntersectionProvider,
	cache ports.PathCache,
) ([]*domain.TurnPlan, error) {
	if provider == nil {
		return nil, errors.New("plan intersection turns: intersection provider is nil")
	}

	profileID, profile, err := ResolveProfile(registry, req.ProfileID, req.Profile)
	if err != nil {
		return nil, fmt.Errorf("plan intersection turns: %w", err)
	}

	movements, err := provider.ListMovements(ctx, req.IntersectionID)
	if err != nil {
		return nil, fmt.Errorf("plan intersection turns: list movements of %q: %w", req.IntersectionID, err)
	}
	if len(movements) == 0 {
		return nil, fmt.Errorf("plan intersection turns: intersection %q has no movements: %w", req.IntersectionID, domain.ErrMovementNotFound)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, maxConcurrentMovements)
	resultsCh := make(chan movementResult, len(movements))
	var wg sync.WaitGroup

	for i, mv := range movements {
		wg.Add(1)
		go func(idx int, mv domain.Movement) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				resultsCh <- movementResult{index: idx, err: err}
				return
			}

			plan, err := planMovement(ctx, mv, profileID, profile, req.StepSizeM, cache)
			if err != nil {
				resultsCh <- movementResult{index: idx, err: fmt.Errorf("plan intersection turns: %w", err)}
				cancel()
				return
			}
			resultsCh <- movementResult{index: idx, plan: plan}
		}(i, mv)
	}

	wg.Wait()
	close(resultsCh)

	plans := make([]*domain.TurnPlan, len(movements))
	var firstErr error
	for res := range resultsCh {
		if res.err != nil {
			// Prefer the failure that caused cancellation over the
			// context errors it produced in sibling workers.
			if firstErr == nil || (errors.Is(firstErr, context.Canceled) && !errors.Is(res.err, context.Canceled)) {
				firstErr = res.err
			}
			continue
		}
		plans[res.index] = res.plan
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return plans, nil
}
