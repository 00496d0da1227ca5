package services

import (
	"context"
	"errors"
	"haul-turn-planner/internal/adapters/repositories"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/ports"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]ports.CachedPath
	getErr  error
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]ports.CachedPath{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (ports.CachedPath, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return ports.CachedPath{}, false, c.getErr
	}
	e, ok := c.entries[key]
	return e, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, entry ports.CachedPath) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	c.puts++
	return nil
}

func testRegistry(t *testing.T) *domain.ProfileRegistry {
	t.Helper()
	reg, err := domain.NewProfileRegistry(domain.DefaultProfiles())
	require.NoError(t, err)
	return reg
}

// Four-way junction with right-hand traffic: entries sit 45 m out on the
// right lane facing the centre, exits on the opposite lane facing away.
func junctionMovements() []domain.Movement {
	const r, lane = 45.0, 7.5
	entries := map[string]domain.Pose{
		"north": {X: -lane, Y: r, Theta: -math.Pi / 2},
		"south": {X: lane, Y: -r, Theta: math.Pi / 2},
		"east":  {X: r, Y: lane, Theta: math.Pi},
		"west":  {X: -r, Y: -lane, Theta: 0},
	}
	exits := map[string]domain.Pose{
		"north": {X: lane, Y: r, Theta: math.Pi / 2},
		"south": {X: -lane, Y: -r, Theta: -math.Pi / 2},
		"east":  {X: r, Y: -lane, Theta: 0},
		"west":  {X: -r, Y: lane, Theta: math.Pi},
	}

	var out []domain.Movement
	for from, start := range entries {
		for to, goal := range exits {
			if from == to {
				continue
			}
			out = append(out, domain.Movement{IntersectionID: "J1", FromRoadID: from, ToRoadID: to, Start: start, Goal: goal})
		}
	}
	return out
}

func TestPlanPathUsesCache(t *testing.T) {
	cache := newMemoryCache()
	req := PlanPathRequest{
		Start:          domain.Pose{X: 0, Y: 0, Theta: 0},
		Goal:           domain.Pose{X: 40, Y: 30, Theta: math.Pi / 2},
		TurningRadiusM: 10.16,
		StepSizeM:      1,
	}

	first, err := PlanPath(context.Background(), req, cache)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, cache.puts)

	second, err := PlanPath(context.Background(), req, cache)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Polyline, second.Polyline)
}

func TestPlanPathIgnoresCacheFailures(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("cache down")

	plan, err := PlanPath(context.Background(), PlanPathRequest{
		Goal:           domain.Pose{X: 10},
		TurningRadiusM: 5,
		StepSizeM:      1,
	}, cache)
	require.NoError(t, err)
	assert.False(t, plan.FromCache)
	assert.InDelta(t, 10.0, plan.Path.TotalLengthM(), 1e-12)
}

func TestPlanPathInvalidParameters(t *testing.T) {
	_, err := PlanPath(context.Background(), PlanPathRequest{Goal: domain.Pose{X: 10}, TurningRadiusM: 5, StepSizeM: 0}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = PlanPath(context.Background(), PlanPathRequest{Goal: domain.Pose{X: 10}, TurningRadiusM: -1, StepSizeM: 1}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestPlanPathRejectsOversizedPolyline(t *testing.T) {
	cache := newMemoryCache()

	_, err := PlanPath(context.Background(), PlanPathRequest{
		Goal:           domain.Pose{X: 1e7},
		TurningRadiusM: 10,
		StepSizeM:      0.01,
	}, cache)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "limit")
	assert.Equal(t, 0, cache.puts)

	// Just under the cap still samples.
	plan, err := PlanPath(context.Background(), PlanPathRequest{
		Goal:           domain.Pose{X: 1999},
		TurningRadiusM: 10,
		StepSizeM:      0.01,
	}, nil)
	require.NoError(t, err)
	assert.Len(t, plan.Polyline, 199_901)
}

func TestPolylinePointCountMatchesSampler(t *testing.T) {
	start := domain.Pose{X: 3, Y: -2, Theta: 0.4}
	for _, goal := range []domain.Pose{
		{X: 40, Y: 30, Theta: math.Pi / 2},
		{X: 3, Y: -2, Theta: 0.4 + math.Pi},
		{X: 10, Y: -2, Theta: 0.4},
	} {
		path, err := ComputeDubinsPath(start, goal, 7)
		require.NoError(t, err)
		points, err := SampleDubinsPath(path, start, 7, 0.75)
		require.NoError(t, err)
		assert.Equal(t, float64(len(points)), polylinePointCount(path, 0.75))
	}
}

func TestPlanProfilePathDerivesRadius(t *testing.T) {
	profile, err := testRegistry(t).Lookup("komatsu_830e")
	require.NoError(t, err)

	plan, err := PlanProfilePath(context.Background(), domain.Pose{}, domain.Pose{X: 60, Y: 40, Theta: 1}, "komatsu_830e", profile, 0.5, nil)
	require.NoError(t, err)

	assert.Equal(t, profile.MinTurnRadiusM(), plan.TurningRadiusM)
	assert.InDelta(t, 8.32, plan.SweptWidthM, 1e-9)
	assert.Equal(t, "komatsu_830e", plan.ProfileID)
}

func TestResolveProfile(t *testing.T) {
	reg := testRegistry(t)

	id, p, err := ResolveProfile(reg, " komatsu_830e ", nil)
	require.NoError(t, err)
	assert.Equal(t, "komatsu_830e", id)
	assert.Equal(t, 6.35, p.WheelbaseM)

	custom := &domain.VehicleProfile{Name: "light vehicle", VehicleWidthM: 2, WheelbaseM: 3.2, MaxSteeringAngleDeg: 35}
	id, p, err = ResolveProfile(reg, "komatsu_830e", custom)
	require.NoError(t, err)
	assert.Equal(t, CustomProfileID, id)
	assert.Equal(t, *custom, p)

	_, _, err = ResolveProfile(reg, "", nil)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, _, err = ResolveProfile(reg, "nonexistent_profile", nil)
	var nf *domain.ProfileNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, err.Error(), "komatsu_830e")

	_, _, err = ResolveProfile(reg, "", &domain.VehicleProfile{WheelbaseM: 3, MaxSteeringAngleDeg: 90})
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestPlanTurn(t *testing.T) {
	provider := repositories.NewMemoryIntersectionRepository(junctionMovements())

	plan, err := PlanTurn(context.Background(), PlanTurnRequest{
		IntersectionID: "J1",
		FromRoadID:     "north",
		ToRoadID:       "east",
		ProfileID:      "komatsu_830e",
		StepSizeM:      0.5,
	}, testRegistry(t), provider, nil)
	require.NoError(t, err)

	assert.Equal(t, "J1", plan.IntersectionID)
	assert.Equal(t, "north", plan.FromRoadID)
	assert.Equal(t, "east", plan.ToRoadID)
	require.NotEmpty(t, plan.Polyline)

	last := plan.Polyline[len(plan.Polyline)-1]
	assert.InDelta(t, 45.0, last.X, 1e-6)
	assert.InDelta(t, -7.5, last.Y, 1e-6)
}

func TestPlanTurnUnknownMovement(t *testing.T) {
	provider := repositories.NewMemoryIntersectionRepository(junctionMovements())

	_, err := PlanTurn(context.Background(), PlanTurnRequest{
		IntersectionID: "J1",
		FromRoadID:     "north",
		ToRoadID:       "north",
		ProfileID:      "komatsu_830e",
		StepSizeM:      1,
	}, testRegistry(t), provider, nil)
	require.ErrorIs(t, err, domain.ErrMovementNotFound)
}

func TestPlanIntersectionTurns(t *testing.T) {
	provider := repositories.NewMemoryIntersectionRepository(junctionMovements())
	cache := newMemoryCache()

	plans, err := PlanIntersectionTurns(context.Background(), PlanIntersectionRequest{
		IntersectionID: "J1",
		ProfileID:      "cat_797f",
		StepSizeM:      1,
	}, testRegistry(t), provider, cache)
	require.NoError(t, err)
	require.Len(t, plans, 12)

	movements, err := provider.ListMovements(context.Background(), "J1")
	require.NoError(t, err)
	for i, plan := range plans {
		require.NotNil(t, plan)
		assert.Equal(t, movements[i].FromRoadID, plan.FromRoadID)
		assert.Equal(t, movements[i].ToRoadID, plan.ToRoadID)
		assert.Equal(t, "cat_797f", plan.ProfileID)

		last := plan.Polyline[len(plan.Polyline)-1]
		assert.InDelta(t, movements[i].Goal.X, last.X, 1e-6)
		assert.InDelta(t, movements[i].Goal.Y, last.Y, 1e-6)
	}
	assert.Equal(t, 12, cache.puts)
}

func TestPlanIntersectionTurnsUnknownIntersection(t *testing.T) {
	provider := repositories.NewMemoryIntersectionRepository(junctionMovements())

	_, err := PlanIntersectionTurns(context.Background(), PlanIntersectionRequest{
		IntersectionID: "J9",
		ProfileID:      "cat_797f",
		StepSizeM:      1,
	}, testRegistry(t), provider, nil)
	require.ErrorIs(t, err, domain.ErrMovementNotFound)
}

func TestPlanIntersectionTurnsPropagatesFailure(t *testing.T) {
	provider := repositories.NewMemoryIntersectionRepository(junctionMovements())

	_, err := PlanIntersectionTurns(context.Background(), PlanIntersectionRequest{
		IntersectionID: "J1",
		ProfileID:      "cat_797f",
		StepSizeM:      -1,
	}, testRegistry(t), provider, nil)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestPathCacheKeyNormalizesHeadings(t *testing.T) {
	a := PathCacheKey(domain.Pose{Theta: 0.5}, domain.Pose{X: 10, Theta: -1}, 10, 1)
	b := PathCacheKey(domain.Pose{Theta: 0.5 + 2*math.Pi}, domain.Pose{X: 10, Theta: -1 - 4*math.Pi}, 10, 1)
	assert.Equal(t, a, b)

	c := PathCacheKey(domain.Pose{Theta: 0.5}, domain.Pose{X: 10, Theta: -1}, 10, 2)
	assert.NotEqual(t, a, c)
}
