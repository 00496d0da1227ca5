package services

import (
	"context"
	"errors"
	"fmt"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/platform/obs"
	"haul-turn-planner/internal/ports"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Profile id reported for caller-supplied vehicle profiles.
const CustomProfileID = "custom"

// MaxPolylinePoints caps the samples a single plan may produce. The
// sampler allocates every point up front, so the count is checked before
// sampling.
const MaxPolylinePoints = 200_000

// Inputs for planning a path between two explicit poses.
type PlanPathRequest struct {
	Start          domain.Pose
	Goal           domain.Pose
	TurningRadiusM float64
	StepSizeM      float64
	ProfileID      string
	SweptWidthM    float64
}

// Inputs for planning one intersection movement.
// Exactly one of ProfileID and Profile selects the vehicle.
type PlanTurnRequest struct {
	IntersectionID string
	FromRoadID     string
	ToRoadID       string
	ProfileID      string
	Profile        *domain.VehicleProfile
	StepSizeM      float64
}

// Solve and sample a Dubins path between two poses.
//
// The pipeline is solve -> sample, with an optional cache in front. Cache
// failures are logged and otherwise ignored; a nil cache disables caching.
func PlanPath(ctx context.Context, req PlanPathRequest, cache ports.PathCache) (_ *domain.TurnPlan, err error) {
	defer obs.Time(ctx, "services.PlanPath")(&err)

	if !(req.StepSizeM > 0) {
		return nil, fmt.Errorf("plan path: step_size_m=%v must be positive: %w", req.StepSizeM, domain.ErrInvalidParameter)
	}

	plan := &domain.TurnPlan{
		ProfileID:      req.ProfileID,
		Start:          req.Start,
		Goal:           req.Goal,
		TurningRadiusM: req.TurningRadiusM,
		SweptWidthM:    req.SweptWidthM,
		StepSizeM:      req.StepSizeM,
	}

	key := PathCacheKey(req.Start, req.Goal, req.TurningRadiusM, req.StepSizeM)
	if cache != nil {
		entry, ok, err := cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("path cache read failed")
		} else if ok {
			plan.Path = entry.Path
			plan.Polyline = entry.Polyline
			plan.FromCache = true
			return plan, nil
		}
	}

	path, err := ComputeDubinsPath(req.Start, req.Goal, req.TurningRadiusM)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}

	if n := polylinePointCount(path, req.StepSizeM); n > MaxPolylinePoints {
		return nil, fmt.Errorf(
			"plan path: %.0f m at step_size_m=%v needs %.0f points, limit is %d: %w",
			path.TotalLengthM(), req.StepSizeM, n, MaxPolylinePoints, domain.ErrInvalidParameter,
		)
	}

	points, err := SampleDubinsPath(path, req.Start, req.TurningRadiusM, req.StepSizeM)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}

	if path.IsDegenerate() {
		log.WithFields(logrus.Fields{
			"start": req.Start, "goal": req.Goal, "radius": req.TurningRadiusM,
		}).Warn("no dubins family feasible, using straight fallback")
	}

	plan.Path = path
	plan.Polyline = points

	if cache != nil {
		if err := cache.Put(ctx, key, ports.CachedPath{Path: path, Polyline: points}); err != nil {
			log.WithError(err).WithField("key", key).Warn("path cache write failed")
		}
	}

	return plan, nil
}

// Plan a path for a vehicle profile, deriving the turning radius and the
// swept width from it.
func PlanProfilePath(
	ctx context.Context,
	start domain.Pose,
	goal domain.Pose,
	profileID string,
	profile domain.VehicleProfile,
	stepSize float64,
	cache ports.PathCache,
) (*domain.TurnPlan, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("plan profile path: %w", err)
	}

	return PlanPath(ctx, PlanPathRequest{
		Start:          start,
		Goal:           goal,
		TurningRadiusM: profile.MinTurnRadiusM(),
		StepSizeM:      stepSize,
		ProfileID:      profileID,
		SweptWidthM:    profile.TotalWidthWithBufferM(),
	}, cache)
}

// ResolveProfile selects the vehicle for a request: a caller-supplied
// profile wins over a registry id. Neither being set is an invalid
// parameter; an unknown id is a configuration error.
func ResolveProfile(
	registry *domain.ProfileRegistry,
	profileID string,
	custom *domain.VehicleProfile,
) (string, domain.VehicleProfile, error) {
	if custom != nil {
		if err := custom.Validate(); err != nil {
			return "", domain.VehicleProfile{}, fmt.Errorf("resolve profile: %w", err)
		}
		return CustomProfileID, *custom, nil
	}

	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return "", domain.VehicleProfile{}, fmt.Errorf("resolve profile: profile_id or profile is required: %w", domain.ErrInvalidParameter)
	}
	if registry == nil {
		return "", domain.VehicleProfile{}, errors.New("resolve profile: registry is nil")
	}

	p, err := registry.Lookup(profileID)
	if err != nil {
		return "", domain.VehicleProfile{}, fmt.Errorf("resolve profile: %w", err)
	}
	return profileID, p, nil
}

// Plan the turn a vehicle takes through one intersection movement.
func PlanTurn(
	ctx context.Context,
	req PlanTurnRequest,
	registry *domain.ProfileRegistry,
	provider ports.IntersectionProvider,
	cache ports.PathCache,
) (*domain.TurnPlan, error) {
	if provider == nil {
		return nil, errors.New("plan turn: intersection provider is nil")
	}

	profileID, profile, err := ResolveProfile(registry, req.ProfileID, req.Profile)
	if err != nil {
		return nil, fmt.Errorf("plan turn: %w", err)
	}

	mv, err := provider.GetMovement(ctx, req.IntersectionID, req.FromRoadID, req.ToRoadID)
	if err != nil {
		return nil, fmt.Errorf("plan turn: intersection %q %s -> %s: %w", req.IntersectionID, req.FromRoadID, req.ToRoadID, err)
	}

	return planMovement(ctx, mv, profileID, profile, req.StepSizeM, cache)
}

func planMovement(
	ctx context.Context,
	mv domain.Movement,
	profileID string,
	profile domain.VehicleProfile,
	stepSize float64,
	cache ports.PathCache,
) (*domain.TurnPlan, error) {
	plan, err := PlanProfilePath(ctx, mv.Start, mv.Goal, profileID, profile, stepSize, cache)
	if err != nil {
		return nil, fmt.Errorf("plan movement %s -> %s: %w", mv.FromRoadID, mv.ToRoadID, err)
	}

	plan.IntersectionID = mv.IntersectionID
	plan.FromRoadID = mv.FromRoadID
	plan.ToRoadID = mv.ToRoadID
	return plan, nil
}

// polylinePointCount is the number of points SampleDubinsPath returns for
// path, computed in floating point so huge paths cannot overflow an int.
func polylinePointCount(path domain.DubinsPath, stepSize float64) float64 {
	count := 1.0
	for _, seg := range path.Segments() {
		if seg.LengthM > 0 {
			count += math.Max(2, math.Round(seg.LengthM/stepSize))
		}
	}
	return count
}

// PathCacheKey identifies a solve+sample by its inputs. Headings are
// normalized so equivalent poses share an entry.
func PathCacheKey(start, goal domain.Pose, turningRadius, stepSize float64) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 12, 64) }

	var b strings.Builder
	b.WriteString("dubins:v1:")
	for _, v := range []float64{
		start.X, start.Y, NormalizeAngle(start.Theta),
		goal.X, goal.Y, NormalizeAngle(goal.Theta),
		turningRadius, stepSize,
	} {
		b.WriteString(f(v))
		b.WriteByte('|')
	}
	return strings.TrimSuffix(b.String(), "|")
}
