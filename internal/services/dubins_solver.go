package services

import (
	"fmt"
	"haul-turn-planner/internal/domain"
	"math"
)

// ComputeDubinsPath returns the shortest path from start to goal that
// never turns tighter than turningRadius.
//
// All six Dubins families are evaluated in the fixed order LSL, RSR, LSR,
// RSL, RLR, LRL; the strictly cheapest wins and ties keep the earlier
// family. Infeasible families are skipped. If none is feasible the result
// is a single straight segment labelled FamilyDegenerate.
func ComputeDubinsPath(start, goal domain.Pose, turningRadius float64) (domain.DubinsPath, error) {
	if !(turningRadius > 0) || math.IsInf(turningRadius, 1) {
		return domain.DubinsPath{}, fmt.Errorf(
			"compute dubins path: turning_radius=%v must be positive and finite: %w",
			turningRadius, domain.ErrInvalidParameter,
		)
	}
	if !start.IsFinite() || !goal.IsFinite() {
		return domain.DubinsPath{}, fmt.Errorf(
			"compute dubins path: start=%+v goal=%+v must be finite: %w",
			start, goal, domain.ErrInvalidParameter,
		)
	}

	// Finite poses can still be too far apart to measure.
	if d := localFrame(start, goal, turningRadius).d; math.IsInf(d, 0) || math.IsNaN(d) {
		return domain.DubinsPath{}, fmt.Errorf(
			"compute dubins path: distance from start=%+v to goal=%+v over turning_radius=%v is not finite: %w",
			start, goal, turningRadius, domain.ErrInvalidParameter,
		)
	}

	return solveDubins(start, goal, turningRadius, dubinsFamilies), nil
}

func solveDubins(start, goal domain.Pose, turningRadius float64, families []dubinsFamily) domain.DubinsPath {
	frame := localFrame(start, goal, turningRadius)

	best := -1
	var bestParams familyParams
	bestCost := math.Inf(1)

	for i, fam := range families {
		params, ok := fam.solve(frame)
		if !ok {
			continue
		}
		if c := params.cost(); c < bestCost {
			best = i
			bestCost = c
			bestParams = params
		}
	}

	if best < 0 {
		return straightFallback(start, goal, turningRadius)
	}

	fam := families[best]
	var segs [3]domain.DubinsSegment
	for i, kind := range fam.kinds {
		segs[i] = domain.NewDubinsSegment(kind, bestParams[i], turningRadius)
	}
	return domain.NewDubinsPath(fam.family, segs)
}

// localFrame expresses the goal relative to the start pose and measures
// both headings from the start->goal chord.
func localFrame(start, goal domain.Pose, turningRadius float64) dubinsFrame {
	dx := goal.X - start.X
	dy := goal.Y - start.Y

	sin, cos := math.Sincos(-start.Theta)
	dxRot := dx*cos - dy*sin
	dyRot := dx*sin + dy*cos

	d := math.Hypot(dxRot, dyRot) / turningRadius

	// Chord direction in the start frame; zero for coincident points.
	var phi float64
	if d > 0 {
		phi = math.Atan2(dyRot, dxRot)
	}

	alpha := mod2pi(-phi)
	beta := mod2pi(NormalizeAngle(goal.Theta-start.Theta) - phi)
	return newDubinsFrame(alpha, beta, d)
}

// straightFallback approximates the connection by driving straight along
// the start heading for the Euclidean distance.
func straightFallback(start, goal domain.Pose, turningRadius float64) domain.DubinsPath {
	length := math.Hypot(goal.X-start.X, goal.Y-start.Y)
	return domain.NewDubinsPath(domain.FamilyDegenerate, [3]domain.DubinsSegment{
		domain.NewDubinsSegment(domain.SegmentStraight, length/turningRadius, turningRadius),
		domain.NewDubinsSegment(domain.SegmentStraight, 0, turningRadius),
		domain.NewDubinsSegment(domain.SegmentStraight, 0, turningRadius),
	})
}
