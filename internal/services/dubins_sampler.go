package services

import (
	"fmt"
	"haul-turn-planner/internal/domain"
	"math"
)

// SampleDubinsPath walks the path's segments from start and returns the
// visited positions, beginning with the start position.
//
// Each non-empty segment is split into max(2, round(length/stepSize))
// equal sub-steps. Zero-length segments contribute no points, so a
// zero-length path samples to the start position alone.
func SampleDubinsPath(path domain.DubinsPath, start domain.Pose, turningRadius, stepSize float64) ([]domain.Point, error) {
	if !(stepSize > 0) || math.IsInf(stepSize, 1) {
		return nil, fmt.Errorf("sample dubins path: step_size=%v must be positive and finite: %w", stepSize, domain.ErrInvalidParameter)
	}
	if !(turningRadius > 0) || math.IsInf(turningRadius, 1) {
		return nil, fmt.Errorf("sample dubins path: turning_radius=%v must be positive and finite: %w", turningRadius, domain.ErrInvalidParameter)
	}
	if !start.IsFinite() {
		return nil, fmt.Errorf("sample dubins path: start=%+v must be finite: %w", start, domain.ErrInvalidParameter)
	}

	segs := path.Segments()

	capacity := 1
	for _, s := range segs {
		if s.LengthM > 0 {
			capacity += subSteps(s.LengthM, stepSize)
		}
	}
	points := make([]domain.Point, 0, capacity)
	points = append(points, start.Point())

	pose := start
	for _, seg := range segs {
		if seg.LengthM <= 0 {
			continue
		}

		n := subSteps(seg.LengthM, stepSize)
		switch seg.Kind {
		case domain.SegmentStraight:
			pose, points = sampleStraight(pose, seg.LengthM, n, points)
		case domain.SegmentLeft:
			pose, points = sampleArc(pose, seg.Param, 1, turningRadius, n, points)
		case domain.SegmentRight:
			pose, points = sampleArc(pose, seg.Param, -1, turningRadius, n, points)
		default:
			return nil, fmt.Errorf("sample dubins path: unknown segment kind %v: %w", seg.Kind, domain.ErrInvalidParameter)
		}
	}

	return points, nil
}

func subSteps(length, stepSize float64) int {
	n := int(math.Round(length / stepSize))
	return max(2, n)
}

func sampleStraight(pose domain.Pose, length float64, n int, points []domain.Point) (domain.Pose, []domain.Point) {
	step := length / float64(n)
	sin, cos := math.Sincos(pose.Theta)
	for i := 0; i < n; i++ {
		pose.X += step * cos
		pose.Y += step * sin
		points = append(points, pose.Point())
	}
	return pose, points
}

// sampleArc turns |arc| radians about the circle tangent to the current
// heading; dir is +1 for left turns and -1 for right turns.
func sampleArc(pose domain.Pose, arc, dir, radius float64, n int, points []domain.Point) (domain.Pose, []domain.Point) {
	sin, cos := math.Sincos(pose.Theta)
	cx := pose.X - dir*radius*sin
	cy := pose.Y + dir*radius*cos

	startAngle := math.Atan2(pose.Y-cy, pose.X-cx)
	sweep := dir * math.Abs(arc)

	for i := 1; i < n; i++ {
		a := startAngle + sweep*float64(i)/float64(n)
		points = append(points, domain.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}

	end := startAngle + sweep
	next := domain.Pose{
		X:     cx + radius*math.Cos(end),
		Y:     cy + radius*math.Sin(end),
		Theta: NormalizeAngle(pose.Theta + sweep),
	}
	points = append(points, next.Point())
	return next, points
}
