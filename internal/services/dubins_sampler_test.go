package services

import (
	"haul-turn-planner/internal/domain"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSampleDubinsPathRejectsBadStep(t *testing.T) {
	path, err := ComputeDubinsPath(domain.Pose{}, domain.Pose{X: 10}, 5)
	require.NoError(t, err)

	for _, step := range []float64{0, -1, math.NaN()} {
		points, err := SampleDubinsPath(path, domain.Pose{}, 5, step)
		require.ErrorIs(t, err, domain.ErrInvalidParameter, "step %v", step)
		assert.Nil(t, points)
	}
}

func TestSampleDubinsPathRejectsBadRadius(t *testing.T) {
	path, err := ComputeDubinsPath(domain.Pose{}, domain.Pose{X: 10}, 5)
	require.NoError(t, err)

	_, err = SampleDubinsPath(path, domain.Pose{}, 0, 1)
	require.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestSampleDubinsPathStraight(t *testing.T) {
	path, err := ComputeDubinsPath(domain.Pose{}, domain.Pose{X: 10}, 5)
	require.NoError(t, err)

	points, err := SampleDubinsPath(path, domain.Pose{}, 5, 2.5)
	require.NoError(t, err)

	want := []domain.Point{{X: 0}, {X: 2.5}, {X: 5}, {X: 7.5}, {X: 10}}
	if diff := cmp.Diff(want, points, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestSampleDubinsPathShortSegmentsUseTwoSubSteps(t *testing.T) {
	path, err := ComputeDubinsPath(domain.Pose{}, domain.Pose{X: 1}, 5)
	require.NoError(t, err)

	points, err := SampleDubinsPath(path, domain.Pose{}, 5, 100)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 0.5, points[1].X, 1e-12)
}

func TestSampleDubinsPathEndsAtGoal(t *testing.T) {
	for _, tc := range solverCases() {
		for _, step := range []float64{0.25, 1, 7.5} {
			path, err := ComputeDubinsPath(tc.start, tc.goal, tc.radius)
			require.NoError(t, err)
			require.False(t, path.IsDegenerate())

			points, err := SampleDubinsPath(path, tc.start, tc.radius, step)
			require.NoError(t, err)
			require.NotEmpty(t, points)

			first := points[0]
			assert.Equal(t, tc.start.Point(), first, tc.name)

			last := points[len(points)-1]
			gap := r2.Norm(r2.Sub(r2.Vec{X: last.X, Y: last.Y}, r2.Vec{X: tc.goal.X, Y: tc.goal.Y}))
			assert.Less(t, gap, 1e-6, "%s step=%v: last point %+v, goal %+v", tc.name, step, last, tc.goal)
		}
	}
}

func TestSampleDubinsPathStepsBoundedByStepSize(t *testing.T) {
	for _, tc := range solverCases() {
		path, err := ComputeDubinsPath(tc.start, tc.goal, tc.radius)
		require.NoError(t, err)

		const step = 1.0
		points, err := SampleDubinsPath(path, tc.start, tc.radius, step)
		require.NoError(t, err)

		// Sub-steps are length/round(length/step), at most 1.5 steps long;
		// chords are never longer than the arcs they cut.
		for i := 1; i < len(points); i++ {
			hop := r2.Norm(r2.Sub(r2.Vec(points[i]), r2.Vec(points[i-1])))
			assert.LessOrEqual(t, hop, 1.5*step+1e-9, tc.name)
		}
		assert.LessOrEqual(t, domain.PolylineLength(points), path.TotalLengthM()+1e-6, tc.name)
	}
}

func TestSampleDubinsPathArcPointsOnCircle(t *testing.T) {
	const radius = 10.0
	const step = 0.5
	start := domain.Pose{X: 0, Y: 0, Theta: 0}
	goal := domain.Pose{X: radius, Y: 2 * radius, Theta: math.Pi / 2}

	path, err := ComputeDubinsPath(start, goal, radius)
	require.NoError(t, err)
	assert.InDelta(t, radius*math.Pi/2+radius, path.TotalLengthM(), 1e-9)

	first := path.Segments()[0]
	require.Equal(t, domain.SegmentLeft, first.Kind)
	assert.InDelta(t, math.Pi/2, first.Param, 1e-9)

	points, err := SampleDubinsPath(path, start, radius, step)
	require.NoError(t, err)

	center := r2.Vec{X: 0, Y: radius}
	n := subSteps(first.LengthM, step)
	require.Greater(t, len(points), n)
	for _, p := range points[:n+1] {
		assert.InDelta(t, radius, r2.Norm(r2.Sub(r2.Vec(p), center)), 1e-9)
	}
	for _, p := range points[n:] {
		assert.InDelta(t, radius, p.X, 1e-9)
	}
}

func TestSampleDubinsPathDeterministic(t *testing.T) {
	tc := solverCases()[4]
	path, err := ComputeDubinsPath(tc.start, tc.goal, tc.radius)
	require.NoError(t, err)

	a, err := SampleDubinsPath(path, tc.start, tc.radius, 0.3)
	require.NoError(t, err)
	b, err := SampleDubinsPath(path, tc.start, tc.radius, 0.3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
