package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDubinsPathTotalIsSegmentSum(t *testing.T) {
	segs := [3]DubinsSegment{
		NewDubinsSegment(SegmentLeft, 0.5, 10),
		NewDubinsSegment(SegmentStraight, 2.25, 10),
		NewDubinsSegment(SegmentRight, 1.25, 10),
	}
	path := NewDubinsPath(FamilyLSR, segs)

	assert.Equal(t, segs[0].LengthM+segs[1].LengthM+segs[2].LengthM, path.TotalLengthM())
	assert.InDelta(t, 40.0, path.TotalLengthM(), 1e-12)
	assert.Equal(t, FamilyLSR, path.Family())
	assert.False(t, path.IsDegenerate())
}

func TestNewDubinsSegmentUsesMagnitude(t *testing.T) {
	seg := NewDubinsSegment(SegmentRight, -0.75, 4)
	assert.Equal(t, 3.0, seg.LengthM)
	assert.Equal(t, -0.75, seg.Param)
}

func TestSegmentKindRoundTrip(t *testing.T) {
	for _, k := range []SegmentKind{SegmentLeft, SegmentRight, SegmentStraight} {
		got, err := ParseSegmentKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseSegmentKind("X")
	require.ErrorIs(t, err, ErrInvalidParameter)
}
