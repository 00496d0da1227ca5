package domain

import (
	"fmt"
	"math"
)

// Direction of travel along one path segment.
type SegmentKind int

const (
	SegmentLeft SegmentKind = iota
	SegmentRight
	SegmentStraight
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLeft:
		return "L"
	case SegmentRight:
		return "R"
	case SegmentStraight:
		return "S"
	}
	return fmt.Sprintf("SegmentKind(%d)", int(k))
}

// ParseSegmentKind is the inverse of SegmentKind.String.
func ParseSegmentKind(s string) (SegmentKind, error) {
	switch s {
	case "L":
		return SegmentLeft, nil
	case "R":
		return SegmentRight, nil
	case "S":
		return SegmentStraight, nil
	}
	return 0, fmt.Errorf("parse segment kind %q: %w", s, ErrInvalidParameter)
}

// Canonical Dubins word, or FamilyDegenerate for the straight fallback.
type PathFamily string

const (
	FamilyLSL PathFamily = "LSL"
	FamilyRSR PathFamily = "RSR"
	FamilyLSR PathFamily = "LSR"
	FamilyRSL PathFamily = "RSL"
	FamilyRLR PathFamily = "RLR"
	FamilyLRL PathFamily = "LRL"

	// FamilyDegenerate labels the straight-line fallback used when no
	// canonical family is feasible.
	FamilyDegenerate PathFamily = "DEGENERATE"
)

// One piece of a Dubins path.
// Param is the raw solver output: the arc angle in radians for turns,
// the radius-normalized distance for straights. LengthM is |Param| times
// the turning radius.
type DubinsSegment struct {
	Kind    SegmentKind
	LengthM float64
	Param   float64
}

// NewDubinsSegment scales a raw solver parameter by the turning radius.
func NewDubinsSegment(kind SegmentKind, param, turningRadius float64) DubinsSegment {
	return DubinsSegment{Kind: kind, LengthM: math.Abs(param) * turningRadius, Param: param}
}

// Shortest curvature-bounded path between two poses: exactly three
// segments and their summed length.
// A DubinsPath is immutable; build it with NewDubinsPath.
type DubinsPath struct {
	segments     [3]DubinsSegment
	totalLengthM float64
	family       PathFamily
}

// NewDubinsPath fixes the total length to the exact sum of the segment
// lengths.
func NewDubinsPath(family PathFamily, segments [3]DubinsSegment) DubinsPath {
	return DubinsPath{
		segments:     segments,
		totalLengthM: segments[0].LengthM + segments[1].LengthM + segments[2].LengthM,
		family:       family,
	}
}

func (p DubinsPath) Segments() [3]DubinsSegment { return p.segments }

func (p DubinsPath) TotalLengthM() float64 { return p.totalLengthM }

func (p DubinsPath) Family() PathFamily { return p.family }

// Report whether the path came from the straight-line fallback.
func (p DubinsPath) IsDegenerate() bool { return p.family == FamilyDegenerate }
