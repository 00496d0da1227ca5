package services

import (
	"haul-turn-planner/internal/domain"
	"math"
)

// Local-frame description of a solve: start heading alpha and goal
// heading beta measured from the start->goal chord, and the chord length
// d in units of the turning radius.
type dubinsFrame struct {
	alpha, beta, d float64
	sa, sb, ca, cb float64
	cab, dSq       float64
}

func newDubinsFrame(alpha, beta, d float64) dubinsFrame {
	return dubinsFrame{
		alpha: alpha,
		beta:  beta,
		d:     d,
		sa:    math.Sin(alpha),
		sb:    math.Sin(beta),
		ca:    math.Cos(alpha),
		cb:    math.Cos(beta),
		cab:   math.Cos(alpha - beta),
		dSq:   d * d,
	}
}

// Rounding slack on the square-root and arccosine domains. Arguments
// within this distance outside the domain are clamped onto its edge.
const feasibilityEpsilon = 1e-10

func clampSquare(v float64) (float64, bool) {
	if v < 0 {
		if v < -feasibilityEpsilon {
			return 0, false
		}
		return 0, true
	}
	return v, true
}

func clampCosine(v float64) (float64, bool) {
	if math.Abs(v) > 1 {
		if math.Abs(v) > 1+feasibilityEpsilon {
			return 0, false
		}
		return math.Copysign(1, v), true
	}
	return v, true
}

// Raw (t, p, q) parameters of a family in radius-normalized units.
type familyParams [3]float64

func (p familyParams) cost() float64 {
	return math.Abs(p[0]) + math.Abs(p[1]) + math.Abs(p[2])
}

// A family solver reports ok=false when the family cannot connect the
// two poses.
type familySolver func(f dubinsFrame) (familyParams, bool)

type dubinsFamily struct {
	family domain.PathFamily
	kinds  [3]domain.SegmentKind
	solve  familySolver
}

// Evaluation order doubles as the tie-break order.
var dubinsFamilies = []dubinsFamily{
	{domain.FamilyLSL, [3]domain.SegmentKind{domain.SegmentLeft, domain.SegmentStraight, domain.SegmentLeft}, solveLSL},
	{domain.FamilyRSR, [3]domain.SegmentKind{domain.SegmentRight, domain.SegmentStraight, domain.SegmentRight}, solveRSR},
	{domain.FamilyLSR, [3]domain.SegmentKind{domain.SegmentLeft, domain.SegmentStraight, domain.SegmentRight}, solveLSR},
	{domain.FamilyRSL, [3]domain.SegmentKind{domain.SegmentRight, domain.SegmentStraight, domain.SegmentLeft}, solveRSL},
	{domain.FamilyRLR, [3]domain.SegmentKind{domain.SegmentRight, domain.SegmentLeft, domain.SegmentRight}, solveRLR},
	{domain.FamilyLRL, [3]domain.SegmentKind{domain.SegmentLeft, domain.SegmentRight, domain.SegmentLeft}, solveLRL},
}

func solveLSL(f dubinsFrame) (familyParams, bool) {
	pSq := 2 + f.dSq - 2*f.cab + 2*f.d*(f.sa-f.sb)
	pSq, ok := clampSquare(pSq)
	if !ok {
		return familyParams{}, false
	}
	tmp := math.Atan2(f.cb-f.ca, f.d+f.sa-f.sb)
	return familyParams{mod2pi(tmp - f.alpha), math.Sqrt(pSq), mod2pi(f.beta - tmp)}, true
}

func solveRSR(f dubinsFrame) (familyParams, bool) {
	pSq := 2 + f.dSq - 2*f.cab + 2*f.d*(f.sb-f.sa)
	pSq, ok := clampSquare(pSq)
	if !ok {
		return familyParams{}, false
	}
	tmp := math.Atan2(f.ca-f.cb, f.d-f.sa+f.sb)
	return familyParams{mod2pi(f.alpha - tmp), math.Sqrt(pSq), mod2pi(tmp - f.beta)}, true
}

func solveLSR(f dubinsFrame) (familyParams, bool) {
	pSq := -2 + f.dSq + 2*f.cab + 2*f.d*(f.sa+f.sb)
	pSq, ok := clampSquare(pSq)
	if !ok {
		return familyParams{}, false
	}
	p := math.Sqrt(pSq)
	tmp := math.Atan2(-f.ca-f.cb, f.d+f.sa+f.sb) - math.Atan2(-2, p)
	return familyParams{mod2pi(tmp - f.alpha), p, mod2pi(tmp - f.beta)}, true
}

func solveRSL(f dubinsFrame) (familyParams, bool) {
	pSq := -2 + f.dSq + 2*f.cab - 2*f.d*(f.sa+f.sb)
	pSq, ok := clampSquare(pSq)
	if !ok {
		return familyParams{}, false
	}
	p := math.Sqrt(pSq)
	tmp := math.Atan2(f.ca+f.cb, f.d-f.sa-f.sb) - math.Atan2(2, p)
	return familyParams{mod2pi(f.alpha - tmp), p, mod2pi(f.beta - tmp)}, true
}

func solveRLR(f dubinsFrame) (familyParams, bool) {
	x := (6 - f.dSq + 2*f.cab + 2*f.d*(f.sa-f.sb)) / 8
	x, ok := clampCosine(x)
	if !ok {
		return familyParams{}, false
	}
	phi := math.Atan2(f.ca-f.cb, f.d-f.sa+f.sb)
	p := mod2pi(twoPi - math.Acos(x))
	t := mod2pi(f.alpha - phi + mod2pi(p/2))
	return familyParams{t, p, mod2pi(f.alpha - f.beta - t + p)}, true
}

func solveLRL(f dubinsFrame) (familyParams, bool) {
	x := (6 - f.dSq + 2*f.cab + 2*f.d*(f.sb-f.sa)) / 8
	x, ok := clampCosine(x)
	if !ok {
		return familyParams{}, false
	}
	phi := math.Atan2(f.ca-f.cb, f.d+f.sa-f.sb)
	p := mod2pi(twoPi - math.Acos(x))
	t := mod2pi(-f.alpha - phi + p/2)
	return familyParams{t, p, mod2pi(f.beta - f.alpha - t + p)}, true
}
