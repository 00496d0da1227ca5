package domain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Oriented position in the shared planar frame.
// X and Y are in meters; Theta is the heading in radians and may be any
// real value.
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

// Report whether all components are finite numbers.
func (p Pose) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Theta)
}

// Position of the pose without its heading.
func (p Pose) Point() Point { return Point{X: p.X, Y: p.Y} }

// A sampled polyline vertex.
type Point struct {
	X float64
	Y float64
}

// PolylineLength sums the chord lengths between consecutive points.
// It never exceeds the length of the path the points were sampled from.
func PolylineLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += r2.Norm(r2.Sub(r2.Vec(points[i]), r2.Vec(points[i-1])))
	}
	return total
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
