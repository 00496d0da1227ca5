package services

import "math"

const twoPi = 2 * math.Pi

// Values this close below 2*pi are treated as a full turn of zero.
const angleSnapEpsilon = 1e-10

// NormalizeAngle maps any finite angle into (-pi, pi] in closed form.
func NormalizeAngle(theta float64) float64 {
	a := math.Mod(theta+math.Pi, twoPi)
	if a <= 0 {
		a += twoPi
	}
	return a - math.Pi
}

// mod2pi maps an angle into [0, 2*pi).
func mod2pi(theta float64) float64 {
	a := theta - twoPi*math.Floor(theta/twoPi)
	if a >= twoPi-angleSnapEpsilon || a < 0 {
		return 0
	}
	return a
}
