package domain

// Represents a solved and sampled turn for one vehicle.
// A TurnPlan is the output of the planning pipeline; it carries the
// winning Dubins path, its polyline, and the vehicle figures used to
// produce it. Intersection fields are empty for ad-hoc pose pairs.
type TurnPlan struct {
	IntersectionID string
	FromRoadID     string
	ToRoadID       string
	ProfileID      string
	Start          Pose
	Goal           Pose
	TurningRadiusM float64
	SweptWidthM    float64
	StepSizeM      float64
	Path           DubinsPath
	Polyline       []Point
	FromCache      bool
}
