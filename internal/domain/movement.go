package domain

// A legal turn through an intersection: from the stop line of the entry
// road to the start of the exit road.
type Movement struct {
	IntersectionID string
	FromRoadID     string
	ToRoadID       string
	Start          Pose
	Goal           Pose
}
