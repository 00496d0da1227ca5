package dto

import "haul-turn-planner/internal/domain"

// Headings are radians, counterclockwise from +x.
type PoseRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

func (p PoseRequest) ToDomain() domain.Pose {
	return domain.Pose{X: p.X, Y: p.Y, Theta: p.Theta}
}

type PointResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PoseResponse struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

func NewPoseResponse(p domain.Pose) PoseResponse {
	return PoseResponse{X: p.X, Y: p.Y, Theta: p.Theta}
}
