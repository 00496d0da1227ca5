package dto

import (
	"haul-turn-planner/internal/domain"

	"github.com/samber/lo"
)

// Exactly one of ProfileID, Profile and TurningRadiusM selects the radius.
type PathRequest struct {
	Start          *PoseRequest    `json:"start"`
	Goal           *PoseRequest    `json:"goal"`
	ProfileID      string          `json:"profile_id"`
	Profile        *ProfileRequest `json:"profile"`
	TurningRadiusM *float64        `json:"turning_radius_m"`
	StepSizeM      *float64        `json:"step_size_m"`
}

type TurnRequest struct {
	IntersectionID string          `json:"intersection_id"`
	FromRoadID     string          `json:"from_road_id"`
	ToRoadID       string          `json:"to_road_id"`
	ProfileID      string          `json:"profile_id"`
	Profile        *ProfileRequest `json:"profile"`
	StepSizeM      *float64        `json:"step_size_m"`
}

type SegmentResponse struct {
	Kind    string  `json:"kind"`
	LengthM float64 `json:"length_m"`
	Param   float64 `json:"param"`
}

type PlanResponse struct {
	IntersectionID  string            `json:"intersection_id,omitempty"`
	FromRoadID      string            `json:"from_road_id,omitempty"`
	ToRoadID        string            `json:"to_road_id,omitempty"`
	ProfileID       string            `json:"profile_id,omitempty"`
	Start           PoseResponse      `json:"start"`
	Goal            PoseResponse      `json:"goal"`
	Family          string            `json:"family"`
	TotalLengthM    float64           `json:"total_length_m"`
	PolylineLengthM float64           `json:"polyline_length_m"`
	TurningRadiusM  float64           `json:"turning_radius_m"`
	SweptWidthM     float64           `json:"swept_width_m,omitempty"`
	StepSizeM       float64           `json:"step_size_m"`
	Cached          bool              `json:"cached"`
	Segments        []SegmentResponse `json:"segments"`
	Polyline        []PointResponse   `json:"polyline"`
}

func NewPlanResponse(plan *domain.TurnPlan) PlanResponse {
	segments := plan.Path.Segments()
	return PlanResponse{
		IntersectionID:  plan.IntersectionID,
		FromRoadID:      plan.FromRoadID,
		ToRoadID:        plan.ToRoadID,
		ProfileID:       plan.ProfileID,
		Start:           NewPoseResponse(plan.Start),
		Goal:            NewPoseResponse(plan.Goal),
		Family:          string(plan.Path.Family()),
		TotalLengthM:    plan.Path.TotalLengthM(),
		PolylineLengthM: domain.PolylineLength(plan.Polyline),
		TurningRadiusM:  plan.TurningRadiusM,
		SweptWidthM:     plan.SweptWidthM,
		StepSizeM:       plan.StepSizeM,
		Cached:          plan.FromCache,
		Segments: lo.Map(segments[:], func(s domain.DubinsSegment, _ int) SegmentResponse {
			return SegmentResponse{Kind: s.Kind.String(), LengthM: s.LengthM, Param: s.Param}
		}),
		Polyline: lo.Map(plan.Polyline, func(p domain.Point, _ int) PointResponse {
			return PointResponse{X: p.X, Y: p.Y}
		}),
	}
}

type ListPlansResponse struct {
	IntersectionID string         `json:"intersection_id"`
	Plans          []PlanResponse `json:"plans"`
}
