package dto

import (
	"haul-turn-planner/internal/domain"

	"github.com/samber/lo"
)

// Caller-supplied vehicle. Omitted buffers take the default values.
type ProfileRequest struct {
	Name                string   `json:"name"`
	VehicleWidthM       float64  `json:"vehicle_width_m"`
	WheelbaseM          float64  `json:"wheelbase_m"`
	MaxSteeringAngleDeg float64  `json:"max_steering_angle_deg"`
	SideBufferM         *float64 `json:"side_buffer_m"`
	FrontBufferM        *float64 `json:"front_buffer_m"`
	RearBufferM         *float64 `json:"rear_buffer_m"`
}

func (p *ProfileRequest) ToDomain() *domain.VehicleProfile {
	if p == nil {
		return nil
	}
	return &domain.VehicleProfile{
		Name:                p.Name,
		VehicleWidthM:       p.VehicleWidthM,
		WheelbaseM:          p.WheelbaseM,
		MaxSteeringAngleDeg: p.MaxSteeringAngleDeg,
		SideBufferM:         lo.FromPtrOr(p.SideBufferM, domain.DefaultSideBufferM),
		FrontBufferM:        lo.FromPtrOr(p.FrontBufferM, domain.DefaultFrontBufferM),
		RearBufferM:         lo.FromPtrOr(p.RearBufferM, domain.DefaultRearBufferM),
	}
}

type ProfileResponse struct {
	ProfileID           string  `json:"profile_id"`
	Name                string  `json:"name"`
	VehicleWidthM       float64 `json:"vehicle_width_m"`
	WheelbaseM          float64 `json:"wheelbase_m"`
	MaxSteeringAngleDeg float64 `json:"max_steering_angle_deg"`
	SideBufferM         float64 `json:"side_buffer_m"`
	FrontBufferM        float64 `json:"front_buffer_m"`
	RearBufferM         float64 `json:"rear_buffer_m"`
	MinTurnRadiusM      float64 `json:"min_turn_radius_m"`
	SweptWidthM         float64 `json:"swept_width_m"`
}

func NewProfileResponse(id string, p domain.VehicleProfile) ProfileResponse {
	return ProfileResponse{
		ProfileID:           id,
		Name:                p.Name,
		VehicleWidthM:       p.VehicleWidthM,
		WheelbaseM:          p.WheelbaseM,
		MaxSteeringAngleDeg: p.MaxSteeringAngleDeg,
		SideBufferM:         p.SideBufferM,
		FrontBufferM:        p.FrontBufferM,
		RearBufferM:         p.RearBufferM,
		MinTurnRadiusM:      p.MinTurnRadiusM(),
		SweptWidthM:         p.TotalWidthWithBufferM(),
	}
}

type ListProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
}
