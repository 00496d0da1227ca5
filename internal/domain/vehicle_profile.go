package domain

import (
	"fmt"
	"math"
)

// Default clearance buffers applied by NewVehicleProfile, in meters.
const (
	DefaultSideBufferM  = 0.5
	DefaultFrontBufferM = 1.0
	DefaultRearBufferM  = 1.0
)

// Physical dimensions and steering limits of a haul vehicle.
// Derived quantities (turning radius, swept width) are computed on demand
// and never stored.
type VehicleProfile struct {
	Name                string  `yaml:"name"`
	VehicleWidthM       float64 `yaml:"vehicle_width_m"`
	WheelbaseM          float64 `yaml:"wheelbase_m"`
	MaxSteeringAngleDeg float64 `yaml:"max_steering_angle_deg"`
	SideBufferM         float64 `yaml:"side_buffer_m"`
	FrontBufferM        float64 `yaml:"front_buffer_m"`
	RearBufferM         float64 `yaml:"rear_buffer_m"`
}

// NewVehicleProfile builds a profile with the default clearance buffers
// and validates it.
func NewVehicleProfile(name string, widthM, wheelbaseM, maxSteeringAngleDeg float64) (VehicleProfile, error) {
	p := VehicleProfile{
		Name:                name,
		VehicleWidthM:       widthM,
		WheelbaseM:          wheelbaseM,
		MaxSteeringAngleDeg: maxSteeringAngleDeg,
		SideBufferM:         DefaultSideBufferM,
		FrontBufferM:        DefaultFrontBufferM,
		RearBufferM:         DefaultRearBufferM,
	}
	if err := p.Validate(); err != nil {
		return VehicleProfile{}, err
	}
	return p, nil
}

// MinTurnRadius applies the bicycle model: wheelbase / tan(steering angle).
// A zero steering angle yields +Inf (a straight-only vehicle).
func MinTurnRadius(wheelbaseM, maxSteeringAngleDeg float64) float64 {
	return wheelbaseM / math.Tan(maxSteeringAngleDeg*math.Pi/180)
}

// Minimum turning radius in meters for this profile.
func (p VehicleProfile) MinTurnRadiusM() float64 {
	return MinTurnRadius(p.WheelbaseM, p.MaxSteeringAngleDeg)
}

// Vehicle width plus the side buffer on both sides.
func (p VehicleProfile) TotalWidthWithBufferM() float64 {
	return p.VehicleWidthM + 2*p.SideBufferM
}

// Validate checks the profile without altering it.
// The steering angle must lie strictly between 0 and 90 degrees.
func (p VehicleProfile) Validate() error {
	if !isFinite(p.MaxSteeringAngleDeg) || p.MaxSteeringAngleDeg <= 0 || p.MaxSteeringAngleDeg >= 90 {
		return fmt.Errorf(
			"validate profile %q: max_steering_angle_deg=%v must be in (0, 90): %w",
			p.Name, p.MaxSteeringAngleDeg, ErrConfiguration,
		)
	}

	if !isFinite(p.WheelbaseM) || p.WheelbaseM <= 0 {
		return fmt.Errorf("validate profile %q: wheelbase_m=%v must be positive: %w", p.Name, p.WheelbaseM, ErrConfiguration)
	}

	dims := []struct {
		field string
		value float64
	}{
		{"vehicle_width_m", p.VehicleWidthM},
		{"side_buffer_m", p.SideBufferM},
		{"front_buffer_m", p.FrontBufferM},
		{"rear_buffer_m", p.RearBufferM},
	}
	for _, d := range dims {
		if !isFinite(d.value) || d.value < 0 {
			return fmt.Errorf("validate profile %q: %s=%v must be non-negative: %w", p.Name, d.field, d.value, ErrConfiguration)
		}
	}

	return nil
}
