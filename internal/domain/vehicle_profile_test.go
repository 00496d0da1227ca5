package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleProfileMinTurnRadius(t *testing.T) {
	p := VehicleProfile{Name: "test", VehicleWidthM: 7.3, WheelbaseM: 6.35, MaxSteeringAngleDeg: 32.0}

	want := 6.35 / math.Tan(32.0*math.Pi/180)
	assert.InDelta(t, 10.16, p.MinTurnRadiusM(), 0.01)
	assert.Equal(t, want, p.MinTurnRadiusM())
	assert.Equal(t, want, MinTurnRadius(6.35, 32.0))
}

func TestMinTurnRadiusZeroSteeringIsInfinite(t *testing.T) {
	assert.True(t, math.IsInf(MinTurnRadius(6.35, 0), 1))
}

func TestVehicleProfileTotalWidthWithBuffer(t *testing.T) {
	p, err := NewVehicleProfile("test", 7.0, 6.0, 30.0)
	require.NoError(t, err)

	assert.Equal(t, DefaultSideBufferM, p.SideBufferM)
	assert.Equal(t, DefaultFrontBufferM, p.FrontBufferM)
	assert.Equal(t, DefaultRearBufferM, p.RearBufferM)
	assert.InDelta(t, 8.0, p.TotalWidthWithBufferM(), 1e-12)
}

func TestVehicleProfileValidate(t *testing.T) {
	valid := VehicleProfile{Name: "ok", VehicleWidthM: 7, WheelbaseM: 6, MaxSteeringAngleDeg: 30}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *VehicleProfile)
	}{
		{"zero steering", func(p *VehicleProfile) { p.MaxSteeringAngleDeg = 0 }},
		{"negative steering", func(p *VehicleProfile) { p.MaxSteeringAngleDeg = -10 }},
		{"right angle steering", func(p *VehicleProfile) { p.MaxSteeringAngleDeg = 90 }},
		{"obtuse steering", func(p *VehicleProfile) { p.MaxSteeringAngleDeg = 120 }},
		{"nan steering", func(p *VehicleProfile) { p.MaxSteeringAngleDeg = math.NaN() }},
		{"zero wheelbase", func(p *VehicleProfile) { p.WheelbaseM = 0 }},
		{"negative width", func(p *VehicleProfile) { p.VehicleWidthM = -1 }},
		{"negative buffer", func(p *VehicleProfile) { p.RearBufferM = -0.5 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "err = %v", err)
		})
	}
}

func TestNewVehicleProfileRejectsInvalidSteering(t *testing.T) {
	_, err := NewVehicleProfile("bad", 7, 6, 95)
	require.ErrorIs(t, err, ErrConfiguration)
}
