package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// ProfileRegistry is an immutable id -> VehicleProfile table.
// It is built once at startup and only read afterwards, so it is safe
// for concurrent use.
type ProfileRegistry struct {
	profiles map[string]VehicleProfile
	ids      []string
}

// NewProfileRegistry validates every profile and builds the registry.
func NewProfileRegistry(profiles map[string]VehicleProfile) (*ProfileRegistry, error) {
	r := &ProfileRegistry{profiles: make(map[string]VehicleProfile, len(profiles))}
	for id, p := range profiles {
		if err := r.add(id, p); err != nil {
			return nil, fmt.Errorf("new profile registry: %w", err)
		}
	}
	r.ids = lo.Keys(r.profiles)
	slices.Sort(r.ids)
	return r, nil
}

// With returns a new registry holding the receiver's profiles plus extra.
// An id that is already registered is rejected rather than overwritten.
func (r *ProfileRegistry) With(extra map[string]VehicleProfile) (*ProfileRegistry, error) {
	next := &ProfileRegistry{profiles: maps.Clone(r.profiles)}
	if next.profiles == nil {
		next.profiles = make(map[string]VehicleProfile, len(extra))
	}

	// Deterministic order so the reported duplicate is stable.
	extraIDs := lo.Keys(extra)
	slices.Sort(extraIDs)
	for _, id := range extraIDs {
		if err := next.add(id, extra[id]); err != nil {
			return nil, fmt.Errorf("extend profile registry: %w", err)
		}
	}
	next.ids = lo.Keys(next.profiles)
	slices.Sort(next.ids)
	return next, nil
}

func (r *ProfileRegistry) add(id string, p VehicleProfile) error {
	if id == "" {
		return fmt.Errorf("register profile: empty id: %w", ErrConfiguration)
	}
	if _, ok := r.profiles[id]; ok {
		return fmt.Errorf("register profile: id %q already registered: %w", id, ErrConfiguration)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("register profile %q: %w", id, err)
	}
	r.profiles[id] = p
	return nil
}

// Lookup returns the profile registered under id or a
// *ProfileNotFoundError listing the registered ids.
func (r *ProfileRegistry) Lookup(id string) (VehicleProfile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return VehicleProfile{}, &ProfileNotFoundError{ID: id, Known: r.IDs()}
	}
	return p, nil
}

// Sorted registered ids.
func (r *ProfileRegistry) IDs() []string {
	return slices.Clone(r.ids)
}

// DefaultProfiles returns the built-in haul truck table.
// Figures are nominal manufacturer dimensions.
func DefaultProfiles() map[string]VehicleProfile {
	return map[string]VehicleProfile{
		"komatsu_830e": {
			Name:                "Komatsu 830E-5",
			VehicleWidthM:       7.32,
			WheelbaseM:          6.35,
			MaxSteeringAngleDeg: 32.0,
			SideBufferM:         DefaultSideBufferM,
			FrontBufferM:        DefaultFrontBufferM,
			RearBufferM:         DefaultRearBufferM,
		},
		"komatsu_930e": {
			Name:                "Komatsu 930E-5",
			VehicleWidthM:       8.69,
			WheelbaseM:          6.35,
			MaxSteeringAngleDeg: 32.0,
			SideBufferM:         DefaultSideBufferM,
			FrontBufferM:        DefaultFrontBufferM,
			RearBufferM:         DefaultRearBufferM,
		},
		"cat_793f": {
			Name:                "Caterpillar 793F",
			VehicleWidthM:       7.60,
			WheelbaseM:          5.90,
			MaxSteeringAngleDeg: 33.0,
			SideBufferM:         DefaultSideBufferM,
			FrontBufferM:        DefaultFrontBufferM,
			RearBufferM:         DefaultRearBufferM,
		},
		"cat_797f": {
			Name:                "Caterpillar 797F",
			VehicleWidthM:       9.75,
			WheelbaseM:          7.20,
			MaxSteeringAngleDeg: 32.0,
			SideBufferM:         DefaultSideBufferM,
			FrontBufferM:        DefaultFrontBufferM,
			RearBufferM:         DefaultRearBufferM,
		},
		"hitachi_eh5000": {
			Name:                "Hitachi EH5000AC-3",
			VehicleWidthM:       8.75,
			WheelbaseM:          6.60,
			MaxSteeringAngleDeg: 31.0,
			SideBufferM:         DefaultSideBufferM,
			FrontBufferM:        DefaultFrontBufferM,
			RearBufferM:         DefaultRearBufferM,
		},
	}
}
