package config

import (
	"errors"
	"fmt"
	"haul-turn-planner/internal/domain"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var log = logrus.WithField("module", "config")

// Level names in increasing severity, as accepted by LOG_LEVEL.
var logLevelNames = []string{"trace", "debug", "info", "warn", "error", "critical", "off"}

var logLevels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

// Load reads .env files into the process environment. A missing file is
// not an error; variables already set are never overridden.
func Load(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debugf("no %s file, using process environment", name)
				continue
			}
			return fmt.Errorf("load env %q: %w", name, err)
		}
	}
	return nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetFloat returns the float value of key, or fallback when unset.
func GetFloat(key string, fallback float64) (float64, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s=%q: %w", key, raw, domain.ErrConfiguration)
	}
	return v, nil
}

// ParseLogLevel maps a level name (trace debug info warn error critical off)
// to a logrus level.
func ParseLogLevel(name string) (logrus.Level, error) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("log level %q must be one of %v: %w", name, logLevelNames, domain.ErrConfiguration)
	}
	return level, nil
}

// ProfileFile is the YAML layout of an extra vehicle profile file:
//
//	profiles:
//	  light_vehicle:
//	    name: Light vehicle
//	    vehicle_width_m: 2.0
//	    wheelbase_m: 3.2
//	    max_steering_angle_deg: 35
type ProfileFile struct {
	Profiles map[string]profileEntry `yaml:"profiles"`
}

// Buffers are pointers so that an explicit 0 differs from an absent key.
type profileEntry struct {
	Name                string   `yaml:"name"`
	VehicleWidthM       float64  `yaml:"vehicle_width_m"`
	WheelbaseM          float64  `yaml:"wheelbase_m"`
	MaxSteeringAngleDeg float64  `yaml:"max_steering_angle_deg"`
	SideBufferM         *float64 `yaml:"side_buffer_m"`
	FrontBufferM        *float64 `yaml:"front_buffer_m"`
	RearBufferM         *float64 `yaml:"rear_buffer_m"`
}

func (e profileEntry) toDomain() domain.VehicleProfile {
	return domain.VehicleProfile{
		Name:                e.Name,
		VehicleWidthM:       e.VehicleWidthM,
		WheelbaseM:          e.WheelbaseM,
		MaxSteeringAngleDeg: e.MaxSteeringAngleDeg,
		SideBufferM:         lo.FromPtrOr(e.SideBufferM, domain.DefaultSideBufferM),
		FrontBufferM:        lo.FromPtrOr(e.FrontBufferM, domain.DefaultFrontBufferM),
		RearBufferM:         lo.FromPtrOr(e.RearBufferM, domain.DefaultRearBufferM),
	}
}

// LoadProfiles reads extra vehicle profiles from a YAML file. Unknown keys
// are rejected and omitted buffers take the default values. Profiles are
// validated when they are added to a registry.
func LoadProfiles(path string) (map[string]domain.VehicleProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles: read %q: %w", path, err)
	}

	var file ProfileFile
	if err := yaml.UnmarshalStrict(raw, &file); err != nil {
		return nil, fmt.Errorf("load profiles: parse %q: %v: %w", path, err, domain.ErrConfiguration)
	}
	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("load profiles: %q defines no profiles: %w", path, domain.ErrConfiguration)
	}

	out := make(map[string]domain.VehicleProfile, len(file.Profiles))
	for id, e := range file.Profiles {
		out[strings.TrimSpace(id)] = e.toDomain()
	}
	log.WithField("path", path).Infof("loaded %d vehicle profiles", len(out))
	return out, nil
}
