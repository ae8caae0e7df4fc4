package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the safety section. Values match the limits the supervisor
// shipped with on the reference robot.
const (
	DefaultMaxCmdVelAge          = 1.0
	DefaultMaxLinearVel          = 1.0
	DefaultMaxAngularVel         = 1.0
	DefaultLinearVelIncrement    = 0.05
	DefaultAngularVelIncrement   = 0.05
	DefaultSectorHalfAngleDeg    = 15.0
	DefaultMinSafetyReactionTime = 0.5
	DefaultMinSafetyDistance     = 0.5
)

// SafetyConfig holds the thresholds that govern velocity caps and the
// proximity check. Times are seconds, distances metres, angles degrees.
type SafetyConfig struct {
	MaxCmdVelAge          float64 `yaml:"max_cmd_vel_age" json:"max_cmd_vel_age"`
	MaxLinearVel          float64 `yaml:"max_linear_vel" json:"max_linear_vel"`
	MaxAngularVel         float64 `yaml:"max_angular_vel" json:"max_angular_vel"`
	LinearVelIncrement    float64 `yaml:"linear_vel_increment" json:"linear_vel_increment"`
	AngularVelIncrement   float64 `yaml:"angular_vel_increment" json:"angular_vel_increment"`
	SectorHalfAngleDeg    float64 `yaml:"safety_sector_half_angle" json:"safety_sector_half_angle"`
	MinSafetyReactionTime float64 `yaml:"min_safety_reaction_time" json:"min_safety_reaction_time"`
	MinSafetyDistance     float64 `yaml:"min_safety_distance" json:"min_safety_distance"`
}

// DefaultSafetyConfig returns the safety section with every field set to its default.
func DefaultSafetyConfig() SafetyConfig {
	return SafetyConfig{
		MaxCmdVelAge:          DefaultMaxCmdVelAge,
		MaxLinearVel:          DefaultMaxLinearVel,
		MaxAngularVel:         DefaultMaxAngularVel,
		LinearVelIncrement:    DefaultLinearVelIncrement,
		AngularVelIncrement:   DefaultAngularVelIncrement,
		SectorHalfAngleDeg:    DefaultSectorHalfAngleDeg,
		MinSafetyReactionTime: DefaultMinSafetyReactionTime,
		MinSafetyDistance:     DefaultMinSafetyDistance,
	}
}

// Validate rejects limits the supervisor cannot run with.
func (c SafetyConfig) Validate() error {
	if c.MaxCmdVelAge <= 0 {
		return fmt.Errorf("invalid safety config: max_cmd_vel_age must be positive, got %v", c.MaxCmdVelAge)
	}
	if c.MaxLinearVel <= 0 {
		return fmt.Errorf("invalid safety config: max_linear_vel must be positive, got %v", c.MaxLinearVel)
	}
	if c.MaxAngularVel <= 0 {
		return fmt.Errorf("invalid safety config: max_angular_vel must be positive, got %v", c.MaxAngularVel)
	}
	if c.LinearVelIncrement < 0 {
		return fmt.Errorf("invalid safety config: linear_vel_increment must not be negative, got %v", c.LinearVelIncrement)
	}
	if c.AngularVelIncrement < 0 {
		return fmt.Errorf("invalid safety config: angular_vel_increment must not be negative, got %v", c.AngularVelIncrement)
	}
	if c.SectorHalfAngleDeg <= 0 || c.SectorHalfAngleDeg > 180 {
		return fmt.Errorf("invalid safety config: safety_sector_half_angle must be in (0, 180] degrees, got %v", c.SectorHalfAngleDeg)
	}
	if c.MinSafetyReactionTime < 0 {
		return fmt.Errorf("invalid safety config: min_safety_reaction_time must not be negative, got %v", c.MinSafetyReactionTime)
	}
	if c.MinSafetyDistance < 0 {
		return fmt.Errorf("invalid safety config: min_safety_distance must not be negative, got %v", c.MinSafetyDistance)
	}
	return nil
}

// MaxCmdVelAgeDuration returns max_cmd_vel_age as a time.Duration.
func (c SafetyConfig) MaxCmdVelAgeDuration() time.Duration {
	return secondsToDuration(c.MaxCmdVelAge)
}

// MinSafetyReactionDuration returns min_safety_reaction_time as a time.Duration.
func (c SafetyConfig) MinSafetyReactionDuration() time.Duration {
	return secondsToDuration(c.MinSafetyReactionTime)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadSafetyConfig reads a standalone safety YAML file. Keys absent from the
// file keep their defaults.
func LoadSafetyConfig(path string) (*SafetyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading safety config file '%s': %w", path, err)
	}

	cfg := DefaultSafetyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing safety config file '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
