package teleop

import (
	"time"

	"github.com/open-teleop/safeteleop/pkg/config"
)

// VelocityCommand is the value published to the actuator every control cycle.
// Linear is m/s along the robot's x axis, Angular is rad/s about z.
type VelocityCommand struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// IsZero reports whether both axes are zero.
func (c VelocityCommand) IsZero() bool {
	return c.Linear == 0 && c.Angular == 0
}

// RangeScan is one immutable proximity-sensor snapshot. Ranges holds one
// distance per angular sample; the angle fields are carried through from the
// sensor but the sector check derives angles from the sample count alone.
type RangeScan struct {
	Ranges         []float64 `json:"ranges"`
	AngleMin       float64   `json:"angle_min"`
	AngleMax       float64   `json:"angle_max"`
	AngleIncrement float64   `json:"angle_increment"`
	CapturedAt     time.Time `json:"captured_at"`
}

// SafetyLimits are the thresholds the supervisor runs with. They are fixed
// once the supervisor is built.
type SafetyLimits struct {
	MaxCmdVelAge          time.Duration
	MaxLinearVel          float64
	MaxAngularVel         float64
	LinearVelIncrement    float64
	AngularVelIncrement   float64
	SectorHalfAngleDeg    float64
	MinSafetyReactionTime time.Duration
	MinSafetyDistance     float64
}

// LimitsFromConfig converts the YAML safety section into SafetyLimits.
func LimitsFromConfig(cfg config.SafetyConfig) SafetyLimits {
	return SafetyLimits{
		MaxCmdVelAge:          cfg.MaxCmdVelAgeDuration(),
		MaxLinearVel:          cfg.MaxLinearVel,
		MaxAngularVel:         cfg.MaxAngularVel,
		LinearVelIncrement:    cfg.LinearVelIncrement,
		AngularVelIncrement:   cfg.AngularVelIncrement,
		SectorHalfAngleDeg:    cfg.SectorHalfAngleDeg,
		MinSafetyReactionTime: cfg.MinSafetyReactionDuration(),
		MinSafetyDistance:     cfg.MinSafetyDistance,
	}
}

// DefaultLimits returns the limits built from the default safety config.
func DefaultLimits() SafetyLimits {
	return LimitsFromConfig(config.DefaultSafetyConfig())
}

// StateSnapshot is a consistent copy of VelocityState taken under its lock.
type StateSnapshot struct {
	TargetLinear    float64   `json:"target_linear"`
	TargetAngular   float64   `json:"target_angular"`
	LinearSpeed     float64   `json:"linear_speed"`
	AngularSpeed    float64   `json:"angular_speed"`
	LastCommandTime time.Time `json:"last_command_time"`
}

// Command returns the target velocity as a VelocityCommand.
func (s StateSnapshot) Command() VelocityCommand {
	return VelocityCommand{Linear: s.TargetLinear, Angular: s.TargetAngular}
}
