package teleop

import "math"

// Sector names reported in a Verdict.
const (
	SectorFront = "front"
	SectorRear  = "rear"
)

// Verdict is the result of evaluating one scan against a candidate velocity.
// Evaluate never mutates anything; the control loop turns a Verdict into
// state transitions.
type Verdict struct {
	// Clamped is the candidate with each axis limited to its maximum magnitude.
	Clamped VelocityCommand
	Hazard  bool
	// The fields below describe the first offending sample when Hazard is set.
	Sector      string
	SampleIndex int
	AngleDeg    float64
	Range       float64
}

// SafetyMonitor checks range scans for obstacles in the front and rear sectors.
type SafetyMonitor struct {
	limits SafetyLimits
}

// NewSafetyMonitor returns a monitor for the given limits.
func NewSafetyMonitor(limits SafetyLimits) SafetyMonitor {
	return SafetyMonitor{limits: limits}
}

// Evaluate clamps the candidate and scans for a sector violation.
//
// Sample i of n is mapped to angle i*360/n - 180 degrees, so the index range
// covers a full turn starting behind the robot. The declared angle bounds of
// the scan are ignored. A nil or empty scan cannot be assessed and never
// yields a hazard. The check does not depend on the sign of the candidate's
// linear velocity: an obstacle behind the robot stops it even when it is
// driving forward.
func (m SafetyMonitor) Evaluate(scan *RangeScan, candidate VelocityCommand) Verdict {
	v := Verdict{
		Clamped: VelocityCommand{
			Linear:  clampMagnitude(candidate.Linear, m.limits.MaxLinearVel),
			Angular: clampMagnitude(candidate.Angular, m.limits.MaxAngularVel),
		},
		SampleIndex: -1,
	}
	if scan == nil || len(scan.Ranges) == 0 {
		return v
	}

	n := len(scan.Ranges)
	for i, r := range scan.Ranges {
		if !(r <= m.limits.MinSafetyDistance) {
			continue
		}
		angle := SampleAngle(i, n)
		sector, ok := m.sectorOf(angle)
		if !ok {
			continue
		}
		v.Hazard = true
		v.Sector = sector
		v.SampleIndex = i
		v.AngleDeg = angle
		v.Range = r
		return v
	}
	return v
}

// IsHazard reports whether the scan has a sample inside a safety sector that
// is at or below the minimum safety distance.
func (m SafetyMonitor) IsHazard(scan *RangeScan, candidate VelocityCommand) bool {
	return m.Evaluate(scan, candidate).Hazard
}

// sectorOf returns the sector containing angle. Bounds are exclusive.
func (m SafetyMonitor) sectorOf(angleDeg float64) (string, bool) {
	half := m.limits.SectorHalfAngleDeg
	if angularDistance(angleDeg, 0) < half {
		return SectorFront, true
	}
	if angularDistance(angleDeg, 180) < half {
		return SectorRear, true
	}
	return "", false
}

// SampleAngle returns the angle in degrees assigned to sample i of n.
// n must be positive.
func SampleAngle(i, n int) float64 {
	inc := 360.0 / float64(n)
	return float64(i)*inc - 180.0
}

// angularDistance is the absolute difference between two angles in degrees,
// wrapped to [0, 180].
func angularDistance(a, b float64) float64 {
	return math.Abs(math.Remainder(a-b, 360))
}

func clampMagnitude(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
