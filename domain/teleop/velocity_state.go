package teleop

import (
	"sync"
	"time"
)

// SpeedObserver is notified with the persistent speed magnitudes after they change.
type SpeedObserver func(linearSpeed, angularSpeed float64)

// VelocityState is the operator-intended velocity plus the speed magnitudes
// used by the move and rotate operations. Every method takes the lock, so
// callers on any goroutine see whole snapshots.
type VelocityState struct {
	mu sync.Mutex

	targetLinear    float64
	targetAngular   float64
	linearSpeed     float64
	angularSpeed    float64
	lastCommandTime time.Time

	linearIncrement  float64
	angularIncrement float64

	now      func() time.Time
	observer SpeedObserver
}

// NewVelocityState returns a zeroed state. The last command time starts at
// the zero time, so the watchdog treats the state as stale until the first
// operator command arrives.
func NewVelocityState(limits SafetyLimits, now func() time.Time, observer SpeedObserver) *VelocityState {
	if now == nil {
		now = time.Now
	}
	return &VelocityState{
		linearIncrement:  limits.LinearVelIncrement,
		angularIncrement: limits.AngularVelIncrement,
		now:              now,
		observer:         observer,
	}
}

// Snapshot returns a consistent copy of every field.
func (s *VelocityState) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *VelocityState) snapshotLocked() StateSnapshot {
	return StateSnapshot{
		TargetLinear:    s.targetLinear,
		TargetAngular:   s.targetAngular,
		LinearSpeed:     s.linearSpeed,
		AngularSpeed:    s.angularSpeed,
		LastCommandTime: s.lastCommandTime,
	}
}

// MoveForward sets the linear target to +linear_speed.
func (s *VelocityState) MoveForward() {
	s.mutate(func() { s.targetLinear = s.linearSpeed }, false)
}

// MoveBackward sets the linear target to -linear_speed.
func (s *VelocityState) MoveBackward() {
	s.mutate(func() { s.targetLinear = -s.linearSpeed }, false)
}

// RotateClockwise sets the angular target to +angular_speed.
func (s *VelocityState) RotateClockwise() {
	s.mutate(func() { s.targetAngular = s.angularSpeed }, false)
}

// RotateCounterClockwise sets the angular target to -angular_speed.
func (s *VelocityState) RotateCounterClockwise() {
	s.mutate(func() { s.targetAngular = -s.angularSpeed }, false)
}

// Stop zeroes both targets. It counts as an operator command.
func (s *VelocityState) Stop() {
	s.mutate(func() {
		s.targetLinear = 0
		s.targetAngular = 0
	}, false)
}

// IncreaseLinearSpeed adds the linear increment to the linear magnitude.
// The magnitude is not capped here; the safety clamp caps the target instead.
func (s *VelocityState) IncreaseLinearSpeed() {
	s.mutate(func() { s.linearSpeed += s.linearIncrement }, true)
}

// DecreaseLinearSpeed subtracts the linear increment from the linear magnitude.
func (s *VelocityState) DecreaseLinearSpeed() {
	s.mutate(func() { s.linearSpeed -= s.linearIncrement }, true)
}

// IncreaseAngularSpeed adds the angular increment to the angular magnitude.
func (s *VelocityState) IncreaseAngularSpeed() {
	s.mutate(func() { s.angularSpeed += s.angularIncrement }, true)
}

// DecreaseAngularSpeed subtracts the angular increment from the angular magnitude.
func (s *VelocityState) DecreaseAngularSpeed() {
	s.mutate(func() { s.angularSpeed -= s.angularIncrement }, true)
}

// mutate applies an operator command and refreshes the command timestamp.
// The speed observer runs after the lock is released.
func (s *VelocityState) mutate(apply func(), speedChanged bool) {
	s.mu.Lock()
	apply()
	s.lastCommandTime = s.now()
	linear, angular := s.linearSpeed, s.angularSpeed
	s.mu.Unlock()

	if speedChanged && s.observer != nil {
		s.observer(linear, angular)
	}
}

// ForceStop zeroes both targets without touching the command timestamp.
func (s *VelocityState) ForceStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceStopLocked()
}

func (s *VelocityState) forceStopLocked() {
	s.targetLinear = 0
	s.targetAngular = 0
}

// ZeroLinear zeroes the linear target only, leaving angular motion as it is.
func (s *VelocityState) ZeroLinear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targetLinear = 0
}

// Clamp limits the magnitude of each target to its maximum.
func (s *VelocityState) Clamp(maxLinear, maxAngular float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clampLocked(maxLinear, maxAngular)
}

func (s *VelocityState) clampLocked(maxLinear, maxAngular float64) {
	s.targetLinear = clampMagnitude(s.targetLinear, maxLinear)
	s.targetAngular = clampMagnitude(s.targetAngular, maxAngular)
}

// Apply runs the transitions of one control cycle under a single lock and
// returns the state the cycle must publish. Staleness and the hazard verdict
// are both decided from the locked state, so an operator command can never
// slip in between the decision and the transition it selects.
func (s *VelocityState) Apply(d CycleDecision) CycleOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Watchdog.IsStale(s.lastCommandTime, d.Now) {
		s.targetLinear = 0
		return CycleOutcome{State: s.snapshotLocked(), Stale: true}
	}
	s.clampLocked(d.MaxLinear, d.MaxAngular)

	var verdict Verdict
	if d.Evaluate != nil {
		verdict = d.Evaluate(VelocityCommand{Linear: s.targetLinear, Angular: s.targetAngular})
	}
	if verdict.Hazard {
		s.forceStopLocked()
	}
	return CycleOutcome{State: s.snapshotLocked(), Verdict: verdict}
}
