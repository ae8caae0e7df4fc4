package teleop

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRefreshLastCommandTime(t *testing.T) {
	ops := map[string]func(*VelocityState){
		"MoveForward":            (*VelocityState).MoveForward,
		"MoveBackward":           (*VelocityState).MoveBackward,
		"RotateClockwise":        (*VelocityState).RotateClockwise,
		"RotateCounterClockwise": (*VelocityState).RotateCounterClockwise,
		"Stop":                   (*VelocityState).Stop,
		"IncreaseLinearSpeed":    (*VelocityState).IncreaseLinearSpeed,
		"DecreaseLinearSpeed":    (*VelocityState).DecreaseLinearSpeed,
		"IncreaseAngularSpeed":   (*VelocityState).IncreaseAngularSpeed,
		"DecreaseAngularSpeed":   (*VelocityState).DecreaseAngularSpeed,
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			clock := newFakeClock()
			state := NewVelocityState(DefaultLimits(), clock.Now, nil)
			clock.Advance(3 * time.Second)

			op(state)

			assert.Equal(t, clock.Now(), state.Snapshot().LastCommandTime)
		})
	}
}

func TestMoveAndRotateUseSpeedMagnitudes(t *testing.T) {
	state := NewVelocityState(DefaultLimits(), nil, nil)
	for i := 0; i < 4; i++ {
		state.IncreaseLinearSpeed()
	}
	state.IncreaseAngularSpeed()
	state.IncreaseAngularSpeed()

	state.MoveForward()
	state.RotateClockwise()
	snap := state.Snapshot()
	assert.InDelta(t, 0.2, snap.TargetLinear, 1e-9)
	assert.InDelta(t, 0.1, snap.TargetAngular, 1e-9)

	state.MoveBackward()
	state.RotateCounterClockwise()
	snap = state.Snapshot()
	assert.InDelta(t, -0.2, snap.TargetLinear, 1e-9)
	assert.InDelta(t, -0.1, snap.TargetAngular, 1e-9)

	// Speed changes do not retarget an ongoing motion.
	state.IncreaseLinearSpeed()
	assert.InDelta(t, -0.2, state.Snapshot().TargetLinear, 1e-9)
}

func TestStopIsIdempotent(t *testing.T) {
	state := NewVelocityState(DefaultLimits(), nil, nil)
	state.IncreaseLinearSpeed()
	state.IncreaseAngularSpeed()
	state.MoveForward()
	state.RotateClockwise()

	for i := 0; i < 3; i++ {
		state.Stop()
		snap := state.Snapshot()
		assert.Equal(t, VelocityCommand{}, snap.Command())
	}
	// Stop keeps the speed magnitudes.
	assert.InDelta(t, 0.05, state.Snapshot().LinearSpeed, 1e-9)
}

func TestIncreaseThenDecreaseRestoresSpeed(t *testing.T) {
	state := NewVelocityState(DefaultLimits(), nil, nil)
	for i := 0; i < 7; i++ {
		state.IncreaseLinearSpeed()
	}
	before := state.Snapshot()

	state.IncreaseLinearSpeed()
	state.DecreaseLinearSpeed()
	state.IncreaseAngularSpeed()
	state.DecreaseAngularSpeed()

	after := state.Snapshot()
	assert.InDelta(t, before.LinearSpeed, after.LinearSpeed, 1e-12)
	assert.InDelta(t, before.AngularSpeed, after.AngularSpeed, 1e-12)
}

func TestSpeedIsNotCappedAtMax(t *testing.T) {
	state := NewVelocityState(DefaultLimits(), nil, nil)
	for i := 0; i < 30; i++ {
		state.IncreaseLinearSpeed()
	}
	assert.InDelta(t, 1.5, state.Snapshot().LinearSpeed, 1e-9)

	state = NewVelocityState(DefaultLimits(), nil, nil)
	state.DecreaseAngularSpeed()
	assert.InDelta(t, -0.05, state.Snapshot().AngularSpeed, 1e-9)
}

func TestSpeedObserverCalledOnSpeedChangesOnly(t *testing.T) {
	var calls [][2]float64
	state := NewVelocityState(DefaultLimits(), nil, func(l, a float64) {
		calls = append(calls, [2]float64{l, a})
	})

	state.MoveForward()
	state.Stop()
	require.Empty(t, calls)

	state.IncreaseLinearSpeed()
	state.IncreaseAngularSpeed()
	require.Len(t, calls, 2)
	assert.InDelta(t, 0.05, calls[1][0], 1e-9)
	assert.InDelta(t, 0.05, calls[1][1], 1e-9)
}

func TestApplyTransitions(t *testing.T) {
	limits := DefaultLimits()
	clock := newFakeClock()
	state := NewVelocityState(limits, clock.Now, nil)
	for i := 0; i < 30; i++ {
		state.IncreaseLinearSpeed()
		state.IncreaseAngularSpeed()
	}
	state.MoveBackward()
	state.RotateClockwise()

	watchdog := NewCommandWatchdog(limits.MaxCmdVelAge)
	decision := func(evaluate func(VelocityCommand) Verdict) CycleDecision {
		return CycleDecision{Now: clock.Now(), Watchdog: watchdog, MaxLinear: 1, MaxAngular: 1, Evaluate: evaluate}
	}

	t.Run("clamp", func(t *testing.T) {
		var judged VelocityCommand
		out := state.Apply(decision(func(cmd VelocityCommand) Verdict {
			judged = cmd
			return Verdict{Clamped: cmd}
		}))
		assert.False(t, out.Stale)
		assert.Equal(t, VelocityCommand{Linear: -1, Angular: 1}, out.State.Command())
		assert.Equal(t, out.State.Command(), judged, "the clamped command is the one judged")
		assert.InDelta(t, 1.5, out.State.LinearSpeed, 1e-9, "clamp must not touch the magnitude")
	})

	t.Run("hazard zeroes both", func(t *testing.T) {
		state.MoveForward()
		out := state.Apply(decision(func(VelocityCommand) Verdict { return Verdict{Hazard: true} }))
		assert.True(t, out.Verdict.Hazard)
		assert.Equal(t, VelocityCommand{}, out.State.Command())
	})

	t.Run("stale zeroes linear only and skips evaluation", func(t *testing.T) {
		state.MoveBackward()
		state.RotateClockwise()
		clock.Advance(limits.MaxCmdVelAge + time.Millisecond)
		out := state.Apply(decision(func(VelocityCommand) Verdict {
			t.Error("a stale cycle must not evaluate the command")
			return Verdict{}
		}))
		assert.True(t, out.Stale)
		assert.Equal(t, VelocityCommand{Linear: 0, Angular: 1.5}, out.State.Command(), "angular is left as commanded")
	})

	t.Run("forced transitions keep the command time", func(t *testing.T) {
		before := state.Snapshot().LastCommandTime
		clock.Advance(time.Second)
		state.ForceStop()
		state.ZeroLinear()
		state.Clamp(1, 1)
		assert.Equal(t, before, state.Snapshot().LastCommandTime)
	})
}

func TestApplyDecidesStalenessFromLockedState(t *testing.T) {
	limits := DefaultLimits()
	clock := newFakeClock()
	state := NewVelocityState(limits, clock.Now, nil)
	state.IncreaseLinearSpeed()

	// A snapshot taken now would be stale by the time the cycle runs.
	clock.Advance(limits.MaxCmdVelAge + time.Second)
	watchdog := NewCommandWatchdog(limits.MaxCmdVelAge)
	require.True(t, watchdog.IsStale(state.Snapshot().LastCommandTime, clock.Now()))

	// The operator command lands before Apply takes the lock.
	state.MoveForward()
	out := state.Apply(CycleDecision{Now: clock.Now(), Watchdog: watchdog, MaxLinear: 1, MaxAngular: 1})

	assert.False(t, out.Stale)
	assert.InDelta(t, 0.05, out.State.TargetLinear, 1e-9, "a fresh command must not be zeroed as stale")
}

func TestVelocityStateConcurrentAccess(t *testing.T) {
	state := NewVelocityState(DefaultLimits(), nil, nil)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				state.IncreaseLinearSpeed()
				state.MoveForward()
				state.DecreaseLinearSpeed()
				state.Apply(CycleDecision{Now: time.Now(), Watchdog: NewCommandWatchdog(time.Second), MaxLinear: 1, MaxAngular: 1})
				_ = state.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.InDelta(t, 0, state.Snapshot().LinearSpeed, 1e-9)
}
