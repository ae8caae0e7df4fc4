package teleop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	customlog "github.com/open-teleop/safeteleop/pkg/log"
)

// DefaultControlPeriod is the control cycle period (10 Hz).
const DefaultControlPeriod = 100 * time.Millisecond

// logThrottle bounds repeated warnings from the control loop.
const logThrottle = time.Second

var (
	ErrAlreadyStarted = errors.New("supervisor already started")
	ErrStopped        = errors.New("supervisor stopped")
)

// CommandPublisher delivers velocity commands to the actuator. Publish must
// not block for longer than a send on a local socket.
type CommandPublisher interface {
	PublishVelocity(cmd VelocityCommand) error
}

// CycleDecision carries the inputs one control cycle settles the state with.
// Apply runs the watchdog and Evaluate against the state it holds locked.
type CycleDecision struct {
	Now        time.Time
	Watchdog   CommandWatchdog
	MaxLinear  float64
	MaxAngular float64
	// Evaluate judges the clamped command. Nil never reports a hazard.
	Evaluate func(cmd VelocityCommand) Verdict
}

// CycleOutcome is the state Apply left behind and why.
type CycleOutcome struct {
	State   StateSnapshot
	Stale   bool
	Verdict Verdict
}

// CycleReport describes one published command.
type CycleReport struct {
	Cycle       uint64          `json:"cycle"`
	Time        time.Time       `json:"time"`
	Command     VelocityCommand `json:"command"`
	State       StateSnapshot   `json:"state"`
	Stale       bool            `json:"stale"`
	Hazard      bool            `json:"hazard"`
	Verdict     Verdict         `json:"verdict"`
	ScanSamples int             `json:"scan_samples"`
	ScanAge     time.Duration   `json:"scan_age"`
	// Final marks the fail-safe zero command published on Stop.
	Final bool `json:"final"`
}

// CycleObserver receives a report after every publish. It runs on the
// control loop goroutine and must return quickly.
type CycleObserver interface {
	ObserveCycle(report CycleReport)
}

// Options configure a Supervisor. Zero values fall back to defaults.
type Options struct {
	Limits        SafetyLimits
	Period        time.Duration
	Now           func() time.Time
	Logger        customlog.Logger
	Observer      CycleObserver
	SpeedObserver SpeedObserver
}

// Supervisor owns the velocity state and the range scan cache and runs the
// fixed-rate control loop that publishes commands.
type Supervisor struct {
	limits    SafetyLimits
	period    time.Duration
	now       func() time.Time
	logger    customlog.Logger
	publisher CommandPublisher
	observer  CycleObserver

	state    *VelocityState
	scans    *RangeScanCache
	watchdog CommandWatchdog
	monitor  SafetyMonitor

	mu        sync.Mutex
	started   bool
	stopped   bool
	stopCh    chan struct{}
	done      chan struct{}
	finalOnce sync.Once

	cycles atomic.Uint64

	// Only touched by the goroutine running cycles.
	wasStale       bool
	lastHazardLog  time.Time
	lastPublishLog time.Time
	lastErrorLog   time.Time
}

// NewSupervisor builds a supervisor that publishes through publisher.
// The loop does not run until Start is called.
func NewSupervisor(publisher CommandPublisher, opts Options) *Supervisor {
	if opts.Limits == (SafetyLimits{}) {
		opts.Limits = DefaultLimits()
	}
	if opts.Period <= 0 {
		opts.Period = DefaultControlPeriod
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = customlog.NopLogger{}
	}

	s := &Supervisor{
		limits:    opts.Limits,
		period:    opts.Period,
		now:       opts.Now,
		logger:    opts.Logger,
		publisher: publisher,
		observer:  opts.Observer,
		scans:     NewRangeScanCache(),
		watchdog:  NewCommandWatchdog(opts.Limits.MaxCmdVelAge),
		monitor:   NewSafetyMonitor(opts.Limits),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}

	speedObserver := opts.SpeedObserver
	if speedObserver == nil {
		speedObserver = s.displaySpeeds
	}
	s.state = NewVelocityState(opts.Limits, opts.Now, speedObserver)
	speedObserver(0, 0)
	return s
}

func (s *Supervisor) displaySpeeds(linearSpeed, angularSpeed float64) {
	s.logger.Infof("Linear speed: %.2f, angular speed: %.2f", linearSpeed, angularSpeed)
}

// Start launches the control loop. The loop runs until Stop is called or
// ctx is cancelled; in both cases Stop must still be called to publish the
// final zero command.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	s.logger.Infof("Starting control loop at %v period", s.period)
	go s.run(ctx)
	return nil
}

// Stop signals the loop, waits for the current cycle to finish, then
// publishes one zero command. Calling Stop more than once, or without
// Start, still publishes exactly one zero command overall.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	started := s.started
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
	s.mu.Unlock()

	if started {
		<-s.done
	}

	s.finalOnce.Do(s.publishFinal)
}

// Done is closed when the control loop goroutine has exited.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			s.logger.Infof("Control loop stopping after %d cycles", s.cycles.Load())
			return
		case <-ctx.Done():
			s.logger.Infof("Control loop context done after %d cycles: %v", s.cycles.Load(), ctx.Err())
			return
		default:
		}

		s.runCycle()

		select {
		case <-ticker.C:
		case <-s.stopCh:
		case <-ctx.Done():
		}
	}
}

// runCycle applies the watchdog and the safety monitor and publishes one command.
func (s *Supervisor) runCycle() CycleReport {
	now := s.now()
	scan, _ := s.scans.Latest()

	outcome := s.state.Apply(CycleDecision{
		Now:        now,
		Watchdog:   s.watchdog,
		MaxLinear:  s.limits.MaxLinearVel,
		MaxAngular: s.limits.MaxAngularVel,
		Evaluate: func(cmd VelocityCommand) Verdict {
			return s.monitor.Evaluate(scan, cmd)
		},
	})
	cmd := outcome.State.Command()
	s.publish(cmd, now)

	report := CycleReport{
		Cycle:   s.cycles.Add(1),
		Time:    now,
		Command: cmd,
		State:   outcome.State,
		Stale:   outcome.Stale,
		Hazard:  outcome.Verdict.Hazard,
		Verdict: outcome.Verdict,
	}
	if scan != nil {
		report.ScanSamples = len(scan.Ranges)
		if !scan.CapturedAt.IsZero() {
			report.ScanAge = now.Sub(scan.CapturedAt)
		}
	}
	s.logCycle(report, now)
	if s.observer != nil {
		s.observer.ObserveCycle(report)
	}
	return report
}

func (s *Supervisor) publish(cmd VelocityCommand, now time.Time) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishVelocity(cmd); err != nil && now.Sub(s.lastErrorLog) >= logThrottle {
		s.lastErrorLog = now
		s.logger.Errorf("Failed to publish velocity command: %v", err)
	}
}

func (s *Supervisor) logCycle(r CycleReport, now time.Time) {
	if r.Stale && !s.wasStale {
		s.logger.Warnf("No operator command for more than %v, holding linear velocity at zero", s.limits.MaxCmdVelAge)
	}
	s.wasStale = r.Stale
	if r.Hazard && now.Sub(s.lastHazardLog) >= logThrottle {
		s.lastHazardLog = now
		s.logger.Warnf("Obstacle in %s sector at %.1f deg (%.2f m <= %.2f m), forcing stop",
			r.Verdict.Sector, r.Verdict.AngleDeg, r.Verdict.Range, s.limits.MinSafetyDistance)
	}
	if now.Sub(s.lastPublishLog) >= logThrottle {
		s.lastPublishLog = now
		s.logger.Debugf("Published linear=%.3f angular=%.3f", r.Command.Linear, r.Command.Angular)
	}
}

func (s *Supervisor) publishFinal() {
	zero := VelocityCommand{}
	if s.publisher != nil {
		if err := s.publisher.PublishVelocity(zero); err != nil {
			s.logger.Errorf("Failed to publish final zero command: %v", err)
		}
	}
	s.logger.Infof("Published final zero velocity command")

	if s.observer != nil {
		s.observer.ObserveCycle(CycleReport{
			Cycle:   s.cycles.Load(),
			Time:    s.now(),
			Command: zero,
			State:   s.state.Snapshot(),
			Final:   true,
		})
	}
}

// UpdateScan stores a new range scan. Safe to call from any goroutine.
func (s *Supervisor) UpdateScan(scan *RangeScan) {
	s.scans.Store(scan)
}

// LatestScan returns the most recent scan, if any.
func (s *Supervisor) LatestScan() (*RangeScan, bool) {
	return s.scans.Latest()
}

// State returns a consistent snapshot of the velocity state.
func (s *Supervisor) State() StateSnapshot {
	return s.state.Snapshot()
}

// Period returns the control cycle period.
func (s *Supervisor) Period() time.Duration {
	return s.period
}

// Limits returns the safety limits the supervisor runs with.
func (s *Supervisor) Limits() SafetyLimits {
	return s.limits
}

// Cycles returns the number of control cycles run so far.
func (s *Supervisor) Cycles() uint64 {
	return s.cycles.Load()
}

// Commands returns the operator command surface backed by the supervisor's state.
func (s *Supervisor) Commands() CommandAPI {
	return s.state
}
