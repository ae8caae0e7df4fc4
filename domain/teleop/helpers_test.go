package teleop

import (
	"sync"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu   sync.Mutex
	cmds []VelocityCommand
	err  error
}

func (p *recordingPublisher) PublishVelocity(cmd VelocityCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cmds = append(p.cmds, cmd)
	return p.err
}

func (p *recordingPublisher) Commands() []VelocityCommand {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]VelocityCommand, len(p.cmds))
	copy(out, p.cmds)
	return out
}

func (p *recordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cmds)
}

type recordingObserver struct {
	mu      sync.Mutex
	reports []CycleReport
}

func (o *recordingObserver) ObserveCycle(r CycleReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reports = append(o.reports, r)
}

func (o *recordingObserver) Finals() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, r := range o.reports {
		if r.Final {
			n++
		}
	}
	return n
}

// uniformScan returns n samples all at distance d.
func uniformScan(n int, d float64) *RangeScan {
	ranges := make([]float64, n)
	for i := range ranges {
		ranges[i] = d
	}
	return &RangeScan{
		Ranges:         ranges,
		AngleMin:       -3.14159,
		AngleMax:       3.14159,
		AngleIncrement: 2 * 3.14159 / float64(n),
	}
}

func newTestSupervisor(clock *fakeClock) (*Supervisor, *recordingPublisher) {
	pub := &recordingPublisher{}
	sup := NewSupervisor(pub, Options{
		Limits: DefaultLimits(),
		Now:    clock.Now,
	})
	return sup, pub
}
