package diagnostic

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/safeteleop/domain/teleop"
)

// LoopMetrics summarizes the control loop since startup.
type LoopMetrics struct {
	Timestamp    time.Time           `json:"timestamp"`
	StartedAt    time.Time           `json:"started_at"`
	Cycles       uint64              `json:"cycles"`
	StaleCycles  uint64              `json:"stale_cycles"`
	HazardCycles uint64              `json:"hazard_cycles"`
	LastHazardAt time.Time           `json:"last_hazard_at,omitempty"`
	LastHazard   *teleop.Verdict     `json:"last_hazard,omitempty"`
	LastReport   *teleop.CycleReport `json:"last_report,omitempty"`
	FinalCommand bool                `json:"final_command_sent"`
}

// DiagnosticService records control cycle reports for the diagnostics API.
type DiagnosticService struct {
	mu      sync.RWMutex
	metrics LoopMetrics
	now     func() time.Time
}

var _ teleop.CycleObserver = (*DiagnosticService)(nil)

// NewDiagnosticService creates a new diagnostic service instance
func NewDiagnosticService() *DiagnosticService {
	return &DiagnosticService{
		metrics: LoopMetrics{StartedAt: time.Now()},
		now:     time.Now,
	}
}

// ObserveCycle records one published command.
func (s *DiagnosticService) ObserveCycle(report teleop.CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Timestamp = s.now()
	if report.Final {
		s.metrics.FinalCommand = true
	} else {
		s.metrics.Cycles = report.Cycle
	}
	if report.Stale {
		s.metrics.StaleCycles++
	}
	if report.Hazard {
		s.metrics.HazardCycles++
		s.metrics.LastHazardAt = report.Time
		verdict := report.Verdict
		s.metrics.LastHazard = &verdict
	}
	r := report
	s.metrics.LastReport = &r
}

// GetMetrics returns a copy of the current loop metrics
func (s *DiagnosticService) GetMetrics() LoopMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.metrics
}

// GetMetricsHandler handles API requests for control loop metrics
func (s *DiagnosticService) GetMetricsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"metrics": s.GetMetrics(),
	})
}
