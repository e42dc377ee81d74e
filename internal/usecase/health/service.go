package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase   = "database"
	ComponentCompletion = "completion"
)

// DefaultTimeout bounds each component check.
const DefaultTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// Option configures a Service.
type Option func(*Service)

// WithCheck adds a provider check under name, e.g. "embedding".
func WithCheck(name string, c ProviderChecker) Option {
	return func(s *Service) {
		if c != nil {
			s.checks = append(s.checks, namedCheck{name: name, fn: c.HealthCheck})
		}
	}
}

// WithTimeout sets the per-component deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger logs failing components.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service coordinates health checks.
type Service struct {
	checks  []namedCheck
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Service. completion can be nil.
func New(db DBPinger, completion ProviderChecker, opts ...Option) *Service {
	s := &Service{
		checks:  []namedCheck{{name: ComponentDatabase, fn: db.Ping}},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	if completion != nil {
		s.checks = append(s.checks, namedCheck{name: ComponentCompletion, fn: completion.HealthCheck})
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check runs all component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.checks))

	var wg sync.WaitGroup
	for i, c := range s.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			if err := c.fn(cctx); err != nil {
				s.logger.Warn("Health check failed", zap.String("component", c.name), zap.Error(err))
				results[i] = CheckError
				return
			}
			results[i] = CheckOK
		}()
	}
	wg.Wait()

	checks := make(map[string]CheckResult, len(s.checks))
	failed := 0
	for i, c := range s.checks {
		checks[c.name] = results[i]
		if results[i] == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(s.checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
