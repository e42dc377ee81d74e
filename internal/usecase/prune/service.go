// Package prune removes DataVault events that have already ended.
package prune

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
)

// DefaultSchedule runs daily at 03:00.
const DefaultSchedule = "0 3 * * *"

const runTimeout = 5 * time.Minute

// Service deletes expired events on a cron schedule.
type Service struct {
	store    EventStore
	location *time.Location
	now      func() time.Time
	cron     *cron.Cron
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a pruning service. "Today" is evaluated in loc.
func New(store EventStore, loc *time.Location, logger *zap.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		store:    store,
		location: loc,
		now:      time.Now,
		cron:     cron.New(cron.WithLocation(loc)),
		logger:   logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RunOnce deletes every Event whose end date is before today.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	today := temporal.NumericDateOf(s.now().In(s.location))
	deleted, err := s.store.DeleteEventsEndedBefore(ctx, today)
	if deleted > 0 {
		metrics.PrunedRecordsTotal.Add(float64(deleted))
	}
	if err != nil {
		return deleted, fmt.Errorf("prune events before %d: %w", today, err)
	}
	return deleted, nil
}

// Start schedules RunOnce using a standard five-field cron expression.
func (s *Service) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return fmt.Errorf("schedule prune %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Expired event pruning scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Expired event pruning stopped")
}

func (s *Service) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	deleted, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("Expired event pruning failed", zap.Int("deleted", deleted), zap.Error(err))
		return
	}
	s.logger.Info("Expired event pruning completed",
		zap.Int("deleted", deleted),
		zap.Duration("duration", time.Since(start)),
	)
}
