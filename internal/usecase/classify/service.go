// Package classify runs the three query classifiers: content intent, temporal
// window and geographic constraint. Every classifier fails soft.
package classify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/geo"
	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
	"github.com/Davg883/Sovereign-Isle/internal/logger"
)

// Config selects models and the reference frame for classification.
type Config struct {
	ClassifierModel string
	TemporalModel   string
	Region          string
	Locations       []string
	// ReferenceDate pins "today"; the zero value means the clock's current date.
	ReferenceDate time.Time
	Location      *time.Location
}

// Result is the combined output of all classifiers.
type Result struct {
	Intent   intent.Intent
	Temporal *temporal.Range
	Geo      geo.Intent
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service classifies queries with a completion provider.
type Service struct {
	llm Completer
	cfg Config
	now func() time.Time
}

// New creates a classifier service.
func New(llm Completer, cfg Config, opts ...Option) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	s := &Service{llm: llm, cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today returns the reference date as a calendar day.
func (s *Service) Today() time.Time {
	if !s.cfg.ReferenceDate.IsZero() {
		return s.cfg.ReferenceDate
	}
	now := s.now().In(s.cfg.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ClassifyAll runs the classifiers concurrently.
func (s *Service) ClassifyAll(ctx context.Context, query string) Result {
	var (
		res Result
		wg  sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		res.Intent = s.Intent(ctx, query)
	}()
	go func() {
		defer wg.Done()
		res.Temporal = s.Temporal(ctx, query)
	}()
	go func() {
		defer wg.Done()
		res.Geo = s.Geo(ctx, query)
	}()
	wg.Wait()
	return res
}

// Intent labels the query. Any failure yields intent.General.
func (s *Service) Intent(ctx context.Context, query string) intent.Intent {
	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model:    s.cfg.ClassifierModel,
		Messages: []domain.ChatMessage{domain.SystemMessage(intentPrompt()), domain.UserMessage(query)},
	})
	if err != nil {
		logger.FromContext(ctx).Warn("intent classification failed", zap.Error(err))
		return intent.General
	}
	return intent.Parse(raw)
}

// Temporal resolves the date window the query refers to, or nil when the
// reply cannot be trusted.
func (s *Service) Temporal(ctx context.Context, query string) *temporal.Range {
	today := s.Today().Format(time.DateOnly)
	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model:    s.cfg.TemporalModel,
		Messages: []domain.ChatMessage{domain.SystemMessage(temporalPrompt(today)), domain.UserMessage(query)},
	})
	if err != nil {
		logger.FromContext(ctx).Warn("temporal classification failed", zap.Error(err))
		return nil
	}
	r, err := temporal.ParseClassification(raw)
	if err != nil {
		logger.FromContext(ctx).Warn("temporal classification rejected",
			zap.String("raw", raw), zap.Error(err))
		return nil
	}
	return &r
}

// Geo extracts a location constraint. Any failure yields geo.None().
func (s *Service) Geo(ctx context.Context, query string) geo.Intent {
	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model: s.cfg.ClassifierModel,
		Messages: []domain.ChatMessage{
			domain.SystemMessage(geoPrompt(s.cfg.Region, s.cfg.Locations)),
			domain.UserMessage(query),
		},
	})
	if err != nil {
		logger.FromContext(ctx).Warn("geographic classification failed", zap.Error(err))
		return geo.None()
	}
	g, err := geo.ParseClassification(raw)
	if err != nil {
		logger.FromContext(ctx).Warn("geographic classification rejected",
			zap.String("raw", raw), zap.Error(err))
		return geo.None()
	}
	return g
}
