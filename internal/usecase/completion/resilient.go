// Package completion decorates chat completion providers with call
// discipline (timeouts, rate limiting, retries) and observability.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
)

// Defaults for Resilient.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 500 * time.Millisecond
	DefaultMaxDelay   = 8 * time.Second
)

// Resilient bounds every call with a timeout, waits on a token bucket and
// retries transient provider failures with exponential backoff.
type Resilient struct {
	inner      domain.Completer
	provider   string
	model      string
	timeout    time.Duration
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// ResilientOption configures a Resilient completer.
type ResilientOption func(*Resilient)

// WithTimeout sets the per-attempt deadline. Zero disables it.
func WithTimeout(d time.Duration) ResilientOption {
	return func(r *Resilient) { r.timeout = d }
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) ResilientOption {
	return func(r *Resilient) { r.maxRetries = n }
}

// WithBackoff sets the first retry delay and its cap.
func WithBackoff(base, maxDelay time.Duration) ResilientOption {
	return func(r *Resilient) {
		r.baseDelay = base
		r.maxDelay = maxDelay
	}
}

// WithRateLimit allows rps calls per second with a burst of the same size.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64) ResilientOption {
	return func(r *Resilient) {
		if rps <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

// WithLogger sets the logger for retry warnings.
func WithLogger(l *zap.Logger) ResilientOption {
	return func(r *Resilient) { r.logger = l }
}

// NewResilient wraps inner. provider and model label retry metrics.
func NewResilient(inner domain.Completer, provider, model string, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		inner:      inner,
		provider:   provider,
		model:      model,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		maxDelay:   DefaultMaxDelay,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Complete implements domain.Completer.
func (r *Resilient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = r.model
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := r.backoff(attempt)
			metrics.ModelRetriesTotal.WithLabelValues(r.provider, model).Inc()
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit wait: %w", err)
			}
		}

		out, err := r.attempt(ctx, req)
		if err == nil {
			return out, nil
		}
		if attempt >= r.maxRetries || !r.retryable(ctx, err) {
			return "", err
		}
		r.logger.Warn("Transient completion failure, retrying",
			zap.String("provider", r.provider),
			zap.String("model", model),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
}

func (r *Resilient) attempt(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if r.timeout <= 0 {
		return r.inner.Complete(ctx, req)
	}
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.Complete(callCtx, req)
}

// retryable reports whether err is worth another attempt. A per-attempt
// deadline counts as transient while the caller's context is still live.
func (r *Resilient) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return errors.Is(err, domain.ErrTransient) || errors.Is(err, context.DeadlineExceeded)
}

// backoff is base * 2^(attempt-1), capped at maxDelay.
func (r *Resilient) backoff(attempt int) time.Duration {
	d := r.baseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= r.maxDelay {
			return r.maxDelay
		}
	}
	return min(d, r.maxDelay)
}
