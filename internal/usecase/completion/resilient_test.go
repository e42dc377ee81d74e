package completion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
)

var (
	errRateLimited = fmt.Errorf("status 429: %w: %w", domain.ErrRateLimited, domain.ErrTransient)
	errBadRequest  = fmt.Errorf("status 400: %w", domain.ErrCompletionProviderError)
)

func fastRetries(n int) []ResilientOption {
	return []ResilientOption{WithMaxRetries(n), WithBackoff(time.Millisecond, 2*time.Millisecond)}
}

func TestResilient_Success(t *testing.T) {
	inner := &scriptedCompleter{reply: "Event"}
	r := NewResilient(inner, "openai", "gpt-4o", fastRetries(2)...)

	out, err := r.Complete(context.Background(), domain.CompletionRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Event" || inner.calls != 1 {
		t.Errorf("out = %q, calls = %d", out, inner.calls)
	}
	if !inner.deadlines[0] {
		t.Error("expected a per-attempt deadline")
	}
}

func TestResilient_RetriesTransient(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{errRateLimited, errRateLimited}, reply: "ok"}
	r := NewResilient(inner, "test-retry", "m-retry", fastRetries(2)...)
	before := testutil.ToFloat64(metrics.ModelRetriesTotal.WithLabelValues("test-retry", "m-retry"))

	out, err := r.Complete(context.Background(), domain.CompletionRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" || inner.calls != 3 {
		t.Errorf("out = %q, calls = %d", out, inner.calls)
	}
	after := testutil.ToFloat64(metrics.ModelRetriesTotal.WithLabelValues("test-retry", "m-retry"))
	if after-before != 2 {
		t.Errorf("retry counter delta = %v, want 2", after-before)
	}
}

func TestResilient_GivesUpAfterMaxRetries(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{errRateLimited, errRateLimited, errRateLimited, errRateLimited}}
	r := NewResilient(inner, "openai", "gpt-4o", fastRetries(2)...)

	_, err := r.Complete(context.Background(), domain.CompletionRequest{})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestResilient_NonTransientNotRetried(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{errBadRequest}}
	r := NewResilient(inner, "openai", "gpt-4o", fastRetries(3)...)

	_, err := r.Complete(context.Background(), domain.CompletionRequest{})
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Errorf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}

func TestResilient_AttemptTimeoutIsRetried(t *testing.T) {
	inner := &scriptedCompleter{block: true}
	opts := append(fastRetries(1), WithTimeout(10*time.Millisecond))
	r := NewResilient(inner, "openai", "gpt-4o", opts...)

	_, err := r.Complete(context.Background(), domain.CompletionRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestResilient_CanceledCallerNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inner := &scriptedCompleter{errs: []error{errRateLimited}}
	r := NewResilient(inner, "openai", "gpt-4o", fastRetries(3)...)

	if _, err := r.Complete(ctx, domain.CompletionRequest{}); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}

func TestResilient_Backoff(t *testing.T) {
	r := NewResilient(&scriptedCompleter{}, "p", "m")
	tests := map[int]time.Duration{
		1:  500 * time.Millisecond,
		2:  time.Second,
		3:  2 * time.Second,
		5:  8 * time.Second,
		12: 8 * time.Second,
	}
	for attempt, want := range tests {
		if got := r.backoff(attempt); got != want {
			t.Errorf("backoff(%d) = %v, want %v", attempt, got, want)
		}
	}
}

func TestWithRateLimit(t *testing.T) {
	if r := NewResilient(&scriptedCompleter{}, "p", "m", WithRateLimit(0)); r.limiter != nil {
		t.Error("zero rps should disable limiting")
	}
	r := NewResilient(&scriptedCompleter{}, "p", "m", WithRateLimit(5))
	if r.limiter == nil || r.limiter.Burst() != 5 {
		t.Fatalf("unexpected limiter %+v", r.limiter)
	}
	r = NewResilient(&scriptedCompleter{}, "p", "m", WithRateLimit(0.5))
	if r.limiter.Burst() != 1 {
		t.Errorf("burst = %d, want 1", r.limiter.Burst())
	}
}

func TestResilient_RateLimitHonoursContext(t *testing.T) {
	inner := &scriptedCompleter{reply: "ok"}
	r := NewResilient(inner, "p", "m", WithRateLimit(1))

	if _, err := r.Complete(context.Background(), domain.CompletionRequest{}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.Complete(ctx, domain.CompletionRequest{}); err == nil {
		t.Error("expected the exhausted bucket to fail fast under a short deadline")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}
