package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockProvider struct {
	err   error
	block bool
}

func (m *mockProvider) HealthCheck(ctx context.Context) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockProvider{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[ComponentDatabase] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks[ComponentDatabase])
	}
	if r.Checks[ComponentCompletion] != CheckOK {
		t.Errorf("expected completion %q, got %q", CheckOK, r.Checks[ComponentCompletion])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockProvider{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentDatabase] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks[ComponentDatabase])
	}
	if r.Checks[ComponentCompletion] != CheckOK {
		t.Errorf("expected completion %q, got %q", CheckOK, r.Checks[ComponentCompletion])
	}
}

func TestCheck_CompletionError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockProvider{err: errors.New("401")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentCompletion] != CheckError {
		t.Errorf("expected completion %q, got %q", CheckError, r.Checks[ComponentCompletion])
	}
}

func TestCheck_AllFailing(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("fail")}, &mockProvider{err: errors.New("fail")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoCompletion(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentCompletion]; ok {
		t.Error("completion check should be absent when completion is nil")
	}
}

func TestCheck_ExtraComponent(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockProvider{}, WithCheck("embedding", &mockProvider{err: errors.New("down")}))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
}

func TestCheck_SlowComponentTimesOut(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockProvider{block: true}, WithTimeout(10*time.Millisecond))

	start := time.Now()
	r := svc.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check did not honour the timeout")
	}
	if r.Checks[ComponentCompletion] != CheckError {
		t.Errorf("expected completion %q, got %q", CheckError, r.Checks[ComponentCompletion])
	}
}
