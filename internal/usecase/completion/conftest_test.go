package completion

import (
	"context"
	"sync"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
)

// scriptedCompleter returns errs in order, then reply.
type scriptedCompleter struct {
	mu        sync.Mutex
	errs      []error
	reply     string
	calls     int
	deadlines []bool
	block     bool
}

func (m *scriptedCompleter) Complete(ctx context.Context, _ domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls++
	_, hasDeadline := ctx.Deadline()
	m.deadlines = append(m.deadlines, hasDeadline)
	var err error
	if len(m.errs) > 0 {
		err = m.errs[0]
		m.errs = m.errs[1:]
	}
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return m.reply, nil
}
