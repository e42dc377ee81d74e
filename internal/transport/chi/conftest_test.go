package chi

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/usecase/chat"
	healthuc "github.com/Davg883/Sovereign-Isle/internal/usecase/health"
)

// --- Mocks ---

type mockChat struct {
	resp    chat.Response
	err     error
	panics  bool
	queries []string
}

func (m *mockChat) Answer(_ context.Context, query string) (chat.Response, error) {
	if m.panics {
		panic("boom")
	}
	m.queries = append(m.queries, query)
	return m.resp, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }
