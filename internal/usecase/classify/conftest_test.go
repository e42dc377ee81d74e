package classify

import (
	"context"
	"strings"
	"sync"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
)

// mockCompleter answers by matching the system prompt against its routes.
type mockCompleter struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []domain.CompletionRequest
}

type reply struct {
	text string
	err  error
}

func newMockCompleter() *mockCompleter {
	return &mockCompleter{routes: make(map[string]reply)}
}

func (m *mockCompleter) on(promptPrefix, text string, err error) *mockCompleter {
	m.routes[promptPrefix] = reply{text: text, err: err}
	return m
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	system := req.Messages[0].Content
	for prefix, r := range m.routes {
		if strings.HasPrefix(system, prefix) {
			return r.text, r.err
		}
	}
	return "", context.DeadlineExceeded
}

func (m *mockCompleter) callsFor(promptPrefix string) []domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CompletionRequest
	for _, c := range m.calls {
		if strings.HasPrefix(c.Messages[0].Content, promptPrefix) {
			out = append(out, c)
		}
	}
	return out
}

const (
	intentPrefix   = "You are a classification agent."
	temporalPrefix = "Analyze the user's query and the current date"
	geoPrefix      = "Analyze the user's query to determine"
)
