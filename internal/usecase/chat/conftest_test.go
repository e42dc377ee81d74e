package chat

import (
	"context"
	"errors"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/classify"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/retrieval"
)

// --- Mocks ---

type mockClassifier struct {
	result classify.Result
}

func (m *mockClassifier) ClassifyAll(_ context.Context, _ string) classify.Result { return m.result }

// mockRetriever answers Retrieve calls from results in order; extra calls get nothing.
type mockRetriever struct {
	results [][]source.Retrieved
	err     error
	scores  []int
	reqs    []retrieval.Request
	scored  [][]source.Retrieved
}

func (m *mockRetriever) Retrieve(_ context.Context, req retrieval.Request) ([]source.Retrieved, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return nil, nil
	}
	out := m.results[0]
	m.results = m.results[1:]
	return out, nil
}

func (m *mockRetriever) ScoreConfidence(_ context.Context, _ string, sources []source.Retrieved) int {
	m.scored = append(m.scored, sources)
	if len(sources) == 0 {
		return retrieval.MinConfidence
	}
	if len(m.scores) == 0 {
		return retrieval.MinConfidence
	}
	s := m.scores[0]
	m.scores = m.scores[1:]
	return s
}

// mockWeb answers searches from results in order.
type mockWeb struct {
	results [][]source.WebResult
	err     error
	calls   int
}

func (m *mockWeb) Search(_ context.Context, _ string) ([]source.WebResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return nil, nil
	}
	out := m.results[0]
	m.results = m.results[1:]
	return out, nil
}

type mockCompleter struct {
	reply string
	err   error
	reqs  []domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.reqs = append(m.reqs, req)
	return m.reply, m.err
}

var errStore = errors.New("store unavailable")

func strPtr(s string) *string { return &s }
