package retrieval

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/search/filter"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
)

// --- Mocks ---

// mockEmbedder encodes each text as a one-element vector holding its call order.
type mockEmbedder struct {
	texts []string
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	m.texts = append(m.texts, text)
	return domain.EmbeddingResult{Embedding: []float32{float32(len(m.texts))}}, nil
}

type vaultCall struct {
	vector []float32
	topK   int
	filter filter.Expression
}

// mockVault returns results from respond, or nothing when respond is nil.
type mockVault struct {
	calls   []vaultCall
	respond func(call int, f filter.Expression) []source.Retrieved
	err     error
}

func (m *mockVault) Query(_ context.Context, vector []float32, topK int, f filter.Expression) ([]source.Retrieved, error) {
	m.calls = append(m.calls, vaultCall{vector: vector, topK: topK, filter: f})
	if m.err != nil {
		return nil, m.err
	}
	if m.respond == nil {
		return nil, nil
	}
	return m.respond(len(m.calls), f), nil
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

func strPtr(s string) *string { return &s }
