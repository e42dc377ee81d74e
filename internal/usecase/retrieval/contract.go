package retrieval

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/search/filter"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Vault runs similarity search against the DataVault.
type Vault interface {
	Query(ctx context.Context, vector []float32, topK int, f filter.Expression) ([]source.Retrieved, error)
}

// Completer runs a single chat completion.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
