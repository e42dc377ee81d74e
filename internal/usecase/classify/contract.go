package classify

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
)

// Completer runs a single chat completion.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
