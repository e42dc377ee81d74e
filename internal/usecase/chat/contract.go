package chat

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/geo"
	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
	"github.com/Davg883/Sovereign-Isle/internal/domain/plan"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/classify"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/prompt"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/retrieval"
)

// Classifier runs the query classifiers.
type Classifier interface {
	ClassifyAll(ctx context.Context, query string) classify.Result
}

// Planner selects and adjusts tool plans.
type Planner interface {
	Select(window *temporal.Range, query string, in intent.Intent) plan.Plan
	ApplyGeo(p plan.Plan, g geo.Intent) plan.Plan
}

// Retriever searches and grades the DataVault.
type Retriever interface {
	Retrieve(ctx context.Context, req retrieval.Request) ([]source.Retrieved, error)
	ScoreConfidence(ctx context.Context, query string, sources []source.Retrieved) int
}

// Assembler renders the synthesis prompt.
type Assembler interface {
	Build(in prompt.Input) []domain.ChatMessage
}

// WebSearcher runs a live web search.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]source.WebResult, error)
}

// Completer runs the answer synthesis call.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
