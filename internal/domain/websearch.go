package domain

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
)

// WebSearcher runs a live web search. Implementations may legitimately
// return no results; callers treat errors the same as an empty list.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]source.WebResult, error)
}
