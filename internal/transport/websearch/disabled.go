// Package websearch holds the no-op web search used when no live backend is configured.
package websearch

import (
	"context"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
)

var _ domain.WebSearcher = Disabled{}

// Disabled always returns no results, leaving the pipeline in DataVault-only mode.
type Disabled struct{}

// Search implements domain.WebSearcher.
func (Disabled) Search(context.Context, string) ([]source.WebResult, error) {
	return nil, nil
}
