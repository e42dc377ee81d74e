// Package retrieval searches the DataVault: candidate query generation,
// filter relaxation, confidence scoring and match-type classification.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
	"github.com/Davg883/Sovereign-Isle/internal/domain/search/filter"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
	"github.com/Davg883/Sovereign-Isle/internal/logger"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
)

const (
	// DefaultTopK is the number of matches requested per search.
	DefaultTopK = 4
	maxAnchors  = 3
)

// Filter tiers, in the order they are tried.
const (
	TierPrimary = "primary"
	TierRelaxed = "relaxed"
	TierNone    = "none"
)

type tier struct {
	name string
	expr filter.Expression
}

// Config tunes retrieval.
type Config struct {
	TopK         int
	Region       string
	ScoringModel string
}

// Service retrieves and grades DataVault sources.
type Service struct {
	embed Embedder
	vault Vault
	llm   Completer
	cfg   Config
}

// New creates a retrieval service.
func New(embed Embedder, vault Vault, llm Completer, cfg Config) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &Service{embed: embed, vault: vault, llm: llm, cfg: cfg}
}

// Request describes one retrieval pass.
type Request struct {
	Query  string
	Intent intent.Intent
	// Window is applied only to Event queries.
	Window *temporal.Range
	// Web seeds candidate queries when non-empty.
	Web []source.WebResult
}

// Retrieve tries every candidate query under the primary filter, then the
// relaxed filter, then no filter, stopping at the first non-empty result.
// Empty results are not an error; embedding and store failures are.
func (s *Service) Retrieve(ctx context.Context, req Request) ([]source.Retrieved, error) {
	primary, err := BuildFilter(req.Intent, req.Window)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	tiers := []tier{{TierPrimary, primary}}
	if !primary.IsEmpty() {
		relaxed, err := RelaxFilter(req.Intent)
		if err != nil {
			return nil, fmt.Errorf("relax filter: %w", err)
		}
		if !relaxed.IsEmpty() && !relaxed.Equal(primary) {
			tiers = append(tiers, tier{TierRelaxed, relaxed})
		}
		tiers = append(tiers, tier{TierNone, filter.Expression{}})
	}

	candidates := CandidateQueries(req.Query, req.Web, s.cfg.Region)
	vectors := make(map[string][]float32, len(candidates))
	log := logger.FromContext(ctx)

	for _, t := range tiers {
		for _, q := range candidates {
			vec, ok := vectors[q]
			if !ok {
				res, err := s.embed.Embed(ctx, q)
				if err != nil {
					return nil, fmt.Errorf("vectorize query: %w", err)
				}
				vec = res.Embedding
				vectors[q] = vec
			}

			found, err := s.vault.Query(ctx, vec, s.cfg.TopK, t.expr)
			if err != nil {
				return nil, fmt.Errorf("search datavault: %w", err)
			}
			if len(found) == 0 {
				metrics.RetrievalAttemptsTotal.WithLabelValues(t.name, "empty").Inc()
				continue
			}
			metrics.RetrievalAttemptsTotal.WithLabelValues(t.name, "hit").Inc()
			log.Debug("datavault hit",
				zap.String("tier", t.name),
				zap.Stringer("filter", t.expr),
				zap.Int("sources", len(found)),
			)
			return found, nil
		}
	}
	return nil, nil
}

// CandidateQueries lists query variants in search order: the query biased
// toward the top web titles, the raw query, then title anchors suffixed with
// the region. Duplicates are dropped.
func CandidateQueries(base string, web []source.WebResult, region string) []string {
	var titles []string
	for _, r := range web {
		if t := strings.TrimSpace(r.Title); t != "" {
			titles = append(titles, t)
		}
		if len(titles) == maxAnchors {
			break
		}
	}

	augmented := base
	if len(titles) > 0 {
		augmented = base + ". Prioritise matches for: " + strings.Join(titles, " | ")
	}

	out := []string{augmented, base}
	for _, t := range titles {
		out = append(out, strings.TrimSpace(t+" "+region))
	}
	return dedupStrings(out)
}

func dedupStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
