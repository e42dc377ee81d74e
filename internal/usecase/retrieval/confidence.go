package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/logger"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
)

// Confidence bounds. MinConfidence doubles as the "assume insufficient" default.
const (
	MinConfidence = 1
	MaxConfidence = 10

	scoredSources  = 3
	excerptRunes   = 200
	scoringPrompt  = "You are a relevance scoring agent. Based on the supplied DataVault results and the user's request, return a single integer from 1 to 10 indicating how completely and precisely the results answer the request. Respond with only the integer."
	noSummaryLabel = "No summary available."
)

var firstInteger = regexp.MustCompile(`-?\d+`)

// ScoreConfidence asks the model how completely the top sources answer the
// query. No sources, a failed call or an unparseable reply all score MinConfidence.
func (s *Service) ScoreConfidence(ctx context.Context, query string, sources []source.Retrieved) int {
	if len(sources) == 0 {
		return MinConfidence
	}

	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model: s.cfg.ScoringModel,
		Messages: []domain.ChatMessage{
			domain.SystemMessage(scoringPrompt),
			domain.UserMessage(fmt.Sprintf("User Query: %q\nDataVault Results:\n%s", query, summarizeForScoring(sources))),
		},
	})
	if err != nil {
		logger.FromContext(ctx).Warn("datavault confidence scoring failed", zap.Error(err))
		return MinConfidence
	}

	score, ok := parseScore(raw)
	if !ok {
		logger.FromContext(ctx).Warn("unparseable confidence score", zap.String("raw", raw))
		return MinConfidence
	}
	metrics.ConfidenceScore.Observe(float64(score))
	return score
}

func parseScore(raw string) (int, bool) {
	m := firstInteger.FindString(raw)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		// Too many digits to be an int; the sign still decides the clamp.
		if strings.HasPrefix(m, "-") {
			return MinConfidence, true
		}
		return MaxConfidence, true
	}
	return max(MinConfidence, min(MaxConfidence, v)), true
}

func summarizeForScoring(sources []source.Retrieved) string {
	if len(sources) > scoredSources {
		sources = sources[:scoredSources]
	}
	blocks := make([]string, len(sources))
	for i, src := range sources {
		summary := ""
		if src.Summary != nil {
			summary = *src.Summary
		} else {
			summary, _ = src.Excerpt(excerptRunes)
		}
		if summary == "" {
			summary = noSummaryLabel
		}
		blocks[i] = fmt.Sprintf("Result %d: %s\nSummary: %s", i+1, src.Title, summary)
	}
	return strings.Join(blocks, "\n\n")
}
