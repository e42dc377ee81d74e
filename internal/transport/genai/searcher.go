// Package genai implements live web search with Gemini Google Search grounding.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
)

var _ domain.WebSearcher = (*Searcher)(nil)

// generator is the slice of genai.Models the searcher uses.
type generator interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Config holds the Gemini search settings.
type Config struct {
	APIKey     string
	Model      string
	Region     string
	MaxResults int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Searcher turns a grounded Gemini answer into web results.
type Searcher struct {
	models     generator
	model      string
	region     string
	maxResults int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewSearcher creates a Gemini-backed web searcher.
func NewSearcher(ctx context.Context, cfg *Config) (*Searcher, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	return newSearcher(client.Models, cfg), nil
}

func newSearcher(models generator, cfg *Config) *Searcher {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Searcher{
		models:     models,
		model:      cfg.Model,
		region:     cfg.Region,
		maxResults: maxResults,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// Search implements domain.WebSearcher.
func (s *Searcher) Search(ctx context.Context, query string) ([]source.WebResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr(float32(0)),
	}

	resp, err := s.models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(s.prompt(query), genai.RoleUser)},
		config,
	)
	if err != nil {
		return nil, fmt.Errorf("gemini search: %w: %w", domain.ErrWebSearchUnavailable, err)
	}

	results := s.extract(resp)
	s.logger.Debug("Web search finished", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

func (s *Searcher) prompt(query string) string {
	return fmt.Sprintf(`Search the web for: %s (%s).
Return only a JSON array of at most %d objects with keys "title", "url" and "snippet",
one per distinct real place, event or business located in %s. No commentary.`,
		query, s.region, s.maxResults, s.region)
}

// extract prefers the model's structured list and falls back to grounding sources.
func (s *Searcher) extract(resp *genai.GenerateContentResponse) []source.WebResult {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]

	var text strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
	}

	results := parseResultList(text.String())
	if len(results) == 0 && cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			results = append(results, source.WebResult{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}
	return s.limit(results)
}

func (s *Searcher) limit(in []source.WebResult) []source.WebResult {
	seen := make(map[string]struct{}, len(in))
	out := make([]source.WebResult, 0, min(len(in), s.maxResults))
	for _, r := range in {
		r.Title = strings.TrimSpace(r.Title)
		r.URL = strings.TrimSpace(r.URL)
		if r.Title == "" || r.URL == "" {
			continue
		}
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
		if len(out) == s.maxResults {
			break
		}
	}
	return out
}

// parseResultList decodes the first JSON array in text, tolerating code fences.
func parseResultList(text string) []source.WebResult {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}
	var results []source.WebResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &results); err != nil {
		return nil
	}
	return results
}
