// Package chat drives the concierge pipeline from a user query to a cited answer.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
	"github.com/Davg883/Sovereign-Isle/internal/domain/plan"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
	"github.com/Davg883/Sovereign-Isle/internal/logger"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/prompt"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/retrieval"
)

// DefaultTemperature is the answer synthesis temperature.
const DefaultTemperature = 0.7

// Web search triggers, used as metric labels.
const (
	triggerGeographic = "geographic"
	triggerGate       = "gate"
	triggerFallback   = "fallback"
)

// Config tunes answer synthesis.
type Config struct {
	ChatModel   string
	Temperature float32
}

// Response is the pipeline output returned to callers.
type Response struct {
	Answer                 string             `json:"answer"`
	Sources                []source.Citation  `json:"sources"`
	ToolPlan               plan.View          `json:"toolPlan"`
	GoogleResults          []source.WebResult `json:"googleResults"`
	TemporalClassification *temporal.Range    `json:"temporalClassification"`
}

// Service runs the pipeline. It keeps no per-request state.
type Service struct {
	classifier Classifier
	planner    Planner
	retriever  Retriever
	web        WebSearcher
	assembler  Assembler
	llm        Completer
	cfg        Config
}

// New creates a chat service.
func New(
	classifier Classifier, planner Planner, retriever Retriever,
	web WebSearcher, assembler Assembler, llm Completer, cfg Config,
) *Service {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	return &Service{
		classifier: classifier,
		planner:    planner,
		retriever:  retriever,
		web:        web,
		assembler:  assembler,
		llm:        llm,
		cfg:        cfg,
	}
}

// run holds the evolving state of one request.
type run struct {
	query      string
	intent     intent.Intent
	focus      *temporal.Range
	plan       plan.Plan
	sources    []source.Retrieved
	web        []source.WebResult
	confidence int
}

// Answer runs the full pipeline for query.
func (s *Service) Answer(ctx context.Context, query string) (Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Response{}, domain.ErrEmptyQuery
	}
	log := logger.FromContext(ctx)

	cls := s.classifier.ClassifyAll(ctx, query)
	r := &run{
		query:  query,
		intent: cls.Intent,
		plan:   s.planner.Select(cls.Temporal, query, cls.Intent),
	}
	if cls.Intent == intent.Event {
		r.focus = cls.Temporal
	}

	if cls.Geo.Triggers() {
		r.plan = s.planner.ApplyGeo(r.plan, cls.Geo)
		if err := s.webFirst(ctx, r); err != nil {
			return Response{}, err
		}
	} else {
		if err := s.vaultFirst(ctx, r); err != nil {
			return Response{}, err
		}
	}
	metrics.PlanBranchTotal.WithLabelValues(string(r.plan.Branch())).Inc()

	log.Info("Retrieval finished",
		zap.String("intent", string(cls.Intent)),
		zap.String("branch", string(r.plan.Branch())),
		zap.Bool("geo_constraint", cls.Geo.HasConstraint),
		zap.Int("confidence", r.confidence),
		zap.Int("sources", len(r.sources)),
		zap.Int("web_results", len(r.web)),
	)

	msgs := s.assembler.Build(prompt.Input{
		Query:    query,
		Sources:  retrieval.ClassifyMatches(r.sources, r.web, cls.Geo),
		Web:      r.web,
		Temporal: cls.Temporal,
		Focus:    r.focus,
		Plan:     r.plan,
		Geo:      cls.Geo,
	})

	raw, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Model:       s.cfg.ChatModel,
		Temperature: s.cfg.Temperature,
		Messages:    msgs,
	})
	if err != nil {
		return Response{}, fmt.Errorf("synthesize answer: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		raw = prompt.FallbackAnswer
	}

	answer, paths, err := prompt.ParseResponse(raw)
	if err != nil {
		log.Warn("Cited sources unreadable", zap.Error(err))
	}

	cited := source.Cited(r.sources, paths)
	citations := make([]source.Citation, len(cited))
	for i, c := range cited {
		citations[i] = c.Citation()
	}

	web := r.web
	if web == nil {
		web = []source.WebResult{}
	}

	return Response{
		Answer:                 answer,
		Sources:                citations,
		ToolPlan:               r.plan.View(),
		GoogleResults:          web,
		TemporalClassification: cls.Temporal,
	}, nil
}

// webFirst searches the web before the DataVault so the live results can
// seed candidate queries.
func (s *Service) webFirst(ctx context.Context, r *run) error {
	r.web = s.searchWeb(ctx, r.query, triggerGeographic)

	sources, err := s.retrieve(ctx, r, r.web)
	if err != nil {
		return err
	}
	r.sources = sources
	s.score(ctx, r)
	return nil
}

// vaultFirst consults the DataVault, then the web when confidence is low or
// nothing was found, re-retrieving with web seeds when they exist.
func (s *Service) vaultFirst(ctx context.Context, r *run) error {
	sources, err := s.retrieve(ctx, r, nil)
	if err != nil {
		return err
	}
	r.sources = sources
	s.score(ctx, r)

	if r.plan.ShouldQueryWeb(r.confidence, len(r.sources)) {
		r.web = s.searchWeb(ctx, r.query, triggerGate)
		if len(r.web) > 0 {
			seeded, err := s.retrieve(ctx, r, r.web)
			if err != nil {
				return err
			}
			if len(seeded) > 0 {
				r.sources = seeded
				s.score(ctx, r)
			}
		}
	}

	if len(r.web) == 0 && r.plan.FallbackOnEmpty() && len(r.sources) == 0 {
		r.web = s.searchWeb(ctx, r.query, triggerFallback)
	}
	return nil
}

func (s *Service) retrieve(ctx context.Context, r *run, web []source.WebResult) ([]source.Retrieved, error) {
	if !r.plan.RunDatavault() {
		return nil, nil
	}
	sources, err := s.retriever.Retrieve(ctx, retrieval.Request{
		Query:  r.query,
		Intent: r.intent,
		Window: r.focus,
		Web:    web,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	return sources, nil
}

func (s *Service) score(ctx context.Context, r *run) {
	r.confidence = s.retriever.ScoreConfidence(ctx, r.query, r.sources)
	r.plan = r.plan.WithConfidence(r.confidence)
}

// searchWeb never fails: errors are logged and count as no results.
func (s *Service) searchWeb(ctx context.Context, query, trigger string) []source.WebResult {
	results, err := s.web.Search(ctx, query)
	if err != nil {
		metrics.WebSearchTotal.WithLabelValues(trigger, "error").Inc()
		logger.FromContext(ctx).Warn("Web search failed", zap.String("trigger", trigger), zap.Error(err))
		return nil
	}
	if len(results) == 0 {
		metrics.WebSearchTotal.WithLabelValues(trigger, "empty").Inc()
		return nil
	}
	metrics.WebSearchTotal.WithLabelValues(trigger, "hit").Inc()
	return results
}
