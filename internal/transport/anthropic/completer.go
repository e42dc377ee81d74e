// Package anthropic adapts the Anthropic Messages API to domain.Completer.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
)

const (
	providerName     = "anthropic"
	defaultMaxTokens = 1024
)

// Config holds the Anthropic provider settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// Completer runs chat completions against the Messages API.
type Completer struct {
	client    anthropic.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewCompleter creates an Anthropic completion provider. Retries are left to
// the completion decorator, so the SDK's own retry loop is disabled.
func NewCompleter(cfg *Config) *Completer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Completer{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		logger:    cfg.Logger,
	}
}

// Complete implements domain.Completer. System messages are joined into the
// top-level system prompt; the rest keep their order.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	msgs, system := convertMessages(req.Messages)
	if len(msgs) == 0 {
		return "", fmt.Errorf("at least one non-system message is required: %w", domain.ErrCompletionProviderError)
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(c.maxTokens),
		Messages:    msgs,
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", parseAPIError(err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			out.WriteString(block.Text)
		}
	}

	c.logger.Debug("Anthropic completion finished",
		zap.String("model", model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
		zap.String("stop_reason", string(resp.StopReason)),
	)

	return out.String(), nil
}

// Provider names the backend for metrics labels.
func (c *Completer) Provider() string { return providerName }

func convertMessages(in []domain.ChatMessage) ([]anthropic.MessageParam, string) {
	var system []string
	out := make([]anthropic.MessageParam, 0, len(in))
	for _, m := range in {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out, strings.Join(system, "\n\n")
}

func parseAPIError(err error) error {
	wrap := domain.ErrCompletionProviderError
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("anthropic request canceled: %w: %w", wrap, err)
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("anthropic API error %d: %w: %w: %w",
				apiErr.StatusCode, wrap, domain.ErrRateLimited, domain.ErrTransient)
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("anthropic API error %d: %w: %w", apiErr.StatusCode, wrap, domain.ErrTransient)
		default:
			return fmt.Errorf("anthropic API error %d: %w", apiErr.StatusCode, wrap)
		}
	}

	return fmt.Errorf("anthropic request failed: %w: %w: %w", wrap, domain.ErrTransient, err)
}
