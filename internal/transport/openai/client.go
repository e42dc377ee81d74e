// Package openai adapts the OpenAI-compatible API to the domain embedding
// and completion contracts.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
)

const providerName = "openai"

// Config holds the provider settings shared by the embedder and completer.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	MaxTokens  int
	Logger     *zap.Logger
}

func newClient(cfg *Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// parseAPIError extracts a human-readable error from the API response and
// wraps it with the given sentinel. 429, 5xx and transport failures are
// additionally marked domain.ErrTransient.
func parseAPIError(op string, err error, wrap error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request canceled: %w: %w", op, wrap, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return statusError(op, reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(op, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	// network failure or per-call deadline
	return fmt.Errorf("%s request failed: %w: %w: %w", op, wrap, domain.ErrTransient, err)
}

func statusError(op string, status int, detail string, wrap error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s API error %d: %s: %w: %w: %w",
			op, status, detail, wrap, domain.ErrRateLimited, domain.ErrTransient)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%s API error %d: %s: %w: %w", op, status, detail, wrap, domain.ErrTransient)
	default:
		return fmt.Errorf("%s API error %d: %s: %w", op, status, detail, wrap)
	}
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
