package completion

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
)

const operationComplete = "complete"

// Instrumented records request metrics and logs for every completion call.
type Instrumented struct {
	inner    domain.Completer
	provider string
	model    string
	logger   *zap.Logger
}

// NewInstrumented wraps inner. model labels requests that do not name one.
func NewInstrumented(inner domain.Completer, provider, model string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, provider: provider, model: model, logger: logger}
}

// Complete implements domain.Completer.
func (p *Instrumented) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	start := time.Now()
	out, err := p.inner.Complete(ctx, req)
	duration := time.Since(start)

	metrics.ModelRequestDuration.WithLabelValues(p.provider, model, operationComplete).Observe(duration.Seconds())

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(p.provider, model, operationComplete, "error").Inc()
		p.logger.Error("Completion request failed",
			zap.String("provider", p.provider),
			zap.String("model", model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", fmt.Errorf("complete: %w", err)
	}

	metrics.ModelRequestsTotal.WithLabelValues(p.provider, model, operationComplete, "success").Inc()
	p.logger.Debug("Completion request completed",
		zap.String("provider", p.provider),
		zap.String("model", model),
		zap.Duration("duration", duration),
		zap.Int("messages", len(req.Messages)),
		zap.Int("response_chars", len(out)),
	)
	return out, nil
}
