package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, content string, check func(chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "` + req.Model + `",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": ` + mustJSON(t, content) + `}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestCompleter_Complete(t *testing.T) {
	server := newChatServer(t, "Event", func(req chatRequest) {
		if req.Model != "gpt-4o-mini" {
			t.Errorf("expected request model, got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "fireworks tonight?" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		if req.Temperature <= 0 || req.Temperature > 0.001 {
			t.Errorf("expected near-zero temperature, got %v", req.Temperature)
		}
		if req.MaxTokens != 256 {
			t.Errorf("expected max_tokens 256, got %d", req.MaxTokens)
		}
	})
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o", MaxTokens: 256, Logger: zap.NewNop()})

	out, err := c.Complete(context.Background(), domain.CompletionRequest{
		Model:    "gpt-4o-mini",
		Messages: []domain.ChatMessage{domain.SystemMessage("classify"), domain.UserMessage("fireworks tonight?")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Event" {
		t.Errorf("unexpected content %q", out)
	}
}

func TestCompleter_DefaultModel(t *testing.T) {
	server := newChatServer(t, "ok", func(req chatRequest) {
		if req.Model != "gpt-4o" {
			t.Errorf("expected default model, got %q", req.Model)
		}
		if req.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", req.Temperature)
		}
	})
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o", Logger: zap.NewNop()})
	if _, err := c.Complete(context.Background(), domain.CompletionRequest{
		Temperature: 0.7,
		Messages:    []domain.ChatMessage{domain.UserMessage("hi")},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompleter_ServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o", Logger: zap.NewNop()})
	_, err := c.Complete(context.Background(), domain.CompletionRequest{Messages: []domain.ChatMessage{domain.UserMessage("hi")}})
	if !errors.Is(err, domain.ErrCompletionProviderError) || !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected transient provider error, got %v", err)
	}
}
