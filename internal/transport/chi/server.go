// Package chi exposes the concierge over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/logger"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/chat"
	healthuc "github.com/Davg883/Sovereign-Isle/internal/usecase/health"
)

// Client-facing error messages.
const (
	msgInvalidJSON      = "Request body must be valid JSON."
	msgMissingQuery     = `Missing "query" in request body.`
	msgMethodNotAllowed = "Method not allowed"
	msgNotFound         = "Not found"
	msgInternal         = "Unexpected server error."
)

// maxBodyBytes caps chat request bodies.
const maxBodyBytes = 1 << 20

// ChatService answers a single query.
type ChatService interface {
	Answer(ctx context.Context, query string) (chat.Response, error)
}

// HealthService reports dependency health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// Server holds the HTTP handlers.
type Server struct {
	chat   ChatService
	health HealthService
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(chatSvc ChatService, health HealthService, logger *zap.Logger) *Server {
	return &Server{chat: chatSvc, health: health, logger: logger}
}

// Router wires routes and middleware.
func (s *Server) Router() http.Handler {
	r := gochi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, msgNotFound)
	})

	r.Post("/api/chat", s.Chat)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	query := extractQuery(body)
	if query == "" {
		writeError(w, http.StatusBadRequest, msgMissingQuery)
		return
	}

	resp, err := s.chat.Answer(r.Context(), query)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// handleError maps pipeline failures to responses. Internals never reach the caller.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	if errors.Is(err, domain.ErrEmptyQuery) {
		log.Warn("Rejected empty query", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgMissingQuery)
		return
	}
	log.Error("Chat request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternal)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
