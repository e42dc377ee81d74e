package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Davg883/Sovereign-Isle/internal/config"
	dbRedis "github.com/Davg883/Sovereign-Isle/internal/db/redis"
	"github.com/Davg883/Sovereign-Isle/internal/domain"
	logpkg "github.com/Davg883/Sovereign-Isle/internal/logger"
	"github.com/Davg883/Sovereign-Isle/internal/metrics"
	"github.com/Davg883/Sovereign-Isle/internal/repository/embcache"
	"github.com/Davg883/Sovereign-Isle/internal/repository/vault"
	anthropicLLM "github.com/Davg883/Sovereign-Isle/internal/transport/anthropic"
	chiTransport "github.com/Davg883/Sovereign-Isle/internal/transport/chi"
	genaiSearch "github.com/Davg883/Sovereign-Isle/internal/transport/genai"
	openaiLLM "github.com/Davg883/Sovereign-Isle/internal/transport/openai"
	"github.com/Davg883/Sovereign-Isle/internal/transport/websearch"
	chatuc "github.com/Davg883/Sovereign-Isle/internal/usecase/chat"
	classifyuc "github.com/Davg883/Sovereign-Isle/internal/usecase/classify"
	completionuc "github.com/Davg883/Sovereign-Isle/internal/usecase/completion"
	healthuc "github.com/Davg883/Sovereign-Isle/internal/usecase/health"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/planner"
	"github.com/Davg883/Sovereign-Isle/internal/usecase/prompt"
	pruneuc "github.com/Davg883/Sovereign-Isle/internal/usecase/prune"
	retrievaluc "github.com/Davg883/Sovereign-Isle/internal/usecase/retrieval"
	"github.com/Davg883/Sovereign-Isle/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting concierge API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("web_search", cfg.WebSearchActive()),
	)

	metrics.Register()

	// redis and valkey both speak RESP and FT.*, so one rueidis store serves either driver
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	vaultRepo := vault.New(store, vault.Config{
		IndexName:  cfg.Vault.IndexName,
		KeyPrefix:  cfg.Vault.KeyPrefix,
		Dimensions: cfg.Vault.Dimensions,
		HNSW: vault.HNSWConfig{
			M:           cfg.Vault.HNSWM,
			EFConstruct: cfg.Vault.HNSWEFConstruct,
		},
	})
	created, err := vaultRepo.EnsureIndex(ctx)
	if err != nil {
		logger.Fatal("Failed to ensure DataVault index", zap.Error(err))
	}
	logger.Info("DataVault index ready", zap.String("index", cfg.Vault.IndexName), zap.Bool("created", created))

	// OpenAI -> Cached
	baseEmbedder := openaiLLM.NewEmbedder(&openaiLLM.Config{
		APIKey:     cfg.LLM.OpenAIAPIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.Vault.Dimensions,
		Logger:     logger,
	})
	embedder := embcache.New(baseEmbedder, store, cfg.Vault.KeyPrefix, cfg.LLM.EmbeddingModel, logger,
		embcache.WithTTL(time.Duration(cfg.Vault.CacheTTLHours)*time.Hour),
		embcache.WithCacheCounter(metrics.EmbeddingCacheTotal),
	)

	llm, provider := buildCompleter(cfg.LLM, logger)

	var web domain.WebSearcher = websearch.Disabled{}
	if cfg.WebSearchActive() {
		searcher, err := genaiSearch.NewSearcher(ctx, &genaiSearch.Config{
			APIKey:     cfg.WebSearch.APIKey,
			Model:      cfg.WebSearch.Model,
			Region:     cfg.Region.Name,
			MaxResults: cfg.WebSearch.MaxResults,
			Timeout:    time.Duration(cfg.WebSearch.TimeoutSec) * time.Second,
			Logger:     logger,
		})
		if err != nil {
			logger.Fatal("Failed to create web searcher", zap.Error(err))
		}
		web = searcher
	}

	location, err := time.LoadLocation(cfg.Classifier.Timezone)
	if err != nil {
		logger.Fatal("Invalid classifier timezone", zap.Error(err))
	}
	var referenceDate time.Time
	if cfg.Classifier.ReferenceDate != "" {
		// validated at load time
		referenceDate, _ = time.ParseInLocation(time.DateOnly, cfg.Classifier.ReferenceDate, location)
	}

	classifier := classifyuc.New(llm, classifyuc.Config{
		ClassifierModel: cfg.LLM.ClassifierModel,
		TemporalModel:   cfg.LLM.TemporalModel,
		Region:          cfg.Region.Name,
		Locations:       cfg.Region.Locations,
		ReferenceDate:   referenceDate,
		Location:        location,
	})
	retriever := retrievaluc.New(embedder, vaultRepo, llm, retrievaluc.Config{
		TopK:         cfg.Vault.TopK,
		Region:       cfg.Region.Name,
		ScoringModel: cfg.LLM.ClassifierModel,
	})
	chatSvc := chatuc.New(
		classifier,
		planner.New(cfg.Region.Name),
		retriever,
		web,
		prompt.New(prompt.Config{Region: cfg.Region.Name, Persona: cfg.Region.Persona}),
		llm,
		chatuc.Config{ChatModel: cfg.LLM.ChatModel, Temperature: cfg.LLM.Temperature},
	)

	var completionCheck healthuc.ProviderChecker
	if hc, ok := provider.(domain.HealthChecker); ok {
		completionCheck = hc
	}
	healthSvc := healthuc.New(store, completionCheck,
		healthuc.WithCheck("embedding", baseEmbedder),
		healthuc.WithLogger(logger),
	)

	var pruner *pruneuc.Service
	if cfg.Prune.Enabled {
		pruner = pruneuc.New(vaultRepo, location, logger)
		if err := pruner.Start(cfg.Prune.Schedule); err != nil {
			logger.Fatal("Failed to schedule pruning", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(chatSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if pruner != nil {
		pruner.Stop()
	}

	logger.Info("Server stopped gracefully")
}

// buildCompleter assembles the decorator chain: provider -> Resilient -> Instrumented.
// The bare provider is returned too, for health checks.
func buildCompleter(cfg config.LLMConfig, logger *zap.Logger) (domain.Completer, domain.Completer) {
	var base domain.Completer
	switch cfg.Provider {
	case "anthropic":
		base = anthropicLLM.NewCompleter(&anthropicLLM.Config{
			APIKey:    cfg.AnthropicAPIKey,
			Model:     cfg.ChatModel,
			MaxTokens: cfg.MaxTokens,
			Logger:    logger,
		})
	default:
		base = openaiLLM.NewCompleter(&openaiLLM.Config{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.ChatModel,
			MaxTokens: cfg.MaxTokens,
			Logger:    logger,
		})
	}

	resilient := completionuc.NewResilient(base, cfg.Provider, cfg.ChatModel,
		completionuc.WithTimeout(time.Duration(cfg.TimeoutSec)*time.Second),
		completionuc.WithMaxRetries(cfg.MaxRetries),
		completionuc.WithRateLimit(cfg.RequestsPerSec),
		completionuc.WithLogger(logger),
	)

	logger.Info("Completion provider created",
		zap.String("provider", cfg.Provider),
		zap.String("chat_model", cfg.ChatModel),
		zap.String("classifier_model", cfg.ClassifierModel),
	)
	return completionuc.NewInstrumented(resilient, cfg.Provider, cfg.ChatModel, logger), base
}
