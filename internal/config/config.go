package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds the concierge API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Vault      VaultConfig      `yaml:"vault"`
	LLM        LLMConfig        `yaml:"llm"`
	WebSearch  WebSearchConfig  `yaml:"web_search"`
	Region     RegionConfig     `yaml:"region"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Prune      PruneConfig      `yaml:"prune"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"` // default: determined by env
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds vector store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver" validate:"oneof=redis valkey"`
	Addrs            []string `yaml:"addrs" validate:"min=1,dive,required"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// VaultConfig describes the DataVault index.
type VaultConfig struct {
	IndexName       string `yaml:"index_name" validate:"required"`
	KeyPrefix       string `yaml:"key_prefix" validate:"required"`
	Dimensions      int    `yaml:"dimensions" validate:"min=1"`
	TopK            int    `yaml:"top_k" validate:"min=1,max=100"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	CacheTTLHours   int    `yaml:"embedding_cache_ttl_hours"`
}

// LLMConfig holds language model provider settings.
type LLMConfig struct {
	Provider        string  `yaml:"provider" validate:"oneof=openai anthropic"`
	OpenAIAPIKey    string  `yaml:"openai_api_key"`
	AnthropicAPIKey string  `yaml:"anthropic_api_key"`
	BaseURL         string  `yaml:"base_url" validate:"omitempty,url"`
	ChatModel       string  `yaml:"chat_model" validate:"required"`
	ClassifierModel string  `yaml:"classifier_model"`
	TemporalModel   string  `yaml:"temporal_model"`
	EmbeddingModel  string  `yaml:"embedding_model" validate:"required"`
	Temperature     float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens       int     `yaml:"max_tokens"`
	TimeoutSec      int     `yaml:"timeout_sec"`
	MaxRetries      int     `yaml:"max_retries" validate:"gte=0,lte=10"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" validate:"gte=0"`
}

// WebSearchConfig holds live web search settings.
type WebSearchConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Provider   string `yaml:"provider" validate:"omitempty,oneof=gemini none"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	MaxResults int    `yaml:"max_results"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RegionConfig confines answers to one geographic region.
type RegionConfig struct {
	Name      string   `yaml:"name"`
	Locations []string `yaml:"locations"`
	Persona   string   `yaml:"persona"`
}

// ClassifierConfig pins the reference date used by the temporal classifier.
type ClassifierConfig struct {
	ReferenceDate string `yaml:"reference_date"` // YYYY-MM-DD; empty means today
	Timezone      string `yaml:"timezone"`
}

// PruneConfig controls the expired-event cleanup job.
type PruneConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

type modelDefaults struct {
	chat, classifier, temporal string
}

// providerModels holds the default completion models per provider.
var providerModels = map[string]modelDefaults{
	"openai":    {chat: "gpt-4o", classifier: "gpt-4o-mini", temporal: "gpt-4o"},
	"anthropic": {chat: "claude-sonnet-4-5", classifier: "claude-haiku-4-5", temporal: "claude-sonnet-4-5"},
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60 // answer synthesis makes several sequential model calls
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Vault.IndexName == "" {
		c.Vault.IndexName = "datavault"
	}
	if c.Vault.KeyPrefix == "" {
		c.Vault.KeyPrefix = "datavault:"
	}
	if c.Vault.Dimensions <= 0 {
		c.Vault.Dimensions = 1536
	}
	if c.Vault.TopK <= 0 {
		c.Vault.TopK = 4
	}
	if c.Vault.HNSWM <= 0 {
		c.Vault.HNSWM = 16
	}
	if c.Vault.HNSWEFConstruct <= 0 {
		c.Vault.HNSWEFConstruct = 200
	}
	if c.Vault.CacheTTLHours <= 0 {
		c.Vault.CacheTTLHours = 24
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	models := providerModels[c.LLM.Provider]
	if c.LLM.ChatModel == "" {
		c.LLM.ChatModel = models.chat
	}
	if c.LLM.ClassifierModel == "" {
		c.LLM.ClassifierModel = models.classifier
	}
	if c.LLM.TemporalModel == "" {
		c.LLM.TemporalModel = models.temporal
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 30
	}
	if c.LLM.RequestsPerSec == 0 {
		c.LLM.RequestsPerSec = 5
	}
	if c.WebSearch.Provider == "" {
		c.WebSearch.Provider = "none"
	}
	if c.WebSearch.Model == "" {
		c.WebSearch.Model = "gemini-2.5-flash"
	}
	if c.WebSearch.MaxResults <= 0 {
		c.WebSearch.MaxResults = 5
	}
	if c.WebSearch.TimeoutSec <= 0 {
		c.WebSearch.TimeoutSec = 15
	}
	if c.Region.Name == "" {
		c.Region.Name = "Isle of Wight"
	}
	if len(c.Region.Locations) == 0 {
		c.Region.Locations = []string{"Ryde", "Cowes", "Ventnor", "Newport", "Shanklin", "Sandown", "Yarmouth", "Freshwater", "Bembridge", "Brighstone", "Godshill", "Seaview"}
	}
	if c.Classifier.Timezone == "" {
		c.Classifier.Timezone = "Europe/London"
	}
	if c.Prune.Schedule == "" {
		c.Prune.Schedule = "0 3 * * *"
	}
}

var validate = validator.New()

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("llm.openai_api_key is required for provider openai")
		}
	case "anthropic":
		if c.LLM.AnthropicAPIKey == "" {
			return fmt.Errorf("llm.anthropic_api_key is required for provider anthropic")
		}
		// embeddings always come from the OpenAI-compatible endpoint
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("llm.openai_api_key is required for embeddings")
		}
		// the Messages API rejects temperatures above 1
		if c.LLM.Temperature > 1 {
			return fmt.Errorf("llm.temperature must be <= 1 for provider anthropic, got %v", c.LLM.Temperature)
		}
	}
	if err := c.LLM.checkModels(); err != nil {
		return err
	}

	if c.WebSearch.Enabled && c.WebSearch.Provider == "gemini" && c.WebSearch.APIKey == "" {
		return fmt.Errorf("web_search.api_key is required for provider gemini")
	}

	if c.Classifier.ReferenceDate != "" {
		if _, err := time.Parse(time.DateOnly, c.Classifier.ReferenceDate); err != nil {
			return fmt.Errorf("classifier.reference_date must be YYYY-MM-DD, got %q", c.Classifier.ReferenceDate)
		}
	}
	if _, err := time.LoadLocation(c.Classifier.Timezone); err != nil {
		return fmt.Errorf("classifier.timezone: %w", err)
	}

	if c.Prune.Enabled {
		if _, err := cron.ParseStandard(c.Prune.Schedule); err != nil {
			return fmt.Errorf("prune.schedule: %w", err)
		}
	}
	return nil
}

// checkModels rejects completion models that belong to the other provider.
func (l LLMConfig) checkModels() error {
	fields := []struct{ key, model string }{
		{"llm.chat_model", l.ChatModel},
		{"llm.classifier_model", l.ClassifierModel},
		{"llm.temporal_model", l.TemporalModel},
	}
	for _, f := range fields {
		claude := strings.HasPrefix(strings.ToLower(f.model), "claude")
		switch {
		case f.model == "":
			return fmt.Errorf("%s is required", f.key)
		case l.Provider == "anthropic" && !claude:
			return fmt.Errorf("%s %q is not an anthropic model", f.key, f.model)
		case l.Provider == "openai" && claude:
			return fmt.Errorf("%s %q is not served by provider openai", f.key, f.model)
		}
	}
	return nil
}

// WebSearchActive reports whether a live web search backend should be built.
func (c *Config) WebSearchActive() bool {
	return c.WebSearch.Enabled && c.WebSearch.Provider == "gemini"
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
