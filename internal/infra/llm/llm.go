// Package llm provides the text-generation backends used by the summarizer.
//
// Each backend lists the models able to generate content and runs a single
// prompt against one of them. Calls go through a per-backend circuit breaker
// and carry their own timeout; nothing is retried.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"daily-summary/internal/domain/entity"
)

// Supported providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNoOp   = "noop"
)

const (
	DefaultGenerateTimeout = 90 * time.Second
	DefaultListTimeout     = 30 * time.Second
	DefaultMaxTokens       = 1024
)

// Backend generates text and discovers the models that can do so.
type Backend interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider string
	APIKey   string
	// BaseURL overrides the provider's API root. Empty means the public endpoint.
	BaseURL         string
	GenerateTimeout time.Duration
	ListTimeout     time.Duration
	// MaxTokens bounds the completion length where the API requires it.
	MaxTokens  int
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.GenerateTimeout <= 0 {
		c.GenerateTimeout = DefaultGenerateTimeout
	}
	if c.ListTimeout <= 0 {
		c.ListTimeout = DefaultListTimeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return c
}

// APIKeyEnv names the environment variable holding the provider's credential.
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderClaude:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// DefaultPreferences returns the model-name keywords preferred for provider,
// cheapest first.
func DefaultPreferences(provider string) []string {
	switch provider {
	case ProviderOpenAI:
		return []string{"mini", "gpt-4o"}
	case ProviderClaude:
		return []string{"haiku", "sonnet"}
	default:
		return []string{"flash", "pro"}
	}
}

// NormalizeProvider lowercases provider and maps "" to gemini.
func NormalizeProvider(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return ProviderGemini
	}
	return p
}

// New builds the backend named by cfg.Provider. A missing credential is a
// ConfigurationError; no network call is made.
func New(cfg Config) (Backend, error) {
	cfg = cfg.withDefaults()
	switch NormalizeProvider(cfg.Provider) {
	case ProviderGemini:
		return NewGemini(cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderClaude:
		return NewClaude(cfg)
	case ProviderNoOp:
		return NewNoOp(), nil
	default:
		return nil, &entity.ConfigurationError{
			Key:     "LLM_PROVIDER",
			Message: fmt.Sprintf("unknown provider %q", cfg.Provider),
		}
	}
}

func requireKey(provider, key string) error {
	if strings.TrimSpace(key) == "" {
		return &entity.ConfigurationError{Key: APIKeyEnv(provider)}
	}
	return nil
}
