// Package config holds the application settings read from the environment
// and the optional YAML report profile.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	cfgutil "daily-summary/internal/pkg/config"
	env "daily-summary/pkg/config"
)

// Defaults for settings that have one.
const (
	DefaultProvider        = "gemini"
	DefaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/v1"
	DefaultSendGridBaseURL = "https://api.sendgrid.com"
	DefaultGenerateTimeout = 90 * time.Second
	DefaultListTimeout     = 30 * time.Second
	DefaultChunkMaxChars   = 12000
	DefaultChunkOverlap    = 600
	DefaultHistoryDBPath   = "history.db"
	DefaultReportTimezone  = "Asia/Kuala_Lumpur"
	DefaultSubjectPrefix   = "[Daily Report]"
)

var knownProviders = []string{"gemini", "openai", "claude", "noop"}

// AppConfig is every setting the commands need, loaded once at startup and
// passed into constructors.
type AppConfig struct {
	LLM      LLMConfig
	Chunk    ChunkConfig
	History  HistoryConfig
	Email    EmailConfig
	Telegram TelegramConfig
	Report   ReportConfig
	Log      LogConfig
}

// LLMConfig selects the generation backend.
type LLMConfig struct {
	Provider        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiBaseURL   string
	// Model skips discovery when set.
	Model           string
	Preferences     []string
	GenerateTimeout time.Duration
	ListTimeout     time.Duration
}

// APIKey returns the credential of the selected provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "claude":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// BaseURL returns the REST root override for the selected provider.
func (c LLMConfig) BaseURL() string {
	if c.Provider == "gemini" {
		return c.GeminiBaseURL
	}
	return ""
}

// ChunkConfig bounds chunk sizes, in runes.
type ChunkConfig struct {
	MaxChars int
	Overlap  int
}

// HistoryConfig locates the history store. DatabaseURL wins over DBPath.
type HistoryConfig struct {
	Enabled     bool
	DBPath      string
	DatabaseURL string
}

// EmailConfig holds the SendGrid settings.
type EmailConfig struct {
	SendGridAPIKey string
	From           string
	To             []string
	BaseURL        string
}

// TelegramConfig holds the bot settings.
type TelegramConfig struct {
	BotToken    string
	ChatID      string
	APIEndpoint string
}

// ReportConfig holds report presentation settings.
type ReportConfig struct {
	Timezone      string
	Location      *time.Location
	SubjectPrefix string
	PDFFontPath   string
	ProfilePath   string
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads the environment into an AppConfig and validates it.
// Credentials are not required here; they are checked where they are used.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		LLM: LLMConfig{
			Provider:        strings.ToLower(env.GetEnvString("LLM_PROVIDER", DefaultProvider)),
			GeminiAPIKey:    env.GetEnvString("GEMINI_API_KEY", ""),
			OpenAIAPIKey:    env.GetEnvString("OPENAI_API_KEY", ""),
			AnthropicAPIKey: env.GetEnvString("ANTHROPIC_API_KEY", ""),
			GeminiBaseURL:   env.GetEnvString("GEMINI_BASE_URL", DefaultGeminiBaseURL),
			Model:           env.GetEnvString("LLM_MODEL", ""),
			Preferences:     env.GetEnvStringList("LLM_MODEL_PREFERENCES", nil),
			GenerateTimeout: env.GetEnvDuration("LLM_TIMEOUT_GENERATE", DefaultGenerateTimeout),
			ListTimeout:     env.GetEnvDuration("LLM_TIMEOUT_LIST", DefaultListTimeout),
		},
		Chunk: ChunkConfig{
			MaxChars: env.GetEnvInt("CHUNK_MAX_CHARS", DefaultChunkMaxChars),
			Overlap:  env.GetEnvInt("CHUNK_OVERLAP", DefaultChunkOverlap),
		},
		History: HistoryConfig{
			Enabled:     env.GetEnvBool("HISTORY_ENABLED", true),
			DBPath:      env.GetEnvString("HISTORY_DB_PATH", DefaultHistoryDBPath),
			DatabaseURL: env.GetEnvString("DATABASE_URL", ""),
		},
		Email: EmailConfig{
			SendGridAPIKey: env.GetEnvString("SENDGRID_API_KEY", ""),
			From:           env.GetEnvString("EMAIL_FROM", ""),
			To:             env.GetEnvStringList("EMAIL_TO", nil),
			BaseURL:        env.GetEnvString("SENDGRID_BASE_URL", DefaultSendGridBaseURL),
		},
		Telegram: TelegramConfig{
			BotToken:    env.GetEnvString("TELEGRAM_BOT_TOKEN", ""),
			ChatID:      env.GetEnvString("TELEGRAM_CHAT_ID", ""),
			APIEndpoint: env.GetEnvString("TELEGRAM_API_ENDPOINT", ""),
		},
		Report: ReportConfig{
			Timezone:      env.GetEnvString("REPORT_TIMEZONE", DefaultReportTimezone),
			SubjectPrefix: env.GetEnvString("REPORT_SUBJECT_PREFIX", DefaultSubjectPrefix),
			PDFFontPath:   env.GetEnvString("PDF_FONT_PATH", ""),
			ProfilePath:   env.GetEnvString("REPORT_PROFILE", ""),
		},
		Log: LogConfig{
			Level:  env.GetEnvString("LOG_LEVEL", "info"),
			Format: env.GetEnvString("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and formats and resolves the report timezone. All
// problems are reported together.
func (c *AppConfig) Validate() error {
	var errs []error

	if !slices.Contains(knownProviders, c.LLM.Provider) {
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be one of %s, got %q",
			strings.Join(knownProviders, ", "), c.LLM.Provider))
	}
	if err := cfgutil.ValidatePositiveDuration(c.LLM.GenerateTimeout); err != nil {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT_GENERATE: %w", err))
	}
	if err := cfgutil.ValidatePositiveDuration(c.LLM.ListTimeout); err != nil {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT_LIST: %w", err))
	}
	if c.LLM.Provider == "gemini" {
		if err := cfgutil.ValidateHTTPURL(c.LLM.GeminiBaseURL); err != nil {
			errs = append(errs, fmt.Errorf("GEMINI_BASE_URL: %w", err))
		}
	}

	if c.Chunk.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_MAX_CHARS must be positive, got %d", c.Chunk.MaxChars))
	} else if c.Chunk.Overlap < 0 || c.Chunk.Overlap >= c.Chunk.MaxChars {
		errs = append(errs, fmt.Errorf("CHUNK_OVERLAP must be in [0, %d), got %d", c.Chunk.MaxChars, c.Chunk.Overlap))
	}

	if c.History.Enabled && c.History.DatabaseURL == "" && strings.TrimSpace(c.History.DBPath) == "" {
		errs = append(errs, errors.New("HISTORY_DB_PATH cannot be empty when history is enabled"))
	}

	if err := cfgutil.ValidateHTTPURL(c.Email.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("SENDGRID_BASE_URL: %w", err))
	}

	if err := cfgutil.ValidateTimezone(c.Report.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("REPORT_TIMEZONE: %w", err))
	} else {
		c.Report.Location, _ = time.LoadLocation(c.Report.Timezone)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// EmailEnabled reports whether every SendGrid setting is present.
func (c *AppConfig) EmailEnabled() bool {
	return c.Email.SendGridAPIKey != "" && c.Email.From != "" && len(c.Email.To) > 0
}

// TelegramEnabled reports whether the bot token and chat id are present.
func (c *AppConfig) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
