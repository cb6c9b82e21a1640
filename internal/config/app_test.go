package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		LLM: LLMConfig{
			Provider:        "gemini",
			GeminiBaseURL:   DefaultGeminiBaseURL,
			GenerateTimeout: DefaultGenerateTimeout,
			ListTimeout:     DefaultListTimeout,
		},
		Chunk:   ChunkConfig{MaxChars: DefaultChunkMaxChars, Overlap: DefaultChunkOverlap},
		History: HistoryConfig{Enabled: true, DBPath: DefaultHistoryDBPath},
		Email:   EmailConfig{BaseURL: DefaultSendGridBaseURL},
		Report:  ReportConfig{Timezone: DefaultReportTimezone, SubjectPrefix: DefaultSubjectPrefix},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "LLM_MODEL_PREFERENCES", "LLM_TIMEOUT_GENERATE",
		"CHUNK_MAX_CHARS", "CHUNK_OVERLAP", "HISTORY_ENABLED", "HISTORY_DB_PATH",
		"DATABASE_URL", "EMAIL_TO", "REPORT_TIMEZONE", "REPORT_SUBJECT_PREFIX",
		"LOG_FORMAT", "GEMINI_BASE_URL", "SENDGRID_BASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 90*time.Second, cfg.LLM.GenerateTimeout)
	assert.Equal(t, 30*time.Second, cfg.LLM.ListTimeout)
	assert.Equal(t, 12000, cfg.Chunk.MaxChars)
	assert.Equal(t, 600, cfg.Chunk.Overlap)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "history.db", cfg.History.DBPath)
	assert.Equal(t, "[Daily Report]", cfg.Report.SubjectPrefix)
	require.NotNil(t, cfg.Report.Location)
	assert.Equal(t, "Asia/Kuala_Lumpur", cfg.Report.Location.String())
	assert.Nil(t, cfg.Email.To)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL_PREFERENCES", "mini, gpt-4o")
	t.Setenv("LLM_TIMEOUT_GENERATE", "2m")
	t.Setenv("CHUNK_MAX_CHARS", "4000")
	t.Setenv("CHUNK_OVERLAP", "200")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("EMAIL_TO", "a@example.com, b@example.com")
	t.Setenv("EMAIL_FROM", "bot@example.com")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "@ops")
	t.Setenv("REPORT_TIMEZONE", "UTC")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey())
	assert.Empty(t, cfg.LLM.BaseURL())
	assert.Equal(t, []string{"mini", "gpt-4o"}, cfg.LLM.Preferences)
	assert.Equal(t, 2*time.Minute, cfg.LLM.GenerateTimeout)
	assert.Equal(t, ChunkConfig{MaxChars: 4000, Overlap: 200}, cfg.Chunk)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Email.To)
	assert.True(t, cfg.EmailEnabled())
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, time.UTC.String(), cfg.Report.Location.String())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mistral")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_PROVIDER")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{name: "noop provider", mutate: func(c *AppConfig) { c.LLM.Provider = "noop" }},
		{name: "unknown provider", mutate: func(c *AppConfig) { c.LLM.Provider = "bard" }, wantErr: "LLM_PROVIDER"},
		{name: "zero generate timeout", mutate: func(c *AppConfig) { c.LLM.GenerateTimeout = 0 }, wantErr: "LLM_TIMEOUT_GENERATE"},
		{name: "negative list timeout", mutate: func(c *AppConfig) { c.LLM.ListTimeout = -time.Second }, wantErr: "LLM_TIMEOUT_LIST"},
		{name: "bad gemini url", mutate: func(c *AppConfig) { c.LLM.GeminiBaseURL = "localhost" }, wantErr: "GEMINI_BASE_URL"},
		{name: "zero chunk size", mutate: func(c *AppConfig) { c.Chunk.MaxChars = 0 }, wantErr: "CHUNK_MAX_CHARS"},
		{name: "overlap equals max", mutate: func(c *AppConfig) { c.Chunk.Overlap = c.Chunk.MaxChars }, wantErr: "CHUNK_OVERLAP"},
		{name: "negative overlap", mutate: func(c *AppConfig) { c.Chunk.Overlap = -1 }, wantErr: "CHUNK_OVERLAP"},
		{name: "empty db path", mutate: func(c *AppConfig) { c.History.DBPath = " " }, wantErr: "HISTORY_DB_PATH"},
		{name: "empty db path with postgres", mutate: func(c *AppConfig) {
			c.History.DBPath = ""
			c.History.DatabaseURL = "postgres://localhost/reports"
		}},
		{name: "bad timezone", mutate: func(c *AppConfig) { c.Report.Timezone = "Mars/Base" }, wantErr: "REPORT_TIMEZONE"},
		{name: "bad log format", mutate: func(c *AppConfig) { c.Log.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "bard"
	cfg.Log.Format = "xml"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_PROVIDER")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLLMConfig_APIKey(t *testing.T) {
	c := LLMConfig{GeminiAPIKey: "g", OpenAIAPIKey: "o", AnthropicAPIKey: "a"}

	for provider, want := range map[string]string{"gemini": "g", "openai": "o", "claude": "a", "noop": ""} {
		c.Provider = provider
		assert.Equal(t, want, c.APIKey(), provider)
	}
}

func TestChannelsEnabled(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.EmailEnabled())
	assert.False(t, cfg.TelegramEnabled())

	cfg.Email = EmailConfig{SendGridAPIKey: "k", From: "f@example.com"}
	assert.False(t, cfg.EmailEnabled())

	cfg.Email.To = []string{"t@example.com"}
	assert.True(t, cfg.EmailEnabled())
}
