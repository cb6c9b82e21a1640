package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/infra/llm"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     llm.Config
		wantKey string
		wantTyp interface{}
	}{
		{name: "default provider is gemini", cfg: llm.Config{APIKey: "k"}, wantTyp: &llm.Gemini{}},
		{name: "openai", cfg: llm.Config{Provider: "OpenAI", APIKey: "k"}, wantTyp: &llm.OpenAI{}},
		{name: "claude", cfg: llm.Config{Provider: "claude", APIKey: "k"}, wantTyp: &llm.Claude{}},
		{name: "noop needs no key", cfg: llm.Config{Provider: "noop"}, wantTyp: &llm.NoOp{}},
		{name: "gemini without key", cfg: llm.Config{Provider: "gemini"}, wantKey: "GEMINI_API_KEY"},
		{name: "openai without key", cfg: llm.Config{Provider: "openai"}, wantKey: "OPENAI_API_KEY"},
		{name: "unknown provider", cfg: llm.Config{Provider: "llama"}, wantKey: "LLM_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := llm.New(tt.cfg)
			if tt.wantKey != "" {
				var cfgErr *entity.ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, tt.wantKey, cfgErr.Key)
				assert.Nil(t, backend)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantTyp, backend)
		})
	}
}

func TestDefaultPreferences(t *testing.T) {
	assert.Equal(t, []string{"flash", "pro"}, llm.DefaultPreferences(llm.ProviderGemini))
	assert.Equal(t, []string{"mini", "gpt-4o"}, llm.DefaultPreferences(llm.ProviderOpenAI))
	assert.Equal(t, []string{"haiku", "sonnet"}, llm.DefaultPreferences(llm.ProviderClaude))
	assert.Equal(t, []string{"flash", "pro"}, llm.DefaultPreferences(""))
}

func TestNoOp(t *testing.T) {
	n := llm.NewNoOp()

	models, err := n.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{llm.NoOpModel}, models)

	tests := []struct {
		name     string
		prompt   string
		expected string
	}{
		{
			name:     "final prompt",
			prompt:   "Task: x\n\nRules:\n- a\n\nContent:\nThe quick brown fox",
			expected: "- The quick brown fox",
		},
		{
			name:     "chunk prompt is capped at twelve words",
			prompt:   "Task: y\n\nChunk 1/2:\none two three four five six seven eight nine ten eleven twelve thirteen",
			expected: "- one two three four five six seven eight nine ten eleven twelve",
		},
		{
			name:     "no marker uses whole prompt",
			prompt:   "just words",
			expected: "- just words",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Generate(context.Background(), tt.prompt, llm.NoOpModel)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}
