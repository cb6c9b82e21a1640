package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/infra/llm"
)

func newClaude(t *testing.T, mux *http.ServeMux) *llm.Claude {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := llm.NewClaude(llm.Config{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNewClaude_MissingKey(t *testing.T) {
	_, err := llm.NewClaude(llm.Config{Provider: llm.ProviderClaude})

	var cfgErr *entity.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "ANTHROPIC_API_KEY", cfgErr.Key)
}

func TestClaude_ListModels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"claude-sonnet-4-5","type":"model","display_name":"Sonnet","created_at":"2025-09-29T00:00:00Z"},
			{"id":"claude-haiku-4-5","type":"model","display_name":"Haiku","created_at":"2025-10-01T00:00:00Z"}
		],"has_more":false,"first_id":"claude-sonnet-4-5","last_id":"claude-haiku-4-5"}`))
	})

	models, err := newClaude(t, mux).ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"claude-sonnet-4-5", "claude-haiku-4-5"}, models)
}

func TestClaude_Generate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-haiku-4-5", req.Model)
		assert.Equal(t, llm.DefaultMaxTokens, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5",
			"content":[{"type":"text","text":"- first"},{"type":"text","text":"\n- second"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	})

	out, err := newClaude(t, mux).Generate(context.Background(), "p", "claude-haiku-4-5")

	require.NoError(t, err)
	assert.Equal(t, "- first\n- second", out)
}

func TestClaude_Generate_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"model: not found"}}`))
	})

	_, err := newClaude(t, mux).Generate(context.Background(), "p", "nope")

	var be *entity.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "claude", be.Backend)
	assert.Equal(t, http.StatusBadRequest, be.StatusCode)
}
