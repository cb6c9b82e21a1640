package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-summary/internal/domain/entity"
)

var reportMessage = entity.Message{
	Subject: "[Daily Report] Daily Summary (2026-10-14)",
	Body:    "[Daily Report] Daily Summary (2026-10-14)\n\n- Deploy finished\n- Backups verified",
}

func newSendGrid(baseURL string) *SendGridNotifier {
	return NewSendGridNotifier(SendGridConfig{
		APIKey:  "SG.test",
		From:    "reports@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		BaseURL: baseURL,
	})
}

func TestSendGridNotifier_Send(t *testing.T) {
	var got mail.SGMailV3
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := newSendGrid(srv.URL).Send(context.Background(), reportMessage)

	require.NoError(t, err)
	require.Len(t, got.Personalizations, 1)
	var to []string
	for _, addr := range got.Personalizations[0].To {
		to = append(to, addr.Address)
	}
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, to)
	require.NotNil(t, got.From)
	assert.Equal(t, "reports@example.com", got.From.Address)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "reports@example.com", got.ReplyTo.Address)
	assert.Equal(t, reportMessage.Subject, got.Subject)
	require.Len(t, got.Content, 2)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, reportMessage.Body, got.Content[0].Value)
	assert.Equal(t, "text/html", got.Content[1].Type)
	assert.Contains(t, got.Content[1].Value, "<li>Deploy finished</li>")
}

func TestSendGridNotifier_SuccessStatuses(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		assert.NoError(t, newSendGrid(srv.URL).Send(context.Background(), reportMessage), "status %d", status)
		srv.Close()
	}
}

func TestSendGridNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"The from address does not match a verified Sender Identity.","field":"from"}]}`))
	}))
	defer srv.Close()

	err := newSendGrid(srv.URL).Send(context.Background(), reportMessage)

	var be *entity.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "sendgrid", be.Backend)
	assert.Equal(t, http.StatusBadRequest, be.StatusCode)
	assert.Contains(t, be.Message, "verified Sender Identity")
}

func TestSendGridNotifier_MissingSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  SendGridConfig
		key  string
	}{
		{name: "api key", cfg: SendGridConfig{From: "f@example.com", To: []string{"t@example.com"}}, key: "SENDGRID_API_KEY"},
		{name: "from", cfg: SendGridConfig{APIKey: "k", To: []string{"t@example.com"}}, key: "EMAIL_FROM"},
		{name: "to", cfg: SendGridConfig{APIKey: "k", From: "f@example.com"}, key: "EMAIL_TO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewSendGridNotifier(tt.cfg)

			err := n.Send(context.Background(), reportMessage)

			assert.False(t, n.IsEnabled())
			assert.ErrorIs(t, err, entity.ErrChannelDisabled)
			var cfgErr *entity.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestSendGridNotifier_CircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()
	n := newSendGrid(srv.URL)
	assert.False(t, n.CircuitBreakerOpen())

	for i := 0; i < 2; i++ {
		err := n.Send(context.Background(), reportMessage)
		var be *entity.BackendError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, http.StatusBadGateway, be.StatusCode)
	}

	err := n.Send(context.Background(), reportMessage)

	var be *entity.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusServiceUnavailable, be.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
	assert.True(t, n.CircuitBreakerOpen())
}

func TestSendGridNotifier_ClientErrorsDoNotOpenCircuit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	n := newSendGrid(srv.URL)

	for i := 0; i < 4; i++ {
		err := n.Send(context.Background(), reportMessage)
		assert.True(t, entity.IsClientError(err))
	}
	assert.Equal(t, int32(4), hits.Load())
	assert.False(t, n.CircuitBreakerOpen())
}

func TestSendGridNotifier_ErrorMessageBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(strings.Repeat("拒", 2000)))
	}))
	defer srv.Close()

	err := newSendGrid(srv.URL).Send(context.Background(), reportMessage)

	var be *entity.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusForbidden, be.StatusCode)
	assert.Equal(t, maxErrorBodyRunes, len([]rune(be.Message)))
}

func TestNewSendGridNotifier_TrimsBaseURL(t *testing.T) {
	n := NewSendGridNotifier(SendGridConfig{BaseURL: "http://localhost:8080/"})
	assert.False(t, strings.HasSuffix(n.config.BaseURL, "/"))

	n = NewSendGridNotifier(SendGridConfig{})
	assert.Equal(t, DefaultSendGridBaseURL, n.config.BaseURL)
}
