package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHealthServer() *HealthServer {
	return NewHealthServer(":0", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func getHealth(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, resp
}

func TestHealthServer_Liveness(t *testing.T) {
	hs := newTestHealthServer()

	code, resp := getHealth(t, hs.Handler(), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestHealthServer_Readiness(t *testing.T) {
	hs := newTestHealthServer()
	handler := hs.Handler()

	code, resp := getHealth(t, handler, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", resp.Status)

	hs.SetReady(true)
	code, resp = getHealth(t, handler, "/health/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.LastRun)

	hs.SetReady(false)
	code, _ = getHealth(t, handler, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealthServer_ReportsLastRun(t *testing.T) {
	hs := newTestHealthServer()
	hs.SetReady(true)
	finished := time.Date(2026, 10, 14, 9, 0, 5, 0, time.UTC)

	hs.RecordRun(finished, nil)
	_, resp := getHealth(t, hs.Handler(), "/health/ready")
	require.NotNil(t, resp.LastRun)
	assert.True(t, resp.LastRun.Success)
	assert.True(t, resp.LastRun.FinishedAt.Equal(finished))
	assert.Empty(t, resp.LastRun.Error)

	hs.RecordRun(finished.Add(24*time.Hour), errors.New("telegram: chat not found"))
	_, resp = getHealth(t, hs.Handler(), "/health/ready")
	require.NotNil(t, resp.LastRun)
	assert.False(t, resp.LastRun.Success)
	assert.Equal(t, "telegram: chat not found", resp.LastRun.Error)
}

func TestHealthServer_StartAndShutdown(t *testing.T) {
	hs := NewHealthServer("127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hs.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(6 * time.Second):
		t.Fatal("health server did not stop")
	}
}

func TestHealthServer_RecordRunMasksCredentials(t *testing.T) {
	hs := newTestHealthServer()
	hs.SetReady(true)

	hs.RecordRun(time.Now(), errors.New(`Post "https://api.telegram.org/bot123:secret/sendMessage": EOF`))

	_, resp := getHealth(t, hs.Handler(), "/health/ready")
	require.NotNil(t, resp.LastRun)
	assert.NotContains(t, resp.LastRun.Error, "secret")
}
