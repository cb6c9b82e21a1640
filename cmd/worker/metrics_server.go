package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"daily-summary/internal/usecase/dispatch"
)

// ChannelHealthResponse is the body of GET /health/channels.
type ChannelHealthResponse struct {
	Healthy  bool                     `json:"healthy"`
	Channels []dispatch.ChannelStatus `json:"channels"`
}

// channelReporter is satisfied by *dispatch.Service.
type channelReporter interface {
	ChannelHealth() []dispatch.ChannelStatus
}

// metricsHandler exposes:
//   - GET /metrics: Prometheus scrape endpoint
//   - GET /health/channels: delivery channel state, 503 when an enabled
//     channel's circuit breaker is open
func metricsHandler(channels channelReporter) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/channels", channelHealthHandler(channels))
	return mux
}

// serveMetrics runs the metrics server until ctx is cancelled, then shuts it
// down within 5 seconds.
func serveMetrics(ctx context.Context, logger *slog.Logger, port int, channels channelReporter) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      metricsHandler(channels),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
			return err
		}
		logger.Info("metrics server stopped")
		return http.ErrServerClosed
	case err := <-errChan:
		return err
	}
}

func channelHealthHandler(channels channelReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := channels.ChannelHealth()

		healthy := true
		for _, status := range statuses {
			if status.Enabled && status.CircuitBreakerOpen {
				healthy = false
			}
		}

		statusCode := http.StatusOK
		if !healthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(ChannelHealthResponse{
			Healthy:  healthy,
			Channels: statuses,
		})
	}
}
