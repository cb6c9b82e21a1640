package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/resilience/circuitbreaker"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

const truncationSuffix = "..."

// withRequestID tags ctx with a fresh request id for log correlation.
func withRequestID(ctx context.Context) (context.Context, string) {
	requestID := uuid.New().String()
	return context.WithValue(ctx, requestIDKey, requestID), requestID
}

// newBreaker builds a channel breaker that ignores rejections caused by the
// request itself.
func newBreaker(cfg circuitbreaker.Config) *circuitbreaker.CircuitBreaker {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || entity.IsClientError(err) || entity.IsConfigurationError(err)
	}
	return circuitbreaker.New(cfg)
}

// openCircuitError converts a breaker rejection into the 503 a caller sees
// from an unavailable backend.
func openCircuitError(backend string, err error) error {
	if !errors.Is(err, circuitbreaker.ErrOpen) {
		return err
	}
	return &entity.BackendError{
		Backend:    backend,
		StatusCode: http.StatusServiceUnavailable,
		Message:    "circuit breaker open",
		Err:        err,
	}
}

// disabledError reports the first missing setting of a channel.
func disabledError(key string) error {
	return &entity.ConfigurationError{Key: key, Err: entity.ErrChannelDisabled}
}

// waitForLimiter blocks on the limiter and logs when the wait is canceled.
func waitForLimiter(ctx context.Context, limiter *RateLimiter, channel, requestID string) error {
	if err := limiter.Allow(ctx); err != nil {
		slog.WarnContext(ctx, "rate limiter wait aborted",
			slog.String("channel", channel),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// ParseRecipients splits a comma separated address list, dropping blanks.
func ParseRecipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
