package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/resilience/circuitbreaker"
)

// guard runs backend calls under a timeout and a circuit breaker and records
// their metrics.
type guard struct {
	backend string
	cb      *circuitbreaker.CircuitBreaker
}

func newGuard(backend string) *guard {
	cfg := circuitbreaker.LLMConfig(backend)
	cfg.IsSuccessful = countsAsSuccess
	return &guard{backend: backend, cb: circuitbreaker.New(cfg)}
}

// countsAsSuccess keeps caller mistakes (bad model, bad key) from tripping
// the breaker. Rate limiting and server errors still count.
func countsAsSuccess(err error) bool {
	return err == nil || entity.IsClientError(err)
}

func run[T any](ctx context.Context, g *guard, operation string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := circuitbreaker.Do(g.cb, func() (T, error) {
		return fn(ctx)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		err = &entity.BackendError{
			Backend:    g.backend,
			StatusCode: http.StatusServiceUnavailable,
			Message:    "circuit breaker open",
			Err:        err,
		}
	}
	recordRequest(g.backend, operation, err, time.Since(start))
	return out, err
}
