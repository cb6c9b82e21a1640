package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"daily-summary/internal/utils/text"
)

var (
	// requestsTotal counts backend calls per operation and result
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of generation backend requests",
		},
		[]string{"backend", "operation", "status"}, // operation: generate|list_models
	)

	// requestDuration tracks backend call latency
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Generation backend request duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45, 90},
		},
		[]string{"backend", "operation"},
	)

	// outputLength tracks generated text length in runes
	outputLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_output_runes",
			Help:    "Length of generated text in runes",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"backend"},
	)
)

func recordRequest(backend, operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	requestsTotal.WithLabelValues(backend, operation, status).Inc()
	requestDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func recordOutput(backend, out string) {
	outputLength.WithLabelValues(backend).Observe(float64(text.CountRunes(out)))
}
