// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Summarization metrics track the end-to-end pipeline
var (
	// SummarizeRunsTotal counts summarization runs by path and status
	SummarizeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarize_runs_total",
			Help: "Total number of summarization runs",
		},
		[]string{"path", "status"}, // path: empty|single|map_reduce, status: success|failure
	)

	// SummarizeDuration measures time to summarize one document
	SummarizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarize_duration_seconds",
			Help:    "Time taken to summarize one document",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"path"},
	)

	// SummarizeChunks observes how many chunks each document produced
	SummarizeChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summarize_chunks",
			Help:    "Number of chunks per summarized document",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	// SummarizeLanguageTotal counts resolved output languages
	SummarizeLanguageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarize_language_total",
			Help: "Total number of summaries by output language",
		},
		[]string{"language", "source"}, // source: forced|detected
	)

	// CompressionCallsTotal counts compression calls by mode and status
	CompressionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compression_calls_total",
			Help: "Total number of compression calls",
		},
		[]string{"mode", "status"},
	)

	// CompressionDuration measures one compression call
	CompressionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compression_duration_seconds",
			Help:    "Compression call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"mode"},
	)
)

// Input metrics track content extraction
var (
	// ExtractionTotal counts extraction attempts by source kind and result
	ExtractionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraction_total",
			Help: "Total number of content extraction attempts",
		},
		[]string{"kind", "result"}, // kind: text|markdown|pdf|docx|html|url|feed
	)

	// ExtractionSize measures extracted text size in runes
	ExtractionSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "extraction_size_runes",
			Help: "Extracted text size in runes",
			Buckets: []float64{
				100, 400, 1600, 6400, 12000, 25600, 51200, 102400, 409600,
			},
		},
		[]string{"kind"},
	)
)

// History metrics track the persistence layer
var (
	// HistoryRecordsTotal counts history writes by result
	HistoryRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_records_total",
			Help: "Total number of history records written",
		},
		[]string{"result"},
	)

	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
