package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"daily-summary/internal/pkg/config"
)

// WorkerMetrics embeds the worker_config_* metrics and adds the cron job
// metrics:
//   - worker_cron_job_runs_total{status}
//   - worker_cron_job_duration_seconds
//   - worker_cron_job_sources_processed_total
//   - worker_cron_job_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal *prometheus.CounterVec

	// Buckets span a quick single-pass report to a long map-reduce run.
	CronJobDurationSeconds prometheus.Histogram

	CronJobSourcesProcessedTotal prometheus.Counter

	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with the default registry.
func NewWorkerMetrics() *WorkerMetrics {
	return NewWorkerMetricsWith(promauto.With(prometheus.DefaultRegisterer))
}

// NewWorkerMetricsWith registers on factory, e.g. a test registry.
func NewWorkerMetricsWith(factory promauto.Factory) *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetricsWith(factory, "worker"),

		CronJobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of daily report runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of daily report runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 180, 600, 1800},
		}),

		CronJobSourcesProcessedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_sources_processed_total",
			Help: "Total number of input sources read across all report runs",
		}),

		CronJobLastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful report run",
		}),
	}
}

func (m *WorkerMetrics) config() *config.ConfigMetrics {
	if m == nil {
		return nil
	}
	return m.ConfigMetrics
}

// RecordJobRun counts a run with status "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a run's duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordSourcesProcessed adds the number of sources read by a run.
func (m *WorkerMetrics) RecordSourcesProcessed(count int) {
	m.CronJobSourcesProcessedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
