package config

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks configuration loads for one component. Metric names
// are prefixed with the component, e.g. worker_config_fallbacks_total.
type ConfigMetrics struct {
	// LoadTimestamp is the unix time of the last load.
	LoadTimestamp prometheus.Gauge

	// ValidationErrorsTotal counts rejected values by field.
	ValidationErrorsTotal *prometheus.CounterVec

	// FallbacksTotal counts defaults applied by field.
	FallbacksTotal *prometheus.CounterVec

	// FallbackActive is 1 while any field runs on a fallback.
	FallbackActive prometheus.Gauge

	componentName string
}

// NewConfigMetrics registers the metrics with the default registry. It panics
// when called twice for the same component, like any promauto constructor.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return NewConfigMetricsWith(promauto.With(prometheus.DefaultRegisterer), componentName)
}

// NewConfigMetricsWith registers on a custom factory, e.g. a test registry.
func NewConfigMetricsWith(factory promauto.Factory, componentName string) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		ValidationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", componentName),
		}, []string{"field"}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", componentName),
		}, []string{"field"}),
		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),
		componentName: componentName,
	}
}

// RecordLoadTimestamp marks a completed load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts a rejected value for field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback counts a default applied to field.
func (m *ConfigMetrics) RecordFallback(field string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive sets the fallback gauge.
func (m *ConfigMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}

// Track records a LoadResult: a fallback is counted and logged under field.
// It returns the loaded value so loaders can assign in one line.
//
// Example:
//
//	cfg.CronSchedule = Track(m, logger, "cron_schedule",
//	    LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, ValidateCronSchedule), &fallback)
func Track[T any](m *ConfigMetrics, logger *slog.Logger, field string, result LoadResult[T], fallback *bool) T {
	if result.FallbackApplied {
		if fallback != nil {
			*fallback = true
		}
		if m != nil {
			m.RecordValidationError(field)
			m.RecordFallback(field)
		}
		if logger != nil {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", result.Warning))
		}
	}
	return result.Value
}
