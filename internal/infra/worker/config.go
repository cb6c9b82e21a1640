package worker

import (
	"fmt"
	"log/slog"
	"time"

	"daily-summary/internal/pkg/config"
)

// WorkerConfig controls when the daily report runs and what it reads.
//
// Loaded with the fail-open strategy: an invalid variable falls back to its
// default, is logged and counted, and never stops the worker.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression. Default "0 9 * * *".
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in.
	// Default "Asia/Kuala_Lumpur".
	Timezone string

	// ReportInput is the source summarized by each run when no profile
	// lists inputs. Default "daily.txt".
	ReportInput string

	// ReportTimeout bounds one run, extraction to history write. 1m-4h,
	// default 15m.
	ReportTimeout time.Duration

	// ProfilePath is an optional YAML report profile.
	ProfilePath string

	// HealthPort serves /health and /health/ready. Default 9091.
	HealthPort int

	// MetricsPort serves /metrics. Default 9090.
	MetricsPort int
}

// DefaultConfig returns the production defaults: a 9:00 run in Malaysia time.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "0 9 * * *",
		Timezone:      "Asia/Kuala_Lumpur",
		ReportInput:   "daily.txt",
		ReportTimeout: 15 * time.Minute,
		HealthPort:    9091,
		MetricsPort:   9090,
	}
}

// Location resolves Timezone. Call after Validate or LoadConfigFromEnv.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks every field and reports all problems together.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}
	if c.ReportInput == "" {
		errors = append(errors, fmt.Errorf("report input: cannot be empty"))
	}
	if err := config.ValidateDuration(c.ReportTimeout, time.Minute, 4*time.Hour); err != nil {
		errors = append(errors, fmt.Errorf("report timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errors = append(errors, fmt.Errorf("health and metrics ports must differ, both %d", c.HealthPort))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}

// LoadConfigFromEnv reads CRON_SCHEDULE, WORKER_TIMEZONE, REPORT_INPUT,
// REPORT_TIMEOUT, REPORT_PROFILE, WORKER_HEALTH_PORT and METRICS_PORT.
// It always returns a usable config; the error is reserved and always nil.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false
	cm := metrics.config()

	cfg.CronSchedule = config.Track(cm, logger, "cron_schedule",
		config.LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule), &fallbackApplied)

	cfg.Timezone = config.Track(cm, logger, "timezone",
		config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone), &fallbackApplied)

	cfg.ReportInput = config.LoadEnvString("REPORT_INPUT", cfg.ReportInput, nil).Value
	cfg.ProfilePath = config.LoadEnvString("REPORT_PROFILE", "", nil).Value

	cfg.ReportTimeout = config.Track(cm, logger, "report_timeout",
		config.LoadEnvDuration("REPORT_TIMEOUT", cfg.ReportTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Minute, 4*time.Hour)
		}), &fallbackApplied)

	portRange := func(v int) error { return config.ValidateIntRange(v, 1024, 65535) }
	cfg.HealthPort = config.Track(cm, logger, "health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, portRange), &fallbackApplied)
	cfg.MetricsPort = config.Track(cm, logger, "metrics_port",
		config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, portRange), &fallbackApplied)

	if cm != nil {
		cm.SetFallbackActive(fallbackApplied)
		cm.RecordLoadTimestamp()
	}
	return &cfg, nil
}
