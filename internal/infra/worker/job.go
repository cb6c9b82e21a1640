package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/infra/extract"
	"daily-summary/internal/observability/logging"
	"daily-summary/internal/usecase/report"
)

// Reporter is the part of the report flow a scheduled run needs.
type Reporter interface {
	Preview(ctx context.Context, in report.PreviewInput) (*entity.Summary, error)
	Confirm(ctx context.Context, summary *entity.Summary, opts report.SendOptions) (*report.ConfirmResult, error)
}

// JobConfig is what every run summarizes and where it sends it.
type JobConfig struct {
	Sources       []string
	Language      entity.Language
	Email         bool
	Telegram      bool
	SubjectPrefix string
	Timeout       time.Duration
}

// DailyJob produces and sends one report per run.
type DailyJob struct {
	reporter Reporter
	config   JobConfig
	metrics  *WorkerMetrics
	health   *HealthServer
	logger   *slog.Logger
	now      func() time.Time
}

// NewDailyJob wires a job. Metrics and health may be nil.
func NewDailyJob(reporter Reporter, cfg JobConfig, metrics *WorkerMetrics, health *HealthServer, logger *slog.Logger) *DailyJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DailyJob{
		reporter: reporter,
		config:   cfg,
		metrics:  metrics,
		health:   health,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute runs one report: read the sources, summarize, send. Local files
// that do not exist are skipped so a missing daily file still yields the
// empty-input report. The run is bounded by the configured timeout.
func (j *DailyJob) Execute(ctx context.Context) (*report.ConfirmResult, error) {
	start := j.now()
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}
	ctx = logging.WithRunID(logging.WithLogger(ctx, j.logger), "")
	logger := logging.FromContext(ctx)

	logger.Info("daily report started", slog.Int("sources", len(j.config.Sources)))
	result, err := j.run(ctx, logger)
	duration := j.now().Sub(start)

	if j.metrics != nil {
		j.metrics.RecordJobDuration(duration.Seconds())
		if err != nil {
			j.metrics.RecordJobRun("failure")
		} else {
			j.metrics.RecordJobRun("success")
			j.metrics.RecordLastSuccess()
		}
	}
	if j.health != nil {
		j.health.RecordRun(j.now(), err)
	}

	if err != nil {
		logger.Error("daily report failed",
			slog.Duration("duration", duration),
			slog.String("error", logging.SanitizeError(err)))
		return result, err
	}
	logger.Info("daily report completed",
		slog.String("subject", result.Subject),
		slog.Bool("email_sent", result.Sent.Email),
		slog.Bool("telegram_sent", result.Sent.Telegram),
		slog.Int64("history_id", result.HistoryID),
		slog.Duration("duration", duration))
	return result, nil
}

// CronJob adapts the job for the scheduler. Runs inherit ctx, so a
// shutdown cancels a report in flight.
func (j *DailyJob) CronJob(ctx context.Context) cron.Job {
	return cron.FuncJob(func() {
		_, _ = j.Execute(ctx)
	})
}

func (j *DailyJob) run(ctx context.Context, logger *slog.Logger) (*report.ConfirmResult, error) {
	sources := j.presentSources(logger)
	if j.metrics != nil {
		j.metrics.RecordSourcesProcessed(len(sources))
	}

	summary, err := j.reporter.Preview(ctx, report.PreviewInput{
		Sources:  sources,
		Language: j.config.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	return j.reporter.Confirm(ctx, summary, report.SendOptions{
		Email:         j.config.Email,
		Telegram:      j.config.Telegram,
		SubjectPrefix: j.config.SubjectPrefix,
	})
}

// presentSources drops local files that do not exist. URLs and feeds are
// always kept.
func (j *DailyJob) presentSources(logger *slog.Logger) []string {
	out := make([]string, 0, len(j.config.Sources))
	for _, src := range j.config.Sources {
		switch extract.KindOf(src) {
		case extract.KindURL, extract.KindFeed:
		default:
			if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
				logger.Warn("report input not found, skipping", slog.String("source", src))
				continue
			}
		}
		out = append(out, src)
	}
	return out
}
