package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"daily-summary/internal/app"
	"daily-summary/internal/config"
	workerPkg "daily-summary/internal/infra/worker"
	"daily-summary/internal/observability/logging"
)

const dbStatsInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("worker stopped", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load()

	appCfg, err := config.Load()
	if err != nil {
		slog.SetDefault(logging.NewLogger())
		return err
	}
	logger := logging.New(logging.Options{Level: appCfg.Log.Level, Format: appCfg.Log.Format})
	slog.SetDefault(logger)

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerCfg, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		return fmt.Errorf("load worker configuration: %w", err)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerCfg.CronSchedule),
		slog.String("timezone", workerCfg.Timezone),
		slog.String("report_input", workerCfg.ReportInput),
		slog.Duration("report_timeout", workerCfg.ReportTimeout),
		slog.Int("health_port", workerCfg.HealthPort),
		slog.Int("metrics_port", workerCfg.MetricsPort))

	profilePath := workerCfg.ProfilePath
	if profilePath == "" {
		profilePath = appCfg.Report.ProfilePath
	}
	var profile *config.ReportProfile
	if profilePath != "" {
		if profile, err = config.LoadReportProfile(profilePath); err != nil {
			return err
		}
		logger.Info("report profile loaded", slog.String("path", profilePath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, appCfg, app.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("failed to close history database", slog.Any("error", err))
		}
	}()

	email, telegram := profile.Select(appCfg.EmailEnabled(), appCfg.TelegramEnabled())
	if !email && !telegram {
		return errors.New("no delivery channel configured: set the SendGrid or Telegram settings")
	}

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), logger)
	job := workerPkg.NewDailyJob(application.Report, workerPkg.JobConfig{
		Sources:       profile.Sources([]string{workerCfg.ReportInput}),
		Language:      profile.LanguageValue(),
		Email:         email,
		Telegram:      telegram,
		SubjectPrefix: profile.Prefix(""),
		Timeout:       workerCfg.ReportTimeout,
	}, workerMetrics, healthServer, logger)

	scheduler := cron.New(
		cron.WithLocation(workerCfg.Location()),
		cron.WithLogger(cronLogger{logger}),
		cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
	)

	g, gctx := errgroup.WithContext(ctx)
	if _, err := scheduler.AddJob(workerCfg.CronSchedule, job.CronJob(gctx)); err != nil {
		return fmt.Errorf("schedule daily report: %w", err)
	}

	g.Go(func() error {
		return ignoreClosed(healthServer.Start(gctx))
	})
	g.Go(func() error {
		return ignoreClosed(serveMetrics(gctx, logger, workerCfg.MetricsPort, application.Dispatcher))
	})
	g.Go(func() error {
		application.ReportDBStats(gctx, dbStatsInterval)
		return nil
	})
	g.Go(func() error {
		scheduler.Start()
		healthServer.SetReady(true)
		logger.Info("worker started",
			slog.String("schedule", workerCfg.CronSchedule),
			slog.String("timezone", workerCfg.Timezone),
			slog.Bool("email", email),
			slog.Bool("telegram", telegram))

		<-gctx.Done()
		healthServer.SetReady(false)
		logger.Info("waiting for running report to finish")
		<-scheduler.Stop().Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("worker shut down")
	return nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// cronLogger routes scheduler events to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
