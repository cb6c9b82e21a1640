// Package app builds the report stack from an AppConfig. Both commands use
// it so the CLI and the worker run exactly the same pipeline.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"daily-summary/internal/config"
	pgRepo "daily-summary/internal/infra/adapter/persistence/postgres"
	sqliteRepo "daily-summary/internal/infra/adapter/persistence/sqlite"
	"daily-summary/internal/infra/db"
	"daily-summary/internal/infra/extract"
	"daily-summary/internal/infra/llm"
	"daily-summary/internal/infra/notifier"
	"daily-summary/internal/infra/pdf"
	"daily-summary/internal/observability/metrics"
	"daily-summary/internal/repository"
	"daily-summary/internal/usecase/dispatch"
	"daily-summary/internal/usecase/report"
	"daily-summary/internal/usecase/summarize"
)

// Options adjust how the stack is built.
type Options struct {
	// DryRun replaces both notifiers with ones that only log.
	DryRun bool

	// SkipHistory leaves the history store closed even when enabled, for
	// commands that never read or write it.
	SkipHistory bool

	Logger *slog.Logger
}

// App is the wired report stack.
type App struct {
	Config     *config.AppConfig
	Backend    llm.Backend
	Summarizer *summarize.Service
	Dispatcher *dispatch.Service
	Report     *report.Service

	db     *sql.DB
	logger *slog.Logger
}

// New wires every component. A history database that cannot be opened is
// an error; a missing PDF font is not, it only disables Unicode output.
func New(ctx context.Context, cfg *config.AppConfig, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, logger: logger}

	provider := llm.NormalizeProvider(cfg.LLM.Provider)
	backend, err := llm.New(llm.Config{
		Provider:        provider,
		APIKey:          cfg.LLM.APIKey(),
		BaseURL:         cfg.LLM.BaseURL(),
		GenerateTimeout: cfg.LLM.GenerateTimeout,
		ListTimeout:     cfg.LLM.ListTimeout,
	})
	if err != nil {
		return nil, err
	}
	a.Backend = backend

	prefs := cfg.LLM.Preferences
	if len(prefs) == 0 {
		prefs = llm.DefaultPreferences(provider)
	}
	a.Summarizer, err = summarize.NewService(backend, summarize.Config{
		MaxChars:    cfg.Chunk.MaxChars,
		Overlap:     cfg.Chunk.Overlap,
		Model:       cfg.LLM.Model,
		Preferences: prefs,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}

	extractor, err := extract.New(extract.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}

	a.Dispatcher = dispatch.NewService(a.channels(opts.DryRun)...)

	var history repository.HistoryRepository
	if cfg.History.Enabled && !opts.SkipHistory {
		history, err = a.openHistory(ctx)
		if err != nil {
			return nil, err
		}
	}

	deps := report.Deps{
		Summarizer: a.Summarizer,
		Extractor:  extractor,
		Dispatcher: a.Dispatcher,
		History:    history,
	}
	renderer, err := newRenderer(cfg.Report.PDFFontPath, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	deps.Renderer = renderer

	a.Report, err = report.NewService(deps, report.Config{
		SubjectPrefix:  cfg.Report.SubjectPrefix,
		Location:       cfg.Report.Location,
		HistoryEnabled: history != nil,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Info("report stack ready",
		slog.String("provider", provider),
		slog.Bool("email_enabled", cfg.EmailEnabled()),
		slog.Bool("telegram_enabled", cfg.TelegramEnabled()),
		slog.Bool("history_enabled", history != nil),
		slog.Bool("dry_run", opts.DryRun))
	return a, nil
}

var newPDFRenderer = pdf.NewRenderer

// newRenderer loads the configured font and falls back to the core font
// when it cannot be read.
func newRenderer(fontPath string, logger *slog.Logger) (*pdf.Renderer, error) {
	renderer, err := newPDFRenderer(pdf.Options{FontPath: fontPath})
	if err == nil {
		return renderer, nil
	}
	logger.Warn("pdf font unavailable, falling back to core font",
		slog.String("path", fontPath),
		slog.Any("error", err))
	renderer, err = newPDFRenderer(pdf.Options{})
	if err != nil {
		return nil, fmt.Errorf("pdf renderer: %w", err)
	}
	return renderer, nil
}

func (a *App) channels(dryRun bool) []dispatch.Channel {
	if dryRun {
		return []dispatch.Channel{
			notifier.NewNoOpNotifier(notifier.ChannelEmail),
			notifier.NewNoOpNotifier(notifier.ChannelTelegram),
		}
	}
	cfg := a.Config
	return []dispatch.Channel{
		notifier.NewSendGridNotifier(notifier.SendGridConfig{
			APIKey:  cfg.Email.SendGridAPIKey,
			From:    cfg.Email.From,
			To:      cfg.Email.To,
			BaseURL: cfg.Email.BaseURL,
		}),
		notifier.NewTelegramNotifier(notifier.TelegramConfig{
			BotToken:    cfg.Telegram.BotToken,
			ChatID:      cfg.Telegram.ChatID,
			APIEndpoint: cfg.Telegram.APIEndpoint,
		}),
	}
}

func (a *App) openHistory(ctx context.Context) (repository.HistoryRepository, error) {
	dbCfg := db.Config{
		DatabaseURL: a.Config.History.DatabaseURL,
		SQLitePath:  a.Config.History.DBPath,
		Pool:        db.ConnectionConfigFromEnv(),
	}
	conn, err := db.Open(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("history database: %w", err)
	}
	if err := db.MigrateUp(ctx, conn, dbCfg.Driver()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("history database: %w", err)
	}
	a.db = conn

	if dbCfg.Driver() == db.DriverPostgres {
		return pgRepo.NewHistoryRepo(conn, a.Config.Report.Location), nil
	}
	return sqliteRepo.NewHistoryRepo(conn, a.Config.Report.Location), nil
}

// ReportDBStats publishes connection pool gauges every interval until ctx
// is done. It returns at once when no database is open.
func (a *App) ReportDBStats(ctx context.Context, interval time.Duration) {
	if a.db == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		stats := a.db.Stats()
		metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close releases the history database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
