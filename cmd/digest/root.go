package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"daily-summary/internal/app"
	"daily-summary/internal/config"
	"daily-summary/internal/domain/entity"
	"daily-summary/internal/observability/logging"
)

// session is the loaded configuration shared by every subcommand.
type session struct {
	envFile string
	cfg     *config.AppConfig
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	s := &session{}
	root := &cobra.Command{
		Use:           "digest",
		Short:         "Summarize documents and send daily reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&s.envFile, "env-file", ".env", "dotenv file to load; missing files are ignored")

	root.AddCommand(
		newSummarizeCmd(s),
		newSendCmd(s),
		newHistoryCmd(s),
		newModelsCmd(s),
		newExportPDFCmd(s),
	)
	return root
}

func (s *session) load(cmd *cobra.Command) error {
	// Variables already in the environment take precedence over the file.
	_ = godotenv.Load(s.envFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.logger = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(s.logger)
	return nil
}

func (s *session) app(ctx context.Context, opts app.Options) (*app.App, error) {
	opts.Logger = s.logger
	return app.New(ctx, s.cfg, opts)
}

// inputFlags are the document inputs shared by summarize and send.
type inputFlags struct {
	text  string
	files []string
	lang  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "text to summarize")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "file, URL or feed:URL to summarize (repeatable)")
	cmd.Flags().StringVar(&f.lang, "lang", "auto", "output language: auto, en or zh")
}

func (f *inputFlags) language() (entity.Language, error) {
	return entity.ParseLanguage(f.lang)
}

func checkOutput(format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
		return nil
	default:
		return &entity.ValidationError{Field: "output", Message: fmt.Sprintf("must be text or json, got %s", format)}
	}
}
