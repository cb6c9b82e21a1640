// Package report runs the daily report flow: gather inputs, summarize,
// confirm to the selected channels and keep a history of what was sent.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/infra/extract"
	"daily-summary/internal/observability/logging"
	"daily-summary/internal/observability/metrics"
	"daily-summary/internal/repository"
	"daily-summary/internal/usecase/dispatch"
)

// DefaultSubjectPrefix is used when neither the config nor the caller sets one.
const DefaultSubjectPrefix = "[Daily Report]"

// History limits.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

const dateLayout = "2006-01-02"

// Summarizer produces a summary of raw text.
type Summarizer interface {
	Summarize(ctx context.Context, raw string, forced entity.Language) (*entity.Summary, error)
}

// Extractor reads the text of one source.
type Extractor interface {
	Extract(ctx context.Context, source string) (string, error)
}

// Dispatcher delivers a message to the selected channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg entity.Message, sel dispatch.Selection) (dispatch.Result, error)
}

// Renderer turns a title and body into a PDF document.
type Renderer interface {
	Render(title, body string) ([]byte, error)
}

// Deps are the collaborators of the Service. History and Renderer may be nil
// when history or PDF export is not used.
type Deps struct {
	Summarizer Summarizer
	Extractor  Extractor
	Dispatcher Dispatcher
	History    repository.HistoryRepository
	Renderer   Renderer
}

// Config holds the report settings.
type Config struct {
	SubjectPrefix  string
	Location       *time.Location
	HistoryEnabled bool
}

// Service is the report flow.
type Service struct {
	deps   Deps
	config Config
	now    func() time.Time
}

// NewService checks that the required collaborators are present.
func NewService(deps Deps, cfg Config) (*Service, error) {
	if deps.Summarizer == nil {
		return nil, errors.New("report: summarizer is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("report: dispatcher is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DefaultSubjectPrefix
	}
	if cfg.HistoryEnabled && deps.History == nil {
		cfg.HistoryEnabled = false
	}
	return &Service{deps: deps, config: cfg, now: time.Now}, nil
}

// PreviewInput is what a report is built from.
type PreviewInput struct {
	Pasted   string
	Sources  []string
	Language entity.Language
}

// Preview extracts every source in order, joins them after the pasted text
// and summarizes the result. Nothing is sent.
func (s *Service) Preview(ctx context.Context, in PreviewInput) (*entity.Summary, error) {
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}

	extracted := make([]string, 0, len(in.Sources))
	for _, src := range in.Sources {
		if strings.TrimSpace(src) == "" {
			continue
		}
		if s.deps.Extractor == nil {
			return nil, fmt.Errorf("%w: no extractor for %q", entity.ErrUnsupportedSource, src)
		}
		out, err := s.deps.Extractor.Extract(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", src, err)
		}
		extracted = append(extracted, out)
	}

	return s.deps.Summarizer.Summarize(ctx, extract.CombineInput(in.Pasted, extracted...), in.Language)
}

// SendOptions selects channels for Confirm. An empty SubjectPrefix uses the
// configured one.
type SendOptions struct {
	Email         bool
	Telegram      bool
	SubjectPrefix string
}

// ConfirmResult describes a delivered report.
type ConfirmResult struct {
	Subject   string
	Sent      dispatch.Result
	HistoryID int64
}

// Subject returns the report subject for the current day in the report
// timezone.
func (s *Service) Subject(prefix string) string {
	if prefix == "" {
		prefix = s.config.SubjectPrefix
	}
	day := s.now().In(s.config.Location).Format(dateLayout)
	return strings.TrimSpace(fmt.Sprintf("%s Daily Summary (%s)", prefix, day))
}

// Confirm sends summary to the selected channels. History is written only
// when every selected channel delivered and history is enabled. A history
// failure after a successful send is logged and returned, the ConfirmResult
// still reports the delivery.
func (s *Service) Confirm(ctx context.Context, summary *entity.Summary, opts SendOptions) (*ConfirmResult, error) {
	if summary == nil || strings.TrimSpace(summary.Text) == "" {
		return nil, &entity.ValidationError{Field: "summary", Message: "nothing to send"}
	}
	sel := dispatch.Selection{Email: opts.Email, Telegram: opts.Telegram}
	if !sel.Any() {
		return nil, &entity.ValidationError{Field: "channels", Message: "select at least one channel"}
	}

	logger := logging.FromContext(ctx)
	subject := s.Subject(opts.SubjectPrefix)
	msg := entity.Message{
		Subject:  subject,
		Body:     subject + "\n\n" + summary.Text,
		Language: summary.Language,
	}

	sent, err := s.deps.Dispatcher.Dispatch(ctx, msg, sel)
	result := &ConfirmResult{Subject: subject, Sent: sent}
	if err != nil {
		return result, err
	}

	if !s.config.HistoryEnabled {
		return result, nil
	}

	lang := summary.Language
	if !lang.IsKnown() {
		lang = entity.LanguageEnglish
	}
	rec := &entity.HistoryRecord{
		CreatedAt:    s.now().In(s.config.Location),
		Language:     lang,
		Title:        subject,
		Summary:      summary.Text,
		SentEmail:    sent.Email,
		SentTelegram: sent.Telegram,
		Meta:         summary.Meta,
	}
	id, err := s.deps.History.Save(ctx, rec)
	metrics.RecordHistoryWrite(err == nil)
	if err != nil {
		logger.Error("history write failed after send",
			slog.String("subject", subject),
			slog.Any("error", err))
		return result, fmt.Errorf("save history: %w", err)
	}
	result.HistoryID = id
	logger.Info("report recorded",
		slog.Int64("history_id", id),
		slog.String("subject", subject))
	return result, nil
}

// History lists recent records, newest first. A zero limit means
// DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, limit int) ([]*entity.HistoryRecord, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, &entity.ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("must be between 1 and %d", MaxHistoryLimit),
		}
	}
	if s.deps.History == nil {
		return nil, historyDisabled()
	}
	return s.deps.History.List(ctx, limit)
}

// Record returns one history record or ErrNotFound.
func (s *Service) Record(ctx context.Context, id int64) (*entity.HistoryRecord, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	if s.deps.History == nil {
		return nil, historyDisabled()
	}
	rec, err := s.deps.History.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("history record %d: %w", id, entity.ErrNotFound)
	}
	return rec, nil
}

// ExportPDF renders a stored record with its title above the summary.
func (s *Service) ExportPDF(ctx context.Context, id int64) ([]byte, error) {
	if s.deps.Renderer == nil {
		return nil, &entity.ConfigurationError{Key: "PDF_FONT_PATH", Message: "pdf export is not configured"}
	}
	rec, err := s.Record(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.RenderPDF(rec.Title, rec.Summary)
}

// RenderPDF renders an arbitrary title and summary, e.g. a preview.
func (s *Service) RenderPDF(title, summary string) ([]byte, error) {
	if s.deps.Renderer == nil {
		return nil, &entity.ConfigurationError{Key: "PDF_FONT_PATH", Message: "pdf export is not configured"}
	}
	out, err := s.deps.Renderer.Render(title, summary)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return out, nil
}

func historyDisabled() error {
	return &entity.ConfigurationError{Key: "HISTORY_ENABLED", Message: "history store is not configured"}
}
