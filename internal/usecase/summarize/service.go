package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/observability/logging"
	"daily-summary/internal/observability/metrics"
	"daily-summary/internal/observability/tracing"
	"daily-summary/internal/utils/text"
)

// Backend is a text-generation service that can also list its models.
type Backend interface {
	Generator
	ModelLister
}

// Config tunes the pipeline. A zero MaxChars takes DefaultMaxChars; Overlap
// is used as given, so zero means hard-split windows do not overlap.
type Config struct {
	MaxChars    int
	Overlap     int
	Model       string
	Preferences []string
}

// Service summarizes documents of any length: short input is compressed in
// one pass, long input is compressed chunk by chunk and the partials are
// compressed again into the final summary.
type Service struct {
	compressor *Compressor
	selector   *Selector
	maxChars   int
	overlap    int
}

// NewService validates cfg and wires the pipeline on backend.
func NewService(backend Backend, cfg Config) (*Service, error) {
	if cfg.MaxChars == 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if err := ValidateChunkConfig(cfg.MaxChars, cfg.Overlap); err != nil {
		return nil, err
	}
	return &Service{
		compressor: NewCompressor(backend),
		selector:   NewSelector(backend, cfg.Model, cfg.Preferences),
		maxChars:   cfg.MaxChars,
		overlap:    cfg.Overlap,
	}, nil
}

// Selector exposes the model selector, e.g. for listing models.
func (s *Service) Selector() *Selector {
	return s.selector
}

// Summarize produces the summary of raw.
//
// Empty or whitespace-only input returns the fixed sentinel summary without
// contacting the backend. Otherwise the output language is forced when
// forced is en or zh and detected from raw otherwise. Any backend failure
// aborts the run and no partial summary is returned.
func (s *Service) Summarize(ctx context.Context, raw string, forced entity.Language) (*entity.Summary, error) {
	start := time.Now()
	if strings.TrimSpace(raw) == "" {
		metrics.RecordSummarizeRun(metrics.PathEmpty, true, time.Since(start))
		return entity.EmptySummary(), nil
	}

	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.WithRunID(ctx, "")
	}
	logger := logging.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "summarize")
	defer span.End()

	lang := ResolveLanguage(raw, forced)
	metrics.RecordLanguage(string(lang), forced.IsKnown())
	span.SetAttributes(
		attribute.String("summarize.language", string(lang)),
		attribute.Int("summarize.input_runes", text.CountRunes(raw)),
	)

	summary, path, err := s.run(ctx, raw, lang)
	metrics.RecordSummarizeRun(path, err == nil, time.Since(start))
	if err != nil {
		tracing.RecordError(span, err)
		logger.ErrorContext(ctx, "summarization failed",
			slog.String("path", path),
			slog.Any("error", err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("summarize.model", summary.Meta.Model),
		attribute.Int("summarize.chunks", summary.Meta.ChunkCount),
	)
	logger.InfoContext(ctx, "summarization completed",
		slog.String("path", path),
		slog.String("language", string(lang)),
		slog.String("model", summary.Meta.Model),
		slog.Int("chunks", summary.Meta.ChunkCount),
		slog.Duration("duration", time.Since(start)))
	return summary, nil
}

// run returns the metrics path taken alongside the summary.
func (s *Service) run(ctx context.Context, raw string, lang entity.Language) (*entity.Summary, string, error) {
	model, err := s.selector.Pick(ctx)
	if err != nil {
		return nil, metrics.PathSetup, fmt.Errorf("select model: %w", err)
	}

	chunks, err := ChunkText(raw, s.maxChars, s.overlap)
	if err != nil {
		return nil, metrics.PathSetup, err
	}
	metrics.RecordChunkCount(len(chunks))

	if len(chunks) <= 1 {
		out, err := s.compressor.Compress(ctx, CompressRequest{
			Text:     text.Truncate(raw, FinalInputLimit),
			Language: lang,
			Model:    model,
			Mode:     entity.ModeFinal,
		})
		if err != nil {
			return nil, metrics.PathSingle, err
		}
		return &entity.Summary{
			Text:     out,
			Language: lang,
			Meta:     entity.SummaryMeta{ChunkCount: len(chunks), Model: model},
		}, metrics.PathSingle, nil
	}

	path := metrics.PathMapReduce
	partials := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, path, err
		}
		out, err := s.compressor.Compress(ctx, CompressRequest{
			Text:       ch.Content,
			Language:   lang,
			Model:      model,
			Mode:       entity.ModeChunk,
			ChunkIndex: ch.Index + 1,
			ChunkTotal: len(chunks),
		})
		if err != nil {
			return nil, path, fmt.Errorf("chunk %d/%d: %w", ch.Index+1, len(chunks), err)
		}
		partials = append(partials, out)
	}

	merged := text.Truncate(strings.Join(partials, "\n"), FinalInputLimit)
	out, err := s.compressor.Compress(ctx, CompressRequest{
		Text:     merged,
		Language: lang,
		Model:    model,
		Mode:     entity.ModeFinal,
	})
	if err != nil {
		return nil, path, fmt.Errorf("merge: %w", err)
	}

	return &entity.Summary{
		Text:     out,
		Language: lang,
		Meta:     entity.SummaryMeta{ChunkCount: len(chunks), Model: model},
	}, path, nil
}
