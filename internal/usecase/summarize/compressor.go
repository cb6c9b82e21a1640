package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/observability/metrics"
	"daily-summary/internal/observability/tracing"
	"daily-summary/internal/utils/text"
)

const (
	// ChunkInputLimit caps the chunk text embedded in a chunk-mode prompt.
	ChunkInputLimit = 14000
	// FinalInputLimit caps the text embedded in a final-mode prompt.
	FinalInputLimit = 20000
)

// Generator produces text for a prompt with the named model.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// CompressRequest describes one compression call.
// ChunkIndex is 1-based and, with ChunkTotal, only used in chunk mode.
type CompressRequest struct {
	Text       string
	Language   entity.Language
	Model      string
	Mode       entity.CompressionMode
	ChunkIndex int
	ChunkTotal int
}

// Compressor turns one text into bullet points with a single backend call.
type Compressor struct {
	generator Generator
}

// NewCompressor creates a compressor backed by generator.
func NewCompressor(generator Generator) *Compressor {
	return &Compressor{generator: generator}
}

// LanguageDirective is the output-language line embedded in every prompt.
func LanguageDirective(lang entity.Language) string {
	if lang == entity.LanguageChinese {
		return "Respond in Chinese (简体中文)."
	}
	return "Respond in English."
}

// BuildPrompt renders the instruction block for req. Input text is
// truncated to the mode's limit.
func BuildPrompt(req CompressRequest) string {
	var b strings.Builder
	directive := LanguageDirective(req.Language)

	switch req.Mode {
	case entity.ModeChunk:
		b.WriteString("Task: Ultra-short chunk compression.\n\n")
		b.WriteString("Rules:\n")
		b.WriteString("- Output ONLY 2–3 bullet points.\n")
		b.WriteString("- Each bullet ≤ 12 words.\n")
		b.WriteString("- No conclusions, no action items, no extra reasoning.\n")
		b.WriteString("- Strictly objective and faithful.\n")
		b.WriteString("- " + directive + "\n\n")
		fmt.Fprintf(&b, "Chunk %d/%d:\n", req.ChunkIndex, req.ChunkTotal)
		b.WriteString(text.Truncate(req.Text, ChunkInputLimit))
	default:
		b.WriteString("Task: Condensed compression summary.\n\n")
		b.WriteString("Strict rules:\n")
		b.WriteString("- Output ONLY the compressed summary.\n")
		b.WriteString("- No title. No intro. No conclusion.\n")
		b.WriteString("- Do NOT add action items, recommendations, implications, or extra reasoning.\n")
		b.WriteString("- Do NOT infer missing information. Do NOT expand beyond the source.\n")
		b.WriteString("- Keep only core arguments and key facts. Remove examples/background/filler.\n")
		b.WriteString("- Be strictly objective.\n")
		b.WriteString("- Use 4–6 bullet points ONLY.\n")
		b.WriteString("- Each bullet ≤ 15 words.\n")
		b.WriteString("- Target total length: 40–100 words.\n")
		b.WriteString("- " + directive + "\n\n")
		b.WriteString("Content:\n")
		b.WriteString(text.Truncate(req.Text, FinalInputLimit))
	}

	return strings.TrimSpace(b.String())
}

// Compress issues exactly one Generate call and returns its trimmed output.
func (c *Compressor) Compress(ctx context.Context, req CompressRequest) (string, error) {
	if req.Mode == "" {
		req.Mode = entity.ModeFinal
	}
	mode := string(req.Mode)

	ctx, span := tracing.StartSpan(ctx, "compress")
	defer span.End()
	span.SetAttributes(
		attribute.String("compress.mode", mode),
		attribute.String("compress.model", req.Model),
		attribute.String("compress.language", string(req.Language)),
	)
	if req.Mode == entity.ModeChunk {
		span.SetAttributes(
			attribute.Int("compress.chunk_index", req.ChunkIndex),
			attribute.Int("compress.chunk_total", req.ChunkTotal),
		)
	}

	start := time.Now()
	out, err := c.generator.Generate(ctx, BuildPrompt(req), req.Model)
	metrics.RecordCompression(mode, err == nil, time.Since(start))
	if err != nil {
		tracing.RecordError(span, err)
		slog.WarnContext(ctx, "compression failed",
			slog.String("mode", mode),
			slog.Int("chunk_index", req.ChunkIndex),
			slog.Any("error", err))
		return "", fmt.Errorf("compress %s: %w", mode, err)
	}

	return strings.TrimSpace(out), nil
}
