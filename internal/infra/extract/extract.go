// Package extract turns report inputs (local documents, web pages and feeds)
// into plain text for the summarizer.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/observability/metrics"
	"daily-summary/internal/utils/text"
)

// FeedPrefix marks a source as an RSS/Atom feed URL, e.g. "feed:https://...".
const FeedPrefix = "feed:"

// Source kinds, used as metric labels.
const (
	KindText     = "text"
	KindMarkdown = "markdown"
	KindPDF      = "pdf"
	KindDOCX     = "docx"
	KindHTML     = "html"
	KindURL      = "url"
	KindFeed     = "feed"
)

var extensionKinds = map[string]string{
	".txt":      KindText,
	".text":     KindText,
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".pdf":      KindPDF,
	".docx":     KindDOCX,
	".html":     KindHTML,
	".htm":      KindHTML,
}

// Extractor reads text out of files, URLs and feeds.
type Extractor struct {
	config Config
	web    *webFetcher
}

// New creates an Extractor. The config is validated.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extract config: %w", err)
	}
	return &Extractor{config: cfg, web: newWebFetcher(cfg)}, nil
}

// KindOf classifies source without reading it. Unknown file types yield "".
func KindOf(source string) string {
	switch {
	case strings.HasPrefix(source, FeedPrefix):
		return KindFeed
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return KindURL
	default:
		return extensionKinds[strings.ToLower(filepath.Ext(source))]
	}
}

// Extract returns the trimmed text of source, which is a file path, an
// http(s) URL, or a feed URL prefixed with FeedPrefix.
func (e *Extractor) Extract(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	kind := KindOf(source)

	var (
		out string
		err error
	)
	switch kind {
	case KindFeed:
		out, err = e.fetchFeed(ctx, strings.TrimPrefix(source, FeedPrefix))
	case KindURL:
		out, err = e.fetchPage(ctx, source)
	case "":
		err = fmt.Errorf("%w: %q", entity.ErrUnsupportedSource, source)
	default:
		out, err = e.readFile(source, kind)
	}

	metrics.RecordExtraction(metricKind(kind), err == nil, text.CountRunes(out))
	if err != nil {
		slog.WarnContext(ctx, "extraction failed",
			slog.String("source", source),
			slog.String("kind", kind),
			slog.Any("error", err))
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ExtractBytes reads an in-memory document whose type is taken from name's
// extension, e.g. an upload.
func (e *Extractor) ExtractBytes(name string, data []byte) (string, error) {
	kind := KindOf(name)
	if kind == "" || kind == KindURL || kind == KindFeed {
		return "", fmt.Errorf("%w: %q", entity.ErrUnsupportedSource, name)
	}
	out, err := decode(kind, data, &url.URL{Scheme: "file", Path: name})
	metrics.RecordExtraction(kind, err == nil, text.CountRunes(out))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (e *Extractor) readFile(path, kind string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", entity.ErrExtractionFailed, path, err)
	}
	abs, _ := filepath.Abs(path)
	return decode(kind, data, &url.URL{Scheme: "file", Path: abs})
}

func (e *Extractor) fetchPage(ctx context.Context, pageURL string) (string, error) {
	pg, err := e.web.fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %w", entity.ErrExtractionFailed, pageURL, err)
	}

	switch {
	case pg.contentType == "application/pdf":
		return pdfText(pg.body)
	case pg.contentType == "text/plain", pg.contentType == "text/markdown":
		return plainText(pg.body), nil
	case strings.Contains(pg.contentType, "rss"), strings.Contains(pg.contentType, "atom"):
		return parseFeed(pg.body, e.config.FeedItemLimit)
	default:
		return htmlText(pg.body, pg.finalURL)
	}
}

func decode(kind string, data []byte, location *url.URL) (string, error) {
	switch kind {
	case KindPDF:
		return pdfText(data)
	case KindDOCX:
		return docxText(data)
	case KindHTML:
		return htmlText(data, location)
	default:
		return plainText(data), nil
	}
}

func metricKind(kind string) string {
	if kind == "" {
		return "unknown"
	}
	return kind
}

// CombineInput joins pasted text and extracted documents, each trimmed, with
// a blank line between non-empty parts.
func CombineInput(pasted string, extracted ...string) string {
	combined := strings.TrimSpace(pasted)
	for _, part := range extracted {
		combined = strings.TrimSpace(combined + "\n\n" + strings.TrimSpace(part))
	}
	return combined
}
