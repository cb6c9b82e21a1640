package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"

	"daily-summary/internal/domain/entity"
)

const (
	utf8BOM    = "\uFEFF"
	docxPath   = "word/document.xml"
	docxNSWord = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

var (
	blankRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns = regexp.MustCompile(`[ \t\f\v]+`)
)

// plainText decodes UTF-8, dropping invalid byte sequences.
func plainText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "")
	return strings.TrimPrefix(s, utf8BOM)
}

// pdfText returns the text of every page, pages joined by a newline.
func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %w", entity.ErrExtractionFailed, err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %w", entity.ErrExtractionFailed, i, err)
		}
		pages = append(pages, txt)
	}
	return strings.Join(pages, "\n"), nil
}

// docxText returns the paragraphs of a Word document, one per line.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx: %w", entity.ErrExtractionFailed, err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == docxPath {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: docx has no %s", entity.ErrExtractionFailed, docxPath)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", entity.ErrExtractionFailed, docxPath, err)
	}
	defer func() { _ = rc.Close() }()

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %w", entity.ErrExtractionFailed, docxPath, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != docxNSWord {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != docxNSWord {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// htmlText extracts the readable article from an HTML page. When readability
// finds nothing it falls back to the visible body text.
func htmlText(data []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return normalizeWhitespace(article.TextContent), nil
	}

	doc, qerr := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if qerr != nil {
		return "", fmt.Errorf("%w: parse html: %w", entity.ErrExtractionFailed, qerr)
	}
	doc.Find("script, style, noscript, template").Remove()
	return normalizeWhitespace(doc.Find("body").Text()), nil
}

// stripTags turns an HTML fragment (as found in feed descriptions) into text.
func stripTags(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return normalizeWhitespace(doc.Text())
}

// normalizeWhitespace collapses runs of spaces within lines and limits blank
// lines to one, keeping paragraph boundaries for the chunker.
func normalizeWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(l, " "))
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
