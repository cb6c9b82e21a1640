// Package pdf renders a report summary as a simple A4 document.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Layout in points, matching the printed daily report.
const (
	marginLeft   = 40.0
	marginTop    = 60.0
	marginBottom = 60.0
	titleSize    = 14.0
	titleLineH   = 24.0
	bodySize     = 11.0
	bodyLineH    = 14.0
)

const utf8Family = "report"

// Options configures a Renderer.
type Options struct {
	// FontPath is a UTF-8 TrueType font. Without it the core Helvetica font
	// is used and text outside cp1252 cannot be shown.
	FontPath string
}

// Renderer turns a title and a body into PDF bytes. It is safe for
// concurrent use; every Render builds a new document.
type Renderer struct {
	font []byte
}

// NewRenderer loads the optional font up front so a bad path fails early.
func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{}
	if path := strings.TrimSpace(opts.FontPath); path != "" {
		font, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pdf font: %w", err)
		}
		r.font = font
	}
	return r, nil
}

// UnicodeFont reports whether a UTF-8 font was configured.
func (r *Renderer) UnicodeFont() bool {
	return len(r.font) > 0
}

// Render lays out title in bold and body below it, wrapping long lines and
// adding pages as needed.
func (r *Renderer) Render(title, body string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(marginLeft, marginTop, marginLeft)
	doc.SetAutoPageBreak(true, marginBottom)
	doc.SetTitle(title, true)
	doc.SetCreator("daily-summary", true)

	family := "Helvetica"
	translate := func(s string) string { return s }
	if r.UnicodeFont() {
		family = utf8Family
		doc.AddUTF8FontFromBytes(family, "", r.font)
		doc.AddUTF8FontFromBytes(family, "B", r.font)
	} else {
		translate = doc.UnicodeTranslatorFromDescriptor("")
	}

	doc.AddPage()
	doc.SetFont(family, "B", titleSize)
	doc.MultiCell(0, titleLineH, translate(title), "", "L", false)

	doc.SetFont(family, "", bodySize)
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			doc.Ln(bodyLineH)
			continue
		}
		doc.MultiCell(0, bodyLineH, translate(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
