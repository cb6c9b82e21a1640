package entity

import (
	"encoding/json"
	"strings"
)

// EmptyInputSummary is returned verbatim when there is nothing to summarize.
const EmptyInputSummary = "No content provided."

// CompressionMode selects the prompt contract used by the compression engine.
type CompressionMode string

const (
	// ModeChunk compresses one chunk to 2-3 bullets of at most 12 words.
	ModeChunk CompressionMode = "chunk"
	// ModeFinal compresses a whole text (or merged partials) to 4-6 bullets.
	ModeFinal CompressionMode = "final"
)

// TextChunk is one bounded segment of a document, in emission order.
type TextChunk struct {
	Index   int
	Content string
}

// SummaryMeta is the diagnostic record attached to a summary.
// The JSON shape matches what is persisted in history.
type SummaryMeta struct {
	ChunkCount int    `json:"chunks"`
	Model      string `json:"model,omitempty"`
}

// Summary is the final condensed result for one document.
type Summary struct {
	Text     string      `json:"summary"`
	Language Language    `json:"language"`
	Meta     SummaryMeta `json:"meta"`
}

// EmptySummary is the sentinel result for empty or whitespace-only input.
func EmptySummary() *Summary {
	return &Summary{
		Text:     EmptyInputSummary,
		Language: LanguageEnglish,
		Meta:     SummaryMeta{ChunkCount: 0},
	}
}

// IsEmptyInput reports whether s is the empty-input sentinel.
func (s *Summary) IsEmptyInput() bool {
	return s != nil && s.Meta.ChunkCount == 0 && s.Text == EmptyInputSummary
}

// EncodeMeta returns the JSON stored in the history meta column.
func EncodeMeta(m SummaryMeta) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeMeta parses a stored meta column. Empty input yields the zero meta.
func DecodeMeta(s string) (SummaryMeta, error) {
	var m SummaryMeta
	if strings.TrimSpace(s) == "" {
		return m, nil
	}
	err := json.Unmarshal([]byte(s), &m)
	return m, err
}
