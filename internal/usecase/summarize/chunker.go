package summarize

import (
	"fmt"
	"regexp"
	"strings"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/utils/text"
)

const (
	// DefaultMaxChars is the chunk ceiling in runes.
	DefaultMaxChars = 12000
	// DefaultOverlap is how many runes consecutive hard-split windows share.
	DefaultOverlap = 600

	paragraphSeparator = "\n\n"
)

var paragraphBoundary = regexp.MustCompile(`\n{2,}`)

// ValidateChunkConfig rejects a size/overlap pair whose hard split could not advance.
func ValidateChunkConfig(maxChars, overlap int) error {
	if maxChars <= 0 {
		return fmt.Errorf("%w: max chars must be positive, got %d", entity.ErrInvalidChunkConfig, maxChars)
	}
	if overlap < 0 || overlap >= maxChars {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", entity.ErrInvalidChunkConfig, maxChars, overlap)
	}
	return nil
}

// ChunkText splits text into ordered chunks of at most maxChars runes.
//
// Paragraphs (separated by blank lines) are packed greedily into a buffer
// joined by "\n\n". A paragraph longer than maxChars is hard-split into
// windows of maxChars runes that advance by maxChars-overlap, so consecutive
// windows share overlap runes. Empty or whitespace-only text yields no chunks.
func ChunkText(input string, maxChars, overlap int) ([]entity.TextChunk, error) {
	if err := ValidateChunkConfig(maxChars, overlap); err != nil {
		return nil, err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	var (
		contents []string
		buf      strings.Builder
		bufLen   int
	)

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			contents = append(contents, s)
		}
		buf.Reset()
		bufLen = 0
	}

	for _, raw := range paragraphBoundary.Split(input, -1) {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		pLen := text.CountRunes(p)

		if bufLen+pLen+len(paragraphSeparator) <= maxChars {
			if bufLen > 0 {
				buf.WriteString(paragraphSeparator)
				bufLen += len(paragraphSeparator)
			}
			buf.WriteString(p)
			bufLen += pLen
			continue
		}

		flush()
		if pLen <= maxChars {
			buf.WriteString(p)
			bufLen = pLen
			continue
		}
		contents = append(contents, hardSplit(p, maxChars, overlap)...)
	}
	flush()

	chunks := make([]entity.TextChunk, len(contents))
	for i, c := range contents {
		chunks[i] = entity.TextChunk{Index: i, Content: c}
	}
	return chunks, nil
}

// hardSplit cuts an oversized paragraph into overlapping windows, one per
// step start inside the paragraph. Windows near the end may be shorter and
// wholly contained in the previous one.
func hardSplit(p string, maxChars, overlap int) []string {
	runes := []rune(p)
	step := maxChars - overlap

	var parts []string
	for start := 0; start < len(runes); start += step {
		end := min(start+maxChars, len(runes))
		if part := strings.TrimSpace(string(runes[start:end])); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
