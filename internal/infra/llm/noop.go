package llm

import (
	"context"
	"regexp"
	"strings"
)

// NoOpModel is the only model the NoOp backend reports.
const NoOpModel = "noop"

const noOpBulletWords = 12

// payloadMarker finds where the source text starts in a compression prompt.
var payloadMarker = regexp.MustCompile(`(?m)^(?:Content:|Chunk \d+/\d+:)\n`)

// NoOp is an offline backend for development. It answers with one bullet made
// of the first words of the prompt's source text.
type NoOp struct{}

// NewNoOp creates a new NoOp backend.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// ListModels always reports NoOpModel.
func (n *NoOp) ListModels(_ context.Context) ([]string, error) {
	return []string{NoOpModel}, nil
}

// Generate returns "- " followed by at most twelve words of the source text.
func (n *NoOp) Generate(_ context.Context, prompt, _ string) (string, error) {
	payload := prompt
	if loc := payloadMarker.FindAllStringIndex(prompt, -1); len(loc) > 0 {
		payload = prompt[loc[len(loc)-1][1]:]
	}
	words := strings.Fields(payload)
	if len(words) > noOpBulletWords {
		words = words[:noOpBulletWords]
	}
	return "- " + strings.Join(words, " "), nil
}
