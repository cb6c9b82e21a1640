package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// fakeBackend records every prompt and answers according to its mode.
type fakeBackend struct {
	mu      sync.Mutex
	models  []string
	listErr error

	// failAt makes the n-th Generate call (1-based) return genErr.
	failAt int
	genErr error

	prompts    []string
	usedModels []string
}

func newFakeBackend(models ...string) *fakeBackend {
	if len(models) == 0 {
		models = []string{"models/gemini-pro", "models/gemini-flash"}
	}
	return &fakeBackend{models: models}
}

func (f *fakeBackend) ListModels(ctx context.Context) ([]string, error) {
	return f.models, f.listErr
}

func (f *fakeBackend) Generate(ctx context.Context, prompt, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.usedModels = append(f.usedModels, model)
	n := len(f.prompts)
	if f.failAt == n {
		return "", f.genErr
	}
	if isChunkPrompt(prompt) {
		return fmt.Sprintf("  - partial %d  \n", n), nil
	}
	return "\n- final summary\n", nil
}

func (f *fakeBackend) chunkCalls() int {
	n := 0
	for _, p := range f.prompts {
		if isChunkPrompt(p) {
			n++
		}
	}
	return n
}

func (f *fakeBackend) finalCalls() int {
	return len(f.prompts) - f.chunkCalls()
}

func isChunkPrompt(prompt string) bool {
	return strings.HasPrefix(prompt, "Task: Ultra-short chunk compression.")
}
