package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"daily-summary/internal/domain/entity"
)

// DefaultPreferences favours cheaper, faster model variants first.
var DefaultPreferences = []string{"flash", "pro"}

// ModelLister discovers the models that support content generation.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// PickModel applies the selection policy to an already fetched list.
//
// Preferences are scanned in order; for each keyword the first listed model
// whose lowercase name contains it wins. When no keyword matches, the first
// listed model is returned. An empty list yields "".
func PickModel(models []string, preferences []string) string {
	if len(models) == 0 {
		return ""
	}
	for _, pref := range preferences {
		pref = strings.ToLower(pref)
		if pref == "" {
			continue
		}
		for _, m := range models {
			if strings.Contains(strings.ToLower(m), pref) {
				return m
			}
		}
	}
	return models[0]
}

// Selector resolves the model used for one summarization run.
// The list is re-fetched on every call; nothing is cached.
type Selector struct {
	lister      ModelLister
	override    string
	preferences []string
}

// NewSelector creates a selector. A non-empty override skips discovery.
func NewSelector(lister ModelLister, override string, preferences []string) *Selector {
	if len(preferences) == 0 {
		preferences = DefaultPreferences
	}
	return &Selector{
		lister:      lister,
		override:    strings.TrimSpace(override),
		preferences: preferences,
	}
}

// ListModels returns the discovered generation models in backend order.
func (s *Selector) ListModels(ctx context.Context) ([]string, error) {
	models, err := s.lister.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return nil, entity.ErrNoModelsAvailable
	}
	return models, nil
}

// Pick returns the configured override or the preferred discovered model.
func (s *Selector) Pick(ctx context.Context) (string, error) {
	if s.override != "" {
		return s.override, nil
	}
	models, err := s.ListModels(ctx)
	if err != nil {
		return "", err
	}
	model := PickModel(models, s.preferences)
	slog.DebugContext(ctx, "model selected",
		slog.String("model", model),
		slog.Int("available", len(models)))
	return model, nil
}
