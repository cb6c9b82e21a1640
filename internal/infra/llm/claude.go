package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"daily-summary/internal/domain/entity"
)

// Claude generates text with Anthropic's Messages API.
type Claude struct {
	client          anthropic.Client
	maxTokens       int
	generateTimeout time.Duration
	listTimeout     time.Duration
	guard           *guard
}

// NewClaude creates a Claude backend. The API key is required.
func NewClaude(cfg Config) (*Claude, error) {
	if err := requireKey(ProviderClaude, cfg.APIKey); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		// failures surface to the caller; the pipeline never retries
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		client:          anthropic.NewClient(opts...),
		maxTokens:       cfg.MaxTokens,
		generateTimeout: cfg.GenerateTimeout,
		listTimeout:     cfg.ListTimeout,
		guard:           newGuard(ProviderClaude),
	}, nil
}

// ListModels returns every model id, newest first as the API orders them.
func (c *Claude) ListModels(ctx context.Context) ([]string, error) {
	return run(ctx, c.guard, "list_models", c.listTimeout, func(ctx context.Context) ([]string, error) {
		var models []string
		iter := c.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
		for iter.Next() {
			models = append(models, iter.Current().ID)
		}
		if err := iter.Err(); err != nil {
			return nil, fmt.Errorf("claude list models: %w", claudeError(err))
		}
		return models, nil
	})
}

// Generate sends prompt as a single user turn and concatenates the text blocks
// of the reply.
func (c *Claude) Generate(ctx context.Context, prompt, model string) (string, error) {
	out, err := run(ctx, c.guard, "generate", c.generateTimeout, func(ctx context.Context) (string, error) {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: int64(c.maxTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if err != nil {
			return "", fmt.Errorf("claude generate: %w", claudeError(err))
		}

		var b strings.Builder
		for _, block := range message.Content {
			if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
				b.WriteString(tb.Text)
			}
		}
		if b.Len() == 0 {
			return "", fmt.Errorf("claude generate: %w", entity.ErrEmptyResponse)
		}
		return b.String(), nil
	})
	if err != nil {
		return "", err
	}
	recordOutput(ProviderClaude, out)
	return out, nil
}

func claudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &entity.BackendError{
			Backend:    ProviderClaude,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Error(),
			Err:        err,
		}
	}
	return err
}
