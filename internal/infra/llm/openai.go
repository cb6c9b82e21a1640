package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"daily-summary/internal/domain/entity"
)

// nonChatModel matches OpenAI model ids that cannot serve chat completions.
var nonChatModel = regexp.MustCompile(`audio|realtime|transcribe|tts|image|search|instruct|embedding|moderation`)

var oSeriesModel = regexp.MustCompile(`^o\d`)

// OpenAI generates text with the Chat Completions API.
type OpenAI struct {
	client          *openai.Client
	maxTokens       int
	generateTimeout time.Duration
	listTimeout     time.Duration
	guard           *guard
}

// NewOpenAI creates an OpenAI backend. The API key is required.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if err := requireKey(ProviderOpenAI, cfg.APIKey); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = cfg.HTTPClient

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		maxTokens:       cfg.MaxTokens,
		generateTimeout: cfg.GenerateTimeout,
		listTimeout:     cfg.ListTimeout,
		guard:           newGuard(ProviderOpenAI),
	}, nil
}

// IsChatModel reports whether an OpenAI model id can serve chat completions.
func IsChatModel(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, "gpt") && !oSeriesModel.MatchString(id) {
		return false
	}
	return !nonChatModel.MatchString(id)
}

// ListModels returns the chat-capable model ids in API order.
func (o *OpenAI) ListModels(ctx context.Context) ([]string, error) {
	return run(ctx, o.guard, "list_models", o.listTimeout, func(ctx context.Context) ([]string, error) {
		resp, err := o.client.ListModels(ctx)
		if err != nil {
			return nil, fmt.Errorf("openai list models: %w", openAIError(err))
		}
		var models []string
		for _, m := range resp.Models {
			if IsChatModel(m.ID) {
				models = append(models, m.ID)
			}
		}
		return models, nil
	})
}

// Generate sends prompt as a single user message.
func (o *OpenAI) Generate(ctx context.Context, prompt, model string) (string, error) {
	out, err := run(ctx, o.guard, "generate", o.generateTimeout, func(ctx context.Context) (string, error) {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:               model,
			MaxCompletionTokens: o.maxTokens,
			Messages: []openai.ChatCompletionMessage{{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			}},
		})
		if err != nil {
			return "", fmt.Errorf("openai generate: %w", openAIError(err))
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai generate: %w", entity.ErrEmptyResponse)
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}
	recordOutput(ProviderOpenAI, out)
	return out, nil
}

// openAIError turns the client's API and request errors into BackendError.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &entity.BackendError{
			Backend:    ProviderOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &entity.BackendError{
			Backend:    ProviderOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Err:        err,
		}
	}
	return err
}
