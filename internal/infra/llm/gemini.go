package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/utils/text"
)

const (
	// DefaultGeminiBaseURL is the public Generative Language REST root,
	// API version included.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"

	geminiGenerateMethod  = "generateContent"
	geminiMaxPages        = 20
	geminiPageSize        = 100
	maxErrorMessageLength = 512
)

var apiVersionSegment = regexp.MustCompile(`^v\d+[a-z0-9]*$`)

// Gemini talks to the Generative Language API through the genai SDK.
type Gemini struct {
	client          *genai.Client
	generateTimeout time.Duration
	listTimeout     time.Duration
	guard           *guard
}

// NewGemini creates a Gemini backend. The API key is required.
func NewGemini(cfg Config) (*Gemini, error) {
	if err := requireKey(ProviderGemini, cfg.APIKey); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultGeminiBaseURL
	}
	httpOpts, err := geminiHTTPOptions(base)
	if err != nil {
		return nil, &entity.ConfigurationError{Key: "GEMINI_BASE_URL", Message: err.Error()}
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client:          client,
		generateTimeout: cfg.GenerateTimeout,
		listTimeout:     cfg.ListTimeout,
		guard:           newGuard(ProviderGemini),
	}, nil
}

// geminiHTTPOptions splits a base URL such as ".../v1beta" into the SDK's
// root URL and API version. Without a version segment the SDK default is used.
func geminiHTTPOptions(base string) (genai.HTTPOptions, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return genai.HTTPOptions{}, fmt.Errorf("invalid base url %q", base)
	}
	var opts genai.HTTPOptions
	if i := strings.LastIndex(u.Path, "/"); i >= 0 && apiVersionSegment.MatchString(u.Path[i+1:]) {
		opts.APIVersion = u.Path[i+1:]
		u.Path = u.Path[:i]
	}
	opts.BaseURL = u.String() + "/"
	return opts, nil
}

// ListModels returns, in API order, every model whose supported actions
// include generateContent. Pages are followed until the listing ends.
func (g *Gemini) ListModels(ctx context.Context) ([]string, error) {
	return run(ctx, g.guard, "list_models", g.listTimeout, func(ctx context.Context) ([]string, error) {
		page, err := g.client.Models.List(ctx, &genai.ListModelsConfig{PageSize: geminiPageSize})
		if err != nil {
			return nil, geminiError("list models", err)
		}

		var models []string
		for pages := 1; ; pages++ {
			for _, m := range page.Items {
				if m != nil && slices.Contains(m.SupportedActions, geminiGenerateMethod) {
					models = append(models, m.Name)
				}
			}
			if page.NextPageToken == "" {
				return models, nil
			}
			if pages == geminiMaxPages {
				slog.WarnContext(ctx, "gemini model listing truncated",
					slog.Int("pages", geminiMaxPages),
					slog.Int("models", len(models)))
				return models, nil
			}
			page, err = page.Next(ctx)
			if errors.Is(err, genai.ErrPageDone) {
				return models, nil
			}
			if err != nil {
				return nil, geminiError("list models", err)
			}
		}
	})
}

// Generate runs prompt against model and returns the first candidate's text.
// Bare model names are qualified with "models/".
func (g *Gemini) Generate(ctx context.Context, prompt, model string) (string, error) {
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	out, err := run(ctx, g.guard, "generate", g.generateTimeout, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", geminiError("generate", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				return "", fmt.Errorf("gemini generate: %w (blocked: %s)", entity.ErrEmptyResponse, resp.PromptFeedback.BlockReason)
			}
			return "", fmt.Errorf("gemini generate: %w", entity.ErrEmptyResponse)
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	})
	if err != nil {
		return "", err
	}
	recordOutput(ProviderGemini, out)
	return out, nil
}

// geminiError turns SDK API errors into a BackendError carrying the HTTP
// status and a bounded message.
func geminiError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return geminiBackendError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return geminiBackendError(*apiErrPtr, err)
	}
	return fmt.Errorf("gemini %s: %w", op, err)
}

func geminiBackendError(apiErr genai.APIError, cause error) *entity.BackendError {
	msg := strings.TrimSpace(apiErr.Message)
	if msg == "" {
		msg = apiErr.Status
	}
	return &entity.BackendError{
		Backend:    ProviderGemini,
		StatusCode: apiErr.Code,
		Message:    text.Truncate(msg, maxErrorMessageLength),
		Err:        cause,
	}
}
