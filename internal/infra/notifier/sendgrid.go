package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/resilience/circuitbreaker"
	"daily-summary/internal/utils/text"
)

// DefaultSendGridBaseURL is the public SendGrid API root.
const DefaultSendGridBaseURL = "https://api.sendgrid.com"

const (
	sendGridMailPath  = "/v3/mail/send"
	maxErrorBodyRunes = 1024
)

// SendGridConfig contains configuration for the SendGrid email channel.
type SendGridConfig struct {
	APIKey string

	// From is the sender address; replies go to it as well.
	From string

	// To lists the recipients; all of them receive the same message.
	To []string

	// BaseURL overrides DefaultSendGridBaseURL (tests, EU data residency).
	BaseURL string

	Timeout time.Duration

	HTTPClient *http.Client
}

// SendGridNotifier sends reports as email through the SendGrid v3 mail API.
type SendGridNotifier struct {
	config         SendGridConfig
	client         *rest.Client
	rateLimiter    *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	markdown       goldmark.Markdown
}

// NewSendGridNotifier creates the email notifier. Missing settings are only
// reported when Send is called.
func NewSendGridNotifier(cfg SendGridConfig) *SendGridNotifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultSendGridBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &SendGridNotifier{
		config:         cfg,
		client:         &rest.Client{HTTPClient: client},
		rateLimiter:    NewRateLimiter(1.0, 5),
		circuitBreaker: newBreaker(circuitbreaker.EmailConfig()),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (s *SendGridNotifier) Name() string { return ChannelEmail }

func (s *SendGridNotifier) IsEnabled() bool {
	return s.missingSetting() == ""
}

func (s *SendGridNotifier) CircuitBreakerOpen() bool { return s.circuitBreaker.IsOpen() }

func (s *SendGridNotifier) missingSetting() string {
	switch {
	case strings.TrimSpace(s.config.APIKey) == "":
		return "SENDGRID_API_KEY"
	case strings.TrimSpace(s.config.From) == "":
		return "EMAIL_FROM"
	case len(s.config.To) == 0:
		return "EMAIL_TO"
	}
	return ""
}

type sendGridErrorResponse struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"errors"`
}

// buildMail renders msg as one personalization addressed to every
// recipient, with a plain-text part and a Markdown-rendered HTML part.
func (s *SendGridNotifier) buildMail(msg entity.Message) (*mail.SGMailV3, error) {
	var htmlBody bytes.Buffer
	if err := s.markdown.Convert([]byte(msg.Body), &htmlBody); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	recipients := mail.NewPersonalization()
	for _, addr := range s.config.To {
		recipients.AddTos(mail.NewEmail("", addr))
	}

	from := mail.NewEmail("", strings.TrimSpace(s.config.From))
	m := mail.NewV3Mail()
	m.SetFrom(from)
	m.SetReplyTo(from)
	m.Subject = msg.Subject
	m.AddPersonalizations(recipients)
	m.AddContent(
		mail.NewContent("text/plain", msg.Body),
		mail.NewContent("text/html", htmlBody.String()),
	)
	return m, nil
}

// Send emails msg to all recipients. 200, 201 and 202 are success; any
// other status becomes a BackendError.
func (s *SendGridNotifier) Send(ctx context.Context, msg entity.Message) error {
	if key := s.missingSetting(); key != "" {
		return disabledError(key)
	}

	ctx, requestID := withRequestID(ctx)
	if err := waitForLimiter(ctx, s.rateLimiter, ChannelEmail, requestID); err != nil {
		return err
	}

	m, err := s.buildMail(msg)
	if err != nil {
		return err
	}

	_, err = circuitbreaker.Do(s.circuitBreaker, func() (struct{}, error) {
		return struct{}{}, s.post(ctx, m)
	})
	err = openCircuitError("sendgrid", err)
	if err != nil {
		slog.ErrorContext(ctx, "email send failed",
			slog.String("request_id", requestID),
			slog.Int("recipients", len(s.config.To)),
			slog.Any("error", err))
		return err
	}

	slog.InfoContext(ctx, "email sent",
		slog.String("request_id", requestID),
		slog.Int("recipients", len(s.config.To)),
		slog.String("subject", msg.Subject))
	return nil
}

func (s *SendGridNotifier) post(ctx context.Context, m *mail.SGMailV3) error {
	request := sendgrid.GetRequest(s.config.APIKey, sendGridMailPath, s.config.BaseURL)
	request.Method = rest.Post
	request.Headers["Content-Type"] = "application/json"
	request.Body = mail.GetRequestBody(m)

	resp, err := s.client.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	}

	message := strings.TrimSpace(resp.Body)
	var apiErr sendGridErrorResponse
	if json.Unmarshal([]byte(resp.Body), &apiErr) == nil && len(apiErr.Errors) > 0 {
		parts := make([]string, 0, len(apiErr.Errors))
		for _, e := range apiErr.Errors {
			parts = append(parts, e.Message)
		}
		message = strings.Join(parts, "; ")
	}
	return &entity.BackendError{
		Backend:    "sendgrid",
		StatusCode: resp.StatusCode,
		Message:    text.Truncate(message, maxErrorBodyRunes),
	}
}
