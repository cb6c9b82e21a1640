package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/resilience/circuitbreaker"
	"daily-summary/internal/utils/text"
)

// MaxTelegramMessageRunes is the Bot API limit for one text message.
const MaxTelegramMessageRunes = 4096

// TelegramConfig contains configuration for the Telegram chat channel.
type TelegramConfig struct {
	BotToken string

	// ChatID is a numeric chat id or a public channel username ("@ops").
	ChatID string

	// APIEndpoint is a format string taking the token and the method,
	// tgbotapi.APIEndpoint when empty.
	APIEndpoint string

	Timeout time.Duration

	HTTPClient *http.Client
}

// TelegramNotifier sends reports as Telegram messages. The bot client is
// created on the first send, since creating it calls getMe.
type TelegramNotifier struct {
	config         TelegramConfig
	httpClient     *http.Client
	rateLimiter    *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier creates the chat notifier without contacting Telegram.
func NewTelegramNotifier(cfg TelegramConfig) *TelegramNotifier {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &TelegramNotifier{
		config:         cfg,
		httpClient:     client,
		rateLimiter:    NewRateLimiter(1.0, 3), // ~1 msg/s per chat
		circuitBreaker: newBreaker(circuitbreaker.ChatConfig()),
	}
}

func (t *TelegramNotifier) Name() string { return ChannelTelegram }

func (t *TelegramNotifier) IsEnabled() bool {
	return t.missingSetting() == ""
}

// CircuitBreakerOpen reports whether sends are currently short-circuited.
func (t *TelegramNotifier) CircuitBreakerOpen() bool { return t.circuitBreaker.IsOpen() }

func (t *TelegramNotifier) missingSetting() string {
	switch {
	case strings.TrimSpace(t.config.BotToken) == "":
		return "TELEGRAM_BOT_TOKEN"
	case strings.TrimSpace(t.config.ChatID) == "":
		return "TELEGRAM_CHAT_ID"
	}
	return ""
}

// buildMessage addresses text to the configured chat with link previews off.
func (t *TelegramNotifier) buildMessage(body string) (tgbotapi.MessageConfig, error) {
	chat := strings.TrimSpace(t.config.ChatID)
	body = text.TruncateWithSuffix(body, MaxTelegramMessageRunes, truncationSuffix)

	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, body)
	} else if strings.HasPrefix(chat, "@") && len(chat) > 1 {
		msg = tgbotapi.NewMessageToChannel(chat, body)
	} else {
		return msg, &entity.ConfigurationError{
			Key:     "TELEGRAM_CHAT_ID",
			Message: fmt.Sprintf("%q is neither a numeric chat id nor an @channel name", chat),
		}
	}
	msg.DisableWebPagePreview = true
	return msg, nil
}

func (t *TelegramNotifier) botAPI() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.config.BotToken, t.config.APIEndpoint, t.httpClient)
	if err != nil {
		return nil, telegramError("create bot", err)
	}
	t.bot = bot
	return bot, nil
}

// Send posts msg.Body to the chat. Bodies longer than the Bot API limit are
// truncated with "...".
func (t *TelegramNotifier) Send(ctx context.Context, msg entity.Message) error {
	if key := t.missingSetting(); key != "" {
		return disabledError(key)
	}

	tgMsg, err := t.buildMessage(msg.Body)
	if err != nil {
		return err
	}

	ctx, requestID := withRequestID(ctx)
	if err := waitForLimiter(ctx, t.rateLimiter, ChannelTelegram, requestID); err != nil {
		return err
	}

	sent, err := circuitbreaker.Do(t.circuitBreaker, func() (tgbotapi.Message, error) {
		if err := ctx.Err(); err != nil {
			return tgbotapi.Message{}, err
		}
		bot, err := t.botAPI()
		if err != nil {
			return tgbotapi.Message{}, err
		}
		out, err := bot.Send(tgMsg)
		if err != nil {
			return out, telegramError("send message", err)
		}
		return out, nil
	})
	err = openCircuitError("telegram", err)
	if err != nil {
		slog.ErrorContext(ctx, "telegram send failed",
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return err
	}

	slog.InfoContext(ctx, "telegram message sent",
		slog.String("request_id", requestID),
		slog.Int("message_id", sent.MessageID))
	return nil
}

// telegramError maps Bot API rejections to BackendError. Transport failures
// are wrapped unchanged.
func telegramError(op string, err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &entity.BackendError{
			Backend:    "telegram",
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return fmt.Errorf("telegram %s: %w", op, err)
}
