// Package notifier delivers finished reports to people: email through the
// SendGrid v3 API and chat through the Telegram Bot API.
//
// Each notifier owns its rate limiter and circuit breaker. Nothing is
// retried; a failed send is reported to the caller as is.
package notifier

import (
	"context"

	"daily-summary/internal/domain/entity"
)

// Channel names, used in logs, metrics and history records.
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

// Notifier sends one report message over a single channel.
type Notifier interface {
	// Name returns the channel name (ChannelEmail, ChannelTelegram).
	Name() string

	// IsEnabled reports whether the credentials and addresses the channel
	// needs are configured. Send on a disabled notifier returns a
	// ConfigurationError wrapping entity.ErrChannelDisabled.
	IsEnabled() bool

	Send(ctx context.Context, msg entity.Message) error
}
