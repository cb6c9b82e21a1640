package notifier

import (
	"context"
	"log/slog"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/utils/text"
)

// NoOpNotifier stands in for a real channel during dry runs. It logs what
// would have been sent and always succeeds.
type NoOpNotifier struct {
	name string
}

// NewNoOpNotifier returns a dry-run notifier reporting itself as channel name.
func NewNoOpNotifier(name string) *NoOpNotifier {
	return &NoOpNotifier{name: name}
}

func (n *NoOpNotifier) Name() string { return n.name }

func (n *NoOpNotifier) IsEnabled() bool { return true }

// Send logs the message and returns nil.
func (n *NoOpNotifier) Send(ctx context.Context, msg entity.Message) error {
	slog.InfoContext(ctx, "dry run: message not sent",
		slog.String("channel", n.name),
		slog.String("subject", msg.Subject),
		slog.Int("body_runes", text.CountRunes(msg.Body)))
	return nil
}
