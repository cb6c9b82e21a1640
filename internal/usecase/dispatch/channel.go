// Package dispatch sends a finished report to the channels a user selected.
//
// Channels are tried one after another, email first, and the first failure
// stops the run. Callers learn which channels already delivered so they can
// tell the user what went out.
package dispatch

import (
	"context"

	"daily-summary/internal/domain/entity"
)

// Channel is a delivery channel. The notifiers in internal/infra/notifier
// implement it.
type Channel interface {
	// Name returns the channel identifier ("email", "telegram").
	Name() string

	// IsEnabled reports whether the channel has the settings it needs.
	IsEnabled() bool

	// Send delivers msg. A disabled channel returns a ConfigurationError
	// wrapping entity.ErrChannelDisabled without touching the network.
	Send(ctx context.Context, msg entity.Message) error
}
