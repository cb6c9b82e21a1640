package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/infra/notifier"
	"daily-summary/internal/observability/logging"
	"daily-summary/internal/observability/tracing"
)

// Selection names the channels a report should go to.
type Selection struct {
	Email    bool
	Telegram bool
}

// Any reports whether at least one channel is selected.
func (s Selection) Any() bool {
	return s.Email || s.Telegram
}

// names lists the selected channels in send order.
func (s Selection) names() []string {
	var out []string
	if s.Email {
		out = append(out, notifier.ChannelEmail)
	}
	if s.Telegram {
		out = append(out, notifier.ChannelTelegram)
	}
	return out
}

// Result lists the channels that delivered the message.
type Result struct {
	Email    bool
	Telegram bool
}

func (r *Result) mark(channel string) {
	switch channel {
	case notifier.ChannelEmail:
		r.Email = true
	case notifier.ChannelTelegram:
		r.Telegram = true
	}
}

// Service sends messages through the registered channels.
type Service struct {
	channels map[string]Channel
}

// NewService registers channels by name. A later channel with the same
// name replaces an earlier one.
func NewService(channels ...Channel) *Service {
	svc := &Service{channels: make(map[string]Channel, len(channels))}
	enabled := 0
	for _, ch := range channels {
		svc.channels[ch.Name()] = ch
	}
	for _, ch := range svc.channels {
		if ch.IsEnabled() {
			enabled++
		}
	}
	SetChannelsEnabled(float64(enabled))
	return svc
}

// Enabled returns the selection of every configured channel.
func (s *Service) Enabled() Selection {
	return Selection{
		Email:    s.isEnabled(notifier.ChannelEmail),
		Telegram: s.isEnabled(notifier.ChannelTelegram),
	}
}

// ChannelStatus is the health of one registered channel.
type ChannelStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
}

// breakerState is implemented by channels guarded by a circuit breaker.
type breakerState interface {
	CircuitBreakerOpen() bool
}

// ChannelHealth reports every registered channel in send order.
func (s *Service) ChannelHealth() []ChannelStatus {
	out := make([]ChannelStatus, 0, len(s.channels))
	for _, name := range (Selection{Email: true, Telegram: true}).names() {
		ch, ok := s.channels[name]
		if !ok {
			continue
		}
		status := ChannelStatus{Name: name, Enabled: ch.IsEnabled()}
		if b, ok := ch.(breakerState); ok {
			status.CircuitBreakerOpen = b.CircuitBreakerOpen()
		}
		out = append(out, status)
	}
	return out
}

func (s *Service) isEnabled(name string) bool {
	ch, ok := s.channels[name]
	return ok && ch.IsEnabled()
}

// Dispatch sends msg to the selected channels, email first. It stops at the
// first failure; the returned Result still lists channels that had already
// delivered. An empty selection is a ValidationError.
func (s *Service) Dispatch(ctx context.Context, msg entity.Message, sel Selection) (Result, error) {
	var result Result
	if !sel.Any() {
		return result, &entity.ValidationError{Field: "channels", Message: "select at least one channel"}
	}

	ctx, span := tracing.StartSpan(ctx, "dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("dispatch.email", sel.Email),
		attribute.Bool("dispatch.telegram", sel.Telegram),
	)

	logger := logging.FromContext(ctx)
	names := sel.names()
	for i, name := range names {
		err := s.send(ctx, name, msg)
		if err == nil {
			result.mark(name)
			continue
		}

		for _, skipped := range names[i+1:] {
			RecordDropped(skipped, "earlier_failure")
		}
		logger.Error("dispatch stopped",
			slog.String("channel", name),
			slog.Bool("email_sent", result.Email),
			slog.Bool("telegram_sent", result.Telegram),
			slog.Any("error", err))
		tracing.RecordError(span, err)
		return result, fmt.Errorf("send %s: %w", name, err)
	}

	logger.Info("dispatch completed",
		slog.Bool("email_sent", result.Email),
		slog.Bool("telegram_sent", result.Telegram))
	return result, nil
}

func (s *Service) send(ctx context.Context, name string, msg entity.Message) error {
	ch, ok := s.channels[name]
	if !ok {
		RecordDropped(name, "disabled")
		return &entity.ConfigurationError{
			Key:     name,
			Message: "no notifier registered for channel",
			Err:     entity.ErrChannelDisabled,
		}
	}

	RecordDispatch(name)
	start := time.Now()
	err := ch.Send(ctx, msg)
	switch {
	case err == nil:
		RecordSuccess(name, time.Since(start))
	case errors.Is(err, entity.ErrChannelDisabled):
		RecordDropped(name, "disabled")
	default:
		RecordFailure(name, time.Since(start))
	}
	return err
}
