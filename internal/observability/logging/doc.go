// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. A run ID generated per summarization
// or delivery run travels in the context and is attached to every entry
// logged through FromContext.
//
// Example usage:
//
//	logger := logging.New(logging.Options{Level: "debug", Format: "text"})
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRunID(ctx, "")
//	logging.FromContext(ctx).InfoContext(ctx, "summarizing")
package logging
