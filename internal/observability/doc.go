// Package observability groups the logging, metrics and tracing helpers
// shared by the CLI and the worker.
//
// Subpackages:
//   - logging: slog construction and run ID propagation
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry spans for the summarization pipeline
package observability
