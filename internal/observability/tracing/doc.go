// Package tracing wires OpenTelemetry spans into the summarization pipeline.
//
// A summarization run opens a "summarize" root span; each backend call made
// while compressing opens a "compress" child span carrying the mode and the
// chunk position. Exporters are not configured here: callers install a
// TracerProvider with otel.SetTracerProvider.
package tracing
