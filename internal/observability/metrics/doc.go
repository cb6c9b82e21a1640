// Package metrics provides Prometheus metrics registry and recording utilities.
//
// Metrics cover the summarization pipeline (runs, chunks, compression calls),
// content extraction and the history store. They are registered with the
// Prometheus default registry and exposed by the worker's /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	summary, err := svc.Summarize(ctx, raw, entity.LanguageAuto)
//	metrics.RecordSummarizeRun(metrics.PathSingle, err == nil, time.Since(start))
package metrics
