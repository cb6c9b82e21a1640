package metrics

import (
	"time"
)

// Summarization paths.
const (
	PathEmpty     = "empty"
	PathSingle    = "single"
	PathMapReduce = "map_reduce"
	// PathSetup labels runs that failed before a path was chosen, e.g. in
	// model selection.
	PathSetup = "setup"
)

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordSummarizeRun records the outcome of one summarization run.
// Path is one of the Path constants.
func RecordSummarizeRun(path string, success bool, duration time.Duration) {
	SummarizeRunsTotal.WithLabelValues(path, statusLabel(success)).Inc()
	SummarizeDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordChunkCount records how many chunks a document was split into.
func RecordChunkCount(n int) {
	SummarizeChunks.Observe(float64(n))
}

// RecordLanguage records the resolved output language and whether it was forced.
func RecordLanguage(language string, forced bool) {
	source := "detected"
	if forced {
		source = "forced"
	}
	SummarizeLanguageTotal.WithLabelValues(language, source).Inc()
}

// RecordCompression records one backend compression call.
func RecordCompression(mode string, success bool, duration time.Duration) {
	CompressionCallsTotal.WithLabelValues(mode, statusLabel(success)).Inc()
	CompressionDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordExtraction records an extraction attempt. Size is the text length in
// runes and is only observed on success.
//
// Example:
//
//	doc, err := extract.File(ctx, path)
//	metrics.RecordExtraction("pdf", err == nil, text.CountRunes(doc))
func RecordExtraction(kind string, success bool, size int) {
	ExtractionTotal.WithLabelValues(kind, statusLabel(success)).Inc()
	if success {
		ExtractionSize.WithLabelValues(kind).Observe(float64(size))
	}
}

// RecordHistoryWrite records the result of persisting a history record.
func RecordHistoryWrite(success bool) {
	HistoryRecordsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "insert_history", "list_history").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
