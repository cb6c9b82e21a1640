package entity

import (
	"strings"
	"time"
)

// HistoryRecord is one entry of the append-only send log.
type HistoryRecord struct {
	ID           int64
	CreatedAt    time.Time
	Language     Language
	Title        string
	Summary      string
	SentEmail    bool
	SentTelegram bool
	Meta         SummaryMeta
}

// Validate checks the fields a record must carry before it is persisted.
func (r *HistoryRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(r.Summary) == "" {
		return &ValidationError{Field: "summary", Message: "summary is required"}
	}
	if !r.Language.IsKnown() {
		return &ValidationError{Field: "language", Message: "language must be en or zh"}
	}
	if !r.SentEmail && !r.SentTelegram {
		return &ValidationError{Field: "channels", Message: "at least one channel must have been sent"}
	}
	return nil
}
