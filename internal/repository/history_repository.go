package repository

import (
	"context"

	"daily-summary/internal/domain/entity"
)

// HistoryRepository is the append-only log of sent reports.
type HistoryRepository interface {
	// Save inserts rec and returns its new id. Records are never updated.
	Save(ctx context.Context, rec *entity.HistoryRecord) (int64, error)

	// List returns at most limit records, newest (highest id) first.
	List(ctx context.Context, limit int) ([]*entity.HistoryRecord, error)

	// Get returns the record with id, or nil and no error when absent.
	Get(ctx context.Context, id int64) (*entity.HistoryRecord, error)
}
