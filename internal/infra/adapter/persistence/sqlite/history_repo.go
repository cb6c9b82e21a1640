package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"daily-summary/internal/domain/entity"
	"daily-summary/internal/observability/metrics"
	"daily-summary/internal/repository"
)

// CreatedAtLayout is how created_at is stored: local report time, no zone.
const CreatedAtLayout = "2006-01-02 15:04:05"

type HistoryRepo struct {
	db  *sql.DB
	loc *time.Location
}

// NewHistoryRepo stores and reads created_at in loc (UTC when nil).
func NewHistoryRepo(db *sql.DB, loc *time.Location) repository.HistoryRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryRepo{db: db, loc: loc}
}

func (repo *HistoryRepo) Save(ctx context.Context, rec *entity.HistoryRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	meta, err := entity.EncodeMeta(rec.Meta)
	if err != nil {
		return 0, fmt.Errorf("Save: encode meta: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	const query = `
INSERT INTO history (created_at, lang, title, summary, send_email, send_telegram, meta)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	start := time.Now()
	res, err := repo.db.ExecContext(ctx, query,
		createdAt.In(repo.loc).Format(CreatedAtLayout),
		string(rec.Language),
		rec.Title,
		rec.Summary,
		boolToInt(rec.SentEmail),
		boolToInt(rec.SentTelegram),
		meta,
	)
	metrics.RecordDBQuery("insert_history", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("Save: ExecContext: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("Save: LastInsertId: %w", err)
	}
	rec.ID = id
	return id, nil
}

func (repo *HistoryRepo) List(ctx context.Context, limit int) ([]*entity.HistoryRecord, error) {
	if limit <= 0 {
		return nil, &entity.ValidationError{Field: "limit", Message: "limit must be positive"}
	}

	const query = `
SELECT id, created_at, lang, title, summary, send_email, send_telegram, meta
FROM history
ORDER BY id DESC
LIMIT ?`
	start := time.Now()
	rows, err := repo.db.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("list_history", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*entity.HistoryRecord, 0, limit)
	for rows.Next() {
		rec, err := repo.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return records, nil
}

func (repo *HistoryRepo) Get(ctx context.Context, id int64) (*entity.HistoryRecord, error) {
	const query = `
SELECT id, created_at, lang, title, summary, send_email, send_telegram, meta
FROM history
WHERE id = ?
LIMIT 1`
	start := time.Now()
	rec, err := repo.scan(repo.db.QueryRowContext(ctx, query, id))
	metrics.RecordDBQuery("get_history", time.Since(start))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (repo *HistoryRepo) scan(row scanner) (*entity.HistoryRecord, error) {
	var (
		rec       entity.HistoryRecord
		createdAt string
		lang      string
		meta      sql.NullString
	)
	if err := row.Scan(&rec.ID, &createdAt, &lang, &rec.Title, &rec.Summary,
		&rec.SentEmail, &rec.SentTelegram, &meta); err != nil {
		return nil, err
	}

	t, err := time.ParseInLocation(CreatedAtLayout, createdAt, repo.loc)
	if err != nil {
		// rows written by other tools may carry a zone
		if t, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q of record %d: %w", createdAt, rec.ID, err)
		}
	}
	rec.CreatedAt = t
	rec.Language = entity.Language(lang)

	if rec.Meta, err = entity.DecodeMeta(meta.String); err != nil {
		return nil, fmt.Errorf("decode meta of record %d: %w", rec.ID, err)
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
