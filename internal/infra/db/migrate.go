package db

import (
	"context"
	"database/sql"
	"fmt"
)

// The SQLite layout is the one earlier releases wrote, so existing history
// files open unchanged. created_at is local report time as
// "YYYY-MM-DD HH:MM:SS".
const sqliteHistorySchema = `
CREATE TABLE IF NOT EXISTS history (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at    TEXT NOT NULL,
    lang          TEXT NOT NULL,
    title         TEXT NOT NULL,
    summary       TEXT NOT NULL,
    send_email    INTEGER NOT NULL,
    send_telegram INTEGER NOT NULL,
    meta          TEXT
)`

const postgresHistorySchema = `
CREATE TABLE IF NOT EXISTS history (
    id            BIGSERIAL PRIMARY KEY,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    lang          TEXT NOT NULL,
    title         TEXT NOT NULL,
    summary       TEXT NOT NULL,
    send_email    BOOLEAN NOT NULL,
    send_telegram BOOLEAN NOT NULL,
    meta          JSONB
)`

// MigrateUp creates the history table (and its indexes) if missing.
func MigrateUp(ctx context.Context, db *sql.DB, driver Driver) error {
	statements := []string{sqliteHistorySchema}
	if driver == DriverPostgres {
		statements = []string{
			postgresHistorySchema,
			`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at DESC)`,
		}
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up (%s): %w", driver, err)
		}
	}
	return nil
}

// MigrateDown drops the history table. All history is lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS history`); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}
