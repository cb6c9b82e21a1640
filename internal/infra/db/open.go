// Package db opens the history database and manages its schema.
//
// SQLite (modernc.org/sqlite, no cgo) is the default. When a PostgreSQL URL
// is configured the pgx stdlib driver is used instead.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	env "daily-summary/pkg/config"
)

// Driver is a database/sql driver name.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "pgx"
)

// sqlitePragmas are applied to every SQLite connection. modernc.org/sqlite
// takes each pragma as a _pragma query parameter.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(0)"

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the PostgreSQL pool defaults. A history
// store is written once a day, so the pool is small.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Config selects and locates the history database.
type Config struct {
	// DatabaseURL, when it is a postgres:// or postgresql:// URL, selects
	// PostgreSQL.
	DatabaseURL string

	// SQLitePath is the SQLite file used otherwise.
	SQLitePath string

	Pool ConnectionConfig
}

// Driver reports which driver Open will use.
func (c Config) Driver() Driver {
	u := strings.ToLower(strings.TrimSpace(c.DatabaseURL))
	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Open opens and pings the configured database.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	driver := cfg.Driver()

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverPostgres:
		db, err = sql.Open(string(DriverPostgres), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Pool.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.Pool.ConnMaxIdleTime)
	default:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, fmt.Errorf("open sqlite: empty database path")
		}
		db, err = sql.Open(string(DriverSQLite), sqliteDSN(cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		// one writer; WAL lets readers proceed
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	slog.InfoContext(ctx, "history database opened",
		slog.String("driver", string(driver)),
		slog.Int("max_open_conns", db.Stats().MaxOpenConnections))
	return db, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// ConnectionConfigFromEnv reads pool overrides from DB_MAX_OPEN_CONNS,
// DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME.
// Invalid or non-positive values keep the defaults.
func ConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()

	if val := env.GetEnvInt("DB_MAX_OPEN_CONNS", 0); val > 0 {
		cfg.MaxOpenConns = val
	}
	if val := env.GetEnvInt("DB_MAX_IDLE_CONNS", 0); val > 0 {
		cfg.MaxIdleConns = val
	}
	if val := env.GetEnvDuration("DB_CONN_MAX_LIFETIME", 0); val > 0 {
		cfg.ConnMaxLifetime = val
	}
	if val := env.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 0); val > 0 {
		cfg.ConnMaxIdleTime = val
	}

	return cfg
}
