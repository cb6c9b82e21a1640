package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 5, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestConfig_Driver(t *testing.T) {
	tests := []struct {
		url      string
		expected Driver
	}{
		{url: "", expected: DriverSQLite},
		{url: "postgres://u:p@localhost:5432/reports", expected: DriverPostgres},
		{url: "POSTGRESQL://localhost/reports", expected: DriverPostgres},
		{url: "mysql://localhost/reports", expected: DriverSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, Config{DatabaseURL: tt.url}.Driver())
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "history.db?"+sqlitePragmas, sqliteDSN("history.db"))
	assert.Equal(t, "file:h.db?mode=rwc&"+sqlitePragmas, sqliteDSN("file:h.db?mode=rwc"))
}

func TestConnectionConfigFromEnv(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		verify func(t *testing.T, cfg ConnectionConfig)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			verify: func(t *testing.T, cfg ConnectionConfig) {
				assert.Equal(t, DefaultConnectionConfig(), cfg)
			},
		},
		{
			name: "all custom values",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "20",
				"DB_MAX_IDLE_CONNS":     "4",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "45m",
			},
			verify: func(t *testing.T, cfg ConnectionConfig) {
				assert.Equal(t, 20, cfg.MaxOpenConns)
				assert.Equal(t, 4, cfg.MaxIdleConns)
				assert.Equal(t, 2*time.Hour, cfg.ConnMaxLifetime)
				assert.Equal(t, 45*time.Minute, cfg.ConnMaxIdleTime)
			},
		},
		{
			name: "invalid values keep defaults",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "-1",
				"DB_MAX_IDLE_CONNS":     "abc",
				"DB_CONN_MAX_LIFETIME":  "0s",
				"DB_CONN_MAX_IDLE_TIME": "soon",
			},
			verify: func(t *testing.T, cfg ConnectionConfig) {
				assert.Equal(t, DefaultConnectionConfig(), cfg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(key, tt.env[key])
			}
			tt.verify(t, ConnectionConfigFromEnv())
		})
	}
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(context.Background(), Config{SQLitePath: path})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestOpen_EmptySQLitePath(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)
}

func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	db, err := Open(context.Background(), Config{DatabaseURL: dsn, Pool: DefaultConnectionConfig()})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NoError(t, db.PingContext(context.Background()))
}
