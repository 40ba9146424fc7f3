// Package database opens the credential store and carries transactions through contexts.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Accepted DB_DRIVER values. pgx and postgres share the PostgreSQL schema.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
)

// Migration dialects, named after the directories under migrations/.
const (
	DialectPostgreSQL = "postgresql"
	DialectMySQL      = "mysql"
)

var dialects = map[string]string{
	DriverPostgres: DialectPostgreSQL,
	DriverPgx:      DialectPostgreSQL,
	DriverMySQL:    DialectMySQL,
}

// Dialect returns the SQL dialect spoken by driver.
func Dialect(driver string) (string, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return "", fmt.Errorf("unsupported database driver: %q", driver)
	}
	return dialect, nil
}

// IsPostgres reports whether driver talks to PostgreSQL.
func IsPostgres(driver string) bool {
	return dialects[driver] == DialectPostgreSQL
}

// Config describes the connection pool.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	// PingTimeout bounds the first round trip. Zero means 5s.
	PingTimeout time.Duration
}

// Open returns a pool that has answered one ping. A database that cannot be
// reached is reported as ErrStoreUnavailable.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if _, err := Dialect(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, WrapError(err, "ping "+cfg.Driver)
	}
	return db, nil
}
