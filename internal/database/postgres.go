package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Dialect names the SQL flavour spoken by the configured store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS favorites (
		id           SERIAL      PRIMARY KEY,
		label        TEXT        NOT NULL,
		url          TEXT        NOT NULL,
		remote_id    TEXT        NOT NULL DEFAULT '',
		is_default   BOOLEAN     NOT NULL DEFAULT FALSE,
		is_activated BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Connect opens the store for the given dialect, verifies connectivity,
// initialises the schema, and returns the ready-to-use *sql.DB.
func Connect(dialect Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case DialectPostgres:
		return connectPostgres(dsn)
	case DialectSQLite:
		return connectSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", dialect)
	}
}

func connectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Connection pool defaults, normally these values could be made configurable in production.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err := initSchema(db, postgresSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB, schema string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}
