package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS favorites (
		id           INTEGER  PRIMARY KEY AUTOINCREMENT,
		label        TEXT     NOT NULL,
		url          TEXT     NOT NULL,
		remote_id    TEXT     NOT NULL DEFAULT '',
		is_default   BOOLEAN  NOT NULL DEFAULT 0,
		is_activated BOOLEAN  NOT NULL DEFAULT 1,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// connectSQLite opens an embedded database file, or ":memory:" for a
// throwaway store. A single connection is used so that an in-memory
// database is shared by every query.
func connectSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := initSchema(db, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
