// Package db persists researched products and scoring runs in SQLite.
package db

import (
	"database/sql"
	"fmt"

	"launchfast/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS products (
				asin       TEXT PRIMARY KEY,
				title      TEXT NOT NULL DEFAULT '',
				category   TEXT NOT NULL DEFAULT '',
				data       TEXT NOT NULL,
				updated_at TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE IF NOT EXISTS scores (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				asin         TEXT NOT NULL,
				grade        TEXT NOT NULL,
				score        REAL NOT NULL,
				breakdown    TEXT NOT NULL,
				context_id   TEXT NOT NULL,
				context_type TEXT NOT NULL,
				user_id      TEXT NOT NULL DEFAULT '',
				created_at   TEXT NOT NULL DEFAULT (datetime('now'))
			);
			CREATE INDEX IF NOT EXISTS idx_scores_asin ON scores(asin, created_at DESC);

			CREATE TABLE IF NOT EXISTS market_runs (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				market_grade   TEXT NOT NULL,
				total_products INTEGER NOT NULL,
				valid_products INTEGER NOT NULL,
				is_valid       INTEGER NOT NULL,
				result         TEXT NOT NULL,
				context_id     TEXT NOT NULL,
				context_type   TEXT NOT NULL,
				user_id        TEXT NOT NULL DEFAULT '',
				created_at     TEXT NOT NULL DEFAULT (datetime('now'))
			);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}
	return nil
}
