// Package storage persists time-log entries and drink counters in SQLite.
//
// The store only offers CRUD primitives. Which entry is "open" is decided by
// the session engine, not here.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xolan/chronos/internal/osutil"
)

// DatabaseFile is the default name of the SQLite database file.
const DatabaseFile = "chronos.db"

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (time_log without exported column)
// 1 - Added time_log.exported
const currentSchemaVersion = 1

// Store provides durable storage for time entries and drink counters.
type Store struct {
	db   *sql.DB
	path string
}

// GetStoragePath returns the default database path inside the chronos
// config directory. Creates the directory if it doesn't exist.
func GetStoragePath() (string, error) {
	return osutil.AppFile(DatabaseFile)
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The pool is limited to one connection, which serializes all writes
// (including concurrent counter increments) through SQLite itself.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, wrap("open", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, wrap("connect", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, wrap("pragmas", err)
	}

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, wrap("schema", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Reset drops every entry and counter and recreates the schema. The id
// sequence restarts at 1. A rotated backup is written first.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.Backup(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("reset", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DROP TABLE IF EXISTS time_log", "DROP TABLE IF EXISTS drinks"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return wrap("reset", err)
		}
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return wrap("reset", err)
	}
	return wrap("reset", tx.Commit())
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the exported column to databases created before it existed.
func migrateToV1(db *sql.DB) error {
	var hasColumn bool
	err := db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM pragma_table_info('time_log')
		WHERE name = 'exported'
	`).Scan(&hasColumn)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if hasColumn {
		return nil
	}

	if _, err := db.Exec(`ALTER TABLE time_log ADD COLUMN exported INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
