// internal/adapters/out/db/state_storage_sqlite.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// StateStorageSQLite is a store.Storage backed by a single SQLite table.
//
//	state_kv(key TEXT PRIMARY KEY, value BLOB, updated_at TEXT)
type StateStorageSQLite struct {
	DB *sql.DB
}

// OpenStateStorageSQLite opens (and migrates) the database at path.
// path ":memory:" is accepted for tests.
func OpenStateStorageSQLite(ctx context.Context, path string) (*StateStorageSQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("db: sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("db: mkdir for %s: %w", path, err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db: open sqlite %s: %w", path, err)
	}
	// single writer; also keeps ":memory:" on one connection
	conn.SetMaxOpenConns(1)

	s := &StateStorageSQLite{DB: conn}
	if err := s.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *StateStorageSQLite) migrate(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS state_kv (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
)`
	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("db: migrate state_kv: %w", err)
	}
	return nil
}

func (s *StateStorageSQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM state_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("db: get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *StateStorageSQLite) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO state_kv (key, value, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.DB.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("db: set %s: %w", key, err)
	}
	return nil
}

func (s *StateStorageSQLite) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
