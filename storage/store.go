// Package storage persists game snapshots in SQLite. Snapshots are stored
// as opaque JSON documents keyed by name; the snapshot itself remains the
// only persistence format.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	name          TEXT PRIMARY KEY,
	snapshot      TEXT NOT NULL,
	updated_at_ms INTEGER NOT NULL
);`

// ErrNotFound is returned when no save exists under the requested name.
var ErrNotFound = errors.New("save not found")

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// SaveInfo describes one stored snapshot.
type SaveInfo struct {
	Name      string
	UpdatedAt time.Time
}

// Open opens (creating if needed) the save database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put writes or replaces the snapshot stored under name.
func (s *Store) Put(ctx context.Context, name string, snapshot []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("save name is required")
	}
	if len(snapshot) == 0 {
		return fmt.Errorf("snapshot is empty")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (name, snapshot, updated_at_ms) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at_ms = excluded.updated_at_ms`,
		name, string(snapshot), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("write save %q: %w", name, err)
	}
	return nil
}

// Get returns the snapshot stored under name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM saves WHERE name = ?`, name).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read save %q: %w", name, err)
	}
	return []byte(snapshot), nil
}

// List returns all stored saves, most recently updated first.
func (s *Store) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, updated_at_ms FROM saves ORDER BY updated_at_ms DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var ms int64
		if err := rows.Scan(&info.Name, &ms); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saves: %w", err)
	}
	return out, nil
}

// Delete removes the save stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
