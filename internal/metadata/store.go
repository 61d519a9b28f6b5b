// Package metadata keeps a small SQLite record per VM bundle: where a
// bundle came from and when we created it. Records are keyed by bundle
// path and removed together with the bundle.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record exists for a bundle path.
var ErrNotFound = errors.New("metadata: entry not found")

// Entry is the metadata recorded for one VM bundle.
type Entry struct {
	BundlePath string    `json:"bundle_path" yaml:"bundle_path"`
	Name       string    `json:"name" yaml:"name"`
	ClonedFrom string    `json:"cloned_from,omitempty" yaml:"cloned_from,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Store is a SQLite-backed metadata store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the metadata database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open metadata database: %w", err)
	}
	// One connection serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure metadata database: %w", err)
	}

	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, applying pending migrations.
func New(db *sql.DB) (*Store, error) {
	m := NewMigrator(db)
	for _, migration := range migrations() {
		m.AddMigration(migration)
	}
	if err := m.RunMigrations(); err != nil {
		return nil, fmt.Errorf("migrate metadata database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts or replaces the entry for e.BundlePath. A zero CreatedAt
// is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vm_metadata (bundle_path, name, cloned_from, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(bundle_path) DO UPDATE SET
			name = excluded.name,
			cloned_from = excluded.cloned_from,
			created_at = excluded.created_at
	`, e.BundlePath, e.Name, e.ClonedFrom, e.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record metadata for %s: %w", e.BundlePath, err)
	}
	return nil
}

// Get returns the entry for bundlePath, or ErrNotFound.
func (s *Store) Get(ctx context.Context, bundlePath string) (Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT bundle_path, name, cloned_from, created_at
		FROM vm_metadata WHERE bundle_path = ?
	`, bundlePath).Scan(&e.BundlePath, &e.Name, &e.ClonedFrom, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("bundle %s: %w", bundlePath, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get metadata for %s: %w", bundlePath, err)
	}
	return e, nil
}

// Delete removes the entry for bundlePath. Deleting a missing entry is not
// an error.
func (s *Store) Delete(ctx context.Context, bundlePath string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM vm_metadata WHERE bundle_path = ?", bundlePath); err != nil {
		return fmt.Errorf("delete metadata for %s: %w", bundlePath, err)
	}
	return nil
}

// List returns every entry ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bundle_path, name, cloned_from, created_at
		FROM vm_metadata ORDER BY name, bundle_path
	`)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.BundlePath, &e.Name, &e.ClonedFrom, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
