// Package storage persists display preferences in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"finboard/internal/log"
)

// SQLiteStore is a key-value preference store backed by SQLite.
type SQLiteStore struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

// NewSQLiteStore opens (creating when needed) the database at dbPath and
// applies migrations.
func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Info("Preference store ready", "path", dbPath, "schema_version", version)
	return &SQLiteStore{db: db, queries: New(db), logger: logger}, nil
}

// Get implements prefs.Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	p, err := s.queries.GetPreference(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return p.Value, true, nil
}

// Set implements prefs.Store.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if err := s.queries.UpsertPreference(ctx, key, value); err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Preference saved", "key", key, "value", value)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if err := s.queries.DeletePreference(ctx, key); err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}

// All returns every stored preference ordered by key.
func (s *SQLiteStore) All(ctx context.Context) ([]Preference, error) {
	items, err := s.queries.ListPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return items, nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
