package inkwell

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// ErrSettingNotFound is returned when a settings key has never been written.
var ErrSettingNotFound = errors.New("inkwell: setting not found")

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

// Store wraps a SQLite database holding site-wide settings.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI write settings while the server reads them; writers
	// wait on busy_timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// migrate applies incremental schema migrations based on a version stored in the settings table.
func (s *Store) migrate(ctx context.Context) error {
	version := 0
	verStr, err := s.GetSetting(ctx, "schema_version")
	switch {
	case errors.Is(err, ErrSettingNotFound):
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	default:
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}

	if version < currentSchemaVersion {
		version = currentSchemaVersion
	}
	return s.SetSetting(ctx, "schema_version", strconv.Itoa(version))
}

// GetSetting retrieves a setting value by key. Returns ErrSettingNotFound
// when the key has never been set.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SettingStore exposes one settings key as a theme.Store.
type SettingStore struct {
	Store *Store
	Key   string
}

// Load returns the stored value, or "" when the key was never written.
func (s SettingStore) Load(ctx context.Context) (string, error) {
	v, err := s.Store.GetSetting(ctx, s.Key)
	if errors.Is(err, ErrSettingNotFound) {
		return "", nil
	}
	return v, err
}

// Save writes the value.
func (s SettingStore) Save(ctx context.Context, value string) error {
	return s.Store.SetSetting(ctx, s.Key, value)
}
