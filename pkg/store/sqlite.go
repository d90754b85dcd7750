package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteFile   = "taskflow.db"
	sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
)

type sqliteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend stores records in basePath/taskflow.db.
func NewSQLiteBackend(basePath string) (Backend, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	path := filepath.Join(basePath, sqliteFile)
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init sqlite schema: %w", err)
	}
	return &sqliteBackend{db: db, path: path}, nil
}

func (b *sqliteBackend) Read(key string) ([]byte, error) {
	var val []byte
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (b *sqliteBackend) Write(key string, value []byte) error {
	_, err := b.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

func (b *sqliteBackend) Erase(key string) error {
	_, err := b.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}

func (b *sqliteBackend) WatchDir() string {
	return filepath.Dir(b.path)
}

// KeyForPath maps any change to the database (or its journal) to an empty
// key, which callers treat as "reload everything".
func (b *sqliteBackend) KeyForPath(path string) (string, bool) {
	if strings.HasPrefix(filepath.Base(path), sqliteFile) {
		return "", true
	}
	return "", false
}
