package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

const tempDirName = ".tmp"

type diskvBackend struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvBackend stores one file per key directly under basePath. Writes go
// through a temp file and a rename so a record is never half written.
func NewDiskvBackend(basePath string) (Backend, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	tmp := filepath.Join(basePath, tempDirName)
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure temp dir: %w", err)
	}
	return &diskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      tmp,
			Transform:    flatTransform,
			CacheSizeMax: 0, // another process may rewrite the same files
		}),
		basePath: basePath,
	}, nil
}

func flatTransform(string) []string {
	return []string{}
}

func (b *diskvBackend) Read(key string) ([]byte, error) {
	val, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (b *diskvBackend) Write(key string, value []byte) error {
	return b.d.Write(key, value)
}

func (b *diskvBackend) Erase(key string) error {
	if err := b.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *diskvBackend) Close() error {
	return nil
}

func (b *diskvBackend) WatchDir() string {
	return b.basePath
}

func (b *diskvBackend) KeyForPath(path string) (string, bool) {
	rel, err := filepath.Rel(b.basePath, path)
	if err != nil || rel == "." {
		return "", false
	}
	key := filepath.Base(rel)
	if key != rel {
		// Inside a subdirectory such as the temp dir.
		return "", false
	}
	return key, isKnownKey(key)
}
