package store

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Backend is the durable key/value layer under Persistence. Each Write
// replaces the whole value for a key or fails without changing it.
type Backend interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Erase(key string) error
	Close() error
}

// watchable backends can report the directory to watch for writes made by
// other processes and which key a changed path belongs to.
type watchable interface {
	WatchDir() string
	KeyForPath(path string) (key string, ok bool)
}

// MemoryBackend keeps records in memory. Useful for tests and dry runs.
type MemoryBackend struct {
	mu     sync.Mutex
	data   map[string][]byte
	writes int

	// FailWrites makes every Write fail with this error when set.
	FailWrites error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Write(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *MemoryBackend) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

// Writes returns the number of successful writes.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Keys returns the stored keys, sorted.
func (m *MemoryBackend) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
