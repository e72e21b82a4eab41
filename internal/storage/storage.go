// Package storage provides the small durable key-value store the editor keeps
// its history and preferences in.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("storage: key not found")

// KV is a string key-value store. Values are replaced wholesale by Set.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Open returns the backend named by kind rooted at dir. Supported kinds are
// "file" (the default) and "sqlite".
func Open(kind, dir string) (KV, error) {
	switch kind {
	case "", "file":
		f, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "sqlite":
		db, err := OpenSQLite(filepath.Join(dir, "memeforge.db"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, errors.New("storage: unknown backend " + kind)
	}
}

// DefaultDir returns the directory used for persisted data when none is
// configured.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "memeforge")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "memeforge")
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}
