// Package storage provides the durable key-value stores the session and
// gallery layers persist into. Keys are slash-separated paths such as
// "gallery/images/<owner>".
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value slot.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys returns every stored key beginning with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// PersistenceError wraps a storage read or write failure so callers can
// distinguish it from validation or auth failures.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Open returns the store selected by backend: "file" (default),
// "sqlite" or "memory".
func Open(backend, dataDir, sqlitePath string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dataDir)
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (supported: file, sqlite, memory)", backend)
	}
}
