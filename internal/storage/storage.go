// Package storage provides session-scoped key-value backends.
//
// Each backend stores opaque byte values under string keys. Callers own
// serialization; see package persist for the typed write-through layer.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrInvalidKey is returned for keys that are empty or contain path characters.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a key-value medium scoped to one session.
type Storage interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set stores value at key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns all stored keys in lexical order.
	Keys() ([]string, error)
	// Close releases backend resources.
	Close() error
}

// Open returns the named backend rooted at dir. dbName is the sqlite file
// name inside dir and is ignored by the other backends.
func Open(backend, dir, dbName string) (Storage, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(dir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, dbName))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// ValidateKey checks that key is usable by every backend.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\:`) || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
