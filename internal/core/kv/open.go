package kv

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open returns the store for backend. For sqlite, path is the database file;
// for file, it is the directory holding the records. An empty backend means
// sqlite.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendSQLite:
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("creating data dir: %w", err)
			}
		}
		return NewSQLite(path)
	case BackendFile:
		return NewFile(path), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
