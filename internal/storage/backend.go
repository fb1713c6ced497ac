package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Collection names
const (
	MarkersCollection = "markers"
	KeysCollection    = "keys"
)

// Backend persists whole collections as opaque blobs.
// Load returns nil, nil when the collection has never been saved.
type Backend interface {
	Name() string
	Load(ctx context.Context, collection string) ([]byte, error)
	Save(ctx context.Context, collection string, data []byte) error
	Close() error
}

// Backend kinds accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Open creates the backend named by kind. path is a directory for the
// file and badger backends and a database file for sqlite.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case BackendFile, "":
		return NewFileBackend(path)
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return NewSQLiteBackend(path)
	case BackendBadger:
		return NewBadgerBackend(path)
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}
