// Package storage persists the marker and key collections.
//
// A Store serializes every read-modify-write cycle behind a single lock
// and delegates the bytes to a Backend (JSON files, SQLite or Badger).
// Each collection is saved as one JSON array; the whole collection is
// the unit of durability.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/metrics"
	"github.com/meur/raidmap/internal/models"
)

// Store handles all collection reads and writes
type Store struct {
	backend Backend
	mu      sync.RWMutex
}

// NewStore wraps a backend
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Close closes the underlying backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// LoadAll returns every marker. A missing collection is empty; a
// collection that cannot be read is logged and reported as empty.
func (s *Store) LoadAll(ctx context.Context) []models.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadSoft[models.Marker](ctx, s.backend, MarkersCollection)
}

// LoadAllKeys returns every key, failing soft like LoadAll
func (s *Store) LoadAllKeys(ctx context.Context) []models.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadSoft[models.Key](ctx, s.backend, KeysCollection)
}

// Snapshot reads both collections under one read lock. Unlike LoadAll it
// fails hard: a collection that cannot be read is reported as
// models.ErrStorageUnavailable rather than as empty.
func (s *Store) Snapshot(ctx context.Context) ([]models.Marker, []models.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markers, err := loadHard[models.Marker](ctx, s.backend, MarkersCollection)
	if err != nil {
		return nil, nil, err
	}
	keys, err := loadHard[models.Key](ctx, s.backend, KeysCollection)
	if err != nil {
		return nil, nil, err
	}
	return markers, keys, nil
}

// SaveAll replaces the marker collection
func (s *Store) SaveAll(ctx context.Context, markers []models.Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s.backend, MarkersCollection, markers)
}

// SaveAllKeys replaces the key collection
func (s *Store) SaveAllKeys(ctx context.Context, keys []models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s.backend, KeysCollection, keys)
}

// MutateMarkers runs one load-modify-save cycle under the write lock.
// If fn returns an error nothing is written and the error is returned as is.
// Load and save failures are reported as models.ErrStorageUnavailable.
func (s *Store) MutateMarkers(ctx context.Context, fn func([]models.Marker) ([]models.Marker, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mutate(ctx, s.backend, MarkersCollection, fn)
}

// MutateKeys is MutateMarkers for the key collection
func (s *Store) MutateKeys(ctx context.Context, fn func([]models.Key) ([]models.Key, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mutate(ctx, s.backend, KeysCollection, fn)
}

func mutate[T any](ctx context.Context, b Backend, collection string, fn func([]T) ([]T, error)) error {
	items, err := loadHard[T](ctx, b, collection)
	if err != nil {
		return err
	}

	next, err := fn(items)
	if err != nil {
		return err
	}

	if err := save(ctx, b, collection, next); err != nil {
		return err
	}
	return nil
}

func loadHard[T any](ctx context.Context, b Backend, collection string) ([]T, error) {
	items, err := load[T](ctx, b, collection)
	if err != nil {
		metrics.RecordStorageError("load", collection)
		logging.Ctx(ctx).Error().Err(err).Str("collection", collection).Msg("failed to load collection")
		return nil, fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return items, nil
}

func loadSoft[T any](ctx context.Context, b Backend, collection string) []T {
	items, err := load[T](ctx, b, collection)
	if err != nil {
		metrics.RecordStorageError("load", collection)
		logging.Ctx(ctx).Error().Err(err).Str("collection", collection).Msg("failed to load collection")
		return []T{}
	}
	return items
}

func load[T any](ctx context.Context, b Backend, collection string) ([]T, error) {
	start := time.Now()
	data, err := b.Load(ctx, collection)
	metrics.RecordStorageOperation(b.Name(), "load", collection, time.Since(start))
	if err != nil {
		return nil, err
	}

	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, b Backend, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	start := time.Now()
	err = b.Save(ctx, collection, data)
	metrics.RecordStorageOperation(b.Name(), "save", collection, time.Since(start))
	if err != nil {
		metrics.RecordStorageError("save", collection)
		logging.Ctx(ctx).Error().Err(err).Str("collection", collection).Msg("failed to save collection")
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return nil
}
