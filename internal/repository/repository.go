// Package repository implements marker and key CRUD on top of the store.
// It keeps no state of its own; every call reads through to storage.
package repository

import (
	"fmt"
	"time"

	"github.com/meur/raidmap/internal/storage"
)

// DeletePolicy decides what deleting an unknown id does
type DeletePolicy string

const (
	// DeleteIgnoreMissing treats deleting an unknown id as success
	DeleteIgnoreMissing DeletePolicy = "ignore"
	// DeleteErrorMissing reports models.ErrNotFound for unknown ids
	DeleteErrorMissing DeletePolicy = "error"
)

// ParseDeletePolicy converts a config value into a DeletePolicy
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case DeleteIgnoreMissing, "":
		return DeleteIgnoreMissing, nil
	case DeleteErrorMissing:
		return DeleteErrorMissing, nil
	}
	return "", fmt.Errorf("unknown delete policy %q", s)
}

// Repository is the marker and key data access layer
type Repository struct {
	store        *storage.Store
	deletePolicy DeletePolicy
	now          func() time.Time
}

// Option configures a Repository
type Option func(*Repository)

// WithDeletePolicy sets how deletes of unknown ids behave
func WithDeletePolicy(p DeletePolicy) Option {
	return func(r *Repository) { r.deletePolicy = p }
}

// WithClock replaces the timestamp source
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New creates a repository over store
func New(store *storage.Store, opts ...Option) *Repository {
	r := &Repository{
		store:        store,
		deletePolicy: DeleteIgnoreMissing,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
