package repository

import (
	"context"
	"fmt"

	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/models"
	"github.com/meur/raidmap/internal/validation"
)

// CreateKey validates in, applies defaults and appends the key
func (r *Repository) CreateKey(ctx context.Context, in *models.KeyInput) (string, error) {
	if err := validation.Check(in); err != nil {
		return "", err
	}

	k := in.Build(r.now())
	err := r.store.MutateKeys(ctx, func(keys []models.Key) ([]models.Key, error) {
		if indexOfKey(keys, k.ID) >= 0 {
			return nil, models.NewValidationError("id", "unique", fmt.Sprintf("key %q already exists", k.ID))
		}
		return append(keys, k), nil
	})
	if err != nil {
		return "", err
	}

	logging.Ctx(ctx).Info().Str("id", k.ID).Str("map_id", k.MapID).Msg("key created")
	return k.ID, nil
}

// GetKeysByMap returns the keys of one map in store order
func (r *Repository) GetKeysByMap(ctx context.Context, mapID string) []models.Key {
	all := r.store.LoadAllKeys(ctx)
	out := make([]models.Key, 0, len(all))
	for _, k := range all {
		if k.MapID == mapID {
			out = append(out, k)
		}
	}
	return out
}

// GetAllKeys returns the whole key collection
func (r *Repository) GetAllKeys(ctx context.Context) []models.Key {
	return r.store.LoadAllKeys(ctx)
}

// UpdateKey merges u into the key with the given id
func (r *Repository) UpdateKey(ctx context.Context, id string, u *models.KeyUpdate) (models.Key, error) {
	if err := validation.Check(u); err != nil {
		return models.Key{}, err
	}

	var updated models.Key
	err := r.store.MutateKeys(ctx, func(keys []models.Key) ([]models.Key, error) {
		i := indexOfKey(keys, id)
		if i < 0 {
			return nil, fmt.Errorf("key %q: %w", id, models.ErrNotFound)
		}
		u.Apply(&keys[i], r.now())
		updated = keys[i]
		return keys, nil
	})
	if err != nil {
		return models.Key{}, err
	}

	logging.Ctx(ctx).Info().Str("id", id).Msg("key updated")
	return updated, nil
}

// DeleteKey removes the key with the given id
func (r *Repository) DeleteKey(ctx context.Context, id string) error {
	err := r.store.MutateKeys(ctx, func(keys []models.Key) ([]models.Key, error) {
		i := indexOfKey(keys, id)
		if i < 0 {
			if r.deletePolicy == DeleteErrorMissing {
				return nil, fmt.Errorf("key %q: %w", id, models.ErrNotFound)
			}
			return keys, nil
		}
		return append(keys[:i], keys[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("id", id).Msg("key deleted")
	return nil
}

// ImportKeys appends keys whose ids are not stored yet, keeping their timestamps
func (r *Repository) ImportKeys(ctx context.Context, in []models.Key) (int, error) {
	added := 0
	err := r.store.MutateKeys(ctx, func(keys []models.Key) ([]models.Key, error) {
		added = 0
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			seen[k.ID] = true
		}
		for _, k := range in {
			if seen[k.ID] {
				continue
			}
			seen[k.ID] = true
			keys = append(keys, k)
			added++
		}
		return keys, nil
	})
	return added, err
}

func indexOfKey(keys []models.Key, id string) int {
	for i := range keys {
		if keys[i].ID == id {
			return i
		}
	}
	return -1
}
