package repository

import (
	"context"
	"fmt"

	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/models"
	"github.com/meur/raidmap/internal/validation"
)

// CreateMarker validates in, stamps it and appends it to the collection.
// It returns the new marker's id.
func (r *Repository) CreateMarker(ctx context.Context, in *models.MarkerInput) (string, error) {
	if err := validation.Check(in); err != nil {
		return "", err
	}

	m := in.Build(r.now())
	err := r.store.MutateMarkers(ctx, func(markers []models.Marker) ([]models.Marker, error) {
		if indexOfMarker(markers, m.ID) >= 0 {
			return nil, models.NewValidationError("id", "unique", fmt.Sprintf("marker %q already exists", m.ID))
		}
		return append(markers, m), nil
	})
	if err != nil {
		return "", err
	}

	logging.Ctx(ctx).Info().Str("id", m.ID).Str("map_id", m.MapID).Str("type", string(m.Type())).Msg("marker created")
	return m.ID, nil
}

// GetMarkersByMap returns the markers of one map in store order
func (r *Repository) GetMarkersByMap(ctx context.Context, mapID string) []models.Marker {
	all := r.store.LoadAll(ctx)
	out := make([]models.Marker, 0, len(all))
	for _, m := range all {
		if m.MapID == mapID {
			out = append(out, m)
		}
	}
	return out
}

// GetAllMarkers returns the whole marker collection
func (r *Repository) GetAllMarkers(ctx context.Context) []models.Marker {
	return r.store.LoadAll(ctx)
}

// UpdateMarker merges u into the marker with the given id and returns
// the updated marker
func (r *Repository) UpdateMarker(ctx context.Context, id string, u *models.MarkerUpdate) (models.Marker, error) {
	if err := validation.Check(u); err != nil {
		return models.Marker{}, err
	}

	var updated models.Marker
	err := r.store.MutateMarkers(ctx, func(markers []models.Marker) ([]models.Marker, error) {
		i := indexOfMarker(markers, id)
		if i < 0 {
			return nil, fmt.Errorf("marker %q: %w", id, models.ErrNotFound)
		}
		u.Apply(&markers[i], r.now())
		updated = markers[i]
		return markers, nil
	})
	if err != nil {
		return models.Marker{}, err
	}

	logging.Ctx(ctx).Info().Str("id", id).Msg("marker updated")
	return updated, nil
}

// DeleteMarker removes the marker with the given id. Other markers are
// never touched. Unknown ids follow the repository's DeletePolicy.
func (r *Repository) DeleteMarker(ctx context.Context, id string) error {
	err := r.store.MutateMarkers(ctx, func(markers []models.Marker) ([]models.Marker, error) {
		i := indexOfMarker(markers, id)
		if i < 0 {
			if r.deletePolicy == DeleteErrorMissing {
				return nil, fmt.Errorf("marker %q: %w", id, models.ErrNotFound)
			}
			return markers, nil
		}
		return append(markers[:i], markers[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().Str("id", id).Msg("marker deleted")
	return nil
}

// ImportMarkers appends markers whose ids are not stored yet, keeping
// their timestamps. It returns how many were added.
func (r *Repository) ImportMarkers(ctx context.Context, in []models.Marker) (int, error) {
	added := 0
	err := r.store.MutateMarkers(ctx, func(markers []models.Marker) ([]models.Marker, error) {
		added = 0
		seen := make(map[string]bool, len(markers))
		for _, m := range markers {
			seen[m.ID] = true
		}
		for _, m := range in {
			if seen[m.ID] || m.Details == nil {
				continue
			}
			seen[m.ID] = true
			markers = append(markers, m)
			added++
		}
		return markers, nil
	})
	return added, err
}

func indexOfMarker(markers []models.Marker, id string) int {
	for i := range markers {
		if markers[i].ID == id {
			return i
		}
	}
	return -1
}
