package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/raidmap/internal/models"
	"github.com/meur/raidmap/internal/storage"
)

func ptr[T any](v T) *T { return &v }

// fakeClock hands out increasing timestamps one minute apart
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestRepo(t *testing.T, opts ...Option) (*Repository, *storage.Store) {
	t.Helper()
	b, err := storage.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	store := storage.NewStore(b)
	t.Cleanup(func() { store.Close() })

	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(store, opts...), store
}

func reshala() *models.MarkerInput {
	return &models.MarkerInput{
		ID:          "m1",
		MapID:       "customs",
		Type:        models.MarkerBoss,
		Name:        "Reshala",
		X:           ptr(40.5),
		Y:           ptr(62.1),
		BossName:    "Reshala",
		SpawnChance: ptr(55),
		Guards:      ptr(3),
	}
}

func lootInput(id, mapID string) *models.MarkerInput {
	return &models.MarkerInput{
		ID:      id,
		MapID:   mapID,
		Type:    models.MarkerLoot,
		Name:    "Loot " + id,
		X:       ptr(10.0),
		Y:       ptr(10.0),
		Quality: "medium",
	}
}

func TestCreateMarker_ReshalaScenario(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateMarker(ctx, reshala())
	require.NoError(t, err)
	assert.Equal(t, "m1", id)

	got := repo.GetMarkersByMap(ctx, "customs")
	require.Len(t, got, 1)
	m := got[0]
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "customs", m.MapID)
	assert.Equal(t, models.MarkerBoss, m.Type())
	assert.Equal(t, "Reshala", m.Name)
	assert.Equal(t, 40.5, m.X)
	assert.Equal(t, 62.1, m.Y)
	assert.Equal(t, models.BossDetails{BossName: "Reshala", SpawnChance: 55, Guards: 3}, m.Details)
	assert.False(t, m.CreatedAt.IsZero())
	assert.Equal(t, m.CreatedAt, m.UpdatedAt)

	_, err = repo.UpdateMarker(ctx, "m1", &models.MarkerUpdate{SpawnChance: ptr(70)})
	require.NoError(t, err)

	got = repo.GetMarkersByMap(ctx, "customs")
	require.Len(t, got, 1)
	assert.Equal(t, models.BossDetails{BossName: "Reshala", SpawnChance: 70, Guards: 3}, got[0].Details)
}

func TestCreateMarker_Validation(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	in := lootInput("l1", "customs")
	in.Quality = ""
	_, err := repo.CreateMarker(ctx, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "quality")

	assert.Empty(t, store.LoadAll(ctx))
}

func TestCreateMarker_DuplicateID(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateMarker(ctx, lootInput("dup", "customs"))
	require.NoError(t, err)

	_, err = repo.CreateMarker(ctx, lootInput("dup", "woods"))
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, store.LoadAll(ctx), 1)
}

func TestGetMarkersByMap_FiltersAndKeepsOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i, mapID := range []string{"customs", "woods", "customs", "shoreline", "customs"} {
		_, err := repo.CreateMarker(ctx, lootInput(fmt.Sprintf("m%d", i), mapID))
		require.NoError(t, err)
	}

	got := repo.GetMarkersByMap(ctx, "customs")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m0", "m2", "m4"}, []string{got[0].ID, got[1].ID, got[2].ID})

	assert.Empty(t, repo.GetMarkersByMap(ctx, "interchange"))
	assert.NotNil(t, repo.GetMarkersByMap(ctx, "interchange"))
	assert.Len(t, repo.GetAllMarkers(ctx), 5)
}

func TestUpdateMarker_OnlyName(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateMarker(ctx, reshala())
	require.NoError(t, err)
	before := repo.GetAllMarkers(ctx)[0]

	updated, err := repo.UpdateMarker(ctx, "m1", &models.MarkerUpdate{Name: ptr("X")})
	require.NoError(t, err)

	assert.Equal(t, "X", updated.Name)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))

	after := repo.GetAllMarkers(ctx)[0]
	before.Name = "X"
	before.UpdatedAt = after.UpdatedAt
	assert.Equal(t, before, after)
}

func TestUpdateMarker_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.UpdateMarker(context.Background(), "ghost", &models.MarkerUpdate{Name: ptr("X")})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateMarker_InvalidRange(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.CreateMarker(ctx, reshala())
	require.NoError(t, err)

	_, err = repo.UpdateMarker(ctx, "m1", &models.MarkerUpdate{SpawnChance: ptr(101)})
	assert.ErrorIs(t, err, models.ErrValidation)

	m := repo.GetAllMarkers(ctx)[0]
	assert.Equal(t, 55, m.Details.(models.BossDetails).SpawnChance)
}

func TestDeleteMarker(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.CreateMarker(ctx, lootInput(id, "customs"))
		require.NoError(t, err)
	}

	require.NoError(t, repo.DeleteMarker(ctx, "b"))

	got := repo.GetAllMarkers(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Empty(t, repo.GetMarkersByMap(ctx, "nowhere"))
}

func TestDeleteMarker_MissingID(t *testing.T) {
	t.Run("ignore policy", func(t *testing.T) {
		repo, _ := newTestRepo(t)
		ctx := context.Background()
		_, err := repo.CreateMarker(ctx, lootInput("a", "customs"))
		require.NoError(t, err)

		assert.NoError(t, repo.DeleteMarker(ctx, "ghost"))
		assert.Len(t, repo.GetAllMarkers(ctx), 1)
	})

	t.Run("error policy", func(t *testing.T) {
		repo, _ := newTestRepo(t, WithDeletePolicy(DeleteErrorMissing))
		ctx := context.Background()
		_, err := repo.CreateMarker(ctx, lootInput("a", "customs"))
		require.NoError(t, err)

		assert.ErrorIs(t, repo.DeleteMarker(ctx, "ghost"), models.ErrNotFound)
		assert.Len(t, repo.GetAllMarkers(ctx), 1)
	})
}

func TestImportMarkers_SkipsExisting(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.CreateMarker(ctx, lootInput("a", "customs"))
	require.NoError(t, err)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n, err := repo.ImportMarkers(ctx, []models.Marker{
		{ID: "a", MapID: "woods", Name: "dup", Details: models.QuestDetails{}},
		{ID: "b", MapID: "woods", Name: "new", Details: models.QuestDetails{QuestGiver: "Jaeger"}, CreatedAt: created, UpdatedAt: created},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := repo.GetMarkersByMap(ctx, "woods")
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.True(t, created.Equal(got[0].CreatedAt))
}

func TestKeys_CRUD(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateKey(ctx, &models.KeyInput{ID: "k1", MapID: "customs", Name: "Dorm 314"})
	assert.ErrorIs(t, err, models.ErrValidation)

	id, err := repo.CreateKey(ctx, &models.KeyInput{
		ID: "k1", MapID: "customs", Name: "Dorm 314", Location: "Scav dorms", Unlocks: "Marked room",
	})
	require.NoError(t, err)
	assert.Equal(t, "k1", id)

	_, err = repo.CreateKey(ctx, &models.KeyInput{
		ID: "k2", MapID: "woods", Name: "ZB-014", Location: "Bunker", Unlocks: "Bunker door", Uses: ptr(10), Worth: "low",
	})
	require.NoError(t, err)

	keys := repo.GetKeysByMap(ctx, "customs")
	require.Len(t, keys, 1)
	assert.Equal(t, models.UnlimitedUses, keys[0].Uses)
	assert.Equal(t, "medium", keys[0].Worth)
	assert.False(t, keys[0].Pinned())

	updated, err := repo.UpdateKey(ctx, "k1", &models.KeyUpdate{X: ptr(55.0), Y: ptr(45.0), Worth: ptr("high")})
	require.NoError(t, err)
	assert.True(t, updated.Pinned())
	assert.Equal(t, "high", updated.Worth)
	assert.Equal(t, "Scav dorms", updated.Location)

	unpinned, err := repo.UpdateKey(ctx, "k1", &models.KeyUpdate{Unpin: true})
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned())
	assert.False(t, repo.GetKeysByMap(ctx, "customs")[0].Pinned())

	_, err = repo.UpdateKey(ctx, "k1", &models.KeyUpdate{Unpin: true, Y: ptr(1.0)})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = repo.UpdateKey(ctx, "ghost", &models.KeyUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.DeleteKey(ctx, "k1"))
	require.NoError(t, repo.DeleteKey(ctx, "k1"))
	all := repo.GetAllKeys(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "k2", all[0].ID)
}

func TestImportKeys(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	keys := []models.Key{
		{ID: "k1", MapID: "customs", Name: "a", Uses: -1, Worth: "medium"},
		{ID: "k1", MapID: "customs", Name: "a again", Uses: -1, Worth: "medium"},
		{ID: "k2", MapID: "woods", Name: "b", Uses: 3, Worth: "high"},
	}
	n, err := repo.ImportKeys(ctx, keys)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.GetAllKeys(ctx), 2)
}

func TestParseDeletePolicy(t *testing.T) {
	p, err := ParseDeletePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DeleteIgnoreMissing, p)

	p, err = ParseDeletePolicy("error")
	require.NoError(t, err)
	assert.Equal(t, DeleteErrorMissing, p)

	_, err = ParseDeletePolicy("explode")
	assert.Error(t, err)
}
