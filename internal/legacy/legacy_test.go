package legacy

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/raidmap/internal/models"
)

var legacySchema = []string{
	`CREATE TABLE pins (
		id TEXT PRIMARY KEY,
		map_id TEXT NOT NULL,
		type TEXT NOT NULL CHECK(type IN ('loot', 'boss', 'extract')),
		name TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE loot_pins (
		pin_id TEXT PRIMARY KEY,
		loot_type TEXT NOT NULL,
		quality TEXT NOT NULL
	)`,
	`CREATE TABLE boss_pins (
		pin_id TEXT PRIMARY KEY,
		boss_name TEXT NOT NULL,
		spawn_chance INTEGER NOT NULL,
		guards INTEGER DEFAULT 0
	)`,
	`CREATE TABLE extract_pins (
		pin_id TEXT PRIMARY KEY,
		requirements TEXT,
		always_available INTEGER DEFAULT 0,
		pmc INTEGER DEFAULT 0,
		scav_only INTEGER DEFAULT 0
	)`,
	`CREATE TABLE keys (
		id TEXT PRIMARY KEY,
		map_id TEXT NOT NULL,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		uses INTEGER NOT NULL,
		worth TEXT NOT NULL,
		unlocks TEXT NOT NULL,
		x REAL,
		y REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

func newLegacyDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tarkov-pins.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := append([]string{}, legacySchema...)
	stmts = append(stmts,
		`INSERT INTO pins (id, map_id, type, name, x, y, description, created_at, updated_at)
			VALUES ('b1', 'customs', 'boss', 'Reshala', 40.5, 62.1, 'Dorms', '2024-11-02 18:30:00', '2024-11-03 09:00:00')`,
		`INSERT INTO boss_pins (pin_id, boss_name, spawn_chance, guards) VALUES ('b1', 'Reshala', 55, 3)`,
		`INSERT INTO pins (id, map_id, type, name, x, y, created_at, updated_at)
			VALUES ('e1', 'woods', 'extract', 'Outskirts', 88.1, 9.7, '2024-11-02 18:31:00', '2024-11-02 18:31:00')`,
		`INSERT INTO extract_pins (pin_id, requirements, always_available, pmc, scav_only) VALUES ('e1', NULL, 1, 1, 0)`,
		`INSERT INTO pins (id, map_id, type, name, x, y) VALUES ('l1', 'customs', 'loot', 'Crate', 1, 2)`,
		`INSERT INTO loot_pins (pin_id, loot_type, quality) VALUES ('l1', 'medical', 'low')`,
		`INSERT INTO keys (id, map_id, name, location, uses, worth, unlocks, x, y, created_at, updated_at)
			VALUES ('k1', 'customs', 'Dorm 314', 'Dorms', 5, 'high', 'Marked room', 47.2, 58.4, '2024-10-01 12:00:00', '2024-10-01 12:00:00')`,
		`INSERT INTO keys (id, map_id, name, location, uses, worth, unlocks)
			VALUES ('k2', 'woods', 'ZB-014', 'Bunker', -1, 'medium', 'Bunker door')`,
	)
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

func TestSource_Markers(t *testing.T) {
	src, err := Open(newLegacyDB(t))
	require.NoError(t, err)
	defer src.Close()

	markers, err := src.Markers(context.Background())
	require.NoError(t, err)
	require.Len(t, markers, 3)

	// ordered by map, type, name
	assert.Equal(t, []string{"b1", "l1", "e1"}, []string{markers[0].ID, markers[1].ID, markers[2].ID})

	boss := markers[0]
	assert.Equal(t, models.BossDetails{BossName: "Reshala", SpawnChance: 55, Guards: 3}, boss.Details)
	assert.Equal(t, "Dorms", boss.Description)
	assert.Equal(t, time.Date(2024, 11, 2, 18, 30, 0, 0, time.UTC), boss.CreatedAt)
	assert.Equal(t, time.Date(2024, 11, 3, 9, 0, 0, 0, time.UTC), boss.UpdatedAt)

	assert.Equal(t, models.LootDetails{LootType: "medical", Quality: "low"}, markers[1].Details)
	assert.False(t, markers[1].CreatedAt.IsZero())

	assert.Equal(t, models.ExtractDetails{AlwaysAvailable: true, PMC: true}, markers[2].Details)
}

func TestSource_Keys(t *testing.T) {
	src, err := Open(newLegacyDB(t))
	require.NoError(t, err)
	defer src.Close()

	keys, err := src.Keys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, "k1", keys[0].ID)
	require.True(t, keys[0].Pinned())
	assert.Equal(t, 47.2, *keys[0].X)
	assert.Equal(t, 5, keys[0].Uses)
	assert.Equal(t, time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC), keys[0].CreatedAt)

	assert.False(t, keys[1].Pinned())
	assert.Equal(t, models.UnlimitedUses, keys[1].Uses)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime(sql.NullString{}).IsZero())
	assert.True(t, parseTime(sql.NullString{String: "yesterday", Valid: true}).IsZero())
	assert.Equal(t,
		time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		parseTime(sql.NullString{String: "2025-01-02T03:04:05Z", Valid: true}))
}
