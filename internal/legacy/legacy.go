// Package legacy reads the relational SQLite database used by earlier
// releases: a pins table with loot_pins, boss_pins and extract_pins side
// tables, plus a keys table.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meur/raidmap/internal/models"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Source is an open legacy database
type Source struct {
	db *sql.DB
}

// Open opens the legacy database read-only
func Open(dbPath string) (*Source, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}
	return &Source{db: db}, nil
}

// Close closes the database connection
func (s *Source) Close() error {
	return s.db.Close()
}

// Markers returns every pin joined with its side table, ordered by map,
// type and name
func (s *Source) Markers(ctx context.Context) ([]models.Marker, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.map_id, p.type, p.name, p.x, p.y, p.description,
			CAST(p.created_at AS TEXT), CAST(p.updated_at AS TEXT),
			l.loot_type, l.quality,
			b.boss_name, b.spawn_chance, b.guards,
			e.requirements, e.always_available, e.pmc, e.scav_only
		FROM pins p
		LEFT JOIN loot_pins l ON l.pin_id = p.id
		LEFT JOIN boss_pins b ON b.pin_id = p.id
		LEFT JOIN extract_pins e ON e.pin_id = p.id
		ORDER BY p.map_id, p.type, p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("query pins: %w", err)
	}
	defer rows.Close()

	var markers []models.Marker
	for rows.Next() {
		var (
			m                    models.Marker
			pinType              string
			description          sql.NullString
			createdAt, updatedAt sql.NullString
			lootType, quality    sql.NullString
			bossName             sql.NullString
			spawnChance, guards  sql.NullInt64
			requirements         sql.NullString
			always, pmc, scav    sql.NullInt64
		)
		err := rows.Scan(&m.ID, &m.MapID, &pinType, &m.Name, &m.X, &m.Y, &description,
			&createdAt, &updatedAt,
			&lootType, &quality,
			&bossName, &spawnChance, &guards,
			&requirements, &always, &pmc, &scav)
		if err != nil {
			return nil, fmt.Errorf("scan pin: %w", err)
		}

		m.Description = description.String
		m.CreatedAt = parseTime(createdAt)
		m.UpdatedAt = parseTime(updatedAt)
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = m.CreatedAt
		}

		switch models.MarkerType(pinType) {
		case models.MarkerLoot:
			m.Details = models.LootDetails{LootType: lootType.String, Quality: quality.String}
		case models.MarkerBoss:
			m.Details = models.BossDetails{
				BossName:    bossName.String,
				SpawnChance: int(spawnChance.Int64),
				Guards:      int(guards.Int64),
			}
		case models.MarkerExtract:
			m.Details = models.ExtractDetails{
				Requirements:    requirements.String,
				AlwaysAvailable: always.Int64 == 1,
				PMC:             pmc.Int64 == 1,
				ScavOnly:        scav.Int64 == 1,
			}
		default:
			return nil, fmt.Errorf("pin %q: unknown type %q", m.ID, pinType)
		}

		markers = append(markers, m)
	}
	return markers, rows.Err()
}

// Keys returns every key ordered by map and name
func (s *Source) Keys(ctx context.Context) ([]models.Key, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, map_id, name, location, uses, worth, unlocks, x, y,
			CAST(created_at AS TEXT), CAST(updated_at AS TEXT)
		FROM keys
		ORDER BY map_id, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []models.Key
	for rows.Next() {
		var (
			k                    models.Key
			x, y                 sql.NullFloat64
			createdAt, updatedAt sql.NullString
		)
		err := rows.Scan(&k.ID, &k.MapID, &k.Name, &k.Location, &k.Uses, &k.Worth, &k.Unlocks,
			&x, &y, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}

		if x.Valid && y.Valid {
			k.X = &x.Float64
			k.Y = &y.Float64
		}
		k.CreatedAt = parseTime(createdAt)
		k.UpdatedAt = parseTime(updatedAt)
		if k.UpdatedAt.IsZero() {
			k.UpdatedAt = k.CreatedAt
		}

		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// parseTime reads a CURRENT_TIMESTAMP value, which sqlite stores in UTC
func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
