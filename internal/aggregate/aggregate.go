// Package aggregate derives read views from a marker snapshot.
// Everything here is a pure function of its arguments.
package aggregate

import (
	"github.com/meur/raidmap/internal/models"
)

// Counts maps map id to marker type to number of markers
type Counts map[string]map[models.MarkerType]int

// CountsByMapAndType counts markers per map and type. Every catalog map
// appears with all marker types, zero counts included. Maps outside the
// catalog appear only when a marker references them.
func CountsByMapAndType(markers []models.Marker, catalog []models.GameMap) Counts {
	counts := make(Counts, len(catalog))
	for _, gm := range catalog {
		counts[gm.ID] = emptyRow()
	}

	for _, m := range markers {
		row, ok := counts[m.MapID]
		if !ok {
			row = emptyRow()
			counts[m.MapID] = row
		}
		row[m.Type()]++
	}
	return counts
}

func emptyRow() map[models.MarkerType]int {
	row := make(map[models.MarkerType]int, len(models.MarkerTypes()))
	for _, t := range models.MarkerTypes() {
		row[t] = 0
	}
	return row
}

// GroupKey is the "<mapId>_<type>" key used by GroupByMapAndType
func GroupKey(mapID string, t models.MarkerType) string {
	return mapID + "_" + string(t)
}

// GroupByMapAndType buckets markers by map and type, keeping input order
// within each bucket
func GroupByMapAndType(markers []models.Marker) map[string][]models.Marker {
	groups := make(map[string][]models.Marker)
	for _, m := range markers {
		key := GroupKey(m.MapID, m.Type())
		groups[key] = append(groups[key], m)
	}
	return groups
}

// PinRef is the lightweight listing entry used by Summary
type PinRef struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Type  models.MarkerType `json:"type"`
	MapID string            `json:"map_id"`
	X     float64           `json:"x"`
	Y     float64           `json:"y"`
}

// Summary is a debugging overview of the marker collection
type Summary struct {
	Total int                 `json:"total"`
	ByMap map[string][]PinRef `json:"by_map"`
	All   []models.Marker     `json:"all_markers"`
}

// Summarize builds a Summary over markers
func Summarize(markers []models.Marker) Summary {
	s := Summary{
		Total: len(markers),
		ByMap: make(map[string][]PinRef),
		All:   markers,
	}
	if s.All == nil {
		s.All = []models.Marker{}
	}
	for _, m := range markers {
		s.ByMap[m.MapID] = append(s.ByMap[m.MapID], PinRef{
			ID:    m.ID,
			Name:  m.Name,
			Type:  m.Type(),
			MapID: m.MapID,
			X:     m.X,
			Y:     m.Y,
		})
	}
	return s
}
