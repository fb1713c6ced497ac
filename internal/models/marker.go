package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// MarkerType tags which variant a marker carries
type MarkerType string

const (
	MarkerLoot      MarkerType = "loot"
	MarkerBoss      MarkerType = "boss"
	MarkerExtract   MarkerType = "extract"
	MarkerQuest     MarkerType = "quest"
	MarkerQuestItem MarkerType = "quest_item"
)

// MarkerTypes returns every marker type in display order
func MarkerTypes() []MarkerType {
	return []MarkerType{MarkerLoot, MarkerBoss, MarkerExtract, MarkerQuest, MarkerQuestItem}
}

// Valid reports whether t is one of the known marker types
func (t MarkerType) Valid() bool {
	switch t {
	case MarkerLoot, MarkerBoss, MarkerExtract, MarkerQuest, MarkerQuestItem:
		return true
	}
	return false
}

// Details is the variant-specific part of a marker. Exactly one
// implementation is attached to every marker and it decides the marker type.
type Details interface {
	Type() MarkerType
	sealed()
}

// LootDetails describes a loot spawn
type LootDetails struct {
	LootType string // weapon, medical, tech, valuables, food; may be empty
	Quality  string // high, medium, low
}

// BossDetails describes a boss spawn location
type BossDetails struct {
	BossName    string
	SpawnChance int // percent
	Guards      int
}

// ExtractDetails describes an extraction point
type ExtractDetails struct {
	Requirements    string
	AlwaysAvailable bool
	PMC             bool
	ScavOnly        bool
}

// QuestDetails describes a quest objective location
type QuestDetails struct {
	QuestGiver string
	Objective  string
}

// QuestItemDetails describes where a quest item can be found
type QuestItemDetails struct {
	ItemName  string
	NeededFor string
}

func (LootDetails) Type() MarkerType      { return MarkerLoot }
func (BossDetails) Type() MarkerType      { return MarkerBoss }
func (ExtractDetails) Type() MarkerType   { return MarkerExtract }
func (QuestDetails) Type() MarkerType     { return MarkerQuest }
func (QuestItemDetails) Type() MarkerType { return MarkerQuestItem }

func (LootDetails) sealed()      {}
func (BossDetails) sealed()      {}
func (ExtractDetails) sealed()   {}
func (QuestDetails) sealed()     {}
func (QuestItemDetails) sealed() {}

// Marker is a positioned annotation on a map.
// X and Y are percentages of the map image width and height.
type Marker struct {
	ID          string
	MapID       string
	Name        string
	X           float64
	Y           float64
	Description string
	Details     Details
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Type returns the marker type, derived from its details
func (m Marker) Type() MarkerType {
	if m.Details == nil {
		return ""
	}
	return m.Details.Type()
}

// markerRecord is the flat JSON shape markers are stored and served in.
// Fields that do not belong to the record's type are left empty.
type markerRecord struct {
	ID          string     `json:"id"`
	MapID       string     `json:"map_id"`
	Type        MarkerType `json:"type"`
	Name        string     `json:"name"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	LootType string `json:"loot_type,omitempty"`
	Quality  string `json:"quality,omitempty"`

	BossName    string `json:"boss_name,omitempty"`
	SpawnChance *int   `json:"spawn_chance,omitempty"`
	Guards      *int   `json:"guards,omitempty"`

	Requirements    string `json:"requirements,omitempty"`
	AlwaysAvailable *bool  `json:"always_available,omitempty"`
	PMC             *bool  `json:"pmc,omitempty"`
	ScavOnly        *bool  `json:"scav_only,omitempty"`

	QuestGiver string `json:"quest_giver,omitempty"`
	Objective  string `json:"objective,omitempty"`

	ItemName  string `json:"item_name,omitempty"`
	NeededFor string `json:"needed_for,omitempty"`
}

// MarshalJSON flattens the marker and its details into one object
func (m Marker) MarshalJSON() ([]byte, error) {
	rec := markerRecord{
		ID:          m.ID,
		MapID:       m.MapID,
		Type:        m.Type(),
		Name:        m.Name,
		X:           m.X,
		Y:           m.Y,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	switch d := m.Details.(type) {
	case LootDetails:
		rec.LootType = d.LootType
		rec.Quality = d.Quality
	case BossDetails:
		rec.BossName = d.BossName
		rec.SpawnChance = &d.SpawnChance
		rec.Guards = &d.Guards
	case ExtractDetails:
		rec.Requirements = d.Requirements
		rec.AlwaysAvailable = &d.AlwaysAvailable
		rec.PMC = &d.PMC
		rec.ScavOnly = &d.ScavOnly
	case QuestDetails:
		rec.QuestGiver = d.QuestGiver
		rec.Objective = d.Objective
	case QuestItemDetails:
		rec.ItemName = d.ItemName
		rec.NeededFor = d.NeededFor
	case nil:
		return nil, fmt.Errorf("marker %q has no details", m.ID)
	}

	return json.Marshal(rec)
}

// UnmarshalJSON reads the flat marker object and keeps only the fields
// of the variant named by "type"
func (m *Marker) UnmarshalJSON(data []byte) error {
	var rec markerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	details, err := rec.details()
	if err != nil {
		return err
	}

	*m = Marker{
		ID:          rec.ID,
		MapID:       rec.MapID,
		Name:        rec.Name,
		X:           rec.X,
		Y:           rec.Y,
		Description: rec.Description,
		Details:     details,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	return nil
}

func (rec markerRecord) details() (Details, error) {
	switch rec.Type {
	case MarkerLoot:
		return LootDetails{LootType: rec.LootType, Quality: rec.Quality}, nil
	case MarkerBoss:
		return BossDetails{
			BossName:    rec.BossName,
			SpawnChance: derefInt(rec.SpawnChance),
			Guards:      derefInt(rec.Guards),
		}, nil
	case MarkerExtract:
		return ExtractDetails{
			Requirements:    rec.Requirements,
			AlwaysAvailable: derefBool(rec.AlwaysAvailable),
			PMC:             derefBool(rec.PMC),
			ScavOnly:        derefBool(rec.ScavOnly),
		}, nil
	case MarkerQuest:
		return QuestDetails{QuestGiver: rec.QuestGiver, Objective: rec.Objective}, nil
	case MarkerQuestItem:
		return QuestItemDetails{ItemName: rec.ItemName, NeededFor: rec.NeededFor}, nil
	}
	return nil, fmt.Errorf("marker %q: unknown type %q", rec.ID, rec.Type)
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	return p != nil && *p
}
