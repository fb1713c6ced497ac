package models

import "time"

// MarkerInput is the request body for creating a marker.
// Pointer fields distinguish "not sent" from a zero value.
type MarkerInput struct {
	ID          string     `json:"id" validate:"required"`
	MapID       string     `json:"map_id" validate:"required"`
	Type        MarkerType `json:"type" validate:"required,oneof=loot boss extract quest quest_item"`
	Name        string     `json:"name" validate:"required"`
	X           *float64   `json:"x" validate:"required"`
	Y           *float64   `json:"y" validate:"required"`
	Description string     `json:"description,omitempty"`

	LootType string `json:"loot_type,omitempty" validate:"omitempty,oneof=weapon medical tech valuables food"`
	Quality  string `json:"quality,omitempty" validate:"required_if=Type loot,omitempty,oneof=high medium low"`

	BossName    string `json:"boss_name,omitempty" validate:"required_if=Type boss"`
	SpawnChance *int   `json:"spawn_chance,omitempty" validate:"required_if=Type boss,omitempty,gte=0,lte=100"`
	Guards      *int   `json:"guards,omitempty" validate:"omitempty,gte=0"`

	Requirements    string `json:"requirements,omitempty"`
	AlwaysAvailable *bool  `json:"always_available,omitempty" validate:"required_if=Type extract"`
	PMC             *bool  `json:"pmc,omitempty" validate:"required_if=Type extract"`
	ScavOnly        *bool  `json:"scav_only,omitempty" validate:"required_if=Type extract"`

	QuestGiver string `json:"quest_giver,omitempty"`
	Objective  string `json:"objective,omitempty"`

	ItemName  string `json:"item_name,omitempty"`
	NeededFor string `json:"needed_for,omitempty"`
}

// Build converts a validated input into a marker stamped with now.
// Fields of other variants are dropped.
func (in *MarkerInput) Build(now time.Time) Marker {
	m := Marker{
		ID:          in.ID,
		MapID:       in.MapID,
		Name:        in.Name,
		X:           derefFloat(in.X),
		Y:           derefFloat(in.Y),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch in.Type {
	case MarkerLoot:
		m.Details = LootDetails{LootType: in.LootType, Quality: in.Quality}
	case MarkerBoss:
		m.Details = BossDetails{
			BossName:    in.BossName,
			SpawnChance: derefInt(in.SpawnChance),
			Guards:      derefInt(in.Guards),
		}
	case MarkerExtract:
		m.Details = ExtractDetails{
			Requirements:    in.Requirements,
			AlwaysAvailable: derefBool(in.AlwaysAvailable),
			PMC:             derefBool(in.PMC),
			ScavOnly:        derefBool(in.ScavOnly),
		}
	case MarkerQuest:
		m.Details = QuestDetails{QuestGiver: in.QuestGiver, Objective: in.Objective}
	case MarkerQuestItem:
		m.Details = QuestItemDetails{ItemName: in.ItemName, NeededFor: in.NeededFor}
	}

	return m
}

// MarkerUpdate is the request body for a partial marker update.
// There is no id or type field: both are immutable.
type MarkerUpdate struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Description *string  `json:"description,omitempty"`

	LootType *string `json:"loot_type,omitempty" validate:"omitempty,oneof=weapon medical tech valuables food"`
	Quality  *string `json:"quality,omitempty" validate:"omitempty,oneof=high medium low"`

	BossName    *string `json:"boss_name,omitempty" validate:"omitempty,min=1"`
	SpawnChance *int    `json:"spawn_chance,omitempty" validate:"omitempty,gte=0,lte=100"`
	Guards      *int    `json:"guards,omitempty" validate:"omitempty,gte=0"`

	Requirements    *string `json:"requirements,omitempty"`
	AlwaysAvailable *bool   `json:"always_available,omitempty"`
	PMC             *bool   `json:"pmc,omitempty"`
	ScavOnly        *bool   `json:"scav_only,omitempty"`

	QuestGiver *string `json:"quest_giver,omitempty"`
	Objective  *string `json:"objective,omitempty"`

	ItemName  *string `json:"item_name,omitempty"`
	NeededFor *string `json:"needed_for,omitempty"`
}

// Apply merges the supplied fields into m and bumps UpdatedAt.
// Variant fields are only applied when they belong to m's type.
func (u *MarkerUpdate) Apply(m *Marker, now time.Time) {
	setString(&m.Name, u.Name)
	setFloat(&m.X, u.X)
	setFloat(&m.Y, u.Y)
	setString(&m.Description, u.Description)

	switch d := m.Details.(type) {
	case LootDetails:
		setString(&d.LootType, u.LootType)
		setString(&d.Quality, u.Quality)
		m.Details = d
	case BossDetails:
		setString(&d.BossName, u.BossName)
		setInt(&d.SpawnChance, u.SpawnChance)
		setInt(&d.Guards, u.Guards)
		m.Details = d
	case ExtractDetails:
		setString(&d.Requirements, u.Requirements)
		setBool(&d.AlwaysAvailable, u.AlwaysAvailable)
		setBool(&d.PMC, u.PMC)
		setBool(&d.ScavOnly, u.ScavOnly)
		m.Details = d
	case QuestDetails:
		setString(&d.QuestGiver, u.QuestGiver)
		setString(&d.Objective, u.Objective)
		m.Details = d
	case QuestItemDetails:
		setString(&d.ItemName, u.ItemName)
		setString(&d.NeededFor, u.NeededFor)
		m.Details = d
	}

	m.UpdatedAt = now
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
