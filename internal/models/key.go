package models

import "time"

// UnlimitedUses marks a key that never breaks
const UnlimitedUses = -1

// DefaultWorth is assigned to keys created without a worth
const DefaultWorth = "medium"

// Key represents a key item. A key may or may not be pinned on its map.
type Key struct {
	ID        string    `json:"id"`
	MapID     string    `json:"map_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"` // where the key is found
	Uses      int       `json:"uses"`     // -1 for unlimited
	Worth     string    `json:"worth"`    // high, medium, low
	Unlocks   string    `json:"unlocks"`
	X         *float64  `json:"x,omitempty"`
	Y         *float64  `json:"y,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pinned reports whether the key has a map position
func (k Key) Pinned() bool {
	return k.X != nil && k.Y != nil
}

// KeyInput is the request body for creating a key
type KeyInput struct {
	ID       string   `json:"id" validate:"required"`
	MapID    string   `json:"map_id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Location string   `json:"location" validate:"required"`
	Uses     *int     `json:"uses,omitempty" validate:"omitempty,gte=-1"`
	Worth    string   `json:"worth,omitempty" validate:"omitempty,oneof=high medium low"`
	Unlocks  string   `json:"unlocks" validate:"required"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
}

// Build converts a validated input into a key stamped with now,
// filling in the default uses and worth
func (in *KeyInput) Build(now time.Time) Key {
	k := Key{
		ID:        in.ID,
		MapID:     in.MapID,
		Name:      in.Name,
		Location:  in.Location,
		Uses:      UnlimitedUses,
		Worth:     in.Worth,
		Unlocks:   in.Unlocks,
		X:         in.X,
		Y:         in.Y,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Uses != nil {
		k.Uses = *in.Uses
	}
	if k.Worth == "" {
		k.Worth = DefaultWorth
	}
	return k
}

// KeyUpdate is the request body for a partial key update
type KeyUpdate struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Location *string  `json:"location,omitempty"`
	Uses     *int     `json:"uses,omitempty" validate:"omitempty,gte=-1"`
	Worth    *string  `json:"worth,omitempty" validate:"omitempty,oneof=high medium low"`
	Unlocks  *string  `json:"unlocks,omitempty"`
	X        *float64 `json:"x,omitempty" validate:"excluded_with=Unpin"`
	Y        *float64 `json:"y,omitempty" validate:"excluded_with=Unpin"`
	Unpin    bool     `json:"unpin,omitempty"` // removes the map position
}

// Apply merges the supplied fields into k and bumps UpdatedAt
func (u *KeyUpdate) Apply(k *Key, now time.Time) {
	setString(&k.Name, u.Name)
	setString(&k.Location, u.Location)
	setInt(&k.Uses, u.Uses)
	setString(&k.Worth, u.Worth)
	setString(&k.Unlocks, u.Unlocks)
	if u.X != nil {
		x := *u.X
		k.X = &x
	}
	if u.Y != nil {
		y := *u.Y
		k.Y = &y
	}
	if u.Unpin {
		k.X, k.Y = nil, nil
	}
	k.UpdatedAt = now
}
