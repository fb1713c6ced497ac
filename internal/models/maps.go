package models

// GameMap describes a playable map. The catalog is static configuration.
type GameMap struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"` // path under the frontend's public dir
}

// Maps returns the map catalog
func Maps() []GameMap {
	return []GameMap{
		{ID: "customs", Name: "Customs", Description: "Classic map with heavy PvP and important quests", Image: "/maps/Customs.png"},
		{ID: "woods", Name: "Woods", Description: "Large forested map with snipers and Shturman", Image: "/maps/Woods.png"},
		{ID: "interchange", Name: "Interchange", Description: "Massive shopping mall with tech loot", Image: "/maps/Interchange.png"},
		{ID: "shoreline", Name: "Shoreline", Description: "Luxury resort with quests and Sanitar", Image: "/maps/Shoreline.png"},
	}
}

// MapByID looks up a catalog entry
func MapByID(id string) (GameMap, bool) {
	for _, m := range Maps() {
		if m.ID == id {
			return m, true
		}
	}
	return GameMap{}, false
}
