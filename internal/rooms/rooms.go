// Package rooms holds the catalog of joinable race rooms.
package rooms

import (
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/passage"
)

// FilterAll matches every room.
const FilterAll = "All"

var catalog = []model.Room{
	{
		ID:         "room-quick-1",
		Name:       "Quick Sprint",
		Difficulty: model.Easy,
		Tags:       []string{"casual", "warmup"},
		Glyphs:     []string{"🚗", "🛵", "🚲", "🛼"},
	},
	{
		ID:         "room-city-2",
		Name:       "City Circuit",
		Difficulty: model.Medium,
		Tags:       []string{"focus", "balanced"},
		Glyphs:     []string{"🏎️", "🚕", "🚙"},
	},
	{
		ID:         "room-pro-3",
		Name:       "Pro Grand Prix",
		Difficulty: model.Hard,
		Tags:       []string{"competitive", "fast"},
		Glyphs:     []string{"🏎️", "🚓", "🚒", "🚐", "🚌"},
	},
}

// Filters lists the lobby filter labels in display order.
var Filters = []string{FilterAll, string(model.Easy), string(model.Medium), string(model.Hard)}

// All returns a copy of the catalog.
func All() []model.Room {
	return lo.Map(catalog, func(r model.Room, _ int) model.Room {
		return clone(r)
	})
}

// Filter returns rooms matching a difficulty label. Empty or "All" matches everything.
func Filter(label string) []model.Room {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, FilterAll) {
		return All()
	}
	d := passage.Parse(label)
	return lo.Filter(All(), func(r model.Room, _ int) bool {
		return r.Difficulty == d
	})
}

// Find looks up a room by id.
func Find(id string) (model.Room, bool) {
	room, ok := lo.Find(catalog, func(r model.Room) bool {
		return r.ID == id
	})
	if !ok {
		return model.Room{}, false
	}
	return clone(room), true
}

// IDs returns every room id in catalog order.
func IDs() []string {
	return lo.Map(catalog, func(r model.Room, _ int) string { return r.ID })
}

func clone(r model.Room) model.Room {
	r.Tags = append([]string(nil), r.Tags...)
	r.Glyphs = append([]string(nil), r.Glyphs...)
	return r
}
