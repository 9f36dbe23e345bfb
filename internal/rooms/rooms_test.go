package rooms

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/typerace/internal/model"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"All", []string{"room-quick-1", "room-city-2", "room-pro-3"}},
		{"", []string{"room-quick-1", "room-city-2", "room-pro-3"}},
		{"Easy", []string{"room-quick-1"}},
		{"medium", []string{"room-city-2"}},
		{"Hard", []string{"room-pro-3"}},
		{"Legendary", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, r := range Filter(tt.label) {
			got = append(got, r.ID)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Filter(%q) mismatch (-want +got):\n%s", tt.label, diff)
		}
	}
}

func TestFindReturnsCopy(t *testing.T) {
	room, ok := Find("room-pro-3")
	if !ok {
		t.Fatalf("expected room-pro-3")
	}
	if room.Difficulty != model.Hard || len(room.Glyphs) != 5 {
		t.Fatalf("unexpected room %+v", room)
	}
	room.Glyphs[0] = "x"
	again, _ := Find("room-pro-3")
	if again.Glyphs[0] == "x" {
		t.Fatalf("catalog mutated through returned room")
	}
	if _, ok := Find("nope"); ok {
		t.Fatalf("expected unknown room to be missing")
	}
}
