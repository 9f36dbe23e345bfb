// Package passage maps difficulties to race text and bot speed ranges.
package passage

import (
	"strings"

	"github.com/verte-zerg/typerace/internal/model"
)

var texts = map[model.Difficulty]string{
	model.Easy:   "Speed boosts help drivers fly past the city lights. Keep your hands relaxed and let the rhythm guide your typing.",
	model.Medium: "Precision matters as engines hum in harmony. Maintain accuracy while the track curves through neon reflections.",
	model.Hard:   "Under the roaring floodlights, every millisecond counts. Your focus becomes the throttle and the keyboard your track.",
}

// Range is an inclusive WPM interval.
type Range struct {
	Min int
	Max int
}

var ranges = map[model.Difficulty]Range{
	model.Easy:   {Min: 30, Max: 45},
	model.Medium: {Min: 45, Max: 70},
	model.Hard:   {Min: 65, Max: 100},
}

// FallbackRange applies to difficulties without a configured range.
var FallbackRange = Range{Min: 40, Max: 60}

// Parse normalizes a difficulty label. Known labels match case-insensitively;
// unknown labels are kept verbatim so callers can display them.
func Parse(label string) model.Difficulty {
	trimmed := strings.TrimSpace(label)
	for _, d := range []model.Difficulty{model.Easy, model.Medium, model.Hard} {
		if strings.EqualFold(trimmed, string(d)) {
			return d
		}
	}
	return model.Difficulty(trimmed)
}

// Known reports whether d has its own passage and range.
func Known(d model.Difficulty) bool {
	_, ok := texts[d]
	return ok
}

// Text returns the passage for d, falling back to the Medium passage.
func Text(d model.Difficulty) string {
	if text, ok := texts[d]; ok {
		return text
	}
	return texts[model.Medium]
}

// WPMRange returns the bot speed range for d.
func WPMRange(d model.Difficulty) Range {
	if r, ok := ranges[d]; ok {
		return r
	}
	return FallbackRange
}
