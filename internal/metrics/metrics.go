// Package metrics computes progress, accuracy and WPM for typed text.
package metrics

import (
	"math"
	"unicode/utf8"
)

const charsPerWord = 5.0

// Progress returns the typed fraction of target, clamped to [0,1].
// An empty target counts as fully typed.
func Progress(input, target string) float64 {
	return ProgressLen(utf8.RuneCountInString(input), utf8.RuneCountInString(target))
}

// ProgressLen is Progress for precomputed character counts.
func ProgressLen(typed, total int) float64 {
	if total <= 0 {
		return 1
	}
	if typed <= 0 {
		return 0
	}
	return math.Min(1, float64(typed)/float64(total))
}

// Accuracy returns the rounded percentage of typed characters matching target
// at the same position. Nothing typed yet is 100.
func Accuracy(input, target string) int {
	typed := []rune(input)
	if len(typed) == 0 {
		return 100
	}
	expected := []rune(target)
	correct := 0
	for i, r := range typed {
		if i < len(expected) && r == expected[i] {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(typed))))
}

// WPM converts characters typed over elapsedMs into words per minute using
// the five-characters-per-word convention.
func WPM(charsTyped int, elapsedMs int64) int {
	if elapsedMs <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / 60000.0
	wpm := math.Round((float64(charsTyped) / charsPerWord) / minutes)
	if wpm < 0 {
		return 0
	}
	return int(wpm)
}

// RawWPM is WPM without rounding, used for traces.
func RawWPM(charsTyped int, elapsedMs int64) float64 {
	if elapsedMs <= 0 {
		return 0
	}
	return math.Max(0, (float64(charsTyped)/charsPerWord)/(float64(elapsedMs)/60000.0))
}
