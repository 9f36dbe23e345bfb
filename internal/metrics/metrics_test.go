package metrics

import (
	"strings"
	"testing"
)

func TestAccuracyEmptyInput(t *testing.T) {
	for _, target := range []string{"a", "cat", "Under the roaring floodlights"} {
		if got := Accuracy("", target); got != 100 {
			t.Fatalf("expected 100 for empty input against %q, got %d", target, got)
		}
	}
}

func TestAccuracyCountsPositions(t *testing.T) {
	tests := []struct {
		input  string
		target string
		want   int
	}{
		{"cat", "cat", 100},
		{"cot", "cat", 67},
		{"dog", "cat", 0},
		{"ca", "cat", 100},
		{"cats", "cat", 75},
		{"héllo", "hello", 80},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.input, tt.target); got != tt.want {
			t.Fatalf("Accuracy(%q, %q) = %d, want %d", tt.input, tt.target, got, tt.want)
		}
	}
}

func TestWPMZeroElapsed(t *testing.T) {
	for _, chars := range []int{0, 1, 100, -5} {
		if got := WPM(chars, 0); got != 0 {
			t.Fatalf("expected 0 WPM at zero elapsed for %d chars, got %d", chars, got)
		}
	}
	if got := WPM(50, -100); got != 0 {
		t.Fatalf("expected 0 WPM for negative elapsed, got %d", got)
	}
}

func TestWPMNeverNegative(t *testing.T) {
	if got := WPM(-50, 60000); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := RawWPM(-50, 60000); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestProgressClamped(t *testing.T) {
	target := "cat"
	for _, input := range []string{"", "c", "ca", "cat", "cats", strings.Repeat("x", 40)} {
		p := Progress(input, target)
		if p < 0 || p > 1 {
			t.Fatalf("progress %f out of range for %q", p, input)
		}
	}
	if got := Progress("cats", target); got != 1 {
		t.Fatalf("expected overflow input to clamp at 1, got %f", got)
	}
	if got := Progress("", ""); got != 1 {
		t.Fatalf("expected empty target to be complete, got %f", got)
	}
}

func TestScenarioCat(t *testing.T) {
	if got := Progress("cat", "cat"); got != 1 {
		t.Fatalf("progress = %f", got)
	}
	if got := Accuracy("cat", "cat"); got != 100 {
		t.Fatalf("accuracy = %d", got)
	}
	if got := WPM(3, 6000); got != 6 {
		t.Fatalf("wpm = %d", got)
	}
}

func TestDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if Accuracy("speeed", "speed") != Accuracy("speeed", "speed") {
			t.Fatalf("accuracy not deterministic")
		}
		if WPM(123, 45678) != WPM(123, 45678) {
			t.Fatalf("wpm not deterministic")
		}
	}
}
