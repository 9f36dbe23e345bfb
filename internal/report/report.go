// Package report renders rooms and race results as plain text.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/passage"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	minBarWidth         = 10
)

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ProgressBar renders fraction as a fixed-width ASCII bar.
func ProgressBar(fraction float64, width int) string {
	if width < 1 {
		width = 1
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return append([]float64(nil), values...)
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// DifficultyLabel names d for display. Difficulties without their own
// passage race on the fallback text and are marked as such.
func DifficultyLabel(d model.Difficulty) string {
	if passage.Known(d) {
		return string(d)
	}
	if d == "" {
		return "Unknown (fallback)"
	}
	return string(d) + " (fallback)"
}

// RenderRooms prints the room catalog.
func RenderRooms(w io.Writer, rooms []model.Room) error {
	if len(rooms) == 0 {
		_, err := fmt.Fprintln(w, "No rooms found.")
		return err
	}
	headers := []string{"ID", "Room", "Difficulty", "Waiting", "Racers", "Tags"}
	rows := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		tags := make([]string, 0, len(r.Tags))
		for _, tag := range r.Tags {
			tags = append(tags, "#"+tag)
		}
		rows = append(rows, []string{
			r.ID,
			r.Name,
			DifficultyLabel(r.Difficulty),
			fmt.Sprintf("%d", len(r.Glyphs)),
			strings.Join(r.Glyphs, " "),
			strings.Join(tags, " "),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderStandings prints final results with a progress bar per racer.
func RenderStandings(w io.Writer, standings []model.Standing, totalWidth int) error {
	if len(standings) == 0 {
		_, err := fmt.Fprintln(w, "No racers.")
		return err
	}
	barWidth := totalWidth / 3
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	headers := []string{"#", "", "Racer", "Time", "Progress"}
	rows := make([][]string, 0, len(standings))
	for _, s := range standings {
		name := s.Name
		if s.Player {
			name += " *"
		}
		finish := "DNF"
		if s.Finished {
			finish = fmt.Sprintf("%.1fs", float64(s.FinishedMs)/1000)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Rank),
			s.Glyph,
			name,
			finish,
			ProgressBar(s.Progress, barWidth),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints the player's final metrics and WPM trace.
func RenderSummary(w io.Writer, snap model.Snapshot, totalWidth int) error {
	p := snap.Player
	if _, err := fmt.Fprintf(w, "%s · %s\n", snap.RoomName, DifficultyLabel(snap.Difficulty)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "WPM %d · Accuracy %d%% · Time %ds\n", p.WPM, p.Accuracy, p.ElapsedMs/1000); err != nil {
		return err
	}
	if len(snap.WPMTrace) > 0 {
		width := totalWidth - len("WPM trace: ")
		if width < minBarWidth {
			width = minBarWidth
		}
		if _, err := fmt.Fprintf(w, "WPM trace: %s\n", Sparkline(Downsample(snap.WPMTrace, width))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
