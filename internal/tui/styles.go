// Package tui provides the Bubble Tea lobby and race interface.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EE7B7"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Copy().Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))

	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	chipStyle     = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D0D0D0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	passageStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 4)
	finishStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6EE7B7")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#2F855A"))
	laneNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))

	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

var difficultyColors = map[string]lipgloss.Color{
	"Easy":   lipgloss.Color("#6EE7B7"),
	"Medium": lipgloss.Color("#FCD34D"),
	"Hard":   lipgloss.Color("#FDA4AF"),
}

func difficultyStyle(label string) lipgloss.Style {
	color, ok := difficultyColors[label]
	if !ok {
		color = lipgloss.Color("#CBD5E1")
	}
	return lipgloss.NewStyle().Foreground(color)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
