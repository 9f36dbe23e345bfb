package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/report"
	"github.com/verte-zerg/typerace/internal/rooms"
)

type joinMsg struct {
	room model.Room
}

// lobbyModel lists rooms with a difficulty filter.
type lobbyModel struct {
	filters []string
	active  int
	rooms   []model.Room
	table   table.Model
	help    help.Model
	keys    lobbyKeys

	width  int
	height int
}

func newLobbyModel(filter string) *lobbyModel {
	m := &lobbyModel{
		filters: rooms.Filters,
		help:    help.New(),
		keys:    defaultLobbyKeys,
	}
	for i, f := range m.filters {
		if strings.EqualFold(f, strings.TrimSpace(filter)) {
			m.active = i
		}
	}
	m.table = table.New(
		table.WithColumns(lobbyColumns()),
		table.WithFocused(true),
		table.WithHeight(6),
	)
	m.table.SetStyles(lobbyTableStyles())
	m.applyFilter()
	return m
}

func lobbyColumns() []table.Column {
	return []table.Column{
		{Title: "Room", Width: 16},
		{Title: "Difficulty", Width: 10},
		{Title: "Waiting", Width: 7},
		{Title: "Racers", Width: 16},
		{Title: "Tags", Width: 24},
	}
}

func lobbyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A3A3A")).
		Bold(true)
	return styles
}

func (m *lobbyModel) filter() string {
	return m.filters[m.active]
}

func (m *lobbyModel) applyFilter() {
	m.rooms = rooms.Filter(m.filter())
	rows := make([]table.Row, 0, len(m.rooms))
	for _, r := range m.rooms {
		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, "#"+t)
		}
		rows = append(rows, table.Row{
			r.Name,
			report.DifficultyLabel(r.Difficulty),
			fmt.Sprintf("%d", len(r.Glyphs)),
			strings.Join(r.Glyphs, " "),
			strings.Join(tags, " "),
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *lobbyModel) moveFilter(delta int) {
	count := len(m.filters)
	next := m.active + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.active = next
	m.applyFilter()
}

// selected returns the highlighted room, if any.
func (m *lobbyModel) selected() (model.Room, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rooms) {
		return model.Room{}, false
	}
	return m.rooms[idx], true
}

func (m *lobbyModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.moveFilter(-1)
			return nil
		case key.Matches(msg, m.keys.Next):
			m.moveFilter(1)
			return nil
		case key.Matches(msg, m.keys.Join):
			room, ok := m.selected()
			if !ok {
				return nil
			}
			return func() tea.Msg { return joinMsg{room: room} }
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *lobbyModel) renderTabs() string {
	parts := make([]string, 0, len(m.filters))
	for i, f := range m.filters {
		if i == m.active {
			parts = append(parts, activeNavStyle.Render(f))
		} else {
			parts = append(parts, inactiveNavStyle.Render(f))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *lobbyModel) View() string {
	var body string
	if len(m.rooms) == 0 {
		body = subtitleStyle.Render("No rooms for this difficulty.")
	} else {
		body = m.table.View()
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚡ TypeRacer Live"),
		subtitleStyle.Render("Join a room and race in real-time"),
		"",
		m.renderTabs(),
		body,
		"",
		m.help.View(m.keys),
	)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
