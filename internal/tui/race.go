package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/report"
)

const (
	defaultWidth = 80
	laneNameCols = 10
	glyphCols    = 2
)

// raceEngine is the part of race.Engine the view talks to.
type raceEngine interface {
	SetInput(text string)
	Restart()
	Stop()
	Snapshots() <-chan model.Snapshot
}

type snapshotMsg struct {
	source raceEngine
	snap   model.Snapshot
}

type engineClosedMsg struct {
	source raceEngine
}

type leaveMsg struct{}

func waitForSnapshot(e raceEngine) tea.Cmd {
	ch := e.Snapshots()
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return engineClosedMsg{source: e}
		}
		return snapshotMsg{source: e, snap: snap}
	}
}

// raceModel renders one race and forwards keystrokes to its engine.
type raceModel struct {
	engine  raceEngine
	snap    model.Snapshot
	hasSnap bool
	closed  bool

	input []rune

	width  int
	height int

	playerBar progress.Model
	botBar    progress.Model
	help      help.Model
	keys      raceKeys
}

func newRaceModel(engine raceEngine, width, height int) *raceModel {
	m := &raceModel{
		engine:    engine,
		playerBar: progress.New(progress.WithGradient("#22D3EE", "#D946EF"), progress.WithoutPercentage()),
		botBar:    progress.New(progress.WithSolidFill("#8C8C8C"), progress.WithoutPercentage()),
		help:      help.New(),
		keys:      defaultRaceKeys,
	}
	m.resize(width, height)
	return m
}

func (m *raceModel) Init() tea.Cmd {
	return waitForSnapshot(m.engine)
}

func (m *raceModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil
	case snapshotMsg:
		if msg.source != m.engine {
			return nil
		}
		if msg.snap.RaceID != m.snap.RaceID {
			m.input = nil
		}
		m.snap = msg.snap
		m.hasSnap = true
		return waitForSnapshot(m.engine)
	case engineClosedMsg:
		if msg.source == m.engine {
			m.closed = true
		}
		return nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *raceModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Leave):
		m.engine.Stop()
		return func() tea.Msg { return leaveMsg{} }
	case key.Matches(msg, m.keys.Restart):
		m.input = nil
		m.engine.Restart()
		return nil
	}
	if !m.accepting() {
		return nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.input) == 0 {
			return nil
		}
		m.input = m.input[:len(m.input)-1]
	case tea.KeyCtrlW:
		m.input = dropLastWord(m.input)
	case tea.KeySpace:
		m.appendRunes([]rune{' '})
	case tea.KeyRunes:
		m.appendRunes(msg.Runes)
	default:
		return nil
	}
	m.engine.SetInput(string(m.input))
	return nil
}

// accepting mirrors the engine rule: input counts only while racing and
// until the whole passage has been typed.
func (m *raceModel) accepting() bool {
	if !m.hasSnap || m.closed {
		return false
	}
	return m.snap.Phase == model.PhaseRacing && !m.snap.Player.Done && !m.typedAll()
}

func (m *raceModel) typedAll() bool {
	return len(m.input) >= len([]rune(m.snap.Passage))
}

func (m *raceModel) appendRunes(runes []rune) {
	for _, r := range runes {
		if m.typedAll() {
			return
		}
		m.input = append(m.input, r)
	}
}

func dropLastWord(input []rune) []rune {
	end := len(input)
	for end > 0 && input[end-1] == ' ' {
		end--
	}
	for end > 0 && input[end-1] != ' ' {
		end--
	}
	return input[:end]
}

func (m *raceModel) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width = width
	m.height = height
	barWidth := maxInt(10, m.contentWidth()-laneNameCols-glyphCols-8)
	m.playerBar.Width = barWidth
	m.botBar.Width = barWidth
	m.help.Width = width
}

func (m *raceModel) contentWidth() int {
	return maxInt(20, int(float64(m.width)*0.70))
}

func (m *raceModel) View() string {
	if !m.hasSnap {
		return subtitleStyle.Render("Joining room...")
	}
	sections := []string{m.renderHeader()}
	if m.snap.Phase == model.PhaseCountdown {
		sections = append(sections, m.renderCountdown())
	} else {
		sections = append(sections,
			m.renderStats(),
			m.renderPassage(),
			m.renderLanes(),
		)
		if m.snap.Phase == model.PhaseFinished {
			sections = append(sections, m.renderFinish())
		}
	}
	sections = append(sections, m.help.View(m.keys))
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *raceModel) renderHeader() string {
	label := report.DifficultyLabel(m.snap.Difficulty)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		chipStyle.Render("Room: "+m.snap.RoomName),
		chipStyle.Render("Difficulty: "+difficultyStyle(string(m.snap.Difficulty)).Render(label)),
	)
}

func (m *raceModel) renderCountdown() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		countdownStyle.Render(fmt.Sprintf("%d", m.snap.Countdown)),
		subtitleStyle.Render("Get ready to race"),
	)
	return lipgloss.PlaceHorizontal(m.contentWidth(), lipgloss.Center, content)
}

func (m *raceModel) renderStats() string {
	p := m.snap.Player
	return lipgloss.JoinHorizontal(lipgloss.Top,
		chipStyle.Render(fmt.Sprintf("⏱ %ds", p.ElapsedMs/1000)),
		chipStyle.Render(fmt.Sprintf("🏁 %d%%", percent(p.Progress))),
		chipStyle.Render(fmt.Sprintf("⚙ %d%% acc", p.Accuracy)),
		chipStyle.Render(fmt.Sprintf("🚀 %d WPM", p.WPM)),
	)
}

func (m *raceModel) renderPassage() string {
	passage := []rune(m.snap.Passage)
	cursor := -1
	if m.snap.Phase == model.PhaseRacing && len(m.input) < len(passage) {
		cursor = len(m.input)
	}
	inner := m.contentWidth() - passageStyle.GetHorizontalFrameSize()
	wrapped := wrapCells(highlightPassage(passage, m.input, cursor), maxInt(1, inner))
	return passageStyle.Width(m.contentWidth()).Render(wrapped)
}

func (m *raceModel) renderLanes() string {
	lines := make([]string, 0, len(m.snap.Racers))
	for _, r := range m.snap.Racers {
		bar := m.botBar.ViewAs(r.Progress)
		if r.Player {
			bar = m.playerBar.ViewAs(r.Progress)
		}
		status := fmt.Sprintf("%3d%%", percent(r.Progress))
		if r.Done {
			status += " ✓"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			padGlyph(r.Glyph),
			laneNameStyle.Render(runewidth.FillRight(runewidth.Truncate(r.Name, laneNameCols, ""), laneNameCols)),
			bar,
			status,
		))
	}
	return strings.Join(lines, "\n")
}

func (m *raceModel) renderFinish() string {
	p := m.snap.Player
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Finished! WPM %d • Accuracy %d%% • Time %ds\n\n", p.WPM, p.Accuracy, p.ElapsedMs/1000)
	if err := report.RenderStandings(&buf, m.snap.Standings, m.contentWidth()); err != nil {
		fmt.Fprintf(&buf, "failed to render standings: %v\n", err)
	}
	if len(m.snap.WPMTrace) > 0 {
		fmt.Fprintf(&buf, "\nWPM %s", report.Sparkline(report.Downsample(m.snap.WPMTrace, m.contentWidth()-8)))
	}
	return finishStyle.Render(strings.TrimRight(buf.String(), "\n"))
}

func padGlyph(glyph string) string {
	if runewidth.StringWidth(glyph) >= glyphCols {
		return glyph
	}
	return runewidth.FillRight(glyph, glyphCols)
}

func percent(fraction float64) int {
	return int(fraction*100 + 0.5)
}
