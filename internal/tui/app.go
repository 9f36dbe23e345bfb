package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerace/internal/bot"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/race"
)

// EngineFactory builds a race engine for a room.
type EngineFactory func(room model.Room) *race.Engine

// NewEngineFactory returns a factory that applies cfg to every race.
func NewEngineFactory(cfg model.Config, sampler *bot.Sampler, logger *zap.Logger) EngineFactory {
	return func(room model.Room) *race.Engine {
		setup := race.SetupFor(room)
		setup.Countdown = cfg.Countdown
		return race.NewEngine(setup,
			race.WithSampler(sampler),
			race.WithLogger(logger),
			race.WithTickInterval(cfg.Tick),
		)
	}
}

// App switches between the lobby and a race.
type App struct {
	newEngine EngineFactory
	logger    *zap.Logger
	lobby     *lobbyModel
	race      *raceModel
	initial   *model.Room

	last    model.Snapshot
	hasLast bool

	width  int
	height int
}

// NewApp constructs the application model. When room is non-nil the lobby is
// skipped and that room is joined immediately.
func NewApp(cfg model.Config, newEngine EngineFactory, logger *zap.Logger, room *model.Room) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		newEngine: newEngine,
		logger:    logger,
		lobby:     newLobbyModel(cfg.Difficulty),
		initial:   room,
	}
}

// LastResult returns the most recent finished race, if any.
func (a *App) LastResult() (model.Snapshot, bool) {
	return a.last, a.hasLast
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.initial == nil {
		return nil
	}
	return a.join(*a.initial)
}

func (a *App) join(room model.Room) tea.Cmd {
	engine := a.newEngine(room)
	go engine.Run(context.Background())
	a.logger.Info("joined room", zap.String("room", room.ID))
	a.race = newRaceModel(engine, a.width, a.height)
	return a.race.Init()
}

func (a *App) leave() {
	if a.race == nil {
		return
	}
	a.race.engine.Stop()
	a.race = nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		cmd := a.lobby.Update(msg)
		if a.race != nil {
			a.race.Update(msg)
		}
		return a, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.leave()
			return a, tea.Quit
		}
	case joinMsg:
		a.leave()
		return a, a.join(msg.room)
	case leaveMsg:
		a.logger.Info("left room")
		a.leave()
		return a, nil
	case snapshotMsg:
		if a.race != nil && msg.source == a.race.engine && msg.snap.Phase == model.PhaseFinished {
			a.last = msg.snap
			a.hasLast = true
		}
	}
	if a.race != nil {
		return a, a.race.Update(msg)
	}
	switch msg.(type) {
	case snapshotMsg, engineClosedMsg:
		return a, nil
	}
	return a, a.lobby.Update(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.race != nil {
		return a.race.View()
	}
	return a.lobby.View()
}
