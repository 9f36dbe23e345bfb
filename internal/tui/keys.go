package tui

import "github.com/charmbracelet/bubbles/key"

type raceKeys struct {
	Restart key.Binding
	Leave   key.Binding
	Quit    key.Binding
}

func (k raceKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Leave, k.Quit}
}

func (k raceKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultRaceKeys = raceKeys{
	Restart: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "restart")),
	Leave:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave room")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

type lobbyKeys struct {
	Prev key.Binding
	Next key.Binding
	Join key.Binding
	Quit key.Binding
}

func (k lobbyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Join, k.Quit}
}

func (k lobbyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultLobbyKeys = lobbyKeys{
	Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev filter")),
	Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next filter")),
	Join: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "join room")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
