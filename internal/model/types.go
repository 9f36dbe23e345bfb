// Package model defines shared data structures.
package model

import "time"

// Difficulty selects the passage and the bot speed range of a race.
type Difficulty string

// Known difficulties. Anything else resolves to the fallback passage and range.
const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Phase is the lifecycle stage of a race.
type Phase int

const (
	PhaseCountdown Phase = iota
	PhaseRacing
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseRacing:
		return "racing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Config defines race settings resolved from flags and the config file.
type Config struct {
	Room       string
	Difficulty string
	Seed       int64
	Tick       time.Duration
	Countdown  int
	LogFile    string
	LogLevel   string
}

// RosterEntry identifies an opponent supplied by the lobby.
type RosterEntry struct {
	ID    string
	Glyph string
}

// Room is a lobby entry that a player can join.
type Room struct {
	ID         string
	Name       string
	Difficulty Difficulty
	Tags       []string
	Glyphs     []string
}

// RacerView is the rendered state of one racer.
type RacerView struct {
	ID       string
	Name     string
	Glyph    string
	Player   bool
	Progress float64
	Done     bool
}

// PlayerStats carries the player's live metrics.
type PlayerStats struct {
	Progress  float64
	Accuracy  int
	WPM       int
	ElapsedMs int64
	Done      bool
}

// Snapshot is an immutable view of a race at one instant.
type Snapshot struct {
	RaceID     string
	RoomName   string
	Difficulty Difficulty
	Phase      Phase
	Countdown  int
	Passage    string
	Input      string
	Racers     []RacerView
	Player     PlayerStats
	WPMTrace   []float64
	Standings  []Standing
}

// Standing is one row of the final results.
type Standing struct {
	Rank       int
	ID         string
	Name       string
	Glyph      string
	Player     bool
	Finished   bool
	FinishedMs int64
	Progress   float64
}
