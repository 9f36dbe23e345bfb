package main

import (
	"math/rand"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/typerace/internal/metrics"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/race"
	"github.com/verte-zerg/typerace/internal/rooms"
)

func quickSimulation(t *testing.T, seed int64) simulation {
	t.Helper()
	room, ok := rooms.Find("room-quick-1")
	if !ok {
		t.Fatalf("missing room-quick-1")
	}
	setup := race.SetupFor(room)
	setup.Countdown = 0
	return simulation{
		setup:      setup,
		seed:       seed,
		tick:       120 * time.Millisecond,
		playerWPM:  60,
		accuracy:   100,
		maxElapsed: 10 * time.Minute,
	}
}

func TestSimulationFinishes(t *testing.T) {
	snap, err := quickSimulation(t, 7).run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if snap.Phase != model.PhaseFinished {
		t.Fatalf("expected finished race, got %s", snap.Phase)
	}
	if snap.Player.Accuracy != 100 || snap.Player.Progress != 1 {
		t.Fatalf("unexpected player stats %+v", snap.Player)
	}
	// the race runs on until the slowest bot finishes, so WPM is over the whole race
	if want := metrics.WPM(utf8.RuneCountInString(snap.Passage), snap.Player.ElapsedMs); snap.Player.WPM != want {
		t.Fatalf("expected WPM %d over %d ms, got %d", want, snap.Player.ElapsedMs, snap.Player.WPM)
	}
	if len(snap.Standings) != 5 {
		t.Fatalf("expected 5 standings, got %d", len(snap.Standings))
	}
	for _, s := range snap.Standings {
		if !s.Finished {
			t.Fatalf("racer %s unfinished in final standings", s.ID)
		}
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	a, err := quickSimulation(t, 42).run()
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	b, err := quickSimulation(t, 42).run()
	if err != nil {
		t.Fatalf("run b: %v", err)
	}
	if diff := cmp.Diff(a.Standings, b.Standings); diff != "" {
		t.Fatalf("standings differ (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a.Player, b.Player); diff != "" {
		t.Fatalf("player differs (-a +b):\n%s", diff)
	}
}

func TestSimulationGivesUp(t *testing.T) {
	sim := quickSimulation(t, 1)
	sim.maxElapsed = time.Second
	if _, err := sim.run(); err == nil || !strings.Contains(err.Error(), "did not finish") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestSimulationValidates(t *testing.T) {
	sim := quickSimulation(t, 1)
	sim.accuracy = 101
	if _, err := sim.run(); err == nil {
		t.Fatalf("expected accuracy validation error")
	}
	sim = quickSimulation(t, 1)
	sim.playerWPM = 0
	if _, err := sim.run(); err == nil {
		t.Fatalf("expected wpm validation error")
	}
}

func TestGhostTyping(t *testing.T) {
	g := newGhost("abc def", 60, 100, rand.New(rand.NewSource(1)))
	if got := g.textAt(0); got != "" {
		t.Fatalf("expected nothing typed at start, got %q", got)
	}
	// 60 WPM is one character every 200ms.
	if got := g.textAt(600); got != "abc" {
		t.Fatalf("expected %q, got %q", "abc", got)
	}
	if got := g.textAt(time.Minute.Milliseconds()); got != "abc def" {
		t.Fatalf("expected full text, got %q", got)
	}

	sloppy := newGhost("aaaa", 60, 0, rand.New(rand.NewSource(1)))
	if got := sloppy.textAt(time.Minute.Milliseconds()); got != "xxxx" {
		t.Fatalf("expected every keystroke mistyped, got %q", got)
	}
}

func TestSimulationRoom(t *testing.T) {
	room, err := simulationRoom(model.Config{Difficulty: "hard"})
	if err != nil || room.ID != "room-pro-3" {
		t.Fatalf("expected room-pro-3, got %+v (%v)", room, err)
	}
	if _, err := simulationRoom(model.Config{Room: "nope"}); err == nil || !strings.Contains(err.Error(), "room-quick-1") {
		t.Fatalf("expected error listing rooms, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.Config
		ok   bool
	}{
		{name: "defaults", cfg: model.Config{Tick: 120 * time.Millisecond, Countdown: 3}, ok: true},
		{name: "zero tick", cfg: model.Config{Countdown: 3}},
		{name: "negative countdown", cfg: model.Config{Tick: time.Millisecond, Countdown: -1}},
		{name: "bad level", cfg: model.Config{Tick: time.Millisecond, LogLevel: "loud"}},
	}
	for _, tt := range tests {
		err := validateConfig(tt.cfg)
		if (err == nil) != tt.ok {
			t.Fatalf("%s: validateConfig error = %v", tt.name, err)
		}
	}
}
