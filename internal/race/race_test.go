package race

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/typerace/internal/bot"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/passage"
)

var t0 = time.Unix(1_700_000_000, 0)

func at(ms int64) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func seeded(seed int64) *bot.Sampler {
	return bot.NewSampler(rand.New(rand.NewSource(seed)))
}

func testSetup(text string, glyphs ...string) Setup {
	roster := make([]model.RosterEntry, 0, len(glyphs))
	for i, g := range glyphs {
		roster = append(roster, model.RosterEntry{ID: botID(i), Glyph: g})
	}
	return Setup{
		RoomName:   "Test Room",
		Difficulty: model.Medium,
		Passage:    text,
		Roster:     roster,
		Countdown:  DefaultCountdown,
	}
}

func startedRace(t *testing.T, setup Setup) *Race {
	t.Helper()
	setup.Countdown = 0
	r := New(setup, seeded(1), nil)
	if !r.Start(at(0)) {
		t.Fatalf("expected race to start")
	}
	return r
}

func TestCountdownSequence(t *testing.T) {
	r := New(testSetup("cat", "🚗"), seeded(1), nil)
	if r.Phase() != model.PhaseCountdown || r.Countdown() != 3 {
		t.Fatalf("expected Countdown(3), got %s(%d)", r.Phase(), r.Countdown())
	}
	if r.CountdownTick(at(-2000)) || r.Countdown() != 2 {
		t.Fatalf("expected Countdown(2), got %d", r.Countdown())
	}
	if r.CountdownTick(at(-1000)) || r.Countdown() != 1 {
		t.Fatalf("expected Countdown(1), got %d", r.Countdown())
	}
	if !r.CountdownTick(at(0)) {
		t.Fatalf("expected third tick to start the race")
	}
	if r.Phase() != model.PhaseRacing || r.Countdown() != 0 {
		t.Fatalf("expected Racing, got %s(%d)", r.Phase(), r.Countdown())
	}
	if r.CountdownTick(at(1000)) {
		t.Fatalf("countdown tick during racing must be a no-op")
	}
	if r.bots[0].Profile.TargetWPM == 0 {
		t.Fatalf("expected bot profile sampled on start")
	}
}

func TestInputIgnoredOutsideRacing(t *testing.T) {
	r := New(testSetup("cat"), seeded(1), nil)
	if r.SetInput("c", at(0)) {
		t.Fatalf("input must be ignored during countdown")
	}
	if r.Snapshot().Input != "" {
		t.Fatalf("unexpected input recorded")
	}
}

func TestScenarioPlayerOnly(t *testing.T) {
	r := startedRace(t, testSetup("cat"))
	if !r.SetInput("cat", at(6000)) {
		t.Fatalf("expected input accepted")
	}
	if !r.Tick(at(6000)) {
		t.Fatalf("expected race to finish")
	}
	snap := r.Snapshot()
	want := model.PlayerStats{Progress: 1, Accuracy: 100, WPM: 6, ElapsedMs: 6000, Done: true}
	if diff := cmp.Diff(want, snap.Player); diff != "" {
		t.Fatalf("player stats mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerFinishingFirstKeepsRacing(t *testing.T) {
	text := strings.Repeat("a", 100)
	r := startedRace(t, testSetup(text, "🚗", "🛵"))
	r.bots[0].Profile = bot.Profile{TargetWPM: 100, Variance: 1.2}
	r.bots[1].Profile = bot.Profile{TargetWPM: 60, Variance: 1.0}

	r.SetInput(text, at(18000))
	if r.Tick(at(18000)) {
		t.Fatalf("race must not finish while a bot is still running")
	}
	if r.Phase() != model.PhaseRacing {
		t.Fatalf("expected Racing, got %s", r.Phase())
	}
	if r.bots[1].Progress < 0.89 || r.bots[1].Progress > 0.91 || r.bots[1].Done {
		t.Fatalf("expected slow bot near 0.9, got %+v", r.bots[1])
	}
	if got := r.Snapshot().Player.WPM; got != 67 {
		t.Fatalf("expected WPM 67 at 18000 ms, got %d", got)
	}
	if r.SetInput(text+"x", at(18500)) {
		t.Fatalf("input must lock once the player has finished")
	}

	if !r.Tick(at(20000)) {
		t.Fatalf("expected race to finish once every bot is done")
	}
	frozen := r.Snapshot()
	if frozen.Player.ElapsedMs != 20000 {
		t.Fatalf("expected elapsed frozen at 20000, got %d", frozen.Player.ElapsedMs)
	}
	// 100 chars over 20s, not over the player's own 18s
	if frozen.Player.WPM != 60 {
		t.Fatalf("expected WPM from race elapsed (60), got %d", frozen.Player.WPM)
	}
	if r.Tick(at(25000)) {
		t.Fatalf("finish must fire exactly once")
	}
	if diff := cmp.Diff(frozen, r.Snapshot()); diff != "" {
		t.Fatalf("finished race changed after stray tick:\n%s", diff)
	}
}

func TestBotsDoneButPlayerNotKeepsRacing(t *testing.T) {
	r := startedRace(t, testSetup("cat", "🚗"))
	if r.Tick(at(60000)) {
		t.Fatalf("race must wait for the player")
	}
	if !r.bots[0].Done {
		t.Fatalf("expected bot done")
	}
	r.SetInput("cax", at(61000))
	if !r.Tick(at(61000)) {
		t.Fatalf("expected race to finish after player completes")
	}
	if got := r.Snapshot().Player.Accuracy; got != 67 {
		t.Fatalf("expected accuracy 67, got %d", got)
	}
}

func TestEmptyPassageFinishesOnFirstTick(t *testing.T) {
	r := startedRace(t, testSetup("", "🚗", "🛵", "🚲"))
	for _, v := range r.Snapshot().Racers {
		if !v.Done || v.Progress != 1 {
			t.Fatalf("expected %s done on entering racing: %+v", v.ID, v)
		}
	}
	if !r.Tick(at(120)) {
		t.Fatalf("expected end condition on first tick")
	}
	if r.Phase() != model.PhaseFinished {
		t.Fatalf("expected Finished, got %s", r.Phase())
	}
}

func TestBotsMonotonicAcrossTicks(t *testing.T) {
	r := startedRace(t, SetupFor(model.Room{
		Name:       "Pro",
		Difficulty: model.Hard,
		Glyphs:     []string{"🏎️", "🚓", "🚒", "🚐", "🚌"},
	}))
	prev := make(map[string]float64)
	done := make(map[string]bool)
	// irregular cadence: missed ticks must not matter
	for _, ms := range []int64{120, 240, 250, 1000, 7000, 7120, 30000, 31000, 90000, 90120} {
		r.Tick(at(ms))
		for _, v := range r.Snapshot().Racers {
			if v.Player {
				continue
			}
			if v.Progress < prev[v.ID] {
				t.Fatalf("%s regressed at %d ms", v.ID, ms)
			}
			if done[v.ID] && !v.Done {
				t.Fatalf("%s un-finished at %d ms", v.ID, ms)
			}
			if v.Done != (v.Progress >= 1) {
				t.Fatalf("%s done flag inconsistent: %+v", v.ID, v)
			}
			prev[v.ID] = v.Progress
			done[v.ID] = v.Done
		}
	}
}

func TestSeededRacesAreReproducible(t *testing.T) {
	run := func() []model.RacerView {
		setup := SetupFor(model.Room{Name: "City", Difficulty: model.Medium, Glyphs: []string{"🏎️", "🚕", "🚙"}})
		setup.Countdown = 0
		r := New(setup, seeded(99), nil)
		r.Start(at(0))
		var out []model.RacerView
		for ms := int64(120); ms <= 12000; ms += 120 {
			r.Tick(at(ms))
		}
		out = append(out, r.Snapshot().Racers...)
		return out
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Fatalf("seeded races diverged:\n%s", diff)
	}
}

func TestUnknownDifficultyResolves(t *testing.T) {
	setup := SetupFor(model.Room{Name: "Mystery", Difficulty: "Legendary", Glyphs: []string{"🚗"}})
	if setup.Passage != passage.Text(model.Medium) {
		t.Fatalf("expected Medium passage for unknown difficulty")
	}
	r := startedRace(t, setup)
	wpm := r.bots[0].Profile.TargetWPM
	if wpm < 40 || wpm > 60 {
		t.Fatalf("expected fallback range [40,60], got %d", wpm)
	}
}

func TestRacerViewOrder(t *testing.T) {
	r := New(testSetup("cat", "🚗", "🛵"), seeded(1), nil)
	views := r.Snapshot().Racers
	want := []model.RacerView{
		{ID: "you", Name: "You", Glyph: "🧑‍💻", Player: true},
		{ID: "bot-0", Name: "Racer 1", Glyph: "🚗"},
		{ID: "bot-1", Name: "Racer 2", Glyph: "🛵"},
	}
	if diff := cmp.Diff(want, views); diff != "" {
		t.Fatalf("racer views mismatch (-want +got):\n%s", diff)
	}
}

func TestStandingsOrder(t *testing.T) {
	text := strings.Repeat("a", 100)
	r := startedRace(t, testSetup(text, "🚗", "🛵"))
	r.bots[0].Profile = bot.Profile{TargetWPM: 60, Variance: 1.0}
	r.bots[1].Profile = bot.Profile{TargetWPM: 120, Variance: 1.0}
	r.SetInput(text, at(15000))
	for ms := int64(1000); ms <= 20000; ms += 1000 {
		if r.Tick(at(ms)) {
			break
		}
	}
	if r.Phase() != model.PhaseFinished {
		t.Fatalf("expected Finished")
	}
	got := r.Snapshot().Standings
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	if diff := cmp.Diff([]string{"bot-1", "you", "bot-0"}, ids); diff != "" {
		t.Fatalf("unexpected standings order:\n%s", diff)
	}
	for i, s := range got {
		if s.Rank != i+1 || !s.Finished {
			t.Fatalf("unexpected standing %+v", s)
		}
	}
}
