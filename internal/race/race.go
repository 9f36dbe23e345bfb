// Package race runs the typing-race state machine and its tick scheduler.
package race

import (
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerace/internal/bot"
	"github.com/verte-zerg/typerace/internal/metrics"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/passage"
)

const (
	// DefaultCountdown is the number of countdown steps before racing.
	DefaultCountdown = 3

	playerID    = "you"
	playerName  = "You"
	playerGlyph = "🧑‍💻"
)

// Setup is everything needed to (re)build a race from scratch.
type Setup struct {
	RoomName   string
	Difficulty model.Difficulty
	Passage    string
	Roster     []model.RosterEntry
	Countdown  int
}

// SetupFor builds a setup for a room, using its difficulty passage and
// turning each glyph into an opponent.
func SetupFor(room model.Room) Setup {
	roster := make([]model.RosterEntry, 0, len(room.Glyphs))
	for i, glyph := range room.Glyphs {
		roster = append(roster, model.RosterEntry{ID: botID(i), Glyph: glyph})
	}
	return Setup{
		RoomName:   room.Name,
		Difficulty: room.Difficulty,
		Passage:    passage.Text(room.Difficulty),
		Roster:     roster,
		Countdown:  DefaultCountdown,
	}
}

// Race owns every piece of mutable race state. It is not safe for
// concurrent use; the Engine serializes access.
type Race struct {
	id         string
	setup      Setup
	passageLen int
	sampler    *bot.Sampler
	logger     *zap.Logger

	phase     model.Phase
	countdown int
	startedAt time.Time
	elapsedMs int64

	input            string
	inputLen         int
	player           model.PlayerStats
	playerFinishedMs int64
	trace            []float64

	bots []*bot.Bot
}

// New creates a race in Countdown. Bot profiles are sampled on Start.
func New(setup Setup, sampler *bot.Sampler, logger *zap.Logger) *Race {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sampler == nil {
		sampler = bot.NewSeeded(0)
	}
	countdown := setup.Countdown
	if countdown < 0 {
		countdown = 0
	}
	bots := make([]*bot.Bot, 0, len(setup.Roster))
	for i, entry := range setup.Roster {
		id := entry.ID
		if id == "" {
			id = botID(i)
		}
		bots = append(bots, &bot.Bot{
			ID:    id,
			Name:  botName(i),
			Glyph: entry.Glyph,
		})
	}
	r := &Race{
		id:         uuid.NewString(),
		setup:      setup,
		passageLen: utf8.RuneCountInString(setup.Passage),
		sampler:    sampler,
		logger:     logger,
		phase:      model.PhaseCountdown,
		countdown:  countdown,
		bots:       bots,
		player:     model.PlayerStats{Accuracy: 100},
	}
	r.logger.Info("race created",
		zap.String("race", r.id),
		zap.String("room", setup.RoomName),
		zap.String("difficulty", string(setup.Difficulty)),
		zap.Int("bots", len(bots)),
		zap.Int("passage_len", r.passageLen),
	)
	return r
}

// ID returns the race identifier.
func (r *Race) ID() string {
	return r.id
}

// Phase returns the current phase.
func (r *Race) Phase() model.Phase {
	return r.phase
}

// Countdown returns the remaining countdown value.
func (r *Race) Countdown() int {
	return r.countdown
}

// CountdownTick steps the countdown by one. Reaching zero starts the race.
// It reports whether the race entered Racing.
func (r *Race) CountdownTick(now time.Time) bool {
	if r.phase != model.PhaseCountdown {
		return false
	}
	if r.countdown > 0 {
		r.countdown--
	}
	if r.countdown > 0 {
		return false
	}
	return r.Start(now)
}

// Start moves Countdown(0) into Racing, anchoring the clock and sampling
// every bot's speed profile once.
func (r *Race) Start(now time.Time) bool {
	if r.phase != model.PhaseCountdown {
		return false
	}
	r.countdown = 0
	r.phase = model.PhaseRacing
	r.startedAt = now
	r.elapsedMs = 0
	for _, b := range r.bots {
		b.Profile = r.sampler.Profile(r.setup.Difficulty)
		b.Update(0, r.passageLen)
		r.logger.Debug("bot profile",
			zap.String("race", r.id),
			zap.String("bot", b.ID),
			zap.Int("wpm", b.Profile.TargetWPM),
			zap.Float64("variance", b.Profile.Variance),
		)
	}
	r.refreshPlayer(0)
	r.logger.Info("race started", zap.String("race", r.id))
	return true
}

// SetInput replaces the player's typed text. Input is only accepted while
// racing and until the player has typed the whole passage.
func (r *Race) SetInput(text string, now time.Time) bool {
	if r.phase != model.PhaseRacing || r.player.Done {
		return false
	}
	r.input = text
	r.inputLen = utf8.RuneCountInString(text)
	r.refreshPlayer(r.sinceStart(now))
	return true
}

// Tick advances bots and player metrics to now and evaluates the end
// condition. It reports true only on the tick that finishes the race.
func (r *Race) Tick(now time.Time) bool {
	if r.phase != model.PhaseRacing {
		return false
	}
	elapsed := r.sinceStart(now)
	if elapsed > r.elapsedMs {
		r.elapsedMs = elapsed
	}
	for _, b := range r.bots {
		if b.Update(r.elapsedMs, r.passageLen) {
			r.logger.Info("bot finished",
				zap.String("race", r.id),
				zap.String("bot", b.ID),
				zap.Int64("elapsed_ms", b.FinishedMs),
			)
		}
	}
	if !r.player.Done && r.elapsedMs > 0 {
		r.trace = append(r.trace, metrics.RawWPM(r.inputLen, r.elapsedMs))
	}
	r.refreshPlayer(r.elapsedMs)
	if !r.ended() {
		return false
	}
	r.phase = model.PhaseFinished
	r.logger.Info("race finished",
		zap.String("race", r.id),
		zap.Int64("elapsed_ms", r.elapsedMs),
		zap.Int("wpm", r.player.WPM),
		zap.Int("accuracy", r.player.Accuracy),
	)
	return true
}

// ended is the finish predicate: every bot done and the player has typed
// the full passage. The race waits for all bots even after the player ends.
func (r *Race) ended() bool {
	allBotsDone := lo.EveryBy(r.bots, func(b *bot.Bot) bool { return b.Done })
	return allBotsDone && r.inputLen >= r.passageLen
}

func (r *Race) refreshPlayer(atMs int64) {
	r.player.Progress = metrics.ProgressLen(r.inputLen, r.passageLen)
	r.player.Accuracy = metrics.Accuracy(r.input, r.setup.Passage)
	if !r.player.Done && r.inputLen >= r.passageLen {
		r.player.Done = true
		r.playerFinishedMs = atMs
		r.logger.Info("player finished",
			zap.String("race", r.id),
			zap.Int64("elapsed_ms", atMs),
		)
	}
	r.player.WPM = metrics.WPM(r.inputLen, r.elapsedMs)
	r.player.ElapsedMs = r.elapsedMs
}

func (r *Race) sinceStart(now time.Time) int64 {
	if r.startedAt.IsZero() {
		return 0
	}
	ms := now.Sub(r.startedAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// Snapshot returns an immutable copy of the race view model.
func (r *Race) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		RaceID:     r.id,
		RoomName:   r.setup.RoomName,
		Difficulty: r.setup.Difficulty,
		Phase:      r.phase,
		Countdown:  r.countdown,
		Passage:    r.setup.Passage,
		Input:      r.input,
		Racers:     r.racerViews(),
		Player:     r.player,
		WPMTrace:   append([]float64(nil), r.trace...),
	}
	if r.phase == model.PhaseFinished {
		snap.Standings = r.Standings()
	}
	return snap
}

func (r *Race) racerViews() []model.RacerView {
	views := make([]model.RacerView, 0, len(r.bots)+1)
	views = append(views, model.RacerView{
		ID:       playerID,
		Name:     playerName,
		Glyph:    playerGlyph,
		Player:   true,
		Progress: r.player.Progress,
		Done:     r.player.Done,
	})
	return append(views, lo.Map(r.bots, func(b *bot.Bot, _ int) model.RacerView {
		return model.RacerView{
			ID:       b.ID,
			Name:     b.Name,
			Glyph:    b.Glyph,
			Progress: b.Progress,
			Done:     b.Done,
		}
	})...)
}

// Standings ranks racers by finish time. Ties keep racer order and
// unfinished racers follow, by progress.
func (r *Race) Standings() []model.Standing {
	rows := make([]model.Standing, 0, len(r.bots)+1)
	rows = append(rows, model.Standing{
		ID:         playerID,
		Name:       playerName,
		Glyph:      playerGlyph,
		Player:     true,
		Finished:   r.player.Done,
		FinishedMs: r.playerFinishedMs,
		Progress:   r.player.Progress,
	})
	for _, b := range r.bots {
		rows = append(rows, model.Standing{
			ID:         b.ID,
			Name:       b.Name,
			Glyph:      b.Glyph,
			Finished:   b.Done,
			FinishedMs: b.FinishedMs,
			Progress:   b.Progress,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Finished != b.Finished {
			return a.Finished
		}
		if a.Finished {
			return a.FinishedMs < b.FinishedMs
		}
		return a.Progress > b.Progress
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func botID(i int) string {
	return "bot-" + strconv.Itoa(i)
}

func botName(i int) string {
	return "Racer " + strconv.Itoa(i+1)
}
