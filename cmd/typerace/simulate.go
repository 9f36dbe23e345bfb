package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerace/internal/bot"
	tlog "github.com/verte-zerg/typerace/internal/log"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/race"
	"github.com/verte-zerg/typerace/internal/report"
	"github.com/verte-zerg/typerace/internal/rooms"
)

const (
	defaultPlayerWPM      = 60
	defaultPlayerAccuracy = 95
	defaultMaxSeconds     = 600
)

var (
	simFlags          raceFlags
	simPlayerWPM      int
	simPlayerAccuracy int
	simMaxSeconds     int
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a race headlessly with a ghost player",
		Args:  cobra.NoArgs,
		RunE:  runSimulateCmd,
	}
	addRaceFlags(cmd, &simFlags)
	cmd.Flags().IntVar(&simPlayerWPM, "player-wpm", defaultPlayerWPM, "ghost player typing speed")
	cmd.Flags().IntVar(&simPlayerAccuracy, "player-accuracy", defaultPlayerAccuracy, "ghost player accuracy in percent (0-100)")
	cmd.Flags().IntVar(&simMaxSeconds, "max-seconds", defaultMaxSeconds, "give up after this much simulated race time")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, &simFlags)
	if err != nil {
		return err
	}
	room, err := simulationRoom(cfg)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		logErrf("Using seed %d\n", cfg.Seed)
	}
	logger, err := tlog.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	setup := race.SetupFor(room)
	setup.Countdown = cfg.Countdown
	sim := simulation{
		setup:      setup,
		seed:       cfg.Seed,
		tick:       cfg.Tick,
		playerWPM:  simPlayerWPM,
		accuracy:   simPlayerAccuracy,
		maxElapsed: time.Duration(simMaxSeconds) * time.Second,
		logger:     logger,
	}
	snap, err := sim.run()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	width := report.TerminalWidth()
	if err := report.RenderSummary(out, snap, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderStandings(out, snap.Standings, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// simulationRoom picks the configured room, or the first room matching the
// difficulty filter.
func simulationRoom(cfg model.Config) (model.Room, error) {
	if cfg.Room != "" {
		return findRoom(cfg.Room)
	}
	matches := rooms.Filter(cfg.Difficulty)
	if len(matches) == 0 {
		return model.Room{}, fmt.Errorf("no room for difficulty %q", cfg.Difficulty)
	}
	return matches[0], nil
}

// simulation drives a race on a virtual clock.
type simulation struct {
	setup      race.Setup
	seed       int64
	tick       time.Duration
	playerWPM  int
	accuracy   int
	maxElapsed time.Duration
	logger     *zap.Logger
}

func (s simulation) validate() error {
	if s.tick <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if s.playerWPM <= 0 {
		return fmt.Errorf("--player-wpm must be > 0")
	}
	if s.accuracy < 0 || s.accuracy > 100 {
		return fmt.Errorf("--player-accuracy must be between 0 and 100")
	}
	if s.maxElapsed <= 0 {
		return fmt.Errorf("--max-seconds must be > 0")
	}
	return nil
}

func (s simulation) run() (model.Snapshot, error) {
	if err := s.validate(); err != nil {
		return model.Snapshot{}, err
	}
	sampler := bot.NewSampler(rand.New(rand.NewSource(s.seed)))
	g := newGhost(s.setup.Passage, s.playerWPM, s.accuracy, rand.New(rand.NewSource(s.seed+1)))
	r := race.New(s.setup, sampler, s.logger)

	now := time.Unix(0, 0).UTC()
	for r.Phase() == model.PhaseCountdown {
		now = now.Add(time.Second)
		r.CountdownTick(now)
	}
	start := now
	for {
		now = now.Add(s.tick)
		elapsed := now.Sub(start)
		r.SetInput(g.textAt(elapsed.Milliseconds()), now)
		if r.Tick(now) {
			return r.Snapshot(), nil
		}
		if elapsed >= s.maxElapsed {
			return model.Snapshot{}, fmt.Errorf("race did not finish within %s of simulated time", s.maxElapsed)
		}
	}
}

// ghost replays a pre-rolled keystroke stream at a constant speed.
type ghost struct {
	typed []rune
	wpm   int
}

func newGhost(text string, wpm, accuracy int, rnd *rand.Rand) ghost {
	want := []rune(text)
	typed := make([]rune, len(want))
	for i, r := range want {
		if rnd.Intn(100) < accuracy {
			typed[i] = r
			continue
		}
		typed[i] = typo(r)
	}
	return ghost{typed: typed, wpm: wpm}
}

func typo(r rune) rune {
	if r == 'x' {
		return 'z'
	}
	return 'x'
}

// textAt is what the ghost has typed after elapsedMs.
func (g ghost) textAt(elapsedMs int64) string {
	if elapsedMs <= 0 {
		return ""
	}
	n := int64(g.wpm) * 5 * elapsedMs / 60000
	if n > int64(len(g.typed)) {
		n = int64(len(g.typed))
	}
	return string(g.typed[:n])
}
