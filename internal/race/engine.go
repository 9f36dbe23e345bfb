package race

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typerace/internal/bot"
	"github.com/verte-zerg/typerace/internal/model"
)

const (
	// DefaultTickInterval is the racing update cadence.
	DefaultTickInterval = 120 * time.Millisecond
	// DefaultCountdownInterval is the countdown step.
	DefaultCountdownInterval = time.Second

	inboxSize = 64
)

// Engine is the single owner of a Race. A goroutine running Run drives the
// countdown timer and the racing tick; input and restarts arrive as messages
// on its inbox, so no two mutations ever overlap.
type Engine struct {
	setup             Setup
	sampler           *bot.Sampler
	logger            *zap.Logger
	now               func() time.Time
	tickInterval      time.Duration
	countdownInterval time.Duration

	inbox     chan any
	snapshots chan model.Snapshot
	quit      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once

	race      *Race
	countdown *time.Ticker
	ticker    *time.Ticker
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSampler sets the random source for bot profiles.
func WithSampler(s *bot.Sampler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sampler = s
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTickInterval sets the racing tick cadence.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithCountdownInterval sets the countdown step.
func WithCountdownInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.countdownInterval = d
		}
	}
}

// NewEngine constructs an engine for setup. Call Run to start it.
func NewEngine(setup Setup, opts ...Option) *Engine {
	e := &Engine{
		setup:             setup,
		logger:            zap.NewNop(),
		now:               time.Now,
		tickInterval:      DefaultTickInterval,
		countdownInterval: DefaultCountdownInterval,
		inbox:             make(chan any, inboxSize),
		snapshots:         make(chan model.Snapshot, 1),
		quit:              make(chan struct{}),
		done:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sampler == nil {
		e.sampler = bot.NewSeeded(0)
	}
	return e
}

// Snapshots delivers the latest race view after every change. Stale views
// are dropped when the reader falls behind. The channel closes when Run ends.
func (e *Engine) Snapshots() <-chan model.Snapshot {
	return e.snapshots
}

// Done is closed once Run has returned and all timers are stopped.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// SetInput submits the player's full typed text.
func (e *Engine) SetInput(text string) {
	e.send(setInput{Text: text})
}

// Restart discards the current race and starts a fresh countdown.
func (e *Engine) Restart() {
	e.send(restart{})
}

// Stop ends Run. It is safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.quit)
	})
}

func (e *Engine) send(msg any) {
	select {
	case <-e.quit:
		return
	default:
	}
	select {
	case e.inbox <- msg:
	case <-e.quit:
	case <-e.done:
	}
}

// Run drives the race until ctx is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) {
	defer close(e.done)
	defer close(e.snapshots)
	defer e.stopTimers()

	e.reset()
	for {
		select {
		case <-ctx.Done():
			e.logger.Debug("engine cancelled", zap.String("race", e.race.ID()))
			return
		case <-e.quit:
			e.logger.Debug("engine stopped", zap.String("race", e.race.ID()))
			return
		case msg := <-e.inbox:
			e.handle(msg)
		case <-tickerC(e.countdown):
			e.onCountdown(e.now())
		case <-tickerC(e.ticker):
			e.onTick(e.now())
		}
	}
}

func (e *Engine) handle(msg any) {
	switch m := msg.(type) {
	case setInput:
		if e.race.SetInput(m.Text, e.now()) {
			e.publish()
		}
	case restart:
		e.logger.Info("race restart", zap.String("race", e.race.ID()))
		e.reset()
	}
}

func (e *Engine) onCountdown(now time.Time) {
	if e.race.CountdownTick(now) {
		e.beginRacing()
	}
	e.publish()
}

func (e *Engine) onTick(now time.Time) {
	if e.race.Tick(now) {
		e.stopTimers()
	}
	e.publish()
}

func (e *Engine) reset() {
	e.stopTimers()
	e.race = New(e.setup, e.sampler, e.logger)
	if e.race.Countdown() == 0 {
		e.race.Start(e.now())
		e.beginRacing()
	} else {
		e.countdown = time.NewTicker(e.countdownInterval)
	}
	e.publish()
}

func (e *Engine) beginRacing() {
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
	e.ticker = time.NewTicker(e.tickInterval)
}

func (e *Engine) stopTimers() {
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

func (e *Engine) publish() {
	snap := e.race.Snapshot()
	select {
	case e.snapshots <- snap:
		return
	default:
	}
	select {
	case <-e.snapshots:
	default:
	}
	e.snapshots <- snap
}

func tickerC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
