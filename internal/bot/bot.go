// Package bot simulates opponent typing progress.
package bot

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/passage"
)

const (
	minVariance = 0.8
	maxVariance = 1.2
)

// Profile is a bot's speed, fixed for the whole race.
type Profile struct {
	TargetWPM int
	Variance  float64
}

// Sampler draws speed profiles from an injected random source.
type Sampler struct {
	rnd *rand.Rand
}

// NewSampler returns a Sampler backed by rnd.
func NewSampler(rnd *rand.Rand) *Sampler {
	return &Sampler{rnd: rnd}
}

// NewSeeded returns a Sampler for seed, or a time-seeded one when seed is 0.
func NewSeeded(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSampler(rand.New(rand.NewSource(seed)))
}

// Profile samples a profile for difficulty d: WPM uniform over the inclusive
// range, variance uniform over [0.8, 1.2).
func (s *Sampler) Profile(d model.Difficulty) Profile {
	r := passage.WPMRange(d)
	wpm := r.Min
	if r.Max > r.Min {
		wpm += s.rnd.Intn(r.Max - r.Min + 1)
	}
	return Profile{
		TargetWPM: wpm,
		Variance:  minVariance + s.rnd.Float64()*(maxVariance-minVariance),
	}
}

// Advance returns progress after elapsedMs. It is a pure function of elapsed
// time so missed or jittered ticks never accumulate error.
func Advance(p Profile, elapsedMs int64, passageLen int) float64 {
	if passageLen <= 0 {
		return 1
	}
	if elapsedMs <= 0 {
		return 0
	}
	// wpm * 5 chars/word * minutes * variance, divided last to stay exact
	chars := float64(p.TargetWPM) * 5 * float64(elapsedMs) * p.Variance / 60000.0
	return math.Max(0, math.Min(1, chars/float64(passageLen)))
}

// Bot is a simulated racer.
type Bot struct {
	ID         string
	Name       string
	Glyph      string
	Profile    Profile
	Progress   float64
	Done       bool
	FinishedMs int64
}

// Update recomputes progress for elapsedMs. Finished bots are frozen.
// It reports true only on the call that finishes the bot.
func (b *Bot) Update(elapsedMs int64, passageLen int) bool {
	if b.Done {
		return false
	}
	progress := Advance(b.Profile, elapsedMs, passageLen)
	if progress > b.Progress {
		b.Progress = progress
	}
	if b.Progress >= 1 {
		b.Progress = 1
		b.Done = true
		b.FinishedMs = elapsedMs
		return true
	}
	return false
}
