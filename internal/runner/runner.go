package runner

import (
	"context"
	"time"

	"github.com/cadenzr/go-timeline-engine/internal/core/timeline"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

// Config controls how a timeline is driven.
type Config struct {
	Autoplay  bool
	FrameRate float64 // ticks per second for Run, default 60
}

// Runner is the host-side driver for one timeline: it owns the
// setup/tick lifecycle and maps wall-clock frames onto Advance calls.
// The timeline itself never touches real time.
type Runner struct {
	tl     *timeline.Timeline
	config Config
	setup  bool
}

// New creates a runner for the given timeline.
func New(tl *timeline.Timeline, config Config) *Runner {
	if config.FrameRate <= 0 {
		config.FrameRate = 60
	}
	return &Runner{tl: tl, config: config}
}

// Timeline returns the driven timeline.
func (r *Runner) Timeline() *timeline.Timeline {
	return r.tl
}

// Setup runs the once-before-first-tick hook: with autoplay configured
// the timeline enters forward playback immediately. Idempotent.
func (r *Runner) Setup() {
	if r.setup {
		return
	}
	r.setup = true
	if r.config.Autoplay {
		r.tl.Play()
		util.LogDebugf("runner: autoplay %s", r.tl.Owner)
	}
}

// Tick is the per-frame hook: it forwards the elapsed frame time to the
// timeline. Direction comes from the timeline's speed, so dt is the
// plain positive frame delta.
func (r *Runner) Tick(dt float64) {
	r.tl.Advance(dt)
}

// Run drives the timeline against the wall clock until the context is
// cancelled or a non-looping timeline stops on its own. Each tick feeds
// the actually elapsed time, not the nominal frame interval, so slow
// frames do not stretch playback.
func (r *Runner) Run(ctx context.Context) error {
	r.Setup()

	interval := time.Duration(float64(time.Second) / r.config.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(prev).Seconds()
			prev = now
			r.Tick(dt)
			if !r.tl.IsPlaying() {
				return nil
			}
		}
	}
}
