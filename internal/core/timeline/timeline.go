package timeline

import (
	"sort"

	"github.com/cadenzr/go-timeline-engine/internal/core/curve"
	"github.com/cadenzr/go-timeline-engine/internal/core/event"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

// Timeline advances a playback clock across a set of event tracks and
// float curves, firing each crossed event exactly once per pass and
// sampling every enabled curve each tick. It is single-threaded by
// design: exactly one driver calls Advance/Seek/Play/Stop per logical
// tick, with no overlapping calls.
type Timeline struct {
	Owner    string
	Duration float64
	Loop     bool

	tracks []*event.Track
	curves []*curve.FloatCurve

	speed   float64 // sign is direction, magnitude is rate
	current float64
	last    float64
	playing bool

	// Events already fired in the current pass, keyed by instance
	// handle. Cleared on play start, direction change, stop, seek and
	// loop wrap.
	triggered map[event.Handle]struct{}

	observers []Observer
}

// New creates a stopped timeline at time 0. A non-positive duration is
// normalized to 0, which makes the timeline inert rather than producing
// NaN clamping.
func New(owner string, duration float64) *Timeline {
	if duration < 0 {
		duration = 0
	}
	return &Timeline{
		Owner:     owner,
		Duration:  duration,
		speed:     1,
		triggered: make(map[event.Handle]struct{}),
	}
}

// Subscribe registers an observer. Observers may be added or removed at
// any point, including mid-playback.
func (tl *Timeline) Subscribe(o Observer) {
	if o == nil {
		return
	}
	tl.observers = append(tl.observers, o)
}

// Unsubscribe removes a previously registered observer.
func (tl *Timeline) Unsubscribe(o Observer) {
	for i, existing := range tl.observers {
		if existing == o {
			tl.observers = append(tl.observers[:i], tl.observers[i+1:]...)
			return
		}
	}
}

// AddTrack appends a track. Nil is a no-op. Duplicate ids are permitted;
// TrackByID returns the first match.
func (tl *Timeline) AddTrack(t *event.Track) {
	if t == nil {
		return
	}
	tl.tracks = append(tl.tracks, t)
}

// RemoveTrack removes the first track with the given id and reports
// whether one was found.
func (tl *Timeline) RemoveTrack(id string) bool {
	for i, t := range tl.tracks {
		if t.ID == id {
			tl.tracks = append(tl.tracks[:i], tl.tracks[i+1:]...)
			return true
		}
	}
	return false
}

// TrackByID returns the first track with the given id, nil when absent.
func (tl *Timeline) TrackByID(id string) *event.Track {
	for _, t := range tl.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Tracks returns a snapshot of the track list in insertion order.
func (tl *Timeline) Tracks() []*event.Track {
	out := make([]*event.Track, len(tl.tracks))
	copy(out, tl.tracks)
	return out
}

// AddCurve appends a float curve. Nil is a no-op.
func (tl *Timeline) AddCurve(fc *curve.FloatCurve) {
	if fc == nil {
		return
	}
	tl.curves = append(tl.curves, fc)
}

// RemoveCurve removes the first curve with the given id and reports
// whether one was found.
func (tl *Timeline) RemoveCurve(id string) bool {
	for i, fc := range tl.curves {
		if fc.ID == id {
			tl.curves = append(tl.curves[:i], tl.curves[i+1:]...)
			return true
		}
	}
	return false
}

// CurveByID returns the first curve with the given id, nil when absent.
func (tl *Timeline) CurveByID(id string) *curve.FloatCurve {
	for _, fc := range tl.curves {
		if fc.ID == id {
			return fc
		}
	}
	return nil
}

// Curves returns a snapshot of the curve list in insertion order.
func (tl *Timeline) Curves() []*curve.FloatCurve {
	out := make([]*curve.FloatCurve, len(tl.curves))
	copy(out, tl.curves)
	return out
}

// CurrentTime returns the playback clock, always within [0, Duration].
func (tl *Timeline) CurrentTime() float64 { return tl.current }

// Speed returns the signed playback rate.
func (tl *Timeline) Speed() float64 { return tl.speed }

// IsPlaying reports whether the clock advances on the next tick.
func (tl *Timeline) IsPlaying() bool { return tl.playing }

// IsReversed reports whether playback currently runs end-to-start.
func (tl *Timeline) IsReversed() bool { return tl.speed < 0 }

// SetSpeed sets the signed playback rate directly. Zero is allowed and
// simply freezes the clock while playing.
func (tl *Timeline) SetSpeed(speed float64) {
	tl.speed = speed
}

// Play starts or resumes forward playback from the current position.
// The triggered set is cleared, so a fresh pass re-arms every event.
func (tl *Timeline) Play() {
	tl.speed = magnitude(tl.speed)
	tl.playing = true
	tl.clearTriggered()
	util.LogDebugf("timeline %s: play at %.3fs speed %.2f", tl.Owner, tl.current, tl.speed)
}

// PlayReverse starts or resumes reverse playback from the current
// position.
func (tl *Timeline) PlayReverse() {
	tl.speed = -magnitude(tl.speed)
	tl.playing = true
	tl.clearTriggered()
	util.LogDebugf("timeline %s: play reverse at %.3fs speed %.2f", tl.Owner, tl.current, tl.speed)
}

// ToggleDirection flips the playback direction in place, preserving the
// rate. The triggered set is cleared: "already fired" is scoped to one
// direction, so re-crossing an event after a flip fires it again.
func (tl *Timeline) ToggleDirection() {
	tl.speed = -tl.speed
	tl.clearTriggered()
}

// Pause halts the clock without touching position or dedup state.
func (tl *Timeline) Pause() {
	tl.playing = false
}

// Stop halts playback and snaps the clock to the direction-appropriate
// bound: 0 when playing forward, Duration when reversed.
func (tl *Timeline) Stop() {
	tl.playing = false
	if tl.speed < 0 {
		tl.current = tl.Duration
	} else {
		tl.current = 0
	}
	tl.last = tl.current
	tl.clearTriggered()
}

// Seek jumps the clock to t (clamped to [0, Duration]) and replays every
// event between the direction-appropriate bound and t through the normal
// trigger path, so jumping past markers fires them instead of silently
// skipping them. Curves are sampled at the new position afterwards. The
// scan baseline is reset so the next Advance does not re-fire anything
// the seek already delivered.
func (tl *Timeline) Seek(t float64) {
	t = clamp(t, 0, tl.Duration)
	tl.clearTriggered()
	if tl.speed < 0 {
		tl.fireRange(t, tl.Duration, true)
	} else {
		tl.fireRange(0, t, false)
	}
	tl.current = t
	tl.last = t
	tl.sampleCurves()
}

// Advance moves the clock by dt scaled by the playback speed, fires
// every event crossed since the previous position, samples all enabled
// curves and handles the end of the range. Called once per external
// tick; a no-op while not playing.
func (tl *Timeline) Advance(dt float64) {
	if !tl.playing {
		return
	}
	tl.current = clamp(tl.current+dt*tl.speed, 0, tl.Duration)
	tl.scanEvents()
	tl.last = tl.current
	tl.sampleCurves()
	tl.checkBounds()
}

// scanEvents fires events crossed in the interval traversed since the
// previous tick. Forward uses (last, current] ascending; reverse uses
// [current, last) descending, so later events fire first when moving
// backward through them. The half-open side guarantees an event sitting
// exactly on a tick edge fires exactly once.
func (tl *Timeline) scanEvents() {
	if tl.speed < 0 {
		for _, t := range tl.tracks {
			due := t.EventsInRange(tl.current, tl.last)
			sort.SliceStable(due, func(i, j int) bool {
				return due[i].Time > due[j].Time
			})
			for _, e := range due {
				if e.Time >= tl.last {
					continue
				}
				tl.fire(t.ID, e)
			}
		}
		return
	}
	for _, t := range tl.tracks {
		for _, e := range t.EventsInRange(tl.last, tl.current) {
			if e.Time <= tl.last {
				continue
			}
			tl.fire(t.ID, e)
		}
	}
}

// fireRange replays a closed interval through the trigger path, used by
// Seek. Descending order mirrors reverse travel.
func (tl *Timeline) fireRange(start, end float64, descending bool) {
	for _, t := range tl.tracks {
		due := t.EventsInRange(start, end)
		if descending {
			sort.SliceStable(due, func(i, j int) bool {
				return due[i].Time > due[j].Time
			})
		}
		for _, e := range due {
			tl.fire(t.ID, e)
		}
	}
}

// fire marks an event triggered and notifies observers. Events already
// in the triggered set are skipped, which is what makes a pass
// exactly-once.
func (tl *Timeline) fire(trackID string, e *event.Event) {
	if _, done := tl.triggered[e.Handle()]; done {
		return
	}
	tl.triggered[e.Handle()] = struct{}{}
	n := EventNotification{Owner: tl.Owner, TrackID: trackID, Event: e}
	for _, o := range tl.observers {
		o.OnEvent(n)
	}
}

// sampleCurves emits one value per enabled curve at the current
// position. Unconditional every tick; disabled curves are skipped, not
// evaluated.
func (tl *Timeline) sampleCurves() {
	for _, fc := range tl.curves {
		if !fc.Enabled {
			continue
		}
		n := CurveNotification{Owner: tl.Owner, CurveID: fc.ID, Value: fc.Evaluate(tl.current)}
		for _, o := range tl.observers {
			o.OnCurve(n)
		}
	}
}

// checkBounds handles reaching the end of the playable range: wrap to
// the direction-appropriate start when looping (re-arming every event
// for the next pass), otherwise stop.
func (tl *Timeline) checkBounds() {
	atEnd := (tl.speed >= 0 && tl.current >= tl.Duration) ||
		(tl.speed < 0 && tl.current <= 0)
	if !atEnd {
		return
	}
	if tl.Loop {
		if tl.speed < 0 {
			tl.current = tl.Duration
		} else {
			tl.current = 0
		}
		tl.last = tl.current
		tl.clearTriggered()
		util.LogDebugf("timeline %s: loop wrap to %.3fs", tl.Owner, tl.current)
		return
	}
	tl.Stop()
}

func (tl *Timeline) clearTriggered() {
	if len(tl.triggered) == 0 {
		return
	}
	tl.triggered = make(map[event.Handle]struct{})
}

func magnitude(speed float64) float64 {
	if speed < 0 {
		speed = -speed
	}
	if speed == 0 {
		speed = 1
	}
	return speed
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
