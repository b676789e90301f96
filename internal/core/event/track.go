package event

import (
	"math"
	"sort"
)

// DefaultTolerance is the matching window used by EventsAtTime when the
// caller does not care about an exact position.
const DefaultTolerance = 0.001

// Track is a named, ordered sequence of events. The slice is kept sorted
// ascending by time after every mutation; all queries assume that order.
// Single-writer: one mutator at a time, no locking.
type Track struct {
	ID       string
	Duration float64

	events []*Event
}

// NewTrack creates an empty track. A non-positive duration is normalized
// to 0 so downstream range math never divides by it.
func NewTrack(id string, duration float64) *Track {
	if duration < 0 {
		duration = 0
	}
	return &Track{
		ID:       id,
		Duration: duration,
	}
}

// AddEvent inserts an event and restores the time ordering. Stable sort,
// so events placed at the same time keep their insertion order. Nil is a
// no-op.
func (t *Track) AddEvent(e *Event) {
	if e == nil {
		return
	}
	t.events = append(t.events, e)
	sort.SliceStable(t.events, func(i, j int) bool {
		return t.events[i].Time < t.events[j].Time
	})
}

// RemoveEvent removes by instance identity and reports whether the event
// was present. Value-equal duplicates are untouched.
func (t *Track) RemoveEvent(e *Event) bool {
	if e == nil {
		return false
	}
	for i, existing := range t.events {
		if existing.handle == e.handle {
			t.events = append(t.events[:i], t.events[i+1:]...)
			return true
		}
	}
	return false
}

// EventsInRange returns all events with start <= time <= end in track
// order. An inverted range yields nothing.
func (t *Track) EventsInRange(start, end float64) []*Event {
	if end < start {
		return nil
	}
	// First index with time >= start.
	lo := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time >= start
	})
	var result []*Event
	for _, e := range t.events[lo:] {
		if e.Time > end {
			break
		}
		result = append(result, e)
	}
	return result
}

// EventsAtTime returns events within tolerance of the given position.
// A negative tolerance falls back to DefaultTolerance.
func (t *Track) EventsAtTime(time, tolerance float64) []*Event {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	var result []*Event
	for _, e := range t.events {
		if math.Abs(time-e.Time) <= tolerance {
			result = append(result, e)
		}
	}
	return result
}

// NextEvent returns the first event strictly after the given position,
// or nil when none remains.
func (t *Track) NextEvent(time float64) *Event {
	i := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time > time
	})
	if i == len(t.events) {
		return nil
	}
	return t.events[i]
}

// PreviousEvent returns the last event strictly before the given
// position, or nil when none exists.
func (t *Track) PreviousEvent(time float64) *Event {
	i := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time >= time
	})
	if i == 0 {
		return nil
	}
	return t.events[i-1]
}

// Len returns the number of events on the track.
func (t *Track) Len() int {
	return len(t.events)
}

// Events returns a snapshot copy of the event sequence in track order.
func (t *Track) Events() []*Event {
	out := make([]*Event, len(t.events))
	copy(out, t.events)
	return out
}
