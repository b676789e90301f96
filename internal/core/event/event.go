package event

import (
	"sync/atomic"
)

// handleSeq hands out process-unique event handles. Dedup bookkeeping in
// the timeline is keyed by handle, so two separately constructed events
// with identical time and id stay distinct.
var handleSeq atomic.Uint64

// Handle is a stable identity for one placed event instance.
type Handle uint64

// Event is a single timed marker on a track: an absolute position in
// seconds plus an opaque identifier the dispatch layer routes on.
type Event struct {
	Time    float64
	ID      string
	Payload map[string]interface{}

	handle Handle
}

// New creates an event at the given position. Negative positions are
// normalized to 0.
func New(time float64, id string) *Event {
	if time < 0 {
		time = 0
	}
	return &Event{
		Time:   time,
		ID:     id,
		handle: Handle(handleSeq.Add(1)),
	}
}

// NewWithPayload creates an event carrying arbitrary authoring data.
func NewWithPayload(time float64, id string, payload map[string]interface{}) *Event {
	e := New(time, id)
	e.Payload = payload
	return e
}

// Handle returns the instance identity of this event.
func (e *Event) Handle() Handle {
	return e.handle
}
