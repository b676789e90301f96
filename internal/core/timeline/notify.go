package timeline

import (
	"github.com/cadenzr/go-timeline-engine/internal/core/event"
)

// EventNotification is emitted once per triggered event, in the order
// defined by the playback direction.
type EventNotification struct {
	Owner   string
	TrackID string
	Event   *event.Event
}

// CurveNotification is emitted for every enabled curve on every tick and
// seek. Curves are sampled, not triggered: there is no dedup.
type CurveNotification struct {
	Owner   string
	CurveID string
	Value   float64
}

// Observer receives timeline notifications. Within one Advance or Seek
// all event notifications are delivered before any curve notification.
// Handlers must not mutate the timeline's tracks or curves; mutation
// during dispatch is undefined behavior.
type Observer interface {
	OnEvent(EventNotification)
	OnCurve(CurveNotification)
}

// EventFunc adapts plain functions into an Observer that ignores curve
// samples.
type EventFunc func(EventNotification)

func (f EventFunc) OnEvent(n EventNotification) { f(n) }
func (f EventFunc) OnCurve(CurveNotification)   {}

// CurveFunc adapts plain functions into an Observer that ignores events.
type CurveFunc func(CurveNotification)

func (f CurveFunc) OnEvent(EventNotification)   {}
func (f CurveFunc) OnCurve(n CurveNotification) { f(n) }
