package dispatch

import (
	"github.com/cadenzr/go-timeline-engine/internal/core/event"
	"github.com/cadenzr/go-timeline-engine/internal/core/timeline"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

// SimpleHandler reacts to an event id with no arguments.
type SimpleHandler func()

// DataHandler receives the triggered event itself.
type DataHandler func(*event.Event)

// CurveHandler receives one curve sample per tick.
type CurveHandler func(float64)

// Dispatcher routes timeline notifications to handlers bound by
// identifier. Each event id carries at most one simple and one data
// handler; each curve id exactly one handler. Rebinding an id replaces
// the previous handler. An optional owner filter drops notifications
// from other timeline instances; filtering is the dispatcher's job, the
// timeline broadcasts to every subscriber.
type Dispatcher struct {
	owner  string // empty matches any owner
	simple map[string]SimpleHandler
	data   map[string]DataHandler
	curves map[string]CurveHandler
}

// New creates a dispatcher accepting notifications from any owner.
func New() *Dispatcher {
	return NewForOwner("")
}

// NewForOwner creates a dispatcher that only reacts to notifications
// emitted by the given owner entity.
func NewForOwner(owner string) *Dispatcher {
	return &Dispatcher{
		owner:  owner,
		simple: make(map[string]SimpleHandler),
		data:   make(map[string]DataHandler),
		curves: make(map[string]CurveHandler),
	}
}

// BindEvent binds a no-argument handler to an event id, replacing any
// previous simple binding. Nil handlers are ignored.
func (d *Dispatcher) BindEvent(id string, h SimpleHandler) {
	if h == nil {
		return
	}
	d.simple[id] = h
}

// BindEventData binds a payload handler to an event id, replacing any
// previous data binding.
func (d *Dispatcher) BindEventData(id string, h DataHandler) {
	if h == nil {
		return
	}
	d.data[id] = h
}

// UnbindEvent removes both the simple and the data binding for an id.
func (d *Dispatcher) UnbindEvent(id string) {
	delete(d.simple, id)
	delete(d.data, id)
}

// BindCurve binds a sample handler to a curve id, replacing any
// previous binding.
func (d *Dispatcher) BindCurve(id string, h CurveHandler) {
	if h == nil {
		return
	}
	d.curves[id] = h
}

// UnbindCurve removes the binding for a curve id.
func (d *Dispatcher) UnbindCurve(id string) {
	delete(d.curves, id)
}

// OnEvent implements timeline.Observer. Unbound ids are dropped
// silently; the data handler runs before the simple one.
func (d *Dispatcher) OnEvent(n timeline.EventNotification) {
	if d.owner != "" && n.Owner != d.owner {
		return
	}
	if h, ok := d.data[n.Event.ID]; ok {
		h(n.Event)
	}
	if h, ok := d.simple[n.Event.ID]; ok {
		h()
	}
	util.LogDebugf("dispatch: event %s on track %s at %.3fs", n.Event.ID, n.TrackID, n.Event.Time)
}

// OnCurve implements timeline.Observer.
func (d *Dispatcher) OnCurve(n timeline.CurveNotification) {
	if d.owner != "" && n.Owner != d.owner {
		return
	}
	if h, ok := d.curves[n.CurveID]; ok {
		h(n.Value)
	}
}
