package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenzr/go-timeline-engine/internal/core/curve"
	"github.com/cadenzr/go-timeline-engine/internal/core/event"
)

// recorder captures notifications in arrival order.
type recorder struct {
	events []EventNotification
	curves []CurveNotification
}

func (r *recorder) OnEvent(n EventNotification) { r.events = append(r.events, n) }
func (r *recorder) OnCurve(n CurveNotification) { r.curves = append(r.curves, n) }

func (r *recorder) eventIDs() []string {
	ids := make([]string, 0, len(r.events))
	for _, n := range r.events {
		ids = append(ids, n.Event.ID)
	}
	return ids
}

func (r *recorder) reset() {
	r.events = nil
	r.curves = nil
}

// newFixture builds the canonical 10s timeline with events at 2, 5, 8.
func newFixture() (*Timeline, *recorder) {
	tl := New("deck", 10)
	track := event.NewTrack("markers", 10)
	track.AddEvent(event.New(2, "e2"))
	track.AddEvent(event.New(5, "e5"))
	track.AddEvent(event.New(8, "e8"))
	tl.AddTrack(track)

	rec := &recorder{}
	tl.Subscribe(rec)
	return tl, rec
}

func TestTimeline_InitialState(t *testing.T) {
	tl := New("deck", 10)
	assert.Equal(t, 0.0, tl.CurrentTime())
	assert.False(t, tl.IsPlaying())
	assert.False(t, tl.IsReversed())
	assert.Equal(t, 1.0, tl.Speed())
}

func TestTimeline_NegativeDurationNormalizes(t *testing.T) {
	tl := New("deck", -3)
	assert.Equal(t, 0.0, tl.Duration)
}

func TestTimeline_ForwardPassFiresEachEventOnce(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()

	// 0→3→6→9: one event per step, each exactly once.
	tl.Advance(3)
	assert.Equal(t, []string{"e2"}, rec.eventIDs())

	tl.Advance(3)
	assert.Equal(t, []string{"e2", "e5"}, rec.eventIDs())

	tl.Advance(3)
	assert.Equal(t, []string{"e2", "e5", "e8"}, rec.eventIDs())
	assert.InDelta(t, 9, tl.CurrentTime(), 1e-9)
}

func TestTimeline_ForwardFullRunFiresAscending(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()

	for i := 0; i < 100; i++ {
		tl.Advance(0.17)
	}
	assert.Equal(t, []string{"e2", "e5", "e8"}, rec.eventIDs())
	// Non-looping playback stopped at the end and snapped home.
	assert.False(t, tl.IsPlaying())
	assert.Equal(t, 0.0, tl.CurrentTime())
}

func TestTimeline_ReversePassFiresDescending(t *testing.T) {
	tl, rec := newFixture()
	tl.PlayReverse()
	tl.Stop() // reverse stop snaps the clock to the end bound
	require.Equal(t, 10.0, tl.CurrentTime())
	tl.PlayReverse()

	// 10→7→4→1: later events fire first.
	tl.Advance(3)
	assert.Equal(t, []string{"e8"}, rec.eventIDs())
	tl.Advance(3)
	assert.Equal(t, []string{"e8", "e5"}, rec.eventIDs())
	tl.Advance(3)
	assert.Equal(t, []string{"e8", "e5", "e2"}, rec.eventIDs())
	assert.InDelta(t, 1, tl.CurrentTime(), 1e-9)
}

func TestTimeline_EventOnTickEdgeFiresOnce(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()

	// Land exactly on an event time, then tick again with zero delta.
	tl.Advance(5)
	tl.Advance(0)
	tl.Advance(0)
	assert.Equal(t, []string{"e2", "e5"}, rec.eventIDs())
}

func TestTimeline_ToggleDirectionRearmsEvents(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()
	tl.Advance(6) // fires e2, e5
	require.Equal(t, []string{"e2", "e5"}, rec.eventIDs())

	tl.ToggleDirection()
	tl.Advance(3) // 6→3 in reverse, re-crosses e5
	assert.Equal(t, []string{"e2", "e5", "e5"}, rec.eventIDs())
}

func TestTimeline_PauseKeepsClockAndDedup(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()
	tl.Advance(3)
	tl.Pause()

	clock := tl.CurrentTime()
	tl.Advance(5) // ignored while paused
	assert.Equal(t, clock, tl.CurrentTime())
	assert.Equal(t, []string{"e2"}, rec.eventIDs())

	// Resuming keeps the position; the pass baseline is untouched, so
	// nothing behind the clock re-fires.
	tl.Play()
	tl.Advance(3)
	assert.Equal(t, []string{"e2", "e5"}, rec.eventIDs())
}

func TestTimeline_StopSnapsToDirectionBound(t *testing.T) {
	tl, _ := newFixture()
	tl.Play()
	tl.Advance(4)
	tl.Stop()
	assert.Equal(t, 0.0, tl.CurrentTime())
	assert.False(t, tl.IsPlaying())

	tl.PlayReverse()
	tl.Stop()
	assert.Equal(t, 10.0, tl.CurrentTime())
}

func TestTimeline_SeekReplaysCrossedEvents(t *testing.T) {
	tl, rec := newFixture()

	// Fresh, stopped, forward: seeking to 6 replays 2 and 5, not 8.
	tl.Seek(6)
	assert.Equal(t, []string{"e2", "e5"}, rec.eventIDs())
	assert.Equal(t, 6.0, tl.CurrentTime())

	// A following step crossing 8 fires only 8.
	tl.Play()
	tl.Advance(3)
	assert.Equal(t, []string{"e2", "e5", "e8"}, rec.eventIDs())
}

func TestTimeline_SeekThenZeroAdvanceNoDuplicates(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()
	tl.Seek(6)
	require.Equal(t, []string{"e2", "e5"}, rec.eventIDs())

	tl.Advance(0)
	assert.Equal(t, []string{"e2", "e5"}, rec.eventIDs())
}

func TestTimeline_SeekReverseReplaysFromEndBound(t *testing.T) {
	tl, rec := newFixture()
	tl.PlayReverse()
	tl.Seek(4)

	// Reverse seek replays [4, 10] in descending order.
	assert.Equal(t, []string{"e8", "e5"}, rec.eventIDs())
}

func TestTimeline_SeekClampsOutOfRange(t *testing.T) {
	tl, _ := newFixture()
	tl.Seek(25)
	assert.Equal(t, 10.0, tl.CurrentTime())
	tl.Seek(-5)
	assert.Equal(t, 0.0, tl.CurrentTime())
}

func TestTimeline_SeekSamplesCurves(t *testing.T) {
	tl, rec := newFixture()
	fade := curve.NewFloatCurve("fade", curve.NewCurve([]curve.Keyframe{
		{Time: 0, Value: 0},
		{Time: 10, Value: 1},
	}))
	tl.AddCurve(fade)

	tl.Seek(5)
	require.Len(t, rec.curves, 1)
	assert.Equal(t, "fade", rec.curves[0].CurveID)
	assert.InDelta(t, 0.5, rec.curves[0].Value, 1e-9)
}

func TestTimeline_LoopWrapForward(t *testing.T) {
	tl, rec := newFixture()
	tl.Loop = true
	tl.Play()

	// Cross the end: the wrap snaps the clock home and re-arms events,
	// including one sitting exactly on the boundary.
	boundary := event.New(10, "end")
	tl.TrackByID("markers").AddEvent(boundary)

	for i := 0; i < 4; i++ {
		tl.Advance(3)
	}
	assert.Equal(t, []string{"e2", "e5", "e8", "end"}, rec.eventIDs())
	assert.Equal(t, 0.0, tl.CurrentTime())
	assert.True(t, tl.IsPlaying())

	rec.reset()
	for i := 0; i < 4; i++ {
		tl.Advance(3)
	}
	// Second pass fires everything again.
	assert.Equal(t, []string{"e2", "e5", "e8", "end"}, rec.eventIDs())
}

func TestTimeline_LoopWrapReverse(t *testing.T) {
	tl, rec := newFixture()
	tl.Loop = true
	tl.PlayReverse()
	tl.Stop()
	tl.PlayReverse()

	for i := 0; i < 4; i++ {
		tl.Advance(3)
	}
	assert.Equal(t, []string{"e8", "e5", "e2"}, rec.eventIDs())
	assert.Equal(t, 10.0, tl.CurrentTime())
	assert.True(t, tl.IsPlaying())
}

func TestTimeline_EventsDispatchBeforeCurveSamples(t *testing.T) {
	tl, _ := newFixture()
	tl.AddCurve(curve.NewFloatCurve("fade", curve.NewCurve([]curve.Keyframe{
		{Time: 0, Value: 0},
		{Time: 10, Value: 1},
	})))

	var order []string
	tl.Subscribe(EventFunc(func(EventNotification) { order = append(order, "event") }))
	tl.Subscribe(CurveFunc(func(CurveNotification) { order = append(order, "curve") }))

	tl.Play()
	tl.Advance(3)
	assert.Equal(t, []string{"event", "curve"}, order)
}

func TestTimeline_CurvesSampledEveryTickWithoutDedup(t *testing.T) {
	tl, rec := newFixture()
	tl.AddCurve(curve.NewFloatCurve("fade", curve.NewCurve([]curve.Keyframe{
		{Time: 0, Value: 0},
		{Time: 10, Value: 1},
	})))
	disabled := curve.NewFloatCurve("off", curve.NewCurve([]curve.Keyframe{{Time: 0, Value: 9}}))
	disabled.Enabled = false
	tl.AddCurve(disabled)

	tl.Play()
	tl.Advance(1)
	tl.Advance(1)
	tl.Advance(0)

	require.Len(t, rec.curves, 3)
	for _, n := range rec.curves {
		assert.Equal(t, "fade", n.CurveID)
	}
	assert.InDelta(t, 0.1, rec.curves[0].Value, 1e-9)
	assert.InDelta(t, 0.2, rec.curves[1].Value, 1e-9)
	assert.InDelta(t, 0.2, rec.curves[2].Value, 1e-9)
}

func TestTimeline_DistinctInstancesAtSameTimeBothFire(t *testing.T) {
	tl := New("deck", 10)
	track := event.NewTrack("markers", 10)
	track.AddEvent(event.New(4, "dup"))
	track.AddEvent(event.New(4, "dup"))
	tl.AddTrack(track)

	rec := &recorder{}
	tl.Subscribe(rec)
	tl.Play()
	tl.Advance(5)

	// Value-equal but separately constructed: dedup is per instance.
	assert.Equal(t, []string{"dup", "dup"}, rec.eventIDs())
}

func TestTimeline_MultipleTracksFireInTrackOrder(t *testing.T) {
	tl := New("deck", 10)
	a := event.NewTrack("a", 10)
	a.AddEvent(event.New(3, "a3"))
	b := event.NewTrack("b", 10)
	b.AddEvent(event.New(2, "b2"))
	tl.AddTrack(a)
	tl.AddTrack(b)

	rec := &recorder{}
	tl.Subscribe(rec)
	tl.Play()
	tl.Advance(4)

	// Per-track order is ascending; tracks scan in insertion order.
	assert.Equal(t, []string{"a3", "b2"}, rec.eventIDs())
	assert.Equal(t, "a", rec.events[0].TrackID)
	assert.Equal(t, "b", rec.events[1].TrackID)
}

func TestTimeline_SubscribeUnsubscribe(t *testing.T) {
	tl, rec := newFixture()
	second := &recorder{}
	tl.Subscribe(second)
	tl.Unsubscribe(rec)

	tl.Play()
	tl.Advance(3)

	assert.Empty(t, rec.events)
	assert.Equal(t, []string{"e2"}, second.eventIDs())
}

func TestTimeline_NotificationsCarryOwner(t *testing.T) {
	tl, rec := newFixture()
	tl.Play()
	tl.Advance(3)
	require.NotEmpty(t, rec.events)
	assert.Equal(t, "deck", rec.events[0].Owner)
}

func TestTimeline_AuthoringOperations(t *testing.T) {
	tl := New("deck", 10)
	assert.Nil(t, tl.TrackByID("missing"))
	assert.Nil(t, tl.CurveByID("missing"))

	tl.AddTrack(nil) // no-op
	tl.AddCurve(nil) // no-op
	assert.Empty(t, tl.Tracks())
	assert.Empty(t, tl.Curves())

	first := event.NewTrack("dup", 10)
	second := event.NewTrack("dup", 5)
	tl.AddTrack(first)
	tl.AddTrack(second)
	// Duplicate ids allowed; lookup returns the first match.
	assert.Same(t, first, tl.TrackByID("dup"))

	assert.True(t, tl.RemoveTrack("dup"))
	assert.Same(t, second, tl.TrackByID("dup"))
	assert.True(t, tl.RemoveTrack("dup"))
	assert.False(t, tl.RemoveTrack("dup"))

	fc := curve.NewFloatCurve("fade", nil)
	tl.AddCurve(fc)
	assert.Same(t, fc, tl.CurveByID("fade"))
	assert.True(t, tl.RemoveCurve("fade"))
	assert.False(t, tl.RemoveCurve("fade"))
}

func TestTimeline_PlayRestoresForwardFromReverse(t *testing.T) {
	tl, _ := newFixture()
	tl.SetSpeed(-2.5)
	tl.Play()
	assert.Equal(t, 2.5, tl.Speed())

	tl.PlayReverse()
	assert.Equal(t, -2.5, tl.Speed())

	tl.ToggleDirection()
	assert.Equal(t, 2.5, tl.Speed())
}

func TestTimeline_ZeroSpeedDefaultsToUnitOnPlay(t *testing.T) {
	tl, _ := newFixture()
	tl.SetSpeed(0)
	tl.Play()
	assert.Equal(t, 1.0, tl.Speed())
}

func TestTimeline_SpeedScalesDelta(t *testing.T) {
	tl, rec := newFixture()
	tl.SetSpeed(2)
	tl.Play()
	tl.Advance(3) // clock moves 6s
	assert.InDelta(t, 6, tl.CurrentTime(), 1e-9)
	assert.Equal(t, []string{"e2", "e5"}, rec.eventIDs())
}
