package loader

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/cadenzr/go-timeline-engine/internal/core/curve"
	"github.com/cadenzr/go-timeline-engine/internal/core/event"
	"github.com/cadenzr/go-timeline-engine/internal/core/timeline"
	"github.com/cadenzr/go-timeline-engine/internal/util"
)

// Definition is the JSON authoring format for a timeline. Sloppy input
// is tolerated rather than rejected: negative times clamp to zero,
// missing speed defaults to 1, empty tracks are fine. Only unreadable
// files and malformed JSON surface as errors.
type Definition struct {
	Name     string            `json:"name"`
	Duration float64           `json:"duration"`
	Loop     bool              `json:"loop"`
	Speed    float64           `json:"speed"`
	Autoplay bool              `json:"autoplay"`
	Tracks   []TrackDefinition `json:"tracks"`
	Curves   []CurveDefinition `json:"curves"`
}

// TrackDefinition declares one event track.
type TrackDefinition struct {
	ID       string            `json:"id"`
	Duration float64           `json:"duration"`
	Events   []EventDefinition `json:"events"`
}

// EventDefinition declares one timed marker.
type EventDefinition struct {
	Time    float64                `json:"time"`
	ID      string                 `json:"id"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// CurveDefinition declares one float curve. Enabled defaults to true
// when omitted.
type CurveDefinition struct {
	ID        string               `json:"id"`
	Enabled   *bool                `json:"enabled,omitempty"`
	Loop      bool                 `json:"loop"`
	Keyframes []KeyframeDefinition `json:"keyframes"`
}

// KeyframeDefinition declares one curve control point.
type KeyframeDefinition struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Load reads and decodes a timeline definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline definition: %w", err)
	}
	var def Definition
	if err := sonic.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse timeline definition %s: %w", path, err)
	}
	return &def, nil
}

// Build assembles a Timeline from the definition. Track durations that
// were omitted fall back to the timeline duration; events beyond a
// track's own duration are kept as authored (the main clock may simply
// never reach them).
func (d *Definition) Build() *timeline.Timeline {
	tl := timeline.New(d.Name, d.Duration)
	tl.Loop = d.Loop
	if d.Speed != 0 {
		tl.SetSpeed(d.Speed)
	}

	for _, td := range d.Tracks {
		duration := td.Duration
		if duration <= 0 {
			duration = d.Duration
		}
		track := event.NewTrack(td.ID, duration)
		for _, ed := range td.Events {
			if ed.Payload != nil {
				track.AddEvent(event.NewWithPayload(ed.Time, ed.ID, ed.Payload))
			} else {
				track.AddEvent(event.New(ed.Time, ed.ID))
			}
		}
		tl.AddTrack(track)
	}

	for _, cd := range d.Curves {
		keys := make([]curve.Keyframe, 0, len(cd.Keyframes))
		for _, kd := range cd.Keyframes {
			keys = append(keys, curve.Keyframe{Time: kd.Time, Value: kd.Value})
		}
		fc := curve.NewFloatCurve(cd.ID, curve.NewCurve(keys))
		fc.Loop = cd.Loop
		if cd.Enabled != nil {
			fc.Enabled = *cd.Enabled
		}
		tl.AddCurve(fc)
	}

	util.LogDebugf("built timeline %q: %d tracks, %d curves, %.3fs",
		d.Name, len(d.Tracks), len(d.Curves), d.Duration)
	return tl
}
