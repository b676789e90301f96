package curve

import (
	"math"
	"sort"
)

// Keyframe is a single control point of a piecewise-linear curve.
type Keyframe struct {
	Time  float64
	Value float64
}

// Curve is a piecewise-linear function of time built from sorted
// keyframes. Evaluation outside the keyframe domain uses flat
// extrapolation: the nearest endpoint value is returned. This is a fixed
// policy so sampling stays deterministic at the range edges.
type Curve struct {
	keys []Keyframe
}

// NewCurve builds a curve from the given keyframes, sorting them by time.
func NewCurve(keys []Keyframe) *Curve {
	c := &Curve{keys: make([]Keyframe, len(keys))}
	copy(c.keys, keys)
	sort.SliceStable(c.keys, func(i, j int) bool {
		return c.keys[i].Time < c.keys[j].Time
	})
	return c
}

// AddKeyframe inserts a control point, keeping the time ordering.
func (c *Curve) AddKeyframe(k Keyframe) {
	c.keys = append(c.keys, k)
	sort.SliceStable(c.keys, func(i, j int) bool {
		return c.keys[i].Time < c.keys[j].Time
	})
}

// MinTime returns the start of the keyframe domain, 0 when empty.
func (c *Curve) MinTime() float64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[0].Time
}

// MaxTime returns the end of the keyframe domain, 0 when empty.
func (c *Curve) MaxTime() float64 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].Time
}

// Length returns the domain length. Never negative.
func (c *Curve) Length() float64 {
	return c.MaxTime() - c.MinTime()
}

// Len returns the keyframe count.
func (c *Curve) Len() int {
	return len(c.keys)
}

// Evaluate samples the curve at t. Empty curves evaluate to 0; positions
// before the first or after the last keyframe clamp to the endpoint
// values.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	if n == 0 {
		return 0
	}
	if t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}
	// First keyframe with time >= t; t sits in segment [i-1, i].
	i := sort.Search(n, func(i int) bool {
		return c.keys[i].Time >= t
	})
	a, b := c.keys[i-1], c.keys[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	frac := (t - a.Time) / span
	return a.Value + (b.Value-a.Value)*frac
}

// FloatCurve is a named, optionally-looping view over a Curve. The
// timeline samples it once per tick; disabled curves are skipped by the
// caller rather than evaluated.
type FloatCurve struct {
	ID      string
	Curve   *Curve
	Enabled bool
	Loop    bool
}

// NewFloatCurve wraps a curve under an identifier, enabled and
// non-looping by default.
func NewFloatCurve(id string, c *Curve) *FloatCurve {
	if c == nil {
		c = NewCurve(nil)
	}
	return &FloatCurve{
		ID:      id,
		Curve:   c,
		Enabled: true,
	}
}

// Evaluate samples the wrapped curve. When looping, t is folded into the
// keyframe domain with a Euclidean modulo, so reverse playback times
// before the domain start land on the equivalent forward position instead
// of clamping. A degenerate (zero-length) domain folds to its start.
func (fc *FloatCurve) Evaluate(t float64) float64 {
	if fc.Loop {
		min := fc.Curve.MinTime()
		length := fc.Curve.Length()
		if length <= 0 {
			t = min
		} else {
			t = min + euclidMod(t-min, length)
		}
	}
	return fc.Curve.Evaluate(t)
}

// euclidMod returns x mod n in [0, n), defined for negative x.
func euclidMod(x, n float64) float64 {
	m := math.Mod(x, n)
	if m < 0 {
		m += n
	}
	return m
}
