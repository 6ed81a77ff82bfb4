package touchtable

import "math"

// --- Smoothing ---

// EMA is an exponential moving average over a scalar signal. Smoothing 0
// passes the input through unchanged; values towards 1 lag more. The zero
// value starts from 0, which suits per-tick deltas.
type EMA struct {
	Smoothing float64
	value     float64
}

// Update feeds x and returns the filtered value.
func (e *EMA) Update(x float64) float64 {
	a := 1 - clamp(e.Smoothing, 0, 0.999)
	e.value += a * (x - e.value)
	return e.value
}

// Value returns the current filtered value.
func (e *EMA) Value() float64 { return e.value }

// Reset clears the filter state.
func (e *EMA) Reset() { e.value = 0 }

// EMA2 filters both components of a 2D signal independently.
type EMA2 struct {
	x, y EMA
}

// NewEMA2 returns a 2D filter with the given smoothing.
func NewEMA2(smoothing float64) EMA2 {
	return EMA2{x: EMA{Smoothing: smoothing}, y: EMA{Smoothing: smoothing}}
}

// Update feeds v and returns the filtered vector.
func (e *EMA2) Update(v Vec2) Vec2 {
	return Vec2{e.x.Update(v.X), e.y.Update(v.Y)}
}

// Reset clears the filter state.
func (e *EMA2) Reset() {
	e.x.Reset()
	e.y.Reset()
}

// DeadZone returns x when |x| reaches threshold and 0 below it.
func DeadZone(x, threshold float64) float64 {
	if math.Abs(x) >= threshold {
		return x
	}
	return 0
}

// DeadZone2 applies DeadZone to each component of v.
func DeadZone2(v Vec2, threshold float64) Vec2 {
	return Vec2{DeadZone(v.X, threshold), DeadZone(v.Y, threshold)}
}

// ClampAbs limits x to [-limit, limit]. A non-positive limit disables it.
func ClampAbs(x, limit float64) float64 {
	if limit <= 0 {
		return x
	}
	return clamp(x, -limit, limit)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// --- Angles ---

// DeltaAngle returns the shortest signed difference to-from in degrees, in
// the range (-180, 180].
func DeltaAngle(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// TwistAngle returns the signed rotation in degrees from vector a to vector b,
// counter-clockwise positive in a Y-up frame. It reports false when either
// vector is too short to carry a direction.
func TwistAngle(a, b Vec2) (float64, bool) {
	if a.LenSq() < degenerateLenSq || b.LenSq() < degenerateLenSq {
		return 0, false
	}
	from := math.Atan2(a.Y, a.X) * 180 / math.Pi
	to := math.Atan2(b.Y, b.X) * 180 / math.Pi
	return DeltaAngle(from, to), true
}

// AdaptiveGain returns 1 + distance*perUnit, never below 1.
func AdaptiveGain(distance, perUnit float64) float64 {
	g := 1 + distance*perUnit
	if g < 1 || math.IsNaN(g) || math.IsInf(g, 0) {
		return 1
	}
	return g
}

// --- Axis lock ---

// AxisLock commits to one of two screen axes and only switches when the
// other axis dominates by a hysteresis margin. Horizontal motion maps to
// AxisRoll and vertical motion to AxisPitch.
type AxisLock struct {
	Hysteresis float64
	state      AxisLockState
}

// State returns the current lock.
func (l *AxisLock) State() AxisLockState { return l.state }

// Reset returns the lock to AxisNone.
func (l *AxisLock) Reset() { l.state = AxisNone }

// Pick locks onto whichever axis of d dominates. Ties go to pitch.
func (l *AxisLock) Pick(d Vec2) AxisLockState {
	if math.Abs(d.X) > math.Abs(d.Y) {
		l.state = AxisRoll
	} else {
		l.state = AxisPitch
	}
	return l.state
}

// Update considers a switch given the latest motion d. It has no effect
// while unlocked.
func (l *AxisLock) Update(d Vec2) AxisLockState {
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	f := 1 + math.Max(l.Hysteresis, 0)
	switch l.state {
	case AxisPitch:
		if ax > ay*f {
			l.state = AxisRoll
		}
	case AxisRoll:
		if ay > ax*f {
			l.state = AxisPitch
		}
	}
	return l.state
}

// --- Snap stepping ---

// SnapAccumulator turns continuous angle deltas into whole multiples of
// Step. A multiple is committed once the accumulated value crosses the
// midpoint to it; the accumulator then restarts from zero.
type SnapAccumulator struct {
	Step float64
	acc  float64
}

// Add accumulates delta and returns the amount to commit, which is zero or a
// multiple of Step. A non-positive Step passes delta straight through.
func (s *SnapAccumulator) Add(delta float64) float64 {
	if s.Step <= 0 {
		return delta
	}
	s.acc += delta
	steps := math.Round(s.acc / s.Step)
	if steps == 0 {
		return 0
	}
	s.acc = 0
	return steps * s.Step
}

// Pending returns the uncommitted accumulated amount.
func (s *SnapAccumulator) Pending() float64 { return s.acc }

// Reset discards the accumulated amount.
func (s *SnapAccumulator) Reset() { s.acc = 0 }

// --- Finger sets ---

// Centroid returns the mean of pts, or the zero vector for an empty set.
func Centroid(pts []Vec2) Vec2 {
	if len(pts) == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// MeanRadius returns the mean distance of pts from center.
func MeanRadius(pts []Vec2, center Vec2) float64 {
	if len(pts) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pts {
		sum += p.Dist(center)
	}
	return sum / float64(len(pts))
}

// MeanPairwiseDistance returns the mean distance over all unordered pairs of
// pts, or 0 with fewer than two points.
func MeanPairwiseDistance(pts []Vec2) float64 {
	if len(pts) < 2 {
		return 0
	}
	sum := 0.0
	n := 0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			sum += pts[i].Dist(pts[j])
			n++
		}
	}
	return sum / float64(n)
}
