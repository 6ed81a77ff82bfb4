package touchtable

import "time"

// PinchConfig holds the pinch-scale tunables.
type PinchConfig struct {
	MinFingers int
	MinScale   float64
	MaxScale   float64
	Uniform    bool // false scales X and Y only
}

// DefaultPinchConfig returns the stock pinch tunables.
func DefaultPinchConfig() PinchConfig {
	return PinchConfig{MinFingers: 2, MinScale: 0.1, MaxScale: 10, Uniform: true}
}

// PinchRecognizer scales its target by the frame-to-frame change of the mean
// distance between its fingers.
type PinchRecognizer struct {
	base
	cfg PinchConfig
	mt  multiTouch
	sup suppressor

	active   bool
	prevDist float64
	prevN    int
	pts      []Vec2
}

// NewPinchRecognizer creates a pinch recognizer for target. The target must
// implement Scalable.
func NewPinchRecognizer(target Object, deps Deps, cfg PinchConfig) *PinchRecognizer {
	if cfg.MinFingers < 2 {
		cfg.MinFingers = 2
	}
	return &PinchRecognizer{base: newBase("pinch", target, deps), cfg: cfg}
}

// Active reports whether a scaling session is running.
func (p *PinchRecognizer) Active() bool { return p.active }

// Owned returns the claimed fingers in claim order.
func (p *PinchRecognizer) Owned() []int { return append([]int(nil), p.mt.owned.ids...) }

// SetEnabled implements Behavior.
func (p *PinchRecognizer) SetEnabled(enabled bool) {
	if !enabled {
		p.Cancel()
	}
	p.enabled = enabled
}

func (p *PinchRecognizer) scalable() (Scalable, bool) {
	s, ok := p.target.(Scalable)
	if !ok {
		p.diag.warn(p.name, "target cannot be scaled; recognizer stays idle")
	}
	return s, ok
}

// HandleBegan implements Recognizer.
func (p *PinchRecognizer) HandleBegan(ev TouchEvent) {
	if !p.enabled || !p.ready() || !p.hitsTarget(ev.Position) {
		return
	}
	if _, ok := p.scalable(); !ok {
		return
	}
	p.mt.began(p.deps.Registry, p, ev)
}

// HandleMoved implements Recognizer.
func (p *PinchRecognizer) HandleMoved(ev TouchEvent) {
	p.mt.moved(ev)
}

// HandleEnded implements Recognizer.
func (p *PinchRecognizer) HandleEnded(ev TouchEvent) {
	if !p.mt.ended(p.deps.Registry, p, ev.FingerID) {
		return
	}
	if p.active && p.mt.owned.len() < p.cfg.MinFingers {
		t := EventGestureEnded
		if ev.Phase == PhaseCanceled {
			t = EventGestureCanceled
		}
		p.end(t)
	}
}

// Cancel implements Recognizer.
func (p *PinchRecognizer) Cancel() {
	if p.active {
		p.end(EventGestureCanceled)
	}
	if p.deps.Registry != nil {
		p.mt.releaseAll(p.deps.Registry, p)
	}
}

// Tick implements Recognizer.
func (p *PinchRecognizer) Tick(time.Duration) {
	if !p.enabled || !p.ready() {
		return
	}
	s, ok := p.scalable()
	if !ok {
		return
	}
	p.mt.retry(p.deps.Registry, p)

	n := p.mt.owned.len()
	if n < p.cfg.MinFingers {
		if p.active {
			p.end(EventGestureEnded)
		}
		return
	}
	if !p.active {
		p.active = true
		p.prevDist = 0
		p.sup.suppress(p.suppressed(p))
		traceSession(p.name, "began", p.mt.owned.ids)
		p.emit(EventGestureBegan, p.mt.owned.ids, 0)
	}
	if n != p.prevN {
		// A finger joined; the mean distance jumps, so start a new baseline.
		p.prevDist = 0
		p.prevN = n
	}

	p.pts = p.mt.owned.points(p.pts[:0])
	dist := MeanPairwiseDistance(p.pts)
	if dist*dist < degenerateLenSq {
		return
	}
	if p.prevDist <= 0 {
		p.prevDist = dist
		return
	}
	ratio := dist / p.prevDist
	p.prevDist = dist
	if ratio == 1 {
		return
	}

	sc := s.Scale()
	next := Vec3{
		clamp(sc.X*ratio, p.cfg.MinScale, p.cfg.MaxScale),
		clamp(sc.Y*ratio, p.cfg.MinScale, p.cfg.MaxScale),
		sc.Z,
	}
	if p.cfg.Uniform {
		next.Z = clamp(sc.Z*ratio, p.cfg.MinScale, p.cfg.MaxScale)
	}
	if next == sc {
		return
	}
	s.SetScale(next)
	p.touched()
	p.emit(EventScaled, p.mt.owned.ids, ratio)
}

func (p *PinchRecognizer) end(t EventType) {
	p.active = false
	p.prevDist = 0
	p.prevN = 0
	p.sup.restore()
	traceSession(p.name, t.String(), p.mt.owned.ids)
	p.emit(t, p.mt.owned.ids, 0)
}
