package touchtable

import "time"

// RotateConfig holds the pivot/pilot rotation tunables. Distances are in
// screen pixels and angles in degrees.
type RotateConfig struct {
	RequireExactlyTwo bool // false accepts two or more fingers

	PivotMode        PivotMode
	PivotDetectTicks int     // observation window for PivotLeastMoving
	PivotJitter      float64 // per-tick motion still considered stationary

	AxisPickMinMove float64 // pilot travel before pitch/roll is chosen
	AxisHysteresis  float64 // margin the other axis needs to take over

	TwistThreshold float64 // smallest yaw step that counts
	TwistGain      float64
	TranslateGain  float64 // degrees per pixel of pilot travel
	Sensitivity    float64

	Smoothing     float64 // EMA smoothing, 0 is raw
	DeadZone      float64
	MaxDegPerTick float64

	AdaptiveGain bool
	GainPerUnit  float64

	SnapAngle float64 // >0 rotates in discrete steps
	MinRadius float64 // fingers' mean distance to their centroid

	ClampPitch bool
	PitchMin   float64
	PitchMax   float64

	EnableYaw   bool
	EnablePitch bool
	EnableRoll  bool
	WorldSpace  bool
}

// DefaultRotateConfig returns the stock rotation tunables.
func DefaultRotateConfig() RotateConfig {
	return RotateConfig{
		RequireExactlyTwo: true,
		PivotMode:         PivotFirstFinger,
		PivotDetectTicks:  3,
		PivotJitter:       3,
		AxisPickMinMove:   5,
		AxisHysteresis:    0.35,
		TwistThreshold:    2,
		TwistGain:         0.75,
		TranslateGain:     0.1,
		Sensitivity:       1,
		Smoothing:         0.35,
		DeadZone:          3,
		MaxDegPerTick:     8,
		AdaptiveGain:      true,
		GainPerUnit:       0.15,
		MinRadius:         10,
		ClampPitch:        true,
		PitchMin:          -80,
		PitchMax:          80,
		EnableYaw:         true,
		EnablePitch:       true,
		EnableRoll:        true,
		WorldSpace:        true,
	}
}

// RotateRecognizer turns two fingers into rotation: the pivot finger is held
// still while the pilot twists around it for yaw, or slides vertically for
// pitch and horizontally for roll.
type RotateRecognizer struct {
	base
	cfg RotateConfig
	mt  multiTouch
	sup suppressor

	active bool
	pivot  int
	pilot  int
	pair   [2]int // the two fingers driving the session

	start map[int]Vec2 // positions at session start
	prev  map[int]Vec2 // positions at the previous tick

	detectTicks int
	accA, accB  float64

	lock     AxisLock
	twist    EMA
	pilotEMA EMA2

	snapYaw, snapPitch, snapRoll SnapAccumulator

	pitchAccum float64
	last       Vec3
	pts        []Vec2
}

// NewRotateRecognizer creates a rotation recognizer for target.
func NewRotateRecognizer(target Object, deps Deps, cfg RotateConfig) *RotateRecognizer {
	r := &RotateRecognizer{
		base:  newBase("rotate", target, deps),
		cfg:   cfg,
		start: make(map[int]Vec2),
		prev:  make(map[int]Vec2),
	}
	if cfg.RequireExactlyTwo {
		r.mt.limit = 2
	}
	r.resetSession()
	return r
}

// Active reports whether a rotation session is running.
func (r *RotateRecognizer) Active() bool { return r.active }

// Pivot returns the pivot finger, or -1 before roles are assigned.
func (r *RotateRecognizer) Pivot() int { return r.pivot }

// Pilot returns the pilot finger, or -1 before roles are assigned.
func (r *RotateRecognizer) Pilot() int { return r.pilot }

// AxisLock returns the current pitch/roll commitment.
func (r *RotateRecognizer) AxisLock() AxisLockState { return r.lock.State() }

// LastRotation returns the pitch, yaw and roll degrees applied on the most
// recent tick of the session.
func (r *RotateRecognizer) LastRotation() Vec3 { return r.last }

// Owned returns the claimed fingers in claim order.
func (r *RotateRecognizer) Owned() []int { return append([]int(nil), r.mt.owned.ids...) }

// SetEnabled implements Behavior.
func (r *RotateRecognizer) SetEnabled(enabled bool) {
	if !enabled {
		r.Cancel()
	}
	r.enabled = enabled
}

// HandleBegan implements Recognizer.
func (r *RotateRecognizer) HandleBegan(ev TouchEvent) {
	if !r.enabled || !r.ready() || !r.hitsTarget(ev.Position) {
		return
	}
	r.mt.began(r.deps.Registry, r, ev)
}

// HandleMoved implements Recognizer.
func (r *RotateRecognizer) HandleMoved(ev TouchEvent) {
	r.mt.moved(ev)
}

// HandleEnded implements Recognizer. Losing a participating finger ends the
// session at once; extra fingers may come and go.
func (r *RotateRecognizer) HandleEnded(ev TouchEvent) {
	if !r.mt.ended(r.deps.Registry, r, ev.FingerID) {
		return
	}
	if r.active && (ev.FingerID == r.pair[0] || ev.FingerID == r.pair[1]) {
		t := EventGestureEnded
		if ev.Phase == PhaseCanceled {
			t = EventGestureCanceled
		}
		r.endSession(t)
	}
	if r.mt.owned.len() == 0 {
		r.sup.restore()
	}
}

// Cancel implements Recognizer.
func (r *RotateRecognizer) Cancel() {
	if r.active {
		r.endSession(EventGestureCanceled)
	}
	if r.deps.Registry != nil {
		r.mt.releaseAll(r.deps.Registry, r)
	}
	r.sup.restore()
}

// Tick implements Recognizer.
func (r *RotateRecognizer) Tick(time.Duration) {
	if !r.enabled || !r.ready() {
		return
	}
	r.mt.retry(r.deps.Registry, r)

	n := r.mt.owned.len()
	valid := n >= 2
	if r.cfg.RequireExactlyTwo {
		valid = n == 2
	}
	if !valid {
		if r.active {
			r.endSession(EventGestureEnded)
		}
		return
	}

	ids := r.mt.owned.ids[:2]
	if r.active {
		ids = r.pair[:]
	}
	r.pts = append(r.pts[:0], r.mt.owned.pos[ids[0]], r.mt.owned.pos[ids[1]])
	if MeanRadius(r.pts, Centroid(r.pts)) < r.cfg.MinRadius {
		if r.active {
			r.endSession(EventGestureEnded)
		}
		return
	}

	if !r.active {
		r.beginSession(ids)
		return
	}

	if r.pivot < 0 && !r.assignRoles(ids) {
		r.remember(ids)
		return
	}

	rot := r.evaluate()
	r.apply(rot)
	r.remember(ids)
}

func (r *RotateRecognizer) beginSession(ids []int) {
	r.resetSession()
	r.active = true
	r.pair = [2]int{ids[0], ids[1]}
	for _, id := range ids {
		p := r.mt.owned.pos[id]
		r.start[id] = p
		r.prev[id] = p
	}
	r.sup.suppress(r.suppressed(r))
	traceSession(r.name, "began", ids)
	r.emit(EventGestureBegan, ids, 0)
}

func (r *RotateRecognizer) endSession(t EventType) {
	ids := []int{r.pivot, r.pilot}
	r.active = false
	r.resetSession()
	traceSession(r.name, t.String(), ids)
	r.emit(t, r.mt.owned.ids, 0)
}

func (r *RotateRecognizer) resetSession() {
	r.pivot, r.pilot = -1, -1
	r.pair = [2]int{-1, -1}
	r.detectTicks = 0
	r.accA, r.accB = 0, 0
	r.lock = AxisLock{Hysteresis: r.cfg.AxisHysteresis}
	r.twist = EMA{Smoothing: r.cfg.Smoothing}
	r.pilotEMA = NewEMA2(r.cfg.Smoothing)
	r.snapYaw = SnapAccumulator{Step: r.cfg.SnapAngle}
	r.snapPitch = SnapAccumulator{Step: r.cfg.SnapAngle}
	r.snapRoll = SnapAccumulator{Step: r.cfg.SnapAngle}
	r.last = Vec3{}
	for k := range r.start {
		delete(r.start, k)
	}
	for k := range r.prev {
		delete(r.prev, k)
	}
}

// assignRoles fixes pivot and pilot. Roles never change for the rest of the
// session.
func (r *RotateRecognizer) assignRoles(ids []int) bool {
	a, b := ids[0], ids[1]
	if r.cfg.PivotMode == PivotFirstFinger {
		r.pivot, r.pilot = a, b
		return true
	}
	r.accA += r.mt.owned.pos[a].Dist(r.prev[a])
	r.accB += r.mt.owned.pos[b].Dist(r.prev[b])
	r.detectTicks++
	if r.detectTicks < r.cfg.PivotDetectTicks {
		return false
	}
	limit := r.cfg.PivotJitter * float64(r.detectTicks)
	aStill := r.accA <= r.accB && r.accA <= limit
	bStill := r.accB < r.accA && r.accB <= limit
	switch {
	case aStill:
		r.pivot, r.pilot = a, b
	case bStill:
		r.pivot, r.pilot = b, a
	case r.accA <= r.accB:
		r.pivot, r.pilot = a, b
	default:
		r.pivot, r.pilot = b, a
	}
	return true
}

// evaluate derives this tick's rotation in degrees around X (pitch), Y (yaw)
// and Z (roll).
func (r *RotateRecognizer) evaluate() Vec3 {
	var rot Vec3
	gain := r.gain()

	pivotNow, pilotNow := r.mt.owned.pos[r.pivot], r.mt.owned.pos[r.pilot]
	pivotPrev, pilotPrev := r.prev[r.pivot], r.prev[r.pilot]

	if r.cfg.EnableYaw {
		// Screen Y grows downward; flip it so counter-clockwise is positive.
		before := pilotPrev.Sub(pivotPrev)
		after := pilotNow.Sub(pivotNow)
		if a, ok := TwistAngle(Vec2{before.X, -before.Y}, Vec2{after.X, -after.Y}); ok {
			s := DeadZone(r.twist.Update(a), r.cfg.TwistThreshold)
			if s != 0 {
				rot.Y = ClampAbs(s*r.cfg.TwistGain*r.cfg.Sensitivity*gain, r.cfg.MaxDegPerTick)
			}
		}
	}

	d := DeadZone2(r.pilotEMA.Update(pilotNow.Sub(pilotPrev)), r.cfg.DeadZone)
	travel := pilotNow.Sub(r.start[r.pilot])
	switch {
	case r.lock.State() == AxisNone && travel.Len() > r.cfg.AxisPickMinMove:
		r.lock.Pick(travel)
		traceSession(r.name, "lock:"+r.lock.State().String(), []int{r.pivot, r.pilot})
	case r.lock.State() != AxisNone && d.LenSq() > 0:
		was := r.lock.State()
		if r.lock.Update(d) != was {
			traceSession(r.name, "lock:"+r.lock.State().String(), []int{r.pivot, r.pilot})
		}
	}

	k := r.cfg.TranslateGain * r.cfg.Sensitivity * gain
	switch r.lock.State() {
	case AxisPitch:
		if r.cfg.EnablePitch && d.Y != 0 {
			rot.X = ClampAbs(d.Y*k, r.cfg.MaxDegPerTick)
		}
	case AxisRoll:
		if r.cfg.EnableRoll && d.X != 0 {
			rot.Z = ClampAbs(d.X*k, r.cfg.MaxDegPerTick)
		}
	}

	if r.cfg.SnapAngle > 0 {
		rot.X = r.snapPitch.Add(rot.X)
		rot.Y = r.snapYaw.Add(rot.Y)
		rot.Z = r.snapRoll.Add(rot.Z)
	}

	if r.cfg.ClampPitch && rot.X != 0 {
		next := clamp(r.pitchAccum+rot.X, r.cfg.PitchMin, r.cfg.PitchMax)
		rot.X = next - r.pitchAccum
		r.pitchAccum = next
	}
	return rot
}

func (r *RotateRecognizer) apply(rot Vec3) {
	r.last = rot
	if rot == (Vec3{}) {
		return
	}
	pose := r.target.Pose()
	q := pose.Rotation
	rx := QuatAxisAngle(Vec3Right, rot.X)
	ry := QuatAxisAngle(Vec3Up, rot.Y)
	rz := QuatAxisAngle(Vec3Forward, rot.Z)
	if r.cfg.WorldSpace {
		q = rz.Mul(ry.Mul(rx.Mul(q)))
	} else {
		q = q.Mul(rx).Mul(ry).Mul(rz)
	}
	pose.Rotation = q.Normalize()
	r.target.SetPose(pose)
	r.touched()
	r.emit(EventRotated, []int{r.pivot, r.pilot}, rot.Len())
}

func (r *RotateRecognizer) remember(ids []int) {
	for _, id := range ids {
		r.prev[id] = r.mt.owned.pos[id]
	}
}

func (r *RotateRecognizer) gain() float64 {
	if !r.cfg.AdaptiveGain {
		return 1
	}
	return AdaptiveGain(r.deps.Camera.Position().Dist(r.target.Pose().Position), r.cfg.GainPerUnit)
}
