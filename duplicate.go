package touchtable

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DuplicateMode selects what a duplication stroke produces.
type DuplicateMode uint8

const (
	DuplicateSpawn            DuplicateMode = iota // spawn clones only
	DuplicatePreview                               // move a ghost only, never spawn
	DuplicateSpawnWithPreview                      // spawn clones and show the next one as a ghost
)

// DuplicateConfig holds the stroke duplication tunables. Distances are in
// world units on the gesture plane.
type DuplicateConfig struct {
	Mode      DuplicateMode
	AxisFrame AxisFrame

	RequiredFingers int
	GatherWindow    time.Duration // max spread of the quorum's touch-down times; 0 is unlimited
	HoldTime        time.Duration
	AxisPickMinMove float64

	SpacingOverride  float64 // >0 replaces the object's length along the axis
	SeparationMargin float64
	MaxPerStroke     int
	MinSpawnInterval time.Duration

	CaptureRadiusFactor float64
	DynamicCapture      bool
	DynamicCaptureSlack float64

	GhostOpacity float64
	GhostFade    time.Duration
}

// DefaultDuplicateConfig returns the stock duplication tunables.
func DefaultDuplicateConfig() DuplicateConfig {
	return DuplicateConfig{
		Mode:                DuplicateSpawn,
		AxisFrame:           AxisFrameScreen,
		RequiredFingers:     2,
		HoldTime:            50 * time.Millisecond,
		AxisPickMinMove:     0.01,
		SeparationMargin:    1,
		MaxPerStroke:        5,
		MinSpawnInterval:    50 * time.Millisecond,
		CaptureRadiusFactor: 5,
		DynamicCapture:      true,
		DynamicCaptureSlack: 0.05,
		GhostOpacity:        0.35,
		GhostFade:           120 * time.Millisecond,
	}
}

// DuplicateRecognizer lays out copies of its target along a line drawn by a
// group of fingers: every time the stroke passes another multiple of the
// object's own length a clone appears there.
type DuplicateRecognizer struct {
	base
	cfg     DuplicateConfig
	spawner Spawner
	ghosts  GhostFactory
	mt      multiTouch
	sup     suppressor
	beganAt map[int]time.Duration

	session bool
	armed   bool
	downAt  time.Duration

	plane      Plane
	startW     Vec3
	originPose Pose
	bounds     AABB

	bubbleCenter Vec3
	bubbleRadius float64

	axisChosen bool
	axis       Vec3
	step       float64
	next       int
	spawned    int
	lastSpawn  time.Duration
	clones     []Object

	ghost      Ghost
	ghostShown bool
	fade       *gween.Tween

	pts []Vec2
}

// NewDuplicateRecognizer creates a duplication recognizer for target.
// spawner is required in the spawning modes and ghosts in the preview modes.
func NewDuplicateRecognizer(target Object, deps Deps, spawner Spawner, ghosts GhostFactory, cfg DuplicateConfig) *DuplicateRecognizer {
	if cfg.RequiredFingers < 1 {
		cfg.RequiredFingers = 1
	}
	d := &DuplicateRecognizer{
		base:    newBase("duplicate", target, deps),
		cfg:     cfg,
		spawner: spawner,
		ghosts:  ghosts,
		beganAt: make(map[int]time.Duration),
	}
	d.mt.limit = cfg.RequiredFingers
	return d
}

// Active reports whether a quorum has been captured.
func (d *DuplicateRecognizer) Active() bool { return d.session }

// Armed reports whether the hold time has elapsed in the current stroke.
func (d *DuplicateRecognizer) Armed() bool { return d.armed }

// Axis returns the chosen world direction and step, or false before one is
// chosen.
func (d *DuplicateRecognizer) Axis() (Vec3, float64, bool) {
	return d.axis, d.step, d.axisChosen
}

// Clones returns the objects spawned by the current or most recent stroke.
func (d *DuplicateRecognizer) Clones() []Object { return d.clones }

// Owned returns the claimed fingers in claim order.
func (d *DuplicateRecognizer) Owned() []int { return append([]int(nil), d.mt.owned.ids...) }

// SetEnabled implements Behavior.
func (d *DuplicateRecognizer) SetEnabled(enabled bool) {
	if !enabled {
		d.Cancel()
	}
	d.enabled = enabled
}

func (d *DuplicateRecognizer) spawns() bool {
	return d.cfg.Mode == DuplicateSpawn || d.cfg.Mode == DuplicateSpawnWithPreview
}

func (d *DuplicateRecognizer) previews() bool {
	return d.cfg.Mode == DuplicatePreview || d.cfg.Mode == DuplicateSpawnWithPreview
}

func (d *DuplicateRecognizer) usable() bool {
	if !d.ready() {
		return false
	}
	if d.spawns() && d.spawner == nil {
		d.diag.warn(d.name, "no spawner; recognizer stays idle")
		return false
	}
	if d.previews() && d.ghosts == nil {
		d.diag.warn(d.name, "no ghost factory; recognizer stays idle")
		return false
	}
	return true
}

// HandleBegan implements Recognizer.
func (d *DuplicateRecognizer) HandleBegan(ev TouchEvent) {
	if !d.enabled || d.session || !d.usable() || !d.hitsTarget(ev.Position) {
		return
	}
	now := d.now()
	if d.cfg.GatherWindow > 0 {
		// Fingers that landed too long before this one cannot form a
		// quorum with it.
		for _, id := range d.Owned() {
			if now-d.beganAt[id] > d.cfg.GatherWindow {
				d.mt.ended(d.deps.Registry, d, id)
				delete(d.beganAt, id)
			}
		}
	}
	d.beganAt[ev.FingerID] = now
	d.mt.began(d.deps.Registry, d, ev)
}

// HandleMoved implements Recognizer.
func (d *DuplicateRecognizer) HandleMoved(ev TouchEvent) {
	d.mt.moved(ev)
}

// HandleEnded implements Recognizer. Lifting any captured finger ends the
// stroke.
func (d *DuplicateRecognizer) HandleEnded(ev TouchEvent) {
	delete(d.beganAt, ev.FingerID)
	if !d.mt.ended(d.deps.Registry, d, ev.FingerID) || !d.session {
		return
	}
	t := EventGestureEnded
	if ev.Phase == PhaseCanceled {
		t = EventGestureCanceled
	}
	d.finish(t)
}

// Cancel implements Recognizer.
func (d *DuplicateRecognizer) Cancel() {
	if d.session {
		d.finish(EventGestureCanceled)
		return
	}
	if d.deps.Registry != nil {
		d.mt.releaseAll(d.deps.Registry, d)
	}
	for k := range d.beganAt {
		delete(d.beganAt, k)
	}
}

// Tick implements Recognizer.
func (d *DuplicateRecognizer) Tick(dt time.Duration) {
	if !d.enabled || !d.usable() {
		return
	}
	if !d.session {
		d.mt.retry(d.deps.Registry, d)
		if d.mt.owned.len() < d.cfg.RequiredFingers || !d.begin() {
			return
		}
	}

	if !d.bubbleHolds() {
		d.finish(EventGestureCanceled)
		return
	}

	if !d.armed {
		if d.now()-d.downAt < d.cfg.HoldTime {
			return
		}
		d.armed = true
		traceSession(d.name, "armed", d.mt.owned.ids)
	}

	curr, ok := d.centroidOnPlane()
	if !ok {
		d.updateGhost(dt)
		return
	}
	delta := curr.Sub(d.startW)
	if !d.axisChosen {
		if delta.Len() < d.cfg.AxisPickMinMove {
			return
		}
		d.chooseAxis(delta)
	}

	signed := delta.Dot(d.axis)
	if d.spawns() {
		if d.spawnPassed(signed) {
			return
		}
	} else {
		d.next = clampInt(int(math.Floor(signed/d.step))+1, 1, max(d.cfg.MaxPerStroke, 1))
	}
	d.updateGhost(dt)
}

// begin starts a stroke once the quorum is owned.
func (d *DuplicateRecognizer) begin() bool {
	d.originPose = d.target.Pose()
	d.bounds = d.target.Bounds()
	if d.cfg.AxisFrame == AxisFrameWorld {
		d.plane = NewPlane(Vec3Forward, d.originPose.Position)
	} else {
		d.plane = NewPlane(d.deps.Camera.Forward().Scale(-1), d.originPose.Position)
	}
	start, ok := d.centroidOnPlane()
	if !ok {
		return false
	}
	d.startW = start
	d.session = true
	d.armed = false
	d.downAt = d.now()
	d.axisChosen = false
	d.next = 1
	d.spawned = 0
	d.clones = nil

	d.bubbleCenter = d.bounds.Center()
	ext := d.bounds.Extents().Len()
	if ext < geomEpsilon {
		ext = 0.1
	}
	d.bubbleRadius = ext * d.cfg.CaptureRadiusFactor

	if d.previews() && d.ghost == nil {
		d.ghost = d.ghosts.NewGhost(d.target)
		if d.ghost != nil {
			d.ghost.SetVisible(false)
		}
	}
	d.sup.suppress(d.suppressed(d))
	traceSession(d.name, "began", d.mt.owned.ids)
	d.emit(EventGestureBegan, d.mt.owned.ids, 0)
	return true
}

func (d *DuplicateRecognizer) chooseAxis(delta Vec3) {
	right, up := Vec3Right, Vec3Up
	if d.cfg.AxisFrame == AxisFrameScreen {
		right, up = d.deps.Camera.Right(), d.deps.Camera.Up()
	}
	n := delta.Normalize()
	if math.Abs(n.Dot(right)) >= math.Abs(n.Dot(up)) {
		d.axis = right.Scale(sign(delta.Dot(right)))
	} else {
		d.axis = up.Scale(sign(delta.Dot(up)))
	}
	d.axis = d.axis.Normalize()

	if d.cfg.SpacingOverride > 0 {
		d.step = d.cfg.SpacingOverride + d.cfg.SeparationMargin
	} else {
		d.step = d.bounds.LengthAlong(d.axis) + d.cfg.SeparationMargin
	}
	d.step = math.Max(d.step, 1e-4)
	d.axisChosen = true
	traceSession(d.name, "axis", d.mt.owned.ids)
}

// spawnPassed spawns a clone for every step multiple the stroke has passed,
// within the stroke cap and rate limit. It reports whether the stroke
// finished.
func (d *DuplicateRecognizer) spawnPassed(signed float64) bool {
	for d.spawned < d.cfg.MaxPerStroke && signed >= float64(d.next)*d.step-geomEpsilon {
		now := d.now()
		if d.spawned > 0 && now-d.lastSpawn < d.cfg.MinSpawnInterval {
			break
		}
		pose := d.originPose
		pose.Position = d.originPose.Position.Add(d.axis.Scale(float64(d.next) * d.step))
		clone := d.spawner.SpawnClone(d.target, pose)
		d.spawned++
		d.next++
		d.lastSpawn = now
		if clone != nil {
			d.clones = append(d.clones, clone)
			ev := d.event(EventCloneSpawned, d.mt.owned.ids, float64(d.spawned))
			ev.CloneID = clone.ID()
			ev.Pose = pose
			d.send(ev)
		}
		d.touched()
	}
	if d.spawned >= d.cfg.MaxPerStroke {
		d.finish(EventGestureEnded)
		return true
	}
	return false
}

// bubbleHolds reports whether every captured finger is still on the target
// or within the capture radius of its bounds.
func (d *DuplicateRecognizer) bubbleHolds() bool {
	radius := d.bubbleRadius
	if d.cfg.DynamicCapture && d.axisChosen {
		if curr, ok := d.centroidOnPlane(); ok {
			radius += math.Abs(curr.Sub(d.startW).Dot(d.axis)) + d.cfg.DynamicCaptureSlack
		}
	}
	for _, id := range d.mt.owned.ids {
		p := d.mt.owned.pos[id]
		if d.hitsTarget(p) {
			continue
		}
		w, ok := d.onPlane(p)
		if !ok || w.Dist(d.bubbleCenter) > radius {
			traceSession(d.name, "bubble", []int{id})
			return false
		}
	}
	return true
}

func (d *DuplicateRecognizer) finish(t EventType) {
	ids := append([]int(nil), d.mt.owned.ids...)
	d.mt.releaseAll(d.deps.Registry, d)
	for k := range d.beganAt {
		delete(d.beganAt, k)
	}
	d.sup.restore()
	d.hideGhost()
	wasSession := d.session
	d.session = false
	d.armed = false
	d.axisChosen = false
	if wasSession {
		traceSession(d.name, t.String(), ids)
		d.emit(t, ids, float64(d.spawned))
	}
}

func (d *DuplicateRecognizer) updateGhost(dt time.Duration) {
	if d.ghost == nil {
		return
	}
	show := d.armed && d.axisChosen && d.next <= max(d.cfg.MaxPerStroke, 1)
	if show != d.ghostShown {
		d.ghostShown = show
		d.ghost.SetVisible(show)
		d.fade = nil
		if show {
			if d.cfg.GhostFade > 0 {
				d.fade = gween.New(0, float32(d.cfg.GhostOpacity), float32(d.cfg.GhostFade.Seconds()), ease.OutQuad)
				d.ghost.SetAlpha(0)
			} else {
				d.ghost.SetAlpha(d.cfg.GhostOpacity)
			}
		}
	}
	if !show {
		return
	}
	pose := d.originPose
	pose.Position = d.originPose.Position.Add(d.axis.Scale(float64(d.next) * d.step))
	d.ghost.SetPose(pose)
	if d.fade != nil {
		a, done := d.fade.Update(float32(dt.Seconds()))
		d.ghost.SetAlpha(float64(a))
		if done {
			d.fade = nil
		}
	}
}

func (d *DuplicateRecognizer) hideGhost() {
	if d.ghost != nil && d.ghostShown {
		d.ghost.SetVisible(false)
	}
	d.ghostShown = false
	d.fade = nil
}

func (d *DuplicateRecognizer) centroidOnPlane() (Vec3, bool) {
	d.pts = d.mt.owned.points(d.pts[:0])
	if len(d.pts) == 0 {
		return Vec3{}, false
	}
	return d.onPlane(Centroid(d.pts))
}

func (d *DuplicateRecognizer) onPlane(screen Vec2) (Vec3, bool) {
	ray, ok := d.deps.Camera.ScreenRay(screen)
	if !ok {
		return Vec3{}, false
	}
	return d.plane.Raycast(ray)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
