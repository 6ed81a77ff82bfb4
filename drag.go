package touchtable

import "time"

// DragConfig holds the drag-and-snap tunables.
type DragConfig struct {
	SnapDistance float64       // world units between object and anchor
	SnapAngle    float64       // degrees between object and anchor orientation
	ArmDelay     time.Duration // hold before motion starts; 0 drags at once
	Tag          string        // compatibility tag; empty uses the object's Tagged value
}

// DefaultDragConfig returns the stock drag tunables.
func DefaultDragConfig() DragConfig {
	return DragConfig{
		SnapDistance: 0.08,
		SnapAngle:    15,
		ArmDelay:     100 * time.Millisecond,
	}
}

type dragState uint8

const (
	dragIdle dragState = iota
	dragArming
	dragDragging
)

// DragRecognizer moves its target with one finger across a plane parallel
// to the view, then snaps it onto a compatible anchor on release.
//
// While arming, a second finger landing on the target makes the drag give
// its finger back so a multi-finger recognizer registered after it can take
// both.
type DragRecognizer struct {
	base
	cfg      DragConfig
	anchors  *AnchorSet
	listener SnapListener

	state  dragState
	finger int
	start  time.Duration
	plane  Plane
	offset Vec3
	last   Vec2

	kin          Kinematic
	wasKinematic bool
}

// NewDragRecognizer creates a drag recognizer for target. anchors and
// listener may be nil.
func NewDragRecognizer(target Object, deps Deps, anchors *AnchorSet, listener SnapListener, cfg DragConfig) *DragRecognizer {
	return &DragRecognizer{
		base:     newBase("drag", target, deps),
		cfg:      cfg,
		anchors:  anchors,
		listener: listener,
	}
}

// Dragging reports whether the target is following a finger.
func (d *DragRecognizer) Dragging() bool { return d.state == dragDragging }

// Arming reports whether a finger is held but motion has not started.
func (d *DragRecognizer) Arming() bool { return d.state == dragArming }

// Finger returns the owned finger, or -1.
func (d *DragRecognizer) Finger() int {
	if d.state == dragIdle {
		return -1
	}
	return d.finger
}

// SetEnabled implements Behavior. Disabling cancels a drag in progress.
func (d *DragRecognizer) SetEnabled(enabled bool) {
	if !enabled {
		d.Cancel()
	}
	d.enabled = enabled
}

// HandleBegan implements Recognizer.
func (d *DragRecognizer) HandleBegan(ev TouchEvent) {
	if !d.enabled || !d.ready() {
		return
	}
	if d.state == dragArming && ev.FingerID != d.finger && d.hitsTarget(ev.Position) {
		traceSession(d.name, "yield", []int{d.finger, ev.FingerID})
		d.stop(EventGestureCanceled)
		return
	}
	if d.state != dragIdle || !d.hitsTarget(ev.Position) {
		return
	}
	if !d.deps.Registry.TryClaim(ev.FingerID, d) {
		return
	}
	pose := d.target.Pose()
	d.plane = NewPlane(d.deps.Camera.Forward().Scale(-1), pose.Position)
	hit, ok := d.project(ev.Position)
	if !ok {
		d.deps.Registry.Release(ev.FingerID, d)
		return
	}
	d.finger = ev.FingerID
	d.offset = pose.Position.Sub(hit)
	d.last = ev.Position
	d.start = d.now()
	d.state = dragArming
	traceSession(d.name, "arming", []int{d.finger})
	if d.cfg.ArmDelay <= 0 {
		d.begin()
	}
}

// HandleMoved implements Recognizer.
func (d *DragRecognizer) HandleMoved(ev TouchEvent) {
	if d.state == dragIdle || ev.FingerID != d.finger {
		return
	}
	d.last = ev.Position
	if d.state == dragDragging && ev.Phase == PhaseMoved {
		d.follow(ev.Position)
	}
}

// HandleEnded implements Recognizer.
func (d *DragRecognizer) HandleEnded(ev TouchEvent) {
	if d.state == dragIdle || ev.FingerID != d.finger {
		return
	}
	if ev.Phase == PhaseCanceled {
		d.stop(EventGestureCanceled)
		return
	}
	// A tap released while arming never picked the part up.
	wasDragging := d.state == dragDragging
	d.stop(EventGestureEnded)
	if wasDragging {
		d.trySnap()
	}
}

// Tick implements Recognizer. It completes arming once the hold elapses.
func (d *DragRecognizer) Tick(time.Duration) {
	if d.state == dragArming && d.now()-d.start >= d.cfg.ArmDelay {
		d.begin()
	}
}

// Cancel implements Recognizer.
func (d *DragRecognizer) Cancel() {
	if d.state != dragIdle {
		d.stop(EventGestureCanceled)
	}
}

func (d *DragRecognizer) begin() {
	// Re-anchor so that finger motion during arming does not make the
	// object jump.
	if hit, ok := d.project(d.last); ok {
		d.offset = d.target.Pose().Position.Sub(hit)
	}
	if k, ok := d.target.(Kinematic); ok {
		d.kin = k
		d.wasKinematic = k.IsKinematic()
		k.SetKinematic(true)
	}
	if d.anchors != nil {
		d.anchors.ReleaseOccupant(d.target)
	}
	d.state = dragDragging
	traceSession(d.name, "dragging", []int{d.finger})
	d.emit(EventGestureBegan, []int{d.finger}, 0)
}

func (d *DragRecognizer) follow(screen Vec2) {
	hit, ok := d.project(screen)
	if !ok {
		return
	}
	pose := d.target.Pose()
	pose.Position = hit.Add(d.offset)
	d.target.SetPose(pose)
	d.touched()
}

func (d *DragRecognizer) stop(t EventType) {
	id := d.finger
	wasDragging := d.state == dragDragging
	d.deps.Registry.Release(id, d)
	if d.kin != nil {
		d.kin.SetKinematic(d.wasKinematic)
		d.kin = nil
	}
	d.state = dragIdle
	d.finger = -1
	traceSession(d.name, t.String(), []int{id})
	if wasDragging {
		d.emit(t, []int{id}, 0)
	}
}

func (d *DragRecognizer) trySnap() {
	if d.anchors == nil {
		return
	}
	tag := d.cfg.Tag
	if tag == "" {
		if t, ok := d.target.(Tagged); ok {
			tag = t.SnapTag()
		}
	}
	a, ok := d.anchors.Qualify(d.target, tag, d.cfg.SnapDistance, d.cfg.SnapAngle)
	if !ok {
		return
	}
	d.target.SetPose(a.Pose)
	a.Occupy(d.target)
	if d.listener != nil {
		d.listener.OnSnapped(d.target, a)
	}
	ev := d.event(EventSnapped, nil, 0)
	ev.Anchor = a.Name
	d.send(ev)
	d.touched()
}

func (d *DragRecognizer) project(screen Vec2) (Vec3, bool) {
	ray, ok := d.deps.Camera.ScreenRay(screen)
	if !ok {
		return Vec3{}, false
	}
	return d.plane.Raycast(ray)
}
