package touchtable

import "time"

// Object is a scene object recognizers can manipulate. Implementations are
// expected to be pointer types so that interface equality is identity.
type Object interface {
	ID() string
	Name() string
	Pose() Pose
	SetPose(Pose)
	// Bounds returns the world-space axis-aligned bounds.
	Bounds() AABB
}

// Optional capabilities. Recognizers probe for them with type assertions.
type (
	// Scalable objects can be resized by the pinch recognizer.
	Scalable interface {
		Scale() Vec3
		SetScale(Vec3)
	}

	// Parented objects belong to a hierarchy; a touch on a child counts as a
	// touch on any of its ancestors.
	Parented interface {
		Parent() Object
	}

	// Kinematic objects carry a physics body that must not fight a drag.
	Kinematic interface {
		IsKinematic() bool
		SetKinematic(bool)
	}

	// Tagged objects declare which snap anchors accept them.
	Tagged interface {
		SnapTag() string
	}

	// BehaviorHost exposes extra interactive behaviors (drawing tools and
	// the like) that multi-finger gestures suspend while active.
	BehaviorHost interface {
		Behaviors() []Behavior
	}
)

// Hit is the result of a successful hit test.
type Hit struct {
	Object   Object
	Point    Vec3    // world-space intersection
	Distance float64 // along the pick ray
}

// HitTester answers which object lies under a screen point.
type HitTester interface {
	HitTest(screen Vec2) (Hit, bool)
}

// Projector maps between screen and world space.
type Projector interface {
	// ScreenRay returns the world-space pick ray through a screen point.
	ScreenRay(screen Vec2) (Ray, bool)
	// WorldToScreen projects a world point; false when it is behind the eye.
	WorldToScreen(p Vec3) (Vec2, bool)
	// Position returns the eye position.
	Position() Vec3
	// Forward returns the unit view direction.
	Forward() Vec3
	// Right and Up return the unit screen axes in world space.
	Right() Vec3
	Up() Vec3
}

// SnapListener is told when a drag locks an object onto an anchor.
type SnapListener interface {
	OnSnapped(obj Object, anchor *Anchor)
}

// Spawner instantiates clones for the duplication recognizer.
type Spawner interface {
	SpawnClone(source Object, pose Pose) Object
}

// Ghost is an inert preview proxy: it never collides and is never hit.
type Ghost interface {
	SetPose(Pose)
	SetVisible(bool)
	SetAlpha(float64)
}

// GhostFactory creates preview proxies for a source object.
type GhostFactory interface {
	NewGhost(source Object) Ghost
}

// ActivityNotifier is told whenever a gesture changes the scene. Idle
// timers use it to postpone their reset.
type ActivityNotifier interface {
	NotifyActivity()
}

// Behavior is an interactive feature that can be suspended. SetEnabled must
// be idempotent.
type Behavior interface {
	SetEnabled(bool)
}

// Toggle is a Behavior that can report its state.
type Toggle interface {
	Behavior
	Enabled() bool
}

// EventSink receives gesture events for observability.
type EventSink interface {
	EmitEvent(GestureEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(GestureEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(ev GestureEvent) { f(ev) }

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

// EmitEvent implements EventSink.
func (m MultiSink) EmitEvent(ev GestureEvent) {
	for _, s := range m {
		if s != nil {
			s.EmitEvent(ev)
		}
	}
}

// GestureEvent describes something a recognizer did. It carries identifiers
// only, never recognizer internals.
type GestureEvent struct {
	Type       EventType
	Recognizer string
	ObjectID   string
	Fingers    []int
	Pose       Pose
	Value      float64 // degrees for rotations, ratio for scaling, index for clones
	Anchor     string  // anchor name, for EventSnapped
	CloneID    string  // spawned object, for EventCloneSpawned
	At         time.Duration
}

// IsWithin reports whether obj is root or one of its descendants.
func IsWithin(obj, root Object) bool {
	for depth := 0; obj != nil && depth < 64; depth++ {
		if obj == root {
			return true
		}
		p, ok := obj.(Parented)
		if !ok {
			return false
		}
		obj = p.Parent()
	}
	return false
}

// suppressor disables a set of behaviors and later restores exactly the ones
// it turned off.
type suppressor struct {
	disabled []Behavior
	active   bool
}

func (s *suppressor) suppress(bs []Behavior) {
	if s.active {
		return
	}
	s.active = true
	for _, b := range bs {
		if b == nil {
			continue
		}
		if t, ok := b.(Toggle); ok && !t.Enabled() {
			continue
		}
		b.SetEnabled(false)
		s.disabled = append(s.disabled, b)
	}
}

func (s *suppressor) restore() {
	if !s.active {
		return
	}
	for i := len(s.disabled) - 1; i >= 0; i-- {
		s.disabled[i].SetEnabled(true)
		s.disabled[i] = nil
	}
	s.disabled = s.disabled[:0]
	s.active = false
}
