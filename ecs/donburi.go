package ecs

import (
	"github.com/phanxgames/touchtable"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for touchtable gesture events.
var GestureEventType = events.NewEventType[touchtable.GestureEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Gesture
// events are published to GestureEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) touchtable.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event touchtable.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}

// GestureData is the per-object state kept by a Tracker.
type GestureData struct {
	ObjectID   string
	Recognizer string // recognizer of the running or last session
	Active     bool   // a session is running
	LastEvent  touchtable.EventType
	Pose       touchtable.Pose
	Anchor     string // last anchor snapped onto
	Clones     int    // clones spawned from this object
	Events     int
}

// Gesture is the component a Tracker maintains.
var Gesture = donburi.NewComponentType[GestureData]()

// Tracker keeps one entity per manipulated object with its gesture state.
// It updates when GestureEventType.ProcessEvents runs.
type Tracker struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

// NewTracker creates a tracker and subscribes it to GestureEventType.
func NewTracker(world donburi.World) *Tracker {
	t := &Tracker{world: world, entities: make(map[string]donburi.Entity)}
	GestureEventType.Subscribe(world, t.handle)
	return t
}

// Entity returns the entity tracking objectID.
func (t *Tracker) Entity(objectID string) (donburi.Entity, bool) {
	e, ok := t.entities[objectID]
	if ok && !t.world.Valid(e) {
		delete(t.entities, objectID)
		return e, false
	}
	return e, ok
}

// Data returns a copy of the gesture state of objectID.
func (t *Tracker) Data(objectID string) (GestureData, bool) {
	e, ok := t.Entity(objectID)
	if !ok {
		return GestureData{}, false
	}
	return *Gesture.Get(t.world.Entry(e)), true
}

// Len returns how many objects are tracked.
func (t *Tracker) Len() int { return len(t.entities) }

func (t *Tracker) handle(w donburi.World, ev touchtable.GestureEvent) {
	if ev.ObjectID == "" {
		return
	}
	e, ok := t.Entity(ev.ObjectID)
	if !ok {
		e = w.Create(Gesture)
		Gesture.SetValue(w.Entry(e), GestureData{ObjectID: ev.ObjectID})
		t.entities[ev.ObjectID] = e
	}
	d := Gesture.Get(w.Entry(e))
	d.Events++
	d.LastEvent = ev.Type
	d.Pose = ev.Pose
	switch ev.Type {
	case touchtable.EventGestureBegan:
		d.Active = true
		d.Recognizer = ev.Recognizer
	case touchtable.EventGestureEnded, touchtable.EventGestureCanceled:
		d.Active = false
	case touchtable.EventSnapped:
		d.Anchor = ev.Anchor
	case touchtable.EventCloneSpawned:
		d.Clones++
	}
}
