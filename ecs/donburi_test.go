package ecs

import (
	"testing"

	"github.com/phanxgames/touchtable"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestDonburiSinkPublishesEvents(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []touchtable.GestureEvent
	GestureEventType.Subscribe(world, func(w donburi.World, e touchtable.GestureEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(touchtable.GestureEvent{
		Type:       touchtable.EventRotated,
		Recognizer: "rotate",
		ObjectID:   "wheel",
		Value:      7.5,
	})

	if len(received) != 0 {
		t.Fatal("events must wait for ProcessEvents")
	}
	GestureEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	e := received[0]
	if e.Type != touchtable.EventRotated || e.ObjectID != "wheel" || e.Value != 7.5 {
		t.Errorf("event = %+v", e)
	}
}

func TestDonburiSinkMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	GestureEventType.Subscribe(world, func(w donburi.World, e touchtable.GestureEvent) { count1++ })
	GestureEventType.Subscribe(world, func(w donburi.World, e touchtable.GestureEvent) { count2++ })

	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventSnapped})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestTrackerFollowsSessions(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	tracker := NewTracker(world)

	pose := touchtable.Pose{Position: touchtable.Vec3{X: 1, Y: 2, Z: 3}, Rotation: touchtable.QuatIdentity}
	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventGestureBegan, Recognizer: "drag", ObjectID: "crate"})
	GestureEventType.ProcessEvents(world)

	d, ok := tracker.Data("crate")
	if !ok || !d.Active || d.Recognizer != "drag" {
		t.Fatalf("data after began = %+v, %v", d, ok)
	}

	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventSnapped, ObjectID: "crate", Anchor: "shelf", Pose: pose})
	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventGestureEnded, ObjectID: "crate", Pose: pose})
	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventCloneSpawned, ObjectID: "crate"})
	GestureEventType.ProcessEvents(world)

	d, _ = tracker.Data("crate")
	if d.Active || d.Anchor != "shelf" || d.Clones != 1 || d.Events != 4 {
		t.Errorf("data = %+v", d)
	}
	if d.Pose.Position != pose.Position {
		t.Errorf("pose = %v, want %v", d.Pose.Position, pose.Position)
	}
}

func TestTrackerIgnoresAnonymousEvents(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	tracker := NewTracker(world)

	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventClaimConflict})
	GestureEventType.ProcessEvents(world)

	if tracker.Len() != 0 {
		t.Errorf("tracked %d objects, want 0", tracker.Len())
	}
}

func TestTrackerDropsRemovedEntities(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	tracker := NewTracker(world)

	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventRotated, ObjectID: "wheel"})
	GestureEventType.ProcessEvents(world)

	e, ok := tracker.Entity("wheel")
	if !ok {
		t.Fatal("wheel should be tracked")
	}
	world.Remove(e)
	if _, ok := tracker.Entity("wheel"); ok {
		t.Error("a removed entity should no longer be reported")
	}

	sink.EmitEvent(touchtable.GestureEvent{Type: touchtable.EventRotated, ObjectID: "wheel"})
	GestureEventType.ProcessEvents(world)
	if d, ok := tracker.Data("wheel"); !ok || d.Events != 1 {
		t.Errorf("recreated data = %+v, %v", d, ok)
	}
}
