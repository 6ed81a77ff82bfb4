package touchtable

import (
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestIdleResetReturnsToOrigin(t *testing.T) {
	clock := &manualClock{}
	part := NewPart("wheel", Vec3{1, 1, 1})
	idle := NewIdleReset(part, clock, IdleResetConfig{
		Timeout:  time.Second,
		Duration: 500 * time.Millisecond,
		Ease:     ease.Linear,
	})

	part.SetPose(Pose{Position: Vec3{10, 0, 0}, Rotation: QuatIdentity})

	clock.now = 900 * time.Millisecond
	idle.Tick(0)
	if idle.Resetting() {
		t.Fatal("reset started before the timeout")
	}

	clock.now = time.Second
	idle.Tick(0)
	if !idle.Resetting() {
		t.Fatal("reset should start at the timeout")
	}

	idle.Tick(250 * time.Millisecond)
	if got := part.Pose().Position; !nearVec3(got, Vec3{5, 0, 0}) {
		t.Errorf("halfway position = %v, want (5,0,0)", got)
	}

	idle.Tick(250 * time.Millisecond)
	if got := part.Pose().Position; got != (Vec3{}) {
		t.Errorf("final position = %v, want origin", got)
	}
	if idle.Resetting() {
		t.Error("reset should be finished")
	}
}

func TestIdleResetActivityPostpones(t *testing.T) {
	clock := &manualClock{}
	part := NewPart("wheel", Vec3{1, 1, 1})
	idle := NewIdleReset(part, clock, IdleResetConfig{Timeout: time.Second})
	part.SetPose(Pose{Position: Vec3{3, 0, 0}, Rotation: QuatIdentity})

	clock.now = 800 * time.Millisecond
	idle.NotifyActivity()
	clock.now = 1500 * time.Millisecond
	idle.Tick(0)
	if idle.Resetting() || part.Pose().Position.X != 3 {
		t.Error("activity should restart the timeout")
	}

	clock.now = 1800 * time.Millisecond
	idle.Tick(0)
	if part.Pose().Position != (Vec3{}) {
		t.Errorf("zero duration should snap back, got %v", part.Pose().Position)
	}
}

func TestIdleResetWiredThroughEngine(t *testing.T) {
	r := newRig()
	part := r.part("wheel", Vec3{100, 100, 10}, 0, 0)
	idle := NewIdleReset(part, r.engine, IdleResetConfig{Timeout: 100 * time.Millisecond})
	deps := r.engine.Deps()
	deps.Activity = idle
	r.engine.Add(NewDragRecognizer(part, deps, nil, nil, dragConfig()))
	r.engine.AddTicker(idle)

	r.src.Press(1, 400, 300)
	r.src.Move(1, 420, 300)
	r.src.Release(1)
	r.drain()
	if got := part.Pose().Position; !nearVec3(got, Vec3{20, 0, 0}) {
		t.Fatalf("position after drag = %v", got)
	}

	r.run(10) // 160ms without activity
	if got := part.Pose().Position; got != (Vec3{}) {
		t.Errorf("position after idle = %v, want origin", got)
	}
}

type activityCount int

func (c *activityCount) NotifyActivity() { *c++ }

func TestActivityGroupFansOut(t *testing.T) {
	clock := &manualClock{}
	part := NewPart("wheel", Vec3{1, 1, 1})
	idle := NewIdleReset(part, clock, IdleResetConfig{Timeout: time.Second})
	var count activityCount

	part.SetPose(Pose{Position: Vec3{2, 0, 0}, Rotation: QuatIdentity})
	idle.SetOrigin(part.Pose())

	clock.now = 900 * time.Millisecond
	ActivityGroup{idle, nil, &count}.NotifyActivity()
	clock.now = 1500 * time.Millisecond
	idle.Tick(0)

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if idle.Resetting() || part.Pose().Position != (Vec3{2, 0, 0}) {
		t.Error("the part is at its origin and should stay put")
	}
}
