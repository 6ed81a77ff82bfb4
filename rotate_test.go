package touchtable

import (
	"math"
	"testing"
	"time"
)

func rawRotateConfig() RotateConfig {
	cfg := DefaultRotateConfig()
	cfg.Smoothing = 0
	cfg.DeadZone = 0
	cfg.AdaptiveGain = false
	return cfg
}

// startRotation presses a pivot at screen (380, 300) and a pilot at
// (420, 300) and runs the tick that begins the session.
func startRotation(t *testing.T, cfg RotateConfig) (*rig, *Part, *RotateRecognizer) {
	t.Helper()
	r := newRig()
	part := r.part("wheel", Vec3{200, 200, 10}, 0, 0)
	rot := NewRotateRecognizer(part, r.engine.Deps(), cfg)
	r.engine.Add(rot)

	r.src.Frame(
		TouchOp{Kind: OpPress, FingerID: 1, Position: Vec2{380, 300}},
		TouchOp{Kind: OpPress, FingerID: 2, Position: Vec2{420, 300}},
	)
	r.run(1)
	if !rot.Active() {
		t.Fatal("rotation session should begin with two fingers")
	}
	return r, part, rot
}

func TestRotateHorizontalPilotRolls(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnableYaw = false
	r, part, rot := startRotation(t, cfg)

	r.src.Move(2, 432, 302)
	r.run(1)

	if rot.Pivot() != 1 || rot.Pilot() != 2 {
		t.Errorf("pivot/pilot = %d/%d, want 1/2", rot.Pivot(), rot.Pilot())
	}
	if rot.AxisLock() != AxisRoll {
		t.Fatalf("AxisLock = %v, want roll", rot.AxisLock())
	}
	last := rot.LastRotation()
	if last.X != 0 {
		t.Errorf("pitch = %v, want 0 while locked to roll", last.X)
	}
	if !near(last.Z, 1.2) {
		t.Errorf("roll = %v, want 1.2", last.Z)
	}
	if part.Pose().Rotation.AngleTo(QuatIdentity) < 1 {
		t.Error("part orientation should have changed")
	}
	if r.sink.count(EventRotated) != 1 {
		t.Errorf("rotated events = %d, want 1", r.sink.count(EventRotated))
	}
}

func TestRotateVerticalPilotPitches(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnableYaw = false
	r, _, rot := startRotation(t, cfg)

	r.src.Move(2, 422, 312)
	r.run(1)

	if rot.AxisLock() != AxisPitch {
		t.Fatalf("AxisLock = %v, want pitch", rot.AxisLock())
	}
	last := rot.LastRotation()
	if !near(last.X, 1.2) || last.Z != 0 {
		t.Errorf("rotation = %v, want pitch 1.2 only", last)
	}
}

func TestRotateTwistYaws(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnablePitch = false
	cfg.EnableRoll = false
	r, _, rot := startRotation(t, cfg)

	// Orbit the pilot 10 degrees counter-clockwise around the pivot.
	a := 10 * math.Pi / 180
	r.src.Move(2, 380+40*math.Cos(a), 300-40*math.Sin(a))
	r.run(1)

	last := rot.LastRotation()
	if !near(last.Y, 7.5) {
		t.Errorf("yaw = %v, want 10 * 0.75", last.Y)
	}
	if last.X != 0 || last.Z != 0 {
		t.Errorf("rotation = %v, want yaw only", last)
	}
}

func TestRotateClampsPerTick(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnablePitch = false
	cfg.EnableRoll = false
	r, _, rot := startRotation(t, cfg)

	a := 40 * math.Pi / 180
	r.src.Move(2, 380+40*math.Cos(a), 300-40*math.Sin(a))
	r.run(1)

	if got := rot.LastRotation().Y; !near(got, cfg.MaxDegPerTick) {
		t.Errorf("yaw = %v, want clamped to %v", got, cfg.MaxDegPerTick)
	}
}

func TestRotatePitchClamp(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnableYaw = false
	cfg.PitchMin, cfg.PitchMax = -2, 2
	r, _, rot := startRotation(t, cfg)

	r.src.Move(2, 420, 320) // 20px: 2 degrees, reaches the limit
	r.run(1)
	r.src.Move(2, 420, 340)
	r.run(1)

	if got := rot.LastRotation().X; got != 0 {
		t.Errorf("pitch past the clamp = %v, want 0", got)
	}
}

func TestRotateRadiusGate(t *testing.T) {
	r := newRig()
	part := r.part("wheel", Vec3{200, 200, 10}, 0, 0)
	rot := NewRotateRecognizer(part, r.engine.Deps(), rawRotateConfig())
	r.engine.Add(rot)

	r.src.Frame(
		TouchOp{Kind: OpPress, FingerID: 1, Position: Vec2{395, 300}},
		TouchOp{Kind: OpPress, FingerID: 2, Position: Vec2{405, 300}},
	)
	r.run(1)
	if rot.Active() {
		t.Error("fingers closer than the minimum radius must not start a session")
	}
}

func TestRotateRequiresExactlyTwo(t *testing.T) {
	r, _, rot := startRotation(t, rawRotateConfig())

	r.src.Press(3, 400, 350)
	r.run(1)
	if got := rot.Owned(); len(got) != 2 {
		t.Errorf("owned = %v, want two fingers", got)
	}
	if r.engine.Registry().Owner(3) != nil {
		t.Error("a third finger should stay unclaimed")
	}
}

func TestRotateFingerLossEndsSession(t *testing.T) {
	r, _, rot := startRotation(t, rawRotateConfig())

	r.src.Cancel(1)
	r.run(1)
	if rot.Active() {
		t.Error("losing a finger should end the session")
	}
	if r.sink.count(EventGestureCanceled) != 1 {
		t.Errorf("events = %+v", r.sink.events)
	}
	if r.engine.Registry().Owner(2) != rot {
		t.Error("the remaining finger stays owned until it lifts")
	}
}

func TestRotateLeastMovingPivot(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.PivotMode = PivotLeastMoving
	cfg.PivotDetectTicks = 2
	r, _, rot := startRotation(t, cfg)

	// Finger 1 moves, finger 2 holds: 2 becomes the pivot.
	r.src.Move(1, 370, 300)
	r.src.Move(1, 360, 300)
	r.drain()

	if rot.Pivot() != 2 || rot.Pilot() != 1 {
		t.Errorf("pivot/pilot = %d/%d, want 2/1", rot.Pivot(), rot.Pilot())
	}
}

func TestRotateRolesFollowTouchDownOrder(t *testing.T) {
	r := newRig()
	part := r.part("wheel", Vec3{200, 200, 10}, 0, 0)
	deps := r.engine.Deps()
	dcfg := dragConfig()
	dcfg.ArmDelay = 100 * time.Millisecond
	drag := NewDragRecognizer(part, deps, nil, nil, dcfg)
	cfg := rawRotateConfig()
	cfg.EnableYaw = false
	rot := NewRotateRecognizer(part, deps, cfg)
	r.engine.Add(drag, rot)

	// The arming drag holds finger 1 until finger 2 lands, so the rotation
	// gains finger 1 after finger 2.
	r.src.Press(1, 380, 300)
	r.run(1)
	r.src.Press(2, 420, 300)
	r.run(1)
	if got := rot.Owned(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("owned = %v, want [1 2]", got)
	}

	for x := 424.0; x <= 432; x += 4 {
		r.src.Move(2, x, 300)
		r.run(1)
	}
	if rot.Pivot() != 1 || rot.Pilot() != 2 {
		t.Errorf("pivot/pilot = %d/%d, want 1/2", rot.Pivot(), rot.Pilot())
	}
	if rot.AxisLock() != AxisRoll {
		t.Fatalf("AxisLock = %v, want roll", rot.AxisLock())
	}
	if got := rot.LastRotation().Z; !near(got, 0.4) {
		t.Errorf("roll = %v, want 0.4", got)
	}
	if part.Pose().Rotation.AngleTo(QuatIdentity) < 0.5 {
		t.Error("part orientation should have changed")
	}
}

func TestRotateExtraFingerKeepsSession(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.RequireExactlyTwo = false
	cfg.EnableYaw = false
	r, _, rot := startRotation(t, cfg)

	r.src.Press(3, 400, 350)
	r.run(1)
	if got := rot.Owned(); len(got) != 3 {
		t.Fatalf("owned = %v, want three fingers", got)
	}
	r.src.Move(2, 432, 302)
	r.run(1)
	if rot.AxisLock() != AxisRoll {
		t.Fatalf("AxisLock = %v, want roll", rot.AxisLock())
	}

	r.src.Release(3)
	r.run(1)
	if !rot.Active() || rot.AxisLock() != AxisRoll {
		t.Errorf("active = %v lock = %v, want the session untouched", rot.Active(), rot.AxisLock())
	}
	if r.sink.count(EventGestureBegan) != 1 || r.sink.count(EventGestureEnded) != 0 {
		t.Errorf("events = %+v", r.sink.events)
	}

	r.src.Move(2, 444, 302)
	r.run(1)
	if got := rot.LastRotation().Z; !near(got, 1.2) {
		t.Errorf("roll = %v, want 1.2", got)
	}

	r.src.Release(1)
	r.run(1)
	if rot.Active() {
		t.Error("losing the pivot should end the session")
	}
}

func TestRotateSnapAngle(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnableYaw = false
	cfg.SnapAngle = 5
	r, part, rot := startRotation(t, cfg)

	r.src.Move(2, 432, 302) // 1.2 degrees, held back
	r.run(1)
	if got := rot.LastRotation().Z; got != 0 {
		t.Errorf("roll = %v, want 0 below half a step", got)
	}

	r.src.Move(2, 452, 302) // 1.2 + 2 crosses half a step
	r.run(1)
	if got := rot.LastRotation().Z; !near(got, 5) {
		t.Errorf("roll = %v, want one step", got)
	}

	// 20 degrees clamps to 8 before it reaches the accumulator.
	r.src.Move(2, 652, 302)
	r.run(1)
	if got := rot.LastRotation().Z; !near(got, 10) {
		t.Errorf("roll = %v, want two steps", got)
	}
	if got := part.Pose().Rotation.AngleTo(QuatIdentity); math.Abs(got-15) > 1e-3 {
		t.Errorf("orientation = %v degrees, want 15", got)
	}
}

func TestRotateAdaptiveGain(t *testing.T) {
	cfg := rawRotateConfig()
	cfg.EnableYaw = false
	cfg.AdaptiveGain = true
	cfg.GainPerUnit = 0.01 // the camera sits 100 units away: gain 2
	r, _, rot := startRotation(t, cfg)

	r.src.Move(2, 432, 302)
	r.run(1)
	if got := rot.LastRotation().Z; !near(got, 2.4) {
		t.Errorf("roll = %v, want 1.2 doubled", got)
	}
}
