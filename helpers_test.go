package touchtable

import (
	"math"
	"testing"
	"time"
)

const tick = 16 * time.Millisecond

// recorder is an EventSink that keeps everything it receives.
type recorder struct {
	events []GestureEvent
}

func (r *recorder) EmitEvent(ev GestureEvent) { r.events = append(r.events, ev) }

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t EventType) (GestureEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return GestureEvent{}, false
}

// rig is an engine looking straight down +Z through an orthographic camera
// with one world unit per pixel: screen (sx, sy) is world (sx-400, 300-sy).
type rig struct {
	cam    *Camera
	table  *Table
	src    *InjectSource
	sink   *recorder
	engine *Engine
}

func newRig() *rig {
	cam := NewOrthoCamera(Rect{Width: 800, Height: 600}, 300)
	cam.Eye = Vec3{0, 0, -100}
	r := &rig{
		cam:   cam,
		table: NewTable(cam),
		src:   NewInjectSource(),
		sink:  &recorder{},
	}
	r.engine = NewEngine(r.src,
		WithCamera(cam),
		WithHitTester(r.table),
		WithSink(r.sink),
	)
	return r
}

// part adds a part of the given size centered on world (x, y, 0).
func (r *rig) part(name string, size Vec3, x, y float64) *Part {
	p := NewPart(name, size)
	p.SetPose(Pose{Position: Vec3{x, y, 0}, Rotation: QuatIdentity})
	r.table.Add(p)
	return p
}

// run performs n engine updates of one tick each.
func (r *rig) run(n int) {
	for i := 0; i < n; i++ {
		r.engine.Update(tick)
	}
}

// drain updates until every injected frame has been consumed.
func (r *rig) drain() {
	for r.src.Pending() > 0 {
		r.engine.Update(tick)
	}
}

// screen returns the screen point above world (x, y).
func screen(x, y float64) Vec2 { return Vec2{x + 400, 300 - y} }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func nearVec3(a, b Vec3) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

// toggle is a Behavior that records its state.
type toggle struct {
	on    bool
	calls int
}

func (t *toggle) SetEnabled(v bool) { t.on = v; t.calls++ }
func (t *toggle) Enabled() bool     { return t.on }

// manualClock is a Clock advanced by hand.
type manualClock struct{ now time.Duration }

func (c *manualClock) Now() time.Duration { return c.now }

func assertOwner(t *testing.T, reg *Registry, id int, want Owner) {
	t.Helper()
	got := reg.Owner(id)
	if got != want {
		name := func(o Owner) string {
			if o == nil {
				return "<nil>"
			}
			return o.Name()
		}
		t.Fatalf("finger %d owner = %s, want %s", id, name(got), name(want))
	}
}
