package touchtable

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestOrthoCameraRoundTrip(t *testing.T) {
	cam := NewOrthoCamera(Rect{Width: 800, Height: 600}, 300)
	cam.Eye = Vec3{0, 0, -100}

	ray, ok := cam.ScreenRay(Vec2{500, 100})
	if !ok {
		t.Fatal("ScreenRay failed")
	}
	if !nearVec3(ray.Origin, Vec3{100, 200, -100}) || !nearVec3(ray.Dir, Vec3Forward) {
		t.Errorf("ray = %+v", ray)
	}

	sp, ok := cam.WorldToScreen(Vec3{100, 200, 5})
	if !ok || !near(sp.X, 500) || !near(sp.Y, 100) {
		t.Errorf("WorldToScreen = %v, %v", sp, ok)
	}
}

func TestPerspectiveCameraCenterRay(t *testing.T) {
	cam := NewCamera(Rect{Width: 1280, Height: 800})
	cam.Eye = Vec3{0, 5, -10}
	cam.LookAt(Vec3{}, Vec3Up)

	ray, ok := cam.ScreenRay(Vec2{640, 400})
	if !ok {
		t.Fatal("ScreenRay failed")
	}
	want := Vec3{0, -5, 10}.Normalize()
	if !nearVec3(ray.Dir, want) {
		t.Errorf("center ray = %v, want %v", ray.Dir, want)
	}

	sp, ok := cam.WorldToScreen(Vec3{})
	if !ok || !near(sp.X, 640) || !near(sp.Y, 400) {
		t.Errorf("target projects to %v, want viewport center", sp)
	}
	if _, ok := cam.WorldToScreen(Vec3{0, 10, -20}); ok {
		t.Error("a point behind the camera should not project")
	}
}

func TestPerspectiveRoundTrip(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Eye = Vec3{0, 0, -10}

	p := Vec3{1.5, -0.75, 0}
	sp, ok := cam.WorldToScreen(p)
	if !ok {
		t.Fatal("WorldToScreen failed")
	}
	ray, _ := cam.ScreenRay(sp)
	hit, ok := NewPlane(Vec3{0, 0, -1}, Vec3{}).Raycast(ray)
	if !ok || !nearVec3(hit, p) {
		t.Errorf("round trip = %v, want %v", hit, p)
	}
}

func TestLookRotationAxes(t *testing.T) {
	q, ok := LookRotation(Vec3{1, 0, 0}, Vec3Up)
	if !ok {
		t.Fatal("LookRotation failed")
	}
	if got := q.Rotate(Vec3Forward); !nearVec3(got, Vec3{1, 0, 0}) {
		t.Errorf("forward = %v", got)
	}
	if got := q.Rotate(Vec3Up); !nearVec3(got, Vec3Up) {
		t.Errorf("up = %v", got)
	}
	if _, ok := LookRotation(Vec3Up, Vec3Up); ok {
		t.Error("forward parallel to up should fail")
	}
}

func TestCameraMoveTo(t *testing.T) {
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.MoveTo(Vec3{10, 0, 0}, time.Second, ease.Linear)

	cam.Tick(500 * time.Millisecond)
	if !nearVec3(cam.Eye, Vec3{5, 0, 0}) {
		t.Errorf("halfway eye = %v", cam.Eye)
	}
	cam.Tick(500 * time.Millisecond)
	if cam.Eye != (Vec3{10, 0, 0}) || cam.Moving() {
		t.Errorf("final eye = %v moving = %v", cam.Eye, cam.Moving())
	}
}

func TestCameraEmptyViewport(t *testing.T) {
	cam := NewCamera(Rect{})
	if _, ok := cam.ScreenRay(Vec2{}); ok {
		t.Error("empty viewport should not produce rays")
	}
	if math.IsNaN(cam.Forward().X) {
		t.Error("forward must stay finite")
	}
}
