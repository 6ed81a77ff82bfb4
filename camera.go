package touchtable

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the right and bottom edges are outside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// moveAnim holds an active MoveTo tween.
type moveAnim struct {
	tween    *gween.Tween
	from, to Vec3
}

// Camera is a 3D view onto the table. It implements Projector.
//
// With the identity rotation the camera looks along +Z with +X to the right
// of the screen and +Y up. Screen coordinates grow right and down from the
// viewport's top-left corner.
type Camera struct {
	// Eye is the world-space camera position.
	Eye Vec3
	// Rotation orients the camera.
	Rotation Quat
	// FOV is the vertical field of view in degrees, for perspective cameras.
	FOV float64
	// Orthographic selects a parallel projection.
	Orthographic bool
	// OrthoSize is half the viewport height in world units when
	// Orthographic is set.
	OrthoSize float64
	// Near is the distance in front of the eye below which points do not
	// project.
	Near float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	move *moveAnim
}

// NewCamera creates a perspective camera with a 60 degree field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Rotation: QuatIdentity,
		FOV:      60,
		Near:     0.01,
		Viewport: viewport,
	}
}

// NewOrthoCamera creates an orthographic camera showing halfHeight world
// units above and below the view center.
func NewOrthoCamera(viewport Rect, halfHeight float64) *Camera {
	c := NewCamera(viewport)
	c.Orthographic = true
	c.OrthoSize = halfHeight
	return c
}

// Position implements Projector.
func (c *Camera) Position() Vec3 { return c.Eye }

// Forward implements Projector.
func (c *Camera) Forward() Vec3 { return c.Rotation.Rotate(Vec3Forward).Normalize() }

// Right implements Projector.
func (c *Camera) Right() Vec3 { return c.Rotation.Rotate(Vec3Right).Normalize() }

// Up implements Projector.
func (c *Camera) Up() Vec3 { return c.Rotation.Rotate(Vec3Up).Normalize() }

// LookAt turns the camera towards target. up only needs to be roughly
// perpendicular to the view direction; a parallel up leaves the rotation
// unchanged.
func (c *Camera) LookAt(target, up Vec3) {
	if q, ok := LookRotation(target.Sub(c.Eye), up); ok {
		c.Rotation = q
	}
}

// MoveTo animates the eye to pos over duration. A non-positive duration
// moves at once.
func (c *Camera) MoveTo(pos Vec3, duration time.Duration, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.Eye = pos
		c.move = nil
		return
	}
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.move = &moveAnim{
		tween: gween.New(0, 1, float32(duration.Seconds()), easeFn),
		from:  c.Eye,
		to:    pos,
	}
}

// Moving reports whether a MoveTo animation is running.
func (c *Camera) Moving() bool { return c.move != nil }

// Tick advances a running MoveTo animation.
func (c *Camera) Tick(dt time.Duration) {
	if c.move == nil {
		return
	}
	t, done := c.move.tween.Update(float32(dt.Seconds()))
	c.Eye = c.move.from.Add(c.move.to.Sub(c.move.from).Scale(float64(t)))
	if done {
		c.Eye = c.move.to
		c.move = nil
	}
}

// ScreenRay implements Projector.
func (c *Camera) ScreenRay(screen Vec2) (Ray, bool) {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return Ray{}, false
	}
	nx, ny := c.ndc(screen)
	fwd, right, up := c.Forward(), c.Right(), c.Up()
	if c.Orthographic {
		halfH := c.OrthoSize
		halfW := halfH * c.aspect()
		origin := c.Eye.Add(right.Scale(nx * halfW)).Add(up.Scale(ny * halfH))
		return Ray{Origin: origin, Dir: fwd}, true
	}
	tanY := math.Tan(c.FOV * math.Pi / 360)
	tanX := tanY * c.aspect()
	dir := fwd.Add(right.Scale(nx * tanX)).Add(up.Scale(ny * tanY)).Normalize()
	return Ray{Origin: c.Eye, Dir: dir}, true
}

// WorldToScreen implements Projector.
func (c *Camera) WorldToScreen(p Vec3) (Vec2, bool) {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return Vec2{}, false
	}
	rel := p.Sub(c.Eye)
	z := rel.Dot(c.Forward())
	x := rel.Dot(c.Right())
	y := rel.Dot(c.Up())
	var nx, ny float64
	if c.Orthographic {
		if c.OrthoSize <= 0 {
			return Vec2{}, false
		}
		nx = x / (c.OrthoSize * c.aspect())
		ny = y / c.OrthoSize
	} else {
		if z < c.Near {
			return Vec2{}, false
		}
		tanY := math.Tan(c.FOV * math.Pi / 360)
		nx = x / (z * tanY * c.aspect())
		ny = y / (z * tanY)
	}
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return Vec2{cx + nx*c.Viewport.Width/2, cy - ny*c.Viewport.Height/2}, true
}

func (c *Camera) ndc(screen Vec2) (float64, float64) {
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return (screen.X - cx) / (c.Viewport.Width / 2), (cy - screen.Y) / (c.Viewport.Height / 2)
}

func (c *Camera) aspect() float64 {
	return c.Viewport.Width / c.Viewport.Height
}

// LookRotation returns the rotation that maps +Z onto forward and keeps +Y
// as close to up as possible. It reports false when forward is degenerate
// or parallel to up.
func LookRotation(forward, up Vec3) (Quat, bool) {
	f := forward.Normalize()
	if f == (Vec3{}) {
		return QuatIdentity, false
	}
	r := up.Cross(f)
	if r.LenSq() < degenerateLenSq {
		return QuatIdentity, false
	}
	r = r.Normalize()
	u := f.Cross(r)

	// Columns of the rotation matrix are r, u and f.
	m00, m01, m02 := r.X, u.X, f.X
	m10, m11, m12 := r.Y, u.Y, f.Y
	m20, m21, m22 := r.Z, u.Z, f.Z

	var q Quat
	switch tr := m00 + m11 + m22; {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize(), true
}
