package touchtable

import "math"

// geomEpsilon absorbs floating-point noise in tolerance comparisons so that a
// value computed to be exactly on a boundary is treated as inside it.
const geomEpsilon = 1e-9

// degenerateLenSq is the squared length below which a vector is treated as
// zero for direction and angle computations.
const degenerateLenSq = 1e-6

// --- Vec2 ---

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// LenSq returns the squared length of v.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// --- Vec3 ---

// Vec3 is a 3D vector in world space. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// Axis unit vectors.
var (
	Vec3Right   = Vec3{1, 0, 0}
	Vec3Up      = Vec3{0, 1, 0}
	Vec3Forward = Vec3{0, 0, 1}
	Vec3One     = Vec3{1, 1, 1}
)

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared length of v.
func (v Vec3) LenSq() float64 { return v.Dot(v) }

// Len returns the length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// Abs returns v with every component made non-negative.
func (v Vec3) Abs() Vec3 { return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)} }

// Normalize returns v scaled to unit length. A degenerate vector returns the
// zero vector rather than NaN components.
func (v Vec3) Normalize() Vec3 {
	l2 := v.LenSq()
	if l2 < degenerateLenSq*degenerateLenSq {
		return Vec3{}
	}
	return v.Scale(1 / math.Sqrt(l2))
}

// --- Quat ---

// Quat is a rotation quaternion. The zero value is treated as identity by
// every method so that zero-value poses stay usable.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the no-rotation quaternion.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatAxisAngle returns a rotation of deg degrees around axis.
func QuatAxisAngle(axis Vec3, deg float64) Quat {
	axis = axis.Normalize()
	if axis == (Vec3{}) {
		return QuatIdentity
	}
	half := deg * math.Pi / 360
	s, c := math.Sincos(half)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// Normalize returns q scaled to unit length; a zero quaternion yields identity.
func (q Quat) Normalize() Quat {
	l2 := q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W
	if l2 < 1e-12 {
		return QuatIdentity
	}
	inv := 1 / math.Sqrt(l2)
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Mul returns the composition q * o (o applied first, then q).
func (q Quat) Mul(o Quat) Quat {
	q = q.Normalize()
	o = o.Normalize()
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	q = q.Normalize()
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Dot returns the 4D dot product of the normalized quaternions.
func (q Quat) Dot(o Quat) float64 {
	q = q.Normalize()
	o = o.Normalize()
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	q = q.Normalize()
	u := Vec3{q.X, q.Y, q.Z}
	// v' = v + 2w(u×v) + 2u×(u×v)
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// AngleTo returns the smallest angle in degrees between the two orientations.
func (q Quat) AngleTo(o Quat) float64 {
	d := math.Abs(q.Dot(o))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d) * 180 / math.Pi
}

// Slerp interpolates from a to b by t in [0, 1] along the shortest arc.
func Slerp(a, b Quat, t float64) Quat {
	a = a.Normalize()
	b = b.Normalize()
	d := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		// Nearly parallel: normalized lerp avoids dividing by sin(≈0).
		return Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		}.Normalize()
	}
	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	}
}

// --- Pose ---

// Pose is a world-space position and orientation.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// --- Ray / Plane / AABB ---

// Ray is a half-line from Origin along Dir (unit length).
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Scale(t)) }

// Plane is the set of points p with Normal·p = Normal·Point.
type Plane struct {
	Point  Vec3
	Normal Vec3
}

// NewPlane builds a plane through point with the given normal.
func NewPlane(normal, point Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// Raycast intersects r with the plane. It reports false when the ray is
// parallel to the plane, the plane is degenerate, or the hit lies behind the
// ray origin.
func (p Plane) Raycast(r Ray) (Vec3, bool) {
	if p.Normal == (Vec3{}) {
		return Vec3{}, false
	}
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < 1e-9 {
		return Vec3{}, false
	}
	t := p.Normal.Dot(p.Point.Sub(r.Origin)) / denom
	if t < 0 {
		return Vec3{}, false
	}
	return r.At(t), true
}

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Extents returns the half-size of the box along each axis.
func (b AABB) Extents() Vec3 { return b.Max.Sub(b.Min).Scale(0.5) }

// LengthAlong returns the full length of the box projected on dir.
func (b AABB) LengthAlong(dir Vec3) float64 {
	return 2 * dir.Normalize().Abs().Dot(b.Extents())
}
