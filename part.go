package touchtable

import (
	"math"

	"github.com/google/uuid"
)

// Part is a box-shaped object on the table. It implements Object, Scalable,
// Parented, Kinematic, Tagged and BehaviorHost.
//
// Poses are world-space. A child keeps its pose relative to its parent, so
// moving or turning the parent carries the child along.
type Part struct {
	id   string
	name string

	pose  Pose
	local Pose // relative to parent; unused without one
	scale Vec3
	size  Vec3

	parent   *Part
	children []*Part

	kinematic bool
	tag       string
	behaviors []Behavior

	// Visible controls rendering only; hidden parts are still hit.
	Visible bool
	// Color is an RGBA tint used by renderers.
	Color [4]uint8
}

// NewPart creates a part of the given base size at the origin with a fresh
// unique id.
func NewPart(name string, size Vec3) *Part {
	return &Part{
		id:      uuid.NewString(),
		name:    name,
		pose:    Pose{Rotation: QuatIdentity},
		scale:   Vec3One,
		size:    size,
		Visible: true,
		Color:   [4]uint8{200, 200, 200, 255},
	}
}

// ID implements Object.
func (p *Part) ID() string { return p.id }

// Name implements Object.
func (p *Part) Name() string { return p.name }

// Pose implements Object.
func (p *Part) Pose() Pose { return p.pose }

// SetPose implements Object. Children follow.
func (p *Part) SetPose(pose Pose) {
	p.pose = pose
	if p.parent != nil {
		p.local = relativePose(p.parent.pose, pose)
	}
	p.propagate()
}

// Size returns the unscaled box dimensions.
func (p *Part) Size() Vec3 { return p.size }

// SetSize changes the unscaled box dimensions.
func (p *Part) SetSize(s Vec3) { p.size = s }

// Scale implements Scalable.
func (p *Part) Scale() Vec3 { return p.scale }

// SetScale implements Scalable.
func (p *Part) SetScale(s Vec3) { p.scale = s }

// HalfExtents returns half the scaled box dimensions in local axes.
func (p *Part) HalfExtents() Vec3 { return p.size.Mul(p.scale).Abs().Scale(0.5) }

// Bounds implements Object. It returns the world AABB of the rotated box.
func (p *Part) Bounds() AABB {
	h := p.HalfExtents()
	q := p.pose.Rotation
	ax := q.Rotate(Vec3{h.X, 0, 0}).Abs()
	ay := q.Rotate(Vec3{0, h.Y, 0}).Abs()
	az := q.Rotate(Vec3{0, 0, h.Z}).Abs()
	ext := ax.Add(ay).Add(az)
	return AABB{Min: p.pose.Position.Sub(ext), Max: p.pose.Position.Add(ext)}
}

// Parent implements Parented. It returns a nil interface for a root part.
func (p *Part) Parent() Object {
	if p.parent == nil {
		return nil
	}
	return p.parent
}

// Children returns the direct children in insertion order.
func (p *Part) Children() []*Part { return p.children }

// AddChild attaches child, keeping its current world pose. A child already
// attached elsewhere is moved.
func (p *Part) AddChild(child *Part) {
	if child == nil || child == p {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = p
	child.local = relativePose(p.pose, child.pose)
	p.children = append(p.children, child)
}

// RemoveChild detaches child and reports whether it was attached.
func (p *Part) RemoveChild(child *Part) bool {
	for i, c := range p.children {
		if c == child {
			copy(p.children[i:], p.children[i+1:])
			p.children[len(p.children)-1] = nil
			p.children = p.children[:len(p.children)-1]
			child.parent = nil
			return true
		}
	}
	return false
}

// IsKinematic implements Kinematic.
func (p *Part) IsKinematic() bool { return p.kinematic }

// SetKinematic implements Kinematic.
func (p *Part) SetKinematic(k bool) { p.kinematic = k }

// SnapTag implements Tagged.
func (p *Part) SnapTag() string { return p.tag }

// SetSnapTag sets the tag anchors match against.
func (p *Part) SetSnapTag(tag string) { p.tag = tag }

// Behaviors implements BehaviorHost.
func (p *Part) Behaviors() []Behavior { return p.behaviors }

// AddBehavior hosts b on the part so that multi-finger gestures suspend it.
func (p *Part) AddBehavior(b Behavior) {
	if b != nil {
		p.behaviors = append(p.behaviors, b)
	}
}

// Clone returns an unparented copy with a new id. Children and hosted
// behaviors are not copied.
func (p *Part) Clone(name string) *Part {
	c := NewPart(name, p.size)
	c.pose = p.pose
	c.scale = p.scale
	c.tag = p.tag
	c.Visible = p.Visible
	c.Color = p.Color
	return c
}

// Raycast intersects r with the part's oriented box and returns the distance
// along the ray. A ray starting inside the box hits at distance 0.
func (p *Part) Raycast(r Ray) (float64, bool) {
	inv := p.pose.Rotation.Conjugate()
	o := inv.Rotate(r.Origin.Sub(p.pose.Position))
	d := inv.Rotate(r.Dir)
	h := p.HalfExtents()

	tmin, tmax := 0.0, math.Inf(1)
	for _, ax := range [3][3]float64{{o.X, d.X, h.X}, {o.Y, d.Y, h.Y}, {o.Z, d.Z, h.Z}} {
		org, dir, half := ax[0], ax[1], ax[2]
		if math.Abs(dir) < geomEpsilon {
			if org < -half || org > half {
				return 0, false
			}
			continue
		}
		t1 := (-half - org) / dir
		t2 := (half - org) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

func (p *Part) propagate() {
	for _, c := range p.children {
		c.pose = composePose(p.pose, c.local)
		c.propagate()
	}
}

// composePose applies local inside parent's frame.
func composePose(parent, local Pose) Pose {
	return Pose{
		Position: parent.Position.Add(parent.Rotation.Rotate(local.Position)),
		Rotation: parent.Rotation.Mul(local.Rotation),
	}
}

// relativePose expresses world in parent's frame.
func relativePose(parent, world Pose) Pose {
	inv := parent.Rotation.Conjugate()
	return Pose{
		Position: inv.Rotate(world.Position.Sub(parent.Position)),
		Rotation: inv.Mul(world.Rotation),
	}
}
