package touchtable

import (
	"fmt"
)

// GhostPart is the preview proxy handed out by Table. It is never hit
// tested.
type GhostPart struct {
	Source  *Part
	pose    Pose
	visible bool
	alpha   float64
}

// SetPose implements Ghost.
func (g *GhostPart) SetPose(p Pose) { g.pose = p }

// SetVisible implements Ghost.
func (g *GhostPart) SetVisible(v bool) { g.visible = v }

// SetAlpha implements Ghost.
func (g *GhostPart) SetAlpha(a float64) { g.alpha = clamp(a, 0, 1) }

// Pose returns the preview pose.
func (g *GhostPart) Pose() Pose { return g.pose }

// Visible reports whether the preview is shown.
func (g *GhostPart) Visible() bool { return g.visible }

// Alpha returns the preview opacity.
func (g *GhostPart) Alpha() float64 { return g.alpha }

// Table holds the parts on screen. It implements HitTester, Spawner and
// GhostFactory.
type Table struct {
	camera Projector
	parts  []*Part
	ghosts []*GhostPart
	clones int

	// OnSpawn, when set, is called for every clone the table creates.
	OnSpawn func(clone *Part)
}

// NewTable creates an empty table viewed through camera.
func NewTable(camera Projector) *Table {
	return &Table{camera: camera}
}

// Camera returns the projector used for hit testing.
func (t *Table) Camera() Projector { return t.camera }

// Add puts root parts on the table. Their children are hit tested through
// them.
func (t *Table) Add(parts ...*Part) {
	for _, p := range parts {
		if p != nil {
			t.parts = append(t.parts, p)
		}
	}
}

// Remove takes a root part off the table and reports whether it was there.
func (t *Table) Remove(p *Part) bool {
	for i, x := range t.parts {
		if x == p {
			copy(t.parts[i:], t.parts[i+1:])
			t.parts[len(t.parts)-1] = nil
			t.parts = t.parts[:len(t.parts)-1]
			return true
		}
	}
	return false
}

// Parts returns the root parts in insertion order.
func (t *Table) Parts() []*Part { return t.parts }

// Ghosts returns every preview proxy created so far.
func (t *Table) Ghosts() []*GhostPart { return t.ghosts }

// Find returns the first part named name, searching depth-first.
func (t *Table) Find(name string) *Part {
	var walk func([]*Part) *Part
	walk = func(ps []*Part) *Part {
		for _, p := range ps {
			if p.name == name {
				return p
			}
			if c := walk(p.children); c != nil {
				return c
			}
		}
		return nil
	}
	return walk(t.parts)
}

// Walk calls fn for every part, parents before children.
func (t *Table) Walk(fn func(*Part)) {
	var walk func([]*Part)
	walk = func(ps []*Part) {
		for _, p := range ps {
			fn(p)
			walk(p.children)
		}
	}
	walk(t.parts)
}

// HitTest implements HitTester. The nearest box along the pick ray wins;
// equal distances go to the part added last.
func (t *Table) HitTest(screen Vec2) (Hit, bool) {
	if t.camera == nil {
		return Hit{}, false
	}
	ray, ok := t.camera.ScreenRay(screen)
	if !ok {
		return Hit{}, false
	}
	var best Hit
	found := false
	t.Walk(func(p *Part) {
		d, ok := p.Raycast(ray)
		if !ok {
			return
		}
		if !found || d <= best.Distance {
			best = Hit{Object: p, Point: ray.At(d), Distance: d}
			found = true
		}
	})
	return best, found
}

// SpawnClone implements Spawner. Only parts can be cloned; the clone is
// added to the table at pose.
func (t *Table) SpawnClone(source Object, pose Pose) Object {
	src, ok := source.(*Part)
	if !ok {
		l := componentLog("table")
		l.Warn().Str("object", source.ID()).Msg("cannot clone a non-part object")
		return nil
	}
	t.clones++
	c := src.Clone(fmt.Sprintf("%s (%d)", src.name, t.clones))
	c.SetPose(pose)
	t.Add(c)
	if t.OnSpawn != nil {
		t.OnSpawn(c)
	}
	return c
}

// NewGhost implements GhostFactory.
func (t *Table) NewGhost(source Object) Ghost {
	g := &GhostPart{pose: source.Pose()}
	if p, ok := source.(*Part); ok {
		g.Source = p
	}
	t.ghosts = append(t.ghosts, g)
	return g
}
