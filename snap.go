package touchtable

import "math"

// Anchor is a target pose a dragged object can lock onto. Only objects whose
// snap tag equals Tag are accepted, one at a time.
type Anchor struct {
	Name string
	Tag  string
	Pose Pose

	occupant Object
}

// Occupied reports whether an object is locked onto the anchor.
func (a *Anchor) Occupied() bool { return a.occupant != nil }

// Occupant returns the locked object, or nil.
func (a *Anchor) Occupant() Object { return a.occupant }

// Occupy marks the anchor as taken by obj.
func (a *Anchor) Occupy(obj Object) { a.occupant = obj }

// Release frees the anchor.
func (a *Anchor) Release() { a.occupant = nil }

// AnchorSet is the collection of anchors a drag recognizer snaps against.
type AnchorSet struct {
	anchors []*Anchor
}

// NewAnchorSet returns a set holding anchors.
func NewAnchorSet(anchors ...*Anchor) *AnchorSet {
	return &AnchorSet{anchors: anchors}
}

// Add appends an anchor.
func (s *AnchorSet) Add(a *Anchor) {
	s.anchors = append(s.anchors, a)
}

// Anchors returns the anchors in insertion order.
func (s *AnchorSet) Anchors() []*Anchor { return s.anchors }

// Nearest returns the closest unoccupied anchor with the given tag.
func (s *AnchorSet) Nearest(pos Vec3, tag string) (*Anchor, float64, bool) {
	var best *Anchor
	bestDist := math.Inf(1)
	for _, a := range s.anchors {
		if a == nil || a.Occupied() || a.Tag != tag {
			continue
		}
		if d := pos.Dist(a.Pose.Position); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best, bestDist, best != nil
}

// Qualify returns the anchor obj would snap onto with the given tolerances.
// Only the nearest compatible anchor is considered; if it is out of reach no
// farther anchor is tried.
func (s *AnchorSet) Qualify(obj Object, tag string, maxDist, maxAngle float64) (*Anchor, bool) {
	pose := obj.Pose()
	a, d, ok := s.Nearest(pose.Position, tag)
	if !ok || d > maxDist+geomEpsilon {
		return nil, false
	}
	if pose.Rotation.AngleTo(a.Pose.Rotation) > maxAngle+geomEpsilon {
		return nil, false
	}
	return a, true
}

// ReleaseOccupant frees every anchor held by obj and returns how many.
func (s *AnchorSet) ReleaseOccupant(obj Object) int {
	n := 0
	for _, a := range s.anchors {
		if a != nil && a.occupant == obj {
			a.Release()
			n++
		}
	}
	return n
}
