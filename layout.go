package touchtable

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PartSpec describes one part of a layout. Vectors are [x, y, z]; Rotation
// holds Euler angles in degrees applied roll, then pitch, then yaw. Child
// poses are world-space like their parent's.
type PartSpec struct {
	Name      string     `yaml:"name"`
	Size      [3]float64 `yaml:"size"`
	Position  [3]float64 `yaml:"position"`
	Rotation  [3]float64 `yaml:"rotation"`
	Scale     [3]float64 `yaml:"scale"`
	Tag       string     `yaml:"tag"`
	Kinematic bool       `yaml:"kinematic"`
	Color     [4]uint8   `yaml:"color"`
	Children  []PartSpec `yaml:"children"`
}

// AnchorSpec describes one snap anchor of a layout.
type AnchorSpec struct {
	Name     string     `yaml:"name"`
	Tag      string     `yaml:"tag"`
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation"`
}

// Layout is a table arrangement loaded from YAML.
type Layout struct {
	Parts   []PartSpec   `yaml:"parts"`
	Anchors []AnchorSpec `yaml:"anchors"`
}

// LoadLayout parses a YAML layout. Every part needs a name and a positive
// size.
func LoadLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseLayout, err)
	}
	if err := checkParts(l.Parts); err != nil {
		return nil, err
	}
	for i, a := range l.Anchors {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: anchor %d has no name", ErrParseLayout, i)
		}
	}
	return &l, nil
}

func checkParts(ps []PartSpec) error {
	for _, p := range ps {
		if p.Name == "" {
			return fmt.Errorf("%w: part without a name", ErrParseLayout)
		}
		if p.Size[0] <= 0 || p.Size[1] <= 0 || p.Size[2] <= 0 {
			return fmt.Errorf("%w: part %q needs a positive size", ErrParseLayout, p.Name)
		}
		if err := checkParts(p.Children); err != nil {
			return err
		}
	}
	return nil
}

// Build adds the layout's parts to t and returns its anchors.
func (l *Layout) Build(t *Table) *AnchorSet {
	for _, ps := range l.Parts {
		t.Add(ps.build())
	}
	set := NewAnchorSet()
	for _, a := range l.Anchors {
		set.Add(&Anchor{
			Name: a.Name,
			Tag:  a.Tag,
			Pose: Pose{Position: vec3Of(a.Position), Rotation: EulerQuat(vec3Of(a.Rotation))},
		})
	}
	return set
}

func (s PartSpec) build() *Part {
	p := NewPart(s.Name, vec3Of(s.Size))
	p.SetPose(Pose{Position: vec3Of(s.Position), Rotation: EulerQuat(vec3Of(s.Rotation))})
	if s.Scale != ([3]float64{}) {
		p.SetScale(vec3Of(s.Scale))
	}
	p.SetSnapTag(s.Tag)
	p.SetKinematic(s.Kinematic)
	if s.Color != ([4]uint8{}) {
		p.Color = s.Color
	}
	for _, cs := range s.Children {
		p.AddChild(cs.build())
	}
	return p
}

// EulerQuat converts pitch (X), yaw (Y) and roll (Z) degrees to a rotation.
func EulerQuat(deg Vec3) Quat {
	yaw := QuatAxisAngle(Vec3Up, deg.Y)
	pitch := QuatAxisAngle(Vec3Right, deg.X)
	roll := QuatAxisAngle(Vec3Forward, deg.Z)
	return yaw.Mul(pitch).Mul(roll)
}

func vec3Of(a [3]float64) Vec3 { return Vec3{a[0], a[1], a[2]} }
