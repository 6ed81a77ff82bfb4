package assembly

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/touchtable"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stool = `
assemblyId: stool
title: Three-legged stool
steps:
  - id: 1
    targetPart: leg
    snapTo: socket
    description: Fit the leg into the seat
  - id: 2
    targetPart: seat
  - id: 3
    targetPart: cushion
`

func newValidator(t *testing.T) (*Validator, map[string]*touchtable.Part) {
	t.Helper()
	def, err := Load([]byte(stool))
	require.NoError(t, err)

	parts := map[string]*touchtable.Part{}
	v := NewValidator(def, zerolog.Nop())
	for _, name := range []string{"leg", "seat", "cushion"} {
		p := touchtable.NewPart(name, touchtable.Vec3{X: 1, Y: 1, Z: 1})
		parts[name] = p
		v.Index(p)
	}
	return v, parts
}

func socket() *touchtable.Anchor { return &touchtable.Anchor{Name: "socket"} }

func TestLoad(t *testing.T) {
	def, err := Load([]byte(stool))
	require.NoError(t, err)
	assert.Equal(t, "stool", def.AssemblyID)
	require.Len(t, def.Steps, 3)
	assert.Equal(t, "socket", def.Steps[0].SnapTo)

	js, err := Load([]byte(`{"assemblyId":"cart","steps":[{"id":1,"targetPart":"wheel"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "wheel", js.Steps[0].TargetPart)
}

func TestLoadErrors(t *testing.T) {
	for name, data := range map[string]string{
		"syntax":    "steps: [oops",
		"no steps":  "assemblyId: empty\n",
		"no target": "steps:\n  - id: 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(data))
			assert.ErrorIs(t, err, ErrParseAssembly)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrParseAssembly)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(stool), 0o600))
	def, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Three-legged stool", def.Title)
}

func TestValidatorAdvancesInOrder(t *testing.T) {
	v, parts := newValidator(t)
	completed := false
	v.OnComplete = func() { completed = true }

	v.OnSnapped(parts["seat"], socket())
	assert.Equal(t, 0, v.Position(), "out-of-order parts are ignored")

	v.OnSnapped(parts["leg"], &touchtable.Anchor{Name: "armrest"})
	assert.Equal(t, 0, v.Position(), "the step requires its anchor")

	v.OnSnapped(parts["leg"], socket())
	v.OnSnapped(parts["seat"], nil)
	v.OnSnapped(parts["cushion"], nil)

	assert.True(t, v.Done())
	assert.True(t, completed)
	_, ok := v.Current()
	assert.False(t, ok)

	v.OnSnapped(parts["cushion"], nil)
	assert.Equal(t, 3, v.Position(), "a finished sequence stays finished")
}

func TestValidatorMatchesByName(t *testing.T) {
	v, _ := newValidator(t)
	clone := touchtable.NewPart("leg", touchtable.Vec3{X: 1, Y: 1, Z: 1})

	v.OnSnapped(clone, socket())
	step, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "seat", step.TargetPart)
}

func TestValidatorNavigationAndHighlight(t *testing.T) {
	v, parts := newValidator(t)
	var lit []touchtable.Object
	var dimmed []touchtable.Object
	v.OnHighlight = func(next, prev touchtable.Object) {
		lit = append(lit, next)
		dimmed = append(dimmed, prev)
	}

	v.Start()
	v.Next()
	v.Next()
	v.Next() // already on the last step
	assert.Equal(t, 2, v.Position())

	v.Previous()
	assert.Equal(t, 1, v.Position())

	v.Reset()
	assert.Equal(t, 0, v.Position())
	v.Previous()
	assert.Equal(t, 0, v.Position())

	want := []touchtable.Object{parts["leg"], parts["seat"], parts["cushion"], parts["seat"], parts["leg"]}
	assert.Equal(t, want, lit)
	assert.Nil(t, dimmed[0])
	assert.Equal(t, touchtable.Object(parts["leg"]), dimmed[1])
}

func TestValidatorIndexTable(t *testing.T) {
	def, err := Load([]byte(stool))
	require.NoError(t, err)
	table := touchtable.NewTable(nil)
	seat := touchtable.NewPart("seat", touchtable.Vec3{X: 2, Y: 1, Z: 2})
	leg := touchtable.NewPart("leg", touchtable.Vec3{X: 1, Y: 2, Z: 1})
	seat.AddChild(leg)
	table.Add(seat)

	v := NewValidator(def, zerolog.Nop())
	v.IndexTable(table)

	var first touchtable.Object
	v.OnHighlight = func(next, _ touchtable.Object) { first = next }
	v.Start()
	assert.Equal(t, touchtable.Object(leg), first, "children are indexed")
}

func TestValidatorDrivenByDrag(t *testing.T) {
	cam := touchtable.NewOrthoCamera(touchtable.Rect{Width: 800, Height: 600}, 300)
	cam.Eye = touchtable.Vec3{Z: -100}
	table := touchtable.NewTable(cam)
	src := touchtable.NewInjectSource()
	engine := touchtable.NewEngine(src, touchtable.WithCamera(cam), touchtable.WithHitTester(table))

	leg := touchtable.NewPart("leg", touchtable.Vec3{X: 100, Y: 100, Z: 10})
	leg.SetPose(touchtable.Pose{Rotation: touchtable.QuatIdentity})
	table.Add(leg)

	def, err := Load([]byte(stool))
	require.NoError(t, err)
	v := NewValidator(def, zerolog.Nop())
	v.IndexTable(table)

	anchor := &touchtable.Anchor{
		Name: "socket",
		Pose: touchtable.Pose{Position: touchtable.Vec3{X: 50, Y: 50}, Rotation: touchtable.QuatIdentity},
	}
	cfg := touchtable.DefaultDragConfig()
	cfg.ArmDelay = 0
	cfg.SnapDistance = 0.5
	engine.Add(touchtable.NewDragRecognizer(leg, engine.Deps(), touchtable.NewAnchorSet(anchor), v, cfg))

	src.Press(1, 400, 300)
	src.Move(1, 450, 250)
	src.Release(1)
	for i := 0; i < 5; i++ {
		engine.Update(16 * time.Millisecond)
	}

	assert.Equal(t, touchtable.Object(leg), anchor.Occupant())
	assert.Equal(t, 1, v.Position())
}
