package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/touchtable"
	"github.com/phanxgames/touchtable/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSceneConfig() *config.Config {
	cfg := config.New()
	cfg.Window.Width, cfg.Window.Height = 800, 600
	cfg.Drag.ArmDelay = 0
	cfg.Drag.SnapDistance = 0.5
	cfg.IdleReset.Timeout = 100 * time.Millisecond
	cfg.IdleReset.Duration = 0
	return cfg
}

func TestBuildSceneDefaultLayout(t *testing.T) {
	src := touchtable.NewInjectSource()
	s, err := BuildScene(testSceneConfig(), src, nil, SceneOptions{Gestures: []string{"drag", "rotate", "pinch", "duplicate"}}, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, s.Table.Parts(), 3)
	assert.Len(t, s.Anchors.Anchors(), 1)
	assert.Len(t, s.Engine.Recognizers(), 12)
	assert.Nil(t, s.Validator)
}

func TestBuildSceneSnapMovesIdleOrigin(t *testing.T) {
	dir := t.TempDir()
	layout := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(layout, []byte(testLayout), 0o600))

	src := touchtable.NewInjectSource()
	s, err := BuildScene(testSceneConfig(), src, nil, SceneOptions{
		Layout:     layout,
		Gestures:   []string{"drag"},
		ViewHeight: 300,
	}, zerolog.Nop())
	require.NoError(t, err)
	leg := s.Table.Find("leg")
	require.NotNil(t, leg)

	src.Drag(1, touchtable.Vec2{X: 400, Y: 300}, touchtable.Vec2{X: 450, Y: 250}, 3)
	for i := 0; i < 20; i++ {
		s.Engine.Update(16 * time.Millisecond)
	}

	assert.InDelta(t, 50, leg.Pose().Position.X, 1e-6, "a snapped part stays on its anchor after the idle timeout")
	assert.InDelta(t, 50, leg.Pose().Position.Y, 1e-6)
	assert.Positive(t, s.Interactions)
}

func TestBuildSceneErrors(t *testing.T) {
	src := touchtable.NewInjectSource()
	_, err := BuildScene(testSceneConfig(), src, nil, SceneOptions{Layout: filepath.Join(t.TempDir(), "none.yaml")}, zerolog.Nop())
	assert.ErrorIs(t, err, touchtable.ErrParseLayout)

	_, err = BuildScene(testSceneConfig(), src, nil, SceneOptions{Gestures: []string{"wave"}}, zerolog.Nop())
	assert.Error(t, err)

	_, err = BuildScene(testSceneConfig(), src, nil, SceneOptions{Assembly: filepath.Join(t.TempDir(), "none.yaml")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestHighlighterRestoresColor(t *testing.T) {
	a := touchtable.NewPart("a", touchtable.Vec3{X: 1, Y: 1, Z: 1})
	b := touchtable.NewPart("b", touchtable.Vec3{X: 1, Y: 1, Z: 1})
	a.Color = [4]uint8{1, 2, 3, 255}

	h := highlighter()
	h(a, nil)
	assert.Equal(t, highlightColor, a.Color)
	h(b, a)
	assert.Equal(t, [4]uint8{1, 2, 3, 255}, a.Color)
	assert.Equal(t, highlightColor, b.Color)
}
