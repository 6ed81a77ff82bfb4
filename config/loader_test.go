package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/touchtable"
	"github.com/phanxgames/touchtable/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "touchtable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, touchtable.DefaultDragConfig(), cfg.DragConfig())
	assert.Equal(t, touchtable.DefaultRotateConfig(), cfg.RotateConfig())
	assert.Equal(t, touchtable.DefaultDuplicateConfig(), cfg.DuplicateConfig())
	assert.Equal(t, touchtable.DefaultPinchConfig(), cfg.PinchConfig())
	assert.Equal(t, 120*time.Second, cfg.IdleResetConfig().Timeout)
	assert.NotNil(t, cfg.IdleResetConfig().Ease)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
drag:
  snap_distance: 0.2
  arm_delay: 250ms
rotate:
  pivot_mode: least_moving
  dead_zone: 1.5
duplicate:
  mode: spawn_with_preview
  axis_frame: world
  gather_window: 80ms
pinch:
  uniform: false
idle_reset:
  ease: linear
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0.2, cfg.DragConfig().SnapDistance)
	assert.Equal(t, 250*time.Millisecond, cfg.DragConfig().ArmDelay)
	assert.Equal(t, touchtable.DefaultDragConfig().SnapAngle, cfg.DragConfig().SnapAngle, "unset keys keep defaults")

	rot := cfg.RotateConfig()
	assert.Equal(t, touchtable.PivotLeastMoving, rot.PivotMode)
	assert.Equal(t, 1.5, rot.DeadZone)

	dup := cfg.DuplicateConfig()
	assert.Equal(t, touchtable.DuplicateSpawnWithPreview, dup.Mode)
	assert.Equal(t, touchtable.AxisFrameWorld, dup.AxisFrame)
	assert.Equal(t, 80*time.Millisecond, dup.GatherWindow)

	assert.False(t, cfg.PinchConfig().Uniform)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "rotate:\n  dead_zone: 1.5\n")
	t.Setenv("TOUCHTABLE_ROTATE__DEAD_ZONE", "4")
	t.Setenv("TOUCHTABLE_PINCH__MAX_SCALE", "3")
	t.Setenv("TOUCHTABLE_LOG_LEVEL", "warn")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.RotateConfig().DeadZone)
	assert.Equal(t, 3.0, cfg.PinchConfig().MaxScale)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeConfig(t, "metrics_addr: \":9100\"\n")
	t.Setenv("TOUCHTABLE_CONFIG", path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, config.ErrLoadConfig)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "drag: [oops"))
		assert.ErrorIs(t, err, config.ErrLoadConfig)
	})

	invalid := map[string]string{
		"negative snap":      "drag:\n  snap_distance: -1\n",
		"smoothing too high": "rotate:\n  smoothing: 1\n",
		"pitch bounds":       "rotate:\n  pitch_min: 10\n  pitch_max: -10\n",
		"pinch quorum":       "pinch:\n  min_fingers: 1\n",
		"scale bounds":       "pinch:\n  min_scale: 5\n  max_scale: 2\n",
		"pivot mode":         "rotate:\n  pivot_mode: sideways\n",
		"duplicate mode":     "duplicate:\n  mode: explode\n",
		"axis frame":         "duplicate:\n  axis_frame: polar\n",
		"ease":               "idle_reset:\n  ease: wobble\n",
		"window":             "window:\n  width: 0\n",
		"ghost opacity":      "duplicate:\n  ghost_opacity: 2\n",
	}
	for name, content := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, content))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}
