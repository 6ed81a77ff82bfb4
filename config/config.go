// Package config loads touchtable tunables from defaults, an optional YAML
// file and TOUCHTABLE_ environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/phanxgames/touchtable"

	"github.com/tanema/gween/ease"
)

// Config is the full set of tunables for a table application.
type Config struct {
	// LogLevel is a zerolog level name.
	LogLevel string `koanf:"log_level"`
	// Debug logs every claim, release and session transition.
	Debug bool `koanf:"debug"`
	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string `koanf:"metrics_addr"`

	Window    Window    `koanf:"window"`
	Drag      Drag      `koanf:"drag"`
	Rotate    Rotate    `koanf:"rotate"`
	Duplicate Duplicate `koanf:"duplicate"`
	Pinch     Pinch     `koanf:"pinch"`
	IdleReset IdleReset `koanf:"idle_reset"`
}

// Window configures the demo viewer.
type Window struct {
	Title   string `koanf:"title"`
	Width   int    `koanf:"width"`
	Height  int    `koanf:"height"`
	ShowFPS bool   `koanf:"show_fps"`
}

// Drag mirrors touchtable.DragConfig.
type Drag struct {
	SnapDistance float64       `koanf:"snap_distance"`
	SnapAngle    float64       `koanf:"snap_angle"`
	ArmDelay     time.Duration `koanf:"arm_delay"`
}

// Rotate mirrors touchtable.RotateConfig.
type Rotate struct {
	RequireExactlyTwo bool    `koanf:"require_exactly_two"`
	PivotMode         string  `koanf:"pivot_mode"` // "first" or "least_moving"
	PivotDetectTicks  int     `koanf:"pivot_detect_ticks"`
	PivotJitter       float64 `koanf:"pivot_jitter"`
	AxisPickMinMove   float64 `koanf:"axis_pick_min_move"`
	AxisHysteresis    float64 `koanf:"axis_hysteresis"`
	TwistThreshold    float64 `koanf:"twist_threshold"`
	TwistGain         float64 `koanf:"twist_gain"`
	TranslateGain     float64 `koanf:"translate_gain"`
	Sensitivity       float64 `koanf:"sensitivity"`
	Smoothing         float64 `koanf:"smoothing"`
	DeadZone          float64 `koanf:"dead_zone"`
	MaxDegPerTick     float64 `koanf:"max_deg_per_tick"`
	AdaptiveGain      bool    `koanf:"adaptive_gain"`
	GainPerUnit       float64 `koanf:"gain_per_unit"`
	SnapAngle         float64 `koanf:"snap_angle"`
	MinRadius         float64 `koanf:"min_radius"`
	ClampPitch        bool    `koanf:"clamp_pitch"`
	PitchMin          float64 `koanf:"pitch_min"`
	PitchMax          float64 `koanf:"pitch_max"`
	EnableYaw         bool    `koanf:"enable_yaw"`
	EnablePitch       bool    `koanf:"enable_pitch"`
	EnableRoll        bool    `koanf:"enable_roll"`
	WorldSpace        bool    `koanf:"world_space"`
}

// Duplicate mirrors touchtable.DuplicateConfig.
type Duplicate struct {
	Mode                string        `koanf:"mode"`       // "spawn", "preview" or "spawn_with_preview"
	AxisFrame           string        `koanf:"axis_frame"` // "screen" or "world"
	RequiredFingers     int           `koanf:"required_fingers"`
	GatherWindow        time.Duration `koanf:"gather_window"`
	HoldTime            time.Duration `koanf:"hold_time"`
	AxisPickMinMove     float64       `koanf:"axis_pick_min_move"`
	SpacingOverride     float64       `koanf:"spacing_override"`
	SeparationMargin    float64       `koanf:"separation_margin"`
	MaxPerStroke        int           `koanf:"max_per_stroke"`
	MinSpawnInterval    time.Duration `koanf:"min_spawn_interval"`
	CaptureRadiusFactor float64       `koanf:"capture_radius_factor"`
	DynamicCapture      bool          `koanf:"dynamic_capture"`
	DynamicCaptureSlack float64       `koanf:"dynamic_capture_slack"`
	GhostOpacity        float64       `koanf:"ghost_opacity"`
	GhostFade           time.Duration `koanf:"ghost_fade"`
}

// Pinch mirrors touchtable.PinchConfig.
type Pinch struct {
	MinFingers int     `koanf:"min_fingers"`
	MinScale   float64 `koanf:"min_scale"`
	MaxScale   float64 `koanf:"max_scale"`
	Uniform    bool    `koanf:"uniform"`
}

// IdleReset mirrors touchtable.IdleResetConfig.
type IdleReset struct {
	Enabled  bool          `koanf:"enabled"`
	Timeout  time.Duration `koanf:"timeout"`
	Duration time.Duration `koanf:"duration"`
	Ease     string        `koanf:"ease"`
}

var pivotModes = map[string]touchtable.PivotMode{
	"first":        touchtable.PivotFirstFinger,
	"least_moving": touchtable.PivotLeastMoving,
}

var duplicateModes = map[string]touchtable.DuplicateMode{
	"spawn":              touchtable.DuplicateSpawn,
	"preview":            touchtable.DuplicatePreview,
	"spawn_with_preview": touchtable.DuplicateSpawnWithPreview,
}

var axisFrames = map[string]touchtable.AxisFrame{
	"screen": touchtable.AxisFrameScreen,
	"world":  touchtable.AxisFrameWorld,
}

var eases = map[string]ease.TweenFunc{
	"linear":        ease.Linear,
	"in_out_quad":   ease.InOutQuad,
	"out_quad":      ease.OutQuad,
	"in_out_cubic":  ease.InOutCubic,
	"out_cubic":     ease.OutCubic,
	"out_back":      ease.OutBack,
	"out_bounce":    ease.OutBounce,
	"in_out_sine":   ease.InOutSine,
	"out_elastic":   ease.OutElastic,
	"in_out_expo":   ease.InOutExpo,
	"in_out_circ":   ease.InOutCirc,
	"in_out_quart":  ease.InOutQuart,
	"in_out_quint":  ease.InOutQuint,
	"in_out_back":   ease.InOutBack,
	"in_out_bounce": ease.InOutBounce,
}

// New returns the default configuration.
func New() *Config {
	d := touchtable.DefaultDragConfig()
	r := touchtable.DefaultRotateConfig()
	u := touchtable.DefaultDuplicateConfig()
	p := touchtable.DefaultPinchConfig()
	i := touchtable.DefaultIdleResetConfig()

	return &Config{
		LogLevel: "info",
		Window:   Window{Title: "touchtable", Width: 1280, Height: 800, ShowFPS: true},
		Drag:     Drag{SnapDistance: d.SnapDistance, SnapAngle: d.SnapAngle, ArmDelay: d.ArmDelay},
		Rotate: Rotate{
			RequireExactlyTwo: r.RequireExactlyTwo,
			PivotMode:         "first",
			PivotDetectTicks:  r.PivotDetectTicks,
			PivotJitter:       r.PivotJitter,
			AxisPickMinMove:   r.AxisPickMinMove,
			AxisHysteresis:    r.AxisHysteresis,
			TwistThreshold:    r.TwistThreshold,
			TwistGain:         r.TwistGain,
			TranslateGain:     r.TranslateGain,
			Sensitivity:       r.Sensitivity,
			Smoothing:         r.Smoothing,
			DeadZone:          r.DeadZone,
			MaxDegPerTick:     r.MaxDegPerTick,
			AdaptiveGain:      r.AdaptiveGain,
			GainPerUnit:       r.GainPerUnit,
			SnapAngle:         r.SnapAngle,
			MinRadius:         r.MinRadius,
			ClampPitch:        r.ClampPitch,
			PitchMin:          r.PitchMin,
			PitchMax:          r.PitchMax,
			EnableYaw:         r.EnableYaw,
			EnablePitch:       r.EnablePitch,
			EnableRoll:        r.EnableRoll,
			WorldSpace:        r.WorldSpace,
		},
		Duplicate: Duplicate{
			Mode:                "spawn",
			AxisFrame:           "screen",
			RequiredFingers:     u.RequiredFingers,
			GatherWindow:        u.GatherWindow,
			HoldTime:            u.HoldTime,
			AxisPickMinMove:     u.AxisPickMinMove,
			SpacingOverride:     u.SpacingOverride,
			SeparationMargin:    u.SeparationMargin,
			MaxPerStroke:        u.MaxPerStroke,
			MinSpawnInterval:    u.MinSpawnInterval,
			CaptureRadiusFactor: u.CaptureRadiusFactor,
			DynamicCapture:      u.DynamicCapture,
			DynamicCaptureSlack: u.DynamicCaptureSlack,
			GhostOpacity:        u.GhostOpacity,
			GhostFade:           u.GhostFade,
		},
		Pinch:     Pinch{MinFingers: p.MinFingers, MinScale: p.MinScale, MaxScale: p.MaxScale, Uniform: p.Uniform},
		IdleReset: IdleReset{Enabled: true, Timeout: i.Timeout, Duration: i.Duration, Ease: "in_out_quad"},
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Drag.SnapDistance < 0 || c.Drag.SnapAngle < 0 || c.Drag.ArmDelay < 0:
		return fmt.Errorf("%w: drag tolerances must not be negative", ErrInvalidConfig)
	case c.Rotate.AxisHysteresis < 0:
		return fmt.Errorf("%w: rotate.axis_hysteresis must not be negative", ErrInvalidConfig)
	case c.Rotate.Smoothing < 0 || c.Rotate.Smoothing >= 1:
		return fmt.Errorf("%w: rotate.smoothing must be in [0,1)", ErrInvalidConfig)
	case c.Rotate.ClampPitch && c.Rotate.PitchMin > c.Rotate.PitchMax:
		return fmt.Errorf("%w: rotate.pitch_min exceeds pitch_max", ErrInvalidConfig)
	case c.Duplicate.RequiredFingers < 1:
		return fmt.Errorf("%w: duplicate.required_fingers must be at least 1", ErrInvalidConfig)
	case c.Duplicate.GhostOpacity < 0 || c.Duplicate.GhostOpacity > 1:
		return fmt.Errorf("%w: duplicate.ghost_opacity must be in [0,1]", ErrInvalidConfig)
	case c.Pinch.MinFingers < 2:
		return fmt.Errorf("%w: pinch.min_fingers must be at least 2", ErrInvalidConfig)
	case c.Pinch.MinScale <= 0 || c.Pinch.MinScale > c.Pinch.MaxScale:
		return fmt.Errorf("%w: pinch scale bounds must satisfy 0 < min <= max", ErrInvalidConfig)
	case c.IdleReset.Enabled && c.IdleReset.Timeout <= 0:
		return fmt.Errorf("%w: idle_reset.timeout must be positive", ErrInvalidConfig)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	if _, ok := pivotModes[c.Rotate.PivotMode]; !ok {
		return fmt.Errorf("%w: unknown rotate.pivot_mode %q", ErrInvalidConfig, c.Rotate.PivotMode)
	}
	if _, ok := duplicateModes[c.Duplicate.Mode]; !ok {
		return fmt.Errorf("%w: unknown duplicate.mode %q", ErrInvalidConfig, c.Duplicate.Mode)
	}
	if _, ok := axisFrames[c.Duplicate.AxisFrame]; !ok {
		return fmt.Errorf("%w: unknown duplicate.axis_frame %q", ErrInvalidConfig, c.Duplicate.AxisFrame)
	}
	if _, ok := eases[c.IdleReset.Ease]; !ok {
		return fmt.Errorf("%w: unknown idle_reset.ease %q", ErrInvalidConfig, c.IdleReset.Ease)
	}
	return nil
}

// DragConfig converts to the recognizer tunables.
func (c *Config) DragConfig() touchtable.DragConfig {
	return touchtable.DragConfig{
		SnapDistance: c.Drag.SnapDistance,
		SnapAngle:    c.Drag.SnapAngle,
		ArmDelay:     c.Drag.ArmDelay,
	}
}

// RotateConfig converts to the recognizer tunables.
func (c *Config) RotateConfig() touchtable.RotateConfig {
	r := c.Rotate
	return touchtable.RotateConfig{
		RequireExactlyTwo: r.RequireExactlyTwo,
		PivotMode:         pivotModes[r.PivotMode],
		PivotDetectTicks:  r.PivotDetectTicks,
		PivotJitter:       r.PivotJitter,
		AxisPickMinMove:   r.AxisPickMinMove,
		AxisHysteresis:    r.AxisHysteresis,
		TwistThreshold:    r.TwistThreshold,
		TwistGain:         r.TwistGain,
		TranslateGain:     r.TranslateGain,
		Sensitivity:       r.Sensitivity,
		Smoothing:         r.Smoothing,
		DeadZone:          r.DeadZone,
		MaxDegPerTick:     r.MaxDegPerTick,
		AdaptiveGain:      r.AdaptiveGain,
		GainPerUnit:       r.GainPerUnit,
		SnapAngle:         r.SnapAngle,
		MinRadius:         r.MinRadius,
		ClampPitch:        r.ClampPitch,
		PitchMin:          r.PitchMin,
		PitchMax:          r.PitchMax,
		EnableYaw:         r.EnableYaw,
		EnablePitch:       r.EnablePitch,
		EnableRoll:        r.EnableRoll,
		WorldSpace:        r.WorldSpace,
	}
}

// DuplicateConfig converts to the recognizer tunables.
func (c *Config) DuplicateConfig() touchtable.DuplicateConfig {
	d := c.Duplicate
	return touchtable.DuplicateConfig{
		Mode:                duplicateModes[d.Mode],
		AxisFrame:           axisFrames[d.AxisFrame],
		RequiredFingers:     d.RequiredFingers,
		GatherWindow:        d.GatherWindow,
		HoldTime:            d.HoldTime,
		AxisPickMinMove:     d.AxisPickMinMove,
		SpacingOverride:     d.SpacingOverride,
		SeparationMargin:    d.SeparationMargin,
		MaxPerStroke:        d.MaxPerStroke,
		MinSpawnInterval:    d.MinSpawnInterval,
		CaptureRadiusFactor: d.CaptureRadiusFactor,
		DynamicCapture:      d.DynamicCapture,
		DynamicCaptureSlack: d.DynamicCaptureSlack,
		GhostOpacity:        d.GhostOpacity,
		GhostFade:           d.GhostFade,
	}
}

// PinchConfig converts to the recognizer tunables.
func (c *Config) PinchConfig() touchtable.PinchConfig {
	return touchtable.PinchConfig{
		MinFingers: c.Pinch.MinFingers,
		MinScale:   c.Pinch.MinScale,
		MaxScale:   c.Pinch.MaxScale,
		Uniform:    c.Pinch.Uniform,
	}
}

// IdleResetConfig converts to the idle-reset tunables.
func (c *Config) IdleResetConfig() touchtable.IdleResetConfig {
	return touchtable.IdleResetConfig{
		Timeout:  c.IdleReset.Timeout,
		Duration: c.IdleReset.Duration,
		Ease:     eases[c.IdleReset.Ease],
	}
}
