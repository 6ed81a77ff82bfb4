package touchtable

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// IdleResetConfig holds the idle-reset tunables.
type IdleResetConfig struct {
	Timeout  time.Duration // inactivity before the reset starts
	Duration time.Duration // length of the return animation; 0 snaps back
	Ease     ease.TweenFunc
}

// DefaultIdleResetConfig returns the stock idle-reset tunables.
func DefaultIdleResetConfig() IdleResetConfig {
	return IdleResetConfig{
		Timeout:  120 * time.Second,
		Duration: 1500 * time.Millisecond,
		Ease:     ease.InOutQuad,
	}
}

// IdleReset returns an object to its original pose once nobody has touched
// it for a while. It implements ActivityNotifier; any activity restarts the
// timer and aborts a return already under way.
type IdleReset struct {
	target Object
	clock  Clock
	cfg    IdleResetConfig

	origin       Pose
	lastActivity time.Duration

	tween *gween.Tween
	from  Pose
}

// NewIdleReset records target's current pose as the one to return to.
func NewIdleReset(target Object, clock Clock, cfg IdleResetConfig) *IdleReset {
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	r := &IdleReset{target: target, clock: clock, cfg: cfg, origin: target.Pose()}
	r.lastActivity = r.now()
	return r
}

// Origin returns the pose the object returns to.
func (r *IdleReset) Origin() Pose { return r.origin }

// SetOrigin replaces the pose to return to.
func (r *IdleReset) SetOrigin(p Pose) { r.origin = p }

// Resetting reports whether the return animation is running.
func (r *IdleReset) Resetting() bool { return r.tween != nil }

// NotifyActivity implements ActivityNotifier.
func (r *IdleReset) NotifyActivity() {
	r.lastActivity = r.now()
	r.tween = nil
}

// Tick advances the timer and any running return animation.
func (r *IdleReset) Tick(dt time.Duration) {
	if r.tween != nil {
		v, done := r.tween.Update(float32(dt.Seconds()))
		r.target.SetPose(blendPose(r.from, r.origin, float64(v)))
		if done {
			r.finish()
		}
		return
	}
	if r.now()-r.lastActivity < r.cfg.Timeout {
		return
	}
	cur := r.target.Pose()
	if cur == r.origin {
		r.lastActivity = r.now()
		return
	}
	if r.cfg.Duration <= 0 {
		r.finish()
		return
	}
	l := componentLog("idle")
	l.Debug().Str("object", r.target.ID()).Msg("returning to origin")
	r.from = cur
	r.tween = gween.New(0, 1, float32(r.cfg.Duration.Seconds()), r.cfg.Ease)
}

func (r *IdleReset) finish() {
	r.target.SetPose(r.origin)
	r.tween = nil
	r.lastActivity = r.now()
}

func (r *IdleReset) now() time.Duration {
	if r.clock == nil {
		return 0
	}
	return r.clock.Now()
}

func blendPose(a, b Pose, t float64) Pose {
	return Pose{
		Position: a.Position.Add(b.Position.Sub(a.Position).Scale(t)),
		Rotation: Slerp(a.Rotation, b.Rotation, t),
	}
}

// ActivityGroup forwards activity to several notifiers.
type ActivityGroup []ActivityNotifier

// NotifyActivity implements ActivityNotifier.
func (g ActivityGroup) NotifyActivity() {
	for _, n := range g {
		if n != nil {
			n.NotifyActivity()
		}
	}
}
