package touchtable

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScriptFinger is one finger of a multi-finger stroke step.
type ScriptFinger struct {
	ID    int     `yaml:"id" json:"id"`
	FromX float64 `yaml:"fromX" json:"fromX"`
	FromY float64 `yaml:"fromY" json:"fromY"`
	ToX   float64 `yaml:"toX" json:"toX"`
	ToY   float64 `yaml:"toY" json:"toY"`
}

// ScriptStep is a single action in an input script.
//
// Actions: down, move, up, cancel (one finger at X,Y), drag (one finger from
// FromX,FromY to ToX,ToY over Frames ticks), stroke (every entry of Fingers
// together), wait (Frames idle ticks) and mark (calls the runner's mark hook
// with Label).
type ScriptStep struct {
	Action  string         `yaml:"action" json:"action"`
	Label   string         `yaml:"label,omitempty" json:"label,omitempty"`
	Finger  int            `yaml:"finger,omitempty" json:"finger,omitempty"`
	X       float64        `yaml:"x,omitempty" json:"x,omitempty"`
	Y       float64        `yaml:"y,omitempty" json:"y,omitempty"`
	FromX   float64        `yaml:"fromX,omitempty" json:"fromX,omitempty"`
	FromY   float64        `yaml:"fromY,omitempty" json:"fromY,omitempty"`
	ToX     float64        `yaml:"toX,omitempty" json:"toX,omitempty"`
	ToY     float64        `yaml:"toY,omitempty" json:"toY,omitempty"`
	Frames  int            `yaml:"frames,omitempty" json:"frames,omitempty"`
	Fingers []ScriptFinger `yaml:"fingers,omitempty" json:"fingers,omitempty"`
}

type script struct {
	Steps []ScriptStep `yaml:"steps" json:"steps"`
}

// ScriptRunner sequences scripted touches across ticks. Attach it to an
// Engine with SetScriptRunner; each step waits until the frames queued by the
// previous one have been consumed.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
	source    *InjectSource

	// OnMark is called for every mark step.
	OnMark func(label string)
}

// LoadScript parses a YAML or JSON input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseScript, err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrParseScript)
	}
	for i, st := range s.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("%w: step %d: unknown action %q", ErrParseScript, i, st.Action)
		}
	}
	return NewScriptRunner(s.Steps), nil
}

// NewScriptRunner creates a runner for already-built steps.
func NewScriptRunner(steps []ScriptStep) *ScriptRunner {
	return &ScriptRunner{steps: steps, source: NewInjectSource()}
}

func knownAction(a string) bool {
	switch a {
	case "down", "move", "up", "cancel", "drag", "stroke", "wait", "mark":
		return true
	}
	return false
}

// Source returns the input source the runner feeds.
func (r *ScriptRunner) Source() *InjectSource { return r.source }

// Steps returns how many steps the script has.
func (r *ScriptRunner) Steps() int { return len(r.steps) }

// Done reports whether every step has run and its frames have been consumed.
func (r *ScriptRunner) Done() bool { return r.done }

// step advances the runner by one tick. Called from Engine.Update before the
// normalizer polls.
func (r *ScriptRunner) step() {
	if r.done {
		return
	}
	if r.source.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "down":
		r.source.Press(st.Finger, st.X, st.Y)
	case "move":
		r.source.Move(st.Finger, st.X, st.Y)
	case "up":
		r.source.Release(st.Finger)
	case "cancel":
		r.source.Cancel(st.Finger)
	case "drag":
		r.source.Drag(st.Finger, Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames)
	case "stroke":
		ids := make([]int, len(st.Fingers))
		from := make([]Vec2, len(st.Fingers))
		to := make([]Vec2, len(st.Fingers))
		for i, f := range st.Fingers {
			ids[i] = f.ID
			from[i] = Vec2{f.FromX, f.FromY}
			to[i] = Vec2{f.ToX, f.ToY}
		}
		r.source.Stroke(ids, from, to, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "mark":
		if r.OnMark != nil {
			r.OnMark(st.Label)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.source.Pending() == 0 {
		r.done = true
	}
}
