// Package assembly checks that parts are snapped into place in a prescribed
// order. A Validator is a touchtable.SnapListener: hand it to the drag
// recognizers and it advances whenever the part the current step expects
// lands on an anchor.
package assembly

import (
	"fmt"
	"os"

	"github.com/phanxgames/touchtable"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Step is one placement in an assembly sequence.
type Step struct {
	ID          int    `yaml:"id" json:"id"`
	TargetPart  string `yaml:"targetPart" json:"targetPart"`
	SnapTo      string `yaml:"snapTo,omitempty" json:"snapTo,omitempty"` // anchor name; empty accepts any
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Definition is an ordered list of steps.
type Definition struct {
	AssemblyID string `yaml:"assemblyId" json:"assemblyId"`
	Title      string `yaml:"title" json:"title"`
	Steps      []Step `yaml:"steps" json:"steps"`
}

// Load parses a YAML or JSON assembly definition.
func Load(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseAssembly, err)
	}
	if len(def.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrParseAssembly)
	}
	for i, s := range def.Steps {
		if s.TargetPart == "" {
			return nil, fmt.Errorf("%w: step %d has no targetPart", ErrParseAssembly, i)
		}
	}
	return &def, nil
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseAssembly, err)
	}
	return Load(data)
}

// Validator tracks progress through a Definition.
type Validator struct {
	def     *Definition
	parts   map[string]touchtable.Object
	current int

	// OnHighlight is called whenever the current step changes, with the
	// part to emphasize and the previously highlighted one. Both may be
	// nil.
	OnHighlight func(next, prev touchtable.Object)
	// OnComplete is called once the last step is validated.
	OnComplete func()

	highlighted touchtable.Object
	log         zerolog.Logger
}

// NewValidator creates a validator at the first step of def.
func NewValidator(def *Definition, log zerolog.Logger) *Validator {
	if def == nil {
		def = &Definition{}
	}
	return &Validator{
		def:   def,
		parts: make(map[string]touchtable.Object),
		log:   log.With().Str("component", "assembly").Str("assembly", def.AssemblyID).Logger(),
	}
}

// Index registers objects by name. A later object with the same name
// replaces the earlier one.
func (v *Validator) Index(objs ...touchtable.Object) {
	for _, o := range objs {
		if o == nil {
			continue
		}
		if _, dup := v.parts[o.Name()]; dup {
			v.log.Warn().Str("part", o.Name()).Msg("several parts share a name; the last one wins")
		}
		v.parts[o.Name()] = o
	}
}

// IndexTable registers every part on t, children included.
func (v *Validator) IndexTable(t *touchtable.Table) {
	t.Walk(func(p *touchtable.Part) { v.Index(p) })
}

// Start highlights the current step's part.
func (v *Validator) Start() { v.highlight() }

// Definition returns the sequence being validated.
func (v *Validator) Definition() *Definition { return v.def }

// Current returns the step awaiting validation.
func (v *Validator) Current() (Step, bool) {
	if v.Done() {
		return Step{}, false
	}
	return v.def.Steps[v.current], true
}

// Position returns the index of the current step; it equals the step count
// once done.
func (v *Validator) Position() int { return v.current }

// Done reports whether every step has been validated.
func (v *Validator) Done() bool { return v.current >= len(v.def.Steps) }

// OnSnapped implements touchtable.SnapListener. It validates the current
// step when obj is the indexed target part, or failing that when obj's name
// matches the target. A step with SnapTo also requires that anchor.
func (v *Validator) OnSnapped(obj touchtable.Object, anchor *touchtable.Anchor) {
	step, ok := v.Current()
	if !ok || obj == nil {
		return
	}
	if step.SnapTo != "" && (anchor == nil || anchor.Name != step.SnapTo) {
		return
	}
	expected, indexed := v.parts[step.TargetPart]
	if !(indexed && expected == obj) && obj.Name() != step.TargetPart {
		return
	}

	v.log.Info().Int("step", step.ID).Str("part", obj.Name()).Msg("step validated")
	v.current++
	v.highlight()
	if v.Done() && v.OnComplete != nil {
		v.OnComplete()
	}
}

// Next skips to the following step. It never moves past the last step.
func (v *Validator) Next() {
	if v.current < len(v.def.Steps)-1 {
		v.current++
		v.highlight()
	}
}

// Previous returns to the preceding step.
func (v *Validator) Previous() {
	if v.current > 0 {
		v.current--
		v.highlight()
	}
}

// Reset starts over from the first step.
func (v *Validator) Reset() {
	v.current = 0
	v.highlight()
}

func (v *Validator) highlight() {
	var next touchtable.Object
	if step, ok := v.Current(); ok {
		next = v.parts[step.TargetPart]
		if next == nil {
			v.log.Warn().Str("part", step.TargetPart).Msg("target part not found")
		}
	}
	prev := v.highlighted
	v.highlighted = next
	if v.OnHighlight != nil {
		v.OnHighlight(next, prev)
	}
}
