package touchtable

import "time"

// CountRule decides whether a finger count passes.
type CountRule uint8

const (
	CountEqual     CountRule = iota // count == Min
	CountAtLeast                    // count >= Min
	CountAtMost                     // count <= Min
	CountBetween                    // Min <= count <= Max
)

// FingerCountActivator enables its behaviors while the number of fingers
// resting on the target satisfies a rule, and disables them otherwise. It
// observes fingers without claiming them. Targets that are recognizers are
// handed the resting fingers when they are enabled, so touches that arrived
// while they were off are not lost.
type FingerCountActivator struct {
	base
	Rule    CountRule
	Min     int
	Max     int
	Invert  bool
	targets []Behavior

	fingers fingerSet
	applied int // -1 before the first evaluation
	state   bool
}

// NewFingerCountActivator creates an activator toggling targets based on
// how many fingers rest on obj.
func NewFingerCountActivator(obj Object, deps Deps, rule CountRule, lo, hi int, targets ...Behavior) *FingerCountActivator {
	return &FingerCountActivator{
		base:    newBase("activator", obj, deps),
		Rule:    rule,
		Min:     lo,
		Max:     hi,
		targets: targets,
		applied: -1,
	}
}

// Count returns how many fingers rest on the target.
func (a *FingerCountActivator) Count() int { return a.fingers.len() }

// Pass reports whether the rule holds for count, honoring Invert.
func (a *FingerCountActivator) Pass(count int) bool {
	var ok bool
	switch a.Rule {
	case CountEqual:
		ok = count == a.Min
	case CountAtLeast:
		ok = count >= a.Min
	case CountAtMost:
		ok = count <= a.Min
	case CountBetween:
		ok = count >= a.Min && count <= a.Max
	}
	return ok != a.Invert
}

// SetEnabled implements Behavior.
func (a *FingerCountActivator) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled {
		a.Cancel()
	}
}

// HandleBegan implements Recognizer.
func (a *FingerCountActivator) HandleBegan(ev TouchEvent) {
	if !a.enabled || a.deps.Hits == nil || a.target == nil {
		return
	}
	if a.hitsTarget(ev.Position) {
		a.fingers.add(ev.FingerID, ev.Position)
		a.apply()
	}
}

// HandleMoved implements Recognizer.
func (a *FingerCountActivator) HandleMoved(ev TouchEvent) {
	a.fingers.set(ev.FingerID, ev.Position)
}

// HandleEnded implements Recognizer.
func (a *FingerCountActivator) HandleEnded(ev TouchEvent) {
	if a.fingers.remove(ev.FingerID) {
		a.apply()
	}
}

// Tick implements Recognizer. The first tick applies the rule for zero
// fingers so targets start in a consistent state.
func (a *FingerCountActivator) Tick(time.Duration) {
	if a.applied < 0 && a.enabled {
		a.apply()
	}
}

// Cancel implements Recognizer. It forgets every finger.
func (a *FingerCountActivator) Cancel() {
	a.fingers.clear()
	a.applied = -1
}

func (a *FingerCountActivator) apply() {
	n := a.fingers.len()
	pass := a.Pass(n)
	if a.applied >= 0 && pass == a.state {
		a.applied = n
		return
	}
	a.applied = n
	a.state = pass
	for _, t := range a.targets {
		if t == nil {
			continue
		}
		t.SetEnabled(pass)
		if r, ok := t.(Recognizer); ok && pass {
			for _, id := range a.fingers.ids {
				r.HandleBegan(TouchEvent{FingerID: id, Position: a.fingers.pos[id], Phase: PhaseBegan})
			}
		}
	}
}
