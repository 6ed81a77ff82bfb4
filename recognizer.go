package touchtable

import (
	"cmp"
	"slices"
	"time"
)

// Deps are the collaborators shared by every recognizer of an Engine.
// Registry, Hits and Camera are required; the rest are optional.
type Deps struct {
	Registry *Registry
	Hits     HitTester
	Camera   Projector
	Clock    Clock
	Sink     EventSink
	Activity ActivityNotifier
}

// Recognizer is a gesture state machine fed by the normalizer and ticked by
// the engine once per update, after all events of that tick.
type Recognizer interface {
	Owner
	Behavior
	Enabled() bool
	Target() Object
	HandleBegan(TouchEvent)
	HandleMoved(TouchEvent)
	HandleEnded(TouchEvent)
	Tick(dt time.Duration)
	// Cancel ends any session, releasing every finger and restoring every
	// suspended behavior.
	Cancel()
}

// base carries what every recognizer shares: identity, collaborators, the
// enabled flag and the missing-collaborator diagnostic.
type base struct {
	name     string
	target   Object
	deps     Deps
	enabled  bool
	diag     diagnostic
	siblings []Behavior
}

func newBase(kind string, target Object, deps Deps) base {
	name := kind
	if target != nil {
		name = kind + ":" + target.Name()
	}
	return base{name: name, target: target, deps: deps, enabled: true}
}

// Name implements Owner.
func (b *base) Name() string { return b.name }

// Target returns the object the recognizer acts on.
func (b *base) Target() Object { return b.target }

// Enabled reports whether the recognizer accepts new fingers.
func (b *base) Enabled() bool { return b.enabled }

// SetSiblings sets the behaviors suspended while this recognizer is active.
// The engine fills it with the other recognizers attached to the same object.
func (b *base) SetSiblings(bs []Behavior) { b.siblings = bs }

// ready reports whether all required collaborators are present. When one is
// missing the recognizer stays idle forever and says so once.
func (b *base) ready() bool {
	switch {
	case b.deps.Registry == nil:
		b.diag.warn(b.name, "no finger registry; recognizer stays idle")
	case b.deps.Hits == nil:
		b.diag.warn(b.name, "no hit tester; recognizer stays idle")
	case b.deps.Camera == nil:
		b.diag.warn(b.name, "no camera; recognizer stays idle")
	case b.target == nil:
		b.diag.warn(b.name, "no target object; recognizer stays idle")
	default:
		return true
	}
	return false
}

func (b *base) now() time.Duration {
	if b.deps.Clock == nil {
		return 0
	}
	return b.deps.Clock.Now()
}

// hitsTarget reports whether a screen point lands on the target or its
// subtree.
func (b *base) hitsTarget(pos Vec2) bool {
	h, ok := b.deps.Hits.HitTest(pos)
	return ok && IsWithin(h.Object, b.target)
}

func (b *base) event(t EventType, fingers []int, value float64) GestureEvent {
	ev := GestureEvent{
		Type:       t,
		Recognizer: b.name,
		Fingers:    append([]int(nil), fingers...),
		Value:      value,
		At:         b.now(),
	}
	if b.target != nil {
		ev.ObjectID = b.target.ID()
		ev.Pose = b.target.Pose()
	}
	return ev
}

func (b *base) send(ev GestureEvent) {
	if b.deps.Sink != nil {
		b.deps.Sink.EmitEvent(ev)
	}
}

func (b *base) emit(t EventType, fingers []int, value float64) {
	if b.deps.Sink != nil {
		b.send(b.event(t, fingers, value))
	}
}

func (b *base) touched() {
	if b.deps.Activity != nil {
		b.deps.Activity.NotifyActivity()
	}
}

// suppressed returns the behaviors to suspend: siblings plus the target's
// own hosted behaviors, never self.
func (b *base) suppressed(self Behavior) []Behavior {
	out := make([]Behavior, 0, len(b.siblings))
	for _, s := range b.siblings {
		if s != self {
			out = append(out, s)
		}
	}
	if h, ok := b.target.(BehaviorHost); ok {
		for _, s := range h.Behaviors() {
			if s != self {
				out = append(out, s)
			}
		}
	}
	return out
}

// fingerSet tracks owned fingers in claim order with their latest positions.
type fingerSet struct {
	ids []int
	pos map[int]Vec2
}

func (f *fingerSet) add(id int, p Vec2) {
	if f.pos == nil {
		f.pos = make(map[int]Vec2)
	}
	if _, ok := f.pos[id]; !ok {
		f.ids = append(f.ids, id)
	}
	f.pos[id] = p
}

func (f *fingerSet) has(id int) bool {
	_, ok := f.pos[id]
	return ok
}

func (f *fingerSet) set(id int, p Vec2) {
	if f.has(id) {
		f.pos[id] = p
	}
}

func (f *fingerSet) remove(id int) bool {
	if !f.has(id) {
		return false
	}
	delete(f.pos, id)
	for i, v := range f.ids {
		if v == id {
			f.ids = append(f.ids[:i], f.ids[i+1:]...)
			break
		}
	}
	return true
}

func (f *fingerSet) len() int { return len(f.ids) }

func (f *fingerSet) points(dst []Vec2) []Vec2 {
	for _, id := range f.ids {
		dst = append(dst, f.pos[id])
	}
	return dst
}

func (f *fingerSet) clear() {
	f.ids = f.ids[:0]
	for k := range f.pos {
		delete(f.pos, k)
	}
}

// sortBy orders ids by rank, keeping ties in place.
func (f *fingerSet) sortBy(rank map[int]uint64) {
	slices.SortStableFunc(f.ids, func(a, b int) int { return cmp.Compare(rank[a], rank[b]) })
}

// multiTouch is the claim bookkeeping shared by the multi-finger
// recognizers: owned fingers, plus contested ones that landed on the target
// while another recognizer held them and are retried every tick. Owned
// fingers stay in touch-down order even when a contested finger is gained
// after a later one.
type multiTouch struct {
	owned     fingerSet
	contested fingerSet
	limit     int // max fingers to own; 0 is unlimited

	downs map[int]uint64
	seq   uint64
}

// began tries to claim a finger that landed on the target.
func (m *multiTouch) began(reg *Registry, owner Owner, ev TouchEvent) bool {
	if m.limit > 0 && m.owned.len() >= m.limit {
		return false
	}
	if m.downs == nil {
		m.downs = make(map[int]uint64)
	}
	m.seq++
	m.downs[ev.FingerID] = m.seq
	if reg.TryClaim(ev.FingerID, owner) {
		m.owned.add(ev.FingerID, ev.Position)
		return true
	}
	m.contested.add(ev.FingerID, ev.Position)
	return false
}

func (m *multiTouch) moved(ev TouchEvent) {
	m.owned.set(ev.FingerID, ev.Position)
	m.contested.set(ev.FingerID, ev.Position)
}

// ended forgets a finger and reports whether it was owned.
func (m *multiTouch) ended(reg *Registry, owner Owner, id int) bool {
	delete(m.downs, id)
	m.contested.remove(id)
	if m.owned.remove(id) {
		reg.Release(id, owner)
		return true
	}
	return false
}

// retry claims contested fingers that have since been released and returns
// how many were gained.
func (m *multiTouch) retry(reg *Registry, owner Owner) int {
	gained := 0
	for i := 0; i < len(m.contested.ids); {
		id := m.contested.ids[i]
		if m.limit > 0 && m.owned.len() >= m.limit {
			break
		}
		if reg.Owner(id) == nil && reg.TryClaim(id, owner) {
			m.owned.add(id, m.contested.pos[id])
			m.contested.remove(id)
			gained++
			continue
		}
		i++
	}
	if gained > 0 {
		m.owned.sortBy(m.downs)
	}
	return gained
}

func (m *multiTouch) releaseAll(reg *Registry, owner Owner) {
	for _, id := range m.owned.ids {
		reg.Release(id, owner)
	}
	m.owned.clear()
	m.contested.clear()
	clear(m.downs)
}
