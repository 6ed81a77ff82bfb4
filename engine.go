package touchtable

import "time"

// Ticker is anything advanced once per engine update.
type Ticker interface {
	Tick(dt time.Duration)
}

type entry struct {
	rec    Recognizer
	handle CallbackHandle
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHitTester sets the hit tester handed to recognizers.
func WithHitTester(h HitTester) EngineOption { return func(e *Engine) { e.hits = h } }

// WithCamera sets the projector handed to recognizers.
func WithCamera(p Projector) EngineOption { return func(e *Engine) { e.camera = p } }

// WithSink sets the gesture event sink.
func WithSink(s EventSink) EngineOption { return func(e *Engine) { e.sink = s } }

// WithActivity sets the default activity notifier.
func WithActivity(a ActivityNotifier) EngineOption { return func(e *Engine) { e.activity = a } }

// WithRegistry shares an existing finger registry instead of creating one.
func WithRegistry(r *Registry) EngineOption { return func(e *Engine) { e.registry = r } }

// Engine owns the normalizer, the finger registry and the logical clock,
// and drives every recognizer once per Update.
//
// Recognizers attached to the same object claim fingers in the order they
// were added: add the drag recognizer first so that its arming yield can
// hand fingers to the multi-finger recognizers added after it.
type Engine struct {
	normalizer *Normalizer
	registry   *Registry
	hits       HitTester
	camera     Projector
	sink       EventSink
	activity   ActivityNotifier

	now     time.Duration
	entries []entry
	tickers []Ticker
	runner  *ScriptRunner
}

// NewEngine creates an engine reading from source.
func NewEngine(source InputSource, opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	e.normalizer = NewNormalizer(source)
	e.registry.OnConflict(func(id int, holder, challenger Owner) {
		if e.sink == nil {
			return
		}
		e.sink.EmitEvent(GestureEvent{
			Type:       EventClaimConflict,
			Recognizer: challenger.Name(),
			Fingers:    []int{id},
			At:         e.now,
		})
	})
	return e
}

// Now implements Clock.
func (e *Engine) Now() time.Duration { return e.now }

// Normalizer returns the engine's event source.
func (e *Engine) Normalizer() *Normalizer { return e.normalizer }

// Registry returns the shared finger registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Deps returns the collaborators to construct recognizers with.
func (e *Engine) Deps() Deps {
	return Deps{
		Registry: e.registry,
		Hits:     e.hits,
		Camera:   e.camera,
		Clock:    e,
		Sink:     e.sink,
		Activity: e.activity,
	}
}

// Add subscribes recognizers to the normalizer and schedules their ticks.
// Recognizers sharing a target become siblings: each one suspends the others
// while its multi-finger session runs.
func (e *Engine) Add(recs ...Recognizer) {
	for _, r := range recs {
		if r == nil {
			continue
		}
		h := e.normalizer.Subscribe(r.HandleBegan, r.HandleMoved, r.HandleEnded)
		e.entries = append(e.entries, entry{rec: r, handle: h})
		e.tickers = append(e.tickers, r)
	}
	e.linkSiblings()
}

// Remove cancels r, unsubscribes it and stops ticking it.
func (e *Engine) Remove(r Recognizer) {
	for i, en := range e.entries {
		if en.rec != r {
			continue
		}
		r.Cancel()
		en.handle.Remove()
		e.entries = append(e.entries[:i], e.entries[i+1:]...)
		e.removeTicker(r)
		e.linkSiblings()
		return
	}
}

// AddTicker schedules t after everything added so far.
func (e *Engine) AddTicker(t Ticker) {
	if t != nil {
		e.tickers = append(e.tickers, t)
	}
}

// Recognizers returns the attached recognizers in registration order.
func (e *Engine) Recognizers() []Recognizer {
	out := make([]Recognizer, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.rec
	}
	return out
}

// SetScriptRunner feeds the engine from a scripted input runner. The
// runner's source replaces the current input source.
func (e *Engine) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
	if r != nil {
		e.normalizer.SetSource(r.Source())
	}
}

// Update advances the clock by dt, polls input, and ticks every recognizer
// and ticker in registration order.
func (e *Engine) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	e.now += dt
	if e.runner != nil {
		e.runner.step()
	}
	e.normalizer.Poll()
	for _, t := range e.tickers {
		t.Tick(dt)
	}
}

// Shutdown cancels every finger and every session. Afterwards the registry
// holds no claims from this engine's recognizers.
func (e *Engine) Shutdown() {
	e.normalizer.CancelAll()
	for _, en := range e.entries {
		en.rec.Cancel()
		e.registry.ReleaseAll(en.rec)
	}
}

func (e *Engine) removeTicker(t Ticker) {
	for i, x := range e.tickers {
		if x == t {
			e.tickers = append(e.tickers[:i], e.tickers[i+1:]...)
			return
		}
	}
}

type siblingSetter interface {
	SetSiblings([]Behavior)
}

// linkSiblings gives every recognizer the others acting on the same object
// subtree: its target, the target's ancestors and its descendants.
func (e *Engine) linkSiblings() {
	var recs []Recognizer
	for _, en := range e.entries {
		if _, ok := en.rec.(*FingerCountActivator); ok {
			continue
		}
		if en.rec.Target() != nil {
			recs = append(recs, en.rec)
		}
	}
	for _, en := range e.entries {
		s, ok := en.rec.(siblingSetter)
		if !ok {
			continue
		}
		t := en.rec.Target()
		var bs []Behavior
		for _, other := range recs {
			if other == en.rec || t == nil {
				continue
			}
			if o := other.Target(); IsWithin(o, t) || IsWithin(t, o) {
				bs = append(bs, other)
			}
		}
		s.SetSiblings(bs)
	}
}
