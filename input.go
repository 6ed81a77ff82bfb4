package touchtable

// --- Raw input ---

// RawTouch is one native contact as reported by an InputSource for the
// current tick.
type RawTouch struct {
	ID       int
	Position Vec2
	Canceled bool // the platform aborted this contact this tick
}

// InputSource supplies the platform's raw pointer state. AppendTouches is
// called exactly once per Poll, before Mouse.
type InputSource interface {
	// AppendTouches appends every active native contact to dst.
	AppendTouches(dst []RawTouch) []RawTouch
	// Mouse reports the cursor position and whether the left button is held.
	Mouse() (Vec2, bool)
}

// --- Per-finger state ---

type fingerState struct {
	id   int
	last Vec2
	seen bool // present in the current poll
}

// --- Subscriber registry ---

type subscriber struct {
	id      uint32
	onBegan func(TouchEvent)
	onMoved func(TouchEvent)
	onEnded func(TouchEvent)
}

// CallbackHandle allows removing a subscription registered with
// Normalizer.Subscribe.
type CallbackHandle struct {
	id uint32
	n  *Normalizer
}

// Remove unsubscribes the callbacks. Removing during dispatch takes effect
// from the next event; removing twice is a no-op.
func (h CallbackHandle) Remove() {
	if h.n == nil {
		return
	}
	s := h.n.subs
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = subscriber{}
			h.n.subs = s[:len(s)-1]
			return
		}
	}
}

// --- Normalizer ---

// Normalizer turns raw multi-pointer input into one well-formed event stream
// per finger and fans it out to subscribers.
//
// Each Poll emits, in order: Began for new contacts, Moved or Stationary for
// continuing ones, then Ended or Canceled for finished ones. The mouse is
// only read when no native contact is active and appears as MouseFingerID.
type Normalizer struct {
	source  InputSource
	tracked []fingerState // insertion order
	subs    []subscriber
	nextID  uint32

	raw      []RawTouch
	began    []TouchEvent
	moved    []TouchEvent
	ended    []TouchEvent
	dispatch []subscriber
	frame    uint64
}

// NewNormalizer creates a normalizer reading from source. A nil source is
// allowed; Poll then only reports fingers already tracked as ended.
func NewNormalizer(source InputSource) *Normalizer {
	return &Normalizer{source: source}
}

// SetSource swaps the input source. Fingers tracked from the previous source
// are canceled first.
func (n *Normalizer) SetSource(source InputSource) {
	n.CancelAll()
	n.source = source
}

// Subscribe registers callbacks for the three event groups. Stationary is
// delivered to onMoved and Canceled to onEnded. Any callback may be nil.
func (n *Normalizer) Subscribe(onBegan, onMoved, onEnded func(TouchEvent)) CallbackHandle {
	n.nextID++
	n.subs = append(n.subs, subscriber{
		id:      n.nextID,
		onBegan: onBegan,
		onMoved: onMoved,
		onEnded: onEnded,
	})
	return CallbackHandle{id: n.nextID, n: n}
}

// Frame returns how many times Poll has run.
func (n *Normalizer) Frame() uint64 { return n.frame }

// ActiveFingers returns the tracked finger ids in the order they began.
func (n *Normalizer) ActiveFingers() []int {
	ids := make([]int, len(n.tracked))
	for i, f := range n.tracked {
		ids[i] = f.id
	}
	return ids
}

// Position returns the last known position of a tracked finger.
func (n *Normalizer) Position(id int) (Vec2, bool) {
	if i := n.indexOf(id); i >= 0 {
		return n.tracked[i].last, true
	}
	return Vec2{}, false
}

// Poll reads the source once and dispatches this tick's events.
func (n *Normalizer) Poll() {
	n.frame++
	n.raw = n.raw[:0]
	if n.source != nil {
		n.raw = n.source.AppendTouches(n.raw)
		if len(n.raw) == 0 {
			if pos, down := n.source.Mouse(); down {
				n.raw = append(n.raw, RawTouch{ID: MouseFingerID, Position: pos})
			}
		}
	}

	n.began = n.began[:0]
	n.moved = n.moved[:0]
	n.ended = n.ended[:0]
	for i := range n.tracked {
		n.tracked[i].seen = false
	}

	for _, t := range n.raw {
		i := n.indexOf(t.ID)
		if i >= 0 && n.tracked[i].seen {
			continue // duplicate id in one poll
		}
		switch {
		case i < 0 && t.Canceled:
			// Never began; nothing to report.
		case i < 0:
			n.tracked = append(n.tracked, fingerState{id: t.ID, last: t.Position, seen: true})
			n.began = append(n.began, TouchEvent{FingerID: t.ID, Position: t.Position, Phase: PhaseBegan})
		case t.Canceled:
			f := &n.tracked[i]
			n.ended = append(n.ended, TouchEvent{
				FingerID: t.ID, Position: t.Position, Delta: t.Position.Sub(f.last), Phase: PhaseCanceled,
			})
			// seen stays false so the purge below drops it.
		default:
			f := &n.tracked[i]
			f.seen = true
			d := t.Position.Sub(f.last)
			ph := PhaseMoved
			if d == (Vec2{}) {
				ph = PhaseStationary
			}
			f.last = t.Position
			n.moved = append(n.moved, TouchEvent{FingerID: t.ID, Position: t.Position, Delta: d, Phase: ph})
		}
	}

	kept := n.tracked[:0]
	for _, f := range n.tracked {
		if f.seen {
			kept = append(kept, f)
			continue
		}
		if !n.hasEnded(f.id) {
			n.ended = append(n.ended, TouchEvent{FingerID: f.id, Position: f.last, Phase: PhaseEnded})
		}
	}
	n.tracked = kept

	n.emit(n.began, PhaseBegan)
	n.emit(n.moved, PhaseMoved)
	n.emit(n.ended, PhaseEnded)
}

// CancelAll emits Canceled for every tracked finger and forgets them.
func (n *Normalizer) CancelAll() {
	if len(n.tracked) == 0 {
		return
	}
	n.ended = n.ended[:0]
	for _, f := range n.tracked {
		n.ended = append(n.ended, TouchEvent{FingerID: f.id, Position: f.last, Phase: PhaseCanceled})
	}
	n.tracked = n.tracked[:0]
	n.emit(n.ended, PhaseEnded)
}

func (n *Normalizer) indexOf(id int) int {
	for i := range n.tracked {
		if n.tracked[i].id == id {
			return i
		}
	}
	return -1
}

func (n *Normalizer) hasEnded(id int) bool {
	for _, e := range n.ended {
		if e.FingerID == id {
			return true
		}
	}
	return false
}

// emit delivers events to a snapshot of the subscriber list so that
// subscribing or unsubscribing inside a callback does not disturb the
// current round.
func (n *Normalizer) emit(events []TouchEvent, group Phase) {
	if len(events) == 0 || len(n.subs) == 0 {
		return
	}
	for _, ev := range events {
		n.dispatch = append(n.dispatch[:0], n.subs...)
		for _, s := range n.dispatch {
			var fn func(TouchEvent)
			switch group {
			case PhaseBegan:
				fn = s.onBegan
			case PhaseMoved:
				fn = s.onMoved
			default:
				fn = s.onEnded
			}
			if fn != nil {
				invokeSubscriber(fn, ev)
			}
		}
	}
}

func invokeSubscriber(fn func(TouchEvent), ev TouchEvent) {
	defer func() {
		if r := recover(); r != nil {
			l := componentLog("normalizer")
			l.Error().
				Interface("panic", r).
				Int("finger", ev.FingerID).
				Stringer("phase", ev.Phase).
				Msg("subscriber panicked")
		}
	}()
	fn(ev)
}
