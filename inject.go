package touchtable

// TouchOpKind is the kind of a scripted finger operation.
type TouchOpKind uint8

const (
	OpPress   TouchOpKind = iota // finger touches down
	OpMove                       // finger moves while down
	OpRelease                    // finger lifts
	OpCancel                     // platform aborts the contact
)

// TouchOp is one scripted change to a finger. Ops on MouseFingerID drive the
// mouse pointer instead of a native contact.
type TouchOp struct {
	Kind     TouchOpKind
	FingerID int
	Position Vec2
}

type injectFrame []TouchOp

// InjectSource is an InputSource fed from a queue of scripted frames. Each
// Poll of the normalizer consumes one frame: its ops are applied, then the
// resulting finger set is reported. With an empty queue the current state is
// reported unchanged, so held fingers stay down.
type InjectSource struct {
	queue    []injectFrame
	down     []RawTouch // native contacts currently held, press order
	canceled []RawTouch // reported once, then dropped

	mouse     Vec2
	mouseDown bool
}

// NewInjectSource creates an empty scripted source.
func NewInjectSource() *InjectSource {
	return &InjectSource{}
}

// Frame queues a single tick in which all ops happen together.
func (s *InjectSource) Frame(ops ...TouchOp) {
	s.queue = append(s.queue, injectFrame(append([]TouchOp(nil), ops...)))
}

// Press queues a frame pressing finger id at (x, y).
func (s *InjectSource) Press(id int, x, y float64) {
	s.Frame(TouchOp{Kind: OpPress, FingerID: id, Position: Vec2{x, y}})
}

// Move queues a frame moving finger id to (x, y).
func (s *InjectSource) Move(id int, x, y float64) {
	s.Frame(TouchOp{Kind: OpMove, FingerID: id, Position: Vec2{x, y}})
}

// Release queues a frame lifting finger id.
func (s *InjectSource) Release(id int) {
	s.Frame(TouchOp{Kind: OpRelease, FingerID: id})
}

// Cancel queues a frame in which the platform aborts finger id.
func (s *InjectSource) Cancel(id int) {
	s.Frame(TouchOp{Kind: OpCancel, FingerID: id})
}

// Wait queues frames ticks with no changes.
func (s *InjectSource) Wait(frames int) {
	for i := 0; i < frames; i++ {
		s.Frame()
	}
}

// Drag queues a full single-finger drag: press at from, frames-2 linearly
// interpolated moves ending at to, and a release. The total sequence consumes
// frames ticks; the minimum is 2.
func (s *InjectSource) Drag(id int, from, to Vec2, frames int) {
	s.Stroke([]int{id}, []Vec2{from}, []Vec2{to}, frames)
}

// Stroke queues a multi-finger gesture: all fingers press together, move
// together along straight lines in frames-2 steps ending exactly on to, and
// release together. With frames == 2 the fingers press and lift in place.
func (s *InjectSource) Stroke(ids []int, from, to []Vec2, frames int) {
	if len(ids) == 0 || len(from) != len(ids) || len(to) != len(ids) {
		return
	}
	if frames < 2 {
		frames = 2
	}
	press := make([]TouchOp, len(ids))
	for i, id := range ids {
		press[i] = TouchOp{Kind: OpPress, FingerID: id, Position: from[i]}
	}
	s.Frame(press...)
	steps := frames - 2
	for k := 1; k <= steps; k++ {
		t := float64(k) / float64(steps)
		ops := make([]TouchOp, len(ids))
		for i, id := range ids {
			ops[i] = TouchOp{Kind: OpMove, FingerID: id, Position: lerp2(from[i], to[i], t)}
		}
		s.Frame(ops...)
	}
	release := make([]TouchOp, len(ids))
	for i, id := range ids {
		release[i] = TouchOp{Kind: OpRelease, FingerID: id}
	}
	s.Frame(release...)
}

// Pending returns the number of frames still queued.
func (s *InjectSource) Pending() int { return len(s.queue) }

// Down reports whether finger id is currently held.
func (s *InjectSource) Down(id int) bool {
	if id == MouseFingerID {
		return s.mouseDown
	}
	return s.indexOf(id) >= 0
}

// AppendTouches implements InputSource. It consumes one queued frame.
func (s *InjectSource) AppendTouches(dst []RawTouch) []RawTouch {
	s.canceled = s.canceled[:0]
	if len(s.queue) > 0 {
		f := s.queue[0]
		copy(s.queue, s.queue[1:])
		s.queue[len(s.queue)-1] = nil
		s.queue = s.queue[:len(s.queue)-1]
		for _, op := range f {
			s.apply(op)
		}
	}
	dst = append(dst, s.down...)
	return append(dst, s.canceled...)
}

// Mouse implements InputSource.
func (s *InjectSource) Mouse() (Vec2, bool) {
	return s.mouse, s.mouseDown
}

func (s *InjectSource) apply(op TouchOp) {
	if op.FingerID == MouseFingerID {
		switch op.Kind {
		case OpPress, OpMove:
			s.mouse = op.Position
			s.mouseDown = true
		case OpRelease, OpCancel:
			s.mouseDown = false
		}
		return
	}
	i := s.indexOf(op.FingerID)
	switch op.Kind {
	case OpPress, OpMove:
		if i < 0 {
			s.down = append(s.down, RawTouch{ID: op.FingerID, Position: op.Position})
			return
		}
		s.down[i].Position = op.Position
	case OpRelease, OpCancel:
		if i < 0 {
			return
		}
		t := s.down[i]
		copy(s.down[i:], s.down[i+1:])
		s.down = s.down[:len(s.down)-1]
		if op.Kind == OpCancel {
			t.Canceled = true
			s.canceled = append(s.canceled, t)
		}
	}
}

func (s *InjectSource) indexOf(id int) int {
	for i := range s.down {
		if s.down[i].ID == id {
			return i
		}
	}
	return -1
}

func lerp2(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}
