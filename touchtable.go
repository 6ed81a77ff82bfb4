package touchtable

import "time"

// Vec2 is a 2D vector used for screen positions and deltas. Screen space has
// its origin at the top-left, with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// MouseFingerID is the reserved finger identifier of the synthetic mouse
// contact. Native touch identifiers never collide with it.
const MouseFingerID = 9999

// Phase is the lifecycle stage of a finger within one tick.
type Phase uint8

const (
	PhaseBegan      Phase = iota // first tick the contact is seen
	PhaseMoved                   // contact moved since last tick
	PhaseStationary              // contact still down, no movement
	PhaseEnded                   // contact lifted
	PhaseCanceled                // contact aborted by the platform
)

var phaseNames = [...]string{"began", "moved", "stationary", "ended", "canceled"}

// String returns the lower-case phase name.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// TouchEvent is one normalized per-finger event. Events are values produced
// by the Normalizer for a single tick and must not be retained.
type TouchEvent struct {
	FingerID int
	Position Vec2
	Delta    Vec2
	Phase    Phase
}

// Clock supplies the logical tick time. Engine implements it; tests can
// substitute a manual clock.
type Clock interface {
	Now() time.Duration
}

// EventType identifies a kind of gesture event emitted to an EventSink.
type EventType uint8

const (
	EventGestureBegan    EventType = iota // a recognizer reached quorum and started a session
	EventGestureEnded                     // a session finished normally
	EventGestureCanceled                  // a session was cut short (finger loss, bubble, disable)
	EventSnapped                          // a dragged object locked onto an anchor
	EventCloneSpawned                     // the duplicator instantiated a clone
	EventRotated                          // the rotation recognizer changed an orientation
	EventScaled                           // the pinch recognizer changed a scale
	EventClaimConflict                    // a claim lost to another recognizer
)

var eventTypeNames = [...]string{
	"gesture_began", "gesture_ended", "gesture_canceled", "snapped",
	"clone_spawned", "rotated", "scaled", "claim_conflict",
}

// String returns the snake_case event name used in logs and metric labels.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// AxisFrame selects the reference frame used to pick a duplication axis.
type AxisFrame uint8

const (
	AxisFrameScreen AxisFrame = iota // camera right/up
	AxisFrameWorld                   // world X/Y
)

// PivotMode selects how the rotation recognizer assigns pivot and pilot.
type PivotMode uint8

const (
	PivotFirstFinger PivotMode = iota // first claimed finger is the pivot
	PivotLeastMoving                  // the finger that moves least over a short window
)

// AxisLockState is the rotation recognizer's translation-channel commitment.
type AxisLockState uint8

const (
	AxisNone  AxisLockState = iota // not yet decided
	AxisPitch                      // vertical pilot motion drives pitch
	AxisRoll                       // horizontal pilot motion drives roll
)

var axisLockNames = [...]string{"none", "pitch", "roll"}

// String returns the lower-case axis name.
func (a AxisLockState) String() string {
	if int(a) < len(axisLockNames) {
		return axisLockNames[a]
	}
	return "unknown"
}
