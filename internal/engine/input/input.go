// Package input defines the engine's platform-neutral input events, the
// per-frame event queue and the derived key state.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventScroll
)

// Key is a logical key. Platform scancodes are mapped onto these by the
// poller; unmapped keys arrive as KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyShift
	KeyEscape
	KeyF2
	KeyF3
	KeyF12
	keyCount
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
	Scroll float32
}

// Queue collects events between frames. Producers Push; the frame loop
// Drains once per frame. It is not safe for concurrent use.
type Queue struct {
	pending []Event
	spare   []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		pending: make([]Event, 0, 16),
		spare:   make([]Event, 0, 16),
	}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.pending = append(q.pending, e)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Drain returns the pending events in arrival order and empties the queue.
// The returned slice is valid until the next Drain.
func (q *Queue) Drain() []Event {
	out := q.pending
	q.pending, q.spare = q.spare[:0], out
	return out
}
