// Package sdlinput feeds SDL2 events into an input.Queue.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-engine/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_UP:     input.KeyUp,
	sdl.SCANCODE_DOWN:   input.KeyDown,
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_LSHIFT: input.KeyShift,
	sdl.SCANCODE_RSHIFT: input.KeyShift,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_F2:     input.KeyF2,
	sdl.SCANCODE_F3:     input.KeyF3,
	sdl.SCANCODE_F12:    input.KeyF12,
}

// Poller translates pending SDL events into queue entries. It must run on the
// thread that owns the window.
type Poller struct {
	queue *input.Queue
}

// New creates a poller writing into q.
func New(q *input.Queue) *Poller {
	return &Poller{queue: q}
}

// Poll drains SDL's event queue. It never blocks.
func (p *Poller) Poll() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.queue.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				p.queue.Push(input.Event{
					Type:   input.EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := input.Event{Key: keymap[e.Keysym.Scancode], Repeat: e.Repeat != 0}
			if e.Type == sdl.KEYDOWN {
				ev.Type = input.EventKeyDown
			} else {
				ev.Type = input.EventKeyUp
			}
			p.queue.Push(ev)

		case *sdl.MouseMotionEvent:
			p.queue.Push(input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: int(e.XRel),
				DeltaY: int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := input.Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = input.EventMouseDown
			} else {
				ev.Type = input.EventMouseUp
			}
			p.queue.Push(ev)

		case *sdl.MouseWheelEvent:
			p.queue.Push(input.Event{Type: input.EventScroll, Scroll: float32(e.Y)})
		}
	}
}
