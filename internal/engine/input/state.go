package input

// State is the keyboard and pointer state derived from the events of the
// current frame.
type State struct {
	held    [keyCount]bool
	pressed [keyCount]bool
	buttons [4]bool
	mouseX  int
	mouseY  int
	deltaX  int
	deltaY  int
	scroll  float32
	quit    bool
	resized bool
	width   int
	height  int
}

// Apply folds one frame's events into the state. Edge flags (Pressed,
// pointer deltas, scroll, quit, resize) only describe this frame.
func (s *State) Apply(events []Event) {
	s.pressed = [keyCount]bool{}
	s.deltaX, s.deltaY, s.scroll = 0, 0, 0
	s.quit, s.resized = false, false

	for _, e := range events {
		switch e.Type {
		case EventQuit:
			s.quit = true
		case EventWindowResize:
			s.resized = true
			s.width, s.height = e.Width, e.Height
		case EventKeyDown:
			if e.Key > KeyUnknown && e.Key < keyCount {
				if !e.Repeat && !s.held[e.Key] {
					s.pressed[e.Key] = true
				}
				s.held[e.Key] = true
			}
		case EventKeyUp:
			if e.Key > KeyUnknown && e.Key < keyCount {
				s.held[e.Key] = false
			}
		case EventMouseMove:
			s.mouseX, s.mouseY = e.MouseX, e.MouseY
			s.deltaX += e.DeltaX
			s.deltaY += e.DeltaY
		case EventMouseDown:
			if int(e.Button) < len(s.buttons) {
				s.buttons[e.Button] = true
			}
		case EventMouseUp:
			if int(e.Button) < len(s.buttons) {
				s.buttons[e.Button] = false
			}
		case EventScroll:
			s.scroll += e.Scroll
		}
	}
}

// Held reports whether k is down.
func (s *State) Held(k Key) bool { return k > KeyUnknown && k < keyCount && s.held[k] }

// Pressed reports whether k went down this frame.
func (s *State) Pressed(k Key) bool { return k > KeyUnknown && k < keyCount && s.pressed[k] }

// ButtonHeld reports whether mouse button b is down.
func (s *State) ButtonHeld(b uint8) bool { return int(b) < len(s.buttons) && s.buttons[b] }

// Mouse returns the last pointer position.
func (s *State) Mouse() (x, y int) { return s.mouseX, s.mouseY }

// MouseDelta returns the relative pointer motion of this frame.
func (s *State) MouseDelta() (dx, dy int) { return s.deltaX, s.deltaY }

// Scroll returns the vertical scroll of this frame.
func (s *State) Scroll() float32 { return s.scroll }

// QuitRequested reports whether a quit event arrived this frame.
func (s *State) QuitRequested() bool { return s.quit }

// Resized returns the new surface size if a resize arrived this frame.
func (s *State) Resized() (width, height int, ok bool) { return s.width, s.height, s.resized }
