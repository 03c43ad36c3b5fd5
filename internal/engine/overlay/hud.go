// Package overlay lays out the heads-up display drawn in the overlay pass.
// Layout is pure Go; gloverlay uploads the resulting draw list.
package overlay

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/input"
	"github.com/Faultbox/midgard-engine/internal/engine/renderer"
)

const (
	titleBarH = 18
	padding   = 6
	lineGap   = 2
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Stats is what the HUD shows each frame.
type Stats struct {
	FPS       float64
	FrameTime time.Duration
	Mode      string
	Bodies    int
	Contacts  int
	Substeps  int
	DrawCalls int
	Camera    mgl32.Vec3
	// Pointer is the world point under the cursor when PointerHit is set.
	Pointer    mgl32.Vec3
	PointerHit bool
}

// HUD is a draggable stats panel.
type HUD struct {
	list    *DrawList
	stats   Stats
	scale   float32
	visible bool

	panel    Rect
	screenW  float32
	screenH  float32
	dragging bool
	hovered  bool
}

// NewHUD creates a visible HUD in the top-left corner.
func NewHUD(atlas *Atlas, width, height int) *HUD {
	h := &HUD{
		list:    NewDrawList(atlas),
		scale:   1,
		visible: true,
		panel:   Rect{X: 10, Y: 10, W: 220},
	}
	h.Resize(width, height)
	return h
}

// SetVisible shows or hides the HUD.
func (h *HUD) SetVisible(v bool) {
	h.visible = v
	if !v {
		h.dragging, h.hovered = false, false
	}
}

// Visible reports whether the HUD is drawn.
func (h *HUD) Visible() bool { return h.visible }

// Toggle flips visibility and returns the new state.
func (h *HUD) Toggle() bool {
	h.SetVisible(!h.visible)
	return h.visible
}

// SetStats replaces the values shown.
func (h *HUD) SetStats(s Stats) { h.stats = s }

// Resize updates the logical screen size and keeps the panel on screen.
func (h *HUD) Resize(width, height int) {
	h.screenW, h.screenH = float32(width), float32(height)
	h.panel.H = h.contentHeight()
	h.clamp()
}

// Size returns the logical screen size.
func (h *HUD) Size() (int, int) { return int(h.screenW), int(h.screenH) }

// Panel returns the panel rectangle.
func (h *HUD) Panel() Rect { return h.panel }

// List returns the draw list built by the last Draw.
func (h *HUD) List() *DrawList { return h.list }

// Hovered reports whether the pointer is over the panel.
func (h *HUD) Hovered() bool { return h.hovered }

// HandleEvent consumes pointer events aimed at the panel. It returns true
// when the event should not reach the camera.
func (h *HUD) HandleEvent(ev input.Event) bool {
	if !h.visible {
		return false
	}
	x, y := float32(ev.MouseX), float32(ev.MouseY)

	switch ev.Type {
	case input.EventMouseMove:
		h.hovered = h.panel.Contains(x, y)
		if h.dragging {
			h.panel.X += float32(ev.DeltaX)
			h.panel.Y += float32(ev.DeltaY)
			h.clamp()
			return true
		}
		return false
	case input.EventMouseDown:
		if !h.panel.Contains(x, y) {
			return false
		}
		title := Rect{h.panel.X, h.panel.Y, h.panel.W, titleBarH}
		if ev.Button == input.ButtonLeft && title.Contains(x, y) {
			h.dragging = true
		}
		return true
	case input.EventMouseUp:
		if h.dragging && ev.Button == input.ButtonLeft {
			h.dragging = false
			return true
		}
		return h.panel.Contains(x, y)
	case input.EventScroll:
		return h.hovered
	}
	return false
}

// Lines returns the text rows of the panel body.
func (h *HUD) Lines() []string {
	s := h.stats
	return []string{
		fmt.Sprintf("FPS     %6.1f", s.FPS),
		fmt.Sprintf("Frame   %6.2f ms", float64(s.FrameTime.Microseconds())/1000),
		fmt.Sprintf("Mode    %s", s.Mode),
		fmt.Sprintf("Draws   %d", s.DrawCalls),
		fmt.Sprintf("Bodies  %d", s.Bodies),
		fmt.Sprintf("Contact %d", s.Contacts),
		fmt.Sprintf("Substep %d", s.Substeps),
		fmt.Sprintf("Cam %.1f %.1f %.1f", s.Camera[0], s.Camera[1], s.Camera[2]),
		pointerLine(s),
	}
}

func pointerLine(s Stats) string {
	if !s.PointerHit {
		return "Ptr -"
	}
	return fmt.Sprintf("Ptr %.1f %.1f %.1f", s.Pointer[0], s.Pointer[1], s.Pointer[2])
}

// Draw rebuilds the draw list. It satisfies renderer.Overlay so the HUD can
// run without a GPU; the GL overlay wraps it to upload the list.
func (h *HUD) Draw(*renderer.FrameContext) {
	h.list.Reset()
	if !h.visible {
		return
	}

	lines := h.Lines()
	_, lineH := h.list.Atlas().MeasureText("M", h.scale)
	h.panel.H = h.contentHeight()

	p := h.panel
	h.list.Panel(p.X, p.Y, p.W, p.H, ColorPanelBg, ColorPanelBorder)
	titleBg := ColorPanelBorder
	if h.dragging {
		titleBg = ColorHighlight
	}
	h.list.Rect(p.X+1, p.Y+1, p.W-2, titleBarH-1, titleBg.WithAlpha(0.8))
	h.list.Text(p.X+padding, p.Y+(titleBarH-lineH)/2, "midgard-engine", h.scale, ColorWhite)

	y := p.Y + titleBarH + padding
	for i, line := range lines {
		c := ColorText
		if i == 0 && h.stats.FPS > 0 && h.stats.FPS < 30 {
			c = ColorWarn
		}
		h.list.Text(p.X+padding, y, line, h.scale, c)
		y += lineH + lineGap
	}
}

func (h *HUD) contentHeight() float32 {
	_, lineH := h.list.Atlas().MeasureText("M", h.scale)
	n := float32(len(h.Lines()))
	return titleBarH + 2*padding + n*(lineH+lineGap)
}

func (h *HUD) clamp() {
	h.panel.X = mgl32.Clamp(h.panel.X, 0, max(h.screenW-h.panel.W, 0))
	h.panel.Y = mgl32.Clamp(h.panel.Y, 0, max(h.screenH-h.panel.H, 0))
}
