package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/lighting"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
)

// FrameContext carries the per-frame values shared by every pass. ViewProj
// is computed once per frame.
type FrameContext struct {
	View       mgl32.Mat4
	Proj       mgl32.Mat4
	ViewProj   mgl32.Mat4
	CameraPos  mgl32.Vec3
	Sun        lighting.Sun
	Lights     []lighting.PointLight
	ClearColor mgl32.Vec4
}

// Backend executes passes on a graphics API.
type Backend interface {
	// BeginFrame clears the targets and latches the frame context.
	BeginFrame(fc *FrameContext)
	BeginPass(p Pass)
	// Draw renders one instance of seg. Calling it outside a begun pass
	// panics.
	Draw(seg *scene.Segment, model mgl32.Mat4)
	// ResolveLighting shades the G-buffer; valid only inside PassLighting.
	ResolveLighting()
	EndPass()
	Resize(width, height int)
	Close()
}

// Overlay draws the immediate-mode UI on top of the frame.
type Overlay interface {
	Draw(fc *FrameContext)
}

// Presenter shows the finished frame.
type Presenter interface {
	Present()
}

// PassGuard tracks the active pass for a backend and panics on calls made
// in the wrong state.
type PassGuard struct {
	active Pass
	open   bool
}

// Begin opens p.
func (g *PassGuard) Begin(p Pass) {
	if g.open {
		panic(fmt.Sprintf("renderer: BeginPass(%s) while %s is active", p, g.active))
	}
	g.active, g.open = p, true
}

// End closes the active pass and returns it.
func (g *PassGuard) End() Pass {
	if !g.open {
		panic("renderer: EndPass without an active pass")
	}
	g.open = false
	return g.active
}

// Require returns the active pass, panicking if none is open.
func (g *PassGuard) Require(op string) Pass {
	if !g.open {
		panic(fmt.Sprintf("renderer: %s outside a pass", op))
	}
	return g.active
}

// RequirePass panics unless p is the active pass.
func (g *PassGuard) RequirePass(op string, p Pass) {
	if active := g.Require(op); active != p {
		panic(fmt.Sprintf("renderer: %s during %s, want %s", op, active, p))
	}
}

// Active returns the open pass, if any.
func (g *PassGuard) Active() (Pass, bool) {
	return g.active, g.open
}
