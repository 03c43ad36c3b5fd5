// Package renderer schedules the passes of a frame over a sealed scene. The
// opaque path is either deferred (geometry then lighting) or forward; the
// transparency and overlay passes always follow.
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/engine/scene"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

// FrameStats summarises one frame.
type FrameStats struct {
	Mode        Mode
	Passes      []Pass
	DrawCalls   int
	Opaque      int
	Transparent int
}

// Pipeline owns the pass order and the current mode.
type Pipeline struct {
	backend   Backend
	overlay   Overlay
	presenter Presenter
	mode      Mode
	clear     mgl32.Vec4
	log       *zap.Logger

	fc         FrameContext
	beforeSwap []func()
}

// NewPipeline creates a pipeline. overlay and presenter may be nil.
func NewPipeline(backend Backend, overlay Overlay, presenter Presenter, mode Mode) *Pipeline {
	return &Pipeline{
		backend:   backend,
		overlay:   overlay,
		presenter: presenter,
		mode:      mode,
		clear:     mgl32.Vec4{0.1, 0.1, 0.15, 1},
		log:       logger.Named("renderer"),
	}
}

// Mode returns the active mode.
func (p *Pipeline) Mode() Mode { return p.mode }

// SetMode switches the opaque path from the next frame on.
func (p *Pipeline) SetMode(m Mode) {
	if m != p.mode {
		p.mode = m
		p.log.Info("render mode changed", zap.Stringer("mode", m))
	}
}

// ToggleMode flips between deferred and forward and returns the new mode.
func (p *Pipeline) ToggleMode() Mode {
	if p.mode == ModeDeferred {
		p.SetMode(ModeForward)
	} else {
		p.SetMode(ModeDeferred)
	}
	return p.mode
}

// SetClearColor sets the background color.
func (p *Pipeline) SetClearColor(c mgl32.Vec4) { p.clear = c }

// BeforePresent queues fn to run once, after the overlay pass of the next
// frame and before presentation, while the finished frame is still in the
// back buffer.
func (p *Pipeline) BeforePresent(fn func()) {
	p.beforeSwap = append(p.beforeSwap, fn)
}

// Resize forwards a surface size change to the backend.
func (p *Pipeline) Resize(width, height int) {
	p.backend.Resize(width, height)
}

// Frame renders s from the camera described by view and proj.
func (p *Pipeline) Frame(s *scene.Scene, view, proj mgl32.Mat4, eye mgl32.Vec3) FrameStats {
	p.fc = FrameContext{
		View:       view,
		Proj:       proj,
		ViewProj:   proj.Mul4(view),
		CameraPos:  eye,
		Sun:        s.Sun(),
		Lights:     s.Lights(),
		ClearColor: p.clear,
	}
	stats := FrameStats{Mode: p.mode}

	p.backend.BeginFrame(&p.fc)

	if p.mode == ModeDeferred {
		stats.Opaque = p.drawPass(s, PassGeometry, false, &stats)

		p.backend.BeginPass(PassLighting)
		p.backend.ResolveLighting()
		p.backend.EndPass()
		stats.Passes = append(stats.Passes, PassLighting)
	} else {
		stats.Opaque = p.drawPass(s, PassOpaque, false, &stats)
	}

	stats.Transparent = p.drawPass(s, PassTransparent, true, &stats)

	p.backend.BeginPass(PassOverlay)
	if p.overlay != nil {
		p.overlay.Draw(&p.fc)
	}
	p.backend.EndPass()
	stats.Passes = append(stats.Passes, PassOverlay)

	for _, fn := range p.beforeSwap {
		fn()
	}
	p.beforeSwap = p.beforeSwap[:0]

	if p.presenter != nil {
		p.presenter.Present()
	}
	return stats
}

// drawPass draws every instance of the segments whose transparency matches,
// in registry order, and returns the instance count.
func (p *Pipeline) drawPass(s *scene.Scene, pass Pass, transparent bool, stats *FrameStats) int {
	drawn := 0
	p.backend.BeginPass(pass)
	s.ForEachSegment(func(_ scene.Drawable, seg *scene.Segment) {
		if seg.Transparent() != transparent {
			return
		}
		for _, m := range seg.Transforms {
			p.backend.Draw(seg, m)
			drawn++
		}
	})
	p.backend.EndPass()
	stats.Passes = append(stats.Passes, pass)
	stats.DrawCalls += drawn
	return drawn
}
