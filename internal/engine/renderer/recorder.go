package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/scene"
)

// Call is one recorded backend operation.
type Call struct {
	Op       string // begin_frame, begin_pass, draw, resolve, end_pass, resize
	Pass     Pass
	Segment  *scene.Segment
	Model    mgl32.Mat4
	ViewProj mgl32.Mat4
	State    PassState
}

// Recorder is a Backend that records calls instead of drawing. It enforces
// the same pass rules as a GPU backend and is used for headless runs.
type Recorder struct {
	PassGuard
	Calls  []Call
	Width  int
	Height int
	Closed bool

	fc *FrameContext
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BeginFrame(fc *FrameContext) {
	r.fc = fc
	r.Calls = append(r.Calls, Call{Op: "begin_frame", ViewProj: fc.ViewProj})
}

func (r *Recorder) BeginPass(p Pass) {
	r.Begin(p)
	r.Calls = append(r.Calls, Call{Op: "begin_pass", Pass: p, State: p.State()})
}

func (r *Recorder) Draw(seg *scene.Segment, model mgl32.Mat4) {
	p := r.Require("Draw")
	r.Calls = append(r.Calls, Call{Op: "draw", Pass: p, Segment: seg, Model: model, ViewProj: r.fc.ViewProj})
}

func (r *Recorder) ResolveLighting() {
	r.RequirePass("ResolveLighting", PassLighting)
	r.Calls = append(r.Calls, Call{Op: "resolve", Pass: PassLighting})
}

func (r *Recorder) EndPass() {
	p := r.End()
	r.Calls = append(r.Calls, Call{Op: "end_pass", Pass: p})
}

func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
	r.Calls = append(r.Calls, Call{Op: "resize"})
}

func (r *Recorder) Close() { r.Closed = true }

// Reset drops recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Passes returns the passes begun, in order.
func (r *Recorder) Passes() []Pass {
	var out []Pass
	for _, c := range r.Calls {
		if c.Op == "begin_pass" {
			out = append(out, c.Pass)
		}
	}
	return out
}

// Draws returns the draw calls made during p.
func (r *Recorder) Draws(p Pass) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == "draw" && c.Pass == p {
			out = append(out, c)
		}
	}
	return out
}
