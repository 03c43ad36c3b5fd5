package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// StaticModel is a drawable whose transforms change only when driven by a
// physics body.
type StaticModel struct {
	name     string
	segments []*Segment
	body     *BodyDesc
}

// NewStaticModel creates a static drawable from its segments.
func NewStaticModel(name string, segments ...*Segment) *StaticModel {
	return &StaticModel{name: name, segments: segments}
}

// WithBody attaches a rigid body description; each instance becomes a
// dynamic body when the game starts.
func (m *StaticModel) WithBody(desc BodyDesc) *StaticModel {
	m.body = &desc
	return m
}

func (m *StaticModel) Name() string         { return m.name }
func (m *StaticModel) Kind() DrawableKind   { return KindStatic }
func (m *StaticModel) Segments() []*Segment { return m.segments }
func (m *StaticModel) Animated() bool       { return false }
func (m *StaticModel) Body() *BodyDesc      { return m.body }

// Animator maps elapsed time and an instance's rest transform to its
// current transform.
type Animator interface {
	Animate(t float32, rest mgl32.Mat4) mgl32.Mat4
}

// AnimatorFunc adapts a function to Animator.
type AnimatorFunc func(t float32, rest mgl32.Mat4) mgl32.Mat4

func (f AnimatorFunc) Animate(t float32, rest mgl32.Mat4) mgl32.Mat4 { return f(t, rest) }

// Spin rotates an instance about a local axis.
type Spin struct {
	Axis mgl32.Vec3
	Rate float32 // Radians per second
}

func (s Spin) Animate(t float32, rest mgl32.Mat4) mgl32.Mat4 {
	return rest.Mul4(mgl32.HomogRotate3D(s.Rate*t, s.Axis.Normalize()))
}

// Bob moves an instance up and down along world Y.
type Bob struct {
	Amplitude float32
	Frequency float32 // Hz
}

func (b Bob) Animate(t float32, rest mgl32.Mat4) mgl32.Mat4 {
	dy := b.Amplitude * math32.Sin(2*math32.Pi*b.Frequency*t)
	return mgl32.Translate3D(0, dy, 0).Mul4(rest)
}

// AnimatedModel is a drawable whose instance transforms are recomputed from
// their rest pose every update.
type AnimatedModel struct {
	name     string
	segments []*Segment
	animator Animator
	rest     [][]mgl32.Mat4
	elapsed  float32
}

// NewAnimatedModel captures the segments' current transforms as the rest
// pose.
func NewAnimatedModel(name string, animator Animator, segments ...*Segment) *AnimatedModel {
	rest := make([][]mgl32.Mat4, len(segments))
	for i, s := range segments {
		rest[i] = append([]mgl32.Mat4(nil), s.Transforms...)
	}
	return &AnimatedModel{name: name, segments: segments, animator: animator, rest: rest}
}

func (m *AnimatedModel) Name() string         { return m.name }
func (m *AnimatedModel) Kind() DrawableKind   { return KindAnimated }
func (m *AnimatedModel) Segments() []*Segment { return m.segments }
func (m *AnimatedModel) Animated() bool       { return true }

// Elapsed returns the animation clock in seconds.
func (m *AnimatedModel) Elapsed() float32 { return m.elapsed }

// Update advances the clock and rewrites every instance transform.
func (m *AnimatedModel) Update(dt float32) {
	if dt <= 0 || m.animator == nil {
		return
	}
	m.elapsed += dt
	for i, s := range m.segments {
		for j := range s.Transforms {
			s.Transforms[j] = m.animator.Animate(m.elapsed, m.rest[i][j])
		}
	}
}
