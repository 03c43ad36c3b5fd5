package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/physics"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
)

// bodyLink ties one simulated instance transform to its body.
type bodyLink struct {
	segment  *scene.Segment
	instance int
	body     *physics.RigidBody
	basis    mgl32.Mat4 // Rest transform without translation
}

// spawnBodies creates a body for every instance of every drawable that
// carries a body description.
func spawnBodies(s *scene.Scene, w *physics.World) []bodyLink {
	var links []bodyLink
	for _, d := range s.Drawables() {
		if !scene.IsSimulated(d) {
			continue
		}
		desc := d.(scene.Simulated).Body()
		for _, seg := range d.Segments() {
			for i, m := range seg.Transforms {
				pos := m.Col(3).Vec3()
				b := newBody(pos, desc)
				b.Restitution = desc.Restitution
				b.Friction = desc.Friction
				b.UserData = d
				w.AddBody(b)

				basis := m
				basis.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
				links = append(links, bodyLink{segment: seg, instance: i, body: b, basis: basis})
			}
		}
	}
	return links
}

func newBody(pos mgl32.Vec3, desc *scene.BodyDesc) *physics.RigidBody {
	if desc.HalfExtents == (mgl32.Vec3{}) {
		return physics.NewPointBody(pos, desc.Mass)
	}
	return physics.NewBoxBody(pos, desc.HalfExtents, desc.Mass)
}

// syncBodies writes body positions back into instance transforms.
func syncBodies(links []bodyLink) {
	for _, l := range links {
		p := l.body.Position
		l.segment.Transforms[l.instance] = mgl32.Translate3D(p[0], p[1], p[2]).Mul4(l.basis)
	}
}
