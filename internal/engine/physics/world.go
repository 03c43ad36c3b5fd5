// Package physics is a small discrete-time rigid-body stepper. Bodies
// collide against a static octree and against each other.
package physics

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/engine/geom"
	"github.com/Faultbox/midgard-engine/internal/engine/spatial"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

// Config holds the world parameters.
type Config struct {
	Gravity     mgl32.Vec3
	MaxSubstep  float32 // Longest single integration step when substepping
	MaxSubsteps int     // Cap on substeps per Step call
	MaxSpeed    float32 // Speed clamp, 0 disables
	ContactSlop float32 // Separation kept from static surfaces
}

// DefaultConfig returns Y-down gravity and a 120 Hz substep.
func DefaultConfig() Config {
	return Config{
		Gravity:     mgl32.Vec3{0, -9.8, 0},
		MaxSubstep:  1.0 / 120.0,
		MaxSubsteps: 16,
		MaxSpeed:    200,
		ContactSlop: 1e-3,
	}
}

// World owns the bodies and a read-only static collision index.
type World struct {
	cfg    Config
	static *spatial.Octree
	bodies []*RigidBody
	log    *zap.Logger

	contacts  int
	substeps  int
	scratch   []int
	candidate []int
}

// NewWorld creates a world. static may be nil for a world without fixed
// geometry.
func NewWorld(cfg Config, static *spatial.Octree) *World {
	d := DefaultConfig()
	if cfg.MaxSubstep <= 0 {
		cfg.MaxSubstep = d.MaxSubstep
	}
	if cfg.MaxSubsteps < 1 {
		cfg.MaxSubsteps = d.MaxSubsteps
	}
	if cfg.ContactSlop <= 0 {
		cfg.ContactSlop = d.ContactSlop
	}
	return &World{cfg: cfg, static: static, log: logger.Named("physics")}
}

// AddBody registers a body.
func (w *World) AddBody(b *RigidBody) {
	w.bodies = append(w.bodies, b)
}

// RemoveBody unregisters a body. Unknown bodies are ignored.
func (w *World) RemoveBody(b *RigidBody) {
	if i := slices.Index(w.bodies, b); i >= 0 {
		w.bodies = slices.Delete(w.bodies, i, i+1)
	}
}

// Bodies returns the registered bodies.
func (w *World) Bodies() []*RigidBody { return w.bodies }

// SetGravity replaces the gravity vector.
func (w *World) SetGravity(g mgl32.Vec3) { w.cfg.Gravity = g }

// Gravity returns the gravity vector.
func (w *World) Gravity() mgl32.Vec3 { return w.cfg.Gravity }

// Contacts returns the number of contacts resolved during the last Step.
func (w *World) Contacts() int { return w.contacts }

// Substeps returns the number of integrations performed by the last Step.
func (w *World) Substeps() int { return w.substeps }

// Step advances the simulation by dt seconds. A non-positive or non-finite dt
// is ignored. With substep set, dt is split into equal steps no longer than
// MaxSubstep, at most MaxSubsteps of them.
func (w *World) Step(dt float32, substep bool) {
	if !(dt > 0) || math32.IsInf(dt, 0) {
		return
	}
	w.contacts = 0

	n := 1
	if substep {
		n = int(math32.Ceil(dt / w.cfg.MaxSubstep))
		n = max(1, min(n, w.cfg.MaxSubsteps))
	}
	w.substeps = n

	h := dt / float32(n)
	for i := 0; i < n; i++ {
		w.integrate(h)
	}
}

func (w *World) integrate(h float32) {
	for _, b := range w.bodies {
		if b.Static || b.frozen {
			continue
		}
		prev := b.Position

		b.Velocity = b.Velocity.Add(w.cfg.Gravity.Mul(h))
		if w.cfg.MaxSpeed > 0 {
			if s := b.Velocity.Len(); s > w.cfg.MaxSpeed {
				b.Velocity = b.Velocity.Mul(w.cfg.MaxSpeed / s)
			}
		}
		b.Position = b.Position.Add(b.Velocity.Mul(h))

		if !geom.Finite(b.Position) || !geom.Finite(b.Velocity) {
			b.Position = prev
			b.Velocity = mgl32.Vec3{}
			b.frozen = true
			w.log.Warn("body state went non-finite, freezing", zap.Any("position", prev))
			continue
		}

		if w.static != nil {
			w.collideStatic(b, prev)
		}
	}
	w.collideBodies()
}

// collideStatic keeps b out of the static geometry: a swept ray from the
// previous position catches fast movers, then an inscribed sphere is pushed
// out of every overlapping triangle.
func (w *World) collideStatic(b *RigidBody, prev mgl32.Vec3) {
	r := b.Radius()

	move := b.Position.Sub(prev)
	if dist := move.Len(); dist > 0 && dist >= r {
		ray := geom.NewRay(prev, move)
		if hit, ok := w.static.Raycast(ray, dist+w.cfg.ContactSlop); ok {
			back := math32.Max(hit.Distance-r-w.cfg.ContactSlop, 0)
			b.Position = prev.Add(ray.Direction.Mul(back))
			w.bounce(b, hit.Normal)
		}
	}

	if r <= 0 {
		return
	}
	w.candidate = w.candidate[:0]
	w.static.QueryAABB(geom.AABBFromCenter(b.Position, mgl32.Vec3{r, r, r}), func(tri int) bool {
		w.candidate = append(w.candidate, tri)
		return true
	})
	for _, i := range w.candidate {
		tri := w.static.Triangle(i)
		closest := tri.ClosestPoint(b.Position)
		delta := b.Position.Sub(closest)
		d := delta.Len()
		if d >= r {
			continue
		}
		var n mgl32.Vec3
		if d > 1e-6 {
			n = delta.Mul(1 / d)
		} else {
			n = tri.Normal()
			if n.Dot(b.Velocity) > 0 {
				n = n.Mul(-1)
			}
		}
		b.Position = b.Position.Add(n.Mul(r - d))
		w.bounce(b, n)
	}
}

// bounce removes the velocity component into n, reflecting it by the
// restitution, and damps the tangential part by friction.
func (w *World) bounce(b *RigidBody, n mgl32.Vec3) {
	w.contacts++
	vn := b.Velocity.Dot(n)
	if vn >= 0 {
		return
	}
	normal := n.Mul(vn)
	tangent := b.Velocity.Sub(normal)
	tangent = tangent.Mul(math32.Max(0, 1-b.Friction))
	b.Velocity = tangent.Sub(normal.Mul(b.Restitution))
}

// collideBodies runs sweep-and-prune on the X axis, then resolves AABB
// overlaps along the axis of least penetration.
func (w *World) collideBodies() {
	w.scratch = w.scratch[:0]
	for i, b := range w.bodies {
		if b.Shape == ShapeBox && !b.frozen {
			w.scratch = append(w.scratch, i)
		}
	}
	slices.SortFunc(w.scratch, func(a, b int) int {
		return cmpFloat(w.bodies[a].AABB().Min[0], w.bodies[b].AABB().Min[0])
	})

	for i, ai := range w.scratch {
		a := w.bodies[ai]
		boxA := a.AABB()
		for _, bi := range w.scratch[i+1:] {
			b := w.bodies[bi]
			boxB := b.AABB()
			if boxB.Min[0] > boxA.Max[0] {
				break
			}
			if a.InvMass()+b.InvMass() == 0 || !boxA.Overlaps(boxB) {
				continue
			}
			w.resolvePair(a, b, boxA, boxB)
			boxA = a.AABB()
		}
	}
}

func (w *World) resolvePair(a, b *RigidBody, boxA, boxB geom.AABB) {
	axis := -1
	pen := float32(math32.MaxFloat32)
	for k := 0; k < 3; k++ {
		p := math32.Min(boxA.Max[k]-boxB.Min[k], boxB.Max[k]-boxA.Min[k])
		if p < pen {
			pen, axis = p, k
		}
	}
	if pen <= 0 {
		return
	}

	var n mgl32.Vec3
	if b.Position[axis] >= a.Position[axis] {
		n[axis] = 1
	} else {
		n[axis] = -1
	}

	ia, ib := a.InvMass(), b.InvMass()
	total := ia + ib
	a.Position = a.Position.Sub(n.Mul(pen * ia / total))
	b.Position = b.Position.Add(n.Mul(pen * ib / total))

	vn := b.Velocity.Sub(a.Velocity).Dot(n)
	if vn < 0 {
		e := math32.Min(a.Restitution, b.Restitution)
		j := -(1 + e) * vn / total
		a.Velocity = a.Velocity.Sub(n.Mul(j * ia))
		b.Velocity = b.Velocity.Add(n.Mul(j * ib))
	}
	w.contacts++
}

func cmpFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
