package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/geom"
)

// Shape selects the collision proxy of a body.
type Shape int

const (
	// ShapePoint collides only through the swept-ray test.
	ShapePoint Shape = iota
	// ShapeBox is an axis-aligned box against other bodies and an inscribed
	// sphere against static geometry.
	ShapeBox
)

// RigidBody is a simulated body. Fields may be set before the body is added;
// afterwards only the world mutates them.
type RigidBody struct {
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Mass        float32
	Shape       Shape
	HalfExtents mgl32.Vec3
	Restitution float32
	Friction    float32
	Static      bool

	// UserData is carried untouched for the owner.
	UserData any

	frozen bool
}

// NewPointBody creates a dynamic point body.
func NewPointBody(pos mgl32.Vec3, mass float32) *RigidBody {
	return &RigidBody{Position: pos, Mass: mass, Shape: ShapePoint}
}

// NewBoxBody creates a dynamic box body.
func NewBoxBody(pos, half mgl32.Vec3, mass float32) *RigidBody {
	return &RigidBody{Position: pos, Mass: mass, Shape: ShapeBox, HalfExtents: half}
}

// InvMass returns the inverse mass, zero for static or massless bodies.
func (b *RigidBody) InvMass() float32 {
	if b.Static || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// Frozen reports whether the body was stopped after its state went
// non-finite.
func (b *RigidBody) Frozen() bool {
	return b.frozen
}

// Radius is the inscribed sphere radius used against static geometry.
func (b *RigidBody) Radius() float32 {
	if b.Shape != ShapeBox {
		return 0
	}
	return math32.Min(b.HalfExtents[0], math32.Min(b.HalfExtents[1], b.HalfExtents[2]))
}

// AABB returns the world-space bounds of the body.
func (b *RigidBody) AABB() geom.AABB {
	if b.Shape != ShapeBox {
		return geom.AABB{Min: b.Position, Max: b.Position}
	}
	return geom.AABBFromCenter(b.Position, b.HalfExtents)
}
