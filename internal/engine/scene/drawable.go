package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/material"
	"github.com/Faultbox/midgard-engine/internal/engine/mesh"
)

// Flags mark how a segment takes part in simulation.
type Flags uint8

const (
	// FlagFixed marks geometry that never moves after Start.
	FlagFixed Flags = 1 << iota
	// FlagCollidable marks geometry that bodies collide against.
	FlagCollidable
)

// Has reports whether every bit in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Segment is one mesh of a drawable with its material and the list of world
// transforms it is instanced at.
type Segment struct {
	Name       string
	Mesh       *mesh.Mesh
	Material   material.Material
	Flags      Flags
	Transforms []mgl32.Mat4
}

// NewSegment creates a segment drawn once at transform.
func NewSegment(name string, m *mesh.Mesh, mat material.Material, flags Flags, transforms ...mgl32.Mat4) *Segment {
	if len(transforms) == 0 {
		transforms = []mgl32.Mat4{mgl32.Ident4()}
	}
	return &Segment{Name: name, Mesh: m, Material: mat, Flags: flags, Transforms: transforms}
}

// StaticCollider reports whether the segment contributes to the collision
// buffer.
func (s *Segment) StaticCollider() bool {
	return s.Flags.Has(FlagFixed | FlagCollidable)
}

// Transparent reports whether the segment belongs to the transparency pass.
func (s *Segment) Transparent() bool {
	return s.Material != nil && s.Material.Transparent()
}

// DrawableKind tags the concrete drawable variant.
type DrawableKind int

const (
	KindStatic DrawableKind = iota
	KindAnimated
)

func (k DrawableKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindAnimated:
		return "animated"
	default:
		return "unknown"
	}
}

// Drawable is anything the pipeline can draw.
type Drawable interface {
	Name() string
	Kind() DrawableKind
	Segments() []*Segment
	// Animated drawables rewrite their transforms every frame and are never
	// part of the static collision mesh.
	Animated() bool
}

// Updater is implemented by drawables that change during the update phase.
type Updater interface {
	Update(dt float32)
}

// Simulated is implemented by drawables that want a dynamic rigid body per
// instance.
type Simulated interface {
	Body() *BodyDesc
}

// IsSimulated reports whether d carries a body description. Its transforms
// are rewritten by the physics world every frame.
func IsSimulated(d Drawable) bool {
	sim, ok := d.(Simulated)
	return ok && sim.Body() != nil
}

// BodyDesc describes the rigid body created for each instance of a simulated
// drawable. A zero HalfExtents means a point body.
type BodyDesc struct {
	HalfExtents mgl32.Vec3
	Mass        float32
	Restitution float32
	Friction    float32
}
