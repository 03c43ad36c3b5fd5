// Package material defines the surface descriptions attached to drawable
// segments and how each one feeds shader uniforms on either render path.
package material

import "github.com/go-gl/mathgl/mgl32"

// Kind identifies a material family. The renderer keeps one shader program
// per (kind, path) pair.
type Kind string

const (
	KindSolid Kind = "solid"
	KindGlass Kind = "glass"
)

// Uniforms is the subset of shader state a material may set. The GL backend
// implements it over the bound program.
type Uniforms interface {
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
}

// Material is a surface capability. Transparent materials are drawn only in
// the transparency pass.
type Material interface {
	Kind() Kind
	Transparent() bool
	// BindDeferred sets the uniforms read by the geometry pass program.
	BindDeferred(u Uniforms)
	// BindForward sets the uniforms read by the forward-lit program.
	BindForward(u Uniforms)
}

// Solid is an opaque lit surface.
type Solid struct {
	Albedo    mgl32.Vec3
	Specular  float32
	Shininess float32
}

// NewSolid returns a solid material with moderate specular response.
func NewSolid(albedo mgl32.Vec3) *Solid {
	return &Solid{Albedo: albedo, Specular: 0.3, Shininess: 32}
}

func (m *Solid) Kind() Kind        { return KindSolid }
func (m *Solid) Transparent() bool { return false }

func (m *Solid) BindDeferred(u Uniforms) {
	u.SetVec3("uAlbedo", m.Albedo)
	u.SetFloat("uSpecular", m.Specular)
}

func (m *Solid) BindForward(u Uniforms) {
	u.SetVec3("uAlbedo", m.Albedo)
	u.SetFloat("uSpecular", m.Specular)
	u.SetFloat("uShininess", m.Shininess)
}

// Glass is a blended, unlit-by-G-buffer surface.
type Glass struct {
	Tint    mgl32.Vec3
	Opacity float32
}

// NewGlass returns a glass material, clamping opacity to [0, 1].
func NewGlass(tint mgl32.Vec3, opacity float32) *Glass {
	return &Glass{Tint: tint, Opacity: mgl32.Clamp(opacity, 0, 1)}
}

func (m *Glass) Kind() Kind        { return KindGlass }
func (m *Glass) Transparent() bool { return true }

// BindDeferred matches BindForward; glass never enters the G-buffer but the
// method keeps the capability complete.
func (m *Glass) BindDeferred(u Uniforms) { m.BindForward(u) }

func (m *Glass) BindForward(u Uniforms) {
	u.SetVec4("uTint", m.Tint.Vec4(m.Opacity))
}
