// Package camera provides the free-flying camera and its projection.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MoveEpsilon is the shortest movement that changes the camera.
const MoveEpsilon = 1e-6

var worldUp = mgl32.Vec3{0, 1, 0}

// FreeCamera flies freely with yaw/pitch orientation. The view matrix is
// cached and rebuilt only after a change.
type FreeCamera struct {
	position mgl32.Vec3
	pitch    float32 // Radians, clamped to ±pitchLimit
	yaw      float32 // Radians in [0, 2π); 0 looks down -Z

	pitchLimit float32

	view       mgl32.Mat4
	dirty      bool
	recomputes int
}

// NewFreeCamera creates a camera at position looking down -Z. pitchLimitDeg
// outside (0, 90) falls back to 89.
func NewFreeCamera(position mgl32.Vec3, pitchLimitDeg float32) *FreeCamera {
	if pitchLimitDeg <= 0 || pitchLimitDeg >= 90 {
		pitchLimitDeg = 89
	}
	return &FreeCamera{
		position:   position,
		pitchLimit: mgl32.DegToRad(pitchLimitDeg),
		dirty:      true,
	}
}

// Position returns the camera position in world space.
func (c *FreeCamera) Position() mgl32.Vec3 { return c.position }

// Pitch returns the pitch in radians.
func (c *FreeCamera) Pitch() float32 { return c.pitch }

// Yaw returns the yaw in radians.
func (c *FreeCamera) Yaw() float32 { return c.yaw }

// Dirty reports whether the next Update will rebuild the view matrix.
func (c *FreeCamera) Dirty() bool { return c.dirty }

// Recomputes returns how many times the view matrix has been rebuilt.
func (c *FreeCamera) Recomputes() int { return c.recomputes }

// SetPosition moves the camera to p.
func (c *FreeCamera) SetPosition(p mgl32.Vec3) {
	if p != c.position {
		c.position = p
		c.dirty = true
	}
}

// Forward returns the unit viewing direction.
func (c *FreeCamera) Forward() mgl32.Vec3 {
	cp := math32.Cos(c.pitch)
	return mgl32.Vec3{
		cp * math32.Sin(c.yaw),
		math32.Sin(c.pitch),
		-cp * math32.Cos(c.yaw),
	}
}

// Right returns the unit horizontal right vector.
func (c *FreeCamera) Right() mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(c.yaw), 0, math32.Sin(c.yaw)}
}

// Look rotates the camera by the given pitch and yaw deltas in radians.
func (c *FreeCamera) Look(dPitch, dYaw float32) {
	pitch := mgl32.Clamp(c.pitch+dPitch, -c.pitchLimit, c.pitchLimit)
	yaw := wrapAngle(c.yaw + dYaw)
	if pitch == c.pitch && yaw == c.yaw {
		return
	}
	c.pitch, c.yaw = pitch, yaw
	c.dirty = true
}

// LookAt orients the camera towards target.
func (c *FreeCamera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.position)
	l := d.Len()
	if l < MoveEpsilon {
		return
	}
	d = d.Mul(1 / l)
	pitch := mgl32.Clamp(math32.Asin(d[1]), -c.pitchLimit, c.pitchLimit)
	yaw := wrapAngle(math32.Atan2(d[0], -d[2]))
	c.Look(pitch-c.pitch, yaw-c.yaw)
}

// Move translates the camera in its local frame: x along Right, y along
// world up, z along Forward. Movements shorter than MoveEpsilon are ignored.
func (c *FreeCamera) Move(local mgl32.Vec3) {
	if local.Len() < MoveEpsilon {
		return
	}
	delta := c.Right().Mul(local[0]).
		Add(worldUp.Mul(local[1])).
		Add(c.Forward().Mul(local[2]))
	c.position = c.position.Add(delta)
	c.dirty = true
}

// Update returns the view matrix, rebuilding it only when the camera changed
// since the previous call.
func (c *FreeCamera) Update() mgl32.Mat4 {
	if c.dirty {
		c.view = mgl32.LookAtV(c.position, c.position.Add(c.Forward()), worldUp)
		c.dirty = false
		c.recomputes++
	}
	return c.view
}

func wrapAngle(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	if a >= 2*math32.Pi {
		a = 0
	}
	return a
}

// Projection describes a perspective projection.
type Projection struct {
	FOVDegrees float32
	Aspect     float32
	Near, Far  float32
}

// SetViewport updates the aspect ratio from a surface size. A zero height
// keeps the previous aspect.
func (p *Projection) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		p.Aspect = float32(width) / float32(height)
	}
}

// Matrix returns the projection matrix.
func (p Projection) Matrix() mgl32.Mat4 {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(p.FOVDegrees), aspect, p.Near, p.Far)
}
