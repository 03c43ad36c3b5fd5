// Package lighting provides the light types consumed by the lighting and
// forward passes.
package lighting

import "github.com/go-gl/mathgl/mgl32"

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 32

// PointLight is a point light source with a finite radius of influence.
type PointLight struct {
	Position    mgl32.Vec3 // World position
	Color       mgl32.Vec3 // RGB color (0-1 range)
	Radius      float32    // Distance at which the contribution reaches zero
	Attenuation float32    // Falloff exponent
}

// NewPointLight builds a light, clamping the color to 0-1 and substituting
// defaults for a non-positive radius or attenuation.
func NewPointLight(position, color mgl32.Vec3, radius, attenuation float32) PointLight {
	for i := 0; i < 3; i++ {
		color[i] = mgl32.Clamp(color[i], 0, 1)
	}
	if radius <= 0 {
		radius = 10
	}
	if attenuation <= 0 {
		attenuation = 1
	}
	return PointLight{Position: position, Color: color, Radius: radius, Attenuation: attenuation}
}

// PointLightBuffer holds lights in the flat layout used for uniform upload.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Count returns the number of lights held.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces all lights in the buffer.
// Truncates to MaxPointLights if necessary.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	count := min(len(lights), MaxPointLights)
	b.Lights = append(b.Lights, lights[:count]...)
}

// Positions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) Positions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Position[:])
	}
	return result
}

// Colors returns colors as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Colors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Color[:])
	}
	return result
}

// Radii returns radii as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Radii() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Radius
	}
	return result
}

// Attenuations returns falloff exponents as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Attenuations() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Attenuation
	}
	return result
}
