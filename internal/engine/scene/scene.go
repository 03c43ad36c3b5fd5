// Package scene holds the drawable and light registries. A Builder collects
// content before the game starts; Seal turns it into an immutable Scene.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-engine/internal/engine/lighting"
)

var (
	// ErrSealed is returned when content is added after the scene was sealed.
	ErrSealed = errors.New("scene: registry is sealed")
	// ErrTooManyLights is returned when the light registry is full.
	ErrTooManyLights = errors.New("scene: too many point lights")
	// ErrInvalidDrawable is returned for nil or malformed drawables.
	ErrInvalidDrawable = errors.New("scene: invalid drawable")
)

// Builder is the mutable, pre-start registry.
type Builder struct {
	drawables []Drawable
	lights    []lighting.PointLight
	sun       lighting.Sun
	sealed    *Scene
}

// NewBuilder returns an empty builder lit by the default sun.
func NewBuilder() *Builder {
	return &Builder{sun: lighting.DefaultSun()}
}

// AddDrawable registers d. Registry order is the draw order of every pass.
func (b *Builder) AddDrawable(d Drawable) error {
	if b.sealed != nil {
		return ErrSealed
	}
	if d == nil {
		return fmt.Errorf("%w: nil", ErrInvalidDrawable)
	}
	for i, s := range d.Segments() {
		if s == nil || s.Mesh == nil || s.Material == nil {
			return fmt.Errorf("%w: %s segment %d has no mesh or material", ErrInvalidDrawable, d.Name(), i)
		}
		if s.StaticCollider() && IsSimulated(d) {
			return fmt.Errorf("%w: %s segment %s is fixed and collidable but the drawable has a body", ErrInvalidDrawable, d.Name(), s.Name)
		}
	}
	b.drawables = append(b.drawables, d)
	return nil
}

// AddLight registers a point light.
func (b *Builder) AddLight(l lighting.PointLight) error {
	if b.sealed != nil {
		return ErrSealed
	}
	if len(b.lights) >= lighting.MaxPointLights {
		return fmt.Errorf("%w: limit %d", ErrTooManyLights, lighting.MaxPointLights)
	}
	b.lights = append(b.lights, l)
	return nil
}

// SetSun replaces the directional light.
func (b *Builder) SetSun(s lighting.Sun) error {
	if b.sealed != nil {
		return ErrSealed
	}
	b.sun = s
	return nil
}

// Sealed reports whether Seal has been called.
func (b *Builder) Sealed() bool {
	return b.sealed != nil
}

// Seal freezes the registries. Later calls return the same Scene.
func (b *Builder) Seal() *Scene {
	if b.sealed == nil {
		b.sealed = &Scene{
			drawables: b.drawables,
			lights:    b.lights,
			sun:       b.sun,
		}
	}
	return b.sealed
}

// Scene is the sealed registry read by the collision builder, the update
// phase and the render pipeline.
type Scene struct {
	drawables []Drawable
	lights    []lighting.PointLight
	sun       lighting.Sun
}

// Drawables returns the drawables in registration order.
func (s *Scene) Drawables() []Drawable { return s.drawables }

// Lights returns the point lights in registration order.
func (s *Scene) Lights() []lighting.PointLight { return s.lights }

// Sun returns the directional light.
func (s *Scene) Sun() lighting.Sun { return s.sun }

// Update advances every drawable implementing Updater.
func (s *Scene) Update(dt float32) {
	for _, d := range s.drawables {
		if u, ok := d.(Updater); ok {
			u.Update(dt)
		}
	}
}

// ForEachSegment visits segments in registry order.
func (s *Scene) ForEachSegment(fn func(d Drawable, seg *Segment)) {
	for _, d := range s.drawables {
		for _, seg := range d.Segments() {
			fn(d, seg)
		}
	}
}

// Stats counts registry content.
type Stats struct {
	Drawables   int
	Segments    int
	Instances   int
	Transparent int
	Lights      int
}

// Stats returns content counts.
func (s *Scene) Stats() Stats {
	st := Stats{Drawables: len(s.drawables), Lights: len(s.lights)}
	s.ForEachSegment(func(_ Drawable, seg *Segment) {
		st.Segments++
		st.Instances += len(seg.Transforms)
		if seg.Transparent() {
			st.Transparent++
		}
	})
	return st
}
