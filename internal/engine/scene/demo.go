package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/lighting"
	"github.com/Faultbox/midgard-engine/internal/engine/material"
	"github.com/Faultbox/midgard-engine/internal/engine/mesh"
)

// Demo returns the sample content used by the client and simcheck: a ground
// plane, a ramp, instanced pillars, glass panes, a spinning beacon, falling
// crates and a ring of point lights.
func Demo() ([]Drawable, []lighting.PointLight) {
	fixed := FlagFixed | FlagCollidable

	ground := NewStaticModel("ground",
		NewSegment("floor", mesh.Quad(20, 20), material.NewSolid(mgl32.Vec3{0.35, 0.4, 0.32}), fixed),
	)

	ramp := NewStaticModel("ramp",
		NewSegment("wedge", mesh.Ramp(3, 2, 2), material.NewSolid(mgl32.Vec3{0.55, 0.45, 0.35}), fixed,
			mgl32.Translate3D(-6, 0, -4)),
	)

	var pillarTransforms []mgl32.Mat4
	for _, p := range [][2]float32{{-8, -8}, {8, -8}, {-8, 8}, {8, 8}} {
		pillarTransforms = append(pillarTransforms, mgl32.Translate3D(p[0], 2, p[1]))
	}
	pillars := NewStaticModel("pillars",
		NewSegment("column", mesh.Box(mgl32.Vec3{0.6, 2, 0.6}), material.NewSolid(mgl32.Vec3{0.7, 0.7, 0.72}), fixed,
			pillarTransforms...),
	)

	glass := NewStaticModel("glass",
		NewSegment("pane", mesh.Box(mgl32.Vec3{2, 1.5, 0.05}), material.NewGlass(mgl32.Vec3{0.4, 0.7, 0.9}, 0.35), fixed,
			mgl32.Translate3D(0, 1.5, -3),
			mgl32.Translate3D(4, 1.5, 0).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))),
		),
	)

	beacon := NewAnimatedModel("beacon", AnimatorFunc(func(t float32, rest mgl32.Mat4) mgl32.Mat4 {
		spun := Spin{Axis: mgl32.Vec3{0, 1, 0}, Rate: 1.2}.Animate(t, rest)
		return Bob{Amplitude: 0.4, Frequency: 0.25}.Animate(t, spun)
	}),
		NewSegment("core", mesh.Box(mgl32.Vec3{0.5, 0.5, 0.5}), material.NewSolid(mgl32.Vec3{0.9, 0.6, 0.2}), 0,
			mgl32.Translate3D(0, 3, 4)),
	)

	var crateTransforms []mgl32.Mat4
	for i := 0; i < 6; i++ {
		crateTransforms = append(crateTransforms, mgl32.Translate3D(float32(i%3)*1.6-1.6, 6+float32(i)*1.5, float32(i/3)*1.6))
	}
	crates := NewStaticModel("crates",
		NewSegment("crate", mesh.Box(mgl32.Vec3{0.5, 0.5, 0.5}), material.NewSolid(mgl32.Vec3{0.6, 0.42, 0.25}), 0,
			crateTransforms...),
	).WithBody(BodyDesc{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}, Mass: 1, Restitution: 0.2, Friction: 0.4})

	lights := []lighting.PointLight{
		lighting.NewPointLight(mgl32.Vec3{-6, 3, -6}, mgl32.Vec3{1, 0.5, 0.3}, 10, 2),
		lighting.NewPointLight(mgl32.Vec3{6, 3, -6}, mgl32.Vec3{0.3, 0.6, 1}, 10, 2),
		lighting.NewPointLight(mgl32.Vec3{-6, 3, 6}, mgl32.Vec3{0.4, 1, 0.4}, 10, 2),
		lighting.NewPointLight(mgl32.Vec3{6, 3, 6}, mgl32.Vec3{1, 1, 0.6}, 10, 2),
	}

	return []Drawable{ground, ramp, pillars, glass, beacon, crates}, lights
}
