package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sun is the directional key light plus ambient term applied in both paths.
type Sun struct {
	Direction mgl32.Vec3 // Points towards the sun
	Color     mgl32.Vec3
	Ambient   mgl32.Vec3
}

// DefaultSun returns a warm light from high in the south-west.
func DefaultSun() Sun {
	return Sun{
		Direction: SunDirection(225, 50),
		Color:     mgl32.Vec3{0.9, 0.85, 0.75},
		Ambient:   mgl32.Vec3{0.18, 0.18, 0.22},
	}
}

// SunDirection converts longitude/latitude angles in degrees to a light
// direction. Longitude rotates around Y, latitude is elevation from the horizon.
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := mgl32.DegToRad(longitude)
	lat := mgl32.DegToRad(latitude)

	return mgl32.Vec3{
		math32.Cos(lat) * math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat) * math32.Cos(lon),
	}
}
