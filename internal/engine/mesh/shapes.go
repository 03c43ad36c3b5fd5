package mesh

import "github.com/go-gl/mathgl/mgl32"

// Quad returns a two-triangle rectangle on the XZ plane at y=0, facing +Y.
func Quad(halfX, halfZ float32) *Mesh {
	up := mgl32.Vec3{0, 1, 0}
	return &Mesh{
		Vertices: []mgl32.Vec3{
			{-halfX, 0, -halfZ},
			{-halfX, 0, halfZ},
			{halfX, 0, halfZ},
			{halfX, 0, -halfZ},
		},
		Normals: []mgl32.Vec3{up, up, up, up},
		Indices: [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	}
}

// Box returns an axis-aligned box centred on the origin with flat-shaded
// faces (4 vertices per face).
func Box(half mgl32.Vec3) *Mesh {
	faces := []struct {
		normal mgl32.Vec3
		u, v   mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}

	m := &Mesh{}
	scale := func(p mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{p[0] * half[0], p[1] * half[1], p[2] * half[2]}
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		corners := []mgl32.Vec3{
			f.normal.Sub(f.u).Sub(f.v),
			f.normal.Add(f.u).Sub(f.v),
			f.normal.Add(f.u).Add(f.v),
			f.normal.Sub(f.u).Add(f.v),
		}
		for _, c := range corners {
			m.Vertices = append(m.Vertices, scale(c))
			m.Normals = append(m.Normals, f.normal)
		}
		m.Indices = append(m.Indices,
			[3]uint32{base, base + 1, base + 2},
			[3]uint32{base, base + 2, base + 3},
		)
	}
	return m
}

// Ramp returns a wedge whose sloped face rises along +X from y=0 to
// y=height. The base and the two sides are closed; the back is open.
func Ramp(halfX, halfZ, height float32) *Mesh {
	m := &Mesh{
		Vertices: []mgl32.Vec3{
			{-halfX, 0, -halfZ},
			{-halfX, 0, halfZ},
			{halfX, height, halfZ},
			{halfX, height, -halfZ},
			{halfX, 0, halfZ},
			{halfX, 0, -halfZ},
		},
		Indices: [][3]uint32{
			{0, 1, 2}, {0, 2, 3}, // slope
			{0, 5, 4}, {0, 4, 1}, // base
			{1, 4, 2}, // +Z side
			{0, 3, 5}, // -Z side
		},
	}
	m.SmoothNormals()
	return m
}
