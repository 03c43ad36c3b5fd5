// Package mesh holds indexed triangle meshes and the vertex transforms used
// when baking them into world space.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-engine/internal/engine/geom"
)

// ErrInvalidIndex is returned when a triangle references a vertex that does
// not exist.
var ErrInvalidIndex = errors.New("triangle index out of range")

// Mesh is an indexed triangle list in local space. Geometry is immutable once
// the mesh is attached to a drawable.
type Mesh struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3 // Optional, one per vertex
	Indices  [][3]uint32
}

// Validate checks that every index references an existing vertex.
func (m *Mesh) Validate() error {
	if len(m.Indices) > 0 && len(m.Vertices) == 0 {
		return fmt.Errorf("%w: %d triangles but no vertices", ErrInvalidIndex, len(m.Indices))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh has %d normals for %d vertices", len(m.Normals), len(m.Vertices))
	}
	n := uint32(len(m.Vertices))
	for i, tri := range m.Indices {
		for _, idx := range tri {
			if idx >= n {
				return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrInvalidIndex, i, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the local-space bounding box of the vertices.
func (m *Mesh) Bounds() geom.AABB {
	b := geom.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.Extend(v)
	}
	return b
}

// Triangle returns triangle i in local space.
func (m *Mesh) Triangle(i int) geom.Triangle {
	tri := m.Indices[i]
	return geom.Triangle{A: m.Vertices[tri[0]], B: m.Vertices[tri[1]], C: m.Vertices[tri[2]]}
}

// SmoothNormals recomputes per-vertex normals by averaging the face normals
// of every triangle sharing the vertex.
func (m *Mesh) SmoothNormals() {
	normals := make([]mgl32.Vec3, len(m.Vertices))
	for i := range m.Indices {
		tri := m.Indices[i]
		// Area-weighted: the unnormalised cross product
		t := m.Triangle(i)
		n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
		for _, idx := range tri {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i, n := range normals {
		if l := n.Len(); l > 0 {
			normals[i] = n.Mul(1 / l)
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	m.Normals = normals
}

// Interleave returns position and normal data packed as 6 floats per vertex
// together with a flat index list, ready for GPU upload.
func (m *Mesh) Interleave() ([]float32, []uint32) {
	if len(m.Normals) != len(m.Vertices) {
		m.SmoothNormals()
	}
	data := make([]float32, 0, len(m.Vertices)*6)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		data = append(data, v[0], v[1], v[2], n[0], n[1], n[2])
	}
	indices := make([]uint32, 0, len(m.Indices)*3)
	for _, tri := range m.Indices {
		indices = append(indices, tri[0], tri[1], tri[2])
	}
	return data, indices
}
