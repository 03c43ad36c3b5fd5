// Package collision bakes the fixed, collidable geometry of the scene into a
// single world-space triangle buffer.
package collision

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/engine/mesh"
	"github.com/Faultbox/midgard-engine/internal/engine/scene"
	"github.com/Faultbox/midgard-engine/internal/engine/spatial"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

// ErrInvalidMesh is returned when a contributing segment has a broken mesh.
var ErrInvalidMesh = errors.New("collision: invalid mesh")

// Source records which drawable instance produced a range of the buffer.
type Source struct {
	Drawable      string
	Segment       string
	Instance      int
	FirstVertex   int
	VertexCount   int
	FirstTriangle int
	TriangleCount int
}

// Buffer is the global collision geometry. It is read-only once built.
type Buffer struct {
	Vertices  []mgl32.Vec3
	Triangles [][3]uint32
	Sources   []Source
}

// Empty reports whether no geometry contributed.
func (b *Buffer) Empty() bool {
	return len(b.Triangles) == 0
}

// Octree builds the spatial index over the buffer.
func (b *Buffer) Octree(opts spatial.Options) (*spatial.Octree, error) {
	return spatial.Build(b.Vertices, b.Triangles, opts)
}

// BuildFromScene collects geometry from a sealed scene.
func BuildFromScene(ctx context.Context, s *scene.Scene) (*Buffer, error) {
	return Build(ctx, s.Drawables())
}

// Build appends, for every drawable that is neither animated nor simulated,
// every fixed and collidable segment at every one of its transforms. Identity transforms copy vertices
// verbatim; others go through mesh.TransformVertices. Triangle indices are
// shifted by the running vertex offset.
func Build(ctx context.Context, drawables []scene.Drawable) (*Buffer, error) {
	buf := &Buffer{}

	for _, d := range drawables {
		if d.Animated() || scene.IsSimulated(d) {
			continue
		}
		for _, seg := range d.Segments() {
			if !seg.StaticCollider() {
				continue
			}
			if err := seg.Mesh.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %w", ErrInvalidMesh, d.Name(), seg.Name, err)
			}
			for inst, m := range seg.Transforms {
				if err := buf.append(ctx, seg.Mesh, m, Source{
					Drawable: d.Name(),
					Segment:  seg.Name,
					Instance: inst,
				}); err != nil {
					return nil, fmt.Errorf("collision: %s/%s instance %d: %w", d.Name(), seg.Name, inst, err)
				}
			}
		}
	}

	logger.Named("collision").Debug("collision buffer built",
		zap.Int("vertices", len(buf.Vertices)),
		zap.Int("triangles", len(buf.Triangles)),
		zap.Int("sources", len(buf.Sources)))
	return buf, nil
}

func (b *Buffer) append(ctx context.Context, m *mesh.Mesh, transform mgl32.Mat4, src Source) error {
	offset := len(b.Vertices)
	src.FirstVertex = offset
	src.VertexCount = len(m.Vertices)
	src.FirstTriangle = len(b.Triangles)
	src.TriangleCount = len(m.Indices)

	b.Vertices = append(b.Vertices, make([]mgl32.Vec3, len(m.Vertices))...)
	dst := b.Vertices[offset:]
	if transform == mgl32.Ident4() {
		copy(dst, m.Vertices)
	} else if err := mesh.TransformVertices(ctx, transform, m.Vertices, dst); err != nil {
		b.Vertices = b.Vertices[:offset]
		return err
	}

	shift := uint32(offset)
	for _, tri := range m.Indices {
		b.Triangles = append(b.Triangles, [3]uint32{tri[0] + shift, tri[1] + shift, tri[2] + shift})
	}
	b.Sources = append(b.Sources, src)
	return nil
}
