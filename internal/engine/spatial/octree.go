// Package spatial provides the static octree used for broad-phase collision
// queries against world geometry.
package spatial

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-engine/internal/engine/geom"
	"github.com/Faultbox/midgard-engine/internal/logger"
)

var (
	// ErrIndexOutOfRange is returned when a triangle references a missing vertex.
	ErrIndexOutOfRange = errors.New("octree: triangle index out of range")
	// ErrNoVertices is returned when triangles are given without vertices.
	ErrNoVertices = errors.New("octree: triangles given without vertices")
)

// Options control subdivision.
type Options struct {
	MaxDepth int // Default 10
	LeafSize int // Default 8
}

// DefaultOptions returns the standard subdivision limits.
func DefaultOptions() Options {
	return Options{MaxDepth: 10, LeafSize: 8}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.LeafSize <= 0 {
		o.LeafSize = d.LeafSize
	}
	return o
}

// Node is an octree node. Interior nodes have children; leaves list the
// triangles (indices into the triangle table) they hold.
type Node struct {
	Bounds    geom.AABB
	Children  []*Node
	Triangles []int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Stats summarises a built tree.
type Stats struct {
	Triangles  int
	Degenerate int
	Nodes      int
	Leaves     int
	Depth      int
}

// Hit describes the nearest ray intersection.
type Hit struct {
	Triangle int
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3 // Faces the ray origin
}

// Octree indexes a read-only triangle soup. It is immutable after Build and
// safe for concurrent queries.
type Octree struct {
	root       *Node
	vertices   []mgl32.Vec3
	triangles  [][3]uint32
	bounds     []geom.AABB
	degenerate []bool
	stats      Stats
}

// Build validates the input and constructs the tree top-down. The vertex and
// triangle slices are retained and must not be modified afterwards.
func Build(vertices []mgl32.Vec3, triangles [][3]uint32, opts Options) (*Octree, error) {
	opts = opts.withDefaults()

	if len(triangles) > 0 && len(vertices) == 0 {
		return nil, fmt.Errorf("%w: %d triangles", ErrNoVertices, len(triangles))
	}
	n := uint32(len(vertices))
	for i, tri := range triangles {
		for _, idx := range tri {
			if idx >= n {
				return nil, fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, n)
			}
		}
	}

	t := &Octree{
		vertices:   vertices,
		triangles:  triangles,
		bounds:     make([]geom.AABB, len(triangles)),
		degenerate: make([]bool, len(triangles)),
	}

	live := make([]int, 0, len(triangles))
	rootBounds := geom.EmptyAABB()
	for i := range triangles {
		tri := t.Triangle(i)
		if tri.Degenerate() {
			t.degenerate[i] = true
			t.stats.Degenerate++
			continue
		}
		t.bounds[i] = tri.Bounds()
		rootBounds = rootBounds.Union(t.bounds[i])
		live = append(live, i)
	}
	t.stats.Triangles = len(triangles)

	if t.stats.Degenerate > 0 {
		logger.Named("spatial").Warn("degenerate triangles excluded from collision",
			zap.Int("degenerate", t.stats.Degenerate),
			zap.Int("total", len(triangles)))
	}

	t.root = &Node{Bounds: rootBounds}
	t.subdivide(t.root, live, 0, opts)
	return t, nil
}

func (t *Octree) subdivide(node *Node, tris []int, depth int, opts Options) {
	t.stats.Nodes++
	if depth > t.stats.Depth {
		t.stats.Depth = depth
	}

	if len(tris) <= opts.LeafSize || depth >= opts.MaxDepth {
		node.Triangles = tris
		t.stats.Leaves++
		return
	}

	center := node.Bounds.Center()
	var octants [8][]int
	for _, i := range tris {
		c := t.Triangle(i).Centroid()
		o := 0
		if c[0] >= center[0] {
			o |= 1
		}
		if c[1] >= center[1] {
			o |= 2
		}
		if c[2] >= center[2] {
			o |= 4
		}
		octants[o] = append(octants[o], i)
	}

	// Partitioning made no progress
	for _, oct := range octants {
		if len(oct) == len(tris) {
			node.Triangles = tris
			t.stats.Leaves++
			return
		}
	}

	for _, oct := range octants {
		if len(oct) == 0 {
			continue
		}
		b := geom.EmptyAABB()
		for _, i := range oct {
			b = b.Union(t.bounds[i])
		}
		child := &Node{Bounds: b}
		node.Children = append(node.Children, child)
		t.subdivide(child, oct, depth+1, opts)
	}
}

// Root returns the root node.
func (t *Octree) Root() *Node {
	return t.root
}

// Stats returns build statistics.
func (t *Octree) Stats() Stats {
	return t.stats
}

// Len returns the number of triangles in the table, degenerate included.
func (t *Octree) Len() int {
	return len(t.triangles)
}

// Triangle returns triangle i in world space.
func (t *Octree) Triangle(i int) geom.Triangle {
	tri := t.triangles[i]
	return geom.Triangle{A: t.vertices[tri[0]], B: t.vertices[tri[1]], C: t.vertices[tri[2]]}
}

// Degenerate reports whether triangle i was flagged at build time.
func (t *Octree) Degenerate(i int) bool {
	return t.degenerate[i]
}

// QueryAABB calls fn for every non-degenerate triangle whose bounds overlap
// box. Iteration stops early when fn returns false.
func (t *Octree) QueryAABB(box geom.AABB, fn func(tri int) bool) {
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.Bounds.Overlaps(box) {
			continue
		}
		for _, i := range n.Triangles {
			if t.bounds[i].Overlaps(box) && !fn(i) {
				return
			}
		}
		stack = append(stack, n.Children...)
	}
}

// Candidates returns the triangles overlapping box.
func (t *Octree) Candidates(box geom.AABB) []int {
	var out []int
	t.QueryAABB(box, func(tri int) bool {
		out = append(out, tri)
		return true
	})
	return out
}

// Raycast returns the nearest triangle hit within maxDist. A non-positive
// maxDist means unbounded.
func (t *Octree) Raycast(ray geom.Ray, maxDist float32) (Hit, bool) {
	best := Hit{Triangle: -1}
	limit := maxDist
	if limit <= 0 {
		limit = float32(1e30)
	}

	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d, hit := ray.IntersectAABB(n.Bounds)
		if !hit {
			continue
		}
		// IntersectAABB reports the exit distance from inside the box
		if !n.Bounds.ContainsPoint(ray.Origin) && d > limit {
			continue
		}

		for _, i := range n.Triangles {
			tri := t.Triangle(i)
			if dist, ok := tri.IntersectRay(ray); ok && dist <= limit {
				limit = dist
				best = Hit{Triangle: i, Distance: dist, Point: ray.At(dist), Normal: tri.Normal()}
			}
		}
		stack = append(stack, n.Children...)
	}

	if best.Triangle < 0 {
		return Hit{}, false
	}
	if best.Normal.Dot(ray.Direction) > 0 {
		best.Normal = best.Normal.Mul(-1)
	}
	return best, true
}
