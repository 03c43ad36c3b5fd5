package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestAABBExtendAndUnion(t *testing.T) {
	box := EmptyAABB()
	assert.True(t, box.IsEmpty())

	box = box.Extend(mgl32.Vec3{1, 2, 3}).Extend(mgl32.Vec3{-1, 0, 5})
	assert.False(t, box.IsEmpty())
	assert.Equal(t, mgl32.Vec3{-1, 0, 3}, box.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 5}, box.Max)

	other := NewAABB(mgl32.Vec3{4, 4, 4}, mgl32.Vec3{2, 2, 2})
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, other.Min)

	u := box.Union(other)
	assert.True(t, u.Contains(box))
	assert.True(t, u.Contains(other))
	assert.Equal(t, box, box.Union(EmptyAABB()))
}

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	tests := []struct {
		name string
		b    AABB
		want bool
	}{
		{"inside", NewAABB(mgl32.Vec3{0.2, 0.2, 0.2}, mgl32.Vec3{0.8, 0.8, 0.8}), true},
		{"touching face", NewAABB(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 1, 1}), true},
		{"apart on x", NewAABB(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{2, 1, 1}), false},
		{"apart on z", NewAABB(mgl32.Vec3{0, 0, -3}, mgl32.Vec3{1, 1, -2}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(a))
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	moved := box.Transform(mgl32.Translate3D(10, 0, 0))
	assert.InDelta(t, 9, moved.Min[0], 1e-5)
	assert.InDelta(t, 11, moved.Max[0], 1e-5)

	scaled := box.Transform(mgl32.Scale3D(2, 3, 4))
	assert.InDelta(t, 3, scaled.Max[1], 1e-5)
	assert.InDelta(t, -4, scaled.Min[2], 1e-5)
}

func TestRayIntersectAABB(t *testing.T) {
	box := NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	r := NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{2, 0, 0})
	dist, hit := r.IntersectAABB(box)
	assert.True(t, hit)
	assert.InDelta(t, 4, dist, 1e-5)

	// Starting inside returns the exit distance
	inside := NewRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	dist, hit = inside.IntersectAABB(box)
	assert.True(t, hit)
	assert.InDelta(t, 1, dist, 1e-5)

	away := NewRay(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{-1, 0, 0})
	_, hit = away.IntersectAABB(box)
	assert.False(t, hit)

	parallelOutside := NewRay(mgl32.Vec3{-5, 3, 0}, mgl32.Vec3{1, 0, 0})
	_, hit = parallelOutside.IntersectAABB(box)
	assert.False(t, hit)
}

func TestRayIntersectPlaneY(t *testing.T) {
	r := NewRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, -1, 0})
	p, ok := r.IntersectPlaneY(0)
	assert.True(t, ok)
	assert.InDelta(t, 10, p[0], 1e-4)

	_, ok = NewRay(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, 0, 0}).IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestScreenToRayCenter(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	r := ScreenToRay(50, 50, 100, 100, proj.Mul4(view).Inv())

	assert.InDelta(t, 0, r.Direction[0], 1e-4)
	assert.InDelta(t, 0, r.Direction[1], 1e-4)
	assert.InDelta(t, -1, r.Direction[2], 1e-4)
}

func TestTriangleIntersectRay(t *testing.T) {
	tri := Triangle{
		A: mgl32.Vec3{-1, 0, -1},
		B: mgl32.Vec3{1, 0, -1},
		C: mgl32.Vec3{0, 0, 1},
	}

	down := NewRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0})
	dist, hit := tri.IntersectRay(down)
	assert.True(t, hit)
	assert.InDelta(t, 5, dist, 1e-5)

	// Back face is hit too
	up := NewRay(mgl32.Vec3{0, -2, 0}, mgl32.Vec3{0, 1, 0})
	dist, hit = tri.IntersectRay(up)
	assert.True(t, hit)
	assert.InDelta(t, 2, dist, 1e-5)

	miss := NewRay(mgl32.Vec3{5, 5, 0}, mgl32.Vec3{0, -1, 0})
	_, hit = tri.IntersectRay(miss)
	assert.False(t, hit)

	behind := NewRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0})
	_, hit = tri.IntersectRay(behind)
	assert.False(t, hit)
}

func TestTriangleClosestPoint(t *testing.T) {
	tri := Triangle{
		A: mgl32.Vec3{0, 0, 0},
		B: mgl32.Vec3{2, 0, 0},
		C: mgl32.Vec3{0, 2, 0},
	}
	tests := []struct {
		name string
		p    mgl32.Vec3
		want mgl32.Vec3
	}{
		{"above interior", mgl32.Vec3{0.5, 0.5, 3}, mgl32.Vec3{0.5, 0.5, 0}},
		{"vertex A region", mgl32.Vec3{-1, -1, 0}, mgl32.Vec3{0, 0, 0}},
		{"vertex B region", mgl32.Vec3{3, -1, 0}, mgl32.Vec3{2, 0, 0}},
		{"edge AB", mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 0, 0}},
		{"edge BC", mgl32.Vec3{2, 2, 0}, mgl32.Vec3{1, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tri.ClosestPoint(tt.p)
			assertVecNear(t, tt.want, got, 1e-5)
		})
	}
}

func TestTriangleDegenerate(t *testing.T) {
	line := Triangle{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{1, 0, 0}, C: mgl32.Vec3{2, 0, 0}}
	assert.True(t, line.Degenerate())
	assert.Equal(t, mgl32.Vec3{}, line.Normal())

	ok := Triangle{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{1, 0, 0}, C: mgl32.Vec3{0, 1, 0}}
	assert.False(t, ok.Degenerate())
	assert.InDelta(t, 0.5, ok.Area(), 1e-6)
	assert.InDelta(t, 1, ok.Normal()[2], 1e-6)
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}
