package mesh

import (
	"context"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the vertex count above which TransformVertices splits
// the work across goroutines.
const ParallelThreshold = 4096

// TransformVertices writes m applied to every src vertex into dst, which must
// have the same length as src. Output order matches input order regardless
// of how the work is split.
func TransformVertices(ctx context.Context, m mgl32.Mat4, src, dst []mgl32.Vec3) error {
	if len(dst) != len(src) {
		panic("mesh: TransformVertices dst and src lengths differ")
	}
	if len(src) <= ParallelThreshold {
		transformRange(m, src, dst)
		return ctx.Err()
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(src) + workers - 1) / workers
	if chunk < ParallelThreshold/4 {
		chunk = ParallelThreshold / 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(src); start += chunk {
		end := min(start+chunk, len(src))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns a disjoint dst range
			transformRange(m, src[start:end], dst[start:end])
			return nil
		})
	}
	return g.Wait()
}

// Transformed returns a new slice holding m applied to every vertex.
func Transformed(ctx context.Context, m mgl32.Mat4, src []mgl32.Vec3) ([]mgl32.Vec3, error) {
	dst := make([]mgl32.Vec3, len(src))
	if err := TransformVertices(ctx, m, src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

func transformRange(m mgl32.Mat4, src, dst []mgl32.Vec3) {
	for i, v := range src {
		dst[i] = m.Mul4x1(v.Vec4(1)).Vec3()
	}
}
