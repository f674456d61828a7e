package sdfgen

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"

	"github.com/chazu/meshkit/pkg/mesh"
)

// Options controls tessellation and welding.
type Options struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int
	// WeldTolerance is the distance under which soup vertices are merged.
	WeldTolerance float64
}

// DefaultOptions returns the resolution and tolerance used when the zero
// Options value is passed.
func DefaultOptions() Options {
	return Options{Cells: 64, WeldTolerance: 1e-6}
}

// WeldStats reports what happened while folding the triangle soup into a
// connected mesh.
type WeldStats struct {
	SourceTriangles    int
	Vertices           int
	Triangles          int
	DroppedDegenerate  int // triangles collapsed by welding
	DroppedNonManifold int // triangles the kernel rejected
}

// ToMesh tessellates a solid with marching cubes and welds the triangle
// soup into a DynamicMesh. Marching cubes on a well-formed SDF yields a
// closed surface, so rejected non-manifold triangles indicate a tolerance
// too coarse for the tessellation density.
func ToMesh(s Solid, opts Options) (*mesh.DynamicMesh, WeldStats, error) {
	def := DefaultOptions()
	if opts.Cells <= 0 {
		opts.Cells = def.Cells
	}
	if opts.WeldTolerance <= 0 {
		opts.WeldTolerance = def.WeldTolerance
	}

	renderer := render.NewMarchingCubesUniform(opts.Cells)
	triangles := render.ToTriangles(s.s, renderer)
	if len(triangles) == 0 {
		return nil, WeldStats{}, fmt.Errorf("sdfgen: tessellation produced no triangles")
	}

	m := mesh.New()
	stats := WeldStats{SourceTriangles: len(triangles)}

	weld := make(map[[3]int64]int, len(triangles))
	lookup := func(x, y, z float64) int {
		key := [3]int64{
			quantize(x, opts.WeldTolerance),
			quantize(y, opts.WeldTolerance),
			quantize(z, opts.WeldTolerance),
		}
		if vid, ok := weld[key]; ok {
			return vid
		}
		vid := m.AppendVertex(mesh.Vector3d{X: x, Y: y, Z: z})
		weld[key] = vid
		return vid
	}

	for _, tri := range triangles {
		a := lookup(tri[0].X, tri[0].Y, tri[0].Z)
		b := lookup(tri[1].X, tri[1].Y, tri[1].Z)
		c := lookup(tri[2].X, tri[2].Y, tri[2].Z)
		if a == b || b == c || a == c {
			stats.DroppedDegenerate++
			continue
		}
		if tid := m.AppendTriangle(a, b, c); tid < 0 {
			stats.DroppedNonManifold++
		}
	}

	stats.Vertices = m.VertexCount()
	stats.Triangles = m.TriangleCount()
	if stats.Triangles == 0 {
		return nil, stats, fmt.Errorf("sdfgen: welding dropped every triangle (tolerance %g too coarse?)", opts.WeldTolerance)
	}
	return m, stats, nil
}

// quantize buckets a coordinate onto the weld grid.
func quantize(v, tol float64) int64 {
	return int64(math.Round(v / tol))
}
