// Package sdfgen builds dynamic meshes from signed distance fields. Solids
// are modeled with the github.com/deadsy/sdfx CAD library, tessellated by
// marching cubes, and the resulting triangle soup is welded into a
// mesh.DynamicMesh with shared vertices and full connectivity.
package sdfgen

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to an SDF solid.
type Solid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s Solid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Box creates a box with its minimum corner at the origin. sdf.Box3D centers
// the box, so it is shifted by half-dimensions.
func Box(x, y, z float64) Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfgen.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return Solid{s: sdf.Transform3D(s, m)}
}

// Cylinder creates a z-aligned cylinder centered at the origin.
func Cylinder(height, radius float64) Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfgen.Cylinder3D: %v", err))
	}
	return Solid{s: s}
}

// Sphere creates a sphere centered at the origin.
func Sphere(radius float64) Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfgen.Sphere3D: %v", err))
	}
	return Solid{s: s}
}

// Union returns the union of two solids.
func Union(a, b Solid) Solid {
	return Solid{s: sdf.Union3D(a.s, b.s)}
}

// Difference returns a minus b.
func Difference(a, b Solid) Solid {
	return Solid{s: sdf.Difference3D(a.s, b.s)}
}

// Intersection returns the intersection of two solids.
func Intersection(a, b Solid) Solid {
	return Solid{s: sdf.Intersect3D(a.s, b.s)}
}

// Translate moves a solid by (x, y, z).
func Translate(s Solid, x, y, z float64) Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return Solid{s: sdf.Transform3D(s.s, m)}
}

// Rotate rotates a solid by Euler angles in degrees around X, Y, Z.
func Rotate(s Solid, x, y, z float64) Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return Solid{s: sdf.Transform3D(s.s, m)}
}
