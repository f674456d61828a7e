package mesh

import "math"

// Vector3d is a 3D double-precision vector. Vertex positions and all
// geometric queries use this type.
type Vector3d struct {
	X, Y, Z float64
}

func (v Vector3d) Add(o Vector3d) Vector3d {
	return Vector3d{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3d) Sub(o Vector3d) Vector3d {
	return Vector3d{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3d) Scale(s float64) Vector3d {
	return Vector3d{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3d) Dot(o Vector3d) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3d) Cross(o Vector3d) Vector3d {
	return Vector3d{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3d) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector3d) DistanceSquared(o Vector3d) float64 {
	d := v.Sub(o)
	return d.Dot(d)
}

// Normalized returns the unit vector, or the zero vector if v is degenerate.
func (v Vector3d) Normalized() Vector3d {
	l := v.Length()
	if l == 0 {
		return Vector3d{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates from v to o at parameter t.
func (v Vector3d) Lerp(o Vector3d, t float64) Vector3d {
	return Vector3d{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// Vector3f is a 3D single-precision vector used by the optional normal and
// color layers.
type Vector3f struct {
	X, Y, Z float32
}

func (v Vector3f) Lerp(o Vector3f, t float32) Vector3f {
	return Vector3f{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// Normalized returns the unit vector, or the zero vector if v is degenerate.
func (v Vector3f) Normalized() Vector3f {
	l := float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
	if l == 0 {
		return Vector3f{}
	}
	return Vector3f{v.X / l, v.Y / l, v.Z / l}
}

func (v Vector3f) Neg() Vector3f {
	return Vector3f{-v.X, -v.Y, -v.Z}
}

// Vector2f is a 2D single-precision vector used by the optional UV layer.
type Vector2f struct {
	X, Y float32
}

func (v Vector2f) Lerp(o Vector2f, t float32) Vector2f {
	return Vector2f{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// AxisBox3d is an axis-aligned bounding box.
type AxisBox3d struct {
	Min, Max Vector3d
}

// EmptyBox is a box that contains nothing; any Contain call expands it.
func EmptyBox() AxisBox3d {
	inf := math.Inf(1)
	return AxisBox3d{
		Min: Vector3d{inf, inf, inf},
		Max: Vector3d{-inf, -inf, -inf},
	}
}

// Contain expands the box to include p.
func (b *AxisBox3d) Contain(p Vector3d) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Min.Z = math.Min(b.Min.Z, p.Z)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	b.Max.Z = math.Max(b.Max.Z, p.Z)
}

// Diagonal returns Max - Min.
func (b AxisBox3d) Diagonal() Vector3d {
	return b.Max.Sub(b.Min)
}
