package mesh

import "math"

// WindingNumber returns the generalized winding number of the mesh at a
// point: the sum of the signed solid angles subtended by every triangle,
// over 4 pi. For a closed mesh the result is near 1 inside and near 0
// outside; open meshes grade continuously between the two. Uses the
// Van Oosterom-Strackee solid angle formula per triangle.
func (m *DynamicMesh) WindingNumber(p Vector3d) float64 {
	sum := 0.0
	for tid := range m.TriangleIndices() {
		sum += m.triSolidAngle(tid, p)
	}
	return sum / (4.0 * math.Pi)
}

// IsInside reports whether a point is inside the surface by winding number,
// using the 0.5 iso threshold.
func (m *DynamicMesh) IsInside(p Vector3d) bool {
	return m.WindingNumber(p) > 0.5
}

func (m *DynamicMesh) triSolidAngle(tid int, p Vector3d) float64 {
	tv := m.TriVertexPositions(tid)
	a := tv[0].Sub(p)
	b := tv[1].Sub(p)
	c := tv[2].Sub(p)
	la, lb, lc := a.Length(), b.Length(), c.Length()

	num := a.Dot(b.Cross(c))
	den := la*lb*lc + a.Dot(b)*lc + b.Dot(c)*la + c.Dot(a)*lb
	return 2.0 * math.Atan2(num, den)
}
