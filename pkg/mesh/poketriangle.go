package mesh

// PokeTriangle subdivides a triangle into three by inserting a vertex at the
// given barycentric coordinates of its interior. The original triangle ID
// keeps the corner pair (v0, v1); the new triangles inherit its group.
func (m *DynamicMesh) PokeTriangle(tid int, bary Vector3d, info *PokeTriangleInfo) MeshResult {
	if !m.IsTriangle(tid) {
		return ResultFailedNotATriangle
	}

	tv := m.Triangle(tid)
	te := m.TriEdges(tid)
	a, b, c := tv[0], tv[1], tv[2]

	vi := m.bakeBarycentricVertex(tv, bary)
	f := m.AppendVertexInfo(vi)

	g := m.TriangleGroup(tid)
	t1 := m.addTriangleOnly(b, c, f, g)
	t2 := m.addTriangleOnly(c, a, f, g)

	// The original keeps edge (a,b) and becomes (a, b, f).
	m.replaceTriangleVertex(tid, c, f)
	m.vertexRefCounts.Decrement(c, 1)
	m.vertexRefCounts.Increment(f, 1)

	// te[1] = (b,c) moves to t1, te[2] = (c,a) to t2.
	m.replaceEdgeTriangle(te[1], tid, t1)
	m.replaceEdgeTriangle(te[2], tid, t2)

	eaf := m.addEdgeInternal(a, f, tid, t2)
	ebf := m.addEdgeInternal(b, f, tid, t1)
	ecf := m.addEdgeInternal(c, f, t1, t2)
	m.setTriangleEdgesInternal(tid, te[0], ebf, eaf)
	m.setTriangleEdgesInternal(t1, te[1], ecf, ebf)
	m.setTriangleEdgesInternal(t2, te[2], eaf, ecf)

	m.vertexRefCounts.Increment(f, 2) // t1 and t2 corners
	m.vertexRefCounts.Increment(b, 1)
	m.vertexRefCounts.Increment(c, 2)
	m.vertexRefCounts.Increment(a, 1)

	pi := PokeTriangleInfo{
		OriginalTriangle: tid,
		TriVertices:      [3]int{a, b, c},
		NewVertex:        f,
		NewTriangles:     [2]int{t1, t2},
		NewEdges:         [3]int{eaf, ebf, ecf},
		BaryCoords:       bary,
	}
	if info != nil {
		*info = pi
	}
	if m.attributes != nil {
		m.attributes.OnPokeTriangle(pi)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// bakeBarycentricVertex blends the corner values of a triangle at
// barycentric weights.
func (m *DynamicMesh) bakeBarycentricVertex(tv [3]int, bary Vector3d) VertexInfo {
	pa, pb, pc := m.Vertex(tv[0]), m.Vertex(tv[1]), m.Vertex(tv[2])
	info := VertexInfo{
		Position: pa.Scale(bary.X).Add(pb.Scale(bary.Y)).Add(pc.Scale(bary.Z)),
	}
	wx, wy, wz := float32(bary.X), float32(bary.Y), float32(bary.Z)
	if m.normals != nil {
		na, nb, nc := m.VertexNormal(tv[0]), m.VertexNormal(tv[1]), m.VertexNormal(tv[2])
		info.Normal = Vector3f{
			na.X*wx + nb.X*wy + nc.X*wz,
			na.Y*wx + nb.Y*wy + nc.Y*wz,
			na.Z*wx + nb.Z*wy + nc.Z*wz,
		}.Normalized()
		info.HasNormal = true
	}
	if m.colors != nil {
		ca, cb, cc := m.VertexColor(tv[0]), m.VertexColor(tv[1]), m.VertexColor(tv[2])
		info.Color = Vector3f{
			ca.X*wx + cb.X*wy + cc.X*wz,
			ca.Y*wx + cb.Y*wy + cc.Y*wz,
			ca.Z*wx + cb.Z*wy + cc.Z*wz,
		}
		info.HasColor = true
	}
	if m.uvs != nil {
		ua, ub, uc := m.VertexUV(tv[0]), m.VertexUV(tv[1]), m.VertexUV(tv[2])
		info.UV = Vector2f{
			ua.X*wx + ub.X*wy + uc.X*wz,
			ua.Y*wx + ub.Y*wy + uc.Y*wz,
		}
		info.HasUV = true
	}
	return info
}
