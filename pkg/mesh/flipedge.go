package mesh

// FlipEdge replaces an interior edge (a,b) with the cross edge (c,d) between
// the opposing vertices of its two triangles, retriangulating the quad
// a-d-b-c in place. Both triangle IDs and the edge ID survive the flip.
// Fails on boundary edges and when the cross edge already exists elsewhere
// in the mesh.
func (m *DynamicMesh) FlipEdge(eid int, info *EdgeFlipInfo) MeshResult {
	if !m.IsEdge(eid) {
		return ResultFailedNotAnEdge
	}
	if m.IsBoundaryEdge(eid) {
		return ResultFailedIsBoundaryEdge
	}

	a, b, t0, t1 := m.Edge(eid)
	tri0 := m.Triangle(t0)
	if !orientTriEdge(&a, &b, tri0) {
		return ResultFailedBrokenTopology
	}
	c := findTriOtherVtx(a, b, tri0)
	d := findTriOtherVtx(a, b, m.Triangle(t1))
	if c == d {
		return ResultFailedBrokenTopology
	}
	if m.findEdgeInternal(c, d) != InvalidID {
		return ResultFailedFlippedEdgeExists
	}

	ebc := m.FindEdgeFromTri(b, c, t0)
	eca := m.FindEdgeFromTri(c, a, t0)
	ead := m.FindEdgeFromTri(a, d, t1)
	edb := m.FindEdgeFromTri(d, b, t1)

	m.setTriangleInternal(t0, c, d, b)
	m.setTriangleInternal(t1, d, c, a)

	// The flipped edge keeps its ID but spans (c,d) now.
	m.replaceEdgeVertex(eid, a, c)
	m.replaceEdgeVertex(eid, b, d)
	m.vertexEdges.Remove(a, eid)
	m.vertexEdges.Remove(b, eid)
	m.vertexEdges.Insert(c, eid)
	m.vertexEdges.Insert(d, eid)

	// eca crosses into t1's quad half, edb into t0's.
	m.replaceEdgeTriangle(eca, t0, t1)
	m.replaceEdgeTriangle(edb, t1, t0)
	m.setTriangleEdgesInternal(t0, eid, edb, ebc)
	m.setTriangleEdgesInternal(t1, eid, eca, ead)

	m.vertexRefCounts.Increment(c, 1)
	m.vertexRefCounts.Increment(d, 1)
	m.vertexRefCounts.Decrement(a, 1)
	m.vertexRefCounts.Decrement(b, 1)

	fi := EdgeFlipInfo{
		Edge:          eid,
		OriginalVerts: [2]int{a, b},
		OpposingVerts: [2]int{c, d},
		Triangles:     [2]int{t0, t1},
	}
	if info != nil {
		*info = fi
	}
	if m.attributes != nil {
		m.attributes.OnFlipEdge(fi)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}
