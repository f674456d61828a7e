package mesh

// SplitEdge subdivides an edge at parameter t along its stored EdgeV
// endpoint order (t == 0 lands on the first stored endpoint), inserting a new
// vertex and retriangulating the one or two incident triangles. Groups of
// the new triangles follow the triangles they were split from, and enabled
// vertex layers interpolate linearly along the edge. Details of the edit are
// returned in info for callers that need to continue working on the result.
func (m *DynamicMesh) SplitEdge(eid int, t float64, info *EdgeSplitInfo) MeshResult {
	if !m.IsEdge(eid) {
		return ResultFailedNotAnEdge
	}

	a, b, t0, t1 := m.Edge(eid)
	tri0 := m.Triangle(t0)
	storedA := a
	if !orientTriEdge(&a, &b, tri0) {
		return ResultFailedBrokenTopology
	}
	// t is relative to the stored edge orientation; if reorienting to t0's
	// winding swapped the endpoints, mirror the parameter to match.
	if a != storedA {
		t = 1 - t
	}
	c := findTriOtherVtx(a, b, tri0)

	// The opposing vertices gain an edge each; the ceiling keeps the int16
	// pool counters out of overflow territory.
	if m.vertexRefCounts.RefCount(c) >= maxVertexRefCount {
		return ResultFailedHitValenceLimit
	}
	d := InvalidID
	if t1 != InvalidID {
		d = findTriOtherVtx(a, b, m.Triangle(t1))
		if m.vertexRefCounts.RefCount(d) >= maxVertexRefCount {
			return ResultFailedHitValenceLimit
		}
	}

	f := m.AppendVertexInfo(m.lerpVertexInfo(a, b, t))

	si := EdgeSplitInfo{
		OriginalEdge:      eid,
		OriginalVertices:  [2]int{a, b},
		OtherVertices:     [2]int{c, d},
		OriginalTriangles: [2]int{t0, t1},
		IsBoundary:        t1 == InvalidID,
		NewVertex:         f,
		NewTriangles:      [2]int{InvalidID, InvalidID},
		NewEdges:          [3]int{InvalidID, InvalidID, InvalidID},
		SplitT:            t,
	}
	if t1 == InvalidID {
		m.splitBoundaryEdge(eid, a, b, c, f, t0, &si)
	} else {
		m.splitInteriorEdge(eid, a, b, c, d, f, t0, t1, &si)
	}
	if info != nil {
		*info = si
	}
	if m.attributes != nil {
		m.attributes.OnSplitEdge(si)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// splitBoundaryEdge rewrites t0 = (a,b,c) into (a,f,c) plus a new triangle
// t2 = (f,b,c). The original edge is relabelled to span (a,f).
func (m *DynamicMesh) splitBoundaryEdge(eab, a, b, c, f, t0 int, info *EdgeSplitInfo) {
	ebc := m.FindEdgeFromTri(b, c, t0)
	g0 := m.TriangleGroup(t0)

	m.replaceTriangleVertex(t0, b, f)
	t2 := m.addTriangleOnly(f, b, c, g0)

	// eab becomes (a,f); b's adjacency entry moves to f.
	m.replaceEdgeVertex(eab, b, f)
	m.vertexEdges.Remove(b, eab)
	m.vertexEdges.Insert(f, eab)

	// ebc moves from t0 to the new triangle.
	m.replaceEdgeTriangle(ebc, t0, t2)

	efb := m.addEdgeInternal(f, b, t2, InvalidID)
	efc := m.addEdgeInternal(f, c, t0, t2)
	m.replaceTriangleEdge(t0, ebc, efc)
	m.setTriangleEdgesInternal(t2, efb, ebc, efc)

	// f gains two corners (t0 and t2), c gains the t2 corner; b's count is
	// unchanged after losing its t0 corner and gaining the t2 one.
	m.vertexRefCounts.Increment(f, 2)
	m.vertexRefCounts.Increment(c, 1)

	info.NewTriangles = [2]int{t2, InvalidID}
	info.NewEdges = [3]int{efb, efc, InvalidID}
}

// splitInteriorEdge rewrites t0 = (a,b,c) into (a,f,c) and t1 = (b,a,d) into
// (f,a,d), adding t2 = (f,b,c) and t3 = (f,d,b) on the b side.
func (m *DynamicMesh) splitInteriorEdge(eab, a, b, c, d, f, t0, t1 int, info *EdgeSplitInfo) {
	ebc := m.FindEdgeFromTri(b, c, t0)
	edb := m.FindEdgeFromTri(d, b, t1)
	g0 := m.TriangleGroup(t0)
	g1 := m.TriangleGroup(t1)

	m.replaceTriangleVertex(t0, b, f)
	m.replaceTriangleVertex(t1, b, f)
	t2 := m.addTriangleOnly(f, b, c, g0)
	t3 := m.addTriangleOnly(f, d, b, g1)

	m.replaceEdgeVertex(eab, b, f)
	m.vertexEdges.Remove(b, eab)
	m.vertexEdges.Insert(f, eab)

	m.replaceEdgeTriangle(ebc, t0, t2)
	m.replaceEdgeTriangle(edb, t1, t3)

	efb := m.addEdgeInternal(f, b, t2, t3)
	efc := m.addEdgeInternal(f, c, t0, t2)
	edf := m.addEdgeInternal(d, f, t1, t3)
	m.replaceTriangleEdge(t0, ebc, efc)
	m.replaceTriangleEdge(t1, edb, edf)
	m.setTriangleEdgesInternal(t2, efb, ebc, efc)
	m.setTriangleEdgesInternal(t3, edf, edb, efb)

	// f gains four corners; c and d one each; b swaps its two old corners
	// for two new ones.
	m.vertexRefCounts.Increment(f, 4)
	m.vertexRefCounts.Increment(c, 1)
	m.vertexRefCounts.Increment(d, 1)

	info.NewTriangles = [2]int{t2, t3}
	info.NewEdges = [3]int{efb, efc, edf}
}

// lerpVertexInfo interpolates position and enabled layers between two
// vertices; t == 0 lands on a.
func (m *DynamicMesh) lerpVertexInfo(a, b int, t float64) VertexInfo {
	info := VertexInfo{Position: m.Vertex(a).Lerp(m.Vertex(b), t)}
	ft := float32(t)
	if m.normals != nil {
		info.Normal = m.VertexNormal(a).Lerp(m.VertexNormal(b), ft).Normalized()
		info.HasNormal = true
	}
	if m.colors != nil {
		info.Color = m.VertexColor(a).Lerp(m.VertexColor(b), ft)
		info.HasColor = true
	}
	if m.uvs != nil {
		info.UV = m.VertexUV(a).Lerp(m.VertexUV(b), ft)
		info.HasUV = true
	}
	return info
}
