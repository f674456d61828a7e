package mesh

import "iter"

// FindEdge returns the edge spanning {a, b}, InvalidID if none exists. The
// scan walks the adjacency list of the lower-valence endpoint.
func (m *DynamicMesh) FindEdge(a, b int) int {
	if !m.IsVertex(a) || !m.IsVertex(b) {
		return InvalidID
	}
	return m.findEdgeInternal(a, b)
}

// FindEdgeFromTri returns the edge of triangle tid spanning {a, b},
// InvalidID if the pair is not an edge of that triangle.
func (m *DynamicMesh) FindEdgeFromTri(a, b, tid int) int {
	tv := m.Triangle(tid)
	te := m.TriEdges(tid)
	for j := 0; j < 3; j++ {
		u, v := tv[j], tv[(j+1)%3]
		if (u == a && v == b) || (u == b && v == a) {
			return te[j]
		}
	}
	return InvalidID
}

// FindTriangle returns the triangle over exactly {a, b, c}, InvalidID if
// none exists.
func (m *DynamicMesh) FindTriangle(a, b, c int) int {
	eid := m.FindEdge(a, b)
	if eid == InvalidID {
		return InvalidID
	}
	t0, t1 := m.EdgeT(eid)
	if findTriIndex(c, m.Triangle(t0)) >= 0 {
		return t0
	}
	if t1 != InvalidID && findTriIndex(c, m.Triangle(t1)) >= 0 {
		return t1
	}
	return InvalidID
}

// IsBoundaryEdge reports whether an edge has exactly one triangle.
func (m *DynamicMesh) IsBoundaryEdge(eid int) bool {
	return m.edges.At(4*eid+3) == InvalidID
}

// IsBoundaryVertex reports whether any edge at the vertex is a boundary
// edge.
func (m *DynamicMesh) IsBoundaryVertex(vid int) bool {
	for eid := range m.vertexEdges.Values(vid) {
		if m.IsBoundaryEdge(eid) {
			return true
		}
	}
	return false
}

// IsBoundaryTriangle reports whether any edge of the triangle is a boundary
// edge.
func (m *DynamicMesh) IsBoundaryTriangle(tid int) bool {
	te := m.TriEdges(tid)
	return m.IsBoundaryEdge(te[0]) || m.IsBoundaryEdge(te[1]) || m.IsBoundaryEdge(te[2])
}

// IsGroupBoundaryEdge reports whether the triangles on either side of an
// interior edge carry different group IDs.
func (m *DynamicMesh) IsGroupBoundaryEdge(eid int) bool {
	if m.triangleGroups == nil || m.IsBoundaryEdge(eid) {
		return false
	}
	t0, t1 := m.EdgeT(eid)
	return m.triangleGroups.At(t0) != m.triangleGroups.At(t1)
}

// VtxVerticesItr iterates the one-ring vertex neighbours of a vertex.
func (m *DynamicMesh) VtxVerticesItr(vid int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for eid := range m.vertexEdges.Values(vid) {
			if !yield(m.edgeOtherV(eid, vid)) {
				return
			}
		}
	}
}

// VtxTrianglesItr iterates the triangles incident to a vertex, each exactly
// once. A triangle touches the vertex through two of its incident edges; it
// is yielded only from the lower-numbered one, so no per-call allocation is
// needed for deduplication.
func (m *DynamicMesh) VtxTrianglesItr(vid int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for eid := range m.vertexEdges.Values(vid) {
			t0, t1 := m.EdgeT(eid)
			if m.triMinEdgeAtVertex(t0, vid) == eid && !yield(t0) {
				return
			}
			if t1 != InvalidID && m.triMinEdgeAtVertex(t1, vid) == eid && !yield(t1) {
				return
			}
		}
	}
}

// triMinEdgeAtVertex returns the lower-numbered of the two edges of tid
// incident to vid, or InvalidID when tid does not actually contain vid.
// The latter only happens on inconsistent meshes; returning InvalidID lets
// CheckValidity report the broken adjacency instead of panicking on it.
func (m *DynamicMesh) triMinEdgeAtVertex(tid, vid int) int {
	tv := m.Triangle(tid)
	te := m.TriEdges(tid)
	j := findTriIndex(vid, tv)
	if j < 0 {
		return InvalidID
	}
	ePrev, eNext := te[(j+2)%3], te[j]
	if ePrev < eNext {
		return ePrev
	}
	return eNext
}

// VtxTriangleCount returns the number of triangles incident to a vertex.
func (m *DynamicMesh) VtxTriangleCount(vid int) int {
	n := 0
	for range m.VtxTrianglesItr(vid) {
		n++
	}
	return n
}

// IsBowtieVertex reports whether the triangles around a vertex form more
// than one edge-connected fan. For a single fan the incident edge and
// triangle counts satisfy edges == tris (closed fan) or edges == tris + 1
// (open fan); any other relation means pinched topology.
func (m *DynamicMesh) IsBowtieVertex(vid int) bool {
	edges := m.vertexEdges.Count(vid)
	if edges == 0 {
		return false
	}
	tris := m.VtxTriangleCount(vid)
	boundary := 0
	for eid := range m.vertexEdges.Values(vid) {
		if m.IsBoundaryEdge(eid) {
			boundary++
		}
	}
	if boundary == 0 {
		return edges != tris
	}
	return edges != tris+1
}

// VtxContiguousTriangles partitions the triangles around a vertex into
// edge-connected fans. A manifold vertex yields a single fan; a bowtie
// yields one slice per fan.
func (m *DynamicMesh) VtxContiguousTriangles(vid int) [][]int {
	var tris []int
	for tid := range m.VtxTrianglesItr(vid) {
		tris = append(tris, tid)
	}
	if len(tris) == 0 {
		return nil
	}

	var fans [][]int
	visited := make(map[int]bool, len(tris))
	for _, seed := range tris {
		if visited[seed] {
			continue
		}
		fan := []int{seed}
		visited[seed] = true
		for cursor := 0; cursor < len(fan); cursor++ {
			tid := fan[cursor]
			tv := m.Triangle(tid)
			te := m.TriEdges(tid)
			j := findTriIndex(vid, tv)
			// The two edges of tid at vid lead to the fan neighbours.
			for _, eid := range [2]int{te[j], te[(j+2)%3]} {
				nbr := m.edgeOtherT(eid, tid)
				if nbr != InvalidID && !visited[nbr] {
					visited[nbr] = true
					fan = append(fan, nbr)
				}
			}
		}
		fans = append(fans, fan)
	}
	return fans
}

// VtxTriangles returns the triangles incident to a vertex as a slice.
func (m *DynamicMesh) VtxTriangles(vid int) []int {
	var tris []int
	for tid := range m.VtxTrianglesItr(vid) {
		tris = append(tris, tid)
	}
	return tris
}

// VertexGroups returns the distinct group IDs of the triangles around a
// vertex, nil when the group layer is disabled.
func (m *DynamicMesh) VertexGroups(vid int) []int {
	if m.triangleGroups == nil {
		return nil
	}
	var groups []int
	for tid := range m.VtxTrianglesItr(vid) {
		g := m.triangleGroups.At(tid)
		found := false
		for _, have := range groups {
			if have == g {
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, g)
		}
	}
	return groups
}

// IsGroupBoundaryVertex reports whether the triangles around a vertex carry
// exactly two distinct groups.
func (m *DynamicMesh) IsGroupBoundaryVertex(vid int) bool {
	return len(m.VertexGroups(vid)) == 2
}

// IsGroupJunctionVertex reports whether three or more groups meet at a
// vertex.
func (m *DynamicMesh) IsGroupJunctionVertex(vid int) bool {
	return len(m.VertexGroups(vid)) > 2
}

// BoundaryEdgeCount returns the number of boundary edges in the mesh.
func (m *DynamicMesh) BoundaryEdgeCount() int {
	n := 0
	for eid := range m.EdgeIndices() {
		if m.IsBoundaryEdge(eid) {
			n++
		}
	}
	return n
}

// IsClosed reports whether the mesh has no boundary edges. The result is
// cached against the topology timestamp.
func (m *DynamicMesh) IsClosed() bool {
	if m.cachedIsClosedValid && m.cachedIsClosedStamp == m.topologyTimestamp {
		return m.cachedIsClosed
	}
	closed := true
	for eid := range m.EdgeIndices() {
		if m.IsBoundaryEdge(eid) {
			closed = false
			break
		}
	}
	m.cachedIsClosed = closed
	m.cachedIsClosedStamp = m.topologyTimestamp
	m.cachedIsClosedValid = true
	return closed
}

// Bounds returns the axis-aligned bounding box of the valid vertices,
// recomputed on every call.
func (m *DynamicMesh) Bounds() AxisBox3d {
	box := EmptyBox()
	for vid := range m.VertexIndices() {
		box.Contain(m.Vertex(vid))
	}
	return box
}

// CachedBounds returns the bounding box, reusing the previous result when no
// shape-affecting mutation happened since.
func (m *DynamicMesh) CachedBounds() AxisBox3d {
	if m.cachedBoundsValid && m.cachedBoundsStamp == m.shapeTimestamp {
		return m.cachedBounds
	}
	m.cachedBounds = m.Bounds()
	m.cachedBoundsStamp = m.shapeTimestamp
	m.cachedBoundsValid = true
	return m.cachedBounds
}
