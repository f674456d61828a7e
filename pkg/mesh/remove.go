package mesh

// RemoveTriangle deletes a triangle. Edges left with no triangle are freed,
// and when removeIsolatedVerts is set, vertices left with no triangles are
// freed too. When preserveManifold is set the removal is refused with
// ResultFailedWouldCreateBowtie if it would pinch the triangles around one
// of the corners into two fans; with the flag clear such removals succeed
// and leave a bowtie vertex behind.
func (m *DynamicMesh) RemoveTriangle(tid int, removeIsolatedVerts, preserveManifold bool) MeshResult {
	if !m.IsTriangle(tid) {
		return ResultFailedNotATriangle
	}
	tv := m.Triangle(tid)
	te := m.TriEdges(tid)

	if preserveManifold {
		// Removing the triangle splits the fan at corner j when the corner
		// already touches the boundary and both of the triangle's edges at
		// that corner are interior.
		for j := 0; j < 3; j++ {
			if !m.IsBoundaryVertex(tv[j]) {
				continue
			}
			eNext, ePrev := te[j], te[(j+2)%3]
			if !m.IsBoundaryEdge(eNext) && !m.IsBoundaryEdge(ePrev) {
				return ResultFailedWouldCreateBowtie
			}
		}
	}

	var removedIsolated bool
	for j := 0; j < 3; j++ {
		if m.replaceEdgeTriangle(te[j], tid, InvalidID) == 0 {
			a, b, _, _ := m.Edge(te[j])
			m.vertexEdges.Remove(a, te[j])
			m.vertexEdges.Remove(b, te[j])
			m.edgeRefCounts.Decrement(te[j], 1)
		}
	}
	for j := 0; j < 3; j++ {
		m.vertexRefCounts.Decrement(tv[j], 1)
		if removeIsolatedVerts && m.vertexRefCounts.RefCount(tv[j]) == 1 {
			m.vertexRefCounts.Decrement(tv[j], 1)
			m.vertexEdges.Clear(tv[j])
			removedIsolated = true
		}
	}
	m.triangleRefCounts.Decrement(tid, 1)

	if m.attributes != nil {
		m.attributes.OnRemoveTriangle(tid, removedIsolated)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// RemoveVertex deletes a vertex and every triangle using it. The manifold
// and isolation flags behave as in RemoveTriangle; the preflight rejects the
// whole removal before any triangle is touched.
func (m *DynamicMesh) RemoveVertex(vid int, removeIsolatedVerts, preserveManifold bool) MeshResult {
	if !m.IsVertex(vid) {
		return ResultFailedNotAVertex
	}

	var tris []int
	for tid := range m.VtxTrianglesItr(vid) {
		tris = append(tris, tid)
	}

	if preserveManifold {
		// Each one-ring triangle survives only as far as its far edge; if
		// that edge is interior and touches the boundary elsewhere, removal
		// would pinch a fan there.
		for _, tid := range tris {
			tv := m.Triangle(tid)
			oa, ob := InvalidID, InvalidID
			for j := 0; j < 3; j++ {
				if tv[j] != vid {
					if oa == InvalidID {
						oa = tv[j]
					} else {
						ob = tv[j]
					}
				}
			}
			eid := m.findEdgeInternal(oa, ob)
			if m.IsBoundaryEdge(eid) {
				continue
			}
			if m.IsBoundaryVertex(oa) || m.IsBoundaryVertex(ob) {
				return ResultFailedWouldCreateBowtie
			}
		}
	}

	for _, tid := range tris {
		if r := m.RemoveTriangle(tid, removeIsolatedVerts, false); !r.Ok() {
			return ResultFailedUnrecoverableError
		}
	}
	if m.IsVertex(vid) {
		if m.vertexRefCounts.RefCount(vid) != 1 {
			return ResultFailedVertexStillReferenced
		}
		m.vertexRefCounts.Decrement(vid, 1)
		m.vertexEdges.Clear(vid)
		m.updateTimestamp(true, true)
	}
	return ResultOk
}

// SetTriangle rewrites the vertex triple of an existing triangle, keeping
// its ID and group. Old edges no longer referenced are freed and new
// boundary edges allocated, so edge IDs around the triangle may change.
// Unsupported while an attribute overlay is attached, since the overlay gets
// no per-element notification it could act on.
func (m *DynamicMesh) SetTriangle(tid, a, b, c int) MeshResult {
	if m.attributes != nil {
		return ResultFailedUnsupportedWithAttributes
	}
	if !m.IsTriangle(tid) {
		return ResultFailedNotATriangle
	}
	if a == b || b == c || a == c {
		return ResultFailedNotAVertex
	}
	if !m.IsVertex(a) || !m.IsVertex(b) || !m.IsVertex(c) {
		return ResultFailedNotAVertex
	}
	tv := m.Triangle(tid)
	if tv == [3]int{a, b, c} {
		return ResultOk
	}

	// Edges that survive the rewrite keep tid attached, so the capacity
	// check only applies to pairs the old triangle does not already span.
	pairs := [3][2]int{{a, b}, {b, c}, {c, a}}
	for _, p := range pairs {
		if findTriIndex(p[0], tv) >= 0 && findTriIndex(p[1], tv) >= 0 {
			continue
		}
		eid := m.findEdgeInternal(p[0], p[1])
		if m.edgeIsFull(eid) {
			return ResultFailedWouldCreateNonmanifoldEdge
		}
	}
	if t := m.FindTriangle(a, b, c); t != InvalidID && t != tid {
		return ResultFailedTriangleAlreadyExists
	}

	// Detach fully, then reattach with the new corners.
	te := m.TriEdges(tid)
	for j := 0; j < 3; j++ {
		if m.replaceEdgeTriangle(te[j], tid, InvalidID) == 0 {
			u, v, _, _ := m.Edge(te[j])
			m.vertexEdges.Remove(u, te[j])
			m.vertexEdges.Remove(v, te[j])
			m.edgeRefCounts.Decrement(te[j], 1)
		}
	}
	for j := 0; j < 3; j++ {
		m.vertexRefCounts.Decrement(tv[j], 1)
	}

	m.setTriangleInternal(tid, a, b, c)
	e0 := m.findEdgeInternal(a, b)
	e1 := m.findEdgeInternal(b, c)
	e2 := m.findEdgeInternal(c, a)
	m.attachTriangleEdges(tid, a, b, c, e0, e1, e2)
	m.vertexRefCounts.Increment(a, 1)
	m.vertexRefCounts.Increment(b, 1)
	m.vertexRefCounts.Increment(c, 1)

	m.updateTimestamp(true, true)
	return ResultOk
}

// ReverseOrientation flips the winding of every triangle, turning the mesh
// inside out. When flipNormals is set the vertex normal layer is negated to
// match.
func (m *DynamicMesh) ReverseOrientation(flipNormals bool) {
	for tid := range m.TriangleIndices() {
		tv := m.Triangle(tid)
		te := m.TriEdges(tid)
		m.setTriangleInternal(tid, tv[0], tv[2], tv[1])
		m.setTriangleEdgesInternal(tid, te[2], te[1], te[0])
		if m.attributes != nil {
			m.attributes.OnReverseTriOrientation(tid)
		}
	}
	if flipNormals && m.normals != nil {
		for vid := range m.VertexIndices() {
			m.setVertexNormalInternal(vid, m.VertexNormal(vid).Neg())
		}
	}
	m.updateTimestamp(true, true)
}

// ReverseTriOrientation flips the winding of a triangle in place. Edge IDs
// are preserved; only the traversal order changes.
func (m *DynamicMesh) ReverseTriOrientation(tid int) MeshResult {
	if !m.IsTriangle(tid) {
		return ResultFailedNotATriangle
	}
	tv := m.Triangle(tid)
	te := m.TriEdges(tid)
	m.setTriangleInternal(tid, tv[0], tv[2], tv[1])
	m.setTriangleEdgesInternal(tid, te[2], te[1], te[0])
	if m.attributes != nil {
		m.attributes.OnReverseTriOrientation(tid)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}
