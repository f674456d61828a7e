package mesh

// MergeEdges welds the boundary edge eDiscard onto the boundary edge eKeep,
// joining their boundary loops. The kept edge's endpoints absorb the
// discarded edge's endpoints, keeping their positions and layer values. The
// loops must run in opposite directions across the seam, the usual situation
// for two holes facing each other; when a crossed pairing of the endpoints
// is strictly closer in space the call fails with
// ResultFailedSameOrientation instead of producing a twisted weld.
func (m *DynamicMesh) MergeEdges(eKeep, eDiscard int, info *MergeEdgesInfo) MeshResult {
	if !m.IsEdge(eKeep) || !m.IsEdge(eDiscard) || eKeep == eDiscard {
		return ResultFailedNotAnEdge
	}
	if !m.IsBoundaryEdge(eKeep) || !m.IsBoundaryEdge(eDiscard) {
		return ResultFailedNotABoundaryEdge
	}

	a, b, tab, _ := m.Edge(eKeep)
	if !orientTriEdge(&a, &b, m.Triangle(tab)) {
		return ResultFailedBrokenTopology
	}
	c, d, tcd, _ := m.Edge(eDiscard)
	if !orientTriEdge(&c, &d, m.Triangle(tcd)) {
		return ResultFailedBrokenTopology
	}
	// Opposing loops traverse the seam in opposite directions, so the
	// discarded pair is reversed: a welds to c, b to d.
	c, d = d, c

	if a != c && b != d {
		straight := m.Vertex(a).DistanceSquared(m.Vertex(c)) + m.Vertex(b).DistanceSquared(m.Vertex(d))
		crossed := m.Vertex(a).DistanceSquared(m.Vertex(d)) + m.Vertex(b).DistanceSquared(m.Vertex(c))
		if crossed < straight {
			return ResultFailedSameOrientation
		}
	}
	if a != c && m.findEdgeInternal(a, c) != InvalidID {
		return ResultFailedInvalidNeighbourhood
	}
	if b != d && m.findEdgeInternal(b, d) != InvalidID {
		return ResultFailedInvalidNeighbourhood
	}
	if m.vertexRefCounts.RefCount(a)+m.vertexRefCounts.RefCount(c) > maxVertexRefCount ||
		m.vertexRefCounts.RefCount(b)+m.vertexRefCounts.RefCount(d) > maxVertexRefCount {
		return ResultFailedHitValenceLimit
	}
	if c != a {
		if r := m.checkMergeDuplicate(c, a, d); !r.Ok() {
			return r
		}
	}
	if d != b {
		if r := m.checkMergeDuplicate(d, b, c); !r.Ok() {
			return r
		}
	}

	// Weld the edge pair: tcd swaps eDiscard for eKeep, which becomes
	// interior.
	m.replaceTriangleEdge(tcd, eDiscard, eKeep)
	m.setEdgeTrianglesInternal(eKeep, tab, tcd)
	m.vertexEdges.Remove(c, eDiscard)
	m.vertexEdges.Remove(d, eDiscard)
	m.edgeRefCounts.Decrement(eDiscard, 1)

	if c != a {
		m.weldVertexInto(c, a)
	}
	if d != b {
		m.weldVertexInto(d, b)
	}

	mi := MergeEdgesInfo{
		KeptEdge:     eKeep,
		RemovedEdge:  eDiscard,
		KeptVerts:    [2]int{a, b},
		RemovedVerts: [2]int{c, d},
		ExtraRemoved: [2]int{InvalidID, InvalidID},
		ExtraKept:    [2]int{InvalidID, InvalidID},
	}
	// The weld can leave two boundary edges spanning the same endpoints at
	// either seam vertex; fold each such pair into a single interior edge.
	mi.ExtraKept[0], mi.ExtraRemoved[0] = m.mergeDuplicateBoundaryEdges(a)
	mi.ExtraKept[1], mi.ExtraRemoved[1] = m.mergeDuplicateBoundaryEdges(b)

	if info != nil {
		*info = mi
	}
	if m.attributes != nil {
		m.attributes.OnMergeEdges(mi)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// checkMergeDuplicate scans the one-ring of a vertex about to be welded away
// for a neighbour that already shares an edge with the vertex it welds into.
// Such a weld leaves two edges spanning the same endpoints; the boundary-pair
// fold afterwards can only absorb the pair when both copies are boundary
// edges, so anything else is rejected up front.
func (m *DynamicMesh) checkMergeDuplicate(vDiscard, vKeep, partner int) MeshResult {
	for eid := range m.vertexEdges.Values(vDiscard) {
		x := m.edgeOtherV(eid, vDiscard)
		if x == partner || x == vKeep {
			continue
		}
		dup := m.findEdgeInternal(vKeep, x)
		if dup == InvalidID {
			continue
		}
		if !m.IsBoundaryEdge(eid) || !m.IsBoundaryEdge(dup) {
			return ResultFailedInvalidNeighbourhood
		}
	}
	return ResultOk
}

// weldVertexInto relabels everything incident to vOld onto vNew and frees
// vOld. vNew keeps its own position and layer values.
func (m *DynamicMesh) weldVertexInto(vOld, vNew int) {
	var edges, tris []int
	for eid := range m.vertexEdges.Values(vOld) {
		edges = append(edges, eid)
	}
	for tid := range m.VtxTrianglesItr(vOld) {
		tris = append(tris, tid)
	}
	for _, eid := range edges {
		m.replaceEdgeVertex(eid, vOld, vNew)
		m.vertexEdges.Insert(vNew, eid)
	}
	for _, tid := range tris {
		m.replaceTriangleVertex(tid, vOld, vNew)
		m.vertexRefCounts.Decrement(vOld, 1)
		m.vertexRefCounts.Increment(vNew, 1)
	}
	m.vertexRefCounts.Decrement(vOld, 1)
	m.vertexEdges.Clear(vOld)
}

// mergeDuplicateBoundaryEdges looks for a pair of boundary edges at v with
// the same far endpoint and folds them into one interior edge, returning
// (kept, removed), or (InvalidID, InvalidID) when no pair exists.
func (m *DynamicMesh) mergeDuplicateBoundaryEdges(v int) (int, int) {
	var edges []int
	for eid := range m.vertexEdges.Values(v) {
		edges = append(edges, eid)
	}
	for i := 0; i < len(edges); i++ {
		if !m.IsBoundaryEdge(edges[i]) {
			continue
		}
		vi := m.edgeOtherV(edges[i], v)
		for j := i + 1; j < len(edges); j++ {
			if !m.IsBoundaryEdge(edges[j]) || m.edgeOtherV(edges[j], v) != vi {
				continue
			}
			keep, drop := edges[i], edges[j]
			tDrop, _ := m.EdgeT(drop)
			m.replaceTriangleEdge(tDrop, drop, keep)
			tKeep, _ := m.EdgeT(keep)
			m.setEdgeTrianglesInternal(keep, tKeep, tDrop)
			m.vertexEdges.Remove(v, drop)
			m.vertexEdges.Remove(vi, drop)
			m.edgeRefCounts.Decrement(drop, 1)
			return keep, drop
		}
	}
	return InvalidID, InvalidID
}
