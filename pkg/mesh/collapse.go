package mesh

// CollapseEdge contracts the edge between vKeep and vRemove, welding
// vRemove into vKeep. The one or two triangles on the edge are deleted and
// everything else incident to vRemove is relabelled onto vKeep, whose
// position (and enabled layers) move to the point at parameter collapseT
// along the edge, 0 staying at vKeep.
//
// The preflight rejects collapses that cannot produce a manifold result:
// one-rings of the endpoints sharing vertices beyond the edge's opposing
// pair, a tetrahedron's last free edge, the last triangle of a boundary
// loop, and interior edges whose endpoints both sit on the boundary. On any
// failure the mesh is unchanged.
func (m *DynamicMesh) CollapseEdge(vKeep, vRemove int, collapseT float64, info *EdgeCollapseInfo) MeshResult {
	if !m.IsVertex(vKeep) || !m.IsVertex(vRemove) {
		return ResultFailedNotAVertex
	}
	b, a := vKeep, vRemove
	eab := m.findEdgeInternal(a, b)
	if eab == InvalidID {
		return ResultFailedNotAnEdge
	}

	_, _, t0, t1 := m.Edge(eab)
	c := findTriOtherVtx(a, b, m.Triangle(t0))
	d := InvalidID
	if t1 != InvalidID {
		d = findTriOtherVtx(a, b, m.Triangle(t1))
		if c == d {
			return ResultFailedFoundDuplicateTriangle
		}
	}
	interior := t1 != InvalidID

	// Link condition: any vertex adjacent to both endpoints besides the
	// opposing pair would end up joined to vKeep by two distinct edges.
	for eid := range m.vertexEdges.Values(a) {
		vo := m.edgeOtherV(eid, a)
		if vo == b || vo == c || vo == d {
			continue
		}
		if m.findEdgeInternal(vo, b) != InvalidID {
			return ResultFailedInvalidNeighbourhood
		}
	}

	if interior {
		// A tetrahedron's edge collapse would stack its two remaining faces
		// onto each other: a touches only b, c, d and the far edge (c,d) is
		// already a two-triangle edge.
		if m.vertexEdges.Count(a) == 3 {
			if ecd := m.findEdgeInternal(c, d); ecd != InvalidID && !m.IsBoundaryEdge(ecd) {
				return ResultFailedCollapseTetrahedron
			}
		}
		// Collapsing an interior edge between two boundary vertices pinches
		// the boundary loop through the interior.
		if m.IsBoundaryVertex(a) && m.IsBoundaryVertex(b) {
			return ResultFailedInvalidNeighbourhood
		}
	} else {
		// The last triangle of a strip: both remaining edges of t0 on the
		// boundary means nothing would be left to absorb the relabelling.
		eac := m.FindEdgeFromTri(a, c, t0)
		ebc := m.FindEdgeFromTri(b, c, t0)
		if m.IsBoundaryEdge(eac) && m.IsBoundaryEdge(ebc) {
			return ResultFailedCollapseTriangle
		}
	}

	if m.vertexRefCounts.RefCount(a)+m.vertexRefCounts.RefCount(b) > maxVertexRefCount {
		return ResultFailedHitValenceLimit
	}

	// Interpolate before the topology changes so both endpoints still read
	// cleanly.
	newInfo := m.lerpVertexInfo(b, a, collapseT)

	// Snapshot a's incidence; the lists mutate under the relabelling below.
	var aEdges, aTris []int
	for eid := range m.vertexEdges.Values(a) {
		aEdges = append(aEdges, eid)
	}
	for tid := range m.VtxTrianglesItr(a) {
		aTris = append(aTris, tid)
	}

	eac := m.FindEdgeFromTri(a, c, t0)
	ebc := m.FindEdgeFromTri(b, c, t0)
	ead, edb := InvalidID, InvalidID
	if interior {
		ead = m.FindEdgeFromTri(a, d, t1)
		edb = m.FindEdgeFromTri(d, b, t1)
	}

	m.vertexEdges.Remove(b, eab)

	// Relabel a's surviving edges and triangles onto b.
	for _, eid := range aEdges {
		if eid == eab || eid == eac || eid == ead {
			continue
		}
		m.replaceEdgeVertex(eid, a, b)
		m.vertexEdges.Insert(b, eid)
	}
	for _, tid := range aTris {
		if tid == t0 || tid == t1 {
			continue
		}
		m.replaceTriangleVertex(tid, a, b)
		m.vertexRefCounts.Decrement(a, 1)
		m.vertexRefCounts.Increment(b, 1)
	}

	// Retire t0: its eac role is taken over by ebc.
	m.collapseTriangleSide(t0, eac, ebc, a, c)
	m.vertexRefCounts.Decrement(a, 1)
	m.vertexRefCounts.Decrement(b, 1)
	m.triangleRefCounts.Decrement(t0, 1)
	if interior {
		m.collapseTriangleSide(t1, ead, edb, a, d)
		m.vertexRefCounts.Decrement(a, 1)
		m.vertexRefCounts.Decrement(b, 1)
		m.triangleRefCounts.Decrement(t1, 1)
	}

	m.edgeRefCounts.Decrement(eab, 1)
	m.vertexRefCounts.Decrement(a, 1) // base reference; a is gone now
	m.vertexEdges.Clear(a)

	m.setVertexInternal(b, newInfo.Position)
	if m.normals != nil {
		m.setVertexNormalInternal(b, newInfo.Normal)
	}
	if m.colors != nil {
		m.setVertexColorInternal(b, newInfo.Color)
	}
	if m.uvs != nil {
		m.setVertexUVInternal(b, newInfo.UV)
	}

	ci := EdgeCollapseInfo{
		KeptVertex:    b,
		RemovedVertex: a,
		OpposingVerts: [2]int{c, d},
		IsBoundary:    !interior,
		CollapsedEdge: eab,
		RemovedTris:   [2]int{t0, t1},
		RemovedEdges:  [2]int{eac, ead},
		KeptEdges:     [2]int{ebc, edb},
		CollapseT:     collapseT,
	}
	if info != nil {
		*info = ci
	}
	if m.attributes != nil {
		m.attributes.OnCollapseEdge(ci)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// collapseTriangleSide retires one triangle of a collapsing edge: the
// triangle on the far side of eRemoved is re-pointed at eKept, eRemoved is
// freed, and the corner vertex loses its t reference.
func (m *DynamicMesh) collapseTriangleSide(t, eRemoved, eKept, a, corner int) {
	tFar := m.edgeOtherT(eRemoved, t)
	m.replaceEdgeTriangle(eKept, t, tFar)
	if tFar != InvalidID {
		m.replaceTriangleEdge(tFar, eRemoved, eKept)
	}
	m.vertexEdges.Remove(corner, eRemoved)
	m.vertexEdges.Remove(a, eRemoved)
	m.edgeRefCounts.Decrement(eRemoved, 1)
	m.vertexRefCounts.Decrement(corner, 1)
}
