package mesh

// AppendVertex adds a vertex at pos and returns its ID. Enabled optional
// layers receive their defaults: normal (0,1,0), color (1,1,1), uv (0,0).
func (m *DynamicMesh) AppendVertex(pos Vector3d) int {
	return m.AppendVertexInfo(VertexInfo{Position: pos})
}

// AppendVertexInfo adds a vertex with explicit layer values. Layer values in
// info are only applied where the matching layer is enabled on the mesh.
func (m *DynamicMesh) AppendVertexInfo(info VertexInfo) int {
	vid := m.vertexRefCounts.Allocate()
	m.appendVertexInternal(vid, info)
	m.updateTimestamp(true, true)
	return vid
}

// AppendVertexFrom copies a vertex, layer values included, from another
// mesh.
func (m *DynamicMesh) AppendVertexFrom(src *DynamicMesh, vid int) int {
	return m.AppendVertexInfo(src.VertexInfoAt(vid))
}

func (m *DynamicMesh) appendVertexInternal(vid int, info VertexInfo) {
	i := 3 * vid
	m.vertices.InsertAt(i, info.Position.X)
	m.vertices.InsertAt(i+1, info.Position.Y)
	m.vertices.InsertAt(i+2, info.Position.Z)
	if m.normals != nil {
		n := info.Normal
		if !info.HasNormal {
			n = Vector3f{0, 1, 0}
		}
		m.setVertexNormalInternal(vid, n)
	}
	if m.colors != nil {
		c := info.Color
		if !info.HasColor {
			c = Vector3f{1, 1, 1}
		}
		m.setVertexColorInternal(vid, c)
	}
	if m.uvs != nil {
		uv := info.UV
		if !info.HasUV {
			uv = Vector2f{}
		}
		m.setVertexUVInternal(vid, uv)
	}
	m.vertexEdges.AllocateAt(vid)
}

// InsertVertex adds a vertex at a caller-chosen ID. Fails with
// ResultFailedVertexAlreadyExists if the slot is occupied. When unsafe is
// true the pool's free list is left stale; the caller must bracket a batch of
// such inserts with BeginUnsafeVertexInsert/EndUnsafeVertexInsert.
func (m *DynamicMesh) InsertVertex(vid int, info VertexInfo, unsafe bool) MeshResult {
	if m.vertexRefCounts.IsValid(vid) {
		return ResultFailedVertexAlreadyExists
	}
	var ok bool
	if unsafe {
		ok = m.vertexRefCounts.AllocateAtUnsafe(vid)
	} else {
		ok = m.vertexRefCounts.AllocateAt(vid)
	}
	if !ok {
		return ResultFailedCannotAllocateVertex
	}
	m.appendVertexInternal(vid, info)
	m.updateTimestamp(true, true)
	return ResultOk
}

// BeginUnsafeVertexInsert starts a batch of unsafe InsertVertex calls.
func (m *DynamicMesh) BeginUnsafeVertexInsert() {}

// EndUnsafeVertexInsert rebuilds the vertex pool's free list after a batch
// of unsafe inserts.
func (m *DynamicMesh) EndUnsafeVertexInsert() {
	m.vertexRefCounts.RebuildFreeList()
}

// AppendTriangle adds a triangle over three existing vertices, in the given
// orientation, with no group. It returns the new triangle ID on success,
// InvalidID when an argument is not a valid vertex or the vertices are not
// distinct, and NonManifoldID when the insertion would give an edge a third
// triangle or the identical triangle already exists. On any failure the mesh
// is unchanged.
func (m *DynamicMesh) AppendTriangle(a, b, c int) int {
	return m.AppendTriangleGroup(a, b, c, InvalidGroupID)
}

// AppendTriangleGroup is AppendTriangle with an explicit group ID.
func (m *DynamicMesh) AppendTriangleGroup(a, b, c, gid int) int {
	if a == b || b == c || a == c {
		return InvalidID
	}
	if !m.IsVertex(a) || !m.IsVertex(b) || !m.IsVertex(c) {
		return InvalidID
	}

	// Any existing edge already carrying two triangles rejects the append;
	// an existing edge with one triangle in the same (a,b) direction means
	// the new triangle would duplicate its winding across that edge.
	e0 := m.findEdgeInternal(a, b)
	e1 := m.findEdgeInternal(b, c)
	e2 := m.findEdgeInternal(c, a)
	if m.edgeIsFull(e0) || m.edgeIsFull(e1) || m.edgeIsFull(e2) {
		return NonManifoldID
	}
	if m.sameTriangleExists(c, e0, e1, e2) {
		return NonManifoldID
	}

	tid := m.addTriangleOnly(a, b, c, gid)
	m.attachTriangleEdges(tid, a, b, c, e0, e1, e2)
	m.vertexRefCounts.Increment(a, 1)
	m.vertexRefCounts.Increment(b, 1)
	m.vertexRefCounts.Increment(c, 1)

	if m.attributes != nil {
		m.attributes.OnNewTriangle(tid, false)
	}
	m.updateTimestamp(true, true)
	return tid
}

// InsertTriangle adds a triangle at a caller-chosen ID, same checks as
// AppendTriangleGroup but with structured failures.
func (m *DynamicMesh) InsertTriangle(tid, a, b, c, gid int) MeshResult {
	if m.triangleRefCounts.IsValid(tid) {
		return ResultFailedTriangleAlreadyExists
	}
	if a == b || b == c || a == c {
		return ResultFailedNotAVertex
	}
	if !m.IsVertex(a) || !m.IsVertex(b) || !m.IsVertex(c) {
		return ResultFailedNotAVertex
	}
	e0 := m.findEdgeInternal(a, b)
	e1 := m.findEdgeInternal(b, c)
	e2 := m.findEdgeInternal(c, a)
	if m.edgeIsFull(e0) || m.edgeIsFull(e1) || m.edgeIsFull(e2) {
		return ResultFailedWouldCreateNonmanifoldEdge
	}
	if m.sameTriangleExists(c, e0, e1, e2) {
		return ResultFailedTriangleAlreadyExists
	}
	if !m.triangleRefCounts.AllocateAt(tid) {
		return ResultFailedCannotAllocateTriangle
	}
	i := 3 * tid
	m.triangles.InsertAt(i, a)
	m.triangles.InsertAt(i+1, b)
	m.triangles.InsertAt(i+2, c)
	m.triangleEdges.InsertAt(i, InvalidID)
	m.triangleEdges.InsertAt(i+1, InvalidID)
	m.triangleEdges.InsertAt(i+2, InvalidID)
	if m.triangleGroups != nil {
		m.triangleGroups.InsertAt(tid, gid)
		if gid >= m.groupIDCounter {
			m.groupIDCounter = gid + 1
		}
	}
	m.attachTriangleEdges(tid, a, b, c, e0, e1, e2)
	m.vertexRefCounts.Increment(a, 1)
	m.vertexRefCounts.Increment(b, 1)
	m.vertexRefCounts.Increment(c, 1)

	if m.attributes != nil {
		m.attributes.OnNewTriangle(tid, true)
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// sameTriangleExists reports whether a triangle over exactly the three
// corners already exists, in either orientation. Only possible when all
// three edges were found and bound a common triangle.
func (m *DynamicMesh) sameTriangleExists(c, e0, e1, e2 int) bool {
	if e0 == InvalidID || e1 == InvalidID || e2 == InvalidID {
		return false
	}
	t0, _ := m.EdgeT(e0)
	tv := m.Triangle(t0)
	return findTriIndex(c, tv) >= 0
}

// edgeIsFull reports whether eid is a valid edge already carrying two
// triangles.
func (m *DynamicMesh) edgeIsFull(eid int) bool {
	if eid == InvalidID {
		return false
	}
	_, t1 := m.EdgeT(eid)
	return t1 != InvalidID
}

// attachTriangleEdges wires tid to its three boundary edges, attaching to
// the existing edge where one was found and allocating a fresh boundary edge
// otherwise.
func (m *DynamicMesh) attachTriangleEdges(tid, a, b, c, e0, e1, e2 int) {
	m.setTriangleEdgesInternal(tid,
		m.attachOrAddEdge(tid, a, b, e0),
		m.attachOrAddEdge(tid, b, c, e1),
		m.attachOrAddEdge(tid, c, a, e2))
}

func (m *DynamicMesh) attachOrAddEdge(tid, vA, vB, eid int) int {
	if eid == InvalidID {
		return m.addEdgeInternal(vA, vB, tid, InvalidID)
	}
	m.edges.Set(4*eid+3, tid)
	return eid
}
