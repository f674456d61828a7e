package mesh

import "github.com/chazu/meshkit/pkg/container"

// CompactInPlace re-packs all three ID spaces to be dense, moving elements
// from the high end of each pool into the holes left by earlier deletions
// and rewriting every cross-reference. Iteration order afterwards matches ID
// order, not the original insertion order. When maps is non-nil it receives
// the old-ID to new-ID mapping for every element kind.
//
// Unsupported while an attribute overlay is attached: the overlay's
// per-element state would silently desynchronise from the renumbered IDs.
func (m *DynamicMesh) CompactInPlace(maps *CompactMaps) MeshResult {
	if m.attributes != nil {
		return ResultFailedUnsupportedWithAttributes
	}

	var mapV, mapT, mapE []int
	if maps != nil {
		mapV = identityMap(m.vertexRefCounts.MaxIndex(), m.IsVertex)
		mapT = identityMap(m.triangleRefCounts.MaxIndex(), m.IsTriangle)
		mapE = identityMap(m.edgeRefCounts.MaxIndex(), m.IsEdge)
	}

	// Vertices first so the edge and triangle buffers are rewritten once.
	compactPool(m.vertexRefCounts, mapV, m.moveVertex)
	compactPool(m.triangleRefCounts, mapT, m.moveTriangle)
	compactPool(m.edgeRefCounts, mapE, m.moveEdge)

	nv, nt, ne := m.VertexCount(), m.TriangleCount(), m.EdgeCount()
	m.vertexRefCounts.Trim(nv)
	m.vertices.Resize(3 * nv)
	if m.normals != nil {
		m.normals.Resize(3 * nv)
	}
	if m.colors != nil {
		m.colors.Resize(3 * nv)
	}
	if m.uvs != nil {
		m.uvs.Resize(2 * nv)
	}
	m.vertexEdges.Resize(nv)

	m.triangleRefCounts.Trim(nt)
	m.triangles.Resize(3 * nt)
	m.triangleEdges.Resize(3 * nt)
	if m.triangleGroups != nil {
		m.triangleGroups.Resize(nt)
	}

	m.edgeRefCounts.Trim(ne)
	m.edges.Resize(4 * ne)

	if maps != nil {
		*maps = CompactMaps{Vertices: mapV, Triangles: mapT, Edges: mapE}
	}
	m.updateTimestamp(true, true)
	return ResultOk
}

// compactPool runs the two-cursor pass over one pool: the highest valid
// entry fills the lowest hole until the valid range is contiguous. The
// pool's free list is stale afterwards; the caller's Trim resets it.
func compactPool(pool *container.RefCountVector[int16], ids []int, move func(from, to int)) {
	iCur, iLast := 0, pool.MaxIndex()-1
	for iCur < iLast {
		for iCur < iLast && pool.IsValid(iCur) {
			iCur++
		}
		for iLast > iCur && !pool.IsValid(iLast) {
			iLast--
		}
		if iCur >= iLast {
			break
		}
		move(iLast, iCur)
		pool.MoveEntry(iLast, iCur)
		if ids != nil {
			ids[iLast] = iCur
		}
	}
}

func identityMap(n int, valid func(int) bool) []int {
	ids := make([]int, n)
	for i := range ids {
		if valid(i) {
			ids[i] = i
		} else {
			ids[i] = InvalidID
		}
	}
	return ids
}

// moveVertex relocates vertex data and rewrites every incident edge and
// triangle to the new ID. The pool entry itself is moved by the caller.
func (m *DynamicMesh) moveVertex(from, to int) {
	m.vertices.Set(3*to, m.vertices.At(3*from))
	m.vertices.Set(3*to+1, m.vertices.At(3*from+1))
	m.vertices.Set(3*to+2, m.vertices.At(3*from+2))
	if m.normals != nil {
		m.normals.Set(3*to, m.normals.At(3*from))
		m.normals.Set(3*to+1, m.normals.At(3*from+1))
		m.normals.Set(3*to+2, m.normals.At(3*from+2))
	}
	if m.colors != nil {
		m.colors.Set(3*to, m.colors.At(3*from))
		m.colors.Set(3*to+1, m.colors.At(3*from+1))
		m.colors.Set(3*to+2, m.colors.At(3*from+2))
	}
	if m.uvs != nil {
		m.uvs.Set(2*to, m.uvs.At(2*from))
		m.uvs.Set(2*to+1, m.uvs.At(2*from+1))
	}
	m.vertexEdges.Move(from, to)

	// Collect the incident triangles through the relocated adjacency list
	// before any reference is rewritten.
	var tris []int
	for eid := range m.vertexEdges.Values(to) {
		t0, t1 := m.EdgeT(eid)
		if !contains(tris, t0) {
			tris = append(tris, t0)
		}
		if t1 != InvalidID && !contains(tris, t1) {
			tris = append(tris, t1)
		}
	}
	for eid := range m.vertexEdges.Values(to) {
		m.replaceEdgeVertex(eid, from, to)
	}
	for _, tid := range tris {
		m.replaceTriangleVertex(tid, from, to)
	}
}

func (m *DynamicMesh) moveTriangle(from, to int) {
	for j := 0; j < 3; j++ {
		m.triangles.Set(3*to+j, m.triangles.At(3*from+j))
		m.triangleEdges.Set(3*to+j, m.triangleEdges.At(3*from+j))
	}
	if m.triangleGroups != nil {
		m.triangleGroups.Set(to, m.triangleGroups.At(from))
	}
	te := m.TriEdges(to)
	for j := 0; j < 3; j++ {
		m.replaceEdgeTriangle(te[j], from, to)
	}
}

func (m *DynamicMesh) moveEdge(from, to int) {
	for j := 0; j < 4; j++ {
		m.edges.Set(4*to+j, m.edges.At(4*from+j))
	}
	a, b, t0, t1 := m.Edge(to)
	m.vertexEdges.Replace(a, func(e int) bool { return e == from }, to)
	m.vertexEdges.Replace(b, func(e int) bool { return e == from }, to)
	m.replaceTriangleEdge(t0, from, to)
	if t1 != InvalidID {
		m.replaceTriangleEdge(t1, from, to)
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
