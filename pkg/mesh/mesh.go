// Package mesh implements a dynamic manifold triangle mesh: an indexed mesh
// container with reference-counted element pools and incremental topological
// edit operators (split/flip/collapse/merge/poke edge, insert/remove/reverse
// triangle) plus in-place compaction of the element ID space.
//
// All element state lives in flat growable buffers addressed by integer IDs;
// there is no per-element heap object. Vertices, triangles, and edges each
// own a reference-counted index pool whose counts track structural occupancy
// (a vertex's count is 1 for its base allocation plus 1 per triangle corner
// that uses it), not shared ownership.
//
// The structure is single-writer: no operator takes a lock and none is
// re-entrant. Readers are consistent only between mutating calls; the
// monotonically increasing timestamps let external caches detect staleness
// cheaply.
package mesh

import (
	"iter"

	"github.com/chazu/meshkit/pkg/container"
)

const (
	// InvalidID marks "no such element".
	InvalidID = -1

	// NonManifoldID is returned by the triangle-append fast path to signal
	// a rejected non-manifold insertion, distinct from a hard failure.
	NonManifoldID = -2

	// InvalidGroupID marks a triangle with no group assigned.
	InvalidGroupID = -1

	// maxVertexRefCount keeps raw counts representable in the pool's int16
	// counters with headroom. Operators that would push a vertex past this
	// fail with ResultFailedHitValenceLimit instead of overflowing.
	maxVertexRefCount = 32764
)

// DynamicMesh is the mesh topology kernel. The zero value is not usable;
// call New.
type DynamicMesh struct {
	vertexRefCounts *container.RefCountVector[int16]
	vertices        *container.DVector[float64] // 3 per vertex
	normals         *container.DVector[float32] // 3 per vertex, nil when layer disabled
	colors          *container.DVector[float32] // 3 per vertex, nil when layer disabled
	uvs             *container.DVector[float32] // 2 per vertex, nil when layer disabled
	vertexEdges     *container.SmallListSet

	triangleRefCounts *container.RefCountVector[int16]
	triangles         *container.DVector[int] // 3 per triangle
	triangleEdges     *container.DVector[int] // 3 per triangle
	triangleGroups    *container.DVector[int] // 1 per triangle, nil when disabled
	groupIDCounter    int

	edgeRefCounts *container.RefCountVector[int16]
	edges         *container.DVector[int] // 4 per edge: vA, vB, tA, tB (vA < vB)

	attributes AttributeSet

	timestamp         uint64
	shapeTimestamp    uint64
	topologyTimestamp uint64

	cachedBounds        AxisBox3d
	cachedBoundsStamp   uint64
	cachedBoundsValid   bool
	cachedIsClosed      bool
	cachedIsClosedStamp uint64
	cachedIsClosedValid bool
}

// New creates an empty mesh with only the required position layer enabled.
func New() *DynamicMesh {
	return &DynamicMesh{
		vertexRefCounts:   container.NewRefCountVector[int16](),
		vertices:          container.NewDVector[float64](),
		vertexEdges:       container.NewSmallListSet(),
		triangleRefCounts: container.NewRefCountVector[int16](),
		triangles:         container.NewDVector[int](),
		triangleEdges:     container.NewDVector[int](),
		edgeRefCounts:     container.NewRefCountVector[int16](),
		edges:             container.NewDVector[int](),
	}
}

// Copy returns a deep copy of the mesh, preserving all element IDs
// (including holes in the ID space). The attribute overlay reference is not
// copied.
func (m *DynamicMesh) Copy() *DynamicMesh {
	c := &DynamicMesh{
		vertexRefCounts:   m.vertexRefCounts.Clone(),
		vertices:          m.vertices.Clone(),
		vertexEdges:       m.vertexEdges.Clone(),
		triangleRefCounts: m.triangleRefCounts.Clone(),
		triangles:         m.triangles.Clone(),
		triangleEdges:     m.triangleEdges.Clone(),
		edgeRefCounts:     m.edgeRefCounts.Clone(),
		edges:             m.edges.Clone(),
		groupIDCounter:    m.groupIDCounter,
		timestamp:         m.timestamp,
		shapeTimestamp:    m.shapeTimestamp,
		topologyTimestamp: m.topologyTimestamp,
	}
	if m.normals != nil {
		c.normals = m.normals.Clone()
	}
	if m.colors != nil {
		c.colors = m.colors.Clone()
	}
	if m.uvs != nil {
		c.uvs = m.uvs.Clone()
	}
	if m.triangleGroups != nil {
		c.triangleGroups = m.triangleGroups.Clone()
	}
	return c
}

// Clear resets the mesh to empty, keeping layer enablement.
func (m *DynamicMesh) Clear() {
	hadNormals, hadColors, hadUVs := m.HasVertexNormals(), m.HasVertexColors(), m.HasVertexUVs()
	hadGroups := m.HasTriangleGroups()
	attribs := m.attributes
	*m = *New()
	if hadNormals {
		m.normals = container.NewDVector[float32]()
	}
	if hadColors {
		m.colors = container.NewDVector[float32]()
	}
	if hadUVs {
		m.uvs = container.NewDVector[float32]()
	}
	if hadGroups {
		m.triangleGroups = container.NewDVector[int]()
	}
	m.attributes = attribs
	m.updateTimestamp(true, true)
}

// ---------------------------------------------------------------------------
// Counts and validity
// ---------------------------------------------------------------------------

func (m *DynamicMesh) VertexCount() int   { return m.vertexRefCounts.Count() }
func (m *DynamicMesh) TriangleCount() int { return m.triangleRefCounts.Count() }
func (m *DynamicMesh) EdgeCount() int     { return m.edgeRefCounts.Count() }

// MaxVertexID returns one past the highest vertex ID ever issued.
func (m *DynamicMesh) MaxVertexID() int   { return m.vertexRefCounts.MaxIndex() }
func (m *DynamicMesh) MaxTriangleID() int { return m.triangleRefCounts.MaxIndex() }
func (m *DynamicMesh) MaxEdgeID() int     { return m.edgeRefCounts.MaxIndex() }

func (m *DynamicMesh) IsVertex(vid int) bool   { return m.vertexRefCounts.IsValid(vid) }
func (m *DynamicMesh) IsTriangle(tid int) bool { return m.triangleRefCounts.IsValid(tid) }
func (m *DynamicMesh) IsEdge(eid int) bool     { return m.edgeRefCounts.IsValid(eid) }

// IsCompact reports whether every element kind has a dense ID space.
func (m *DynamicMesh) IsCompact() bool {
	return m.vertexRefCounts.IsDense() && m.triangleRefCounts.IsDense() && m.edgeRefCounts.IsDense()
}

// IsCompactV reports whether the vertex ID space alone is dense.
func (m *DynamicMesh) IsCompactV() bool {
	return m.vertexRefCounts.IsDense()
}

// VertexRefCount returns the raw structural reference count of a vertex:
// 1 for the base allocation plus 1 per triangle corner using it.
func (m *DynamicMesh) VertexRefCount(vid int) int {
	return m.vertexRefCounts.RefCount(vid)
}

// VertexIndices iterates the valid vertex IDs in increasing order, skipping
// free-list holes.
func (m *DynamicMesh) VertexIndices() iter.Seq[int] { return m.vertexRefCounts.ValidIndices() }

// TriangleIndices iterates the valid triangle IDs in increasing order.
func (m *DynamicMesh) TriangleIndices() iter.Seq[int] { return m.triangleRefCounts.ValidIndices() }

// EdgeIndices iterates the valid edge IDs in increasing order.
func (m *DynamicMesh) EdgeIndices() iter.Seq[int] { return m.edgeRefCounts.ValidIndices() }

// ---------------------------------------------------------------------------
// Timestamps
// ---------------------------------------------------------------------------

// Timestamp increases on every mutation.
func (m *DynamicMesh) Timestamp() uint64 { return m.timestamp }

// ShapeTimestamp increases on any position or topology change.
func (m *DynamicMesh) ShapeTimestamp() uint64 { return m.shapeTimestamp }

// TopologyTimestamp increases only on structural changes, not vertex moves.
func (m *DynamicMesh) TopologyTimestamp() uint64 { return m.topologyTimestamp }

func (m *DynamicMesh) updateTimestamp(shapeChange, topologyChange bool) {
	m.timestamp++
	if shapeChange || topologyChange {
		m.shapeTimestamp++
	}
	if topologyChange {
		m.topologyTimestamp++
	}
}

// ---------------------------------------------------------------------------
// Attribute overlay
// ---------------------------------------------------------------------------

// EnableAttributes attaches an attribute overlay. Passing nil detaches.
func (m *DynamicMesh) EnableAttributes(a AttributeSet) { m.attributes = a }

// Attributes returns the attached overlay, nil if none.
func (m *DynamicMesh) Attributes() AttributeSet { return m.attributes }

// HasAttributes reports whether an overlay is attached.
func (m *DynamicMesh) HasAttributes() bool { return m.attributes != nil }

// ---------------------------------------------------------------------------
// Vertex access
// ---------------------------------------------------------------------------

// Vertex returns the position of a valid vertex.
func (m *DynamicMesh) Vertex(vid int) Vector3d {
	i := 3 * vid
	return Vector3d{m.vertices.At(i), m.vertices.At(i + 1), m.vertices.At(i + 2)}
}

// SetVertex moves a vertex and bumps the shape timestamp.
func (m *DynamicMesh) SetVertex(vid int, pos Vector3d) MeshResult {
	if !m.IsVertex(vid) {
		return ResultFailedNotAVertex
	}
	m.setVertexInternal(vid, pos)
	m.updateTimestamp(true, false)
	return ResultOk
}

func (m *DynamicMesh) setVertexInternal(vid int, pos Vector3d) {
	i := 3 * vid
	m.vertices.Set(i, pos.X)
	m.vertices.Set(i+1, pos.Y)
	m.vertices.Set(i+2, pos.Z)
}

// HasVertexNormals reports whether the normal layer is enabled.
func (m *DynamicMesh) HasVertexNormals() bool { return m.normals != nil }
func (m *DynamicMesh) HasVertexColors() bool  { return m.colors != nil }
func (m *DynamicMesh) HasVertexUVs() bool     { return m.uvs != nil }

// EnableVertexNormals enables the normal layer, writing initial for every
// existing vertex. No-op if already enabled.
func (m *DynamicMesh) EnableVertexNormals(initial Vector3f) {
	if m.normals != nil {
		return
	}
	m.normals = container.NewDVector[float32]()
	m.normals.Resize(3 * m.MaxVertexID())
	for vid := range m.VertexIndices() {
		m.setVertexNormalInternal(vid, initial)
	}
}

// DiscardVertexNormals drops the normal layer.
func (m *DynamicMesh) DiscardVertexNormals() { m.normals = nil }

func (m *DynamicMesh) EnableVertexColors(initial Vector3f) {
	if m.colors != nil {
		return
	}
	m.colors = container.NewDVector[float32]()
	m.colors.Resize(3 * m.MaxVertexID())
	for vid := range m.VertexIndices() {
		m.setVertexColorInternal(vid, initial)
	}
}

func (m *DynamicMesh) DiscardVertexColors() { m.colors = nil }

func (m *DynamicMesh) EnableVertexUVs(initial Vector2f) {
	if m.uvs != nil {
		return
	}
	m.uvs = container.NewDVector[float32]()
	m.uvs.Resize(2 * m.MaxVertexID())
	for vid := range m.VertexIndices() {
		m.setVertexUVInternal(vid, initial)
	}
}

func (m *DynamicMesh) DiscardVertexUVs() { m.uvs = nil }

// VertexNormal returns the vertex normal; the layer must be enabled.
func (m *DynamicMesh) VertexNormal(vid int) Vector3f {
	i := 3 * vid
	return Vector3f{m.normals.At(i), m.normals.At(i + 1), m.normals.At(i + 2)}
}

func (m *DynamicMesh) SetVertexNormal(vid int, n Vector3f) MeshResult {
	if !m.IsVertex(vid) {
		return ResultFailedNotAVertex
	}
	if m.normals == nil {
		return ResultFailedBrokenTopology
	}
	m.setVertexNormalInternal(vid, n)
	m.updateTimestamp(true, false)
	return ResultOk
}

func (m *DynamicMesh) setVertexNormalInternal(vid int, n Vector3f) {
	i := 3 * vid
	m.normals.InsertAt(i, n.X)
	m.normals.InsertAt(i+1, n.Y)
	m.normals.InsertAt(i+2, n.Z)
}

func (m *DynamicMesh) VertexColor(vid int) Vector3f {
	i := 3 * vid
	return Vector3f{m.colors.At(i), m.colors.At(i + 1), m.colors.At(i + 2)}
}

func (m *DynamicMesh) SetVertexColor(vid int, c Vector3f) MeshResult {
	if !m.IsVertex(vid) {
		return ResultFailedNotAVertex
	}
	if m.colors == nil {
		return ResultFailedBrokenTopology
	}
	m.setVertexColorInternal(vid, c)
	m.updateTimestamp(true, false)
	return ResultOk
}

func (m *DynamicMesh) setVertexColorInternal(vid int, c Vector3f) {
	i := 3 * vid
	m.colors.InsertAt(i, c.X)
	m.colors.InsertAt(i+1, c.Y)
	m.colors.InsertAt(i+2, c.Z)
}

func (m *DynamicMesh) VertexUV(vid int) Vector2f {
	i := 2 * vid
	return Vector2f{m.uvs.At(i), m.uvs.At(i + 1)}
}

func (m *DynamicMesh) SetVertexUV(vid int, uv Vector2f) MeshResult {
	if !m.IsVertex(vid) {
		return ResultFailedNotAVertex
	}
	if m.uvs == nil {
		return ResultFailedBrokenTopology
	}
	m.setVertexUVInternal(vid, uv)
	m.updateTimestamp(true, false)
	return ResultOk
}

func (m *DynamicMesh) setVertexUVInternal(vid int, uv Vector2f) {
	i := 2 * vid
	m.uvs.InsertAt(i, uv.X)
	m.uvs.InsertAt(i+1, uv.Y)
}

// VertexInfoAt bundles all enabled layers for a vertex.
func (m *DynamicMesh) VertexInfoAt(vid int) VertexInfo {
	info := VertexInfo{Position: m.Vertex(vid)}
	if m.normals != nil {
		info.Normal, info.HasNormal = m.VertexNormal(vid), true
	}
	if m.colors != nil {
		info.Color, info.HasColor = m.VertexColor(vid), true
	}
	if m.uvs != nil {
		info.UV, info.HasUV = m.VertexUV(vid), true
	}
	return info
}

// ---------------------------------------------------------------------------
// Triangle access
// ---------------------------------------------------------------------------

// Triangle returns the ordered vertex triple of a triangle; the order
// defines its orientation.
func (m *DynamicMesh) Triangle(tid int) [3]int {
	i := 3 * tid
	return [3]int{m.triangles.At(i), m.triangles.At(i + 1), m.triangles.At(i + 2)}
}

// TriEdges returns the edge triple of a triangle; edge j connects vertex j
// to vertex (j+1)%3.
func (m *DynamicMesh) TriEdges(tid int) [3]int {
	i := 3 * tid
	return [3]int{m.triangleEdges.At(i), m.triangleEdges.At(i + 1), m.triangleEdges.At(i + 2)}
}

// HasTriangleGroups reports whether the group layer is enabled.
func (m *DynamicMesh) HasTriangleGroups() bool { return m.triangleGroups != nil }

// EnableTriangleGroups enables the group layer, tagging existing triangles
// with initial.
func (m *DynamicMesh) EnableTriangleGroups(initial int) {
	if m.triangleGroups != nil {
		return
	}
	m.triangleGroups = container.NewDVector[int]()
	m.triangleGroups.Resize(m.MaxTriangleID())
	for tid := range m.TriangleIndices() {
		m.triangleGroups.Set(tid, initial)
	}
	if initial >= m.groupIDCounter {
		m.groupIDCounter = initial + 1
	}
}

// TriangleGroup returns a triangle's group ID, InvalidGroupID when the layer
// is disabled.
func (m *DynamicMesh) TriangleGroup(tid int) int {
	if m.triangleGroups == nil {
		return InvalidGroupID
	}
	return m.triangleGroups.At(tid)
}

// SetTriangleGroup tags a triangle.
func (m *DynamicMesh) SetTriangleGroup(tid, gid int) MeshResult {
	if !m.IsTriangle(tid) {
		return ResultFailedNotATriangle
	}
	if m.triangleGroups == nil {
		return ResultFailedBrokenTopology
	}
	m.triangleGroups.Set(tid, gid)
	if gid >= m.groupIDCounter {
		m.groupIDCounter = gid + 1
	}
	m.updateTimestamp(false, false)
	return ResultOk
}

// AllocateTriangleGroup issues a fresh group ID, never reused within this
// mesh instance.
func (m *DynamicMesh) AllocateTriangleGroup() int {
	gid := m.groupIDCounter
	m.groupIDCounter++
	return gid
}

// MaxGroupID returns one past the highest group ID ever issued or assigned.
func (m *DynamicMesh) MaxGroupID() int { return m.groupIDCounter }

// TriVertexPositions returns the positions of a triangle's corners.
func (m *DynamicMesh) TriVertexPositions(tid int) [3]Vector3d {
	tv := m.Triangle(tid)
	return [3]Vector3d{m.Vertex(tv[0]), m.Vertex(tv[1]), m.Vertex(tv[2])}
}

// TriNormal returns the unit face normal of a triangle.
func (m *DynamicMesh) TriNormal(tid int) Vector3d {
	p := m.TriVertexPositions(tid)
	return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Normalized()
}

// TriArea returns the area of a triangle.
func (m *DynamicMesh) TriArea(tid int) float64 {
	p := m.TriVertexPositions(tid)
	return 0.5 * p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length()
}

// TriCentroid returns the centroid of a triangle.
func (m *DynamicMesh) TriCentroid(tid int) Vector3d {
	p := m.TriVertexPositions(tid)
	return p[0].Add(p[1]).Add(p[2]).Scale(1.0 / 3.0)
}

// TriNeighbourTris returns, for each edge of tid, the triangle on the other
// side, InvalidID where the edge is a boundary edge.
func (m *DynamicMesh) TriNeighbourTris(tid int) [3]int {
	te := m.TriEdges(tid)
	var nbrs [3]int
	for j := 0; j < 3; j++ {
		nbrs[j] = m.edgeOtherT(te[j], tid)
	}
	return nbrs
}

// ---------------------------------------------------------------------------
// Edge access
// ---------------------------------------------------------------------------

// EdgeV returns an edge's vertex pair, smaller ID first.
func (m *DynamicMesh) EdgeV(eid int) (int, int) {
	i := 4 * eid
	return m.edges.At(i), m.edges.At(i + 1)
}

// EdgeT returns an edge's incident triangles. The first is always valid;
// the second is InvalidID for a boundary edge.
func (m *DynamicMesh) EdgeT(eid int) (int, int) {
	i := 4 * eid
	return m.edges.At(i + 2), m.edges.At(i + 3)
}

// Edge returns an edge's full quadruple (vA, vB, tA, tB).
func (m *DynamicMesh) Edge(eid int) (int, int, int, int) {
	i := 4 * eid
	return m.edges.At(i), m.edges.At(i + 1), m.edges.At(i + 2), m.edges.At(i + 3)
}

// EdgeOpposingV returns, for each triangle of the edge, the vertex opposite
// the edge. The second is InvalidID for a boundary edge.
func (m *DynamicMesh) EdgeOpposingV(eid int) (int, int) {
	a, b, t0, t1 := m.Edge(eid)
	c := findTriOtherVtx(a, b, m.Triangle(t0))
	d := InvalidID
	if t1 != InvalidID {
		d = findTriOtherVtx(a, b, m.Triangle(t1))
	}
	return c, d
}

// VtxEdgeCount returns the valence of a vertex.
func (m *DynamicMesh) VtxEdgeCount(vid int) int {
	return m.vertexEdges.Count(vid)
}

// VtxEdgesItr iterates the edges incident to a vertex.
func (m *DynamicMesh) VtxEdgesItr(vid int) iter.Seq[int] {
	return m.vertexEdges.Values(vid)
}

// ---------------------------------------------------------------------------
// Internal buffer surgery shared by the operators
// ---------------------------------------------------------------------------

// addEdgeInternal allocates an edge between vA and vB (stored smaller-first)
// attached to triangles tA and tB, and registers it with both endpoints'
// adjacency lists.
func (m *DynamicMesh) addEdgeInternal(vA, vB, tA, tB int) int {
	if vB < vA {
		vA, vB = vB, vA
	}
	eid := m.edgeRefCounts.Allocate()
	i := 4 * eid
	m.edges.InsertAt(i, vA)
	m.edges.InsertAt(i+1, vB)
	m.edges.InsertAt(i+2, tA)
	m.edges.InsertAt(i+3, tB)
	m.vertexEdges.Insert(vA, eid)
	m.vertexEdges.Insert(vB, eid)
	return eid
}

// findEdgeInternal returns the edge spanning {a, b}, InvalidID if absent.
// O(valence) on the smaller-valence endpoint.
func (m *DynamicMesh) findEdgeInternal(a, b int) int {
	if a == b {
		return InvalidID
	}
	if m.vertexEdges.Count(b) < m.vertexEdges.Count(a) {
		a, b = b, a
	}
	for eid := range m.vertexEdges.Values(a) {
		if m.edgeOtherV(eid, a) == b {
			return eid
		}
	}
	return InvalidID
}

// edgeOtherV returns the endpoint of eid that is not v.
func (m *DynamicMesh) edgeOtherV(eid, v int) int {
	i := 4 * eid
	a, b := m.edges.At(i), m.edges.At(i+1)
	if a == v {
		return b
	}
	if b == v {
		return a
	}
	return InvalidID
}

// edgeOtherT returns the triangle of eid that is not t.
func (m *DynamicMesh) edgeOtherT(eid, t int) int {
	i := 4 * eid
	t0, t1 := m.edges.At(i+2), m.edges.At(i+3)
	if t0 == t {
		return t1
	}
	if t1 == t {
		return t0
	}
	return InvalidID
}

// replaceEdgeTriangle swaps tOld for tNew in an edge's triangle pair,
// keeping the first slot valid. tNew == InvalidID detaches. Returns the
// number of triangles remaining on the edge, or -1 if tOld was not found.
func (m *DynamicMesh) replaceEdgeTriangle(eid, tOld, tNew int) int {
	i := 4*eid + 2
	a, b := m.edges.At(i), m.edges.At(i+1)
	if a == tOld {
		if tNew == InvalidID {
			m.edges.Set(i, b)
			m.edges.Set(i+1, InvalidID)
			if b == InvalidID {
				return 0
			}
			return 1
		}
		m.edges.Set(i, tNew)
		if b == InvalidID {
			return 1
		}
		return 2
	}
	if b == tOld {
		if tNew == InvalidID {
			m.edges.Set(i+1, InvalidID)
			return 1
		}
		m.edges.Set(i+1, tNew)
		return 2
	}
	return -1
}

// replaceEdgeVertex swaps vOld for vNew in an edge's vertex pair, restoring
// the smaller-first storage order. Returns -1 if vOld was not found. The
// caller is responsible for adjacency-list updates.
func (m *DynamicMesh) replaceEdgeVertex(eid, vOld, vNew int) int {
	i := 4 * eid
	a, b := m.edges.At(i), m.edges.At(i+1)
	if a == vOld {
		a = vNew
	} else if b == vOld {
		b = vNew
	} else {
		return -1
	}
	if b < a {
		a, b = b, a
	}
	m.edges.Set(i, a)
	m.edges.Set(i+1, b)
	return 0
}

// setEdgeTrianglesInternal overwrites an edge's triangle pair.
func (m *DynamicMesh) setEdgeTrianglesInternal(eid, t0, t1 int) {
	i := 4 * eid
	m.edges.Set(i+2, t0)
	m.edges.Set(i+3, t1)
}

// replaceTriangleVertex swaps vOld for vNew in a triangle's vertex triple.
// Returns -1 if vOld was not found. Reference counts are the caller's
// responsibility.
func (m *DynamicMesh) replaceTriangleVertex(tid, vOld, vNew int) int {
	i := 3 * tid
	for j := 0; j < 3; j++ {
		if m.triangles.At(i+j) == vOld {
			m.triangles.Set(i+j, vNew)
			return 0
		}
	}
	return -1
}

// replaceTriangleEdge swaps eOld for eNew in a triangle's edge triple.
func (m *DynamicMesh) replaceTriangleEdge(tid, eOld, eNew int) int {
	i := 3 * tid
	for j := 0; j < 3; j++ {
		if m.triangleEdges.At(i+j) == eOld {
			m.triangleEdges.Set(i+j, eNew)
			return 0
		}
	}
	return -1
}

func (m *DynamicMesh) setTriangleInternal(tid, a, b, c int) {
	i := 3 * tid
	m.triangles.Set(i, a)
	m.triangles.Set(i+1, b)
	m.triangles.Set(i+2, c)
}

func (m *DynamicMesh) setTriangleEdgesInternal(tid, e0, e1, e2 int) {
	i := 3 * tid
	m.triangleEdges.Set(i, e0)
	m.triangleEdges.Set(i+1, e1)
	m.triangleEdges.Set(i+2, e2)
}

// addTriangleOnly allocates a triangle ID and writes its vertex triple and
// group; edges are left invalid and vertex reference counts untouched.
func (m *DynamicMesh) addTriangleOnly(a, b, c, gid int) int {
	tid := m.triangleRefCounts.Allocate()
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
	return tid
}

// ---------------------------------------------------------------------------
// Small index utilities
// ---------------------------------------------------------------------------

// findTriIndex returns the slot of v in tri, -1 if absent.
func findTriIndex(v int, tri [3]int) int {
	for j := 0; j < 3; j++ {
		if tri[j] == v {
			return j
		}
	}
	return -1
}

// findTriOtherVtx returns the vertex of tri that is neither a nor b.
func findTriOtherVtx(a, b int, tri [3]int) int {
	for j := 0; j < 3; j++ {
		if tri[j] != a && tri[j] != b {
			return tri[j]
		}
	}
	return InvalidID
}

// orientTriEdge reorders (a, b) to match their winding order in tri: after
// the call, b follows a in the triangle's orientation. Returns false if the
// pair is not an edge of tri.
func orientTriEdge(a, b *int, tri [3]int) bool {
	for j := 0; j < 3; j++ {
		next := tri[(j+1)%3]
		if tri[j] == *a && next == *b {
			return true
		}
		if tri[j] == *b && next == *a {
			*a, *b = *b, *a
			return true
		}
	}
	return false
}

// triHasSequentialV reports whether (a, b) occur consecutively, in order, in
// tri's winding.
func triHasSequentialV(a, b int, tri [3]int) bool {
	for j := 0; j < 3; j++ {
		if tri[j] == a && tri[(j+1)%3] == b {
			return true
		}
	}
	return false
}
