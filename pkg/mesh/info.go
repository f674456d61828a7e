package mesh

// VertexInfo bundles a vertex position with its optional attribute layers.
// The Has* flags say which optional values are meaningful; a layer that is
// enabled on the mesh but not supplied here is written with its default.
type VertexInfo struct {
	Position Vector3d
	Normal   Vector3f
	Color    Vector3f
	UV       Vector2f

	HasNormal bool
	HasColor  bool
	HasUV     bool
}

// EdgeSplitInfo describes the outcome of a successful SplitEdge call.
type EdgeSplitInfo struct {
	OriginalEdge      int
	OriginalVertices  [2]int // (a, b) oriented to the first triangle's winding
	OtherVertices     [2]int // (c, d); d is InvalidID in the boundary case
	OriginalTriangles [2]int // (t0, t1); t1 is InvalidID in the boundary case
	IsBoundary        bool
	NewVertex         int
	NewTriangles      [2]int // (t2, t3); t3 is InvalidID in the boundary case
	NewEdges          [3]int // (f-b, f-c, d-f); last is InvalidID on boundary
	SplitT            float64 // parameter along OriginalVertices, not EdgeV order
}

// EdgeFlipInfo describes the outcome of a successful FlipEdge call. No IDs
// are created or destroyed by a flip; the edge keeps its ID with new
// endpoints.
type EdgeFlipInfo struct {
	Edge          int
	OriginalVerts [2]int // (a, b) before the flip
	OpposingVerts [2]int // (c, d), the new endpoints
	Triangles     [2]int // (t0, t1), rewritten in place
}

// EdgeCollapseInfo describes the outcome of a successful CollapseEdge call.
type EdgeCollapseInfo struct {
	KeptVertex    int
	RemovedVertex int
	OpposingVerts [2]int // (c, d); d is InvalidID in the boundary case
	IsBoundary    bool
	CollapsedEdge int
	RemovedTris   [2]int // (t0, t1); t1 is InvalidID in the boundary case
	RemovedEdges  [2]int // (e(a,c), e(a,d)); second InvalidID on boundary
	KeptEdges     [2]int // (e(b,c), e(b,d)); second InvalidID on boundary
	CollapseT     float64
}

// MergeEdgesInfo describes the outcome of a successful MergeEdges call.
// Where a removed vertex slot holds InvalidID, the corresponding endpoints
// were already the same vertex.
type MergeEdgesInfo struct {
	KeptEdge      int
	RemovedEdge   int
	KeptVerts     [2]int
	RemovedVerts  [2]int
	ExtraRemoved  [2]int // extra duplicate boundary edges merged away
	ExtraKept     [2]int // the edges they were merged into
}

// PokeTriangleInfo describes the outcome of a successful PokeTriangle call.
type PokeTriangleInfo struct {
	OriginalTriangle int
	TriVertices      [3]int
	NewVertex        int
	NewTriangles     [2]int
	NewEdges         [3]int // (a-f, b-f, c-f)
	BaryCoords       Vector3d
}

// CompactMaps records the old ID -> new ID renumbering produced by
// CompactInPlace. Entries for IDs that did not move map to themselves;
// IDs that were invalid before compaction map to InvalidID.
type CompactMaps struct {
	Vertices  []int
	Triangles []int
	Edges     []int
}

// MapVertex translates a pre-compaction vertex ID.
func (m *CompactMaps) MapVertex(vid int) int {
	if vid < 0 || vid >= len(m.Vertices) {
		return InvalidID
	}
	return m.Vertices[vid]
}
