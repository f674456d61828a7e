package mesh

import (
	"math"
	"testing"
)

// ---------------------------------------------------------------------------
// SplitEdge
// ---------------------------------------------------------------------------

func TestSplitBoundaryEdge(t *testing.T) {
	m := makeQuad(t)
	eid := m.FindEdge(0, 1)

	var info EdgeSplitInfo
	if r := m.SplitEdge(eid, 0.5, &info); !r.Ok() {
		t.Fatalf("SplitEdge: %s", r)
	}
	requireCounts(t, m, 5, 3, 7)
	if !info.IsBoundary {
		t.Error("split of boundary edge not flagged")
	}
	want := Vector3d{0.5, 0, 0}
	if !nearlyEqual(m.Vertex(info.NewVertex), want) {
		t.Errorf("new vertex at %v, want %v", m.Vertex(info.NewVertex), want)
	}
	requireValid(t, m)
}

func TestSplitInteriorEdge(t *testing.T) {
	m := makeQuad(t)
	diag := m.FindEdge(0, 2)

	var info EdgeSplitInfo
	if r := m.SplitEdge(diag, 0.25, &info); !r.Ok() {
		t.Fatalf("SplitEdge: %s", r)
	}
	requireCounts(t, m, 5, 4, 8)
	if info.IsBoundary {
		t.Error("interior split flagged as boundary")
	}
	if info.NewTriangles[0] == InvalidID || info.NewTriangles[1] == InvalidID {
		t.Error("interior split must create two triangles")
	}
	// New vertex sits a quarter of the way along the stored edge (0,2).
	want := m.Vertex(0).Lerp(m.Vertex(2), 0.25)
	if !nearlyEqual(m.Vertex(info.NewVertex), want) {
		t.Errorf("split point %v, want %v", m.Vertex(info.NewVertex), want)
	}
	requireValid(t, m)
}

func TestSplitEdgeParamFollowsStoredOrder(t *testing.T) {
	// Append the triangle so its winding traverses the bottom edge 1->0,
	// opposite the stored (0,1) order; the split point must still follow
	// the stored order.
	m := New()
	m.AppendVertex(Vector3d{0, 0, 0})
	m.AppendVertex(Vector3d{1, 0, 0})
	m.AppendVertex(Vector3d{0, 1, 0})
	if tid := m.AppendTriangle(1, 0, 2); tid < 0 {
		t.Fatalf("AppendTriangle: %d", tid)
	}

	eid := m.FindEdge(0, 1)
	if a, b := m.EdgeV(eid); a != 0 || b != 1 {
		t.Fatalf("edge stored (%d,%d), want (0,1)", a, b)
	}
	var info EdgeSplitInfo
	if r := m.SplitEdge(eid, 0.25, &info); !r.Ok() {
		t.Fatalf("SplitEdge: %s", r)
	}
	want := Vector3d{0.25, 0, 0}
	if !nearlyEqual(m.Vertex(info.NewVertex), want) {
		t.Errorf("new vertex at %v, want %v", m.Vertex(info.NewVertex), want)
	}
	// Info reports the winding-oriented endpoints with the mirrored param.
	av := m.Vertex(info.OriginalVertices[0])
	bv := m.Vertex(info.OriginalVertices[1])
	if !nearlyEqual(m.Vertex(info.NewVertex), av.Lerp(bv, info.SplitT)) {
		t.Errorf("SplitT %v inconsistent with oriented endpoints", info.SplitT)
	}
	requireValid(t, m)
}

func TestSplitEdgeInterpolatesLayers(t *testing.T) {
	m := New()
	m.EnableVertexUVs(Vector2f{})
	m.AppendVertexInfo(VertexInfo{Position: Vector3d{0, 0, 0}, UV: Vector2f{0, 0}, HasUV: true})
	m.AppendVertexInfo(VertexInfo{Position: Vector3d{1, 0, 0}, UV: Vector2f{1, 0}, HasUV: true})
	m.AppendVertexInfo(VertexInfo{Position: Vector3d{0, 1, 0}, UV: Vector2f{0, 1}, HasUV: true})
	m.AppendTriangle(0, 1, 2)

	var info EdgeSplitInfo
	if r := m.SplitEdge(m.FindEdge(0, 1), 0.5, &info); !r.Ok() {
		t.Fatalf("SplitEdge: %s", r)
	}
	uv := m.VertexUV(info.NewVertex)
	if math.Abs(float64(uv.X)-0.5) > 1e-6 || uv.Y != 0 {
		t.Errorf("interpolated uv %v", uv)
	}
}

func TestSplitEdgeRejectsDeadEdge(t *testing.T) {
	m := makeQuad(t)
	if r := m.SplitEdge(99, 0.5, nil); r != ResultFailedNotAnEdge {
		t.Errorf("got %s", r)
	}
}

// ---------------------------------------------------------------------------
// FlipEdge
// ---------------------------------------------------------------------------

func TestFlipEdgeRoundTrip(t *testing.T) {
	m := makeQuad(t)
	diag := m.FindEdge(0, 2)

	var info EdgeFlipInfo
	if r := m.FlipEdge(diag, &info); !r.Ok() {
		t.Fatalf("FlipEdge: %s", r)
	}
	a, b := m.EdgeV(diag)
	if !(a == 1 && b == 3) {
		t.Fatalf("flipped edge spans (%d,%d), want (1,3)", a, b)
	}
	requireCounts(t, m, 4, 2, 5)
	requireValid(t, m)

	// Flipping again restores the original diagonal.
	if r := m.FlipEdge(diag, nil); !r.Ok() {
		t.Fatalf("flip back: %s", r)
	}
	a, b = m.EdgeV(diag)
	if !(a == 0 && b == 2) {
		t.Errorf("round trip edge spans (%d,%d), want (0,2)", a, b)
	}
	requireValid(t, m)
}

func TestFlipEdgeRejectsBoundary(t *testing.T) {
	m := makeQuad(t)
	if r := m.FlipEdge(m.FindEdge(0, 1), nil); r != ResultFailedIsBoundaryEdge {
		t.Errorf("got %s", r)
	}
}

func TestFlipEdgeRejectsExistingCrossEdge(t *testing.T) {
	m := makeQuad(t)
	m.AppendVertex(Vector3d{2, 2, 0})
	// Creates the edge (1,3) that the flip would need.
	if tid := m.AppendTriangle(3, 1, 4); tid < 0 {
		t.Fatalf("setup triangle: %d", tid)
	}
	if r := m.FlipEdge(m.FindEdge(0, 2), nil); r != ResultFailedFlippedEdgeExists {
		t.Errorf("got %s", r)
	}
	requireValid(t, m)
}

// ---------------------------------------------------------------------------
// CollapseEdge
// ---------------------------------------------------------------------------

func TestCollapseUndoesSplit(t *testing.T) {
	m := makeQuad(t)
	diag := m.FindEdge(0, 2)

	var si EdgeSplitInfo
	if r := m.SplitEdge(diag, 0.5, &si); !r.Ok() {
		t.Fatalf("SplitEdge: %s", r)
	}
	var ci EdgeCollapseInfo
	if r := m.CollapseEdge(si.OriginalVertices[0], si.NewVertex, 0, &ci); !r.Ok() {
		t.Fatalf("CollapseEdge: %s", r)
	}
	requireCounts(t, m, 4, 2, 5)
	if ci.KeptVertex != si.OriginalVertices[0] || ci.RemovedVertex != si.NewVertex {
		t.Errorf("collapse info %+v", ci)
	}
	requireValid(t, m)
}

func TestCollapseBoundaryEdgeOfStrip(t *testing.T) {
	m := New()
	m.AppendVertex(Vector3d{0, 0, 0})
	m.AppendVertex(Vector3d{1, 0, 0})
	m.AppendVertex(Vector3d{0.5, 1, 0})
	m.AppendVertex(Vector3d{1.5, 1, 0})
	m.AppendTriangle(0, 1, 2)
	m.AppendTriangle(2, 1, 3)

	// Boundary edge (0,1); its triangle's other edges are one boundary, one
	// interior, so the collapse is legal.
	if r := m.CollapseEdge(1, 0, 0.5, nil); !r.Ok() {
		t.Fatalf("CollapseEdge: %s", r)
	}
	requireCounts(t, m, 3, 1, 3)
	if !nearlyEqual(m.Vertex(1), Vector3d{0.5, 0, 0}) {
		t.Errorf("kept vertex at %v", m.Vertex(1))
	}
	requireValid(t, m)
}

func TestCollapseRejectsTetrahedron(t *testing.T) {
	m := makeTetrahedron(t)
	if r := m.CollapseEdge(1, 0, 0, nil); r != ResultFailedCollapseTetrahedron {
		t.Errorf("got %s", r)
	}
	requireCounts(t, m, 4, 4, 6)
	requireValid(t, m)
}

func TestCollapseRejectsLastTriangle(t *testing.T) {
	m := New()
	m.AppendVertex(Vector3d{0, 0, 0})
	m.AppendVertex(Vector3d{1, 0, 0})
	m.AppendVertex(Vector3d{0, 1, 0})
	m.AppendTriangle(0, 1, 2)
	if r := m.CollapseEdge(1, 0, 0, nil); r != ResultFailedCollapseTriangle {
		t.Errorf("got %s", r)
	}
	requireValid(t, m)
}

func TestCollapseRejectsSharedNeighbour(t *testing.T) {
	m := New()
	m.AppendVertex(Vector3d{0, 0, 0})  // a
	m.AppendVertex(Vector3d{1, 0, 0})  // b
	m.AppendVertex(Vector3d{0.5, 1, 0})  // c
	m.AppendVertex(Vector3d{0.5, -1, 0}) // d
	m.AppendVertex(Vector3d{0.5, 2, 0})  // x: joined to both a and b
	m.AppendTriangle(0, 1, 2)
	m.AppendTriangle(1, 0, 3)
	m.AppendTriangle(0, 2, 4)
	m.AppendTriangle(2, 1, 4)
	if r := m.CollapseEdge(1, 0, 0, nil); r != ResultFailedInvalidNeighbourhood {
		t.Errorf("got %s", r)
	}
	requireValid(t, m)
}

func TestCollapseRejectsInteriorEdgeBetweenBoundaryVerts(t *testing.T) {
	m := makeQuad(t)
	// The diagonal is interior but both endpoints sit on the boundary.
	if r := m.CollapseEdge(2, 0, 0, nil); r != ResultFailedInvalidNeighbourhood {
		t.Errorf("got %s", r)
	}
	requireValid(t, m)
}

func TestCollapseRejectsMissingEdge(t *testing.T) {
	m := makeQuad(t)
	if r := m.CollapseEdge(1, 3, 0, nil); r != ResultFailedNotAnEdge {
		t.Errorf("got %s", r)
	}
}

// ---------------------------------------------------------------------------
// MergeEdges
// ---------------------------------------------------------------------------

func makeFacingTriangles(t *testing.T, flipLower bool) *DynamicMesh {
	t.Helper()
	m := New()
	m.AppendVertex(Vector3d{0, 0, 0})    // 0
	m.AppendVertex(Vector3d{1, 0, 0})    // 1
	m.AppendVertex(Vector3d{0.5, 1, 0})  // 2
	m.AppendVertex(Vector3d{0, -1, 0})   // 3
	m.AppendVertex(Vector3d{1, -1, 0})   // 4
	m.AppendVertex(Vector3d{0.5, -2, 0}) // 5
	m.AppendTriangle(0, 1, 2)
	if flipLower {
		m.AppendTriangle(3, 4, 5)
	} else {
		m.AppendTriangle(4, 3, 5)
	}
	return m
}

func TestMergeEdgesWeldsFacingBoundaries(t *testing.T) {
	m := makeFacingTriangles(t, false)
	eKeep := m.FindEdge(0, 1)
	eDiscard := m.FindEdge(3, 4)

	var info MergeEdgesInfo
	if r := m.MergeEdges(eKeep, eDiscard, &info); !r.Ok() {
		t.Fatalf("MergeEdges: %s", r)
	}
	requireCounts(t, m, 4, 2, 5)
	if m.IsBoundaryEdge(eKeep) {
		t.Error("welded edge should be interior")
	}
	if m.IsEdge(eDiscard) {
		t.Error("discarded edge survived")
	}
	// The kept endpoints keep their positions.
	if !nearlyEqual(m.Vertex(info.KeptVerts[0]), Vector3d{0, 0, 0}) {
		t.Errorf("kept vertex moved to %v", m.Vertex(info.KeptVerts[0]))
	}
	requireValid(t, m)
}

func TestMergeEdgesRejectsSameOrientation(t *testing.T) {
	m := makeFacingTriangles(t, true)
	if r := m.MergeEdges(m.FindEdge(0, 1), m.FindEdge(3, 4), nil); r != ResultFailedSameOrientation {
		t.Errorf("got %s", r)
	}
	requireCounts(t, m, 6, 2, 6)
	requireValid(t, m)
}

func TestMergeEdgesRejectsInteriorEdge(t *testing.T) {
	m := makeQuad(t)
	if r := m.MergeEdges(m.FindEdge(0, 2), m.FindEdge(0, 1), nil); r != ResultFailedNotABoundaryEdge {
		t.Errorf("got %s", r)
	}
}

func TestMergeEdgesWithSharedEndpoint(t *testing.T) {
	// The two side edges of an open fan share the center vertex; welding
	// them closes the fan without touching the shared endpoint.
	m := makeFan(t)
	eKeep := m.FindEdge(0, 4)
	eDiscard := m.FindEdge(3, 4)

	var info MergeEdgesInfo
	if r := m.MergeEdges(eKeep, eDiscard, &info); !r.Ok() {
		t.Fatalf("MergeEdges: %s", r)
	}
	requireCounts(t, m, 4, 3, 6)
	if m.IsBoundaryVertex(4) {
		t.Error("center should be interior after closing the fan")
	}
	if m.IsBoundaryEdge(eKeep) {
		t.Error("seam edge should be interior")
	}
	requireValid(t, m)
}

func TestMergeEdgesRejectsDuplicateInteriorEdge(t *testing.T) {
	// A quad and a dangling triangle meet at vertex 2. Welding the
	// triangle's bottom edge onto the quad's would duplicate the quad's
	// interior diagonal (0,2) with the boundary edge (5,2); that pair can
	// never be folded back into one edge, so the weld must be refused
	// before any mutation.
	m := makeQuad(t)
	m.AppendVertex(Vector3d{1, -0.1, 0}) // 4
	m.AppendVertex(Vector3d{0, -0.1, 0}) // 5
	if tid := m.AppendTriangle(4, 5, 2); tid < 0 {
		t.Fatalf("AppendTriangle: %d", tid)
	}
	eKeep := m.FindEdge(0, 1)
	eDiscard := m.FindEdge(4, 5)

	if r := m.MergeEdges(eKeep, eDiscard, nil); r != ResultFailedInvalidNeighbourhood {
		t.Errorf("got %s", r)
	}
	// The refused weld leaves the mesh untouched.
	requireCounts(t, m, 6, 3, 8)
	for _, issue := range m.CheckValidity(true) {
		t.Errorf("validity: %s", issue)
	}
}

// ---------------------------------------------------------------------------
// PokeTriangle
// ---------------------------------------------------------------------------

func TestPokeTriangleAtCentroid(t *testing.T) {
	m := New()
	m.AppendVertex(Vector3d{0, 0, 0})
	m.AppendVertex(Vector3d{3, 0, 0})
	m.AppendVertex(Vector3d{0, 3, 0})
	m.EnableTriangleGroups(7)
	m.AppendTriangle(0, 1, 2)

	third := 1.0 / 3.0
	var info PokeTriangleInfo
	if r := m.PokeTriangle(0, Vector3d{third, third, third}, &info); !r.Ok() {
		t.Fatalf("PokeTriangle: %s", r)
	}
	requireCounts(t, m, 4, 3, 6)
	if !nearlyEqual(m.Vertex(info.NewVertex), Vector3d{1, 1, 0}) {
		t.Errorf("poked vertex at %v", m.Vertex(info.NewVertex))
	}
	if rc := m.VertexRefCount(info.NewVertex); rc != 4 {
		t.Errorf("poked vertex ref count %d, want 4", rc)
	}
	for _, tid := range []int{0, info.NewTriangles[0], info.NewTriangles[1]} {
		if g := m.TriangleGroup(tid); g != 7 {
			t.Errorf("triangle %d group %d, want 7", tid, g)
		}
	}
	requireValid(t, m)
}

// ---------------------------------------------------------------------------
// RemoveTriangle / RemoveVertex / SetTriangle / orientation
// ---------------------------------------------------------------------------

func TestRemoveTriangleExposesBoundary(t *testing.T) {
	m := makeQuad(t)
	diag := m.FindEdge(0, 2)
	if r := m.RemoveTriangle(1, true, false); !r.Ok() {
		t.Fatalf("RemoveTriangle: %s", r)
	}
	requireCounts(t, m, 3, 1, 3)
	if !m.IsBoundaryEdge(diag) {
		t.Error("diagonal should be boundary after removal")
	}
	if m.IsVertex(3) {
		t.Error("isolated vertex 3 should have been removed")
	}
	requireValid(t, m)
}

func TestRemoveTriangleKeepsIsolatedVertexWhenAsked(t *testing.T) {
	m := makeQuad(t)
	if r := m.RemoveTriangle(1, false, false); !r.Ok() {
		t.Fatalf("RemoveTriangle: %s", r)
	}
	if !m.IsVertex(3) {
		t.Error("vertex 3 should survive with removeIsolatedVerts=false")
	}
	if rc := m.VertexRefCount(3); rc != 1 {
		t.Errorf("isolated vertex ref count %d, want 1", rc)
	}
}

func TestRemoveTriangleBowtiePreflight(t *testing.T) {
	m := makeFan(t)
	// Removing the middle fan triangle splits the center vertex's fan.
	if r := m.RemoveTriangle(1, false, true); r != ResultFailedWouldCreateBowtie {
		t.Errorf("got %s", r)
	}
	requireCounts(t, m, 5, 3, 7)

	// Without the manifold guard the removal goes through and leaves the
	// bowtie behind.
	if r := m.RemoveTriangle(1, false, false); !r.Ok() {
		t.Fatalf("unguarded removal: %s", r)
	}
	if !m.IsBowtieVertex(4) {
		t.Error("center should be a bowtie now")
	}
	fans := m.VtxContiguousTriangles(4)
	if len(fans) != 2 {
		t.Errorf("fans %v, want 2 groups", fans)
	}
}

func TestRemoveVertexRemovesOneRing(t *testing.T) {
	m := makeFan(t)
	if r := m.RemoveVertex(4, true, true); !r.Ok() {
		t.Fatalf("RemoveVertex: %s", r)
	}
	if m.IsVertex(4) || m.TriangleCount() != 0 {
		t.Error("fan not fully removed")
	}
	requireValid(t, m)
}

func TestSetTriangleRewiresCorner(t *testing.T) {
	m := makeQuad(t)
	m.AppendVertex(Vector3d{2, 0, 0})
	if r := m.SetTriangle(0, 0, 1, 4); r != ResultOk {
		t.Fatalf("SetTriangle: %s", r)
	}
	if m.Triangle(0) != [3]int{0, 1, 4} {
		t.Errorf("triangle %v", m.Triangle(0))
	}
	if m.FindEdge(1, 2) != InvalidID {
		t.Error("old edge (1,2) should be gone")
	}
	// Vertex 0 legitimately ends up pinched between the two triangles; the
	// operator only guarantees edge-manifoldness.
	for _, issue := range m.CheckValidity(true) {
		t.Errorf("validity: %s", issue)
	}
}

func TestSetTriangleRefusesOverlay(t *testing.T) {
	m := makeQuad(t)
	m.EnableAttributes(&recordingOverlay{})
	if r := m.SetTriangle(0, 0, 1, 3); r != ResultFailedUnsupportedWithAttributes {
		t.Errorf("got %s", r)
	}
}

func TestReverseTriOrientation(t *testing.T) {
	m := makeQuad(t)
	n := m.TriNormal(0)
	if r := m.ReverseTriOrientation(0); !r.Ok() {
		t.Fatalf("ReverseTriOrientation: %s", r)
	}
	if !nearlyEqual(m.TriNormal(0), n.Scale(-1)) {
		t.Errorf("normal %v not reversed", m.TriNormal(0))
	}
	// Both quad triangles reversed keeps edge-manifold consistency.
	if r := m.ReverseTriOrientation(1); !r.Ok() {
		t.Fatalf("second reverse: %s", r)
	}
	requireValid(t, m)
}

func TestReverseOrientationWholeMesh(t *testing.T) {
	m := makeTetrahedron(t)
	inside := Vector3d{0.2, 0.2, 0.2}
	if !m.IsInside(inside) {
		t.Fatal("point should start inside")
	}
	m.ReverseOrientation(false)
	if w := m.WindingNumber(inside); math.Abs(w+1) > 1e-6 {
		t.Errorf("winding %v, want -1 after reversal", w)
	}
	requireValid(t, m)
}

// ---------------------------------------------------------------------------
// Winding number
// ---------------------------------------------------------------------------

func TestWindingNumberClosedMesh(t *testing.T) {
	m := makeTetrahedron(t)
	if w := m.WindingNumber(Vector3d{0.1, 0.1, 0.1}); math.Abs(w-1) > 1e-6 {
		t.Errorf("inside winding %v", w)
	}
	if w := m.WindingNumber(Vector3d{2, 2, 2}); math.Abs(w) > 1e-6 {
		t.Errorf("outside winding %v", w)
	}
	if m.IsInside(Vector3d{5, 0, 0}) {
		t.Error("far point reported inside")
	}
}
