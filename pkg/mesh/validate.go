package mesh

import "fmt"

// ---------------------------------------------------------------------------
// Structural validation
// ---------------------------------------------------------------------------

// ValidityIssue describes one inconsistency found by CheckValidity.
type ValidityIssue struct {
	Element string // "vertex", "triangle" or "edge"
	ID      int
	Message string
}

func (v ValidityIssue) String() string {
	return fmt.Sprintf("%s %d: %s", v.Element, v.ID, v.Message)
}

// CheckValidity cross-checks every invariant the edit operators rely on:
// triangle/edge/adjacency agreement, canonical edge vertex order, reference
// count accounting, and (unless allowBowties is set) single-fan vertices.
// It returns every issue found; an empty slice means the mesh is sound.
func (m *DynamicMesh) CheckValidity(allowBowties bool) []ValidityIssue {
	var issues []ValidityIssue
	issues = append(issues, m.checkTriangles()...)
	issues = append(issues, m.checkEdges()...)
	issues = append(issues, m.checkVertices(allowBowties)...)
	return issues
}

func (m *DynamicMesh) checkTriangles() []ValidityIssue {
	var issues []ValidityIssue
	bad := func(tid int, format string, args ...any) {
		issues = append(issues, ValidityIssue{"triangle", tid, fmt.Sprintf(format, args...)})
	}

	for tid := range m.TriangleIndices() {
		tv := m.Triangle(tid)
		te := m.TriEdges(tid)
		if tv[0] == tv[1] || tv[1] == tv[2] || tv[0] == tv[2] {
			bad(tid, "degenerate vertex triple %v", tv)
			continue
		}
		for j := 0; j < 3; j++ {
			if !m.IsVertex(tv[j]) {
				bad(tid, "corner %d references dead vertex %d", j, tv[j])
			}
		}
		for j := 0; j < 3; j++ {
			u, v := tv[j], tv[(j+1)%3]
			eid := te[j]
			if !m.IsEdge(eid) {
				bad(tid, "edge slot %d references dead edge %d", j, eid)
				continue
			}
			if m.findEdgeInternal(u, v) != eid {
				bad(tid, "edge slot %d (%d) does not span corners %d-%d", j, eid, u, v)
			}
			if t0, t1 := m.EdgeT(eid); t0 != tid && t1 != tid {
				bad(tid, "edge %d does not reference triangle back", eid)
			}
		}
	}
	return issues
}

func (m *DynamicMesh) checkEdges() []ValidityIssue {
	var issues []ValidityIssue
	bad := func(eid int, format string, args ...any) {
		issues = append(issues, ValidityIssue{"edge", eid, fmt.Sprintf(format, args...)})
	}

	for eid := range m.EdgeIndices() {
		a, b, t0, t1 := m.Edge(eid)
		if a >= b {
			bad(eid, "vertex pair (%d,%d) not in canonical order", a, b)
		}
		if !m.IsVertex(a) || !m.IsVertex(b) {
			bad(eid, "references dead vertex (%d,%d)", a, b)
			continue
		}
		if t0 == InvalidID {
			bad(eid, "first triangle slot empty")
			continue
		}
		for _, t := range [2]int{t0, t1} {
			if t == InvalidID {
				continue
			}
			if !m.IsTriangle(t) {
				bad(eid, "references dead triangle %d", t)
				continue
			}
			if findTriIndex(a, m.Triangle(t)) < 0 || findTriIndex(b, m.Triangle(t)) < 0 {
				bad(eid, "triangle %d does not contain both endpoints", t)
			}
		}
		if t0 == t1 {
			bad(eid, "same triangle %d on both sides", t0)
		}
		if !m.vertexEdges.Contains(a, eid) || !m.vertexEdges.Contains(b, eid) {
			bad(eid, "missing from endpoint adjacency lists")
		}
	}
	return issues
}

func (m *DynamicMesh) checkVertices(allowBowties bool) []ValidityIssue {
	var issues []ValidityIssue
	bad := func(vid int, format string, args ...any) {
		issues = append(issues, ValidityIssue{"vertex", vid, fmt.Sprintf(format, args...)})
	}

	for vid := range m.VertexIndices() {
		seen := map[int]bool{}
		for eid := range m.vertexEdges.Values(vid) {
			if !m.IsEdge(eid) {
				bad(vid, "adjacency list references dead edge %d", eid)
				continue
			}
			if seen[eid] {
				bad(vid, "duplicate adjacency entry for edge %d", eid)
			}
			seen[eid] = true
			if m.edgeOtherV(eid, vid) == InvalidID {
				bad(vid, "adjacency edge %d does not contain vertex", eid)
			}
		}

		// Count accounting: one base reference plus one per incident corner.
		corners := 0
		for tid := range m.VtxTrianglesItr(vid) {
			if findTriIndex(vid, m.Triangle(tid)) < 0 {
				bad(vid, "incident triangle %d does not contain vertex", tid)
			}
			corners++
		}
		if got := m.vertexRefCounts.RefCount(vid); got != corners+1 {
			bad(vid, "ref count %d, expected %d (1 + %d corners)", got, corners+1, corners)
		}

		if !allowBowties && m.IsBowtieVertex(vid) {
			bad(vid, "triangles form multiple fans")
		}
	}
	return issues
}
