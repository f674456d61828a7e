package mesh

import "testing"

// recordingOverlay captures every lifecycle notification for assertions.
type recordingOverlay struct {
	newTris    []int
	inserts    []int
	reversed   []int
	removed    []int
	splits     []EdgeSplitInfo
	flips      []EdgeFlipInfo
	collapses  []EdgeCollapseInfo
	merges     []MergeEdgesInfo
	pokes      []PokeTriangleInfo
}

func (r *recordingOverlay) OnNewTriangle(tid int, isInsert bool) {
	r.newTris = append(r.newTris, tid)
	if isInsert {
		r.inserts = append(r.inserts, tid)
	}
}
func (r *recordingOverlay) OnReverseTriOrientation(tid int) { r.reversed = append(r.reversed, tid) }
func (r *recordingOverlay) OnRemoveTriangle(tid int, removedIsolatedVerts bool) {
	r.removed = append(r.removed, tid)
}
func (r *recordingOverlay) OnSplitEdge(info EdgeSplitInfo)       { r.splits = append(r.splits, info) }
func (r *recordingOverlay) OnFlipEdge(info EdgeFlipInfo)         { r.flips = append(r.flips, info) }
func (r *recordingOverlay) OnCollapseEdge(info EdgeCollapseInfo) { r.collapses = append(r.collapses, info) }
func (r *recordingOverlay) OnMergeEdges(info MergeEdgesInfo)     { r.merges = append(r.merges, info) }
func (r *recordingOverlay) OnPokeTriangle(info PokeTriangleInfo) { r.pokes = append(r.pokes, info) }

func TestOverlayLifecycleNotifications(t *testing.T) {
	m := makeQuad(t)
	rec := &recordingOverlay{}
	m.EnableAttributes(rec)

	m.AppendVertex(Vector3d{2, 0, 0})
	tid := m.AppendTriangle(1, 4, 2)
	if len(rec.newTris) != 1 || rec.newTris[0] != tid {
		t.Fatalf("OnNewTriangle calls %v", rec.newTris)
	}

	var si EdgeSplitInfo
	if r := m.SplitEdge(m.FindEdge(1, 4), 0.5, &si); !r.Ok() {
		t.Fatalf("split: %s", r)
	}
	if len(rec.splits) != 1 || rec.splits[0].NewVertex != si.NewVertex {
		t.Errorf("OnSplitEdge %v", rec.splits)
	}

	if r := m.FlipEdge(m.FindEdge(0, 2), nil); !r.Ok() {
		t.Fatalf("flip: %s", r)
	}
	if len(rec.flips) != 1 {
		t.Errorf("OnFlipEdge calls %d", len(rec.flips))
	}

	if r := m.ReverseTriOrientation(tid); !r.Ok() {
		t.Fatalf("reverse: %s", r)
	}
	if len(rec.reversed) != 1 || rec.reversed[0] != tid {
		t.Errorf("OnReverseTriOrientation %v", rec.reversed)
	}

	if r := m.RemoveTriangle(tid, false, false); !r.Ok() {
		t.Fatalf("remove: %s", r)
	}
	if len(rec.removed) != 1 || rec.removed[0] != tid {
		t.Errorf("OnRemoveTriangle %v", rec.removed)
	}
}

func TestOverlayNotNotifiedOnFailure(t *testing.T) {
	m := makeQuad(t)
	rec := &recordingOverlay{}
	m.EnableAttributes(rec)

	if r := m.FlipEdge(m.FindEdge(0, 1), nil); r.Ok() {
		t.Fatal("boundary flip should fail")
	}
	m.AppendTriangle(0, 1, 2) // duplicate, rejected
	if len(rec.flips) != 0 || len(rec.newTris) != 0 {
		t.Error("failed operators must not notify the overlay")
	}
}

func TestOverlayPokeAndCollapse(t *testing.T) {
	m := makeQuad(t)
	rec := &recordingOverlay{}
	m.EnableAttributes(rec)

	third := 1.0 / 3.0
	if r := m.PokeTriangle(0, Vector3d{third, third, third}, nil); !r.Ok() {
		t.Fatalf("poke: %s", r)
	}
	if len(rec.pokes) != 1 || rec.pokes[0].OriginalTriangle != 0 {
		t.Errorf("OnPokeTriangle %v", rec.pokes)
	}

	poked := rec.pokes[0].NewVertex
	if r := m.CollapseEdge(0, poked, 0, nil); !r.Ok() {
		t.Fatalf("collapse: %s", r)
	}
	if len(rec.collapses) != 1 || rec.collapses[0].RemovedVertex != poked {
		t.Errorf("OnCollapseEdge %v", rec.collapses)
	}
}
