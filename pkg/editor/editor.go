// Package editor provides batch operations on top of the mesh kernel. The
// kernel guarantees atomicity per operator only; the editor composes
// operators and cleans up after itself when a composite edit fails partway.
package editor

import (
	"fmt"

	"github.com/chazu/meshkit/pkg/mesh"
)

// MeshEditor wraps a mesh for composite edits. It holds no state of its own
// beyond the target mesh; construct one per edit sequence or reuse freely.
type MeshEditor struct {
	Mesh *mesh.DynamicMesh
}

func New(m *mesh.DynamicMesh) *MeshEditor {
	return &MeshEditor{Mesh: m}
}

// AppendResult maps source element IDs to their copies after AppendMesh.
type AppendResult struct {
	Vertices  map[int]int
	Triangles map[int]int
}

// AppendMesh copies every vertex and triangle of src into the target mesh,
// remapping IDs and allocating fresh group IDs for every distinct source
// group. Fails if src contains a triangle the target rejects; triangles
// appended before the failure are removed again.
func (e *MeshEditor) AppendMesh(src *mesh.DynamicMesh) (*AppendResult, error) {
	res := &AppendResult{
		Vertices:  make(map[int]int, src.VertexCount()),
		Triangles: make(map[int]int, src.TriangleCount()),
	}
	for vid := range src.VertexIndices() {
		res.Vertices[vid] = e.Mesh.AppendVertexFrom(src, vid)
	}

	groupMap := map[int]int{}
	var added []int
	for tid := range src.TriangleIndices() {
		tv := src.Triangle(tid)
		gid := mesh.InvalidGroupID
		if src.HasTriangleGroups() && e.Mesh.HasTriangleGroups() {
			g := src.TriangleGroup(tid)
			mapped, ok := groupMap[g]
			if !ok {
				mapped = e.Mesh.AllocateTriangleGroup()
				groupMap[g] = mapped
			}
			gid = mapped
		}
		newT := e.Mesh.AppendTriangleGroup(
			res.Vertices[tv[0]], res.Vertices[tv[1]], res.Vertices[tv[2]], gid)
		if newT < 0 {
			e.rollbackTriangles(added)
			e.rollbackVertices(res.Vertices)
			return nil, fmt.Errorf("editor: append of source triangle %d failed (%d)", tid, newT)
		}
		added = append(added, newT)
		res.Triangles[tid] = newT
	}
	return res, nil
}

// RemoveTriangles deletes a batch of triangles. All removals are attempted;
// the returned error aggregates any that failed. Already-dead IDs are
// skipped silently so the call is safe to repeat.
func (e *MeshEditor) RemoveTriangles(tris []int, removeIsolatedVerts bool) error {
	var failed []int
	for _, tid := range tris {
		if !e.Mesh.IsTriangle(tid) {
			continue
		}
		if r := e.Mesh.RemoveTriangle(tid, removeIsolatedVerts, false); !r.Ok() {
			failed = append(failed, tid)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("editor: failed to remove triangles %v", failed)
	}
	return nil
}

// DuplicateTriangles copies a set of triangles with fresh vertices, leaving
// the copy fully disconnected from the originals. Returns the new triangle
// IDs in input order.
func (e *MeshEditor) DuplicateTriangles(tris []int) ([]int, error) {
	vertMap := map[int]int{}
	dup := func(v int) int {
		nv, ok := vertMap[v]
		if !ok {
			nv = e.Mesh.AppendVertexInfo(e.Mesh.VertexInfoAt(v))
			vertMap[v] = nv
		}
		return nv
	}

	newTris := make([]int, 0, len(tris))
	for _, tid := range tris {
		if !e.Mesh.IsTriangle(tid) {
			e.rollbackTriangles(newTris)
			e.rollbackVertices(vertMap)
			return nil, fmt.Errorf("editor: duplicate of dead triangle %d", tid)
		}
		tv := e.Mesh.Triangle(tid)
		nt := e.Mesh.AppendTriangleGroup(dup(tv[0]), dup(tv[1]), dup(tv[2]), e.Mesh.TriangleGroup(tid))
		if nt < 0 {
			e.rollbackTriangles(newTris)
			e.rollbackVertices(vertMap)
			return nil, fmt.Errorf("editor: duplicate of triangle %d failed (%d)", tid, nt)
		}
		newTris = append(newTris, nt)
	}
	return newTris, nil
}

// DisconnectTriangles splits a set of triangles off the rest of the mesh:
// every vertex shared between the set and its complement is duplicated and
// the set's triangles rewired to the duplicate, so the set becomes its own
// connected component. Geometry is unchanged; only connectivity splits.
func (e *MeshEditor) DisconnectTriangles(tris []int) error {
	inSet := make(map[int]bool, len(tris))
	for _, tid := range tris {
		if !e.Mesh.IsTriangle(tid) {
			return fmt.Errorf("editor: disconnect of dead triangle %d", tid)
		}
		inSet[tid] = true
	}

	// A vertex needs splitting when triangles on both sides of the cut use
	// it.
	split := map[int]int{}
	for _, tid := range tris {
		tv := e.Mesh.Triangle(tid)
		for _, v := range tv {
			if _, done := split[v]; done {
				continue
			}
			shared := false
			for vt := range e.Mesh.VtxTrianglesItr(v) {
				if !inSet[vt] {
					shared = true
					break
				}
			}
			if shared {
				split[v] = e.Mesh.AppendVertexInfo(e.Mesh.VertexInfoAt(v))
			}
		}
	}

	for _, tid := range tris {
		tv := e.Mesh.Triangle(tid)
		changed := false
		for j, v := range tv {
			if nv, ok := split[v]; ok {
				tv[j] = nv
				changed = true
			}
		}
		if !changed {
			continue
		}
		if r := e.Mesh.SetTriangle(tid, tv[0], tv[1], tv[2]); !r.Ok() {
			return fmt.Errorf("editor: rewiring triangle %d during disconnect: %s", tid, r)
		}
	}
	return nil
}

// StitchLoop bridges two vertex loops of equal length with a band of
// triangle pairs, loop1[i]-loop2[i] spans forming quads. The loops must wind
// in the same direction around their openings; triangles already added are
// removed again if any span fails.
func (e *MeshEditor) StitchLoop(loop1, loop2 []int) ([]int, error) {
	if len(loop1) != len(loop2) {
		return nil, fmt.Errorf("editor: stitch loops differ in length (%d vs %d)", len(loop1), len(loop2))
	}
	if len(loop1) < 3 {
		return nil, fmt.Errorf("editor: stitch loop too short (%d)", len(loop1))
	}

	n := len(loop1)
	added := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		a, b := loop1[i], loop1[(i+1)%n]
		c, d := loop2[i], loop2[(i+1)%n]

		t1 := e.Mesh.AppendTriangle(b, a, d)
		if t1 < 0 {
			e.rollbackTriangles(added)
			return nil, fmt.Errorf("editor: stitch span %d failed (%d)", i, t1)
		}
		added = append(added, t1)
		t2 := e.Mesh.AppendTriangle(a, c, d)
		if t2 < 0 {
			e.rollbackTriangles(added)
			return nil, fmt.Errorf("editor: stitch span %d failed (%d)", i, t2)
		}
		added = append(added, t2)
	}
	return added, nil
}

func (e *MeshEditor) rollbackTriangles(tris []int) {
	for i := len(tris) - 1; i >= 0; i-- {
		e.Mesh.RemoveTriangle(tris[i], false, false)
	}
}

func (e *MeshEditor) rollbackVertices(vertMap map[int]int) {
	for _, vid := range vertMap {
		if e.Mesh.IsVertex(vid) && e.Mesh.VertexRefCount(vid) == 1 {
			e.Mesh.RemoveVertex(vid, false, false)
		}
	}
}
