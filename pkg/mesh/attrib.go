package mesh

// AttributeSet is the optional sibling subsystem holding per-element overlay
// data (per-corner normals, UV islands, material IDs, ...). The kernel does
// not know what an overlay stores; it only reports lifecycle events so the
// overlay can keep its own element spaces in sync.
//
// Callbacks fire only on Ok outcomes, synchronously, after all kernel buffer
// state is consistent and before the final timestamp bump.
type AttributeSet interface {
	// OnNewTriangle is called after a triangle is appended or inserted.
	// isInsert is true for the specific-ID insertion path.
	OnNewTriangle(tid int, isInsert bool)

	// OnReverseTriOrientation is called after a triangle's winding flips.
	OnReverseTriOrientation(tid int)

	// OnRemoveTriangle is called after a triangle is removed.
	// removedIsolatedVerts reports whether orphaned vertices were freed too.
	OnRemoveTriangle(tid int, removedIsolatedVerts bool)

	OnSplitEdge(info EdgeSplitInfo)
	OnFlipEdge(info EdgeFlipInfo)
	OnCollapseEdge(info EdgeCollapseInfo)
	OnMergeEdges(info MergeEdgesInfo)
	OnPokeTriangle(info PokeTriangleInfo)
}
