package mesh

import "fmt"

// MeshResult is the structured outcome returned by every mutating operator.
// Expected precondition failures return a specific code with the mesh left
// completely unmodified; ResultUnrecoverableError indicates an
// internal-consistency violation, i.e. a bug rather than bad input.
type MeshResult int

const (
	ResultOk MeshResult = iota

	ResultFailedNotAVertex
	ResultFailedNotATriangle
	ResultFailedNotAnEdge

	ResultFailedVertexAlreadyExists
	ResultFailedTriangleAlreadyExists
	ResultFailedCannotAllocateVertex
	ResultFailedCannotAllocateTriangle

	ResultFailedBrokenTopology
	ResultFailedInvalidNeighbourhood

	ResultFailedWouldCreateNonmanifoldEdge
	ResultFailedWouldCreateBowtie

	ResultFailedIsBoundaryEdge
	ResultFailedNotABoundaryEdge
	ResultFailedFlippedEdgeExists
	ResultFailedFoundDuplicateTriangle

	ResultFailedCollapseTetrahedron
	ResultFailedCollapseTriangle

	ResultFailedHitValenceLimit
	ResultFailedSameOrientation
	ResultFailedVertexStillReferenced

	ResultFailedUnsupportedWithAttributes

	ResultFailedUnrecoverableError
)

func (r MeshResult) String() string {
	switch r {
	case ResultOk:
		return "Ok"
	case ResultFailedNotAVertex:
		return "Failed_NotAVertex"
	case ResultFailedNotATriangle:
		return "Failed_NotATriangle"
	case ResultFailedNotAnEdge:
		return "Failed_NotAnEdge"
	case ResultFailedVertexAlreadyExists:
		return "Failed_VertexAlreadyExists"
	case ResultFailedTriangleAlreadyExists:
		return "Failed_TriangleAlreadyExists"
	case ResultFailedCannotAllocateVertex:
		return "Failed_CannotAllocateVertex"
	case ResultFailedCannotAllocateTriangle:
		return "Failed_CannotAllocateTriangle"
	case ResultFailedBrokenTopology:
		return "Failed_BrokenTopology"
	case ResultFailedInvalidNeighbourhood:
		return "Failed_InvalidNeighbourhood"
	case ResultFailedWouldCreateNonmanifoldEdge:
		return "Failed_WouldCreateNonmanifoldEdge"
	case ResultFailedWouldCreateBowtie:
		return "Failed_WouldCreateBowtie"
	case ResultFailedIsBoundaryEdge:
		return "Failed_IsBoundaryEdge"
	case ResultFailedNotABoundaryEdge:
		return "Failed_NotABoundaryEdge"
	case ResultFailedFlippedEdgeExists:
		return "Failed_FlippedEdgeExists"
	case ResultFailedFoundDuplicateTriangle:
		return "Failed_FoundDuplicateTriangle"
	case ResultFailedCollapseTetrahedron:
		return "Failed_CollapseTetrahedron"
	case ResultFailedCollapseTriangle:
		return "Failed_CollapseTriangle"
	case ResultFailedHitValenceLimit:
		return "Failed_HitValenceLimit"
	case ResultFailedSameOrientation:
		return "Failed_SameOrientation"
	case ResultFailedVertexStillReferenced:
		return "Failed_VertexStillReferenced"
	case ResultFailedUnsupportedWithAttributes:
		return "Failed_UnsupportedWithAttributes"
	case ResultFailedUnrecoverableError:
		return "Failed_UnrecoverableError"
	default:
		return fmt.Sprintf("MeshResult(%d)", int(r))
	}
}

// Ok reports whether the operator succeeded.
func (r MeshResult) Ok() bool {
	return r == ResultOk
}
