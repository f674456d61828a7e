package engine

import (
	"strings"
	"testing"

	"github.com/chazu/meshkit/pkg/mesh"
	"github.com/chazu/meshkit/pkg/sdfgen"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(split-edge m e :t 0.25)`,
			expect: `(split_edge m e "__kw_t" 0.25)`,
		},
		{
			name:   "multiple keywords",
			input:  `(to-mesh s :cells 32 :weld-tolerance 0.001)`,
			expect: `(to_mesh s "__kw_cells" 32 "__kw_weld-tolerance" 0.001)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(append-triangle m 0 1 2)`,
			expect: `(append_triangle m 0 1 2)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:weld-tolerance`,
			expect: `"__kw_weld-tolerance"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Script evaluation helpers
// ---------------------------------------------------------------------------

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, source string) *mesh.DynamicMesh {
	t.Helper()
	eng := NewEngine()
	m, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if m == nil {
		t.Fatal("expected non-nil mesh")
	}
	return m
}

// mustFail evaluates source and fails the test unless evaluation reports an
// eval error mentioning want.
func mustFail(t *testing.T, source, want string) {
	t.Helper()
	eng := NewEngine()
	m, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil mesh on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatalf("expected an eval error mentioning %q", want)
	}
	if !strings.Contains(evalErrs[0].Message, want) {
		t.Errorf("error %q does not mention %q", evalErrs[0].Message, want)
	}
}

// ---------------------------------------------------------------------------
// Mesh construction builtins
// ---------------------------------------------------------------------------

func TestScriptBuildsQuad(t *testing.T) {
	m := mustEval(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 1 1 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2)
(append-triangle m 0 2 3)
(emit m)
`)
	if m.VertexCount() != 4 || m.TriangleCount() != 2 || m.EdgeCount() != 5 {
		t.Fatalf("quad mesh: got %d verts, %d tris, %d edges, expected 4/2/5",
			m.VertexCount(), m.TriangleCount(), m.EdgeCount())
	}
	if issues := m.CheckValidity(false); len(issues) != 0 {
		t.Fatalf("quad mesh invalid: %v", issues)
	}
}

func TestScriptTriangleGroups(t *testing.T) {
	m := mustEval(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2 :group 7)
(emit m)
`)
	if m.TriangleGroup(0) != 7 {
		t.Fatalf("triangle group = %d, expected 7", m.TriangleGroup(0))
	}
}

func TestScriptRejectsNonManifoldTriangle(t *testing.T) {
	mustFail(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 0 1 0)
(append-vertex m 1 1 0)
(append-vertex m 0.5 0.5 1)
(append-triangle m 0 1 2)
(append-triangle m 0 2 1)
(emit m)
`, "non-manifold")
}

func TestScriptRejectsDegenerateTriangle(t *testing.T) {
	mustFail(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-triangle m 0 1 1)
(emit m)
`, "invalid or degenerate")
}

// ---------------------------------------------------------------------------
// Editing operator builtins
// ---------------------------------------------------------------------------

func TestScriptSplitAndCollapse(t *testing.T) {
	// Split the quad diagonal, then collapse the new vertex back.
	m := mustEval(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 1 1 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2)
(append-triangle m 0 2 3)
(def diag (find-edge m 0 2))
(def v (split-edge m diag :t 0.5))
(collapse-edge m 0 v)
(emit m)
`)
	if m.VertexCount() != 4 || m.TriangleCount() != 2 {
		t.Fatalf("after split+collapse: got %d verts, %d tris, expected 4/2",
			m.VertexCount(), m.TriangleCount())
	}
	if issues := m.CheckValidity(false); len(issues) != 0 {
		t.Fatalf("mesh invalid after split+collapse: %v", issues)
	}
}

func TestScriptFlipEdge(t *testing.T) {
	m := mustEval(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 1 1 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2)
(append-triangle m 0 2 3)
(flip-edge m (find-edge m 0 2))
(emit m)
`)
	if m.FindEdge(0, 2) != mesh.InvalidID {
		t.Error("diagonal (0,2) should be gone after flip")
	}
	if m.FindEdge(1, 3) == mesh.InvalidID {
		t.Error("diagonal (1,3) should exist after flip")
	}
}

func TestScriptFlipBoundaryEdgeFails(t *testing.T) {
	mustFail(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2)
(flip-edge m (find-edge m 0 1))
(emit m)
`, "flip-edge")
}

func TestScriptPokeTriangle(t *testing.T) {
	m := mustEval(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2)
(poke-triangle m 0)
(emit m)
`)
	if m.VertexCount() != 4 || m.TriangleCount() != 3 {
		t.Fatalf("after poke: got %d verts, %d tris, expected 4/3",
			m.VertexCount(), m.TriangleCount())
	}
}

func TestScriptRemoveTriangleAndCompact(t *testing.T) {
	m := mustEval(t, `
(def m (new-mesh))
(append-vertex m 0 0 0)
(append-vertex m 1 0 0)
(append-vertex m 1 1 0)
(append-vertex m 0 1 0)
(append-triangle m 0 1 2)
(append-triangle m 0 2 3)
(remove-triangle m 1)
(compact m)
(emit m)
`)
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("after remove+compact: got %d verts, %d tris, expected 3/1",
			m.VertexCount(), m.TriangleCount())
	}
	if !m.IsCompact() {
		t.Error("mesh should be compact")
	}
}

// ---------------------------------------------------------------------------
// Solid modeling builtins
// ---------------------------------------------------------------------------

func TestScriptSolidToMesh(t *testing.T) {
	m := mustEval(t, `
(emit (to-mesh (box 10 10 10) :cells 16))
`)
	if m.TriangleCount() == 0 {
		t.Fatal("expected non-empty tessellated mesh")
	}
	if !m.IsClosed() {
		t.Error("tessellated box should be closed")
	}
	if issues := m.CheckValidity(false); len(issues) != 0 {
		t.Fatalf("tessellated mesh invalid: %v", issues)
	}
}

func TestScriptBooleanSolids(t *testing.T) {
	m := mustEval(t, `
(def plate (box 20 20 5))
(def hole (translate (cylinder 10 3) 10 10 2.5))
(emit (to-mesh (difference plate hole) :cells 32))
`)
	if m.TriangleCount() == 0 {
		t.Fatal("expected non-empty mesh")
	}
	if !m.IsClosed() {
		t.Error("boolean result should be closed")
	}
	// The bore runs through the plate, so its axis midpoint is outside.
	if m.IsInside(mesh.Vector3d{X: 10, Y: 10, Z: 2.5}) {
		t.Error("center of the bored hole reported inside")
	}
}

func TestTessellationDefaultsApply(t *testing.T) {
	eng := NewEngine()
	eng.SetTessellationDefaults(sdfgen.Options{Cells: 16})

	m, evalErrs, err := eng.Evaluate(`(emit (to-mesh (box 10 10 10)))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if m.TriangleCount() == 0 {
		t.Fatal("expected non-empty mesh using engine tessellation defaults")
	}
}

func TestScriptSolidArgumentErrors(t *testing.T) {
	mustFail(t, `(box 10 10)`, "box requires")
	mustFail(t, `(sphere -1)`, "must be positive")
	mustFail(t, `(union (box 1 1 1))`, "at least 2 solids")
	mustFail(t, `(to-mesh 42)`, "expected solid")
}

func TestScriptTypeErrors(t *testing.T) {
	mustFail(t, `(append-vertex 42 0 0 0)`, "expected mesh")
	mustFail(t, `
(def m (new-mesh))
(append-vertex m "x" 0 0)
`, "expected number")
}
