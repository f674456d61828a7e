package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshkit/pkg/mesh"
	"github.com/chazu/meshkit/pkg/sdfgen"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms meshkit Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: split-edge -> split_edge
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps an sdfgen.Solid so it can be composed between builtins.
type sexpSolid struct {
	solid sdfgen.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.solid.BoundingBox()
	return fmt.Sprintf("(solid [%.1f %.1f %.1f]..[%.1f %.1f %.1f])",
		min[0], min[1], min[2], max[0], max[1], max[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpMesh wraps a *mesh.DynamicMesh so editing builtins can mutate it.
type sexpMesh struct {
	m *mesh.DynamicMesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %dv %dt %de)", s.m.VertexCount(), s.m.TriangleCount(), s.m.EdgeCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a mesh.Vector3d.
type sexpVec3 struct {
	vec mesh.Vector3d
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// hasFlag reports whether a keyword was supplied, regardless of its value.
func (a kwArgs) hasFlag(name string) bool {
	_, ok := a.kw[name]
	return ok
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an element index from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts an sdfgen.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (sdfgen.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return sdfgen.Solid{}, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toMesh extracts a *mesh.DynamicMesh from a sexpMesh.
func toMesh(s zygo.Sexp) (*mesh.DynamicMesh, error) {
	if v, ok := s.(*sexpMesh); ok {
		return v.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vector3d from a sexpVec3.
func toVec3(s zygo.Sexp) (mesh.Vector3d, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mesh.Vector3d{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// intResult wraps an element ID for return to script code.
func intResult(id int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(id)}
}

// opError converts a non-Ok kernel result into a script-level error.
func opError(op string, r mesh.MeshResult) error {
	return fmt.Errorf("%s: %s", op, r)
}

// ---------------------------------------------------------------------------
// Session state
// ---------------------------------------------------------------------------

// session carries the state a single evaluation accumulates: the mesh the
// script designates as its output via emit, plus the tessellation defaults
// to-mesh falls back on.
type session struct {
	result       *mesh.DynamicMesh
	tessellation sdfgen.Options
}

func newSession(tessellation sdfgen.Options) *session {
	return &session{tessellation: tessellation}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the meshkit DSL into a zygomys environment.
// Solid builtins compose signed distance fields; to-mesh tessellates and
// welds a solid into a DynamicMesh; the editing builtins drive the kernel
// operators directly. Kernel failure codes surface as script errors.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals and
// kebab-case names reach their underscore registrations.
func registerBuiltins(env *zygo.Zlisp, sess *session) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: mesh.Vector3d{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// Solid primitives: (box x y z), (cylinder height radius), (sphere radius)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires x y z dimensions, got %d arguments", len(args))
		}
		dims := [3]float64{}
		for i := range dims {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d must be positive, got %g", i, f)
			}
			dims[i] = f
		}
		return &sexpSolid{solid: sdfgen.Box(dims[0], dims[1], dims[2])}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires height and radius, got %d arguments", len(args))
		}
		h, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		if h <= 0 || r <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height and radius must be positive")
		}
		return &sexpSolid{solid: sdfgen.Cylinder(h, r)}, nil
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius, got %d arguments", len(args))
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("sphere: radius must be positive, got %g", r)
		}
		return &sexpSolid{solid: sdfgen.Sphere(r)}, nil
	})

	// -----------------------------------------------------------------------
	// Booleans: (union a b ...), (difference a b), (intersection a b ...)
	// union and intersection fold left over two or more solids.
	// -----------------------------------------------------------------------
	foldSolids := func(op string, args []zygo.Sexp, f func(a, b sdfgen.Solid) sdfgen.Solid) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(args))
		}
		acc, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: argument 0: %w", op, err)
		}
		for i := 1; i < len(args); i++ {
			s, err := toSolid(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", op, i, err)
			}
			acc = f(acc, s)
		}
		return &sexpSolid{solid: acc}, nil
	}

	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return foldSolids("union", args, sdfgen.Union)
	})
	env.AddFunction("difference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return foldSolids("difference", args, sdfgen.Difference)
	})
	env.AddFunction("intersection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return foldSolids("intersection", args, sdfgen.Intersection)
	})

	// -----------------------------------------------------------------------
	// Transforms: (translate s x y z), (rotate s x y z) with degrees
	// -----------------------------------------------------------------------
	transform := func(op string, args []zygo.Sexp, f func(s sdfgen.Solid, x, y, z float64) sdfgen.Solid) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("%s requires a solid and x y z, got %d arguments", op, len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: solid: %w", op, err)
		}
		xyz := [3]float64{}
		for i := range xyz {
			f, err := toFloat64(args[i+1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: component %d: %w", op, i, err)
			}
			xyz[i] = f
		}
		return &sexpSolid{solid: f(s, xyz[0], xyz[1], xyz[2])}, nil
	}

	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return transform("translate", args, sdfgen.Translate)
	})
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return transform("rotate", args, sdfgen.Rotate)
	})

	// -----------------------------------------------------------------------
	// (to-mesh solid :cells 64 :weld-tolerance 1e-6)
	// -----------------------------------------------------------------------
	env.AddFunction("to_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("to-mesh requires exactly one solid")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("to-mesh: %w", err)
		}

		opts := sess.tessellation
		if v, ok := pa.kw["cells"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("to-mesh: cells: %w", err)
			}
			opts.Cells = n
		}
		if v, ok := pa.kw["weld-tolerance"]; ok {
			tol, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("to-mesh: weld-tolerance: %w", err)
			}
			opts.WeldTolerance = tol
		}

		m, _, err := sdfgen.ToMesh(s, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("to-mesh: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (new-mesh)
	// -----------------------------------------------------------------------
	env.AddFunction("new_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("new-mesh takes no arguments")
		}
		return &sexpMesh{m: mesh.New()}, nil
	})

	// -----------------------------------------------------------------------
	// (append-vertex m x y z) -> vertex id
	// -----------------------------------------------------------------------
	env.AddFunction("append_vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("append-vertex requires a mesh and x y z, got %d arguments", len(args))
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("append-vertex: %w", err)
		}
		xyz := [3]float64{}
		for i := range xyz {
			f, err := toFloat64(args[i+1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("append-vertex: component %d: %w", i, err)
			}
			xyz[i] = f
		}
		vid := m.AppendVertex(mesh.Vector3d{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		return intResult(vid), nil
	})

	// -----------------------------------------------------------------------
	// (append-triangle m a b c :group g) -> triangle id
	// -----------------------------------------------------------------------
	env.AddFunction("append_triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 4 {
			return zygo.SexpNull, fmt.Errorf("append-triangle requires a mesh and three vertex ids")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("append-triangle: %w", err)
		}
		tv := [3]int{}
		for i := range tv {
			v, err := toInt(pa.positional[i+1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("append-triangle: vertex %d: %w", i, err)
			}
			tv[i] = v
		}

		gid := mesh.InvalidGroupID
		if v, ok := pa.kw["group"]; ok {
			g, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("append-triangle: group: %w", err)
			}
			gid = g
			// A group tag on a groupless mesh turns the layer on.
			if !m.HasTriangleGroups() {
				m.EnableTriangleGroups(mesh.InvalidGroupID)
			}
		}

		tid := m.AppendTriangleGroup(tv[0], tv[1], tv[2], gid)
		switch tid {
		case mesh.InvalidID:
			return zygo.SexpNull, fmt.Errorf("append-triangle: invalid or degenerate vertex ids (%d %d %d)", tv[0], tv[1], tv[2])
		case mesh.NonManifoldID:
			return zygo.SexpNull, fmt.Errorf("append-triangle: triangle (%d %d %d) would create a non-manifold edge", tv[0], tv[1], tv[2])
		}
		return intResult(tid), nil
	})

	// -----------------------------------------------------------------------
	// (find-edge m a b) -> edge id, or -1 when no such edge exists
	// -----------------------------------------------------------------------
	env.AddFunction("find_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("find-edge requires a mesh and two vertex ids")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("find-edge: %w", err)
		}
		a, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("find-edge: a: %w", err)
		}
		b, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("find-edge: b: %w", err)
		}
		return intResult(m.FindEdge(a, b)), nil
	})

	// -----------------------------------------------------------------------
	// (split-edge m eid :t 0.5) -> new vertex id
	// -----------------------------------------------------------------------
	env.AddFunction("split_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("split-edge requires a mesh and an edge id")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: %w", err)
		}
		eid, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: edge: %w", err)
		}
		splitT := 0.5
		if v, ok := pa.kw["t"]; ok {
			splitT, err = toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("split-edge: t: %w", err)
			}
		}

		var info mesh.EdgeSplitInfo
		if r := m.SplitEdge(eid, splitT, &info); r != mesh.ResultOk {
			return zygo.SexpNull, opError("split-edge", r)
		}
		return intResult(info.NewVertex), nil
	})

	// -----------------------------------------------------------------------
	// (flip-edge m eid) -> eid
	// -----------------------------------------------------------------------
	env.AddFunction("flip_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("flip-edge requires a mesh and an edge id")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("flip-edge: %w", err)
		}
		eid, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("flip-edge: edge: %w", err)
		}
		if r := m.FlipEdge(eid, nil); r != mesh.ResultOk {
			return zygo.SexpNull, opError("flip-edge", r)
		}
		return intResult(eid), nil
	})

	// -----------------------------------------------------------------------
	// (collapse-edge m keep remove :t 0.5) -> kept vertex id
	// t interpolates from the kept vertex (0) to the removed vertex (1).
	// -----------------------------------------------------------------------
	env.AddFunction("collapse_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("collapse-edge requires a mesh and two vertex ids")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("collapse-edge: %w", err)
		}
		keep, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("collapse-edge: keep: %w", err)
		}
		remove, err := toInt(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("collapse-edge: remove: %w", err)
		}
		collapseT := 0.0
		if v, ok := pa.kw["t"]; ok {
			collapseT, err = toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("collapse-edge: t: %w", err)
			}
		}
		if r := m.CollapseEdge(keep, remove, collapseT, nil); r != mesh.ResultOk {
			return zygo.SexpNull, opError("collapse-edge", r)
		}
		return intResult(keep), nil
	})

	// -----------------------------------------------------------------------
	// (poke-triangle m tid :bary (vec3 w0 w1 w2)) -> new vertex id
	// -----------------------------------------------------------------------
	env.AddFunction("poke_triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("poke-triangle requires a mesh and a triangle id")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("poke-triangle: %w", err)
		}
		tid, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("poke-triangle: triangle: %w", err)
		}
		bary := mesh.Vector3d{X: 1.0 / 3.0, Y: 1.0 / 3.0, Z: 1.0 / 3.0}
		if v, ok := pa.kw["bary"]; ok {
			bary, err = toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("poke-triangle: bary: %w", err)
			}
		}
		var info mesh.PokeTriangleInfo
		if r := m.PokeTriangle(tid, bary, &info); r != mesh.ResultOk {
			return zygo.SexpNull, opError("poke-triangle", r)
		}
		return intResult(info.NewVertex), nil
	})

	// -----------------------------------------------------------------------
	// (merge-edges m keep discard) -> kept edge id
	// -----------------------------------------------------------------------
	env.AddFunction("merge_edges", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("merge-edges requires a mesh and two edge ids")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-edges: %w", err)
		}
		keep, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-edges: keep: %w", err)
		}
		discard, err := toInt(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-edges: discard: %w", err)
		}
		if r := m.MergeEdges(keep, discard, nil); r != mesh.ResultOk {
			return zygo.SexpNull, opError("merge-edges", r)
		}
		return intResult(keep), nil
	})

	// -----------------------------------------------------------------------
	// (remove-triangle m tid :keep-vertices :allow-bowties) -> tid
	// -----------------------------------------------------------------------
	env.AddFunction("remove_triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("remove-triangle requires a mesh and a triangle id")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-triangle: %w", err)
		}
		tid, err := toInt(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-triangle: triangle: %w", err)
		}
		removeIsolated := !pa.hasFlag("keep-vertices")
		preserveManifold := !pa.hasFlag("allow-bowties")
		if r := m.RemoveTriangle(tid, removeIsolated, preserveManifold); r != mesh.ResultOk {
			return zygo.SexpNull, opError("remove-triangle", r)
		}
		return intResult(tid), nil
	})

	// -----------------------------------------------------------------------
	// (remove-vertex m vid) -> vid
	// -----------------------------------------------------------------------
	env.AddFunction("remove_vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("remove-vertex requires a mesh and a vertex id")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-vertex: %w", err)
		}
		vid, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-vertex: vertex: %w", err)
		}
		if r := m.RemoveVertex(vid, true, true); r != mesh.ResultOk {
			return zygo.SexpNull, opError("remove-vertex", r)
		}
		return intResult(vid), nil
	})

	// -----------------------------------------------------------------------
	// (reverse-orientation m) -> m
	// -----------------------------------------------------------------------
	env.AddFunction("reverse_orientation", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("reverse-orientation requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reverse-orientation: %w", err)
		}
		m.ReverseOrientation(true)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (compact m) -> m
	// -----------------------------------------------------------------------
	env.AddFunction("compact", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("compact requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("compact: %w", err)
		}
		if r := m.CompactInPlace(nil); r != mesh.ResultOk {
			return zygo.SexpNull, opError("compact", r)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (check-validity m) -> issue report string, empty when the mesh is clean
	// -----------------------------------------------------------------------
	env.AddFunction("check_validity", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("check-validity requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("check-validity: %w", err)
		}
		issues := m.CheckValidity(false)
		lines := make([]string, len(issues))
		for i, issue := range issues {
			lines[i] = issue.String()
		}
		return &zygo.SexpStr{S: strings.Join(lines, "\n")}, nil
	})

	// -----------------------------------------------------------------------
	// (stats m) -> summary string
	// -----------------------------------------------------------------------
	env.AddFunction("stats", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("stats requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("stats: %w", err)
		}
		s := fmt.Sprintf("vertices=%d triangles=%d edges=%d boundary-edges=%d closed=%v",
			m.VertexCount(), m.TriangleCount(), m.EdgeCount(), m.BoundaryEdgeCount(), m.IsClosed())
		return &zygo.SexpStr{S: s}, nil
	})

	// -----------------------------------------------------------------------
	// Counts: (vertex-count m), (triangle-count m), (edge-count m)
	// -----------------------------------------------------------------------
	countFn := func(op string, count func(m *mesh.DynamicMesh) int) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a mesh", op)
			}
			m, err := toMesh(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			return intResult(count(m)), nil
		}
	}
	env.AddFunction("vertex_count", countFn("vertex-count", (*mesh.DynamicMesh).VertexCount))
	env.AddFunction("triangle_count", countFn("triangle-count", (*mesh.DynamicMesh).TriangleCount))
	env.AddFunction("edge_count", countFn("edge-count", (*mesh.DynamicMesh).EdgeCount))

	// -----------------------------------------------------------------------
	// (emit m) designates the script's output mesh; the last emit wins.
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("emit requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		sess.result = m
		return args[0], nil
	})
}
