// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package instanced

import (
	"encoding/binary"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/shade"
)

// The helpers below interpret the straight-line WGSL functions of the
// shipped shader modules (let bindings and a return) so their results can
// be compared with the Go reference in internal/shade. WGSL expressions of
// that shape parse as Go expressions once the u suffixes and the generic
// constructors are rewritten.

type wgslKind int

const (
	kindF32 wgslKind = iota
	kindU32
	kindBool
	kindVec2
)

type wgslValue struct {
	kind wgslKind
	f    float32
	u    uint32
	b    bool
	v    [2]float32
}

func f32v(f float32) wgslValue { return wgslValue{kind: kindF32, f: f} }
func u32v(u uint32) wgslValue  { return wgslValue{kind: kindU32, u: u} }
func boolv(b bool) wgslValue   { return wgslValue{kind: kindBool, b: b} }

type wgslFunc struct {
	params []string
	body   string
}

var (
	wgslFnPattern    = regexp.MustCompile(`(?ms)^fn (\w+)\(([^)]*)\)[^{]*\{\n(.*?)^\}`)
	wgslConstPattern = regexp.MustCompile(`(?m)^const (\w+): f32 = ([^;]+);`)
	wgslUintSuffix   = regexp.MustCompile(`\b(0x[0-9a-fA-F]+|[0-9]+)u\b`)
	wgslLineComment  = regexp.MustCompile(`//[^\n]*`)
	wgslGenerics     = strings.NewReplacer("bitcast<f32>(", "bitcast_f32(", "vec2<f32>(", "vec2(")
)

type wgslEval struct {
	t        *testing.T
	consts   map[string]wgslValue
	fns      map[string]wgslFunc
	uniforms map[string]wgslValue
}

func newWGSLEval(t *testing.T, src string) *wgslEval {
	t.Helper()
	e := &wgslEval{
		t:        t,
		consts:   make(map[string]wgslValue),
		fns:      make(map[string]wgslFunc),
		uniforms: make(map[string]wgslValue),
	}
	for _, m := range wgslConstPattern.FindAllStringSubmatch(src, -1) {
		v, err := strconv.ParseFloat(m[2], 32)
		if err != nil {
			t.Fatalf("const %s: %v", m[1], err)
		}
		e.consts[m[1]] = f32v(float32(v))
	}
	for _, m := range wgslFnPattern.FindAllStringSubmatch(src, -1) {
		var params []string
		for _, p := range strings.Split(m[2], ",") {
			if name, _, ok := strings.Cut(p, ":"); ok {
				params = append(params, strings.TrimSpace(name))
			}
		}
		e.fns[m[1]] = wgslFunc{params: params, body: m[3]}
	}
	if len(e.consts) == 0 || len(e.fns) == 0 {
		t.Fatal("no constants or functions found in shader source")
	}
	return e
}

// setBlock loads the uniforms from an encoded uniform block.
func (e *wgslEval) setBlock(buf []byte) {
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }
	e.uniforms["zoom"] = f32v(math.Float32frombits(u32(64)))
	e.uniforms["opacity"] = f32v(math.Float32frombits(u32(68)))
	e.uniforms["degree_filter"] = u32v(u32(72))
	e.uniforms["cull_position_bits"] = u32v(u32(76))
	e.uniforms["cull_alpha_bits"] = u32v(u32(80))
	e.uniforms["class_count"] = u32v(u32(84))
}

func (e *wgslEval) call(name string, args ...wgslValue) wgslValue {
	e.t.Helper()
	fn, ok := e.fns[name]
	if !ok {
		e.t.Fatalf("shader has no function %s", name)
	}
	if len(args) != len(fn.params) {
		e.t.Fatalf("%s takes %d arguments, got %d", name, len(fn.params), len(args))
	}
	env := make(map[string]wgslValue, len(args))
	for i, p := range fn.params {
		env[p] = args[i]
	}
	body := wgslLineComment.ReplaceAllString(fn.body, "")
	for _, stmt := range strings.Split(body, ";") {
		stmt = strings.TrimSpace(stmt)
		switch {
		case stmt == "":
		case strings.HasPrefix(stmt, "let "):
			local, expr, ok := strings.Cut(strings.TrimPrefix(stmt, "let "), "=")
			if !ok {
				e.t.Fatalf("%s: malformed let %q", name, stmt)
			}
			env[strings.TrimSpace(local)] = e.expr(expr, env)
		case strings.HasPrefix(stmt, "return "):
			return e.expr(strings.TrimPrefix(stmt, "return "), env)
		default:
			e.t.Fatalf("%s: unsupported statement %q", name, stmt)
		}
	}
	e.t.Fatalf("%s: no return", name)
	return wgslValue{}
}

func (e *wgslEval) expr(src string, env map[string]wgslValue) wgslValue {
	e.t.Helper()
	src = wgslUintSuffix.ReplaceAllString(wgslGenerics.Replace(src), "$1")
	x, err := parser.ParseExpr(src)
	if err != nil {
		e.t.Fatalf("parse %q: %v", src, err)
	}
	return e.eval(x, env)
}

func (e *wgslEval) eval(x ast.Expr, env map[string]wgslValue) wgslValue {
	e.t.Helper()
	switch n := x.(type) {
	case *ast.ParenExpr:
		return e.eval(n.X, env)
	case *ast.BasicLit:
		switch n.Kind {
		case token.INT:
			v, err := strconv.ParseUint(n.Value, 0, 32)
			if err != nil {
				e.t.Fatalf("literal %s: %v", n.Value, err)
			}
			return u32v(uint32(v))
		case token.FLOAT:
			v, err := strconv.ParseFloat(n.Value, 32)
			if err != nil {
				e.t.Fatalf("literal %s: %v", n.Value, err)
			}
			return f32v(float32(v))
		}
	case *ast.Ident:
		if v, ok := env[n.Name]; ok {
			return v
		}
		if v, ok := e.consts[n.Name]; ok {
			return v
		}
	case *ast.SelectorExpr:
		if id, ok := n.X.(*ast.Ident); ok && id.Name == "u" {
			if v, ok := e.uniforms[n.Sel.Name]; ok {
				return v
			}
		}
	case *ast.UnaryExpr:
		v := e.eval(n.X, env)
		if n.Op == token.SUB && v.kind == kindF32 {
			return f32v(-v.f)
		}
		if n.Op == token.NOT && v.kind == kindBool {
			return boolv(!v.b)
		}
	case *ast.BinaryExpr:
		return e.binary(n.Op, e.eval(n.X, env), e.eval(n.Y, env))
	case *ast.CallExpr:
		id, ok := n.Fun.(*ast.Ident)
		if !ok {
			break
		}
		args := make([]wgslValue, len(n.Args))
		for i, a := range n.Args {
			args[i] = e.eval(a, env)
		}
		if v, ok := e.builtin(id.Name, args); ok {
			return v
		}
		return e.call(id.Name, args...)
	}
	e.t.Fatalf("cannot evaluate %T", x)
	return wgslValue{}
}

func (e *wgslEval) binary(op token.Token, l, r wgslValue) wgslValue {
	e.t.Helper()
	if l.kind != r.kind {
		e.t.Fatalf("operator %s on mixed types", op)
	}
	switch l.kind {
	case kindF32:
		switch op {
		case token.ADD:
			return f32v(l.f + r.f)
		case token.SUB:
			return f32v(l.f - r.f)
		case token.MUL:
			return f32v(l.f * r.f)
		case token.QUO:
			return f32v(l.f / r.f)
		case token.LSS:
			return boolv(l.f < r.f)
		case token.LEQ:
			return boolv(l.f <= r.f)
		case token.GTR:
			return boolv(l.f > r.f)
		case token.GEQ:
			return boolv(l.f >= r.f)
		}
	case kindU32:
		switch op {
		case token.AND:
			return u32v(l.u & r.u)
		case token.OR:
			return u32v(l.u | r.u)
		case token.SHR:
			return u32v(l.u >> r.u)
		case token.SHL:
			return u32v(l.u << r.u)
		case token.ADD:
			return u32v(l.u + r.u)
		case token.SUB:
			return u32v(l.u - r.u)
		case token.LSS:
			return boolv(l.u < r.u)
		case token.LEQ:
			return boolv(l.u <= r.u)
		case token.GTR:
			return boolv(l.u > r.u)
		case token.GEQ:
			return boolv(l.u >= r.u)
		case token.EQL:
			return boolv(l.u == r.u)
		}
	case kindBool:
		switch op {
		case token.LAND:
			return boolv(l.b && r.b)
		case token.LOR:
			return boolv(l.b || r.b)
		}
	}
	e.t.Fatalf("unsupported operator %s", op)
	return wgslValue{}
}

func (e *wgslEval) builtin(name string, args []wgslValue) (wgslValue, bool) {
	e.t.Helper()
	switch name {
	case "sqrt":
		return f32v(float32(math.Sqrt(float64(args[0].f)))), true
	case "clamp":
		return f32v(min(max(args[0].f, args[1].f), args[2].f)), true
	case "smoothstep":
		t := min(max((args[2].f-args[0].f)/(args[1].f-args[0].f), 0), 1)
		return f32v(t * t * (3 - 2*t)), true
	case "min", "max":
		a, b := args[0], args[1]
		if a.kind != b.kind {
			e.t.Fatalf("%s on mixed types", name)
		}
		less := a.f < b.f
		if a.kind == kindU32 {
			less = a.u < b.u
		}
		if less == (name == "min") {
			return a, true
		}
		return b, true
	case "f32":
		if args[0].kind == kindU32 {
			return f32v(float32(args[0].u)), true
		}
		return args[0], true
	case "bitcast_f32":
		return f32v(math.Float32frombits(args[0].u)), true
	case "vec2":
		return wgslValue{kind: kindVec2, v: [2]float32{args[0].f, args[1].f}}, true
	}
	return wgslValue{}, false
}

func closeTo(got, want float32) bool {
	return math.Abs(float64(got-want)) <= 1e-5*max(1, math.Abs(float64(want)))
}

func TestShaderLODMatchesGo(t *testing.T) {
	e := newWGSLEval(t, NodeShaderSource())
	degrees := []uint16{0, 1, 2, 10, 100, 250, 999, 1000, 1001, 40000, graphview.MaxDegree}

	for _, zoom := range []float32{0.005, 0.5, 1, 4} {
		for _, opacity := range []float32{0, 0.25, 0.5, 1} {
			block := drawUniforms{projection: graphview.Identity4(), zoom: zoom, opacity: opacity, filter: graphview.AllDegrees}
			buf := make([]byte, uniformSize)
			block.put(buf)
			e.setBlock(buf)

			for _, d := range degrees {
				deg := u32v(uint32(d))
				if got, want := e.call("lod_scale", deg).f, shade.LODScale(d); got != want {
					t.Errorf("lod_scale(%d) = %v, Go %v", d, got, want)
				}
				if got, want := e.call("node_size", deg).f, shade.NodeSize(d); !closeTo(got, want) {
					t.Errorf("node_size(%d) = %v, Go %v", d, got, want)
				}
				if got, want := e.call("point_size", deg).f, shade.PointSize(d, zoom); !closeTo(got, want) {
					t.Errorf("zoom %v: point_size(%d) = %v, Go %v", zoom, d, got, want)
				}
				if got, want := e.call("lod_alpha", deg).f, shade.LODAlpha(opacity, d); !closeTo(got, want) {
					t.Errorf("opacity %v: lod_alpha(%d) = %v, Go %v", opacity, d, got, want)
				}
			}
		}
	}
}

func TestShaderCullingMatchesGo(t *testing.T) {
	e := newWGSLEval(t, EdgeShaderSource())
	filters := []graphview.DegreeFilter{
		graphview.AllDegrees,
		graphview.PackFilter(2, 5),
		graphview.PackFilter(0, 0),
		graphview.PackFilter(5, 2), // empty
		graphview.PackFilter(graphview.MaxDegree, graphview.MaxDegree),
	}
	degrees := []uint16{0, 1, 2, 3, 5, 6, 1000, graphview.MaxDegree}

	for _, f := range filters {
		block := drawUniforms{projection: graphview.Identity4(), zoom: 1, opacity: 0.5, filter: f, classCount: 4}
		buf := make([]byte, uniformSize)
		block.put(buf)
		e.setBlock(buf)

		for _, d := range degrees {
			for _, class := range []uint16{0, 3, graphview.MaxClass} {
				a := graphview.PackAttr(d, class)
				attr := u32v(uint32(a))
				if got := e.call("attr_degree", attr).u; got != uint32(d) {
					t.Errorf("attr_degree(%#x) = %d", uint32(a), got)
				}
				if got := e.call("attr_class", attr).u; got != uint32(class) {
					t.Errorf("attr_class(%#x) = %d", uint32(a), got)
				}
				if got, want := e.call("passes_filter", attr).b, shade.Visible(f, a); got != want {
					t.Errorf("filter %#x: passes_filter(degree %d) = %v, Go %v", uint32(f), d, got, want)
				}
			}
		}

		alpha := e.call("cull_alpha").f
		if math.Float32bits(alpha) != shade.CullAlphaBits || !math.IsInf(float64(alpha), -1) {
			t.Errorf("cull_alpha() bits = %#x, want %#x", math.Float32bits(alpha), shade.CullAlphaBits)
		}
		pos := e.call("cull_position")
		for i, c := range pos.v {
			if math.Float32bits(c) != shade.CullPositionBits {
				t.Errorf("cull_position()[%d] bits = %#x, want %#x", i, math.Float32bits(c), shade.CullPositionBits)
			}
		}
	}
}

func TestShaderDiscProfile(t *testing.T) {
	e := newWGSLEval(t, NodeShaderSource())
	tests := []struct {
		d                float32
		border, coverage float32
	}{
		{0, 0, 1},
		{0.5, 0, 1},
		{shade.BorderInner, 0, 1},
		{(shade.BorderInner + shade.BorderOuter) / 2, 0.5, 1},
		{shade.BorderOuter, 1, 1},
		{shade.RimStart, 1, 1},
		{(shade.RimStart + 1) / 2, 1, 0.5},
		{1, 1, 0},
	}
	for _, tt := range tests {
		if got := e.call("disc_border", f32v(tt.d)).f; !closeTo(got, tt.border) {
			t.Errorf("disc_border(%v) = %v, want %v", tt.d, got, tt.border)
		}
		if got := e.call("disc_coverage", f32v(tt.d)).f; !closeTo(got, tt.coverage) {
			t.Errorf("disc_coverage(%v) = %v, want %v", tt.d, got, tt.coverage)
		}
	}

	// The banded point sprite darkens exactly where the smooth border is
	// fully dark.
	for _, d := range []float32{0.5, 0.79, 0.81, 0.95} {
		border, _ := shade.PointSprite(d, 0)
		if full := e.call("disc_border", f32v(d)).f == 1; border != full {
			t.Errorf("d=%v: point sprite border %v, smooth border full %v", d, border, full)
		}
	}
}
