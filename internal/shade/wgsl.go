// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shade

import (
	"strconv"
	"strings"
)

// preludeConst is one WGSL constant emitted by WGSLPrelude.
type preludeConst struct {
	name  string
	value float32
}

func preludeConsts() []preludeConst {
	return []preludeConst{
		{"DEGREE_CAP", DegreeCap},
		{"MIN_NODE_SIZE", MinNodeSize},
		{"MAX_NODE_SIZE", MaxNodeSize},
		{"OPACITY_BOOST", OpacityBoost},
		{"EDGE_HALF_WIDTH", EdgeHalfWidth},
		{"MIN_POINT_SIZE", MinPointSize},
		{"BORDER_INNER", BorderInner},
		{"BORDER_OUTER", BorderOuter},
		{"RIM_START", RimStart},
		{"BORDER_DARKEN", BorderDarken},
	}
}

// WGSLPrelude returns WGSL const declarations for every constant in this
// package, to be prepended to shader sources. The cull sentinels are not
// included: WGSL rejects NaN and infinite constant expressions, so shaders
// read their bit patterns from the uniform block.
func WGSLPrelude() string {
	var b strings.Builder
	b.WriteString("// Generated by internal/shade. Do not edit.\n")
	for _, c := range preludeConsts() {
		b.WriteString("const ")
		b.WriteString(c.name)
		b.WriteString(": f32 = ")
		b.WriteString(wgslFloat(c.value))
		b.WriteString(";\n")
	}
	b.WriteString("\n")
	return b.String()
}

// wgslFloat formats v as a WGSL float literal; a bare integer would be an
// abstract-int literal.
func wgslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
