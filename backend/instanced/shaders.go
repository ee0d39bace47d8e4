// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package instanced

import (
	_ "embed"

	"github.com/gogpu/graphview/internal/shade"
)

//go:embed shaders/common.wgsl
var commonShaderSource string

//go:embed shaders/node.wgsl
var nodeShaderSource string

//go:embed shaders/edge.wgsl
var edgeShaderSource string

// NodeShaderSource returns the complete WGSL module of the node pipeline.
func NodeShaderSource() string {
	return shade.WGSLPrelude() + commonShaderSource + "\n" + nodeShaderSource
}

// EdgeShaderSource returns the complete WGSL module of the edge pipeline.
func EdgeShaderSource() string {
	return shade.WGSLPrelude() + commonShaderSource + "\n" + edgeShaderSource
}
