// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"

	"github.com/gogpu/naga"
	"github.com/spf13/cobra"

	"github.com/gogpu/graphview/backend/instanced"
)

var shaderSources = map[string]func() string{
	"node": instanced.NodeShaderSource,
	"edge": instanced.EdgeShaderSource,
}

func newShadersCmd(a *app) *cobra.Command {
	var check bool
	var stage string
	cmd := &cobra.Command{
		Use:   "shaders",
		Short: "Print the WGSL of the instanced backend, or compile it with --check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stages := []string{"node", "edge"}
			if stage != "" {
				if _, ok := shaderSources[stage]; !ok {
					return fmt.Errorf("unknown stage %q, want node or edge", stage)
				}
				stages = []string{stage}
			}
			out := cmd.OutOrStdout()
			for _, name := range stages {
				src := shaderSources[name]()
				if !check {
					fmt.Fprintf(out, "// ---- %s.wgsl ----\n%s\n", name, src)
					continue
				}
				if err := checkShader(out, name, src); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "compile to SPIR-V instead of printing")
	cmd.Flags().StringVar(&stage, "stage", "", "only this shader: node or edge")
	return cmd
}

// checkShader compiles src and reports the SPIR-V size.
func checkShader(w io.Writer, name, src string) error {
	spirv, err := naga.Compile(src)
	if err != nil {
		return fmt.Errorf("%s shader: %w", name, err)
	}
	fmt.Fprintf(w, "%s: ok, %d bytes of SPIR-V\n", name, len(spirv))
	return nil
}
