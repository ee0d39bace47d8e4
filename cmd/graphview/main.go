// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command graphview renders laid-out node-link graphs to PNG.
//
//	graphview synth -n 50000 -o graph.yaml
//	graphview render graph.yaml -o graph.png --degree-min 3
//	graphview stats graph.yaml
//	graphview shaders --check
package main

import "os"

func main() {
	if err := execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
