// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/config"
)

// app is the state shared by all subcommands.
type app struct {
	configPath string
	envPath    string
	verbose    bool

	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func execute(args []string) error {
	root := newRootCmd(&app{stdout: os.Stdout, stderr: os.Stderr})
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "graphview",
		Short:        "Render laid-out node-link graphs",
		Long:         "graphview draws large laid-out graphs with degree-based level of detail, on the GPU when one is available.",
		Version:      graphview.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath, a.envPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := parseLevel(cfg.LogLevel)
			if a.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(a.stderr, level)
			graphview.SetLogger(slogLogger(logger))
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate(fmt.Sprintf("graphview %s\n", graphview.Version))

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	flags.StringVar(&a.envPath, "env", "", "dotenv file with GRAPHVIEW_* overrides (default .env if present)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newSynthCmd(a))
	root.AddCommand(newShadersCmd(a))
	return root
}
