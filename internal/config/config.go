// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the settings of the graphview command: a TOML file,
// then a .env file, then GRAPHVIEW_* environment variables, each layer
// overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/internal/geom"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "GRAPHVIEW_"

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "graphview.toml"

// ErrInvalid is returned for settings outside their valid range.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds the render settings.
type Config struct {
	Backend        string   `toml:"backend"` // "" picks the best available
	Width          int      `toml:"width"`
	Height         int      `toml:"height"`
	Supersample    int      `toml:"supersample"`
	Workers        int      `toml:"workers"`
	MaxVertexBytes int      `toml:"max_vertex_bytes"`
	NodeOpacity    float32  `toml:"node_opacity"`
	EdgeOpacity    float32  `toml:"edge_opacity"`
	ShowNodes      bool     `toml:"show_nodes"`
	ShowEdges      bool     `toml:"show_edges"`
	FilterNodes    bool     `toml:"filter_nodes"`
	DegreeMin      int      `toml:"degree_min"`
	DegreeMax      int      `toml:"degree_max"`
	Background     string   `toml:"background"`
	Palette        []string `toml:"palette"`
	Classes        int      `toml:"classes"` // size of the generated palette when Palette is empty
	LogLevel       string   `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:          1280,
		Height:         720,
		Supersample:    1,
		MaxVertexBytes: geom.DefaultMaxVertexBytes,
		NodeOpacity:    0.5,
		EdgeOpacity:    0.5,
		ShowNodes:      true,
		ShowEdges:      true,
		DegreeMin:      0,
		DegreeMax:      graphview.MaxDegree,
		Background:     "black",
		Classes:        8,
		LogLevel:       "info",
	}
}

// Load returns the defaults overridden by the TOML file at path (skipped
// when path is empty and the default file is absent), by dotenv and by the
// process environment.
func Load(path, dotenv string) (Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		md, err := toml.DecodeFile(file, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), file)
		}
	}

	if err := loadDotenv(dotenv); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// loadDotenv exports the variables of a .env file that are not already set.
// A missing default file is not an error.
func loadDotenv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from GRAPHVIEW_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalid, EnvPrefix, key, v))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float32) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalid, EnvPrefix, key, v))
				return
			}
			*dst = float32(f)
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalid, EnvPrefix, key, v))
				return
			}
			*dst = b
		}
	}

	str("BACKEND", &c.Backend)
	integer("WIDTH", &c.Width)
	integer("HEIGHT", &c.Height)
	integer("SUPERSAMPLE", &c.Supersample)
	integer("WORKERS", &c.Workers)
	integer("MAX_VERTEX_BYTES", &c.MaxVertexBytes)
	float("NODE_OPACITY", &c.NodeOpacity)
	float("EDGE_OPACITY", &c.EdgeOpacity)
	boolean("SHOW_NODES", &c.ShowNodes)
	boolean("SHOW_EDGES", &c.ShowEdges)
	boolean("FILTER_NODES", &c.FilterNodes)
	integer("DEGREE_MIN", &c.DegreeMin)
	integer("DEGREE_MAX", &c.DegreeMax)
	str("BACKGROUND", &c.Background)
	integer("CLASSES", &c.Classes)
	str("LOG_LEVEL", &c.LogLevel)
	if v, ok := lookup(EnvPrefix + "PALETTE"); ok {
		c.Palette = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Palette = append(c.Palette, s)
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks ranges and color syntax.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if c.Width < 1 || c.Height < 1 {
		bad("size %dx%d", c.Width, c.Height)
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		bad("supersample %d, want 1..8", c.Supersample)
	}
	if c.NodeOpacity < 0 || c.NodeOpacity > 1 || c.EdgeOpacity < 0 || c.EdgeOpacity > 1 {
		bad("opacity %v/%v, want 0..1", c.NodeOpacity, c.EdgeOpacity)
	}
	if c.DegreeMin < 0 || c.DegreeMin > graphview.MaxDegree || c.DegreeMax < 0 || c.DegreeMax > graphview.MaxDegree {
		bad("degree range %d..%d", c.DegreeMin, c.DegreeMax)
	}
	if len(c.Palette) == 0 && (c.Classes < 1 || c.Classes > graphview.MaxClass+1) {
		bad("classes %d", c.Classes)
	}
	if _, err := graphview.ParseColor(c.Background); err != nil {
		bad("background: %v", err)
	}
	for _, s := range c.Palette {
		if _, err := graphview.ParseColor(s); err != nil {
			bad("palette: %v", err)
		}
	}
	return errors.Join(errs...)
}

// Filter returns the configured degree range. A minimum above the maximum
// yields the empty filter.
func (c *Config) Filter() graphview.DegreeFilter {
	return graphview.PackFilter(uint16(c.DegreeMin), uint16(c.DegreeMax))
}

// BuildPalette returns the configured palette, or a generated one of
// Classes entries.
func (c *Config) BuildPalette() (*graphview.Palette, error) {
	if len(c.Palette) == 0 {
		return graphview.DefaultPalette(c.Classes), nil
	}
	colors := make([]graphview.Color, len(c.Palette))
	for i, s := range c.Palette {
		col, err := graphview.ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette entry %d: %w", ErrInvalid, i, err)
		}
		colors[i] = col
	}
	return graphview.NewPalette(colors...), nil
}

// BackgroundColor returns the opaque background color.
func (c *Config) BackgroundColor() (color.NRGBA, error) {
	col, err := graphview.ParseColor(c.Background)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	return col.NRGBA(255), nil
}
