// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package instanced

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend"
)

// Backend is unavailable in nogpu builds; Init always fails with ErrNoGPU.
// It is not registered, so backend.InitDefault never selects it.
type Backend struct{}

// Option configures a Backend.
type Option func(*Backend)

// WithMaxVertexBytes is accepted for API compatibility.
func WithMaxVertexBytes(int) Option { return func(*Backend) {} }

// New returns a backend whose Init fails.
func New(...Option) *Backend { return &Backend{} }

func (b *Backend) Name() string       { return backend.BackendInstanced }
func (b *Backend) Init() error        { return ErrNoGPU }
func (b *Backend) Close()             {}
func (b *Backend) ClassCapacity() int { return 0 }
func (b *Backend) Adapter() string    { return "" }

func (b *Backend) UploadGraph(*graphview.Snapshot) error { return backend.ErrNotInitialized }
func (b *Backend) UploadPalette(*graphview.Palette) error {
	return backend.ErrNotInitialized
}
func (b *Backend) Draw(*graphview.Pixmap, backend.Uniforms) error {
	return backend.ErrNotInitialized
}
func (b *Backend) Stats() backend.Stats { return backend.Stats{} }

// NewWithProvider always fails in nogpu builds.
func NewWithProvider(gpucontext.DeviceProvider, ...Option) (*Backend, error) {
	return nil, ErrNoGPU
}
