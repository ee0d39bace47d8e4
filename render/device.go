// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/backend/instanced"
)

// DeviceHandle provides GPU device access from a host application.
//
// A windowed host (e.g. a gogpu.App) that already owns a device passes it
// to NewWithDevice so the graph is drawn with the same device instead of a
// second one. The handle must also expose its HAL objects:
//
//	func (h *handle) HalDevice() any { return h.device } // hal.Device
//	func (h *handle) HalQueue() any  { return h.queue }  // hal.Queue
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// NewWithDevice creates a renderer on the instanced backend using the
// host's device. The device stays open when the renderer is closed.
func NewWithDevice(h DeviceHandle, opts ...Option) (*Renderer, error) {
	b, err := instanced.NewWithProvider(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", graphview.ErrRendererUnavailable, err)
	}
	return New(b, opts...)
}

// NullDeviceHandle is a DeviceHandle without a device, for hosts that
// have no GPU. NewWithDevice rejects it.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
