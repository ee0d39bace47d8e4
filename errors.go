// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import "errors"

var (
	// ErrInvalidSnapshot is returned when graph data violates the ingestion
	// contract (16-bit degrees, endpoints in range, finite positions).
	ErrInvalidSnapshot = errors.New("graphview: invalid snapshot")

	// ErrClassOutOfRange is returned when a class id has no palette entry, or
	// when a palette is larger than a backend's fixed color table.
	ErrClassOutOfRange = errors.New("graphview: class out of range")

	// ErrRendererUnavailable is returned when GPU resource creation, upload or
	// submission fails. The current frame is lost; the host decides whether
	// to recreate the renderer.
	ErrRendererUnavailable = errors.New("graphview: renderer unavailable")
)
