// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package instanced

import "errors"

// ErrNoGPU is returned by Init when no usable adapter is found, and always
// in builds tagged nogpu.
var ErrNoGPU = errors.New("instanced: no GPU adapter")
