// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/graphview"
)

// BackendFactory creates a new backend instance.
type BackendFactory func() RenderBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendInstanced, BackendPoints}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name, or nil if it is not registered.
func Get(name string) RenderBackend {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// candidates returns factories in priority order, then the remaining ones
// by name.
func candidates() []BackendFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]BackendFactory, 0, len(backends))
	for _, name := range backendPriority {
		if f, ok := backends[name]; ok {
			out = append(out, f)
		}
	}
	rest := make([]string, 0, len(backends))
	for name := range backends {
		if !slices.Contains(backendPriority, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range rest {
		out = append(out, backends[name])
	}
	return out
}

// InitDefault initializes backends in priority order and returns the first
// one whose Init succeeds. A GPU backend without a usable adapter falls
// through to the next one.
func InitDefault() (RenderBackend, error) {
	var errs []error
	for _, f := range candidates() {
		b := f()
		if b == nil {
			continue
		}
		if err := b.Init(); err != nil {
			graphview.Logger().Warn("backend init failed", "backend", b.Name(), "err", err)
			errs = append(errs, err)
			b.Close()
			continue
		}
		graphview.Logger().Info("backend selected", "backend", b.Name())
		return b, nil
	}
	return nil, errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

// InitNamed creates and initializes the named backend with its default
// settings.
func InitNamed(name string) (RenderBackend, error) {
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrBackendNotAvailable, name, Available())
	}
	if err := b.Init(); err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendNotAvailable, name, err)
	}
	graphview.Logger().Info("backend selected", "backend", b.Name())
	return b, nil
}
