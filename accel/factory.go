// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package accel bridges entry verification to an optional accelerator.
//
// Backend selection uses a priority-based registry:
//   - Software (priority 0): Always available, selected by name only
//   - Plugin (priority 100): CGO path - native library loaded with Go's
//     plugin package from Config.LibraryPath
//
// Without an explicit backend, only backends with a positive priority are
// tried. When none initializes the capability is absent and verification runs
// on the CPU.
package accel

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// BackendEnvVar forces a backend by name, overriding Config.Backend.
const BackendEnvVar = "ENTRY_ACCEL_BACKEND"

var ErrNoBackend = errors.New("no accelerator backend available")

// backendCtor holds a backend constructor with its priority
type backendCtor struct {
	name     string
	priority int
	new      func(Config) (Accelerator, error)
}

var (
	ctors   []backendCtor
	ctorsMu sync.RWMutex
)

// Register adds a backend constructor with the given priority.
// Higher priority backends are preferred. Called from init() in backend files.
func Register(name string, priority int, ctor func(Config) (Accelerator, error)) {
	ctorsMu.Lock()
	defer ctorsMu.Unlock()
	ctors = append(ctors, backendCtor{name: name, priority: priority, new: ctor})
}

func sortedCtors() []backendCtor {
	ctorsMu.RLock()
	defer ctorsMu.RUnlock()

	sorted := make([]backendCtor, len(ctors))
	copy(sorted, ctors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority > sorted[j].priority
	})
	return sorted
}

// NewAccelerator creates the best available accelerator.
// Uses ENTRY_ACCEL_BACKEND or Config.Backend to force a specific backend,
// otherwise tries automatic backends by descending priority.
func NewAccelerator(config Config) (Accelerator, error) {
	sorted := sortedCtors()

	requested := string(config.Backend)
	if env := os.Getenv(BackendEnvVar); env != "" {
		requested = env
	}
	if requested != "" {
		requested = strings.ToLower(requested)
		for _, c := range sorted {
			if strings.ToLower(c.name) == requested {
				return c.new(config)
			}
		}
		return nil, fmt.Errorf("%w: requested backend %q not registered", ErrNoBackend, requested)
	}

	var errs []error
	for _, c := range sorted {
		if c.priority <= 0 {
			continue
		}
		acc, err := c.new(config)
		if err == nil {
			return acc, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
	}
	if len(errs) == 0 {
		return nil, ErrNoBackend
	}
	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}

// GetAvailableBackends returns names of all registered backends, sorted by priority
func GetAvailableBackends() []string {
	sorted := sortedCtors()
	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.name
	}
	return names
}

// BackendInfo returns description of a backend
func BackendInfo(name string) string {
	switch Backend(strings.ToLower(name)) {
	case BackendSoftware:
		return "Software - in-process asynchronous workers, no native code"
	case BackendPlugin:
		return "Plugin - native accelerator library loaded at runtime"
	default:
		return "Unknown backend"
	}
}
