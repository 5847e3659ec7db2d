// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build cgo && (darwin || linux)

// Native accelerator libraries are Go plugins built with
// `go build -buildmode=plugin`. A library exports:
//   - APIVersion int: must equal PluginAPIVersion
//   - NewAccelerator func(accel.Config) (accel.Accelerator, error)

package accel

import (
	"errors"
	"fmt"
	"plugin"

	"github.com/luxfi/entry/utils"
)

const (
	// PluginAPIVersion is the accelerator contract version libraries must
	// be built against.
	PluginAPIVersion = 1

	pluginVersionSymbol = "APIVersion"
	pluginCtorSymbol    = "NewAccelerator"
)

var (
	errNoLibraryPath       = errors.New("no accelerator library configured")
	errLibraryNotFound     = errors.New("accelerator library not found")
	errIncompatibleLibrary = errors.New("incompatible accelerator library")
)

func init() {
	Register(string(BackendPlugin), 100, func(config Config) (Accelerator, error) {
		return loadPlugin(config)
	})
}

func loadPlugin(config Config) (Accelerator, error) {
	if config.LibraryPath == "" {
		return nil, errNoLibraryPath
	}
	path := utils.ExpandHome(config.LibraryPath)
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", errLibraryNotFound, path)
	}

	lib, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	versionSym, err := lib.Lookup(pluginVersionSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errIncompatibleLibrary, err)
	}
	version, ok := versionSym.(*int)
	if !ok || *version != PluginAPIVersion {
		return nil, fmt.Errorf("%w: unsupported API version", errIncompatibleLibrary)
	}

	ctorSym, err := lib.Lookup(pluginCtorSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errIncompatibleLibrary, err)
	}
	ctor, ok := ctorSym.(func(Config) (Accelerator, error))
	if !ok {
		return nil, fmt.Errorf("%w: %s has type %T", errIncompatibleLibrary, pluginCtorSymbol, ctorSym)
	}
	return ctor(config)
}
