// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package profiler captures CPU and heap profiles around a unit of work.
package profiler

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
)

const (
	cpuProfileFile = "cpu.profile"
	memProfileFile = "mem.profile"

	dirPerms  = 0o755
	filePerms = 0o644
)

var (
	_ Profiler = (*profiler)(nil)

	errCPUProfilerRunning    = errors.New("cpu profiler already running")
	errCPUProfilerNotRunning = errors.New("cpu profiler doesn't exist")
)

// Profiler provides methods for measuring process performance.
type Profiler interface {
	StartCPUProfiler() error
	StopCPUProfiler() error
	MemoryProfile() error
}

type profiler struct {
	dir            string
	cpuProfileName string
	memProfileName string
	cpuProfileFile *os.File
}

// New returns a new Profiler that writes to the given directory.
func New(dir string) Profiler {
	return &profiler{
		dir:            dir,
		cpuProfileName: filepath.Join(dir, cpuProfileFile),
		memProfileName: filepath.Join(dir, memProfileFile),
	}
}

func (p *profiler) StartCPUProfiler() error {
	if p.cpuProfileFile != nil {
		return errCPUProfilerRunning
	}

	file, err := p.create(p.cpuProfileName)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(file); err != nil {
		_ = file.Close()
		return err
	}
	p.cpuProfileFile = file
	return nil
}

func (p *profiler) StopCPUProfiler() error {
	if p.cpuProfileFile == nil {
		return errCPUProfilerNotRunning
	}

	pprof.StopCPUProfile()
	err := p.cpuProfileFile.Close()
	p.cpuProfileFile = nil
	return err
}

func (p *profiler) MemoryProfile() error {
	file, err := p.create(p.memProfileName)
	if err != nil {
		return err
	}
	defer file.Close()

	runtime.GC()
	return pprof.WriteHeapProfile(file)
}

func (p *profiler) create(name string) (*os.File, error) {
	if err := os.MkdirAll(p.dir, dirPerms); err != nil {
		return nil, err
	}
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, filePerms)
}
