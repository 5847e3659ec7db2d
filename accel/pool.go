// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"math/bits"
	"sync"

	"github.com/luxfi/ids"
)

// Buffers are the input buffers of a chain job. Entry i continues from
// StartHashes[i], runs NumHashes[i] iterations, folds Mixins[i] into the last
// one when HasMixin[i] is set, and must end at Expected[i].
type Buffers struct {
	StartHashes []ids.ID
	NumHashes   []uint64
	Mixins      []ids.ID
	HasMixin    []bool
	Expected    []ids.ID

	class  int
	pooled bool
}

func newBuffers(class int) *Buffers {
	return &Buffers{
		StartHashes: make([]ids.ID, 0, class),
		NumHashes:   make([]uint64, 0, class),
		Mixins:      make([]ids.ID, 0, class),
		HasMixin:    make([]bool, 0, class),
		Expected:    make([]ids.ID, 0, class),
		class:       class,
	}
}

func (b *Buffers) resize(n int) {
	b.StartHashes = b.StartHashes[:n]
	b.NumHashes = b.NumHashes[:n]
	b.Mixins = b.Mixins[:n]
	b.HasMixin = b.HasMixin[:n]
	b.Expected = b.Expected[:n]
}

// sizeClass rounds n up to a power of two.
func sizeClass(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// PoolStats reports buffer reuse.
type PoolStats struct {
	Hits   uint64
	Misses uint64
	Idle   int
}

// BufferPool is a free list of job buffers keyed by size class. It is safe
// for concurrent use; a buffer set belongs to exactly one job between Acquire
// and Release.
type BufferPool struct {
	maxPerClass int

	mu     sync.Mutex
	free   map[int][]*Buffers
	hits   uint64
	misses uint64
}

func NewBufferPool(maxPerClass int) *BufferPool {
	return &BufferPool{
		maxPerClass: maxPerClass,
		free:        make(map[int][]*Buffers),
	}
}

// Acquire returns buffers sized for n entries.
func (p *BufferPool) Acquire(n int) *Buffers {
	class := sizeClass(n)

	p.mu.Lock()
	var b *Buffers
	if free := p.free[class]; len(free) > 0 {
		b = free[len(free)-1]
		free[len(free)-1] = nil
		p.free[class] = free[:len(free)-1]
		p.hits++
	} else {
		p.misses++
	}
	p.mu.Unlock()

	if b == nil {
		b = newBuffers(class)
	}
	b.pooled = false
	b.resize(n)
	return b
}

// Release returns b to the pool. Releasing the same buffers twice is a no-op.
func (p *BufferPool) Release(b *Buffers) {
	if b == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if b.pooled || len(p.free[b.class]) >= p.maxPerClass {
		return
	}
	b.pooled = true
	b.resize(0)
	p.free[b.class] = append(p.free[b.class], b)
}

// Stats returns a snapshot of the pool counters.
func (p *BufferPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	idle := 0
	for _, free := range p.free {
		idle += len(free)
	}
	return PoolStats{
		Hits:   p.hits,
		Misses: p.misses,
		Idle:   idle,
	}
}
