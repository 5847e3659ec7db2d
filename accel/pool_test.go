// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	tests := map[int]int{
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		4:    4,
		5:    8,
		1000: 1024,
		1024: 1024,
	}
	for n, expected := range tests {
		require.Equal(t, expected, sizeClass(n), "n=%d", n)
	}
}

func TestBufferPoolReuse(t *testing.T) {
	require := require.New(t)

	p := NewBufferPool(2)
	b := p.Acquire(3)
	require.Len(b.NumHashes, 3)
	require.Equal(4, cap(b.NumHashes))

	p.Release(b)
	p.Release(b) // double release is ignored
	require.Equal(1, p.Stats().Idle)

	again := p.Acquire(4)
	require.Same(b, again)
	require.Len(again.Expected, 4)

	other := p.Acquire(5)
	require.NotSame(b, other)
	require.Equal(PoolStats{Hits: 1, Misses: 2, Idle: 0}, p.Stats())
}

func TestBufferPoolBoundedPerClass(t *testing.T) {
	p := NewBufferPool(1)
	a, b := p.Acquire(2), p.Acquire(2)
	p.Release(a)
	p.Release(b)
	require.Equal(t, 1, p.Stats().Idle)
}

func TestBufferPoolConcurrent(t *testing.T) {
	p := NewBufferPool(8)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b := p.Acquire(n)
				b.NumHashes[n-1] = uint64(j)
				p.Release(b)
			}
		}(i%7 + 1)
	}
	wg.Wait()

	stats := p.Stats()
	require.Equal(t, uint64(3200), stats.Hits+stats.Misses)
}
