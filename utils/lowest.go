// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import "sync/atomic"

// Lowest tracks the smallest index reported by concurrent workers. Workers use
// it to stop early: once an index has been reported, no work at or beyond it
// can change the outcome.
type Lowest struct {
	limit int64
	value atomic.Int64
}

// NewLowest returns a tracker where no index below limit has been reported.
func NewLowest(limit int) *Lowest {
	l := &Lowest{limit: int64(limit)}
	l.value.Store(int64(limit))
	return l
}

// Report records index if it is lower than every index reported so far.
func (l *Lowest) Report(index int) {
	i := int64(index)
	for {
		current := l.value.Load()
		if i >= current || l.value.CompareAndSwap(current, i) {
			return
		}
	}
}

// Covers returns true if an index at or below index has been reported.
func (l *Lowest) Covers(index int) bool {
	return l.value.Load() <= int64(index)
}

// Get returns the lowest reported index and whether any index was reported.
func (l *Lowest) Get() (int, bool) {
	v := l.value.Load()
	return int(v), v < l.limit
}
