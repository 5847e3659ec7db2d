// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockSet(t *testing.T) {
	require := require.New(t)

	var c Clock
	pinned := time.Unix(1_000_000, 0)
	c.Set(pinned)
	require.Equal(pinned, c.Time())
	require.Equal(time.Second, c.Since(pinned.Add(-time.Second)))
	require.Zero(c.Since(pinned.Add(time.Second)))

	c.Sync()
	require.True(c.Time().After(pinned))
}
