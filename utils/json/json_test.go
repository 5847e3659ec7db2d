// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(Uint64(math.MaxUint64))
	require.NoError(err)
	require.Equal(`"18446744073709551615"`, string(b))

	var u Uint64
	require.NoError(json.Unmarshal(b, &u))
	require.Equal(Uint64(math.MaxUint64), u)

	require.NoError(json.Unmarshal([]byte("12"), &u))
	require.Equal(Uint64(12), u)

	require.NoError(json.Unmarshal([]byte(Null), &u))
	require.Equal(Uint64(12), u)

	require.Error(json.Unmarshal([]byte(`"-1"`), &u))
}
