// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package compression bounds the size of compressed payloads in both
// directions.
package compression

// Compressor compresses and decompresses messages no larger than its
// configured max size.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}
