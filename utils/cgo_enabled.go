// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:build cgo

package utils

// CGOEnabled indicates whether natively compiled accelerator libraries can be
// loaded into this process.
const CGOEnabled = true
