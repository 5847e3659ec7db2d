// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package batchfile stores an entry batch, together with the hash it starts
// from, as a zstd compressed file.
package batchfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/txs"
	"github.com/luxfi/entry/utils/compression"
	"github.com/luxfi/entry/utils/wrappers"
)

const (
	CodecVersion = 0

	// MaxEntries bounds the number of entries in a decoded batch.
	MaxEntries = 1 << 16
	// MaxTransactions bounds the number of transactions in a decoded entry.
	MaxTransactions = 1 << 12
	// MaxSize bounds a batch once decompressed.
	MaxSize = 256 * 1024 * 1024

	filePerms = 0o644
)

var (
	errUnknownVersion      = errors.New("unknown codec version")
	errTooManyEntries      = errors.New("too many entries")
	errTooManyTransactions = errors.New("too many transactions")
	errUnsupportedTx       = errors.New("only signed ed25519 transactions can be encoded")
	errTrailingBytes       = errors.New("trailing bytes after batch")
)

// Batch is a sequence of entries and the hash preceding the first one.
type Batch struct {
	Prev    ids.ID
	Entries []entry.Entry
}

// Marshal returns the uncompressed encoding of b.
func Marshal(b *Batch) ([]byte, error) {
	p := wrappers.Packer{MaxSize: MaxSize}
	p.PackInt(CodecVersion)
	p.PackFixedBytes(b.Prev[:])
	p.PackInt(uint32(len(b.Entries)))
	for i := range b.Entries {
		e := &b.Entries[i]
		p.PackLong(e.NumHashes)
		p.PackFixedBytes(e.Hash[:])
		p.PackInt(uint32(len(e.Transactions)))
		for j, tx := range e.Transactions {
			t, ok := tx.(*txs.Tx)
			if !ok || t == nil {
				return nil, fmt.Errorf("%w: entry %d transaction %d is %T", errUnsupportedTx, i, j, tx)
			}
			t.Pack(&p)
		}
	}
	return p.Bytes, p.Err
}

// Unmarshal decodes the output of Marshal.
func Unmarshal(bytes []byte) (*Batch, error) {
	p := wrappers.Packer{Bytes: bytes}
	if version := p.UnpackInt(); !p.Errored() && version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", errUnknownVersion, version)
	}

	b := &Batch{}
	copy(b.Prev[:], p.UnpackFixedBytes(ids.IDLen))
	numEntries := p.UnpackInt()
	if numEntries > MaxEntries {
		return nil, fmt.Errorf("%w: %d > %d", errTooManyEntries, numEntries, MaxEntries)
	}
	if p.Errored() {
		return nil, p.Err
	}

	b.Entries = make([]entry.Entry, 0, numEntries)
	for i := uint32(0); i < numEntries && !p.Errored(); i++ {
		e := entry.Entry{
			NumHashes: p.UnpackLong(),
		}
		copy(e.Hash[:], p.UnpackFixedBytes(ids.IDLen))
		numTxs := p.UnpackInt()
		if numTxs > MaxTransactions {
			return nil, fmt.Errorf("%w: entry %d has %d > %d", errTooManyTransactions, i, numTxs, MaxTransactions)
		}
		for j := uint32(0); j < numTxs && !p.Errored(); j++ {
			if tx := txs.Unpack(&p); tx != nil {
				e.Transactions = append(e.Transactions, tx)
			}
		}
		b.Entries = append(b.Entries, e)
	}
	if p.Errored() {
		return nil, p.Err
	}
	if p.Offset != len(bytes) {
		return nil, errTrailingBytes
	}
	return b, nil
}

// Write stores b at path, compressed with c.
func Write(path string, b *Batch, c compression.Compressor) error {
	bytes, err := Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}
	compressed, err := c.Compress(bytes)
	if err != nil {
		return fmt.Errorf("failed to compress batch: %w", err)
	}
	return os.WriteFile(path, compressed, filePerms)
}

// Read loads a batch written by Write.
func Read(path string, c compression.Compressor) (*Batch, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bytes, err := c.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	b, err := Unmarshal(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return b, nil
}

// NewCompressor returns the compressor batch files are written with.
func NewCompressor() (compression.Compressor, error) {
	return compression.NewZstdCompressor(MaxSize)
}
