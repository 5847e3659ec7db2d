// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/minio/sha256-simd"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/utils/wrappers"
)

const (
	// MaxMessageSize bounds the message of a decoded transaction.
	MaxMessageSize = 64 * 1024
	// MaxSigners bounds the number of signatures of a decoded transaction.
	MaxSigners = 64
	// MaxSize bounds an encoded transaction.
	MaxSize = wrappers.IntLen + MaxMessageSize + wrappers.IntLen +
		MaxSigners*(ed25519.PublicKeySize+wrappers.IntLen+ed25519.SignatureSize)
)

var (
	errTooManySigners = errors.New("too many signers")
	errTrailingBytes  = errors.New("trailing bytes after transaction")
)

// Pack writes the transaction to p.
func (t *Tx) Pack(p *wrappers.Packer) {
	p.PackBytes(t.Message)
	p.PackInt(uint32(len(t.Signers)))
	for i, signer := range t.Signers {
		p.PackFixedBytes(signer)
		var sig []byte
		if i < len(t.Sigs) {
			sig = t.Sigs[i]
		}
		p.PackBytes(sig)
	}
}

// Unpack reads a transaction written by Pack. Byte slices are copied out of
// the packer.
func Unpack(p *wrappers.Packer) *Tx {
	tx := &Tx{
		Message: clone(p.UnpackLimitedBytes(MaxMessageSize)),
	}
	numSigners := p.UnpackInt()
	if numSigners > MaxSigners {
		p.Add(fmt.Errorf("%w: %d > %d", errTooManySigners, numSigners, MaxSigners))
		return nil
	}
	tx.Signers = make([]ed25519.PublicKey, 0, numSigners)
	tx.Sigs = make([][]byte, 0, numSigners)
	for i := uint32(0); i < numSigners && !p.Errored(); i++ {
		tx.Signers = append(tx.Signers, ed25519.PublicKey(clone(p.UnpackFixedBytes(ed25519.PublicKeySize))))
		tx.Sigs = append(tx.Sigs, clone(p.UnpackLimitedBytes(ed25519.SignatureSize)))
	}
	if p.Errored() {
		return nil
	}
	return tx
}

// Bytes returns the encoding of the transaction.
func (t *Tx) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: MaxSize}
	t.Pack(&p)
	return p.Bytes, p.Err
}

// Parse decodes a transaction produced by Bytes.
func Parse(b []byte) (*Tx, error) {
	p := wrappers.Packer{Bytes: b}
	tx := Unpack(&p)
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Offset != len(b) {
		return nil, errTrailingBytes
	}
	return tx, nil
}

// ID commits to the message, the signers and the signatures.
func (t *Tx) ID() ids.ID {
	h := sha256.New()
	writeLen := func(n int) {
		var size [wrappers.IntLen]byte
		binary.BigEndian.PutUint32(size[:], uint32(n))
		_, _ = h.Write(size[:])
	}
	writeField := func(b []byte) {
		writeLen(len(b))
		_, _ = h.Write(b)
	}
	writeField(t.Message)
	writeLen(len(t.Signers))
	for _, signer := range t.Signers {
		writeField(signer)
	}
	writeLen(len(t.Sigs))
	for _, sig := range t.Sigs {
		writeField(sig)
	}
	var id ids.ID
	copy(id[:], h.Sum(nil))
	return id
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
