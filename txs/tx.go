// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package txs provides an ed25519 signed transaction that satisfies
// entry.Transaction together with the matching signature checker.
package txs

import (
	"errors"

	"github.com/cloudflare/circl/sign/ed25519"

	"github.com/luxfi/entry/entry"
)

var (
	_ entry.Transaction      = (*Tx)(nil)
	_ entry.SignatureChecker = Checker{}

	errNoSigners = errors.New("transaction requires at least one signer")
)

// Tx is a message signed by one or more ed25519 keys. Sigs[i] is the
// signature of Signers[i] over Message.
type Tx struct {
	Message []byte              `json:"message"`
	Signers []ed25519.PublicKey `json:"signers"`
	Sigs    [][]byte            `json:"signatures"`
}

// New signs message with every key.
func New(message []byte, keys ...ed25519.PrivateKey) (*Tx, error) {
	if len(keys) == 0 {
		return nil, errNoSigners
	}
	tx := &Tx{
		Message: message,
		Signers: make([]ed25519.PublicKey, len(keys)),
		Sigs:    make([][]byte, len(keys)),
	}
	for i, key := range keys {
		tx.Signers[i] = key.Public().(ed25519.PublicKey)
		tx.Sigs[i] = ed25519.Sign(key, message)
	}
	return tx, nil
}

func (t *Tx) Signatures() [][]byte {
	return t.Sigs
}

// Checker verifies the signatures of *Tx values. Any other transaction type
// is rejected.
type Checker struct{}

func (Checker) Check(tx entry.Transaction) bool {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return false
	}
	if len(t.Sigs) == 0 || len(t.Sigs) != len(t.Signers) {
		return false
	}
	for i, sig := range t.Sigs {
		if len(t.Signers[i]) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
			return false
		}
		if !ed25519.Verify(t.Signers[i], t.Message, sig) {
			return false
		}
	}
	return true
}
