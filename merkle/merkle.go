// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package merkle builds the binary merkle tree whose root is mixed into the
// last hash iteration of an entry that carries transactions.
package merkle

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/minio/sha256-simd"
)

const (
	leafPrefix         byte = 0x00
	intermediatePrefix byte = 0x01
)

var (
	// EmptyRoot is the root of a tree with no leaves: the hash of the empty
	// input.
	EmptyRoot ids.ID = sha256.Sum256(nil)

	errIndexOutOfBounds = errors.New("leaf index out of bounds")
)

// HashLeaf returns the node for a single leaf.
func HashLeaf(leaf []byte) ids.ID {
	h := sha256.New()
	_, _ = h.Write([]byte{leafPrefix})
	_, _ = h.Write(leaf)
	var out ids.ID
	copy(out[:], h.Sum(nil))
	return out
}

// HashIntermediate combines two child nodes.
func HashIntermediate(left, right ids.ID) ids.ID {
	var buf [1 + 2*ids.IDLen]byte
	buf[0] = intermediatePrefix
	copy(buf[1:], left[:])
	copy(buf[1+ids.IDLen:], right[:])
	return sha256.Sum256(buf[:])
}

// Tree is a merkle tree built from an ordered list of leaves.
type Tree struct {
	// levels[0] holds the leaf nodes, the last level holds the root.
	levels [][]ids.ID
}

// New builds the tree bottom up. When a level has an odd number of nodes the
// last node is combined with itself.
func New(leaves [][]byte) *Tree {
	if len(leaves) == 0 {
		return &Tree{}
	}

	current := make([]ids.ID, len(leaves))
	for i, leaf := range leaves {
		current[i] = HashLeaf(leaf)
	}
	levels := [][]ids.ID{current}

	for len(current) > 1 {
		next := make([]ids.ID, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			right := current[i]
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, HashIntermediate(current[i], right))
		}
		levels = append(levels, next)
		current = next
	}
	return &Tree{levels: levels}
}

// Root returns the root of the tree, or EmptyRoot if there are no leaves.
func (t *Tree) Root() ids.ID {
	if len(t.levels) == 0 {
		return EmptyRoot
	}
	return t.levels[len(t.levels)-1][0]
}

// NumLeaves returns the number of leaves the tree was built from.
func (t *Tree) NumLeaves() int {
	if len(t.levels) == 0 {
		return 0
	}
	return len(t.levels[0])
}

// ProofNode is one sibling on the path from a leaf to the root.
type ProofNode struct {
	Hash ids.ID
	// IsLeft is true when the sibling sits to the left of the path node.
	IsLeft bool
}

// Proof is an inclusion proof for a single leaf.
type Proof struct {
	LeafIndex int
	Siblings  []ProofNode
}

// Prove creates an inclusion proof for the leaf at index.
func (t *Tree) Prove(index int) (*Proof, error) {
	if index < 0 || index >= t.NumLeaves() {
		return nil, fmt.Errorf("%w: %d >= %d", errIndexOutOfBounds, index, t.NumLeaves())
	}

	proof := &Proof{LeafIndex: index}
	current := index
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := current ^ 1
		if sibling >= len(level) {
			sibling = current
		}
		proof.Siblings = append(proof.Siblings, ProofNode{
			Hash:   level[sibling],
			IsLeft: current%2 == 1,
		})
		current /= 2
	}
	return proof, nil
}

// Verify reports whether leaf is included under root according to the proof.
func (p *Proof) Verify(leaf []byte, root ids.ID) bool {
	current := HashLeaf(leaf)
	for _, node := range p.Siblings {
		if node.IsLeft {
			current = HashIntermediate(node.Hash, current)
		} else {
			current = HashIntermediate(current, node.Hash)
		}
	}
	return current == root
}

// Root computes the merkle root of leaves without retaining the tree.
func Root(leaves [][]byte) ids.ID {
	if len(leaves) == 0 {
		return EmptyRoot
	}

	current := make([]ids.ID, len(leaves))
	for i, leaf := range leaves {
		current[i] = HashLeaf(leaf)
	}
	for len(current) > 1 {
		n := 0
		for i := 0; i < len(current); i += 2 {
			right := current[i]
			if i+1 < len(current) {
				right = current[i+1]
			}
			current[n] = HashIntermediate(current[i], right)
			n++
		}
		current = current[:n]
	}
	return current[0]
}
