// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"github.com/torproject/nodelist/identity"
)

// index maps a 20-byte identity fingerprint to its Node, paired with an
// append-and-swap-remove sequence so iteration is cache-friendly and
// removal is O(1): the node stores its own sequence position, and
// dropping a node swaps the last element into the vacated slot and
// rewrites that element's stored index.
type index struct {
	byID map[identity.Fingerprint]*Node
	seq  []*Node
}

func newIndex() *index {
	return &index{
		byID: make(map[identity.Fingerprint]*Node),
	}
}

// get returns the node for id, or nil if absent. O(1).
func (ix *index) get(id identity.Fingerprint) *Node {
	return ix.byID[id]
}

// getOrCreate returns the existing node for id, or inserts and returns a
// freshly created one with Country unknown and all flags clear.
func (ix *index) getOrCreate(id identity.Fingerprint) (*Node, bool) {
	if n, ok := ix.byID[id]; ok {
		return n, false
	}
	n := newNode(id)
	ix.insert(n)
	return n, true
}

func (ix *index) insert(n *Node) {
	n.idx = len(ix.seq)
	ix.seq = append(ix.seq, n)
	ix.byID[n.Identity] = n
}

// drop removes n from the index. n must be present; callers that aren't
// sure should check ix.get first.
func (ix *index) drop(n *Node) {
	last := len(ix.seq) - 1
	i := n.idx

	moved := ix.seq[last]
	ix.seq[i] = moved
	moved.idx = i
	ix.seq = ix.seq[:last]

	delete(ix.byID, n.Identity)
	n.idx = -1
}

// iter yields nodes in sequence order. Safe to mutate node flags while
// iterating; not safe to insert or remove.
func (ix *index) iter() []*Node {
	return ix.seq
}

// len returns the number of nodes currently indexed.
func (ix *index) len() int {
	return len(ix.seq)
}
