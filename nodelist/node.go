// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nodelist implements the in-memory directory of relays a
// Tor-like client knows about: the identity index, the node record that
// unifies a relay's descriptor/consensus-entry/microdescriptor views, the
// reconciler that keeps them consistent as updates stream in, the
// accessors that hide which view actually backs a given attribute, the
// family resolver, and the debug-build consistency checker.
package nodelist

import (
	"time"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
)

// unknownCountry is the sentinel used before GeoIP has been consulted.
const unknownCountry = -1

// Node is the in-memory unification of a relay's three independently
// sourced views. The same identity always maps to the same Node for as
// long as it is alive; it is never silently replaced.
type Node struct {
	// Identity is the primary key, immutable after insertion.
	Identity identity.Fingerprint

	RI *directory.RouterInfo
	RS *directory.RouterStatus
	MD *directory.Microdescriptor

	// idx is this node's position in the owning index's sequence, or -1
	// when detached from any index.
	idx int

	// Country is the cached GeoIP country code, or unknownCountry.
	Country int32

	// Mirrored flags, copied from RS on reconciliation when the node is
	// not a directory authority.
	IsValid         bool
	IsRunning       bool
	IsFast          bool
	IsStable        bool
	IsPossibleGuard bool
	IsExit          bool
	IsBadExit       bool
	IsHSDir         bool
	IPv6Preferred   bool

	// RejectsAllCache caches the exit_policy_rejects_all accessor's
	// result once a collaborator has evaluated it; nil means
	// uncomputed, so the accessor falls through to ri/md.
	RejectsAllCache *bool

	LastReachable  time.Time
	LastReachable6 time.Time

	// nameLookupWarned is a one-shot bit, flipped on the first
	// nickname-ambiguity warning and never cleared.
	nameLookupWarned bool
}

func newNode(id identity.Fingerprint) *Node {
	return &Node{
		Identity: id,
		idx:      -1,
		Country:  unknownCountry,
	}
}

// Idx returns the node's current sequence index, or -1 if detached.
func (n *Node) Idx() int { return n.idx }

// clearMirroredFlags resets every consensus-derived flag, as happens when
// the consensus implicitly demotes a general-purpose relay that still has
// an ri but no rs.
func (n *Node) clearMirroredFlags() {
	n.IsValid = false
	n.IsRunning = false
	n.IsFast = false
	n.IsStable = false
	n.IsPossibleGuard = false
	n.IsExit = false
	n.IsBadExit = false
	n.IsHSDir = false
	n.IPv6Preferred = false
	n.RejectsAllCache = nil
}

// applyFlags mirrors a RouterStatus's flags, plus the IPv6 preference
// computed from whatever address sources are attached.
func (n *Node) applyFlags(flags directory.Flags, ipv6Preferred bool) {
	n.IsValid = flags.Valid
	n.IsRunning = flags.Running
	n.IsFast = flags.Fast
	n.IsStable = flags.Stable
	n.IsPossibleGuard = flags.Guard
	n.IsExit = flags.Exit
	n.IsBadExit = flags.BadExit
	n.IsHSDir = flags.HSDir
	n.IPv6Preferred = ipv6Preferred
}

// HasDescriptorOrStatus reports invariant 1: every live node has an ri or
// an rs (or both). A node failing this must already be on its way out of
// the index.
func (n *Node) HasDescriptorOrStatus() bool {
	return n.RI != nil || n.RS != nil
}
