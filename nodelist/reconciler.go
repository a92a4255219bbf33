// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"go.uber.org/zap"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/logctx"
)

// NodeList is the in-memory directory of relays: the identity index plus
// the reconciler that keeps it consistent as ri/md arrivals and consensus
// swaps stream in. It is single-threaded cooperative, not internally
// locked, and owns every Node it creates; ri/rs/md are held by non-owning
// reference and must be detached by the owner via the remove_* entry
// points (or a consensus swap) before being freed.
type NodeList struct {
	idx *index

	consensus *directory.Consensus
	mdCache   MicrodescCache
	geoIP     GeoIP

	// Network is consulted by nickname lookups for consensus-bound
	// name/identity pairs; may be nil, in which case lookups fall back
	// to a plain linear scan by nickname.
	Network NetworkStatus

	// AuthorityMode, when true, skips mirroring consensus flags onto
	// nodes (a v3 directory authority derives its own status instead of
	// trusting someone else's consensus).
	AuthorityMode bool

	// PreferIPv6OR mirrors the firewall/config "prefer IPv6 OR port"
	// setting used when recomputing IPv6Preferred on reconciliation.
	PreferIPv6OR bool

	listeners []SetCallbackListener

	reachability ReachabilityTracker

	dirty bool

	log logctx.Logger
}

// New returns an empty NodeList. mdCache and geoIP may be nil; a nil
// geoIP leaves every node's Country at unknownCountry.
func New(mdCache MicrodescCache, geoIP GeoIP, log logctx.Logger) *NodeList {
	if log == nil {
		log = logctx.NoOp()
	}
	return &NodeList{
		idx:     newIndex(),
		mdCache: mdCache,
		geoIP:   geoIP,
		log:     log,
	}
}

// GetByID returns the node for id, or nil if none exists.
func (nl *NodeList) GetByID(id identity.Fingerprint) *Node {
	return nl.idx.get(id)
}

// GetList returns every node, in sequence order.
func (nl *NodeList) GetList() []*Node {
	return nl.idx.iter()
}

// Len returns the number of nodes currently held.
func (nl *NodeList) Len() int {
	return nl.idx.len()
}

// CurrentConsensus returns the consensus installed by the most recent
// SetConsensus call, or nil if none has been installed yet.
func (nl *NodeList) CurrentConsensus() *directory.Consensus {
	return nl.consensus
}

// RouterDirInfoChanged marks the readiness estimator's cached result
// stale; the next ReadinessDirty() check will report true until
// recomputed by the caller.
func (nl *NodeList) RouterDirInfoChanged() {
	nl.dirty = true
}

// ReadinessDirty reports whether RouterDirInfoChanged has fired since the
// last ClearReadinessDirty, letting the readiness estimator recompute
// lazily instead of on every call.
func (nl *NodeList) ReadinessDirty() bool {
	return nl.dirty
}

// ClearReadinessDirty resets the dirty bit; called by the readiness
// estimator after it recomputes.
func (nl *NodeList) ClearReadinessDirty() {
	nl.dirty = false
}

func (nl *NodeList) computeCountry(n *Node) {
	if nl.geoIP == nil || n.Country != unknownCountry {
		return
	}
	addr := nl.primaryAddr(n)
	if !addr.Valid() {
		return
	}
	n.Country = nl.geoIP.GetCountryByAddr(addr)
}

func (nl *NodeList) primaryAddr(n *Node) directory.OnionRouterAddr {
	if n.RI != nil && n.RI.Addr.Valid() {
		return n.RI.Addr
	}
	if n.RS != nil {
		return n.RS.Addr
	}
	return directory.OnionRouterAddr{}
}

// SetRouterInfo attaches ri to the node for ri.Identity, creating the
// node if this is its first sighting. It returns the node and the
// previous ri (nil if none), so the router list can dispose of the old
// one.
func (nl *NodeList) SetRouterInfo(ri *directory.RouterInfo) (*Node, *directory.RouterInfo) {
	n, created := nl.idx.getOrCreate(ri.Identity)

	old := n.RI
	if old != nil && (!old.Addr.IP.Equal(ri.Addr.IP) || old.Addr.Port != ri.Addr.Port) {
		nl.reachability.Reset(n)
		n.Country = unknownCountry
	}

	n.RI = ri
	nl.computeCountry(n)

	if nl.AuthorityMode && old == nil {
		nl.deriveAuthorityStatus(n)
	}

	if created {
		nl.notifyAdded(n.Identity)
	}
	nl.dirty = true
	nl.log.Debug("set_routerinfo", zap.Stringer("id", n.Identity), zap.Bool("created", created))
	return n, old
}

// deriveAuthorityStatus is the hook a v3 directory authority uses to
// assign its own vote flags to a freshly seen relay, based on its own
// measurements rather than someone else's consensus. Authority voting
// itself is out of scope here; this only marks the node as having been
// considered.
func (nl *NodeList) deriveAuthorityStatus(n *Node) {
	n.IsValid = true
}

// RemoveRouterInfo detaches ri from its node. If the node then has
// neither ri nor rs, it is dropped.
func (nl *NodeList) RemoveRouterInfo(ri *directory.RouterInfo) {
	n := nl.idx.get(ri.Identity)
	if n == nil || n.RI != ri {
		return
	}
	n.RI = nil
	nl.dropIfUnbacked(n)
	nl.dirty = true
}

// AddMicrodesc attaches md to whichever node's current consensus entry
// references it by descriptor digest. A no-op if no routerstatus in the
// latest microdesc-flavored consensus carries that digest.
func (nl *NodeList) AddMicrodesc(md *directory.Microdescriptor) *Node {
	if nl.consensus == nil || nl.consensus.Flavor != directory.FlavorMicrodesc {
		return nil
	}
	rs, ok := nl.consensus.ByDescriptorDigest(md.Digest)
	if !ok {
		return nil
	}
	n := nl.idx.get(rs.Identity)
	if n == nil {
		return nil
	}
	nl.detachMD(n)
	nl.attachMD(n, md)
	nl.dirty = true
	return n
}

// RemoveMicrodesc detaches md from the node for id, but only if that
// node's currently attached md is exactly this instance.
func (nl *NodeList) RemoveMicrodesc(id identity.Fingerprint, md *directory.Microdescriptor) {
	n := nl.idx.get(id)
	if n == nil || n.MD != md {
		return
	}
	nl.detachMD(n)
	nl.dirty = true
}

func (nl *NodeList) attachMD(n *Node, md *directory.Microdescriptor) {
	n.MD = md
	md.HeldByNodes++
}

func (nl *NodeList) detachMD(n *Node) {
	if n.MD == nil {
		return
	}
	n.MD.HeldByNodes--
	n.MD = nil
}

func (nl *NodeList) dropIfUnbacked(n *Node) {
	if n.HasDescriptorOrStatus() {
		return
	}
	nl.detachMD(n)
	nl.idx.drop(n)
	nl.notifyRemoved(n.Identity)
}

// SetConsensus replaces the installed consensus and reconciles every node
// against it, in the four steps described for this system: clear
// existing rs attachments, attach the new consensus's entries (resolving
// microdescriptors where the consensus is microdesc-flavored), purge
// nodes left with neither ri nor rs (or only an orphaned md), and clear
// mirrored flags on general-purpose relays the new consensus implicitly
// demoted.
func (nl *NodeList) SetConsensus(ns *directory.Consensus) {
	// Step 1: null out rs on every existing node.
	for _, n := range nl.idx.iter() {
		n.RS = nil
	}

	// Step 2: attach the new consensus's entries.
	for i := range ns.Routers {
		rs := ns.Routers[i]
		n, created := nl.idx.getOrCreate(rs.Identity)
		n.RS = &ns.Routers[i]

		if ns.Flavor == directory.FlavorMicrodesc && (n.MD == nil || n.MD.Digest != rs.DescriptorDigest) {
			nl.detachMD(n)
			if nl.mdCache != nil {
				if md := nl.mdCache.LookupByDigest256(rs.DescriptorDigest); md != nil {
					nl.attachMD(n, md)
				}
			}
		}

		nl.computeCountry(n)

		if !nl.AuthorityMode {
			ipv6Preferred := nl.PreferIPv6OR && (n.RS.Addr6.Valid() || (n.MD != nil && n.MD.Addr6.Valid()))
			n.applyFlags(rs.Flags, ipv6Preferred)
			nl.notifyFlagsChanged(n.Identity)
		}

		if created {
			nl.notifyAdded(n.Identity)
		}
	}

	nl.consensus = ns

	// Step 3: purge.
	nl.purgeLocked()

	// Step 4: demote general-purpose relays with ri but no rs.
	if !nl.AuthorityMode {
		for _, n := range nl.idx.iter() {
			if n.RI != nil && n.RS == nil && n.RI.Purpose == "general" {
				n.clearMirroredFlags()
			}
		}
	}

	nl.dirty = true
	nl.log.Info("set_consensus",
		zap.Stringer("flavor", ns.Flavor),
		zap.Int("routers", len(ns.Routers)),
		zap.Int("nodes", nl.idx.len()))
}

// Purge detaches the md from every node that has an md but no rs, and
// then drops every node left with neither ri nor rs; a node that still
// has an ri keeps its place without the md.
// Idempotent: calling it twice in a row with no intervening mutation is a
// no-op the second time.
func (nl *NodeList) Purge() {
	nl.purgeLocked()
}

func (nl *NodeList) purgeLocked() {
	// Copy first: drop() swap-removes from the live sequence, which
	// would skip entries if we iterated it directly while mutating.
	snapshot := append([]*Node(nil), nl.idx.iter()...)
	for _, n := range snapshot {
		if nl.idx.get(n.Identity) != n {
			continue // already dropped as a side effect below
		}
		if n.MD != nil && n.RS == nil {
			nl.detachMD(n)
		}
		nl.dropIfUnbacked(n)
	}
}

// FreeAll drops every node, detaching any attached microdescriptors
// along the way.
func (nl *NodeList) FreeAll() {
	for _, n := range append([]*Node(nil), nl.idx.iter()...) {
		nl.detachMD(n)
		nl.idx.drop(n)
		nl.notifyRemoved(n.Identity)
	}
	nl.consensus = nil
	nl.dirty = true
}
