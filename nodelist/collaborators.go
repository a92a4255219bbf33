// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"time"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
)

// RouterList is the owner of RouterInfo records; the nodelist only holds
// non-owning references into it.
type RouterList interface {
	GetRouterList() []*directory.RouterInfo
	RouterGetByDescriptorDigest(digest directory.Digest256) *directory.RouterInfo
}

// NetworkStatus is the consensus-document collaborator: it owns the
// current consensus(es) and the consensus-supplied parameters.
type NetworkStatus interface {
	GetLatestConsensus() *directory.Consensus
	GetLatestConsensusByFlavor(flavor directory.Flavor) *directory.Consensus
	GetRouterDigestByNickname(name string) (identity.Fingerprint, bool)
	NicknameIsUnnamed(name string) bool
	GetParam(name string, def, lo, hi int) int
	GetReasonablyLiveConsensus(now time.Time, flavor directory.Flavor) *directory.Consensus
	ClientWouldUseRouter(rs directory.RouterStatus, now time.Time) bool
}

// MicrodescCache is the owner of Microdescriptor records, shared via the
// refcount the nodelist maintains.
type MicrodescCache interface {
	LookupByDigest256(digest directory.Digest256) *directory.Microdescriptor
}

// GeoIP resolves an address to a cached country code.
type GeoIP interface {
	GetCountryByAddr(addr directory.OnionRouterAddr) int32
}

// PolicyVerdict is the result of comparing an address/port against a
// node's exit policy.
type PolicyVerdict int

const (
	PolicyUnknown PolicyVerdict = iota
	PolicyAccepted
	PolicyRejected
	PolicyProbablyAccepted
	PolicyProbablyRejected
)

// Policies evaluates exit policies; real policy matching is out of
// scope for the nodelist and delegated here.
type Policies interface {
	ShortPolicyIsRejectStar(p directory.ExitPolicy) bool
	CompareAddrToNodePolicy(addr directory.OnionRouterAddr, port uint16, n *Node) PolicyVerdict
}

// RouterSet is an operator-configured set of relays, used both by the
// family resolver and by the readiness estimator's EntryNodes/ExitNodes
// restriction.
type RouterSet interface {
	ContainsNode(n *Node) bool
	ContainsRouterStatus(rs directory.RouterStatus) bool
	GetAllNodes() []*Node
}

// FirewallConfig exposes the operator's IPv6 preferences.
type FirewallConfig interface {
	UseIPv6() bool
	PreferIPv6ORPort() bool
	PreferIPv6DirPort() bool
}

// Guards reports whether the entry-guard subsystem has what it needs to
// build circuits.
type Guards interface {
	EntryGuardsHaveEnoughDirInfoToBuildCircuits() (ok bool, reason string)
}

// Controller receives bootstrap/client-status events. emission itself is
// out of scope; this is the sink the nodelist and readiness estimator
// push events into.
type Controller interface {
	ControlEventBootstrap(event string)
	ControlEventClientStatus(event string)
}
