// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package directory defines the external data model the nodelist
// reconciles: router descriptors, consensus entries, microdescriptors and
// the consensus document that ties them together. Parsing these from the
// wire is out of scope here; this package only defines the shapes the
// nodelist consumes.
package directory

import (
	"net"
	"time"

	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/utils/ids"
)

// Digest256 is a 32-byte descriptor digest, as produced by a
// microdescriptor's "m" line or a consensus entry's descriptor digest.
type Digest256 = ids.Digest256

// Flavor is which consensus variant is in use.
type Flavor int

const (
	// FlavorNS is the full networkstatus consensus, carrying complete
	// RouterStatus entries with no microdescriptor indirection.
	FlavorNS Flavor = iota
	// FlavorMicrodesc is the compact consensus, where each RouterStatus
	// only carries a descriptor digest resolved through the md-cache.
	FlavorMicrodesc
)

func (f Flavor) String() string {
	if f == FlavorMicrodesc {
		return "microdesc"
	}
	return "ns"
}

// OnionRouterAddr is an OR or Dir address/port pair. A nil IP means the
// address is absent.
type OnionRouterAddr struct {
	IP   net.IP
	Port uint16
}

// Valid reports whether a has a usable IP.
func (a OnionRouterAddr) Valid() bool {
	return a.IP != nil
}

// ExitPolicy is a minimal abstraction over a relay's exit policy,
// sufficient for the accessor-level reject-all check and the
// readiness estimator's permissive-exit substitution. Real policy
// evaluation is delegated to the Policies collaborator interface.
type ExitPolicy struct {
	// RejectsAll is true when the policy is known to reject all
	// addresses/ports ("reject *:*" with nothing before it).
	RejectsAll bool
	// Permissive is true when the policy accepts a broad port range,
	// used by the readiness estimator's ExitNodes substitution rule.
	Permissive bool
}

// RouterInfo is a relay's self-published, self-signed descriptor.
type RouterInfo struct {
	Identity   identity.Fingerprint
	Nickname   string
	Addr       OnionRouterAddr // IPv4 OR address
	DirAddr    OnionRouterAddr // IPv4 Dir address
	Addr6      OnionRouterAddr // optional IPv6 OR address
	DirAddr6   OnionRouterAddr // optional IPv6 Dir address

	DeclaredFamily []string // nickname or $hex tokens
	Policy         ExitPolicy
	Platform       string
	Uptime         time.Duration
	ProtocolList   string // e.g. "LinkAuth=1-3 ..."

	// Ed25519SigningKey is the Ed25519 identity key bound in this
	// descriptor's signing-key certificate, or the zero key if the
	// relay hasn't adopted Ed25519 yet. A key that is present but all
	// zero is treated the same as absent.
	Ed25519SigningKey [32]byte
	OnionKeyCurve25519 [32]byte

	Purpose                      string // "general" for ordinary relays
	AllowSingleHopExits          bool
	SupportsTunnelledDirRequests bool
}

// RouterStatus is one entry in a consensus document.
type RouterStatus struct {
	Identity         identity.Fingerprint
	DescriptorDigest Digest256
	Nickname         string
	Addr             OnionRouterAddr
	Addr6            OnionRouterAddr

	Flags Flags

	SupportsEd25519LinkHandshake bool
	IsV2Dir                      bool

	// Bandwidth is the consensus-assigned weight used by the readiness
	// estimator, taken from the "w Bandwidth=" line.
	Bandwidth uint64
}

// Flags mirrors the consensus vote flags carried by a RouterStatus.
type Flags struct {
	Authority bool
	Valid     bool
	Running   bool
	Fast      bool
	Stable    bool
	Guard     bool
	Exit      bool
	BadExit   bool
	HSDir     bool
	V2Dir     bool
}

// Microdescriptor is the compact, bandwidth-saving summary of a relay
// referenced by digest from a microdesc-flavored consensus.
type Microdescriptor struct {
	Digest           Digest256
	OnionKeyCurve25519 [32]byte
	Ed25519Identity  [32]byte
	Addr6            OnionRouterAddr
	ShortExitPolicy  ExitPolicy
	Family           []string

	// HeldByNodes is the reference count the nodelist is responsible
	// for maintaining: the number of Nodes currently attaching this md.
	// Exported read-only for tests and the consistency checker; the
	// nodelist package is the only writer.
	HeldByNodes int
}

// Consensus is a signed network-state document: one RouterStatus per
// known relay, plus the bandwidth weights and named parameters that drive
// the readiness estimator.
type Consensus struct {
	Flavor     Flavor
	ValidAfter time.Time
	FreshUntil time.Time
	ValidUntil time.Time

	Routers []RouterStatus

	// BandwidthWeights holds the consensus "bw-weights" line, keyed by
	// the weight name (Wgg, Wgm, Wmg, Wmm, Wme, Wee, Wed, ...).
	BandwidthWeights map[string]int64

	// Params holds the consensus "params" line (e.g.
	// min_paths_for_circs_pct), consumed through NetworkStatus.GetParam.
	Params map[string]int
}

// ByDescriptorDigest looks up a RouterStatus by its descriptor digest.
// Used by the reconciler's AddMicrodesc to find the consensus entry an
// arriving microdescriptor belongs to.
func (c *Consensus) ByDescriptorDigest(d Digest256) (RouterStatus, bool) {
	for _, rs := range c.Routers {
		if rs.DescriptorDigest == d {
			return rs, true
		}
	}
	return RouterStatus{}, false
}
