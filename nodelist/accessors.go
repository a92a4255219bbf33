// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"strconv"
	"strings"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
)

// These accessors hide which of ri/rs/md backs a given attribute. When
// both ri and rs furnish an attribute, ri wins (freshest, self-signed).
// When rs and md both carry an IPv6 address, rs wins, to match
// firewall-preference logic.

// Nickname returns n's consensus-bound nickname if present, else its
// self-declared one, else "".
func Nickname(n *Node) string {
	if n.RS != nil && n.RS.Nickname != "" {
		return n.RS.Nickname
	}
	if n.RI != nil {
		return n.RI.Nickname
	}
	return ""
}

var zeroEd25519 [32]byte

// Ed25519ID returns n's Ed25519 identity key, preferring the one bound in
// its descriptor's signing certificate, falling back to the
// microdescriptor's. An all-zero key is treated as absent.
func Ed25519ID(n *Node) (key [32]byte, ok bool) {
	if n.RI != nil && n.RI.Ed25519SigningKey != zeroEd25519 {
		return n.RI.Ed25519SigningKey, true
	}
	if n.MD != nil && n.MD.Ed25519Identity != zeroEd25519 {
		return n.MD.Ed25519Identity, true
	}
	return key, false
}

// RSAIDDigest returns n's primary key, the RSA identity fingerprint.
func RSAIDDigest(n *Node) identity.Fingerprint {
	return n.Identity
}

// IsDir reports whether n serves directory requests.
func IsDir(n *Node) bool {
	if n.RS != nil {
		return n.RS.IsV2Dir
	}
	if n.RI != nil {
		return n.RI.SupportsTunnelledDirRequests
	}
	return false
}

// HasDescriptor reports whether n has enough information attached to be
// usable: either a full self-signed descriptor, or a consensus entry
// resolved to a microdescriptor.
func HasDescriptor(n *Node) bool {
	return n.RI != nil || (n.RS != nil && n.MD != nil)
}

// ExitPolicyOf returns n's exit policy, preferring the descriptor's full
// policy over the microdescriptor's short one, and reports whether n
// carries policy information at all.
func ExitPolicyOf(n *Node) (directory.ExitPolicy, bool) {
	if n.RI != nil {
		return n.RI.Policy, true
	}
	if n.MD != nil {
		return n.MD.ShortExitPolicy, true
	}
	return directory.ExitPolicy{}, false
}

// ExitPolicyRejectsAll reports whether n is known to reject all
// addresses and ports. Absence of information is treated as rejection.
// When policies is non-nil, the verdict is delegated to its
// ShortPolicyIsRejectStar, which can recognize a reject-all policy the
// flattened RejectsAll bit didn't capture (e.g. one assembled from
// several accept/reject lines); a nil policies falls back to that bit
// directly.
func ExitPolicyRejectsAll(n *Node, policies Policies) bool {
	if n.RejectsAllCache != nil {
		return *n.RejectsAllCache
	}
	policy, ok := ExitPolicyOf(n)
	if !ok {
		return true
	}
	if policies != nil {
		return policies.ShortPolicyIsRejectStar(policy)
	}
	return policy.RejectsAll
}

// PrimORPort returns n's IPv4 OR address/port. md never carries an IPv4
// address.
func PrimORPort(n *Node) (directory.OnionRouterAddr, bool) {
	if n.RI != nil && n.RI.Addr.Valid() {
		return n.RI.Addr, true
	}
	if n.RS != nil && n.RS.Addr.Valid() {
		return n.RS.Addr, true
	}
	return directory.OnionRouterAddr{}, false
}

// PrefIPv6ORPort returns n's preferred IPv6 OR address/port, searching
// ri, then rs, then md.
func PrefIPv6ORPort(n *Node) (directory.OnionRouterAddr, bool) {
	if n.RI != nil && n.RI.Addr6.Valid() {
		return n.RI.Addr6, true
	}
	if n.RS != nil && n.RS.Addr6.Valid() {
		return n.RS.Addr6, true
	}
	if n.MD != nil && n.MD.Addr6.Valid() {
		return n.MD.Addr6, true
	}
	return directory.OnionRouterAddr{}, false
}

// PrefORPort returns n's preferred OR address/port: IPv6 when the client
// uses IPv6 and either n prefers it or has no IPv4 address at all;
// otherwise IPv4.
func PrefORPort(n *Node, useIPv6 bool) (directory.OnionRouterAddr, bool) {
	_, hasV4 := PrimORPort(n)
	if useIPv6 && (n.IPv6Preferred || !hasV4) {
		if addr, ok := PrefIPv6ORPort(n); ok {
			return addr, true
		}
	}
	return PrimORPort(n)
}

// AllORPorts returns up to two address/port pairs: the first valid IPv4
// found (ri then rs), then the first valid IPv6 found (ri, rs, then md).
func AllORPorts(n *Node) []directory.OnionRouterAddr {
	out := make([]directory.OnionRouterAddr, 0, 2)
	if v4, ok := PrimORPort(n); ok {
		out = append(out, v4)
	}
	if v6, ok := PrefIPv6ORPort(n); ok {
		out = append(out, v6)
	}
	return out
}

// DeclaredFamily returns n's self-declared family tokens, from ri if
// present else md.
func DeclaredFamily(n *Node) []string {
	if n.RI != nil && len(n.RI.DeclaredFamily) > 0 {
		return n.RI.DeclaredFamily
	}
	if n.MD != nil {
		return n.MD.Family
	}
	return nil
}

// linkAuthMinVersion is the minimum "LinkAuth" protocol version a
// descriptor's protocol list must advertise for Ed25519 link
// authentication to be considered supported.
const linkAuthMinVersion = 3

// SupportsEd25519LinkAuth reports whether n has an Ed25519 identity and
// advertises (via ri's protocol list, or rs's consensus flag) support for
// Ed25519 link authentication.
func SupportsEd25519LinkAuth(n *Node) bool {
	if _, ok := Ed25519ID(n); !ok {
		return false
	}
	if n.RI != nil && protocolListHasLinkAuth(n.RI.ProtocolList, linkAuthMinVersion) {
		return true
	}
	return n.RS != nil && n.RS.SupportsEd25519LinkHandshake
}

// protocolListHasLinkAuth parses a Tor protocol-versions string (e.g.
// "LinkAuth=1-3 Link=1-5") and reports whether it advertises LinkAuth at
// or above min.
func protocolListHasLinkAuth(list string, min int) bool {
	for _, entry := range strings.Fields(list) {
		name, versions, found := strings.Cut(entry, "=")
		if !found || name != "LinkAuth" {
			continue
		}
		for _, rng := range strings.Split(versions, ",") {
			lo, hi, ok := strings.Cut(rng, "-")
			loV, err := strconv.Atoi(lo)
			if err != nil {
				continue
			}
			hiV := loV
			if ok {
				if hiV, err = strconv.Atoi(hi); err != nil {
					continue
				}
			}
			if hiV >= min {
				return true
			}
		}
	}
	return false
}

// VerboseNickname formats n's verbose nickname: "$" + hex identity,
// optionally followed by the binding separator and nickname.
func VerboseNickname(n *Node, binding identity.NameBinding) string {
	return identity.VerboseNickname(n.Identity, Nickname(n), binding)
}
