// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"strings"

	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/utils/set"
)

// FamilyResolver computes the transitive "same-family" relation: two
// nodes are in the same family if their primary addresses share a /16
// (when the operator enforces distinct subnets), if they mutually
// declare each other in their family lists, or if an operator-configured
// family set names both.
type FamilyResolver struct {
	EnforceDistinctSubnets bool
	OperatorSets           []set.Set[identity.Fingerprint]
}

// NewFamilyResolver builds a resolver from operator settings.
func NewFamilyResolver(enforceDistinctSubnets bool, operatorSets []set.Set[identity.Fingerprint]) *FamilyResolver {
	return &FamilyResolver{
		EnforceDistinctSubnets: enforceDistinctSubnets,
		OperatorSets:           operatorSets,
	}
}

// ResolveOperatorFamilySets resolves the operator's configured family
// token groups (nicknames or $hex identities) against nl into identity
// sets. Tokens that don't resolve to a known node are dropped silently,
// matching a client that simply hasn't seen that relay yet.
func ResolveOperatorFamilySets(nl *NodeList, tokenSets [][]string) []set.Set[identity.Fingerprint] {
	resolved := make([]set.Set[identity.Fingerprint], 0, len(tokenSets))
	for _, tokens := range tokenSets {
		s := set.NewSet[identity.Fingerprint](len(tokens))
		for _, tok := range tokens {
			if n := nl.GetByHexID(tok); n != nil {
				s.Add(n.Identity)
			}
		}
		resolved = append(resolved, s)
	}
	return resolved
}

func addrSameSlash16(a, b *Node) bool {
	av, aok := PrimORPort(a)
	bv, bok := PrimORPort(b)
	if !aok || !bok {
		return false
	}
	a4, b4 := av.IP.To4(), bv.IP.To4()
	if a4 == nil || b4 == nil {
		return false
	}
	return a4[0] == b4[0] && a4[1] == b4[1]
}

func familyTokenMatches(nl *NodeList, token string, other *Node) bool {
	if strings.HasPrefix(token, "$") {
		return identity.HexPrefixMatches(token[1:], other.Identity)
	}
	if nl.Network == nil {
		return false
	}
	boundID, bound := nl.Network.GetRouterDigestByNickname(token)
	return bound && boundID == other.Identity
}

func (fr *FamilyResolver) declaredFamilyMatches(nl *NodeList, from, target *Node) bool {
	for _, tok := range DeclaredFamily(from) {
		if familyTokenMatches(nl, tok, target) {
			return true
		}
	}
	return false
}

func (fr *FamilyResolver) mutualDeclaredFamily(nl *NodeList, a, b *Node) bool {
	return fr.declaredFamilyMatches(nl, a, b) && fr.declaredFamilyMatches(nl, b, a)
}

func (fr *FamilyResolver) inOperatorSet(a, b identity.Fingerprint) bool {
	for _, s := range fr.OperatorSets {
		if s.Contains(a) && s.Contains(b) {
			return true
		}
	}
	return false
}

// SameFamily reports whether a and b are in the same family under any of
// the three rules.
func (fr *FamilyResolver) SameFamily(nl *NodeList, a, b *Node) bool {
	if a == b {
		return false
	}
	if fr.EnforceDistinctSubnets && addrSameSlash16(a, b) {
		return true
	}
	if fr.mutualDeclaredFamily(nl, a, b) {
		return true
	}
	return fr.inOperatorSet(a.Identity, b.Identity)
}

// AddNodeAndFamily appends n itself, then every node matching address
// proximity, then every node reachable via mutual declared family, then
// every node in an operator family set containing n, to *sink.
// Duplicates are permitted; callers that need a deduplicated result
// should dedupe themselves.
func (fr *FamilyResolver) AddNodeAndFamily(nl *NodeList, sink *[]*Node, n *Node) {
	*sink = append(*sink, n)

	if fr.EnforceDistinctSubnets {
		for _, other := range nl.idx.iter() {
			if other != n && addrSameSlash16(n, other) {
				*sink = append(*sink, other)
			}
		}
	}

	for _, other := range nl.idx.iter() {
		if other != n && fr.mutualDeclaredFamily(nl, n, other) {
			*sink = append(*sink, other)
		}
	}

	for _, s := range fr.OperatorSets {
		if !s.Contains(n.Identity) {
			continue
		}
		for _, other := range nl.idx.iter() {
			if other != n && s.Contains(other.Identity) {
				*sink = append(*sink, other)
			}
		}
	}
}
