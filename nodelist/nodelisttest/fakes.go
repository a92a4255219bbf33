// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nodelisttest provides test fixtures for the nodelist and
// dirinfo packages: function-field fakes for the lighter-weight
// collaborator interfaces, and a hand-written gomock mock for
// NetworkStatus where call verification is worth the ceremony.
package nodelisttest

import (
	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/nodelist"
)

// TestGuards is a function-field fake of nodelist.Guards: set
// EnoughDirInfoF to control behavior, or leave nil to default to "ready,
// no reason".
type TestGuards struct {
	EnoughDirInfoF func() (bool, string)
}

func (g *TestGuards) EntryGuardsHaveEnoughDirInfoToBuildCircuits() (bool, string) {
	if g.EnoughDirInfoF != nil {
		return g.EnoughDirInfoF()
	}
	return true, ""
}

// TestController is a function-field fake of nodelist.Controller that
// records every event it receives, for assertions.
type TestController struct {
	BootstrapEvents []string
	ClientEvents    []string
}

func (c *TestController) ControlEventBootstrap(event string) {
	c.BootstrapEvents = append(c.BootstrapEvents, event)
}

func (c *TestController) ControlEventClientStatus(event string) {
	c.ClientEvents = append(c.ClientEvents, event)
}

// TestMicrodescCache is a function-field fake of nodelist.MicrodescCache
// backed by a plain map, keyed by digest.
type TestMicrodescCache struct {
	byDigest map[directory.Digest256]*directory.Microdescriptor
}

func NewTestMicrodescCache() *TestMicrodescCache {
	return &TestMicrodescCache{byDigest: make(map[directory.Digest256]*directory.Microdescriptor)}
}

func (c *TestMicrodescCache) Put(md *directory.Microdescriptor) {
	c.byDigest[md.Digest] = md
}

func (c *TestMicrodescCache) LookupByDigest256(digest directory.Digest256) *directory.Microdescriptor {
	return c.byDigest[digest]
}

// TestGeoIP is a function-field fake of nodelist.GeoIP, returning a fixed
// country for every address unless CountryF is set.
type TestGeoIP struct {
	CountryF func(addr directory.OnionRouterAddr) int32
}

func (g *TestGeoIP) GetCountryByAddr(addr directory.OnionRouterAddr) int32 {
	if g.CountryF != nil {
		return g.CountryF(addr)
	}
	return 1
}

// TestRouterSet is a function-field fake of nodelist.RouterSet backed by
// a plain identity set.
type TestRouterSet struct {
	Members map[[20]byte]bool
}

func NewTestRouterSet() *TestRouterSet {
	return &TestRouterSet{Members: make(map[[20]byte]bool)}
}

func (s *TestRouterSet) AddIdentity(id [20]byte) {
	s.Members[id] = true
}

func (s *TestRouterSet) ContainsNode(n *nodelist.Node) bool {
	return s.Members[n.Identity]
}

func (s *TestRouterSet) ContainsRouterStatus(rs directory.RouterStatus) bool {
	return s.Members[rs.Identity]
}

func (s *TestRouterSet) GetAllNodes() []*nodelist.Node {
	return nil
}

// TestPolicies is a function-field fake of nodelist.Policies.
type TestPolicies struct {
	RejectStarF func(directory.ExitPolicy) bool
	CompareF    func(directory.OnionRouterAddr, uint16, *nodelist.Node) nodelist.PolicyVerdict
}

func (p *TestPolicies) ShortPolicyIsRejectStar(pol directory.ExitPolicy) bool {
	if p.RejectStarF != nil {
		return p.RejectStarF(pol)
	}
	return pol.RejectsAll
}

func (p *TestPolicies) CompareAddrToNodePolicy(addr directory.OnionRouterAddr, port uint16, n *nodelist.Node) nodelist.PolicyVerdict {
	if p.CompareF != nil {
		return p.CompareF(addr, port, n)
	}
	return nodelist.PolicyUnknown
}

// compile-time interface assertions
var (
	_ nodelist.Guards          = (*TestGuards)(nil)
	_ nodelist.Controller      = (*TestController)(nil)
	_ nodelist.MicrodescCache  = (*TestMicrodescCache)(nil)
	_ nodelist.GeoIP           = (*TestGeoIP)(nil)
	_ nodelist.RouterSet       = (*TestRouterSet)(nil)
	_ nodelist.Policies        = (*TestPolicies)(nil)
)
