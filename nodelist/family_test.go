// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/utils/set"
)

func TestSameFamilyAddressProximity(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{
		Identity: fp(1),
		Addr:     directory.OnionRouterAddr{IP: []byte{10, 0, 1, 1}, Port: 1},
	})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{
		Identity: fp(2),
		Addr:     directory.OnionRouterAddr{IP: []byte{10, 0, 2, 2}, Port: 1},
	})

	fr := NewFamilyResolver(true, nil)
	require.True(t, fr.SameFamily(nl, a, b))

	fr2 := NewFamilyResolver(false, nil)
	require.False(t, fr2.SameFamily(nl, a, b), "proximity only counts when enforced")
}

func TestSameFamilyRequiresSlash16NotJustSlash24(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{
		Identity: fp(1),
		Addr:     directory.OnionRouterAddr{IP: []byte{10, 0, 1, 1}, Port: 1},
	})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{
		Identity: fp(2),
		Addr:     directory.OnionRouterAddr{IP: []byte{10, 1, 1, 1}, Port: 1},
	})

	fr := NewFamilyResolver(true, nil)
	require.False(t, fr.SameFamily(nl, a, b))
}

func TestSameFamilyMutualDeclaration(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1), Nickname: "alice", DeclaredFamily: []string{"bob"}})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(2), Nickname: "bob", DeclaredFamily: []string{"alice"}})
	// Nickname tokens only match a node whose nickname the consensus binds to it.
	nl.Network = &fakeNetworkStatus{boundByNickname: map[string]identity.Fingerprint{"alice": fp(1), "bob": fp(2)}}

	fr := NewFamilyResolver(false, nil)
	require.True(t, fr.SameFamily(nl, a, b))
}

func TestSameFamilyOneSidedDeclarationDoesNotCount(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1), Nickname: "alice", DeclaredFamily: []string{"bob"}})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(2), Nickname: "bob"})

	fr := NewFamilyResolver(false, nil)
	require.False(t, fr.SameFamily(nl, a, b))
}

func TestSameFamilyHexPrefixToken(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{
		Identity:       fp(1),
		DeclaredFamily: []string{"$" + fp(2).String()[:8]},
	})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{
		Identity:       fp(2),
		DeclaredFamily: []string{"$" + fp(1).String()},
	})

	fr := NewFamilyResolver(false, nil)
	require.True(t, fr.SameFamily(nl, a, b))
}

func TestSameFamilyOperatorSet(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(2)})

	s := set.NewSet[identity.Fingerprint](2)
	s.Add(fp(1))
	s.Add(fp(2))

	fr := NewFamilyResolver(false, []set.Set[identity.Fingerprint]{s})
	require.True(t, fr.SameFamily(nl, a, b))
}

func TestSameFamilyNeverMatchesSelf(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})

	fr := NewFamilyResolver(true, nil)
	require.False(t, fr.SameFamily(nl, a, a))
}

func TestAddNodeAndFamilyIncludesSelfFirst(t *testing.T) {
	nl := New(nil, nil, nil)
	a, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1), Nickname: "a", DeclaredFamily: []string{"b"}})
	b, _ := nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(2), Nickname: "b", DeclaredFamily: []string{"a"}})
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(3), Nickname: "c"})
	nl.Network = &fakeNetworkStatus{boundByNickname: map[string]identity.Fingerprint{"a": fp(1), "b": fp(2), "c": fp(3)}}

	fr := NewFamilyResolver(false, nil)
	var out []*Node
	fr.AddNodeAndFamily(nl, &out, a)

	require.Equal(t, a, out[0])
	require.Contains(t, out, b)
	require.Len(t, out, 2)
}

func TestResolveOperatorFamilySetsDropsUnresolvedTokens(t *testing.T) {
	nl := New(nil, nil, nil)
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})

	sets := ResolveOperatorFamilySets(nl, [][]string{
		{"$" + fp(1).String(), "$" + fp(99).String()},
	})

	require.Len(t, sets, 1)
	require.True(t, sets[0].Contains(fp(1)))
	require.False(t, sets[0].Contains(fp(99)))
	require.Equal(t, 1, sets[0].Len())
}
