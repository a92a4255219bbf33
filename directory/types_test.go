// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package directory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlavorString(t *testing.T) {
	require.Equal(t, "ns", FlavorNS.String())
	require.Equal(t, "microdesc", FlavorMicrodesc.String())
}

func TestOnionRouterAddrValid(t *testing.T) {
	require.False(t, OnionRouterAddr{}.Valid())
	require.True(t, OnionRouterAddr{IP: []byte{1, 2, 3, 4}}.Valid())
}

func TestConsensusByDescriptorDigest(t *testing.T) {
	var d1, d2 Digest256
	d1[0] = 1
	d2[0] = 2

	cons := &Consensus{Routers: []RouterStatus{
		{Nickname: "a", DescriptorDigest: d1},
		{Nickname: "b", DescriptorDigest: d2},
	}}

	rs, ok := cons.ByDescriptorDigest(d2)
	require.True(t, ok)
	require.Equal(t, "b", rs.Nickname)

	var missing Digest256
	missing[0] = 0xFF
	_, ok = cons.ByDescriptorDigest(missing)
	require.False(t, ok)
}
