// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dirinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/torproject/nodelist/config"
	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/identity"
	"github.com/torproject/nodelist/nodelist"
	"github.com/torproject/nodelist/nodelist/nodelisttest"
)

func fp(b byte) (f identity.Fingerprint) {
	f[0] = b
	return f
}

type stubNetwork struct {
	cons          *directory.Consensus
	useRouter     bool
	paramOverride map[string]int
}

func (s *stubNetwork) GetLatestConsensus() *directory.Consensus { return s.cons }
func (s *stubNetwork) GetLatestConsensusByFlavor(directory.Flavor) *directory.Consensus {
	return s.cons
}
func (s *stubNetwork) GetRouterDigestByNickname(string) (identity.Fingerprint, bool) {
	return identity.Fingerprint{}, false
}
func (s *stubNetwork) NicknameIsUnnamed(string) bool                    { return false }
func (s *stubNetwork) GetParam(name string, def, lo, hi int) int {
	if v, ok := s.paramOverride[name]; ok {
		return v
	}
	return def
}
func (s *stubNetwork) GetReasonablyLiveConsensus(time.Time, directory.Flavor) *directory.Consensus {
	return s.cons
}
func (s *stubNetwork) ClientWouldUseRouter(directory.RouterStatus, time.Time) bool {
	return s.useRouter
}

func newTestNetwork(cons *directory.Consensus) *stubNetwork {
	return &stubNetwork{cons: cons, useRouter: true}
}

func uniformParams() config.Parameters {
	p := config.DefaultParameters()
	p.MinPathsForCircsPct = 60
	return p
}

func TestHaveMinDirInfoFalseWithNoConsensus(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	e := New(nl, &stubNetwork{}, nil, nil, uniformParams(), nil)

	require.False(t, e.HaveMinDirInfo())
	require.Equal(t, "We have no usable consensus.", e.StatusString())
	require.Equal(t, PathUnknown, e.HaveConsensusPath())
}

func TestHaveMinDirInfoRespectsBootstrapDelay(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	e := New(nl, newTestNetwork(&directory.Consensus{}), nil, nil, uniformParams(), nil)
	e.Options.BootstrapDelayReason = "directory fetches disabled"

	require.False(t, e.HaveMinDirInfo())
	require.Equal(t, "directory fetches disabled", e.StatusString())
}

func TestHaveMinDirInfoFalseWhenGuardsLackInfo(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Flags: directory.Flags{Guard: true}, Bandwidth: 100},
	}}
	guards := &nodelisttest.TestGuards{EnoughDirInfoF: func() (bool, string) { return false, "no live guards" }}

	e := New(nl, newTestNetwork(cons), guards, nil, uniformParams(), nil)
	require.False(t, e.HaveMinDirInfo())
	require.Equal(t, "no live guards", e.StatusString())
}

func TestHaveMinDirInfoReadyWhenFullyDescribed(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	ids := []struct {
		id   [20]byte
		bw   uint64
		exit bool
		guard bool
	}{
		{fp(1), 100, false, true},
		{fp(2), 100, false, false},
		{fp(3), 100, true, false},
	}
	var routers []directory.RouterStatus
	for _, e := range ids {
		rs := directory.RouterStatus{Identity: e.id, Bandwidth: e.bw, Flags: directory.Flags{Guard: e.guard, Exit: e.exit}}
		routers = append(routers, rs)
		nl.SetRouterInfo(&directory.RouterInfo{Identity: e.id})
	}
	cons := &directory.Consensus{Routers: routers}
	nl.SetConsensus(cons)

	est := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	require.True(t, est.HaveMinDirInfo())
	require.Equal(t, PathExit, est.HaveConsensusPath())
	require.Contains(t, est.StatusString(), "100% of guards bw")
}

func TestHaveMinDirInfoBelowThresholdWhenMissingDescriptors(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Guard: true, Exit: true}},
		{Identity: fp(2), Bandwidth: 900, Flags: directory.Flags{Guard: true, Exit: true}},
	}}
	nl.SetConsensus(cons)
	// Only attach a descriptor for the low-bandwidth relay.
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	require.False(t, e.HaveMinDirInfo())
}

func TestHaveMinDirInfoInternalPathForcesFExitToOne(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Guard: true}},
	}}
	nl.SetConsensus(cons)
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	require.True(t, e.HaveMinDirInfo())
	require.Equal(t, PathInternal, e.HaveConsensusPath())
	require.Contains(t, e.StatusString(), "100% of exit bw")
}

func TestExitNodesRestrictionSubstitutesWhenNoExitFlaggedMember(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Guard: true, Exit: true}},
		{Identity: fp(2), Bandwidth: 100, Flags: directory.Flags{Exit: true}},
	}}
	nl.SetConsensus(cons)
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(2)})

	exitSet := nodelisttest.NewTestRouterSet()
	exitSet.AddIdentity(fp(3)) // names a relay not flagged Exit in this bucket

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	e.SetExitNodes(exitSet)

	require.True(t, e.HaveMinDirInfo(), "falls back to unrestricted computation")
}

func TestExitNodesRestrictionAppliesPermissivePolicyMember(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 200, Flags: directory.Flags{Exit: true}}, // Exit-flagged, has descriptor
		{Identity: fp(3), Bandwidth: 100}, // not Exit-flagged, permissive policy via its ri, has descriptor
		{Identity: fp(4), Bandwidth: 100}, // not Exit-flagged, no descriptor
	}}
	nl.SetConsensus(cons)
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(3), Policy: directory.ExitPolicy{Permissive: true}})

	exitSet := nodelisttest.NewTestRouterSet()
	exitSet.AddIdentity(fp(3))
	exitSet.AddIdentity(fp(4))

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	e.SetExitNodes(exitSet)
	e.SetPolicies(&nodelisttest.TestPolicies{})

	// The unrestricted exit bucket is just {fp(1)}, fully described (100%).
	// Restricting to {fp(3), fp(4)} must still apply, since fp(3) is a
	// usable (permissive, non-reject-all) exit candidate even without the
	// Exit flag; only fp(3) of the pair is described, giving 50%. A
	// restriction search confined to Exit-flagged members would find no
	// candidate at all and leave the unrestricted 100% in place.
	require.Contains(t, e.StatusString(), "50% of exit bw")
}

func TestExitNodesRestrictionIgnoredWithNoUsableCandidate(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Exit: true}},
	}}
	nl.SetConsensus(cons)
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})

	exitSet := nodelisttest.NewTestRouterSet()
	exitSet.AddIdentity(fp(9)) // names a relay absent from the consensus entirely

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	e.SetExitNodes(exitSet)
	e.SetPolicies(&nodelisttest.TestPolicies{})

	require.Contains(t, e.StatusString(), "100% of exit bw")
}

func TestThresholdOverrideTakesPrecedenceOverConsensusParam(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Guard: true}},
	}}
	nl.SetConsensus(cons)
	// No descriptor attached at all, so every fraction is 0.

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	e.Options.PathsNeededToBuildCircuits = 0

	require.True(t, e.HaveMinDirInfo(), "a zero threshold is always satisfied")
}

func TestHaveMinDirInfoTransitionFiresControllerEvents(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	ctrl := &nodelisttest.TestController{}
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Guard: true}},
	}}
	nl.SetConsensus(cons)

	e := New(nl, newTestNetwork(cons), nil, ctrl, uniformParams(), nil)
	require.False(t, e.HaveMinDirInfo())

	ri := &directory.RouterInfo{Identity: fp(1)}
	nl.SetRouterInfo(ri)
	require.True(t, e.HaveMinDirInfo())
	require.Contains(t, ctrl.BootstrapEvents, "BOOTSTRAP_CONN_OR")

	nl.RemoveRouterInfo(ri)
	nl.RouterDirInfoChanged()
	require.False(t, e.HaveMinDirInfo())
	require.Contains(t, ctrl.ClientEvents, "NOT_ENOUGH_DIR_INFO")
}

func TestRecomputeIsLazyUntilDirty(t *testing.T) {
	nl := nodelist.New(nil, nil, nil)
	cons := &directory.Consensus{Routers: []directory.RouterStatus{
		{Identity: fp(1), Bandwidth: 100, Flags: directory.Flags{Guard: true}},
	}}
	nl.SetConsensus(cons)
	nl.SetRouterInfo(&directory.RouterInfo{Identity: fp(1)})

	e := New(nl, newTestNetwork(cons), nil, nil, uniformParams(), nil)
	require.True(t, e.HaveMinDirInfo())
	nl.ClearReadinessDirty()

	// Mutate the consensus bandwidth behind the estimator's back: since
	// the nodelist wasn't told anything changed, the cached result holds.
	cons.Routers[0].Bandwidth = 0
	require.True(t, e.HaveMinDirInfo())
}
