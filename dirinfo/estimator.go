// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dirinfo implements the directory-readiness estimator: it walks
// the consensus and the nodelist to compute bandwidth-weighted
// guard/middle/exit presence fractions and decides whether the client
// has learned enough of the network to build circuits.
package dirinfo

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/torproject/nodelist/config"
	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/logctx"
	"github.com/torproject/nodelist/nodelist"
	safemath "github.com/torproject/nodelist/utils/math"
)

// ConsensusPath is the client's self-assessment of which circuit shapes
// it can build.
type ConsensusPath int

const (
	PathUnknown ConsensusPath = iota
	PathExit
	PathInternal
)

func (p ConsensusPath) String() string {
	switch p {
	case PathExit:
		return "EXIT"
	case PathInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Options are the caller-controlled knobs the algorithm consults before
// touching the consensus at all.
type Options struct {
	// BootstrapDelayReason, when non-empty, means the bootstrap layer is
	// deliberately delaying directory fetches; readiness short-circuits
	// to false with this reason.
	BootstrapDelayReason string

	// PathsNeededToBuildCircuits overrides the consensus-derived
	// threshold when >= 0; a negative value means "use the
	// consensus parameter instead".
	PathsNeededToBuildCircuits float64
}

// Estimator computes have_min_dir_info and its accompanying status
// string, recomputing lazily whenever the nodelist reports a dirty
// directory-info state.
type Estimator struct {
	nl      *nodelist.NodeList
	network nodelist.NetworkStatus
	guards  nodelist.Guards

	controller nodelist.Controller
	policies   nodelist.Policies
	params     config.Parameters

	entryNodes nodelist.RouterSet
	exitNodes  nodelist.RouterSet

	Options Options

	haveMinDirInfo bool
	consensusPath  ConsensusPath
	statusString   string
	everComputed   bool

	metrics *Metrics
	log     logctx.Logger
}

// New returns an estimator bound to nl, using network/guards/controller
// as its external collaborators and params for the consensus-supplied
// bandwidth weights and threshold.
func New(nl *nodelist.NodeList, network nodelist.NetworkStatus, guards nodelist.Guards, controller nodelist.Controller, params config.Parameters, log logctx.Logger) *Estimator {
	if log == nil {
		log = logctx.NoOp()
	}
	return &Estimator{
		nl:         nl,
		network:    network,
		guards:     guards,
		controller: controller,
		params:     params,
		log:        log,
		Options:    Options{PathsNeededToBuildCircuits: -1},
	}
}

// SetMetrics attaches a Prometheus metrics sink; nil disables metrics.
func (e *Estimator) SetMetrics(m *Metrics) { e.metrics = m }

// SetPolicies attaches the exit-policy evaluator used by the ExitNodes
// permissive-policy substitution rule; nil disables it, so a restricted
// exit set with no Exit-flagged members always falls back to the
// unrestricted fraction.
func (e *Estimator) SetPolicies(p nodelist.Policies) { e.policies = p }

// SetEntryNodes restricts the guard bucket to an operator-configured set.
func (e *Estimator) SetEntryNodes(rs nodelist.RouterSet) { e.entryNodes = rs }

// SetExitNodes restricts the exit fraction computation to an
// operator-configured set.
func (e *Estimator) SetExitNodes(rs nodelist.RouterSet) { e.exitNodes = rs }

// HaveMinDirInfo recomputes (if the nodelist is dirty) and returns
// whether the client has learned enough of the network to build
// circuits.
func (e *Estimator) HaveMinDirInfo() bool {
	e.recomputeIfDirty()
	return e.haveMinDirInfo
}

// HaveConsensusPath returns the most recently computed path shape.
func (e *Estimator) HaveConsensusPath() ConsensusPath {
	e.recomputeIfDirty()
	return e.consensusPath
}

// StatusString returns the human-readable status, of the form "X% of
// guards bw, Y% of midpoint bw, Z% of exit bw = P% of path bw", or a
// fixed message when no usable consensus is available at all.
func (e *Estimator) StatusString() string {
	e.recomputeIfDirty()
	return e.statusString
}

func (e *Estimator) recomputeIfDirty() {
	if !e.everComputed || e.nl.ReadinessDirty() {
		e.recompute()
		e.nl.ClearReadinessDirty()
		e.everComputed = true
	}
}

func (e *Estimator) recompute() {
	wasReady := e.haveMinDirInfo

	ready, status, path := e.evaluate()
	e.haveMinDirInfo = ready
	e.statusString = status

	if wasReady && !ready {
		e.consensusPath = PathUnknown
		if e.controller != nil {
			e.controller.ControlEventClientStatus("NOT_ENOUGH_DIR_INFO")
		}
	} else {
		e.consensusPath = path
	}

	if !wasReady && ready && e.controller != nil {
		e.controller.ControlEventBootstrap("BOOTSTRAP_CONN_OR")
	}

	if e.metrics != nil {
		e.metrics.observeReady(ready)
	}

	e.log.Debug("directory readiness recomputed",
		zap.Bool("ready", ready), zap.Stringer("path", e.consensusPath), zap.String("status", status))
}

// evaluate runs the ten-step algorithm and returns readiness, the status
// string, and the consensus path. It never mutates e's transition state
// directly, so recompute() can compare against the previous value.
func (e *Estimator) evaluate() (bool, string, ConsensusPath) {
	if e.Options.BootstrapDelayReason != "" {
		return false, e.Options.BootstrapDelayReason, PathUnknown
	}

	now := time.Now()
	var cons *directory.Consensus
	if e.network != nil {
		cons = e.network.GetReasonablyLiveConsensus(now, directory.FlavorNS)
	}
	if cons == nil && e.nl.CurrentConsensus() != nil {
		cons = e.nl.CurrentConsensus()
	}
	if cons == nil {
		return false, "We have no usable consensus.", PathUnknown
	}

	if e.guards != nil {
		if ok, reason := e.guards.EntryGuardsHaveEnoughDirInfoToBuildCircuits(); !ok {
			return false, reason, PathUnknown
		}
	}

	mid, guards, exits := e.countUsable(cons, now)

	path := PathInternal
	if len(exits) > 0 {
		path = PathExit
	}

	fGuard := e.weightedFraction(guards, e.params.WeightGuard)
	fMid := e.weightedFraction(mid, e.params.WeightMiddle)
	fExit := e.weightedFraction(exits, e.params.WeightExit)

	if e.exitNodes != nil {
		// mid, not exits: an operator-restricted exit set may name
		// relays the consensus hasn't flagged Exit but whose policy is
		// otherwise permissive enough to exit through. ok is false when
		// the restricted set has no usable exit candidate at all, in
		// which case the unrestricted fExit is left untouched.
		if fMyExit, ok := e.weightedFractionRestricted(mid, e.params.WeightExit, e.exitNodes); ok && fMyExit < fExit {
			fExit = fMyExit
		}
	}

	if path == PathInternal {
		fExit = 1.0
	}

	fPath := fGuard * fMid * fExit

	threshold := e.threshold(cons)
	ready := fPath >= threshold

	status := fmt.Sprintf(
		"%.0f%% of guards bw, %.0f%% of midpoint bw, %.0f%% of exit bw = %.0f%% of path bw",
		fGuard*100, fMid*100, fExit*100, fPath*100,
	)

	if e.metrics != nil {
		e.metrics.observeFractions(fGuard, fMid, fExit, fPath)
	}
	return ready, status, path
}

func (e *Estimator) threshold(cons *directory.Consensus) float64 {
	if e.Options.PathsNeededToBuildCircuits >= 0 {
		return e.Options.PathsNeededToBuildCircuits
	}
	pct := e.params.MinPathsForCircsPct
	if e.network != nil {
		pct = e.network.GetParam("min_paths_for_circs_pct", pct, 25, 95)
	}
	return float64(pct) / 100
}

// countUsable splits cons's routers into the mid/guards/exits buckets
// described for this estimator: mid is every router the client would
// use; guards is either the operator's EntryNodes set intersected with
// usable, or the Guard-flagged subset of mid; exits is the Exit-flagged
// subset of the usable routers.
func (e *Estimator) countUsable(cons *directory.Consensus, now time.Time) (mid, guards, exits []directory.RouterStatus) {
	for _, rs := range cons.Routers {
		if e.network != nil && !e.network.ClientWouldUseRouter(rs, now) {
			continue
		}
		mid = append(mid, rs)
		if rs.Flags.Exit {
			exits = append(exits, rs)
		}
	}

	if e.entryNodes != nil {
		for _, rs := range mid {
			if e.entryNodes.ContainsRouterStatus(rs) {
				guards = append(guards, rs)
			}
		}
		return mid, guards, exits
	}

	for _, rs := range mid {
		if rs.Flags.Guard {
			guards = append(guards, rs)
		}
	}
	return mid, guards, exits
}

// weightedFraction computes the fraction of bucket's weighted bandwidth
// for which the nodelist has a usable descriptor.
func (e *Estimator) weightedFraction(bucket []directory.RouterStatus, weight float64) float64 {
	var present, total []uint64
	for _, rs := range bucket {
		w := scaleWeight(rs.Bandwidth, weight)
		total = append(total, w)
		if e.hasDescriptor(rs) {
			present = append(present, w)
		}
	}
	return fractionOf(present, total)
}

// weightedFractionRestricted computes the weighted fraction of bucket's
// entries that also belong to restrict, provided at least one of them is
// a usable exit candidate (Exit-flagged, or carrying a permissive,
// non-reject-all policy). ok is false when restrict names no such
// candidate, telling the caller to keep its unrestricted fraction.
func (e *Estimator) weightedFractionRestricted(bucket []directory.RouterStatus, weight float64, restrict nodelist.RouterSet) (frac float64, ok bool) {
	var restricted []directory.RouterStatus
	hasUsableExit := false
	for _, rs := range bucket {
		if !restrict.ContainsRouterStatus(rs) {
			continue
		}
		restricted = append(restricted, rs)
		if e.hasUsableExit(rs) {
			hasUsableExit = true
		}
	}
	if !hasUsableExit {
		return 0, false
	}
	return e.weightedFraction(restricted, weight), true
}

// hasUsableExit reports whether rs can plausibly serve as the exit hop:
// either the consensus flags it Exit, or its policy is both non-reject-all
// and permissive, per the Policies collaborator.
func (e *Estimator) hasUsableExit(rs directory.RouterStatus) bool {
	if rs.Flags.Exit {
		return true
	}
	if e.policies == nil {
		return false
	}
	n := e.nl.GetByID(rs.Identity)
	if n == nil {
		return false
	}
	policy, ok := nodelist.ExitPolicyOf(n)
	if !ok {
		return false
	}
	return policy.Permissive && !e.policies.ShortPolicyIsRejectStar(policy)
}

func (e *Estimator) hasDescriptor(rs directory.RouterStatus) bool {
	n := e.nl.GetByID(rs.Identity)
	return n != nil && nodelist.HasDescriptor(n)
}

func scaleWeight(bw uint64, weight float64) uint64 {
	return uint64(float64(bw) * weight)
}

func fractionOf(present, total []uint64) float64 {
	totalSum, err := safemath.SumBandwidth64(total...)
	if err != nil || totalSum == 0 {
		return 1.0
	}
	presentSum, err := safemath.SumBandwidth64(present...)
	if err != nil {
		presentSum = totalSum
	}
	return float64(presentSum) / float64(totalSum)
}
