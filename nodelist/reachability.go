// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import "time"

// ReachabilityTracker records the last successful reachability probe on
// each address family for a node, backing the node's LastReachable /
// LastReachable6 fields. An address change invalidates both timestamps,
// since a probe against the old address says nothing about the new one.
type ReachabilityTracker struct{}

// MarkReachable records a successful probe against n's primary (IPv4)
// address at t.
func (ReachabilityTracker) MarkReachable(n *Node, t time.Time) {
	n.LastReachable = t
}

// MarkReachable6 records a successful probe against n's IPv6 address at
// t.
func (ReachabilityTracker) MarkReachable6(n *Node, t time.Time) {
	n.LastReachable6 = t
}

// Reset clears both reachability timestamps, as happens when a node's OR
// address changes.
func (ReachabilityTracker) Reset(n *Node) {
	n.LastReachable = time.Time{}
	n.LastReachable6 = time.Time{}
}

// IsReachable reports whether n has ever been successfully probed on its
// primary address.
func (ReachabilityTracker) IsReachable(n *Node) bool {
	return !n.LastReachable.IsZero()
}

// IsReachable6 reports whether n has ever been successfully probed on its
// IPv6 address.
func (ReachabilityTracker) IsReachable6(n *Node) bool {
	return !n.LastReachable6.IsZero()
}
