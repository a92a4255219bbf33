// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import "github.com/torproject/nodelist/identity"

// SetCallbackListener observes changes to the nodelist's node set,
// independent of any particular collaborator. The reconciler drives
// these callbacks directly out of set_routerinfo/set_consensus/purge so
// that metrics and operator logging don't need to be wired into the
// reconciliation algorithm itself.
type SetCallbackListener interface {
	OnNodeAdded(id identity.Fingerprint)
	OnNodeRemoved(id identity.Fingerprint)
	OnNodeFlagsChanged(id identity.Fingerprint)
}

// RegisterCallbackListener registers l to be notified of node-set
// changes. Listeners are notified in registration order.
func (nl *NodeList) RegisterCallbackListener(l SetCallbackListener) {
	nl.listeners = append(nl.listeners, l)
}

func (nl *NodeList) notifyAdded(id identity.Fingerprint) {
	for _, l := range nl.listeners {
		l.OnNodeAdded(id)
	}
}

func (nl *NodeList) notifyRemoved(id identity.Fingerprint) {
	for _, l := range nl.listeners {
		l.OnNodeRemoved(id)
	}
}

func (nl *NodeList) notifyFlagsChanged(id identity.Fingerprint) {
	for _, l := range nl.listeners {
		l.OnNodeFlagsChanged(id)
	}
}
