// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"fmt"

	"github.com/torproject/nodelist/directory"
	"github.com/torproject/nodelist/utils/wrappers"
)

// Check runs the debug/test-build consistency checker, cross-validating
// the nodelist against the router list and the current consensus. It
// never mutates the nodelist; callers decide whether a returned error is
// fatal.
func (nl *NodeList) Check(routerList RouterList) error {
	var errs wrappers.Errs

	errs.Add(nl.checkSequenceMatchesIndex())
	errs.Add(nl.checkMDRefcounts())
	if routerList != nil {
		errs.Add(nl.checkRouterListReferences(routerList))
	}
	if nl.consensus != nil {
		errs.Add(nl.checkConsensusReferences())
		if nl.consensus.Flavor == directory.FlavorMicrodesc && nl.mdCache != nil {
			errs.Add(nl.checkMicrodescAttachment())
		}
	}

	if errs.Errored() {
		return errs.Err()
	}
	return nil
}

func (nl *NodeList) checkSequenceMatchesIndex() error {
	if len(nl.idx.seq) != len(nl.idx.byID) {
		return fmt.Errorf("nodelist: sequence length %d != index size %d", len(nl.idx.seq), len(nl.idx.byID))
	}
	for i, n := range nl.idx.seq {
		if n.idx != i {
			return fmt.Errorf("nodelist: node %s has idx %d, found at position %d", n.Identity, n.idx, i)
		}
		if nl.idx.byID[n.Identity] != n {
			return fmt.Errorf("nodelist: node %s not reachable by its own identity in the index", n.Identity)
		}
	}
	return nil
}

func (nl *NodeList) checkMDRefcounts() error {
	counts := make(map[*directory.Microdescriptor]int)
	for _, n := range nl.idx.seq {
		if n.MD != nil {
			counts[n.MD]++
		}
	}
	for md, count := range counts {
		if md.HeldByNodes != count {
			return fmt.Errorf("nodelist: md %x held_by_nodes=%d, actual attachments=%d", md.Digest, md.HeldByNodes, count)
		}
	}
	return nil
}

func (nl *NodeList) checkRouterListReferences(rl RouterList) error {
	byRI := make(map[*directory.RouterInfo]*Node)
	for _, n := range nl.idx.seq {
		if n.RI == nil {
			continue
		}
		if other, dup := byRI[n.RI]; dup {
			return fmt.Errorf("nodelist: ri shared by nodes %s and %s", other.Identity, n.Identity)
		}
		byRI[n.RI] = n
	}
	for _, ri := range rl.GetRouterList() {
		if _, ok := byRI[ri]; !ok {
			return fmt.Errorf("nodelist: router list entry %s has no referencing node", ri.Identity)
		}
	}
	return nil
}

func (nl *NodeList) checkConsensusReferences() error {
	for i := range nl.consensus.Routers {
		rs := &nl.consensus.Routers[i]
		n := nl.idx.get(rs.Identity)
		if n == nil || n.RS != rs {
			return fmt.Errorf("nodelist: consensus entry %s has no referencing node", rs.Identity)
		}
	}
	return nil
}

func (nl *NodeList) checkMicrodescAttachment() error {
	for _, n := range nl.idx.seq {
		if n.RS == nil {
			continue
		}
		if nl.mdCache.LookupByDigest256(n.RS.DescriptorDigest) == nil {
			continue
		}
		if n.MD == nil || n.MD.Digest != n.RS.DescriptorDigest {
			return fmt.Errorf("nodelist: node %s has a cached md for its rs digest but isn't attached to it", n.Identity)
		}
	}
	return nil
}
