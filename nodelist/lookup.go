// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"strings"

	"go.uber.org/zap"

	"github.com/torproject/nodelist/identity"
)

// GetByNickname looks up a node by bare nickname: a consensus-bound name
// first, then (failing that, unless the name is "Unnamed") a linear,
// case-insensitive scan. Multiple matches on the scan warn once (per
// matching node) and return the first. warnIfUnnamed controls whether a
// name the consensus marks "Unnamed" produces a warning on its way to
// failing the lookup.
func (nl *NodeList) GetByNickname(name string, warnIfUnnamed bool) *Node {
	if nl.Network != nil {
		if id, bound := nl.Network.GetRouterDigestByNickname(name); bound {
			if n := nl.idx.get(id); n != nil {
				return n
			}
		}
		if nl.Network.NicknameIsUnnamed(name) {
			if warnIfUnnamed {
				nl.log.Warn("nickname is marked Unnamed in consensus", zap.String("nickname", name))
			}
			return nil
		}
	}

	var first *Node
	matches := 0
	for _, n := range nl.idx.iter() {
		if strings.EqualFold(Nickname(n), name) {
			matches++
			if first == nil {
				first = n
			}
		}
	}
	if matches > 1 && first != nil && !first.nameLookupWarned {
		first.nameLookupWarned = true
		nl.log.Warn("multiple nodes share a nickname", zap.String("nickname", name), zap.Int("matches", matches))
	}
	return first
}

// GetByHexID parses token (one of the four forms: bare nickname, $hex,
// $hex=name, $hex~name) and looks up the corresponding node.
func (nl *NodeList) GetByHexID(token string) *Node {
	tok, err := identity.ParseToken(token)
	if err != nil {
		return nil
	}
	if !tok.HasFP {
		return nl.GetByNickname(tok.Nickname, false)
	}

	n := nl.idx.get(tok.Fingerprint)
	if n == nil {
		return nil
	}
	if tok.Nickname == "" {
		return n
	}
	if tok.RequireNamed {
		if nl.Network == nil {
			return nil
		}
		id, bound := nl.Network.GetRouterDigestByNickname(tok.Nickname)
		if !bound || id != tok.Fingerprint {
			return nil
		}
		return n
	}
	if strings.EqualFold(Nickname(n), tok.Nickname) {
		return n
	}
	return nil
}
