// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ids re-exports the 32-byte digest type used for microdescriptor
// and descriptor digests. The 20-byte RSA identity fingerprint has its
// own dedicated type in the identity package, since ids.ID is fixed at
// 32 bytes and can't represent it.
package ids

import "github.com/luxfi/ids"

// Digest256 is a 32-byte digest, as produced by a microdescriptor's "m"
// line or a consensus entry's descriptor digest.
type Digest256 = ids.ID

// EmptyDigest256 is the zero Digest256, never a valid descriptor digest.
var EmptyDigest256 = ids.Empty
