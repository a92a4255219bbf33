// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package nodelist

import (
	"time"

	"github.com/torproject/nodelist/directory"
)

// digestOf builds a deterministic, distinguishable Digest256 for tests.
func digestOf(b byte) directory.Digest256 {
	var d directory.Digest256
	d[0] = b
	return d
}

// fixedTime returns a fixed, non-zero timestamp; tests must never call
// time.Now() so results stay reproducible.
func fixedTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}
