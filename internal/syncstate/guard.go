// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncstate

import "sync/atomic"

// Guard is the isSyncing flag shared by all documents of one coordinator.
// At most one merge application is in flight at any time.
type Guard struct {
	syncing atomic.Bool
}

// TryBegin marks a sync as started. It returns false when another sync is
// already in flight; the caller must then drop or requeue its trigger.
func (g *Guard) TryBegin() bool {
	return g.syncing.CompareAndSwap(false, true)
}

// End marks the running sync as finished.
func (g *Guard) End() {
	g.syncing.Store(false)
}

// Syncing reports whether a sync is in flight.
func (g *Guard) Syncing() bool {
	return g.syncing.Load()
}
