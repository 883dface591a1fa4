// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncstate tracks, per synchronized document, whether local edits
// diverged from the last known server state and the fork point they diverged
// from.
//
// A Document is either Clean or Dirty. Entering Dirty captures a snapshot of
// the pre-edit value (the fork point); the snapshot stays immutable until the
// divergence episode ends with ClearDirty or SetBaseFromServer. Re-capturing
// it on every edit would make the three-way diff meaningless, which is why
// MarkDirty is a no-op while Dirty.
package syncstate

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/models"
)

// Snapshot is implemented by document values that can be deep-copied.
type Snapshot[T any] interface {
	Clone() T
}

// Document is the sync state of one document.
type Document[T Snapshot[T]] struct {
	kind models.DocumentKind

	mu             sync.RWMutex
	dirty          bool
	base           T
	hasBase        bool
	baseHash       string
	lastServerHash string
	serverVersion  int64
}

// NewDocument creates a Clean document state with no known base.
func NewDocument[T Snapshot[T]](kind models.DocumentKind) *Document[T] {
	return &Document[T]{kind: kind}
}

// Kind returns the document kind the state belongs to.
func (d *Document[T]) Kind() models.DocumentKind {
	return d.kind
}

// MarkDirty enters Dirty, capturing current as the fork point. Callers pass
// the value as it was before the edit. While already Dirty it does nothing
// and reports false.
func (d *Document[T]) MarkDirty(current T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dirty {
		return false
	}

	d.dirty = true
	d.base = current.Clone()
	d.hasBase = true
	d.baseHash = canonical.Hash(d.base)
	return true
}

// ClearDirty ends the divergence episode and discards the fork point.
func (d *Document[T]) ClearDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	d.dirty = false
	d.base = zero
	d.hasBase = false
	d.baseHash = ""
}

// SetBaseFromServer forces Clean with value as the last synchronized value.
// It is used when there is no local divergence and the remote value becomes
// the new truth.
func (d *Document[T]) SetBaseFromServer(value T, hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dirty = false
	d.base = value.Clone()
	d.hasBase = true
	d.baseHash = hash
	d.lastServerHash = hash
}

// SetServerHash records the hash of the latest remote value without touching
// the dirty flag or the fork point.
func (d *Document[T]) SetServerHash(hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastServerHash = hash
}

// SetServerVersion records the version of the latest remote value.
func (d *Document[T]) SetServerVersion(version int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if version > d.serverVersion {
		d.serverVersion = version
	}
}

// Dirty reports whether the document has unsynchronized local edits.
func (d *Document[T]) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// BaseHash returns the hash of the base value.
func (d *Document[T]) BaseHash() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.baseHash
}

// LastServerHash returns the hash of the most recently observed remote value.
func (d *Document[T]) LastServerHash() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastServerHash
}

// ServerVersion returns the highest remote version observed.
func (d *Document[T]) ServerVersion() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.serverVersion
}

// ForkPoint returns a copy of the fork point snapshot. It only exists while
// the document is Dirty.
func (d *Document[T]) ForkPoint() (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.dirty || !d.hasBase {
		var zero T
		return zero, false
	}
	return d.base.Clone(), true
}

// LastSynced returns the base value whatever the state: the fork point while
// Dirty, the last value adopted from the server while Clean.
func (d *Document[T]) LastSynced() (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.hasBase {
		var zero T
		return zero, false
	}
	return d.base.Clone(), true
}

// Reset returns the state to a fresh Clean document, e.g. on logout.
func (d *Document[T]) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	d.dirty = false
	d.base = zero
	d.hasBase = false
	d.baseHash = ""
	d.lastServerHash = ""
	d.serverVersion = 0
}

// Export returns the persisted form of the state.
func (d *Document[T]) Export() (models.SyncMeta, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	meta := models.SyncMeta{
		Kind:           d.kind,
		Dirty:          d.dirty,
		BaseHash:       d.baseHash,
		LastServerHash: d.lastServerHash,
		ServerVersion:  d.serverVersion,
	}
	if d.hasBase {
		body, err := json.Marshal(d.base)
		if err != nil {
			return models.SyncMeta{}, fmt.Errorf("encode %s base snapshot: %w", d.kind, err)
		}
		meta.BaseBody = body
	}
	return meta, nil
}

// Restore loads a previously exported state. A Dirty meta without a base body
// is rejected: it would leave a divergence episode without a fork point.
func (d *Document[T]) Restore(meta models.SyncMeta) error {
	if meta.Dirty && len(meta.BaseBody) == 0 {
		return fmt.Errorf("%w: %s is dirty without base snapshot", ErrInvalidMeta, d.kind)
	}

	var base T
	hasBase := len(meta.BaseBody) > 0
	if hasBase {
		if err := json.Unmarshal(meta.BaseBody, &base); err != nil {
			return fmt.Errorf("decode %s base snapshot: %w", d.kind, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.dirty = meta.Dirty
	d.base = base
	d.hasBase = hasBase
	d.baseHash = meta.BaseHash
	d.lastServerHash = meta.LastServerHash
	d.serverVersion = meta.ServerVersion
	return nil
}
