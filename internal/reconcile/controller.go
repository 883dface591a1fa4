// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package reconcile decides when local and remote copies of a document must
// be merged, and applies the outcome to the document's sync state.
//
// There are two entry points. OnReconnect runs on connectivity transitions
// and merges only when the client comes back online with pending edits.
// OnRemoteUpdate runs on every remote value observed while connected and
// uses content hashes to skip merges that cannot change anything.
package reconcile

import (
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/internal/syncstate"
	"github.com/MKhiriev/go-task-sync/models"
)

// Action is what the caller has to do with the local value after an
// evaluation.
type Action string

const (
	// ActionNone leaves everything as it is.
	ActionNone Action = "none"
	// ActionKeepLocal keeps the local value; the remote did not move since
	// the fork point.
	ActionKeepLocal Action = "keep-local"
	// ActionAdoptServer replaces the local value with Outcome.Value.
	ActionAdoptServer Action = "adopt-server"
	// ActionMerged replaces the local value with the merged Outcome.Value.
	// The merged value still has to be written back to the remote store.
	ActionMerged Action = "merged"
	// ActionRemoteDeleted reports that the remote document is gone. Nothing
	// was applied; the caller decides between restoring and dropping.
	ActionRemoteDeleted Action = "remote-deleted"
)

// Outcome is the result of one evaluation.
type Outcome[T any] struct {
	Action       Action
	Value        T
	HasConflicts bool
	Conflicts    []models.ConflictDetail
}

// MergeFunc is a three-way merge of one document type.
type MergeFunc[T any] func(base *T, local, server T) (models.MergeResult[T], error)

// Inputs of the reconnect gate.
type Inputs struct {
	WasConnected   bool
	IsNowConnected bool
	Dirty          bool
	HasBase        bool
	ServerPresent  bool
}

// ShouldMergeOnReconnect reports whether a reconnect must run a merge: only
// on the offline to online transition, with pending edits, a known fork
// point and a remote value that still exists.
func ShouldMergeOnReconnect(in Inputs) bool {
	return !in.WasConnected && in.IsNowConnected && in.Dirty && in.HasBase && in.ServerPresent
}

// Controller evaluates one document. All controllers of one client share a
// single guard so at most one merge is applied at a time.
type Controller[T syncstate.Snapshot[T]] struct {
	doc   *syncstate.Document[T]
	guard *syncstate.Guard
	merge MergeFunc[T]
}

// NewController binds a controller to a document state, the shared guard and
// the merge for the document type.
func NewController[T syncstate.Snapshot[T]](doc *syncstate.Document[T], guard *syncstate.Guard, merge MergeFunc[T]) *Controller[T] {
	return &Controller[T]{doc: doc, guard: guard, merge: merge}
}

// Document returns the sync state the controller drives.
func (c *Controller[T]) Document() *syncstate.Document[T] {
	return c.doc
}

// OnReconnect evaluates a connectivity transition. server is nil when the
// remote document does not exist.
func (c *Controller[T]) OnReconnect(wasConnected, isNowConnected bool, local T, server *T) (Outcome[T], error) {
	if wasConnected || !isNowConnected {
		return Outcome[T]{Action: ActionNone}, nil
	}

	if !c.guard.TryBegin() {
		return Outcome[T]{}, ErrSyncInProgress
	}
	defer c.guard.End()

	fork, hasBase := c.doc.ForkPoint()
	in := Inputs{
		WasConnected:   wasConnected,
		IsNowConnected: isNowConnected,
		Dirty:          c.doc.Dirty(),
		HasBase:        hasBase,
		ServerPresent:  server != nil,
	}

	if in.Dirty && !in.ServerPresent {
		return Outcome[T]{Action: ActionRemoteDeleted}, nil
	}
	if !ShouldMergeOnReconnect(in) {
		return Outcome[T]{Action: ActionNone}, nil
	}

	c.doc.SetServerHash(canonical.Hash(*server))
	return c.apply(&fork, local, *server)
}

// OnRemoteUpdate evaluates a remote value observed while connected. server is
// nil when the remote document was deleted.
func (c *Controller[T]) OnRemoteUpdate(local T, server *T) (Outcome[T], error) {
	if !c.guard.TryBegin() {
		return Outcome[T]{}, ErrSyncInProgress
	}
	defer c.guard.End()

	if server == nil {
		return Outcome[T]{Action: ActionRemoteDeleted}, nil
	}

	serverHash := canonical.Hash(*server)
	c.doc.SetServerHash(serverHash)

	if !c.doc.Dirty() {
		c.doc.SetBaseFromServer(*server, serverHash)
		return Outcome[T]{Action: ActionAdoptServer, Value: (*server).Clone()}, nil
	}

	if serverHash == c.doc.BaseHash() {
		return Outcome[T]{Action: ActionKeepLocal, Value: local}, nil
	}

	if serverHash == canonical.Hash(local) {
		c.doc.SetBaseFromServer(*server, serverHash)
		return Outcome[T]{Action: ActionAdoptServer, Value: (*server).Clone()}, nil
	}

	fork, ok := c.doc.ForkPoint()
	if !ok {
		c.doc.SetBaseFromServer(*server, serverHash)
		return Outcome[T]{Action: ActionAdoptServer, Value: (*server).Clone()}, nil
	}
	return c.apply(&fork, local, *server)
}

// apply runs the merge and makes its result the new synchronized base.
func (c *Controller[T]) apply(fork *T, local, server T) (Outcome[T], error) {
	result, err := c.merge(fork, local, server)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("merge %s: %w", c.doc.Kind(), err)
	}

	c.doc.ClearDirty()
	c.doc.SetBaseFromServer(result.Merged, canonical.Hash(result.Merged))

	return Outcome[T]{
		Action:       ActionMerged,
		Value:        result.Merged,
		HasConflicts: result.HasConflicts,
		Conflicts:    result.ConflictDetails,
	}, nil
}
