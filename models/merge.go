// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Resolution describes how a conflicting change was settled.
type Resolution string

const (
	// ResolutionServerWins adopts the remote value of a field both sides changed.
	ResolutionServerWins Resolution = "server-wins"

	// ResolutionKeptEdited keeps an item that one side deleted while the other
	// side edited it.
	ResolutionKeptEdited Resolution = "kept-edited"

	// ResolutionMovedToTop places an item at the top level because the
	// combined moves of both sides left it without a reachable parent.
	ResolutionMovedToTop Resolution = "moved-to-top"
)

// Pseudo field names used for structural conflicts.
const (
	FieldPresence = "_presence"
	FieldParent   = "_parent"
	FieldMemo     = "memo"
)

// ConflictDetail describes one conflicting field of one item.
type ConflictDetail struct {
	ItemID      string     `json:"item_id"`
	Field       string     `json:"field"`
	LocalValue  any        `json:"local_value"`
	ServerValue any        `json:"server_value"`
	Resolution  Resolution `json:"resolution"`

	// LocalPatch is a patch from the fork point to the discarded local value,
	// set for memo conflicts so the local text can be recovered.
	LocalPatch string `json:"local_patch,omitempty"`
}

// MergeResult is the output of a three-way merge.
type MergeResult[T any] struct {
	Merged          T                `json:"merged"`
	HasConflicts    bool             `json:"has_conflicts"`
	ConflictDetails []ConflictDetail `json:"conflict_details"`
}

// SyncMeta is the persisted form of a document's sync state.
type SyncMeta struct {
	Kind           DocumentKind `json:"kind"`
	Dirty          bool         `json:"dirty"`
	BaseBody       []byte       `json:"base_body,omitempty"`
	BaseHash       string       `json:"base_hash"`
	LastServerHash string       `json:"last_server_hash"`
	ServerVersion  int64        `json:"server_version"`
}

// ConflictReport is one reconciliation that had to discard a local change,
// kept by the client so the user can review it later.
type ConflictReport struct {
	Kind    DocumentKind     `json:"kind"`
	At      time.Time        `json:"at"`
	Action  string           `json:"action"`
	Details []ConflictDetail `json:"details"`
}
