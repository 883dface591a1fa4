// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrItemWithoutID is returned when a tree item has no usable "id".
var ErrItemWithoutID = errors.New("tree item without id")

// DocumentKind names one of the two logical paths of a shared unit.
type DocumentKind string

const (
	// KindTasks is the task forest document.
	KindTasks DocumentKind = "tasks"
	// KindMemo is the free-text memo document.
	KindMemo DocumentKind = "memo"
)

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	return k == KindTasks || k == KindMemo
}

// Memo is the free-text memo shared by all members of a unit.
type Memo string

// Clone returns the memo itself; strings are immutable.
func (m Memo) Clone() Memo {
	return m
}

// Document is the remote envelope of one document of a shared unit.
type Document struct {
	// UnitID identifies the shared unit (one task list + one memo).
	UnitID string `json:"unit_id"`

	// Kind is the logical path inside the unit.
	Kind DocumentKind `json:"kind"`

	// Body is the JSON value of the document: a forest for KindTasks,
	// a JSON string for KindMemo.
	Body json.RawMessage `json:"body"`

	// Hash is the content hash of Body's canonical form.
	Hash string `json:"hash"`

	// Version is incremented by the server on every accepted write.
	Version int64 `json:"version"`

	// Deleted marks a document removed by a member.
	Deleted bool `json:"deleted"`

	// UpdatedAt is the server time of the last accepted write.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// WriteRequest is the body of a document PUT. BaseVersion is the version the
// client last observed; the server rejects the write with a conflict when
// the stored version moved on.
type WriteRequest struct {
	BaseVersion int64           `json:"base_version"`
	Body        json.RawMessage `json:"body"`
	Hash        string          `json:"hash"`
}

// DecodeForest decodes a forest body.
func DecodeForest(body json.RawMessage) (Forest, error) {
	var f Forest
	if len(body) == 0 {
		return Forest{}, nil
	}
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	if f == nil {
		f = Forest{}
	}
	return f, nil
}

// DecodeMemo decodes a memo body.
func DecodeMemo(body json.RawMessage) (Memo, error) {
	var m Memo
	if len(body) == 0 {
		return "", nil
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return "", err
	}
	return m, nil
}
