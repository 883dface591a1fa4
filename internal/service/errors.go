// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrInvalidDataProvided   = errors.New("invalid data provided")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrDocumentNotFound = errors.New("document not found")
	ErrVersionConflict  = errors.New("document version conflict")

	ErrSubscriptionClosed = errors.New("subscription closed")
)

// Client side.
var (
	// ErrRemoteDeleted is returned when the server copy of a document was
	// deleted while local edits were pending. The local value is kept until
	// the user restores it or accepts the deletion.
	ErrRemoteDeleted = errors.New("document was deleted on the server while local edits were pending")

	ErrPushRetriesExhausted = errors.New("push gave up after repeated version conflicts")
	ErrCoordinatorClosed    = errors.New("coordinator is closed")
	ErrNotOpened            = errors.New("coordinator is not opened")

	ErrItemNotFound    = errors.New("item not found")
	ErrTrashItem       = errors.New("operation is not allowed on the trash bin")
	ErrReservedKey     = errors.New("attribute key is reserved")
	ErrMoveIntoItself  = errors.New("item cannot be moved under itself")
	ErrEmptyValue      = errors.New("value is empty")
	ErrUnknownDocument = errors.New("unknown document kind")
)
