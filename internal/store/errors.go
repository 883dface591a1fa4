// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Repository outcomes. The service layer matches them with errors.Is.
var (
	// ErrDocumentNotFound: no row for (unit, kind), or the row is a tombstone.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrVersionConflict: the writer's base version is not the stored one,
	// so another device wrote the document first.
	ErrVersionConflict = errors.New("document version conflict")

	// ErrDocumentNotSaved: the upsert ran but touched no row.
	ErrDocumentNotSaved = errors.New("document not saved")

	// ErrSettingNotFound: the client cache has no value under the key.
	ErrSettingNotFound = errors.New("setting not found")
)

// SQL failures, wrapped together with the driver error.
var (
	ErrBuildingSQLQuery     = errors.New("build sql query")
	ErrExecutingQuery       = errors.New("run sql query")
	ErrBeginningTransaction = errors.New("begin transaction")
	ErrCommitingTransaction = errors.New("commit transaction")
	ErrExecutingStatement   = errors.New("run sql statement")
	ErrScanningRow          = errors.New("scan row")
)
