// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the message strings the server writes into response
// bodies. Keeping them in one place keeps the wording of the API consistent
// between handlers and middleware.
package app

const (
	// MsgStatusOK is the status reported by GET /api/ping.
	MsgStatusOK = "ok"

	// MsgInternalServerError replaces the text of any unexpected failure.
	MsgInternalServerError = "internal server error"

	// MsgInvalidJSON is returned when a write request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgInvalidBaseVersion is returned when the base_version query parameter
	// of a delete is missing or not an integer.
	MsgInvalidBaseVersion = "invalid base_version query parameter"

	// MsgIntegrityMismatch is returned when the hash sent with a document
	// does not match its body.
	MsgIntegrityMismatch = "integrity check failed"

	MsgRouteNotFound    = "route not found"
	MsgMethodNotAllowed = "method not allowed"
)
