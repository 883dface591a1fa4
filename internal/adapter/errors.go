// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Sentinel errors mapped from HTTP responses by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("document not found")
	ErrVersionConflict     = errors.New("version conflict")
	ErrIntegrity           = errors.New("body hash mismatch")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
)

// ErrUnreachable wraps transport failures: the request never got an HTTP
// response. The connectivity monitor treats it as "offline".
var ErrUnreachable = errors.New("server unreachable")
