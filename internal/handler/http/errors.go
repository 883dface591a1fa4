// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"

	"github.com/MKhiriev/go-task-sync/internal/app"
)

var (
	ErrInvalidJSON        = errors.New(app.MsgInvalidJSON)
	ErrInvalidBaseVersion = errors.New(app.MsgInvalidBaseVersion)
	ErrRouteNotFound      = errors.New(app.MsgRouteNotFound)
	ErrMethodNotAllowed   = errors.New(app.MsgMethodNotAllowed)
	ErrIntegrityMismatch  = errors.New(app.MsgIntegrityMismatch)
)
