// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/service"
)

var errInTrash = errors.New("restore the item from the trash first")

// humanizeError turns the errors a user can cause or fix into short hints.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapter.ErrUnreachable):
		return "server unreachable, changes are kept locally"
	case errors.Is(err, service.ErrRemoteDeleted):
		return "deleted on the server; run \"tasksync restore\" or \"tasksync sync --accept-delete\""
	case errors.Is(err, service.ErrEmptyValue):
		return "text must not be empty"
	case errors.Is(err, service.ErrTrashItem):
		return "not allowed on the trash bin"
	default:
		return err.Error()
	}
}
