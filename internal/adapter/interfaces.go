// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to the remote document
// store.
//
// The primary abstraction is [RemoteStore], which decouples the sync
// coordinator from the underlying protocol. Reads and writes go over REST
// (go-resty); change notifications arrive over a websocket.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrVersionConflict] for 409, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is the authoritative document store as seen by one client.
type RemoteStore interface {
	// Ping checks that the server answers. Any error means offline.
	Ping(ctx context.Context) error

	// Read fetches the current document. A missing or deleted document
	// yields [ErrNotFound].
	Read(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error)

	// Write replaces the document when req.BaseVersion still matches the
	// stored version, otherwise it fails with [ErrVersionConflict].
	Write(ctx context.Context, unitID string, kind models.DocumentKind, req models.WriteRequest) (models.Document, error)

	// Delete marks the document deleted. baseVersion 0 deletes
	// unconditionally.
	Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error)

	// Subscribe streams the current document and then every change to it.
	// A deleted or missing document arrives with Deleted set. The channel
	// is closed when ctx ends or the connection drops.
	Subscribe(ctx context.Context, unitID string, kind models.DocumentKind) (<-chan models.Document, error)
}
