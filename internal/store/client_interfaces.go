// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalCache is the client's offline copy of the shared documents together
// with their sync state and small client settings (such as the last
// conflict report).
type LocalCache interface {
	// LoadDocument returns the cached body and hash. A document that was
	// never cached yields [ErrDocumentNotFound].
	LoadDocument(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error)

	// LoadMeta returns the persisted sync state. A missing row yields a
	// clean zero state for kind.
	LoadMeta(ctx context.Context, unitID string, kind models.DocumentKind) (models.SyncMeta, error)

	// SaveState writes the document and its sync state in one transaction.
	SaveState(ctx context.Context, doc models.Document, meta models.SyncMeta) error

	// Forget removes the cached document and its sync state.
	Forget(ctx context.Context, unitID string, kind models.DocumentKind) error

	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}
