// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a failed database operation is worth
// another attempt.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DocumentRepository is the server-side persistence of shared documents.
// Writes use optimistic locking on [models.Document.Version].
type DocumentRepository interface {
	// Get returns the live document of a unit. Deleted or missing documents
	// yield [ErrDocumentNotFound].
	Get(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error)

	// Put stores doc when the stored version equals baseVersion (0 for a
	// document that does not exist yet or was deleted) and returns the
	// stored document with its new version.
	Put(ctx context.Context, doc models.Document, baseVersion int64) (models.Document, error)

	// Delete marks the document deleted under the same version check as Put.
	Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error)
}
