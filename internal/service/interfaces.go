// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

// DocumentService is the authoritative store of shared documents.
type DocumentService interface {
	// Read returns the live document. Deleted and never written documents
	// yield ErrDocumentNotFound.
	Read(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error)

	// Write stores req.Body when req.BaseVersion matches the stored version
	// and returns the stored document with its new version.
	Write(ctx context.Context, unitID string, kind models.DocumentKind, req models.WriteRequest) (models.Document, error)

	// Delete marks the document deleted. A zero baseVersion deletes
	// unconditionally.
	Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error)

	// Subscribe returns the current document and a channel of every later
	// change. A missing document is reported as a deleted one with version 0.
	// The channel is closed when ctx is done.
	Subscribe(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, <-chan models.Document, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// logging or validating.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService
}
