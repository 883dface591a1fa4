// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

// MemoryDSN selects the in-process document repository instead of
// Postgres. Documents do not survive a restart.
const MemoryDSN = "memory"

type documentKey struct {
	unitID string
	kind   models.DocumentKind
}

type memoryDocumentRepository struct {
	mu   sync.Mutex
	docs map[documentKey]models.Document
	now  func() time.Time
}

// NewMemoryDocumentRepository returns a DocumentRepository kept in memory
// with the same version rules as the Postgres one.
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{
		docs: make(map[documentKey]models.Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryDocumentRepository) Get(_ context.Context, unitID string, kind models.DocumentKind) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[documentKey{unitID, kind}]
	if !ok || doc.Deleted {
		return models.Document{}, ErrDocumentNotFound
	}
	return copyDocument(doc), nil
}

func (r *memoryDocumentRepository) Put(_ context.Context, doc models.Document, baseVersion int64) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := documentKey{doc.UnitID, doc.Kind}
	current, found := r.docs[key]
	if err := checkWriteVersion(current, found, baseVersion); err != nil {
		return models.Document{}, err
	}

	updatedAt := r.now()
	stored := copyDocument(doc)
	stored.Version = current.Version + 1
	stored.Deleted = false
	stored.UpdatedAt = &updatedAt

	r.docs[key] = stored
	return copyDocument(stored), nil
}

func (r *memoryDocumentRepository) Delete(_ context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := documentKey{unitID, kind}
	current, found := r.docs[key]
	if !found || current.Deleted {
		return models.Document{}, ErrDocumentNotFound
	}
	if baseVersion != 0 && baseVersion != current.Version {
		return models.Document{}, checkWriteVersion(current, true, baseVersion)
	}

	updatedAt := r.now()
	current.Version++
	current.Deleted = true
	current.UpdatedAt = &updatedAt

	r.docs[key] = current
	return copyDocument(current), nil
}

func copyDocument(doc models.Document) models.Document {
	doc.Body = slices.Clone(doc.Body)
	return doc
}
