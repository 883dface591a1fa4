// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository] over the "documents" table.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that database interactions carry the request's
// trace id.
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *documentRepository) Get(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error) {
	log := logger.FromContext(ctx)

	var doc models.Document
	var found bool
	err := r.withRetry(ctx, "documentRepository.Get", func() error {
		var err error
		doc, found, err = r.selectDocument(ctx, r.DB.DB, unitID, kind, false)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Get").
			Str("unit_id", unitID).
			Str("kind", string(kind)).
			Msg("failed to read document")
		return models.Document{}, err
	}

	if !found || doc.Deleted {
		return models.Document{}, ErrDocumentNotFound
	}

	return doc, nil
}

// Put stores doc under optimistic locking.
//
// A missing row accepts only baseVersion 0. A deleted row accepts 0 or its
// last version, so a member holding offline edits can restore it. A live row
// accepts only its current version.
func (r *documentRepository) Put(ctx context.Context, doc models.Document, baseVersion int64) (models.Document, error) {
	log := logger.FromContext(ctx)

	var stored models.Document
	err := r.withRetry(ctx, "documentRepository.Put", func() error {
		var err error
		stored, err = r.put(ctx, doc, baseVersion)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Put").
			Str("unit_id", doc.UnitID).
			Str("kind", string(doc.Kind)).
			Int64("base_version", baseVersion).
			Msg("failed to store document")
		return models.Document{}, err
	}

	log.Info().
		Str("func", "documentRepository.Put").
		Str("unit_id", stored.UnitID).
		Str("kind", string(stored.Kind)).
		Int64("version", stored.Version).
		Msg("document stored")

	return stored, nil
}

func (r *documentRepository) put(ctx context.Context, doc models.Document, baseVersion int64) (models.Document, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	current, found, err := r.selectDocument(ctx, tx, doc.UnitID, doc.Kind, true)
	if err != nil {
		return models.Document{}, err
	}

	if err = checkWriteVersion(current, found, baseVersion); err != nil {
		return models.Document{}, err
	}

	next := current.Version + 1

	query, args, err := buildUpsertDocumentQuery(doc, next)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updatedAt time.Time
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Document{}, ErrDocumentNotSaved
		}
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	stored := doc
	stored.Version = next
	stored.Deleted = false
	stored.UpdatedAt = &updatedAt
	return stored, nil
}

// Delete flags the document deleted. baseVersion 0 deletes unconditionally.
func (r *documentRepository) Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error) {
	log := logger.FromContext(ctx)

	var deleted models.Document
	err := r.withRetry(ctx, "documentRepository.Delete", func() error {
		var err error
		deleted, err = r.markDeleted(ctx, unitID, kind, baseVersion)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.Delete").
			Str("unit_id", unitID).
			Str("kind", string(kind)).
			Int64("base_version", baseVersion).
			Msg("failed to delete document")
		return models.Document{}, err
	}

	log.Info().
		Str("func", "documentRepository.Delete").
		Str("unit_id", unitID).
		Str("kind", string(kind)).
		Int64("version", deleted.Version).
		Msg("document deleted")

	return deleted, nil
}

func (r *documentRepository) markDeleted(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	current, found, err := r.selectDocument(ctx, tx, unitID, kind, true)
	if err != nil {
		return models.Document{}, err
	}
	if !found || current.Deleted {
		return models.Document{}, ErrDocumentNotFound
	}
	if baseVersion != 0 && baseVersion != current.Version {
		return models.Document{}, fmt.Errorf("%w: stored %d, base %d", ErrVersionConflict, current.Version, baseVersion)
	}

	next := current.Version + 1

	query, args, err := buildMarkDeletedQuery(unitID, kind, next)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var updatedAt time.Time
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	current.Version = next
	current.Deleted = true
	current.UpdatedAt = &updatedAt
	return current, nil
}

func (r *documentRepository) selectDocument(ctx context.Context, q queryRower, unitID string, kind models.DocumentKind, forUpdate bool) (models.Document, bool, error) {
	query, args, err := buildSelectDocumentQuery(unitID, kind, forUpdate)
	if err != nil {
		return models.Document{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		doc       models.Document
		kindText  string
		body      []byte
		updatedAt time.Time
	)
	err = q.QueryRowContext(ctx, query, args...).Scan(
		&doc.UnitID,
		&kindText,
		&body,
		&doc.Hash,
		&doc.Version,
		&doc.Deleted,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, false, nil
	}
	if err != nil {
		return models.Document{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	doc.Kind = models.DocumentKind(kindText)
	doc.Body = body
	doc.UpdatedAt = &updatedAt
	return doc, true, nil
}

// checkWriteVersion applies the optimistic locking rule of a write: a new
// document needs base 0, a deleted one base 0 or its last version, a live
// one exactly its version.
func checkWriteVersion(current models.Document, found bool, baseVersion int64) error {
	switch {
	case !found:
		if baseVersion != 0 {
			return fmt.Errorf("%w: document does not exist, base version %d", ErrVersionConflict, baseVersion)
		}
	case current.Deleted:
		if baseVersion != 0 && baseVersion != current.Version {
			return fmt.Errorf("%w: stored %d, base %d", ErrVersionConflict, current.Version, baseVersion)
		}
	default:
		if baseVersion != current.Version {
			return fmt.Errorf("%w: stored %d, base %d", ErrVersionConflict, current.Version, baseVersion)
		}
	}
	return nil
}
