// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-sync/models"
)

const documentsTable = "documents"

// psql builds Postgres statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var documentColumns = []string{
	"unit_id",
	"kind",
	"body",
	"hash",
	"version",
	"deleted",
	"updated_at",
}

const upsertDocumentSuffix = `ON CONFLICT (unit_id, kind) DO UPDATE SET
		body = EXCLUDED.body,
		hash = EXCLUDED.hash,
		version = EXCLUDED.version,
		deleted = EXCLUDED.deleted,
		updated_at = EXCLUDED.updated_at
	RETURNING updated_at`

// buildSelectDocumentQuery selects one document row. forUpdate locks the row
// for the rest of the enclosing transaction.
func buildSelectDocumentQuery(unitID string, kind models.DocumentKind, forUpdate bool) (string, []any, error) {
	q := psql.Select(documentColumns...).
		From(documentsTable).
		Where(sq.Eq{"unit_id": unitID}).
		Where(sq.Eq{"kind": string(kind)})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q.ToSql()
}

// buildUpsertDocumentQuery inserts or replaces the document with the given
// version and clears its deleted flag.
func buildUpsertDocumentQuery(doc models.Document, version int64) (string, []any, error) {
	return psql.Insert(documentsTable).
		Columns(documentColumns...).
		Values(
			doc.UnitID,
			string(doc.Kind),
			string(doc.Body),
			doc.Hash,
			version,
			false,
			sq.Expr("NOW()"),
		).
		Suffix(upsertDocumentSuffix).
		ToSql()
}

// buildMarkDeletedQuery flags a document deleted and bumps its version.
func buildMarkDeletedQuery(unitID string, kind models.DocumentKind, version int64) (string, []any, error) {
	return psql.Update(documentsTable).
		Set("deleted", true).
		Set("version", version).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"unit_id": unitID}).
		Where(sq.Eq{"kind": string(kind)}).
		Suffix("RETURNING updated_at").
		ToSql()
}
