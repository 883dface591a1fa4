// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL wraps an existing *sql.DB for tests.
func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
		dialect:            dialectPostgres,
	}
}

func newTestRepo(t *testing.T) (DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewDocumentRepository(newDBFromSQL(db), logger.Nop()), mock
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func selectSQL(forUpdate bool) string {
	q, _, _ := buildSelectDocumentQuery("u1", models.KindTasks, forUpdate)
	return regexp.QuoteMeta(q)
}

func upsertSQL() string {
	q, _, _ := buildUpsertDocumentQuery(models.Document{}, 0)
	return regexp.QuoteMeta(q)
}

func markDeletedSQL() string {
	q, _, _ := buildMarkDeletedQuery("u1", models.KindTasks, 0)
	return regexp.QuoteMeta(q)
}

var testBody = json.RawMessage(`[{"id":"trash","value":"Trash"}]`)

func documentRow(version int64, deleted bool, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(documentColumns).
		AddRow("u1", "tasks", []byte(testBody), "h1", version, deleted, at)
}

func TestDocumentRepository_Get(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(selectSQL(false)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(3, false, now))

		doc, err := repo.Get(testContext(), "u1", models.KindTasks)

		require.NoError(t, err)
		assert.Equal(t, "u1", doc.UnitID)
		assert.Equal(t, models.KindTasks, doc.Kind)
		assert.JSONEq(t, string(testBody), string(doc.Body))
		assert.Equal(t, "h1", doc.Hash)
		assert.Equal(t, int64(3), doc.Version)
		require.NotNil(t, doc.UpdatedAt)
		assert.True(t, now.Equal(*doc.UpdatedAt))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(selectSQL(false)).
			WithArgs("u1", "tasks").
			WillReturnRows(sqlmock.NewRows(documentColumns))

		_, err := repo.Get(testContext(), "u1", models.KindTasks)

		require.ErrorIs(t, err, ErrDocumentNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(selectSQL(false)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(4, true, now))

		_, err := repo.Get(testContext(), "u1", models.KindTasks)

		require.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectQuery(selectSQL(false)).
			WithArgs("u1", "tasks").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Get(testContext(), "u1", models.KindTasks)

		require.ErrorIs(t, err, ErrScanningRow)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentRepository_Put(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := models.Document{UnitID: "u1", Kind: models.KindTasks, Body: testBody, Hash: "h2"}

	t.Run("first write", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(sqlmock.NewRows(documentColumns))
		mock.ExpectQuery(upsertSQL()).
			WithArgs("u1", "tasks", string(testBody), "h2", int64(1), false).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit()

		stored, err := repo.Put(testContext(), doc, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Version)
		assert.False(t, stored.Deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching base version", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(3, false, now))
		mock.ExpectQuery(upsertSQL()).
			WithArgs("u1", "tasks", string(testBody), "h2", int64(4), false).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit()

		stored, err := repo.Put(testContext(), doc, 3)

		require.NoError(t, err)
		assert.Equal(t, int64(4), stored.Version)
		assert.Equal(t, "h2", stored.Hash)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale base version", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(5, false, now))
		mock.ExpectRollback()

		_, err := repo.Put(testContext(), doc, 3)

		require.ErrorIs(t, err, ErrVersionConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("base version for missing document", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(sqlmock.NewRows(documentColumns))
		mock.ExpectRollback()

		_, err := repo.Put(testContext(), doc, 2)

		require.ErrorIs(t, err, ErrVersionConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restore deleted document", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(6, true, now))
		mock.ExpectQuery(upsertSQL()).
			WithArgs("u1", "tasks", string(testBody), "h2", int64(7), false).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit()

		stored, err := repo.Put(testContext(), doc, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(7), stored.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries serialization failure", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin().WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(1, false, now))
		mock.ExpectQuery(upsertSQL()).
			WithArgs("u1", "tasks", string(testBody), "h2", int64(2), false).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit()

		stored, err := repo.Put(testContext(), doc, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not retry constraint violation", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(sqlmock.NewRows(documentColumns))
		mock.ExpectQuery(upsertSQL()).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
		mock.ExpectRollback()

		_, err := repo.Put(testContext(), doc, 0)

		require.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(sqlmock.NewRows(documentColumns))
		mock.ExpectQuery(upsertSQL()).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		_, err := repo.Put(testContext(), doc, 0)

		require.ErrorIs(t, err, ErrCommitingTransaction)
	})
}

func TestDocumentRepository_Delete(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("matching version", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(2, false, now))
		mock.ExpectQuery(markDeletedSQL()).
			WithArgs(true, int64(3), "u1", "tasks").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit()

		deleted, err := repo.Delete(testContext(), "u1", models.KindTasks, 2)

		require.NoError(t, err)
		assert.True(t, deleted.Deleted)
		assert.Equal(t, int64(3), deleted.Version)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unconditional", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(9, false, now))
		mock.ExpectQuery(markDeletedSQL()).
			WithArgs(true, int64(10), "u1", "tasks").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectCommit()

		deleted, err := repo.Delete(testContext(), "u1", models.KindTasks, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(10), deleted.Version)
	})

	t.Run("already deleted", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(2, true, now))
		mock.ExpectRollback()

		_, err := repo.Delete(testContext(), "u1", models.KindTasks, 2)

		require.ErrorIs(t, err, ErrDocumentNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(selectSQL(true)).
			WithArgs("u1", "tasks").
			WillReturnRows(documentRow(4, false, now))
		mock.ExpectRollback()

		_, err := repo.Delete(testContext(), "u1", models.KindTasks, 2)

		require.ErrorIs(t, err, ErrVersionConflict)
	})
}
