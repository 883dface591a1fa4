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

// localCache is the SQLite-backed [LocalCache].
type localCache struct {
	*DB
	logger *logger.Logger
}

// NewLocalCache constructs a [LocalCache] on an SQLite connection.
func NewLocalCache(db *DB, logger *logger.Logger) LocalCache {
	return &localCache{
		DB:     db,
		logger: logger,
	}
}

func (c *localCache) LoadDocument(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error) {
	var (
		body      string
		updatedAt time.Time
	)
	doc := models.Document{UnitID: unitID, Kind: kind}

	err := c.DB.QueryRowContext(ctx, getCachedDocument, unitID, string(kind)).Scan(&body, &doc.Hash, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		c.logger.Err(err).
			Str("func", "localCache.LoadDocument").
			Str("unit_id", unitID).
			Str("kind", string(kind)).
			Msg("failed to read cached document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	doc.Body = []byte(body)
	doc.UpdatedAt = &updatedAt
	return doc, nil
}

func (c *localCache) LoadMeta(ctx context.Context, unitID string, kind models.DocumentKind) (models.SyncMeta, error) {
	var (
		dirty    int
		baseBody sql.NullString
	)
	meta := models.SyncMeta{Kind: kind}

	err := c.DB.QueryRowContext(ctx, getSyncMeta, unitID, string(kind)).Scan(
		&dirty,
		&baseBody,
		&meta.BaseHash,
		&meta.LastServerHash,
		&meta.ServerVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, nil
	}
	if err != nil {
		c.logger.Err(err).
			Str("func", "localCache.LoadMeta").
			Str("unit_id", unitID).
			Str("kind", string(kind)).
			Msg("failed to read sync meta")
		return models.SyncMeta{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	meta.Dirty = dirty != 0
	if baseBody.Valid {
		meta.BaseBody = []byte(baseBody.String)
	}
	return meta, nil
}

func (c *localCache) SaveState(ctx context.Context, doc models.Document, meta models.SyncMeta) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, saveCachedDocument, doc.UnitID, string(doc.Kind), string(doc.Body), doc.Hash); err != nil {
		c.logger.Err(err).
			Str("func", "localCache.SaveState").
			Str("unit_id", doc.UnitID).
			Str("kind", string(doc.Kind)).
			Msg("failed to save cached document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var baseBody any
	if meta.BaseBody != nil {
		baseBody = string(meta.BaseBody)
	}
	dirty := 0
	if meta.Dirty {
		dirty = 1
	}

	if _, err = tx.ExecContext(ctx, saveSyncMeta,
		doc.UnitID,
		string(doc.Kind),
		dirty,
		baseBody,
		meta.BaseHash,
		meta.LastServerHash,
		meta.ServerVersion,
	); err != nil {
		c.logger.Err(err).
			Str("func", "localCache.SaveState").
			Str("unit_id", doc.UnitID).
			Str("kind", string(doc.Kind)).
			Msg("failed to save sync meta")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	c.logger.Debug().
		Str("func", "localCache.SaveState").
		Str("unit_id", doc.UnitID).
		Str("kind", string(doc.Kind)).
		Bool("dirty", meta.Dirty).
		Str("hash", doc.Hash).
		Msg("state saved")

	return nil
}

func (c *localCache) Forget(ctx context.Context, unitID string, kind models.DocumentKind) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, query := range []string{deleteCachedDocument, deleteSyncMeta} {
		if _, err = tx.ExecContext(ctx, query, unitID, string(kind)); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (c *localCache) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := c.DB.QueryRowContext(ctx, getSetting, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return value, nil
}

func (c *localCache) PutSetting(ctx context.Context, key, value string) error {
	if _, err := c.DB.ExecContext(ctx, putSetting, key, value); err != nil {
		c.logger.Err(err).Str("func", "localCache.PutSetting").Str("key", key).Msg("failed to save setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (c *localCache) DeleteSetting(ctx context.Context, key string) error {
	if _, err := c.DB.ExecContext(ctx, deleteSetting, key); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
