// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/migrations"
)

// dialect selects the migration set applied by [DB.Migrate].
type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

// DB wraps a database/sql connection pool with the error classifier used for
// retry decisions and the logger of the storage layer.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	dialect            dialect
}

// Migrate applies the schema migrations matching the connection's backend.
func (db *DB) Migrate() error {
	if db.dialect == dialectSQLite {
		return migrations.MigrateClient(db.DB)
	}
	return migrations.MigrateServer(db.DB)
}
