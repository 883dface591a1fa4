// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells withRetry what to do with a failed statement.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// transientCodes are the Postgres states after which a document write can
// simply be attempted again: lost connections, serialization failures and
// deadlocks between two pushes of the same unit, and a server still starting.
// Everything else, including unique violations on (unit_id, kind), is final.
var transientCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
}

// PostgresErrorClassifier classifies pgx driver errors by SQLSTATE.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}
	return ClassifyPgError(pgErr)
}

// ClassifyPgError reports whether the SQLSTATE of pgErr is transient.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	if _, ok := transientCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}

// postgresError returns the SQLSTATE wrapped in err, or "" for errors that
// did not come from the server.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if err != nil && errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
