// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"
)

const (
	maxRetries        = 3
	initialRetryDelay = 50 * time.Millisecond
)

// withRetry runs op until it succeeds, fails with a non-retryable error or
// maxRetries attempts are used. Delays double after each attempt.
func (db *DB) withRetry(ctx context.Context, name string, op func() error) error {
	var err error
	delay := initialRetryDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		db.logger.Warn().
			Err(err).
			Str("func", name).
			Str("pg_code", postgresError(err)).
			Int("attempt", attempt).
			Msg("retryable database error")

		if attempt == maxRetries {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return err
}
