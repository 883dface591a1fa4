// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
)

// PeriodicSync retries pushing pending edits every interval, covering
// pushes that failed while the server was briefly unavailable.
type PeriodicSync struct {
	*tickerJob

	pusher PendingPusher
	logger *logger.Logger
}

func NewPeriodicSync(pusher PendingPusher, interval time.Duration, logger *logger.Logger) *PeriodicSync {
	s := &PeriodicSync{pusher: pusher, logger: logger}
	s.tickerJob = newTickerJob(interval, false, s.push)
	return s
}

func (s *PeriodicSync) push(ctx context.Context) {
	if err := s.pusher.PushPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().
			Str("func", "PeriodicSync.push").
			Err(err).
			Msg("pending push failed")
	}
}
