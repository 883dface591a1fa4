// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

const (
	initialResubscribeDelay = 500 * time.Millisecond
	maxResubscribeDelay     = 30 * time.Second
)

// Subscription keeps one change stream per document open and forwards
// every pushed document to the sink. A dropped or refused stream is reopened
// with exponential backoff.
type Subscription struct {
	remote Subscriber
	sink   RemoteSink
	unitID string
	kinds  []models.DocumentKind

	initialDelay time.Duration
	maxDelay     time.Duration

	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSubscription(remote Subscriber, sink RemoteSink, unitID string, logger *logger.Logger, kinds ...models.DocumentKind) *Subscription {
	if len(kinds) == 0 {
		kinds = []models.DocumentKind{models.KindTasks, models.KindMemo}
	}
	return &Subscription{
		remote:       remote,
		sink:         sink,
		unitID:       unitID,
		kinds:        kinds,
		initialDelay: initialResubscribeDelay,
		maxDelay:     maxResubscribeDelay,
		logger:       logger,
	}
}

func (s *Subscription) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	subCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(len(s.kinds))
	s.mu.Unlock()

	for _, kind := range s.kinds {
		go s.pump(subCtx, kind)
	}
}

func (s *Subscription) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Subscription) pump(ctx context.Context, kind models.DocumentKind) {
	defer s.wg.Done()

	log := s.logger.ForDocument(s.unitID, kind)
	delay := s.initialDelay

	for {
		ch, err := s.remote.Subscribe(ctx, s.unitID, kind)
		if err == nil {
			delay = s.initialDelay
			log.Debug().Str("func", "Subscription.pump").Msg("subscribed to changes")
			s.forward(ctx, ch, log)
		} else if ctx.Err() == nil {
			log.Debug().
				Str("func", "Subscription.pump").
				Err(err).
				Dur("retry_in", delay).
				Msg("subscribe failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > s.maxDelay {
			delay = s.maxDelay
		}
	}
}

func (s *Subscription) forward(ctx context.Context, ch <-chan models.Document, log *logger.Logger) {
	for {
		var doc models.Document
		var ok bool
		select {
		case <-ctx.Done():
			return
		case doc, ok = <-ch:
			if !ok {
				return
			}
		}

		err := s.sink.HandleRemote(ctx, doc)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().
				Str("func", "Subscription.forward").
				Int64("version", doc.Version).
				Err(err).
				Msg("remote update not applied")
		}
	}
}
