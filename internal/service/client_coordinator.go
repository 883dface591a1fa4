// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/merge"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/syncstate"
	"github.com/MKhiriev/go-task-sync/models"
)

const defaultPushRetries = 3

type eventKind string

const (
	eventLocalEdit    eventKind = "local-edit"
	eventRemoteUpdate eventKind = "remote-update"
	eventConnectivity eventKind = "connectivity"
	eventCommand      eventKind = "command"
)

type event struct {
	kind   eventKind
	ctx    context.Context
	handle func(ctx context.Context) error
	result chan error
}

// Coordinator owns the client copies of the task forest and the memo. Local
// edits, remote pushes and connectivity changes are handled one at a time by
// a single loop goroutine, so the sync state of both documents is only ever
// touched by that goroutine.
type Coordinator struct {
	unitID string
	remote adapter.RemoteStore
	cache  store.LocalCache
	logger *logger.Logger

	guard *syncstate.Guard
	tasks *syncedDoc[models.Forest]
	memo  *syncedDoc[models.Memo]

	connected atomic.Bool
	events    chan event

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewCoordinator creates a closed coordinator for one shared unit. Open
// must be called before any other method.
func NewCoordinator(unitID string, pushRetries int, remote adapter.RemoteStore, cache store.LocalCache, logger *logger.Logger) *Coordinator {
	if pushRetries <= 0 {
		pushRetries = defaultPushRetries
	}

	env := &docEnv{
		unitID:      unitID,
		remote:      remote,
		cache:       cache,
		pushRetries: pushRetries,
		logger:      logger,
	}
	guard := &syncstate.Guard{}

	return &Coordinator{
		unitID: unitID,
		remote: remote,
		cache:  cache,
		logger: logger,
		guard:  guard,
		tasks:  newSyncedDoc[models.Forest](env, models.KindTasks, guard, merge.Forest, models.DecodeForest, emptyForest),
		memo:   newSyncedDoc[models.Memo](env, models.KindMemo, guard, mergeMemo, models.DecodeMemo, emptyMemo),
		events: make(chan event),
	}
}

func emptyForest() models.Forest {
	return models.Forest{}.EnsureTrash()
}

func emptyMemo() models.Memo {
	return ""
}

func mergeMemo(base *models.Memo, local, server models.Memo) (models.MergeResult[models.Memo], error) {
	return merge.Memo(base, local, server), nil
}

func (c *Coordinator) documents() []syncedDocument {
	return []syncedDocument{c.tasks, c.memo}
}

func (c *Coordinator) document(kind models.DocumentKind) (syncedDocument, error) {
	switch kind {
	case models.KindTasks:
		return c.tasks, nil
	case models.KindMemo:
		return c.memo, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, kind)
	}
}

// Open restores both documents from the local cache and starts the event
// loop. The loop runs until Close is called or ctx is done.
func (c *Coordinator) Open(ctx context.Context) error {
	c.Close()

	for _, d := range c.documents() {
		if err := d.load(ctx); err != nil {
			return err
		}
	}

	c.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.wg.Add(1)
	c.mu.Unlock()

	go c.loop(loopCtx, done)

	c.logger.Info().
		Str("func", "Coordinator.Open").
		Str("unit_id", c.unitID).
		Msg("coordinator opened")
	return nil
}

// Close stops the loop, waits for the event in flight and resets both
// documents. Safe to call when not opened.
func (c *Coordinator) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	c.wg.Wait()

	for _, d := range c.documents() {
		d.reset()
	}
	c.connected.Store(false)
}

func (c *Coordinator) loop(ctx context.Context, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			err := ev.handle(ev.ctx)
			if err != nil {
				c.logger.Debug().
					Str("func", "Coordinator.loop").
					Str("event", string(ev.kind)).
					Err(err).
					Msg("event handled with error")
			}
			ev.result <- err
		}
	}
}

// submit hands fn to the loop and waits for its result.
func (c *Coordinator) submit(ctx context.Context, kind eventKind, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return ErrNotOpened
	}

	ev := event{kind: kind, ctx: ctx, handle: fn, result: make(chan error, 1)}
	select {
	case c.events <- ev:
	case <-done:
		return ErrCoordinatorClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ev.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tasks returns a copy of the current task forest.
func (c *Coordinator) Tasks() models.Forest {
	return c.tasks.value()
}

// Memo returns the current memo text.
func (c *Coordinator) Memo() models.Memo {
	return c.memo.value()
}

// Connected reports the last connectivity state seen by the coordinator.
func (c *Coordinator) Connected() bool {
	return c.connected.Load()
}

// Status returns the sync state of both documents.
func (c *Coordinator) Status() []DocumentStatus {
	out := make([]DocumentStatus, 0, 2)
	for _, d := range c.documents() {
		out = append(out, d.status())
	}
	return out
}

// UpdateTasks applies a local edit to the task forest, persists it and
// pushes it when connected.
func (c *Coordinator) UpdateTasks(ctx context.Context, fn func(models.Forest) (models.Forest, error)) error {
	return c.submit(ctx, eventLocalEdit, func(ctx context.Context) error {
		changed, err := c.tasks.edit(ctx, fn)
		if err != nil || !changed {
			return err
		}
		return c.pushIfConnected(ctx, c.tasks)
	})
}

// UpdateMemo applies a local edit to the memo.
func (c *Coordinator) UpdateMemo(ctx context.Context, fn func(models.Memo) (models.Memo, error)) error {
	return c.submit(ctx, eventLocalEdit, func(ctx context.Context) error {
		changed, err := c.memo.edit(ctx, fn)
		if err != nil || !changed {
			return err
		}
		return c.pushIfConnected(ctx, c.memo)
	})
}

// HandleRemote reconciles a value pushed by the server.
func (c *Coordinator) HandleRemote(ctx context.Context, doc models.Document) error {
	return c.submit(ctx, eventRemoteUpdate, func(ctx context.Context) error {
		d, err := c.document(doc.Kind)
		if err != nil {
			return err
		}
		if err = d.remoteUpdate(ctx, doc); err != nil {
			return err
		}
		return c.pushIfConnected(ctx, d)
	})
}

// SetConnected records a connectivity observation. The offline to online
// transition reconciles both documents with the server and pushes pending
// edits.
func (c *Coordinator) SetConnected(ctx context.Context, connected bool) error {
	return c.submit(ctx, eventConnectivity, func(ctx context.Context) error {
		was := c.connected.Swap(connected)
		if was == connected {
			return nil
		}

		c.logger.Info().
			Str("func", "Coordinator.SetConnected").
			Bool("connected", connected).
			Msg("connectivity changed")

		if !connected {
			return nil
		}
		return c.reconnectAll(ctx)
	})
}

// Sync pings the server and runs the reconnect path regardless of the
// previously known connectivity.
func (c *Coordinator) Sync(ctx context.Context) error {
	if err := c.remote.Ping(ctx); err != nil {
		return errors.Join(err, c.SetConnected(ctx, false))
	}

	return c.submit(ctx, eventConnectivity, func(ctx context.Context) error {
		c.connected.Store(true)
		return c.reconnectAll(ctx)
	})
}

func (c *Coordinator) reconnectAll(ctx context.Context) error {
	var errs []error
	for _, d := range c.documents() {
		if err := d.reconnect(ctx); err != nil {
			if errors.Is(err, adapter.ErrUnreachable) {
				c.connected.Store(false)
				return err
			}
			errs = append(errs, err)
			continue
		}
		if err := c.pushIfConnected(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PushPending pushes every dirty document when connected.
func (c *Coordinator) PushPending(ctx context.Context) error {
	return c.submit(ctx, eventCommand, func(ctx context.Context) error {
		var errs []error
		for _, d := range c.documents() {
			if err := c.pushIfConnected(ctx, d); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// pushIfConnected pushes d. A server that stopped answering flips the
// coordinator offline; the edit stays dirty for the next reconnect.
func (c *Coordinator) pushIfConnected(ctx context.Context, d syncedDocument) error {
	if !c.connected.Load() {
		return nil
	}

	err := d.push(ctx)
	if errors.Is(err, adapter.ErrUnreachable) {
		c.connected.Store(false)
		c.logger.Warn().
			Str("func", "Coordinator.pushIfConnected").
			Str("kind", string(d.Kind())).
			Err(err).
			Msg("server unreachable, keeping changes locally")
		return nil
	}
	return err
}

// Restore re-uploads the local value of a document deleted on the server.
func (c *Coordinator) Restore(ctx context.Context, kind models.DocumentKind) error {
	return c.submit(ctx, eventCommand, func(ctx context.Context) error {
		d, err := c.document(kind)
		if err != nil {
			return err
		}
		return d.restore(ctx)
	})
}

// AcceptDelete drops the local value of a document deleted on the server.
func (c *Coordinator) AcceptDelete(ctx context.Context, kind models.DocumentKind) error {
	return c.submit(ctx, eventCommand, func(ctx context.Context) error {
		d, err := c.document(kind)
		if err != nil {
			return err
		}
		return d.acceptDelete(ctx)
	})
}

// Conflicts returns the stored conflict reports of a document, oldest first.
func (c *Coordinator) Conflicts(ctx context.Context, kind models.DocumentKind) ([]models.ConflictReport, error) {
	if _, err := c.document(kind); err != nil {
		return nil, err
	}
	return loadConflictReports(ctx, c.cache, conflictsKey(c.unitID, kind))
}

// ClearConflicts drops the stored conflict reports of a document.
func (c *Coordinator) ClearConflicts(ctx context.Context, kind models.DocumentKind) error {
	if _, err := c.document(kind); err != nil {
		return err
	}
	return c.cache.DeleteSetting(ctx, conflictsKey(c.unitID, kind))
}
