// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/reconcile"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/syncstate"
	"github.com/MKhiriev/go-task-sync/models"
)

// maxConflictReports is how many reports are kept per document.
const maxConflictReports = 20

// DocumentStatus is a point-in-time view of one document's sync state.
type DocumentStatus struct {
	Kind           models.DocumentKind `json:"kind"`
	Dirty          bool                `json:"dirty"`
	LocalHash      string              `json:"local_hash"`
	BaseHash       string              `json:"base_hash"`
	LastServerHash string              `json:"last_server_hash"`
	ServerVersion  int64               `json:"server_version"`
	RemoteDeleted  bool                `json:"remote_deleted"`
}

func conflictsKey(unitID string, kind models.DocumentKind) string {
	return fmt.Sprintf("conflicts/%s/%s", unitID, kind)
}

func remoteDeletedKey(unitID string, kind models.DocumentKind) string {
	return fmt.Sprintf("remote-deleted/%s/%s", unitID, kind)
}

// syncedDocument is the kind-independent face of a syncedDoc. All methods
// except value reads are called from the coordinator loop only.
type syncedDocument interface {
	Kind() models.DocumentKind

	load(ctx context.Context) error
	push(ctx context.Context) error
	reconnect(ctx context.Context) error
	remoteUpdate(ctx context.Context, doc models.Document) error
	restore(ctx context.Context) error
	acceptDelete(ctx context.Context) error
	reset()
	status() DocumentStatus
}

type docEnv struct {
	unitID      string
	remote      adapter.RemoteStore
	cache       store.LocalCache
	pushRetries int
	logger      *logger.Logger
}

// syncedDoc ties the current value of one document to its sync state and
// controller.
type syncedDoc[T syncstate.Snapshot[T]] struct {
	*docEnv

	kind   models.DocumentKind
	state  *syncstate.Document[T]
	ctrl   *reconcile.Controller[T]
	decode func(json.RawMessage) (T, error)
	empty  func() T
	log    *logger.Logger

	mu            sync.RWMutex
	current       T
	remoteDeleted bool
}

func newSyncedDoc[T syncstate.Snapshot[T]](
	env *docEnv,
	kind models.DocumentKind,
	guard *syncstate.Guard,
	merge reconcile.MergeFunc[T],
	decode func(json.RawMessage) (T, error),
	empty func() T,
) *syncedDoc[T] {
	state := syncstate.NewDocument[T](kind)
	return &syncedDoc[T]{
		docEnv:  env,
		kind:    kind,
		state:   state,
		ctrl:    reconcile.NewController(state, guard, merge),
		decode:  decode,
		empty:   empty,
		log:     env.logger.ForDocument(env.unitID, kind),
		current: empty(),
	}
}

func (d *syncedDoc[T]) Kind() models.DocumentKind {
	return d.kind
}

func (d *syncedDoc[T]) value() T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current.Clone()
}

func (d *syncedDoc[T]) setValue(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = v.Clone()
}

func (d *syncedDoc[T]) isRemoteDeleted() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.remoteDeleted
}

func (d *syncedDoc[T]) setRemoteDeleted(deleted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remoteDeleted = deleted
}

func (d *syncedDoc[T]) status() DocumentStatus {
	return DocumentStatus{
		Kind:           d.kind,
		Dirty:          d.state.Dirty(),
		LocalHash:      canonical.Hash(d.value()),
		BaseHash:       d.state.BaseHash(),
		LastServerHash: d.state.LastServerHash(),
		ServerVersion:  d.state.ServerVersion(),
		RemoteDeleted:  d.isRemoteDeleted(),
	}
}

func (d *syncedDoc[T]) reset() {
	d.state.Reset()
	d.setValue(d.empty())
	d.setRemoteDeleted(false)
}

// load restores the cached value, its sync state and a pending deletion
// decision.
func (d *syncedDoc[T]) load(ctx context.Context) error {
	cached, err := d.cache.LoadDocument(ctx, d.unitID, d.kind)
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		d.setValue(d.empty())
	case err != nil:
		return fmt.Errorf("load cached %s: %w", d.kind, err)
	default:
		v, err := d.decode(cached.Body)
		if err != nil {
			return fmt.Errorf("decode cached %s: %w", d.kind, err)
		}
		d.setValue(v)
	}

	meta, err := d.cache.LoadMeta(ctx, d.unitID, d.kind)
	if err != nil {
		return fmt.Errorf("load %s sync state: %w", d.kind, err)
	}
	if err = d.state.Restore(meta); err != nil {
		return err
	}

	_, err = d.cache.GetSetting(ctx, remoteDeletedKey(d.unitID, d.kind))
	switch {
	case err == nil:
		d.setRemoteDeleted(true)
	case !errors.Is(err, store.ErrSettingNotFound):
		return fmt.Errorf("load %s deletion flag: %w", d.kind, err)
	}

	d.log.Debug().
		Str("func", "syncedDoc.load").
		Bool("dirty", meta.Dirty).
		Int64("version", meta.ServerVersion).
		Msg("document restored from cache")
	return nil
}

func (d *syncedDoc[T]) persist(ctx context.Context) error {
	v := d.value()
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.kind, err)
	}
	meta, err := d.state.Export()
	if err != nil {
		return err
	}

	doc := models.Document{UnitID: d.unitID, Kind: d.kind, Body: body, Hash: canonical.Hash(v)}
	if err = d.cache.SaveState(ctx, doc, meta); err != nil {
		return fmt.Errorf("persist %s: %w", d.kind, err)
	}
	return nil
}

// edit applies fn to a copy of the current value. The pre-edit value becomes
// the fork point when the document was clean. Edits that do not change the
// content leave the state untouched.
func (d *syncedDoc[T]) edit(ctx context.Context, fn func(T) (T, error)) (bool, error) {
	before := d.value()
	after, err := fn(before.Clone())
	if err != nil {
		return false, err
	}
	if canonical.Equal(before, after) {
		return false, nil
	}

	d.state.MarkDirty(before)
	d.setValue(after)
	return true, d.persist(ctx)
}

func (d *syncedDoc[T]) push(ctx context.Context) error {
	if d.isRemoteDeleted() {
		return ErrRemoteDeleted
	}
	return d.pushFrom(ctx, d.state.ServerVersion())
}

// pushFrom is the read-modify-write loop: write against baseVersion, and on
// a version conflict read the remote value, reconcile and try again.
func (d *syncedDoc[T]) pushFrom(ctx context.Context, baseVersion int64) error {
	for attempt := 0; attempt <= d.pushRetries; attempt++ {
		if !d.state.Dirty() {
			return nil
		}

		v := d.value()
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.kind, err)
		}
		hash := canonical.Hash(v)

		stored, err := d.remote.Write(ctx, d.unitID, d.kind, models.WriteRequest{
			BaseVersion: baseVersion,
			Body:        body,
			Hash:        hash,
		})
		switch {
		case err == nil:
			d.state.SetBaseFromServer(v, hash)
			d.state.SetServerVersion(stored.Version)
			d.log.Info().
				Str("func", "syncedDoc.pushFrom").
				Int64("version", stored.Version).
				Str("hash", hash).
				Msg("local changes pushed")
			return d.persist(ctx)
		case errors.Is(err, adapter.ErrVersionConflict):
			d.log.Debug().
				Str("func", "syncedDoc.pushFrom").
				Int64("base_version", baseVersion).
				Int("attempt", attempt).
				Msg("version conflict, reconciling with remote")
			if err = d.reconcileConflict(ctx); err != nil {
				return err
			}
			baseVersion = d.state.ServerVersion()
		default:
			return fmt.Errorf("push %s: %w", d.kind, err)
		}
	}
	return fmt.Errorf("%w: %s", ErrPushRetriesExhausted, d.kind)
}

func (d *syncedDoc[T]) reconcileConflict(ctx context.Context) error {
	server, version, err := d.fetch(ctx)
	if err != nil {
		return err
	}
	if server == nil {
		if _, err = d.ctrl.OnRemoteUpdate(d.value(), nil); err != nil {
			return err
		}
		return d.onRemoteDeleted(ctx)
	}

	out, err := d.ctrl.OnRemoteUpdate(d.value(), server)
	if err != nil {
		return err
	}
	d.state.SetServerVersion(version)
	return d.apply(ctx, out, server)
}

// fetch reads the remote document. A missing or deleted document is nil.
func (d *syncedDoc[T]) fetch(ctx context.Context) (*T, int64, error) {
	doc, err := d.remote.Read(ctx, d.unitID, d.kind)
	if errors.Is(err, adapter.ErrNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read remote %s: %w", d.kind, err)
	}

	v, err := d.decode(doc.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("decode remote %s: %w", d.kind, err)
	}
	return &v, doc.Version, nil
}

func (d *syncedDoc[T]) reconnect(ctx context.Context) error {
	server, version, err := d.fetch(ctx)
	if err != nil {
		return err
	}

	if server == nil {
		// version 0 means the document was never written by anyone
		if d.state.ServerVersion() == 0 {
			return nil
		}
		if _, err = d.ctrl.OnReconnect(false, true, d.value(), nil); err != nil {
			return err
		}
		return d.onRemoteDeleted(ctx)
	}

	out, err := d.ctrl.OnReconnect(false, true, d.value(), server)
	if err != nil {
		return err
	}
	d.state.SetServerVersion(version)

	if out.Action == reconcile.ActionNone {
		if out, err = d.ctrl.OnRemoteUpdate(d.value(), server); err != nil {
			return err
		}
	}
	return d.apply(ctx, out, server)
}

func (d *syncedDoc[T]) remoteUpdate(ctx context.Context, doc models.Document) error {
	if doc.Deleted {
		if d.state.ServerVersion() == 0 {
			return nil
		}
		if _, err := d.ctrl.OnRemoteUpdate(d.value(), nil); err != nil {
			return err
		}
		return d.onRemoteDeleted(ctx)
	}

	// echo of our own write or an older snapshot
	if doc.Version <= d.state.ServerVersion() {
		return nil
	}

	server, err := d.decode(doc.Body)
	if err != nil {
		return fmt.Errorf("decode remote %s: %w", d.kind, err)
	}

	out, err := d.ctrl.OnRemoteUpdate(d.value(), &server)
	if err != nil {
		return err
	}
	d.state.SetServerVersion(doc.Version)
	return d.apply(ctx, out, &server)
}

// apply installs the controller outcome as the current value. A merged value
// is not on the server yet, so the document is marked dirty again with the
// server value as its fork point and the caller pushes it.
func (d *syncedDoc[T]) apply(ctx context.Context, out reconcile.Outcome[T], server *T) error {
	switch out.Action {
	case reconcile.ActionAdoptServer:
		d.setValue(out.Value)
	case reconcile.ActionMerged:
		d.setValue(out.Value)
		if server != nil && !canonical.Equal(out.Value, *server) {
			d.state.MarkDirty(*server)
			d.state.SetServerHash(canonical.Hash(*server))
		}
	case reconcile.ActionRemoteDeleted:
		return d.onRemoteDeleted(ctx)
	}

	d.log.Debug().
		Str("func", "syncedDoc.apply").
		Str("action", string(out.Action)).
		Bool("conflicts", out.HasConflicts).
		Msg("remote value reconciled")

	if out.HasConflicts {
		if err := d.recordConflicts(ctx, out.Action, out.Conflicts); err != nil {
			return err
		}
	}
	return d.persist(ctx)
}

// onRemoteDeleted follows a deletion silently when nothing local is pending.
// Otherwise the local value is kept and the decision is left to the user.
func (d *syncedDoc[T]) onRemoteDeleted(ctx context.Context) error {
	if !d.state.Dirty() {
		d.log.Info().
			Str("func", "syncedDoc.onRemoteDeleted").
			Msg("document deleted on the server, dropping local copy")
		return d.dropLocal(ctx)
	}

	d.setRemoteDeleted(true)
	if err := d.cache.PutSetting(ctx, remoteDeletedKey(d.unitID, d.kind), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("persist %s deletion flag: %w", d.kind, err)
	}

	d.log.Warn().
		Str("func", "syncedDoc.onRemoteDeleted").
		Msg("document deleted on the server while local edits are pending")
	return fmt.Errorf("%w: %s", ErrRemoteDeleted, d.kind)
}

func (d *syncedDoc[T]) dropLocal(ctx context.Context) error {
	d.reset()
	if err := d.cache.Forget(ctx, d.unitID, d.kind); err != nil {
		return fmt.Errorf("forget %s: %w", d.kind, err)
	}
	return d.cache.DeleteSetting(ctx, remoteDeletedKey(d.unitID, d.kind))
}

// restore uploads the local value over a server-side deletion.
func (d *syncedDoc[T]) restore(ctx context.Context) error {
	if !d.isRemoteDeleted() {
		return nil
	}

	d.setRemoteDeleted(false)
	if err := d.pushFrom(ctx, 0); err != nil {
		d.setRemoteDeleted(true)
		return err
	}

	d.log.Info().
		Str("func", "syncedDoc.restore").
		Msg("document restored on the server")
	return d.cache.DeleteSetting(ctx, remoteDeletedKey(d.unitID, d.kind))
}

func (d *syncedDoc[T]) acceptDelete(ctx context.Context) error {
	if !d.isRemoteDeleted() {
		return nil
	}
	return d.dropLocal(ctx)
}

func (d *syncedDoc[T]) recordConflicts(ctx context.Context, action reconcile.Action, details []models.ConflictDetail) error {
	key := conflictsKey(d.unitID, d.kind)

	reports, err := loadConflictReports(ctx, d.cache, key)
	if err != nil {
		return err
	}
	reports = append(reports, models.ConflictReport{
		Kind:    d.kind,
		At:      time.Now().UTC(),
		Action:  string(action),
		Details: details,
	})
	if len(reports) > maxConflictReports {
		reports = reports[len(reports)-maxConflictReports:]
	}

	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode conflict reports: %w", err)
	}
	if err = d.cache.PutSetting(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("persist conflict reports: %w", err)
	}

	d.log.Warn().
		Str("func", "syncedDoc.recordConflicts").
		Int("conflicts", len(details)).
		Msg("local changes were overridden by the server")
	return nil
}

func loadConflictReports(ctx context.Context, cache store.LocalCache, key string) ([]models.ConflictReport, error) {
	raw, err := cache.GetSetting(ctx, key)
	if errors.Is(err, store.ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conflict reports: %w", err)
	}

	var reports []models.ConflictReport
	if err = json.Unmarshal([]byte(raw), &reports); err != nil {
		return nil, fmt.Errorf("decode conflict reports: %w", err)
	}
	return reports, nil
}
