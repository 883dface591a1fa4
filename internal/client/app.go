// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/internal/workers"
)

// App is an opened client: both documents are loaded from the cache and the
// coordinator loop is running.
type App struct {
	services *service.ClientServices
	remote   adapter.RemoteStore
	closer   func() error

	unitID  string
	workers config.ClientWorkers
	logger  *logger.Logger
}

// NewApp opens the local cache, connects the remote store and opens the
// coordinator.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, logger)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create remote store: %w", err)
	}

	app, err := newApp(ctx, cfg, storages.Cache, remote, utils.NewUUIDGenerator(), logger)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}
	app.closer = storages.Close
	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, cache store.LocalCache, remote adapter.RemoteStore, ids service.IDGenerator, logger *logger.Logger) (*App, error) {
	services := service.NewClientServices(cfg.Sync, cache, remote, ids, logger)
	if err := services.Coordinator.Open(ctx); err != nil {
		return nil, fmt.Errorf("open coordinator: %w", err)
	}

	return &App{
		services: services,
		remote:   remote,
		unitID:   cfg.Sync.UnitID,
		workers:  cfg.Workers,
		logger:   logger,
	}, nil
}

func (a *App) Services() *service.ClientServices {
	return a.services
}

// Connect pings the server once and reconciles both documents when it
// answers. An unreachable server is not an error: the app stays offline and
// edits are kept locally.
func (a *App) Connect(ctx context.Context) error {
	err := a.services.Coordinator.Sync(ctx)
	if errors.Is(err, adapter.ErrUnreachable) {
		a.logger.Info().
			Str("func", "App.Connect").
			Err(err).
			Msg("server unreachable, working offline")
		return nil
	}
	return err
}

// Run starts the connectivity monitor, the change subscriptions and the
// periodic push, and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	coordinator := a.services.Coordinator

	ws := workers.NewWorkers(
		workers.NewConnectivityMonitor(a.remote, coordinator, a.workers.PingInterval, a.logger),
		workers.NewSubscription(a.remote, coordinator, a.unitID, a.logger),
		workers.NewPeriodicSync(coordinator, a.workers.SyncInterval, a.logger),
	)

	a.logger.Info().
		Str("func", "App.Run").
		Str("unit_id", a.unitID).
		Msg("client workers started")

	ws.Run(ctx)
	return nil
}

func (a *App) Close() error {
	a.services.Coordinator.Close()
	if a.closer != nil {
		return a.closer()
	}
	return nil
}
