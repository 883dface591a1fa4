// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side process settings.
type ClientApp struct {
	// LogLevel is a zerolog level name.
	LogLevel string
	// LogFile is the client log file path.
	LogFile string
}

// ClientAdapter holds settings of the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the server.
	HTTPAddress string
	// RequestTimeout is the timeout of a single outbound request.
	RequestTimeout time.Duration
	// RetryCount is the number of HTTP-level retries.
	RetryCount int
}

// ClientDB contains local cache database settings.
type ClientDB struct {
	// DSN is the SQLite file path or DSN.
	DSN string
}

// ClientStorage groups client storage settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// PingInterval is how often connectivity is checked.
	PingInterval time.Duration
	// SyncInterval is how often pending edits are pushed again.
	SyncInterval time.Duration
}

// ClientSync contains synchronization settings.
type ClientSync struct {
	// UnitID names the shared unit to synchronize.
	UnitID string
	// PushRetries bounds the read-merge-write loop.
	PushRetries int
}

// ClientConfig is the client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
	Sync    ClientSync
}

// GetClientConfig builds and validates the client configuration.
//
// overrides carries values from the command line (cobra flags) and has the
// highest priority, followed by environment variables, the JSON file and
// client defaults.
func GetClientConfig(overrides *StructuredConfig) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withConfig(overrides).
		withEnv().
		withJSON().
		withDefaults(clientDefaults()).
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{
			PingInterval: cfg.Workers.PingInterval,
			SyncInterval: cfg.Workers.SyncInterval,
		},
		Sync: ClientSync{
			UnitID:      cfg.Sync.UnitID,
			PushRetries: cfg.Sync.PushRetries,
		},
	}
}
