// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Default values applied after every other source.
const (
	DefaultServerAddress   = "localhost:8080"
	DefaultAdapterAddress  = "http://localhost:8080"
	DefaultClientDSN       = "tasksync.db"
	DefaultUnitID          = "default"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultClientTimeout   = 10 * time.Second
	DefaultPingInterval    = 5 * time.Second
	DefaultSyncInterval    = 30 * time.Second
	DefaultRetryCount      = 2
	DefaultPushRetries     = 3
	DefaultLogLevel        = "info"
)

func serverDefaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{LogLevel: DefaultLogLevel},
		Server: Server{
			HTTPAddress:     DefaultServerAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

func clientDefaults() *StructuredConfig {
	return &StructuredConfig{
		App:     App{LogLevel: DefaultLogLevel},
		Storage: Storage{DB: DB{DSN: DefaultClientDSN}},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultClientTimeout,
			RetryCount:     DefaultRetryCount,
		},
		Workers: Workers{
			PingInterval: DefaultPingInterval,
			SyncInterval: DefaultSyncInterval,
		},
		Sync: Sync{
			UnitID:      DefaultUnitID,
			PushRetries: DefaultPushRetries,
		},
	}
}
