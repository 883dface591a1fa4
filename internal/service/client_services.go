// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

// ClientServices groups the client-side services around one coordinator.
type ClientServices struct {
	Coordinator *Coordinator
	Tasks       *TaskService
}

func NewClientServices(cfg config.ClientSync, cache store.LocalCache, remote adapter.RemoteStore, ids IDGenerator, logger *logger.Logger) *ClientServices {
	coordinator := NewCoordinator(cfg.UnitID, cfg.PushRetries, remote, cache, logger)

	return &ClientServices{
		Coordinator: coordinator,
		Tasks:       NewTaskService(coordinator, ids),
	}
}
