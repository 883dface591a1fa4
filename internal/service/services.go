// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
)

// Services groups the server-side services.
type Services struct {
	DocumentService DocumentService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	validator, err := validators.NewDocumentValidator()
	if err != nil {
		return nil, fmt.Errorf("error building document validator: %w", err)
	}

	documents := NewDocumentService(storages.DocumentRepository, NewHub(), logger)

	return &Services{
		DocumentService: NewDocumentValidationService(validator).Wrap(documents),
		AppInfoService:  appInfo,
	}, nil
}
