// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

type DocumentValidationService struct {
	inner     DocumentService
	validator validators.Validator
}

func NewDocumentValidationService(validator validators.Validator) DocumentServiceWrapper {
	return &DocumentValidationService{
		validator: validator,
	}
}

func (v *DocumentValidationService) Read(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error) {
	if err := v.validateAddress(ctx, unitID, kind); err != nil {
		return models.Document{}, err
	}
	return v.inner.Read(ctx, unitID, kind)
}

func (v *DocumentValidationService) Write(ctx context.Context, unitID string, kind models.DocumentKind, req models.WriteRequest) (models.Document, error) {
	if req.BaseVersion < 0 {
		return models.Document{}, fmt.Errorf("%w: %w: %d", ErrInvalidDataProvided, validators.ErrInvalidVersion, req.BaseVersion)
	}

	doc := models.Document{UnitID: unitID, Kind: kind, Body: req.Body, Hash: req.Hash}
	if err := v.validator.Validate(ctx, doc); err != nil {
		return models.Document{}, fmt.Errorf("%w: error during document validation before saving: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Write(ctx, unitID, kind, req)
}

func (v *DocumentValidationService) Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error) {
	if err := v.validateAddress(ctx, unitID, kind); err != nil {
		return models.Document{}, err
	}
	if baseVersion < 0 {
		return models.Document{}, fmt.Errorf("%w: %w: %d", ErrInvalidDataProvided, validators.ErrInvalidVersion, baseVersion)
	}
	return v.inner.Delete(ctx, unitID, kind, baseVersion)
}

func (v *DocumentValidationService) Subscribe(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, <-chan models.Document, error) {
	if err := v.validateAddress(ctx, unitID, kind); err != nil {
		return models.Document{}, nil, err
	}
	return v.inner.Subscribe(ctx, unitID, kind)
}

func (v *DocumentValidationService) Wrap(wrapped DocumentService) DocumentService {
	v.inner = wrapped
	return v
}

func (v *DocumentValidationService) validateAddress(ctx context.Context, unitID string, kind models.DocumentKind) error {
	doc := models.Document{UnitID: unitID, Kind: kind}
	if err := v.validator.Validate(ctx, doc, validators.FieldUnitID, validators.FieldKind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}
