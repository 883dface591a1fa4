// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

type documentService struct {
	repo store.DocumentRepository
	hub  *Hub

	logger *logger.Logger
}

// NewDocumentService returns the server document service. Every accepted
// write or delete is published on hub.
func NewDocumentService(repo store.DocumentRepository, hub *Hub, logger *logger.Logger) DocumentService {
	return &documentService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

func (s *documentService) Read(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error) {
	doc, err := s.repo.Get(ctx, unitID, kind)
	if err != nil {
		return models.Document{}, mapStoreError(err)
	}
	return doc, nil
}

func (s *documentService) Write(ctx context.Context, unitID string, kind models.DocumentKind, req models.WriteRequest) (models.Document, error) {
	doc := models.Document{
		UnitID: unitID,
		Kind:   kind,
		Body:   req.Body,
		Hash:   req.Hash,
	}

	stored, err := s.repo.Put(ctx, doc, req.BaseVersion)
	if err != nil {
		return models.Document{}, mapStoreError(err)
	}

	s.hub.Publish(stored)
	return stored, nil
}

func (s *documentService) Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error) {
	deleted, err := s.repo.Delete(ctx, unitID, kind, baseVersion)
	if err != nil {
		return models.Document{}, mapStoreError(err)
	}

	s.hub.Publish(deleted)
	return deleted, nil
}

// Subscribe registers with the hub before reading the snapshot, so a write
// landing in between is delivered on the channel rather than lost. Callers
// drop channel values whose version is not newer than the snapshot.
func (s *documentService) Subscribe(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, <-chan models.Document, error) {
	ch, cancel := s.hub.Subscribe(unitID, kind)

	current, err := s.repo.Get(ctx, unitID, kind)
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		current = models.Document{UnitID: unitID, Kind: kind, Deleted: true}
	case err != nil:
		cancel()
		return models.Document{}, nil, mapStoreError(err)
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	s.logger.Debug().
		Str("func", "documentService.Subscribe").
		Str("unit_id", unitID).
		Str("kind", string(kind)).
		Int64("version", current.Version).
		Msg("subscriber registered")

	return current, ch, nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		return fmt.Errorf("%w: %w", ErrDocumentNotFound, err)
	case errors.Is(err, store.ErrVersionConflict):
		return fmt.Errorf("%w: %w", ErrVersionConflict, err)
	default:
		return err
	}
}
