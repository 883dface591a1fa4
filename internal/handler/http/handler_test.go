// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

// failingRepository fails every read.
type failingRepository struct {
	store.DocumentRepository
	err error
}

func (f failingRepository) Get(context.Context, string, models.DocumentKind) (models.Document, error) {
	return models.Document{}, f.err
}

type fixedVersion string

func (v fixedVersion) GetAppVersion(context.Context) string { return string(v) }

type handlerFixture struct {
	repo   store.DocumentRepository
	router http.Handler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	return newHandlerFixtureWithRepo(t, store.NewMemoryDocumentRepository())
}

func newHandlerFixtureWithRepo(t *testing.T, repo store.DocumentRepository) *handlerFixture {
	t.Helper()

	v, err := validators.NewDocumentValidator()
	require.NoError(t, err)
	docs := service.NewDocumentValidationService(v).
		Wrap(service.NewDocumentService(repo, service.NewHub(), logger.Nop()))

	h := NewHandler(&service.Services{
		DocumentService: docs,
		AppInfoService:  fixedVersion("v1.2.3"),
	}, logger.Nop())

	return &handlerFixture{repo: repo, router: h.Init()}
}

func (f *handlerFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func writeRequest(t *testing.T, value any, baseVersion int64) models.WriteRequest {
	t.Helper()
	body, err := json.Marshal(value)
	require.NoError(t, err)
	return models.WriteRequest{BaseVersion: baseVersion, Body: body, Hash: canonical.Hash(value)}
}

func sampleForest() models.Forest {
	return models.Forest{
		{ID: "a", Value: "Buy milk"},
		{ID: "b", Value: "Call mom", Children: []models.TreeItem{{ID: "c", Value: "Sunday"}}},
	}.EnsureTrash()
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
