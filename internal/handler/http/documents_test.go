// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

const tasksURL = "/api/units/household/documents/tasks"

func TestPing(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, "/api/ping", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.PingResponse{Status: "ok", Version: "v1.2.3"}, decodeBody[models.PingResponse](t, rr))
}

func TestDocumentLifecycle(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, tasksURL, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, decodeBody[models.ErrorResponse](t, rr).Error)

	rr = f.do(t, http.MethodPut, tasksURL, writeRequest(t, sampleForest(), 0))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	created := decodeBody[models.Document](t, rr)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, models.KindTasks, created.Kind)
	assert.Equal(t, "household", created.UnitID)

	rr = f.do(t, http.MethodGet, tasksURL, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	read := decodeBody[models.Document](t, rr)
	forest, err := models.DecodeForest(read.Body)
	require.NoError(t, err)
	assert.Equal(t, sampleForest(), forest)

	// a stale base version is refused
	rr = f.do(t, http.MethodPut, tasksURL, writeRequest(t, sampleForest()[1:], 0))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, http.MethodPut, tasksURL, writeRequest(t, sampleForest()[1:], 1))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(2), decodeBody[models.Document](t, rr).Version)

	rr = f.do(t, http.MethodDelete, tasksURL+"?base_version=1", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, http.MethodDelete, tasksURL+"?base_version=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	deleted := decodeBody[models.Document](t, rr)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, int64(3), deleted.Version)

	rr = f.do(t, http.MethodGet, tasksURL, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWriteDocument_Rejected(t *testing.T) {
	badHash := writeRequest(t, sampleForest(), 0)
	badHash.Hash = "0"

	duplicate := models.Forest{{ID: "x", Value: "one"}, {ID: "x", Value: "two"}}

	tests := []struct {
		name   string
		target string
		body   any
		status int
	}{
		{"hash mismatch", tasksURL, badHash, http.StatusUnprocessableEntity},
		{"not a write request", tasksURL, []int{1, 2}, http.StatusBadRequest},
		{"duplicate item ids", tasksURL, writeRequest(t, duplicate, 0), http.StatusBadRequest},
		{"negative base version", tasksURL, writeRequest(t, sampleForest(), -1), http.StatusBadRequest},
		{"unknown kind", "/api/units/household/documents/notes", writeRequest(t, "x", 0), http.StatusBadRequest},
		{"memo body for tasks", tasksURL, writeRequest(t, "just text", 0), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)

			rr := f.do(t, http.MethodPut, tt.target, tt.body)

			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			_, err := f.repo.Get(context.Background(), "household", models.KindTasks)
			assert.ErrorIs(t, err, store.ErrDocumentNotFound, "rejected writes must not be stored")
		})
	}
}

func TestWriteDocument_Memo(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodPut, "/api/units/household/documents/memo", writeRequest(t, models.Memo("call the plumber"), 0))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	memo, err := models.DecodeMemo(decodeBody[models.Document](t, rr).Body)
	require.NoError(t, err)
	assert.Equal(t, models.Memo("call the plumber"), memo)
}

func TestDeleteDocument_BadBaseVersion(t *testing.T) {
	f := newHandlerFixture(t)

	for _, target := range []string{tasksURL, tasksURL + "?base_version=abc"} {
		rr := f.do(t, http.MethodDelete, target, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestReadDocument_InternalErrorHidesDetails(t *testing.T) {
	f := newHandlerFixtureWithRepo(t, failingRepository{
		DocumentRepository: store.NewMemoryDocumentRepository(),
		err:                assert.AnError,
	})

	rr := f.do(t, http.MethodGet, tasksURL, nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, app.MsgInternalServerError, decodeBody[models.ErrorResponse](t, rr).Error)
}

func TestRoutes_NotFoundAndMethodNotAllowed(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(t, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decodeBody[models.ErrorResponse](t, rr).Error, "route not found")

	rr = f.do(t, http.MethodPost, tasksURL, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, PUT, DELETE", rr.Header().Get("Allow"))

	rr = f.do(t, http.MethodPost, "/api/ping", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET", rr.Header().Get("Allow"))
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"hash mismatch inside invalid data", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, validators.ErrInvalidHash), http.StatusUnprocessableEntity},
		{"invalid data", fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, validators.ErrInvalidKind), http.StatusBadRequest},
		{"conflict", fmt.Errorf("%w: stale", service.ErrVersionConflict), http.StatusConflict},
		{"not found", service.ErrDocumentNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
