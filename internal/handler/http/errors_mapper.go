// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

// errorStatuses is checked in order: a hash mismatch is also wrapped as
// invalid input and must win over the generic 400.
var errorStatuses = []struct {
	err    error
	status int
}{
	{validators.ErrInvalidHash, http.StatusUnprocessableEntity},
	{ErrIntegrityMismatch, http.StatusUnprocessableEntity},
	{service.ErrVersionConflict, http.StatusConflict},
	{service.ErrDocumentNotFound, http.StatusNotFound},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrVersionIsNotSpecified, http.StatusBadRequest},
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrInvalidBaseVersion, http.StatusBadRequest},
	{ErrRouteNotFound, http.StatusNotFound},
	{ErrMethodNotAllowed, http.StatusMethodNotAllowed},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status and a JSON error body. Internal
// errors are logged and their text is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)
	message := err.Error()

	log := logger.FromRequest(r)
	if status == http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Msg("request failed")
		message = app.MsgInternalServerError
	} else {
		log.Debug().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: message}, status)
}
