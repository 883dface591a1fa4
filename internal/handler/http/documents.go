// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

const baseVersionParam = "base_version"

func documentTarget(r *http.Request) (string, models.DocumentKind) {
	return chi.URLParam(r, unitParam), models.DocumentKind(chi.URLParam(r, kindParam))
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.PingResponse{
		Status:  app.MsgStatusOK,
		Version: h.services.AppInfoService.GetAppVersion(r.Context()),
	}, http.StatusOK)
}

func (h *Handler) readDocument(w http.ResponseWriter, r *http.Request) {
	unitID, kind := documentTarget(r)

	doc, err := h.services.DocumentService.Read(r.Context(), unitID, kind)
	if err != nil {
		writeError(w, r, "Handler.readDocument", err)
		return
	}

	_, _ = utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) writeDocument(w http.ResponseWriter, r *http.Request) {
	unitID, kind := documentTarget(r)

	var req models.WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "Handler.writeDocument", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	doc, err := h.services.DocumentService.Write(r.Context(), unitID, kind, req)
	if err != nil {
		writeError(w, r, "Handler.writeDocument", err)
		return
	}

	logger.FromRequest(r).Debug().
		Str("func", "Handler.writeDocument").
		Str("unit_id", unitID).
		Str("kind", string(kind)).
		Int64("version", doc.Version).
		Msg("document written")

	_, _ = utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	unitID, kind := documentTarget(r)

	raw := r.URL.Query().Get(baseVersionParam)
	baseVersion, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, r, "Handler.deleteDocument", fmt.Errorf("%w: %q", ErrInvalidBaseVersion, raw))
		return
	}

	doc, err := h.services.DocumentService.Delete(r.Context(), unitID, kind, baseVersion)
	if err != nil {
		writeError(w, r, "Handler.deleteDocument", err)
		return
	}

	_, _ = utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, "Handler.notFound", fmt.Errorf("%w: %s", ErrRouteNotFound, r.URL.Path))
}
