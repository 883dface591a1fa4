// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// documentHashing rejects a write whose hash is not the canonical hash of
// its body with 422. Bodies of unknown kinds or that do not decode are left
// to the validation layer.
func (h *Handler) documentHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		_, kind := documentTarget(r)

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, r, "Handler.documentHashing", fmt.Errorf("read body: %w", err))
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req models.WriteRequest
		if err = json.Unmarshal(body, &req); err != nil {
			writeError(w, r, "Handler.documentHashing", fmt.Errorf("%w: %w", ErrInvalidJSON, err))
			return
		}

		expected, ok := bodyHash(kind, req.Body)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if expected != req.Hash {
			log.Warn().Str("func", "Handler.documentHashing").
				Str("hash_from_request", req.Hash).
				Str("hashed_body", expected).
				Msg("hashes are not equal")
			writeError(w, r, "Handler.documentHashing", fmt.Errorf("%w: expected %s, got %s", ErrIntegrityMismatch, expected, req.Hash))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bodyHash(kind models.DocumentKind, body json.RawMessage) (string, bool) {
	switch kind {
	case models.KindTasks:
		f, err := models.DecodeForest(body)
		if err != nil {
			return "", false
		}
		return canonical.Hash(f), true
	case models.KindMemo:
		m, err := models.DecodeMemo(body)
		if err != nil {
			return "", false
		}
		return canonical.Hash(m), true
	default:
		return "", false
	}
}
