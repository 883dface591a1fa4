// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

const watchWriteTimeout = 10 * time.Second

// watchDocument streams the current value of a document and then every
// accepted change over a websocket. A document that never existed is sent
// as a deleted document with version 0.
func (h *Handler) watchDocument(w http.ResponseWriter, r *http.Request) {
	unitID, kind := documentTarget(r)
	log := logger.FromRequest(r)

	current, changes, err := h.services.DocumentService.Subscribe(r.Context(), unitID, kind)
	if err != nil {
		writeError(w, r, "Handler.watchDocument", err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "Handler.watchDocument").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// clients never send; CloseRead also notices a client closing the stream
	ctx := conn.CloseRead(r.Context())

	if err = writeDocument(ctx, conn, current); err != nil {
		return
	}
	sent := current.Version

	for {
		select {
		case <-ctx.Done():
			return
		case doc, ok := <-changes:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "subscription closed")
				return
			}
			if doc.Version <= sent {
				continue
			}
			if err = writeDocument(ctx, conn, doc); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Debug().Err(err).Str("func", "Handler.watchDocument").Msg("watch write failed")
				}
				return
			}
			sent = doc.Version
		}
	}
}

func writeDocument(ctx context.Context, conn *websocket.Conn, doc models.Document) error {
	ctx, cancel := context.WithTimeout(ctx, watchWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, doc)
}
