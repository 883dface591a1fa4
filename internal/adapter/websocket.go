// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/MKhiriev/go-task-sync/models"
)

func (h *httpRemoteStore) Subscribe(ctx context.Context, unitID string, kind models.DocumentKind) (<-chan models.Document, error) {
	wsURL, err := h.watchURL(unitID, kind)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: watch dial: %w", ErrUnreachable, err)
	}
	conn.SetReadLimit(maxDocumentMessage)

	log := h.logger.ForDocument(unitID, kind)
	out := make(chan models.Document)

	go func() {
		defer close(out)
		defer conn.Close(websocket.StatusNormalClosure, "")

		for {
			var doc models.Document
			if err := wsjson.Read(ctx, conn, &doc); err != nil {
				if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
					log.Warn().Err(err).Str("func", "httpRemoteStore.Subscribe").Msg("watch connection lost")
				}
				return
			}

			select {
			case out <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// maxDocumentMessage bounds one pushed document.
const maxDocumentMessage = 8 << 20

func (h *httpRemoteStore) watchURL(unitID string, kind models.DocumentKind) (string, error) {
	u, err := url.Parse(h.baseURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + fmt.Sprintf(watchPath, unitID, kind)

	return u.String(), nil
}
