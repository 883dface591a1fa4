// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

const (
	pingPath     = "/api/ping"
	documentPath = "/api/units/{unit}/documents/{kind}"
	watchPath    = "/api/units/%s/documents/%s/watch"
)

type httpRemoteStore struct {
	client  *utils.HTTPClient
	baseURL string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the REST + websocket implementation of
// [RemoteStore]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL, request timeout and retry count.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout).
		SetRetryCount(adapterCfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &httpRemoteStore{client: client, baseURL: baseURL, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpRemoteStore) Ping(ctx context.Context) error {
	var ping models.PingResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&ping).
		Get(pingPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) Read(ctx context.Context, unitID string, kind models.DocumentKind) (models.Document, error) {
	var doc models.Document

	resp, err := h.documentRequest(ctx, unitID, kind).
		SetResult(&doc).
		Get(documentPath)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: read request: %w", ErrUnreachable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	return doc, nil
}

func (h *httpRemoteStore) Write(ctx context.Context, unitID string, kind models.DocumentKind, req models.WriteRequest) (models.Document, error) {
	var doc models.Document

	resp, err := h.documentRequest(ctx, unitID, kind).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&doc).
		Put(documentPath)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: write request: %w", ErrUnreachable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	h.logger.Debug().
		Str("func", "httpRemoteStore.Write").
		Str("unit_id", unitID).
		Str("kind", string(kind)).
		Int64("version", doc.Version).
		Msg("document written")

	return doc, nil
}

func (h *httpRemoteStore) Delete(ctx context.Context, unitID string, kind models.DocumentKind, baseVersion int64) (models.Document, error) {
	var doc models.Document

	resp, err := h.documentRequest(ctx, unitID, kind).
		SetQueryParam("base_version", strconv.FormatInt(baseVersion, 10)).
		SetResult(&doc).
		Delete(documentPath)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: delete request: %w", ErrUnreachable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	return doc, nil
}

func (h *httpRemoteStore) documentRequest(ctx context.Context, unitID string, kind models.DocumentKind) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"unit": unitID,
			"kind": string(kind),
		})
}
