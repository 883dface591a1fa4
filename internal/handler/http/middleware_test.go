// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestGZip(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(append([]byte("echo:"), body...))
	})

	tests := []struct {
		name           string
		acceptEncoding string
		gzipRequest    bool
		wantGzipped    bool
	}{
		{"plain both ways", "", false, false},
		{"compressed response", "gzip, deflate", false, true},
		{"compressed request", "", true, false},
		{"compressed both ways", "gzip", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := []byte(`{"hash":"abc"}`)
			req := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(payload))
			if tt.gzipRequest {
				req = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(gzipBytes(t, payload)))
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			rr := httptest.NewRecorder()
			withGZip(echo).ServeHTTP(rr, req)

			body := rr.Body.Bytes()
			if tt.wantGzipped {
				assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
				gr, err := gzip.NewReader(bytes.NewReader(body))
				require.NoError(t, err)
				body, err = io.ReadAll(gr)
				require.NoError(t, err)
			} else {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
			}
			assert.Equal(t, "echo:"+string(payload), string(body))
		})
	}
}

func TestGZip_InvalidRequestBody(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	rr := httptest.NewRecorder()

	withGZip(next).ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGZip_NonJSONResponseNotCompressed(t *testing.T) {
	text := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()

	withGZip(text).ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "pong", rr.Body.String())
}

func TestGZipBody_ClosesOnce(t *testing.T) {
	gr, err := gzip.NewReader(bytes.NewReader(gzipBytes(t, []byte("x"))))
	require.NoError(t, err)
	body := &gzipBody{Reader: gr}

	require.NoError(t, body.Close())
	require.NoError(t, body.Close())
	assert.True(t, body.done)
}

func TestWithTraceID(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = r })

	t.Run("echoes incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(traceIDHeader, "trace-123")
		rr := httptest.NewRecorder()

		h.withTraceID(next).ServeHTTP(rr, req)

		assert.Equal(t, "trace-123", rr.Header().Get(traceIDHeader))
		require.NotNil(t, seen)
		id, ok := utils.GetTraceIDFromContext(seen.Context())
		assert.True(t, ok)
		assert.Equal(t, "trace-123", id)
	})

	t.Run("generates uuid", func(t *testing.T) {
		rr := httptest.NewRecorder()

		h.withTraceID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(rr.Header().Get(traceIDHeader))
		assert.NoError(t, err)
	})
}

func TestWithLogging_RecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)

	h := &Handler{logger: logger.Nop()}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req = req.WithContext(zl.WithContext(req.Context()))
	rr := httptest.NewRecorder()

	h.withLogging(next).ServeHTTP(rr, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, float64(len("short and stout")), entry["size"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/brew", entry["uri"])
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)
	_, err := w.Write([]byte("ok"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 2, w.size)
	assert.Equal(t, rr, w.Unwrap())
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}

	_, _, err := w.Hijack()

	assert.Error(t, err)
}

func TestDocumentHashing(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	good := writeRequest(t, sampleForest(), 0)
	bad := good
	bad.Hash = "nope"

	tests := []struct {
		name       string
		kind       string
		body       any
		wantStatus int
		wantNext   bool
	}{
		{"matching hash", "tasks", good, http.StatusOK, true},
		{"mismatched hash", "tasks", bad, http.StatusUnprocessableEntity, false},
		{"undecodable body passes through", "memo", good, http.StatusOK, true},
		{"unknown kind passes through", "notes", bad, http.StatusOK, true},
		{"invalid json", "tasks", "{", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				var req models.WriteRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req), "body must be restored")
			})

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
			req = withURLParams(req, map[string]string{unitParam: "household", kindParam: tt.kind})
			rr := httptest.NewRecorder()

			h.documentHashing(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantNext, called)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
