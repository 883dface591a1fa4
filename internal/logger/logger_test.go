// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/models"
)

// captured returns a logger for role whose entries land in the returned buffer.
func captured(role string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewLogger(role)
	l.Logger = l.Output(buf)
	return l, buf
}

func lastEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestNewLogger_EntryShape(t *testing.T) {
	l, buf := captured("server")
	l.Info().Msg("listening")

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "server", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "func")
	assert.Equal(t, "listening", entry["message"])

	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Error().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestGetChildLogger(t *testing.T) {
	parent, buf := captured("client")
	child := parent.GetChildLogger()
	require.NotSame(t, parent, child)

	child.Info().Msg("from child")
	assert.Equal(t, "client", lastEntry(t, buf.Bytes())["role"])
}

func TestForDocument_AddsFields(t *testing.T) {
	l, buf := captured("doc")
	l.ForDocument("unit-7", models.KindMemo).Info().Msg("merged")

	entry := lastEntry(t, buf.Bytes())
	assert.Equal(t, "unit-7", entry["unit_id"])
	assert.Equal(t, "memo", entry["kind"])
	assert.Equal(t, "doc", entry["role"])
}

func TestFromContextAndRequest(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.NotNil(t, FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "abc").Logger()
	ctx := zl.WithContext(context.Background())

	FromContext(ctx).Info().Msg("job")
	assert.Equal(t, "abc", lastEntry(t, buf.Bytes())["trace_id"])

	req := httptest.NewRequest(http.MethodPut, "/api/units/u/documents/memo", nil).WithContext(ctx)
	FromRequest(req).Info().Msg("request")
	assert.Equal(t, "request", lastEntry(t, buf.Bytes())["message"])
}

func TestNewClientLogger(t *testing.T) {
	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.log")

		NewClientLogger("client", path).Info().Str("unit_id", "u1").Msg("synced")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		entry := lastEntry(t, data)
		assert.Equal(t, "client", entry["role"])
		assert.Equal(t, "u1", entry["unit_id"])
	})

	t.Run("unwritable path falls back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "client.log")
		assert.NotNil(t, NewClientLogger("client", path))
	})
}

func TestSetLevel(t *testing.T) {
	l, buf := captured("lvl")

	require.NoError(t, l.SetLevel("warn"))
	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")

	assert.Error(t, l.SetLevel("loud"))
}
