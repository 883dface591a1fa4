// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/models"
)

func newValidator(t *testing.T) *DocumentValidator {
	t.Helper()
	v, err := NewDocumentValidator()
	require.NoError(t, err)
	return v
}

func tasksDoc(t *testing.T, body string) models.Document {
	t.Helper()
	f, err := models.DecodeForest(json.RawMessage(body))
	require.NoError(t, err)
	return models.Document{UnitID: "family", Kind: models.KindTasks, Body: json.RawMessage(body), Hash: canonical.Hash(f)}
}

func memoDoc(text string) models.Document {
	body, _ := json.Marshal(text)
	return models.Document{UnitID: "family", Kind: models.KindMemo, Body: body, Hash: canonical.Hash(models.Memo(text))}
}

func TestDocumentValidator_ValidDocuments(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name string
		doc  models.Document
	}{
		{"empty forest", tasksDoc(t, `[]`)},
		{"forest with attributes", tasksDoc(t, `[
			{"id":"1","value":"Buy milk","completed":true,"timerDuration":25,"custom":{"any":"thing"},
			 "children":[{"id":2,"value":"Oat milk","collapsed":false}]},
			{"id":"trash","value":"Trash"}
		]`)},
		{"memo", memoDoc("remember the keys")},
		{"empty memo", memoDoc("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(context.Background(), tt.doc))
			assert.NoError(t, v.Validate(context.Background(), &tt.doc))
		})
	}
}

func TestDocumentValidator_InvalidDocuments(t *testing.T) {
	v := newValidator(t)

	withHash := func(d models.Document, h string) models.Document {
		d.Hash = h
		return d
	}
	withUnit := func(d models.Document, u string) models.Document {
		d.UnitID = u
		return d
	}

	tests := []struct {
		name string
		doc  models.Document
		want error
	}{
		{"empty unit", withUnit(memoDoc("x"), ""), ErrInvalidUnitID},
		{"unit with slash", withUnit(memoDoc("x"), "a/b"), ErrInvalidUnitID},
		{"unit too long", withUnit(memoDoc("x"), strings.Repeat("u", maxUnitIDLength+1)), ErrInvalidUnitID},
		{"unknown kind", models.Document{UnitID: "family", Kind: "notes", Body: json.RawMessage(`"x"`)}, ErrInvalidKind},
		{"memo is not a string", models.Document{UnitID: "family", Kind: models.KindMemo, Body: json.RawMessage(`42`)}, ErrInvalidBody},
		{"forest is not an array", models.Document{UnitID: "family", Kind: models.KindTasks, Body: json.RawMessage(`{"id":"1"}`)}, ErrInvalidBody},
		{"item without id", models.Document{UnitID: "family", Kind: models.KindTasks, Body: json.RawMessage(`[{"value":"x"}]`)}, ErrInvalidBody},
		{"completed is not bool", models.Document{UnitID: "family", Kind: models.KindTasks, Body: json.RawMessage(`[{"id":"1","completed":"yes"}]`)}, ErrInvalidBody},
		{"malformed json", models.Document{UnitID: "family", Kind: models.KindTasks, Body: json.RawMessage(`[{`)}, ErrBodyIsNotDecoded},
		{"duplicate ids", tasksDoc(t, `[{"id":"1","children":[{"id":"1"}]}]`), ErrDuplicateItemID},
		{"wrong hash", withHash(memoDoc("x"), "nope"), ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.doc)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDocumentValidator_HashIgnoresKeyOrder(t *testing.T) {
	v := newValidator(t)

	doc := tasksDoc(t, `[{"id":"1","value":"a","completed":true}]`)
	doc.Body = json.RawMessage(`[{"completed":true,"value":"a","id":"1"}]`)

	assert.NoError(t, v.Validate(context.Background(), doc))
}

func TestDocumentValidator_SelectedFields(t *testing.T) {
	v := newValidator(t)
	doc := memoDoc("x")
	doc.Hash = "stale"

	assert.NoError(t, v.Validate(context.Background(), doc, FieldUnitID, FieldKind, FieldBody))
	assert.ErrorIs(t, v.Validate(context.Background(), doc, FieldHash), ErrInvalidHash)
	assert.ErrorIs(t, v.Validate(context.Background(), doc, "version"), ErrUnknownField)
}

func TestDocumentValidator_UnsupportedType(t *testing.T) {
	v := newValidator(t)

	assert.ErrorIs(t, v.Validate(context.Background(), "not a document"), ErrUnsupportedType)
}
