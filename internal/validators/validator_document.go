// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/models"
)

const (
	FieldUnitID = "unit_id"
	FieldKind   = "kind"
	FieldBody   = "body"
	FieldHash   = "hash"
)

const maxUnitIDLength = 128

//go:embed schema/*.json
var schemaFS embed.FS

var schemaFiles = map[models.DocumentKind]string{
	models.KindTasks: "schema/forest.schema.json",
	models.KindMemo:  "schema/memo.schema.json",
}

// DocumentValidator validates shared documents before they are stored.
type DocumentValidator struct {
	schemas map[models.DocumentKind]*jsonschema.Schema
}

// NewDocumentValidator compiles the embedded document schemas.
func NewDocumentValidator() (*DocumentValidator, error) {
	c := jsonschema.NewCompiler()
	schemas := make(map[models.DocumentKind]*jsonschema.Schema, len(schemaFiles))

	for kind, file := range schemaFiles {
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", file, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", file, err)
		}
		if err = c.AddResource(file, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", file, err)
		}
		sch, err := c.Compile(file)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", file, err)
		}
		schemas[kind] = sch
	}

	return &DocumentValidator{schemas: schemas}, nil
}

func (v *DocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Document:
		return v.validateDocument(ctx, value, fields...)
	case *models.Document:
		return v.validateDocument(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *DocumentValidator) validateDocument(_ context.Context, doc models.Document, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUnitID, FieldKind, FieldBody, FieldHash}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldUnitID:
			err = validateUnitID(doc.UnitID)
		case FieldKind:
			if !doc.Kind.Valid() {
				err = fmt.Errorf("%w: %q", ErrInvalidKind, doc.Kind)
			}
		case FieldBody:
			err = v.validateBody(doc.Kind, doc.Body)
		case FieldHash:
			err = validateHash(doc)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func validateUnitID(unitID string) error {
	if strings.TrimSpace(unitID) == "" || len(unitID) > maxUnitIDLength || strings.ContainsAny(unitID, "/?#") {
		return fmt.Errorf("%w: %q", ErrInvalidUnitID, unitID)
	}
	return nil
}

func (v *DocumentValidator) validateBody(kind models.DocumentKind, body []byte) error {
	sch, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBodyIsNotDecoded, err)
	}
	if err = sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if kind != models.KindTasks {
		return nil
	}

	forest, err := models.DecodeForest(body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBodyIsNotDecoded, err)
	}
	return validateForestShape(forest)
}

// validateForestShape rejects forests the merge engine cannot align: the same
// id twice anywhere in the tree.
func validateForestShape(forest models.Forest) error {
	seen := make(map[string]struct{})
	var dup string
	forest.Walk(func(item *models.TreeItem, _ string, _ int) bool {
		if _, ok := seen[item.ID]; ok {
			dup = item.ID
			return false
		}
		seen[item.ID] = struct{}{}
		return true
	})
	if dup != "" {
		return fmt.Errorf("%w: %q", ErrDuplicateItemID, dup)
	}
	return nil
}

// validateHash checks that doc.Hash is the content hash of the typed body,
// the value every client computes before a write.
func validateHash(doc models.Document) error {
	var value any
	switch doc.Kind {
	case models.KindTasks:
		f, err := models.DecodeForest(doc.Body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBodyIsNotDecoded, err)
		}
		value = f
	case models.KindMemo:
		m, err := models.DecodeMemo(doc.Body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBodyIsNotDecoded, err)
		}
		value = m
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, doc.Kind)
	}

	if got := canonical.Hash(value); got != doc.Hash {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidHash, got, doc.Hash)
	}
	return nil
}
