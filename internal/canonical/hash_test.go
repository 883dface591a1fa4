// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package canonical

import (
	"fmt"
	"testing"

	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestHashBytes_KnownVectors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "wvjl67o803"},
		{"hello", "19jqrdkps12"},
		{`{"a":1}`, "18wxssjtft2"},
		{"null", "1omwfhr5hyy"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, HashBytes([]byte(tt.input)))
		})
	}
}

func TestHash_UsesCanonicalForm(t *testing.T) {
	forest := models.Forest{
		{ID: "1", Value: "Original"},
		{ID: models.TrashID, Value: "Trash"},
	}

	assert.Equal(t, "152uginzhkz", Hash(forest))
	assert.Equal(t, HashBytes([]byte(Canonicalize(forest))), Hash(forest))
}

func TestHash_Deterministic(t *testing.T) {
	v := map[string]any{"x": []any{1, "two", nil}, "y": map[string]any{"z": true}}

	assert.Equal(t, Hash(v), Hash(v))
	assert.Equal(t, Hash(v), Hash(map[string]any{"y": map[string]any{"z": true}, "x": []any{1, "two", nil}}))
}

func TestHash_SensitiveToChanges(t *testing.T) {
	values := []any{
		nil,
		Undefined,
		"",
		"a",
		"b",
		0,
		1,
		true,
		false,
		[]any{},
		[]any{1, 2},
		[]any{2, 1},
		map[string]any{},
		map[string]any{"a": 1},
		map[string]any{"a": 2},
		map[string]any{"b": 1},
		models.Forest{{ID: "1", Value: "Task A"}},
		models.Forest{{ID: "1", Value: "Task B"}},
		models.Forest{{ID: "2", Value: "Task A"}},
		models.Forest{{ID: "1", Value: "Task A", Attrs: map[string]any{"completed": true}}},
		models.Forest{{ID: "1", Value: "Task A", Children: []models.TreeItem{{ID: "2", Value: "x"}}}},
	}

	seen := make(map[string]int, len(values))
	for i, v := range values {
		h := Hash(v)
		if j, dup := seen[h]; dup {
			t.Fatalf("hash collision between values %d and %d: %s", j, i, h)
		}
		seen[h] = i
	}
}

func TestHash_IsBase36(t *testing.T) {
	h := Hash("anything")

	assert.NotEmpty(t, h)
	for _, r := range h {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "unexpected rune %q", r)
	}
}
