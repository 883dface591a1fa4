// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

func TestRenderForest(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name string
		opts listOptions
	}{
		{"list-default", listOptions{}},
		{"list-all", listOptions{showAll: true}},
		{"list-trash-ids", listOptions{showTrash: true, showIDs: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			g.Assert(t, tt.name, []byte(renderForest(&buf, sampleForest(), tt.opts)))
		})
	}
}

func TestRenderForest_Empty(t *testing.T) {
	var buf bytes.Buffer
	out := renderForest(&buf, models.Forest{}.EnsureTrash(), listOptions{})
	assert.Equal(t, "no tasks\nTrash: 0 item(s)\n", out)
}

func TestRenderStatus(t *testing.T) {
	var buf bytes.Buffer
	out := renderStatus(&buf, false, []service.DocumentStatus{
		{Kind: models.KindTasks, ServerVersion: 4, LocalHash: "abc", BaseHash: "abc"},
		{Kind: models.KindMemo, Dirty: true, ServerVersion: 2, LocalHash: "def"},
	})

	assert.Contains(t, out, "offline\n")
	assert.Contains(t, out, "tasks  synced\n")
	assert.Contains(t, out, "memo   local changes not pushed\n")
	assert.Contains(t, out, "version 2  hash def  base -")
}

func TestRenderConflicts(t *testing.T) {
	var buf bytes.Buffer
	out := renderConflicts(&buf, []models.ConflictReport{{
		Kind:   models.KindTasks,
		At:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Action: "merge",
		Details: []models.ConflictDetail{
			{ItemID: "milk", Field: "value", LocalValue: "Oat milk", ServerValue: "Soy milk", Resolution: models.ResolutionServerWins},
			{ItemID: "bread", Field: "completed", LocalValue: nil, ServerValue: true, Resolution: models.ResolutionServerWins},
		},
	}})

	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "action: merge")
	assert.Contains(t, out, `milk value: local "Oat milk", server "Soy milk"`)
	assert.Contains(t, out, "bread completed: local none, server true")
}
