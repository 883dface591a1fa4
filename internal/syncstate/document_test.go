// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncstate

import (
	"testing"

	"github.com/MKhiriev/go-task-sync/internal/canonical"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forestOf(values ...string) models.Forest {
	f := models.Forest{}
	for i, v := range values {
		f = append(f, models.TreeItem{ID: string(rune('1' + i)), Value: v})
	}
	return f.EnsureTrash()
}

func TestDocument_StartsClean(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)

	assert.False(t, d.Dirty())
	assert.Empty(t, d.BaseHash())
	assert.Empty(t, d.LastServerHash())
	_, ok := d.ForkPoint()
	assert.False(t, ok)
	_, ok = d.LastSynced()
	assert.False(t, ok)
	assert.Equal(t, models.KindTasks, d.Kind())
}

func TestDocument_MarkDirtyCapturesForkPointOnce(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)
	original := forestOf("Original")

	require.True(t, d.MarkDirty(original))
	assert.True(t, d.Dirty())
	assert.Equal(t, canonical.Hash(original), d.BaseHash())

	// later edits while dirty never move the fork point
	edited := forestOf("Edited")
	assert.False(t, d.MarkDirty(edited))

	fork, ok := d.ForkPoint()
	require.True(t, ok)
	assert.Equal(t, "Original", fork[0].Value)
	assert.Equal(t, canonical.Hash(original), d.BaseHash())
}

func TestDocument_ForkPointIsACopy(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)
	current := forestOf("Original")

	d.MarkDirty(current)
	current[0].Value = "mutated after capture"

	fork, ok := d.ForkPoint()
	require.True(t, ok)
	assert.Equal(t, "Original", fork[0].Value)

	fork[0].Value = "mutated copy"
	again, _ := d.ForkPoint()
	assert.Equal(t, "Original", again[0].Value)
}

func TestDocument_ClearDirtyDropsForkPoint(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)
	d.MarkDirty(forestOf("Original"))
	d.SetServerHash("srv")

	d.ClearDirty()

	assert.False(t, d.Dirty())
	assert.Empty(t, d.BaseHash())
	assert.Equal(t, "srv", d.LastServerHash())
	_, ok := d.ForkPoint()
	assert.False(t, ok)

	// a new episode captures a new fork point
	require.True(t, d.MarkDirty(forestOf("Second")))
	fork, _ := d.ForkPoint()
	assert.Equal(t, "Second", fork[0].Value)
}

func TestDocument_SetBaseFromServer(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)
	d.MarkDirty(forestOf("Original"))

	server := forestOf("Server")
	h := canonical.Hash(server)
	d.SetBaseFromServer(server, h)

	assert.False(t, d.Dirty())
	assert.Equal(t, h, d.BaseHash())
	assert.Equal(t, h, d.LastServerHash())

	_, ok := d.ForkPoint()
	assert.False(t, ok, "a clean document has no fork point")

	synced, ok := d.LastSynced()
	require.True(t, ok)
	assert.Equal(t, "Server", synced[0].Value)

	// the next edit forks from the current value, not from the last synced one
	require.True(t, d.MarkDirty(forestOf("Local")))
	fork, _ := d.ForkPoint()
	assert.Equal(t, "Local", fork[0].Value)
}

func TestDocument_SetServerHashKeepsDirtyState(t *testing.T) {
	d := NewDocument[models.Memo](models.KindMemo)
	d.MarkDirty(models.Memo("draft"))

	d.SetServerHash("abc")

	assert.True(t, d.Dirty())
	assert.Equal(t, "abc", d.LastServerHash())
	assert.Equal(t, canonical.Hash(models.Memo("draft")), d.BaseHash())
}

func TestDocument_ServerVersionOnlyGrows(t *testing.T) {
	d := NewDocument[models.Memo](models.KindMemo)

	d.SetServerVersion(3)
	d.SetServerVersion(2)
	assert.Equal(t, int64(3), d.ServerVersion())

	d.SetServerVersion(5)
	assert.Equal(t, int64(5), d.ServerVersion())
}

func TestDocument_Reset(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)
	d.MarkDirty(forestOf("x"))
	d.SetServerHash("h")
	d.SetServerVersion(9)

	d.Reset()

	assert.False(t, d.Dirty())
	assert.Empty(t, d.BaseHash())
	assert.Empty(t, d.LastServerHash())
	assert.Zero(t, d.ServerVersion())
	_, ok := d.LastSynced()
	assert.False(t, ok)
}

func TestDocument_ExportRestoreRoundTrip(t *testing.T) {
	src := NewDocument[models.Forest](models.KindTasks)
	original := forestOf("Original", "Second")
	src.MarkDirty(original)
	src.SetServerHash("srv-hash")
	src.SetServerVersion(4)

	meta, err := src.Export()
	require.NoError(t, err)
	assert.Equal(t, models.KindTasks, meta.Kind)
	assert.True(t, meta.Dirty)
	assert.NotEmpty(t, meta.BaseBody)

	dst := NewDocument[models.Forest](models.KindTasks)
	require.NoError(t, dst.Restore(meta))

	assert.True(t, dst.Dirty())
	assert.Equal(t, src.BaseHash(), dst.BaseHash())
	assert.Equal(t, "srv-hash", dst.LastServerHash())
	assert.Equal(t, int64(4), dst.ServerVersion())

	fork, ok := dst.ForkPoint()
	require.True(t, ok)
	assert.Equal(t, canonical.Hash(original), canonical.Hash(fork))
}

func TestDocument_ExportCleanWithoutBase(t *testing.T) {
	d := NewDocument[models.Memo](models.KindMemo)

	meta, err := d.Export()
	require.NoError(t, err)
	assert.False(t, meta.Dirty)
	assert.Empty(t, meta.BaseBody)
}

func TestDocument_RestoreRejectsDirtyWithoutBase(t *testing.T) {
	d := NewDocument[models.Memo](models.KindMemo)

	err := d.Restore(models.SyncMeta{Kind: models.KindMemo, Dirty: true})

	require.ErrorIs(t, err, ErrInvalidMeta)
	assert.False(t, d.Dirty())
}

func TestDocument_RestoreRejectsBrokenBody(t *testing.T) {
	d := NewDocument[models.Forest](models.KindTasks)

	err := d.Restore(models.SyncMeta{Kind: models.KindTasks, Dirty: true, BaseBody: []byte("{not json")})

	require.Error(t, err)
	assert.False(t, d.Dirty())
}
