// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merge

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/MKhiriev/go-task-sync/models"
)

// Memo performs a three-way merge of the memo text. A nil base adopts the
// server value.
//
// On conflict the server text wins and the detail carries a patch from the
// fork point to the discarded local text.
func Memo(base *models.Memo, local, server models.Memo) models.MergeResult[models.Memo] {
	if base == nil {
		return models.MergeResult[models.Memo]{Merged: server}
	}

	localChanged := local != *base
	serverChanged := server != *base

	switch {
	case !serverChanged:
		return models.MergeResult[models.Memo]{Merged: local}
	case !localChanged, local == server:
		return models.MergeResult[models.Memo]{Merged: server}
	}

	return models.MergeResult[models.Memo]{
		Merged:       server,
		HasConflicts: true,
		ConflictDetails: []models.ConflictDetail{{
			ItemID:      string(models.KindMemo),
			Field:       models.FieldMemo,
			LocalValue:  string(local),
			ServerValue: string(server),
			Resolution:  models.ResolutionServerWins,
			LocalPatch:  LocalPatch(*base, local),
		}},
	}
}

// LocalPatch returns the patch text turning base into local.
func LocalPatch(base, local models.Memo) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(base), string(local), true)
	patches := dmp.PatchMake(string(base), diffs)
	return dmp.PatchToText(patches)
}

// ApplyPatch re-applies a patch produced by LocalPatch to text. It reports
// false when some hunk did not apply cleanly.
func ApplyPatch(text models.Memo, patch string) (models.Memo, bool, error) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return text, false, err
	}
	out, applied := dmp.PatchApply(patches, string(text))
	for _, ok := range applied {
		if !ok {
			return models.Memo(out), false, nil
		}
	}
	return models.Memo(out), true, nil
}
