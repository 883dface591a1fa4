// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

// trashRef prefixes references into the trash bin, e.g. "T.2".
const trashRef = "T"

// resolveRef turns a reference typed by the user into an item id. A
// reference is either an item id or a dotted 1-based position as printed by
// list ("2.1" is the first child of the second top-level item).
func resolveRef(forest models.Forest, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidRef)
	}
	if item, ok := forest.Find(ref); ok && !item.IsTrash() {
		return item.ID, nil
	}

	parts := strings.Split(ref, ".")
	level := visibleTop(forest)
	if strings.EqualFold(parts[0], trashRef) {
		trash, ok := forest.Find(models.TrashID)
		if !ok || len(parts) == 1 {
			return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
		}
		level = trash.Children
		parts = parts[1:]
	}

	var item *models.TreeItem
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > len(level) {
			return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
		}
		item = &level[n-1]
		level = item.Children
	}
	return item.ID, nil
}

// visibleTop returns the top-level items without the trash bin.
func visibleTop(forest models.Forest) []models.TreeItem {
	out := make([]models.TreeItem, 0, len(forest))
	for _, item := range forest {
		if !item.IsTrash() {
			out = append(out, item)
		}
	}
	return out
}

// resolveParent resolves an optional parent reference; empty means top
// level.
func resolveParent(forest models.Forest, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	return resolveRef(forest, ref)
}
