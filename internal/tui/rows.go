// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strconv"

	"github.com/MKhiriev/go-task-sync/models"
)

// row is one visible line of the tree.
type row struct {
	id        string
	value     string
	depth     int
	done      bool
	collapsed bool
	children  int
	isTrash   bool
	inTrash   bool
	ref       string
}

// flatten lists the visible items depth first. Children of collapsed items
// are skipped; the trash bin comes last and is opened by showTrash.
func flatten(forest models.Forest, showTrash bool) []row {
	var rows []row
	var trash *models.TreeItem

	n := 0
	for i := range forest {
		if forest[i].IsTrash() {
			trash = &forest[i]
			continue
		}
		n++
		rows = appendRows(rows, forest[i], 0, strconv.Itoa(n), false)
	}

	if trash == nil {
		return rows
	}
	rows = append(rows, row{
		id:        trash.ID,
		value:     trash.Value,
		children:  len(trash.Children),
		collapsed: !showTrash,
		isTrash:   true,
		ref:       "T",
	})
	if showTrash {
		for i, child := range trash.Children {
			rows = appendRows(rows, child, 1, "T."+strconv.Itoa(i+1), true)
		}
	}
	return rows
}

func appendRows(rows []row, item models.TreeItem, depth int, ref string, inTrash bool) []row {
	rows = append(rows, row{
		id:        item.ID,
		value:     item.Value,
		depth:     depth,
		done:      item.Completed(),
		collapsed: item.Collapsed(),
		children:  len(item.Children),
		inTrash:   inTrash,
		ref:       ref,
	})
	if item.Collapsed() && !inTrash {
		return rows
	}
	for i, child := range item.Children {
		rows = appendRows(rows, child, depth+1, ref+"."+strconv.Itoa(i+1), inTrash)
	}
	return rows
}

func indexOf(rows []row, id string) int {
	for i, r := range rows {
		if r.id == id {
			return i
		}
	}
	return -1
}
