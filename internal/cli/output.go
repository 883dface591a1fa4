// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

// styles are bound to the output writer, so redirected output carries no
// escape codes.
type styles struct {
	title     lipgloss.Style
	done      lipgloss.Style
	faint     lipgloss.Style
	warn      lipgloss.Style
	box       lipgloss.Style
	collapsed lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:     r.NewStyle().Bold(true),
		done:      r.NewStyle().Strikethrough(true).Faint(true),
		faint:     r.NewStyle().Faint(true),
		warn:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		box:       r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		collapsed: r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

type listOptions struct {
	showTrash bool
	showAll   bool
	showIDs   bool
}

// renderForest prints the forest as an indented list with the positional
// references accepted by the item commands.
func renderForest(w io.Writer, forest models.Forest, opts listOptions) string {
	st := newStyles(w)
	var b strings.Builder

	top := visibleTop(forest)
	if len(top) == 0 {
		b.WriteString(st.faint.Render("no tasks"))
		b.WriteString("\n")
	}
	renderItems(&b, st, top, "", 0, opts)

	trash, ok := forest.Find(models.TrashID)
	if !ok {
		return b.String()
	}
	count := 0
	models.Forest(trash.Children).Walk(func(*models.TreeItem, string, int) bool {
		count++
		return true
	})
	b.WriteString(st.faint.Render(fmt.Sprintf("Trash: %d item(s)", count)))
	b.WriteString("\n")
	if opts.showTrash {
		renderItems(&b, st, trash.Children, trashRef+".", 1, listOptions{showAll: true, showIDs: opts.showIDs})
	}
	return b.String()
}

func renderItems(b *strings.Builder, st styles, items []models.TreeItem, prefix string, depth int, opts listOptions) {
	for i, item := range items {
		ref := fmt.Sprintf("%s%d", prefix, i+1)

		box := "[ ]"
		value := item.Value
		if item.Completed() {
			box = "[x]"
			value = st.done.Render(value)
		}

		line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", depth), ref, box, value)
		hidden := item.Collapsed() && !opts.showAll && len(item.Children) > 0
		if hidden {
			line += " " + st.collapsed.Render(fmt.Sprintf("(+%d)", len(item.Children)))
		}
		if opts.showIDs {
			line += " " + st.faint.Render(item.ID)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if !hidden {
			renderItems(b, st, item.Children, ref+".", depth+1, opts)
		}
	}
}

func renderStatus(w io.Writer, connected bool, statuses []service.DocumentStatus) string {
	st := newStyles(w)
	var b strings.Builder

	if connected {
		b.WriteString(st.title.Render("online"))
	} else {
		b.WriteString(st.warn.Render("offline"))
	}
	b.WriteString("\n")

	for _, s := range statuses {
		state := "synced"
		switch {
		case s.RemoteDeleted:
			state = st.warn.Render("deleted on server, local changes kept")
		case s.Dirty:
			state = st.warn.Render("local changes not pushed")
		}
		fmt.Fprintf(&b, "%-6s %s\n", s.Kind, state)
		fmt.Fprintf(&b, "       version %d  hash %s  base %s\n", s.ServerVersion, orDash(s.LocalHash), orDash(s.BaseHash))
	}
	return b.String()
}

func renderConflicts(w io.Writer, reports []models.ConflictReport) string {
	st := newStyles(w)
	var b strings.Builder

	for i, r := range reports {
		var body strings.Builder
		fmt.Fprintf(&body, "%s  %s  %s\n", st.title.Render(fmt.Sprintf("#%d", i+1)), r.Kind, r.At.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&body, "action: %s", r.Action)
		for _, d := range r.Details {
			fmt.Fprintf(&body, "\n- %s %s: local %s, server %s (%s)", d.ItemID, d.Field, formatValue(d.LocalValue), formatValue(d.ServerValue), d.Resolution)
		}
		b.WriteString(st.box.Render(body.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "none"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
