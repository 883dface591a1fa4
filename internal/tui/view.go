// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
)

const uiDivider = "──────────────────────────────────────────────────────"

const memoPreviewLines = 3

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tasksync · " + m.unitID))
	b.WriteString("  ")
	b.WriteString(m.connectionLabel())
	b.WriteString("\n")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	switch m.mode {
	case modeMemo:
		b.WriteString("Memo\n")
		b.WriteString(m.memoArea.View())
		b.WriteString("\n")
		return appStyle.Render(b.String() + footer(memoHelp))
	case modeConfirmEmpty:
		b.WriteString(overlayBoxStyle.Render("Delete everything in the trash?\n\ny confirm   n cancel"))
		b.WriteString("\n")
		return appStyle.Render(b.String())
	}

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("no tasks"))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		line := renderRow(r)
		if i == m.idx {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(uiDivider)
	b.WriteString("\n")
	b.WriteString(renderMemoPreview(m.memo))

	if m.mode == modeInput {
		b.WriteString("\n")
		b.WriteString(m.inputLabel())
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.status))
		b.WriteString("\n")
	}

	help := browseHelp
	if m.mode == modeInput {
		help = inputHelp
	}
	return appStyle.Render(b.String() + footer(help))
}

func renderRow(r row) string {
	indent := strings.Repeat("  ", r.depth)

	if r.isTrash {
		marker := "▸"
		if !r.collapsed {
			marker = "▾"
		}
		return fmt.Sprintf("%s%s %s (%d)", indent, marker, r.value, r.children)
	}

	box := "[ ]"
	value := r.value
	if r.done {
		box = "[x]"
		value = doneStyle.Render(value)
	}

	fold := " "
	if r.children > 0 {
		fold = "▾"
		if r.collapsed {
			fold = "▸"
		}
	}

	line := fmt.Sprintf("%s%s %s %s", indent, fold, box, value)
	if r.collapsed && r.children > 0 {
		line += helpStyle.Render(fmt.Sprintf(" (+%d)", r.children))
	}
	return line
}

func renderMemoPreview(memo string) string {
	if strings.TrimSpace(memo) == "" {
		return helpStyle.Render("memo: empty") + "\n"
	}

	lines := strings.Split(strings.TrimRight(memo, "\n"), "\n")
	more := len(lines) > memoPreviewLines
	if more {
		lines = lines[:memoPreviewLines]
	}

	var b strings.Builder
	b.WriteString("memo:\n")
	for _, l := range lines {
		b.WriteString("  ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	if more {
		b.WriteString(helpStyle.Render("  ..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) connectionLabel() string {
	label := "online"
	if !m.connected {
		label = "offline"
	}
	if m.pending {
		return warnStyle.Render(label + ", unsynced changes")
	}
	return helpStyle.Render(label)
}

func (m model) inputLabel() string {
	switch m.action {
	case inputChild:
		return "New subtask: "
	case inputEdit:
		return "Edit: "
	default:
		return "New task: "
	}
}

func footer(help string) string {
	return "\n" + helpStyle.Render(help)
}
