// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const refreshInterval = time.Second

type mode int

const (
	modeBrowse mode = iota
	modeInput
	modeMemo
	modeConfirmEmpty
)

// inputAction is what the single-line input is collecting text for.
type inputAction int

const (
	inputNew inputAction = iota
	inputChild
	inputEdit
)

type model struct {
	ctx    context.Context
	editor Editor
	source Source
	unitID string

	rows      []row
	idx       int
	showTrash bool
	memo      string
	connected bool
	pending   bool

	mode     mode
	action   inputAction
	targetID string
	input    textinput.Model
	memoArea textarea.Model

	status  string
	errMsg  string
	syncing bool

	copyText func(string) error
}

func newModel(ctx context.Context, editor Editor, source Source, unitID string) model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 500

	area := textarea.New()
	area.ShowLineNumbers = false

	m := model{
		ctx:      ctx,
		editor:   editor,
		source:   source,
		unitID:   unitID,
		input:    input,
		memoArea: area,
		copyText: func(string) error { return nil },
	}
	m.refresh("")
	return m
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh re-reads the client state and keeps the cursor on selectID, or
// on the previously selected item.
func (m *model) refresh(selectID string) {
	if selectID == "" {
		if r, ok := m.current(); ok {
			selectID = r.id
		}
	}

	m.rows = flatten(m.source.Tasks(), m.showTrash)
	m.memo = string(m.source.Memo())
	m.connected = m.source.Connected()
	m.pending = false
	for _, s := range m.source.Status() {
		if s.Dirty || s.RemoteDeleted {
			m.pending = true
		}
	}

	if i := indexOf(m.rows, selectID); i >= 0 {
		m.idx = i
	}
	if m.idx >= len(m.rows) {
		m.idx = len(m.rows) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m model) current() (row, bool) {
	if m.idx < 0 || m.idx >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.idx], true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.mode == modeBrowse {
			m.refresh("")
		}
		return m, tick()
	case editDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
		} else {
			m.errMsg = ""
			m.status = msg.status
		}
		m.refresh(msg.selectID)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateWidgets(msg)
	}
	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeInput:
		return m.updateInput(keyMsg)
	case modeMemo:
		return m.updateMemo(keyMsg)
	case modeConfirmEmpty:
		return m.updateConfirm(keyMsg)
	default:
		return m.updateBrowse(keyMsg)
	}
}

func (m model) updateWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeInput:
		m.input, cmd = m.input.Update(msg)
	case modeMemo:
		m.memoArea, cmd = m.memoArea.Update(msg)
	}
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur, hasRow := m.current()

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.rows)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.newItem):
		return m.startInput(inputNew, "", ""), textinput.Blink
	case key.Matches(msg, keys.showTrash):
		m.showTrash = !m.showTrash
		m.refresh("")
	case key.Matches(msg, keys.emptyTrash):
		m.mode = modeConfirmEmpty
	case key.Matches(msg, keys.memo):
		m.mode = modeMemo
		m.memoArea.SetValue(m.memo)
		m.memoArea.Focus()
		return m, textarea.Blink
	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = "syncing..."
		m.errMsg = ""
		return m, m.cmdSync()
	case !hasRow:
		m.status = "no tasks yet, press n to add one"
	case cur.isTrash:
		if key.Matches(msg, keys.toggle, keys.expand, keys.collapse) {
			m.showTrash = key.Matches(msg, keys.expand) || (key.Matches(msg, keys.toggle) && !m.showTrash)
			m.refresh(cur.id)
		}
	case key.Matches(msg, keys.done):
		return m, m.cmdEdit("", cur.id, func(ctx context.Context) error {
			return m.editor.SetCompleted(ctx, cur.id, !cur.done)
		})
	case key.Matches(msg, keys.toggle):
		if cur.children > 0 {
			return m, m.cmdFold(cur, !cur.collapsed)
		}
	case key.Matches(msg, keys.collapse):
		if cur.children > 0 && !cur.collapsed {
			return m, m.cmdFold(cur, true)
		}
	case key.Matches(msg, keys.expand):
		if cur.collapsed {
			return m, m.cmdFold(cur, false)
		}
	case key.Matches(msg, keys.addChild):
		if cur.inTrash {
			m.errMsg = humanizeError(errInTrash)
			return m, nil
		}
		return m.startInput(inputChild, cur.id, ""), textinput.Blink
	case key.Matches(msg, keys.edit):
		return m.startInput(inputEdit, cur.id, cur.value), textinput.Blink
	case key.Matches(msg, keys.delete):
		if cur.inTrash {
			m.errMsg = humanizeError(errInTrash)
			return m, nil
		}
		return m, m.cmdEdit("moved to trash", "", func(ctx context.Context) error {
			return m.editor.MoveToTrash(ctx, cur.id)
		})
	case key.Matches(msg, keys.restore):
		if !cur.inTrash || cur.depth != 1 {
			return m, nil
		}
		return m, m.cmdEdit("restored", cur.id, func(ctx context.Context) error {
			return m.editor.Move(ctx, cur.id, "")
		})
	case key.Matches(msg, keys.copy):
		if err := m.copyText(cur.value); err != nil {
			m.errMsg = fmt.Sprintf("copy failed: %v", err)
			return m, nil
		}
		m.status = "copied"
	}
	return m, nil
}

func (m model) startInput(action inputAction, targetID, value string) model {
	m.mode = modeInput
	m.action = action
	m.targetID = targetID
	m.errMsg = ""
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, keys.enter):
		value := m.input.Value()
		action, target := m.action, m.targetID
		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")

		if action == inputEdit {
			return m, m.cmdEdit("saved", target, func(ctx context.Context) error {
				return m.editor.EditValue(ctx, target, value)
			})
		}
		return m, m.cmdAdd(target, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateMemo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeBrowse
		m.memoArea.Blur()
		return m, nil
	case key.Matches(msg, keys.save):
		text := m.memoArea.Value()
		m.mode = modeBrowse
		m.memoArea.Blur()
		return m, m.cmdEdit("memo saved", "", func(ctx context.Context) error {
			return m.editor.SetMemo(ctx, text)
		})
	}

	var cmd tea.Cmd
	m.memoArea, cmd = m.memoArea.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.mode = modeBrowse
		return m, m.cmdEdit("trash emptied", "", m.editor.EmptyTrash)
	case key.Matches(msg, keys.no):
		m.mode = modeBrowse
	}
	return m, nil
}

func (m model) cmdEdit(status, selectID string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return editDoneMsg{status: status, selectID: selectID, err: fn(ctx)}
	}
}

func (m model) cmdAdd(parentID, value string) tea.Cmd {
	ctx, editor := m.ctx, m.editor
	return func() tea.Msg {
		id, err := editor.AddItem(ctx, parentID, value)
		return editDoneMsg{status: "added", selectID: id, err: err}
	}
}

func (m model) cmdFold(r row, collapsed bool) tea.Cmd {
	return m.cmdEdit("", r.id, func(ctx context.Context) error {
		return m.editor.SetCollapsed(ctx, r.id, collapsed)
	})
}

func (m model) cmdSync() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		return editDoneMsg{status: "synced", err: source.Sync(ctx)}
	}
}
