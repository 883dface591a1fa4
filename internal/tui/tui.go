// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the full-screen task tree browser of the client.
package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

// Editor is the set of local edits the browser can make.
type Editor interface {
	AddItem(ctx context.Context, parentID, value string) (string, error)
	EditValue(ctx context.Context, id, value string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	SetCollapsed(ctx context.Context, id string, collapsed bool) error
	Move(ctx context.Context, id, parentID string) error
	MoveToTrash(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context) error
	SetMemo(ctx context.Context, text string) error
}

// Source is the read side of the client state.
type Source interface {
	Tasks() models.Forest
	Memo() models.Memo
	Connected() bool
	Status() []service.DocumentStatus
	Sync(ctx context.Context) error
}

type TUI struct {
	editor Editor
	source Source
	unitID string
	logger *logger.Logger
}

func New(services *service.ClientServices, unitID string, logger *logger.Logger) *TUI {
	return &TUI{
		editor: services.Tasks,
		source: services.Coordinator,
		unitID: unitID,
		logger: logger,
	}
}

// Run shows the browser until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	m := newModel(ctx, t.editor, t.source, t.unitID)
	m.copyText = clipboard.WriteAll

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() == nil {
		t.logger.Err(err).Str("func", "TUI.Run").Msg("ui stopped with error")
		return err
	}
	return nil
}
