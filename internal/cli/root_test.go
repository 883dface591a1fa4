// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tasksync", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"run", "ui", "list", "add", "edit", "done", "undone", "collapse", "move",
		"trash", "empty-trash", "memo", "sync", "status", "version", "conflicts", "restore",
	}

	for _, name := range commands {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"server", "s", ""},
		{"db", "", ""},
		{"unit", "u", ""},
		{"log-level", "", ""},
		{"log-file", "", ""},
		{"config", "c", ""},
		{"format", "", "text"},
		{"offline", "", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.def, f.DefValue)
		})
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		command []string
		flag    string
	}{
		{[]string{"list"}, "trash"},
		{[]string{"list"}, "all"},
		{[]string{"list"}, "ids"},
		{[]string{"add"}, "parent"},
		{[]string{"move"}, "parent"},
		{[]string{"collapse"}, "expand"},
		{[]string{"memo"}, "clear"},
		{[]string{"sync"}, "accept-delete"},
		{[]string{"conflicts"}, "copy"},
		{[]string{"conflicts"}, "clear"},
		{[]string{"conflicts"}, "reapply"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v --%s", tt.command, tt.flag), func(t *testing.T) {
			sub, _, err := cmd.Find(tt.command)
			require.NoError(t, err)
			assert.NotNil(t, sub.Flags().Lookup(tt.flag))
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"exit error", WrapExitError(ExitCommandError, "bad ref", ErrInvalidRef), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", WrapExitError(ExitNeedsDecision, "x", nil)), ExitNeedsDecision},
		{"remote deleted", fmt.Errorf("%w: memo", service.ErrRemoteDeleted), ExitNeedsDecision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	err := WrapExitError(ExitCommandError, "resolve item", ErrInvalidRef)
	assert.Equal(t, "resolve item: invalid item reference", err.Error())
	assert.ErrorIs(t, err, ErrInvalidRef)

	assert.Equal(t, "no text", (&ExitError{Code: ExitFailure, Message: "no text"}).Error())
}

func TestVersionCommand(t *testing.T) {
	BuildInfo = models.NewBuildInfo("v0.3.0", "2026-05-01", "abc123")
	t.Cleanup(func() { BuildInfo = models.NewBuildInfo("", "", "") })

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Build version: v0.3.0\nBuild date: 2026-05-01\nBuild commit: abc123\n", out.String())
}

func TestHint(t *testing.T) {
	assert.Contains(t, hint(service.ErrRemoteDeleted), "restore")
	assert.Empty(t, hint(errors.New("other")))
}
