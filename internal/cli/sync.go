// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
)

// statusView is the JSON shape of the status command.
type statusView struct {
	Connected bool                     `json:"connected"`
	Documents []service.DocumentStatus `json:"documents"`
}

func newRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Stay connected and keep both documents in sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return opts.withApp(ctx, func(ctx context.Context, app *client.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "syncing unit %q with %s, press Ctrl+C to stop\n", opts.cfg.Sync.UnitID, opts.cfg.Adapter.HTTPAddress)
				return app.Run(ctx)
			})
		},
	}
}

func newSyncCommand(opts *RootOptions) *cobra.Command {
	var acceptDelete bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local changes with the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.openApp(cmd.Context(), false, func(ctx context.Context, app *client.App) error {
				coordinator := app.Services().Coordinator

				err := coordinator.Sync(ctx)
				if errors.Is(err, adapter.ErrUnreachable) {
					return WrapExitError(ExitFailure, "server unreachable, changes are kept locally", err)
				}
				if err != nil && !errors.Is(err, service.ErrRemoteDeleted) {
					return err
				}

				var pending []models.DocumentKind
				for _, s := range coordinator.Status() {
					if !s.RemoteDeleted {
						continue
					}
					if !acceptDelete {
						pending = append(pending, s.Kind)
						continue
					}
					if err = coordinator.AcceptDelete(ctx, s.Kind); err != nil {
						return err
					}
				}

				if err = printStatus(cmd.OutOrStdout(), opts, coordinator); err != nil {
					return err
				}
				if len(pending) > 0 {
					return WrapExitError(ExitNeedsDecision, fmt.Sprintf("deleted on the server: %v", pending), service.ErrRemoteDeleted)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&acceptDelete, "accept-delete", false, "drop local copies of documents deleted on the server")
	return cmd
}

func newStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity and the sync state of both documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(_ context.Context, app *client.App) error {
				return printStatus(cmd.OutOrStdout(), opts, app.Services().Coordinator)
			})
		},
	}
}

func newRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "restore <tasks|memo>",
		Short:     "Upload the local copy of a document deleted on the server",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.KindTasks), string(models.KindMemo)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
				coordinator := app.Services().Coordinator
				if !coordinator.Connected() {
					return WrapExitError(ExitFailure, "restore needs the server", adapter.ErrUnreachable)
				}
				if err := coordinator.Restore(ctx, kind); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s restored\n", kind)
				return nil
			})
		},
	}
}

func printStatus(w io.Writer, opts *RootOptions, coordinator *service.Coordinator) error {
	view := statusView{Connected: coordinator.Connected(), Documents: coordinator.Status()}
	return opts.print(w, view, func(w io.Writer) string {
		return renderStatus(w, view.Connected, view.Documents)
	})
}

func parseKind(s string) (models.DocumentKind, error) {
	kind := models.DocumentKind(s)
	if !kind.Valid() {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("unknown document %q, expected tasks or memo", s), nil)
	}
	return kind, nil
}
