// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/internal/tui"
)

func newUICommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse and edit the task tree full screen while syncing in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
				runCtx, cancel := context.WithCancel(ctx)
				done := make(chan struct{})
				go func() {
					defer close(done)
					_ = app.Run(runCtx)
				}()

				err := tui.New(app.Services(), opts.cfg.Sync.UnitID, opts.logger).Run(ctx)
				cancel()
				<-done
				return err
			})
		},
	}
}
