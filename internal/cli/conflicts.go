// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/internal/merge"
	"github.com/MKhiriev/go-task-sync/models"
)

func newConflictsCommand(opts *RootOptions) *cobra.Command {
	var (
		clearFlag bool
		copyOut   bool
		reapply   bool
	)

	cmd := &cobra.Command{
		Use:       "conflicts [tasks|memo]",
		Short:     "Show what automatic merges overrode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(models.KindTasks), string(models.KindMemo)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []models.DocumentKind{models.KindTasks, models.KindMemo}
			if len(args) == 1 {
				kind, err := parseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []models.DocumentKind{kind}
			}
			if reapply && (len(kinds) != 1 || kinds[0] != models.KindMemo) {
				return WrapExitError(ExitCommandError, "--reapply works on the memo only", nil)
			}

			return opts.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
				coordinator := app.Services().Coordinator

				if clearFlag {
					for _, kind := range kinds {
						if err := coordinator.ClearConflicts(ctx, kind); err != nil {
							return err
						}
					}
					return nil
				}

				var reports []models.ConflictReport
				for _, kind := range kinds {
					r, err := coordinator.Conflicts(ctx, kind)
					if err != nil {
						return err
					}
					reports = append(reports, r...)
				}

				if reapply {
					return reapplyMemo(ctx, cmd.OutOrStdout(), app, reports)
				}

				if copyOut {
					if len(reports) == 0 {
						return ErrNoConflicts
					}
					if err := opts.copyText(renderConflicts(io.Discard, reports)); err != nil {
						return fmt.Errorf("copy to clipboard: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d report(s) copied\n", len(reports))
					return nil
				}

				return opts.print(cmd.OutOrStdout(), reports, func(w io.Writer) string {
					if len(reports) == 0 {
						return "no conflicts\n"
					}
					return renderConflicts(w, reports)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&clearFlag, "clear", false, "forget the recorded reports")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the reports to the clipboard")
	cmd.Flags().BoolVar(&reapply, "reapply", false, "re-apply the last discarded memo edit on top of the current memo")
	return cmd
}

// reapplyMemo applies the local patch of the newest memo report to the
// current memo text.
func reapplyMemo(ctx context.Context, w io.Writer, app *client.App, reports []models.ConflictReport) error {
	patch := ""
	for i := len(reports) - 1; i >= 0 && patch == ""; i-- {
		for _, d := range reports[i].Details {
			if d.LocalPatch != "" {
				patch = d.LocalPatch
				break
			}
		}
	}
	if patch == "" {
		return ErrNoConflicts
	}

	out, clean, err := merge.ApplyPatch(app.Services().Coordinator.Memo(), patch)
	if err != nil {
		return fmt.Errorf("parse memo patch: %w", err)
	}
	if err = app.Services().Tasks.SetMemo(ctx, string(out)); err != nil {
		return err
	}

	if clean {
		fmt.Fprintln(w, "memo edit re-applied")
	} else {
		fmt.Fprintln(w, "memo edit re-applied partially, check the memo")
	}
	return nil
}
