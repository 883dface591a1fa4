// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/models"
)

func newListCommand(opts *RootOptions) *cobra.Command {
	var lo listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(_ context.Context, app *client.App) error {
				forest := app.Services().Coordinator.Tasks()
				return opts.print(cmd.OutOrStdout(), forest, func(w io.Writer) string {
					return renderForest(w, forest, lo)
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&lo.showTrash, "trash", "t", false, "show trash contents")
	cmd.Flags().BoolVarP(&lo.showAll, "all", "a", false, "expand collapsed items")
	cmd.Flags().BoolVar(&lo.showIDs, "ids", false, "print item ids")
	return cmd
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
				parentID, err := resolveParent(app.Services().Coordinator.Tasks(), parent)
				if err != nil {
					return WrapExitError(ExitCommandError, "resolve parent", err)
				}
				id, err := app.Services().Tasks.AddItem(ctx, parentID, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent item reference")
	return cmd
}

func newEditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <text>",
		Short: "Change the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withItem(cmd, args[0], func(ctx context.Context, app *client.App, id string) error {
				return app.Services().Tasks.EditValue(ctx, id, strings.Join(args[1:], " "))
			})
		},
	}
}

// newDoneCommand builds "done" or "undone".
func newDoneCommand(opts *RootOptions, completed bool) *cobra.Command {
	use, short := "done", "Mark a task completed"
	if !completed {
		use, short = "undone", "Mark a task not completed"
	}

	return &cobra.Command{
		Use:   use + " <ref>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withItem(cmd, args[0], func(ctx context.Context, app *client.App, id string) error {
				return app.Services().Tasks.SetCompleted(ctx, id, completed)
			})
		},
	}
}

func newCollapseCommand(opts *RootOptions) *cobra.Command {
	var expand bool

	cmd := &cobra.Command{
		Use:   "collapse <ref>",
		Short: "Hide the children of a task in list output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withItem(cmd, args[0], func(ctx context.Context, app *client.App, id string) error {
				return app.Services().Tasks.SetCollapsed(ctx, id, !expand)
			})
		},
	}

	cmd.Flags().BoolVarP(&expand, "expand", "e", false, "show the children again")
	return cmd
}

func newMoveCommand(opts *RootOptions) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "move <ref>",
		Short: "Move a task under another one, or to the top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withItem(cmd, args[0], func(ctx context.Context, app *client.App, id string) error {
				parentID, err := resolveParent(app.Services().Coordinator.Tasks(), parent)
				if err != nil {
					return WrapExitError(ExitCommandError, "resolve parent", err)
				}
				return app.Services().Tasks.Move(ctx, id, parentID)
			})
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "new parent reference, top level when empty")
	return cmd
}

func newTrashCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "trash <ref>",
		Aliases: []string{"rm"},
		Short:   "Move a task and its subtasks to the trash",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withItem(cmd, args[0], func(ctx context.Context, app *client.App, id string) error {
				return app.Services().Tasks.MoveToTrash(ctx, id)
			})
		},
	}
}

func newEmptyTrashCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "empty-trash",
		Short: "Delete everything in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
				return app.Services().Tasks.EmptyTrash(ctx)
			})
		},
	}
}

// withItem opens the app and resolves ref against the current forest.
func (o *RootOptions) withItem(cmd *cobra.Command, ref string, fn func(ctx context.Context, app *client.App, id string) error) error {
	return o.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
		id, err := resolveRef(app.Services().Coordinator.Tasks(), ref)
		if err != nil {
			return WrapExitError(ExitCommandError, "resolve item", err)
		}
		if id == models.TrashID {
			return WrapExitError(ExitCommandError, "resolve item", fmt.Errorf("%w: the trash bin itself", ErrInvalidRef))
		}
		return fn(ctx, app, id)
	})
}
