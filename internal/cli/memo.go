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
)

func newMemoCommand(opts *RootOptions) *cobra.Command {
	var clearFlag bool

	cmd := &cobra.Command{
		Use:   "memo [text|-]",
		Short: "Print the memo, or replace it with text (\"-\" reads stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearFlag && len(args) > 0 {
				return WrapExitError(ExitCommandError, "--clear takes no text", nil)
			}

			return opts.withApp(cmd.Context(), func(ctx context.Context, app *client.App) error {
				tasks := app.Services().Tasks
				switch {
				case clearFlag:
					return tasks.SetMemo(ctx, "")
				case len(args) == 1 && args[0] == "-":
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("read memo from stdin: %w", err)
					}
					return tasks.SetMemo(ctx, string(data))
				case len(args) > 0:
					return tasks.SetMemo(ctx, strings.Join(args, " "))
				}

				memo := app.Services().Coordinator.Memo()
				return opts.print(cmd.OutOrStdout(), memo, func(io.Writer) string {
					if memo == "" || strings.HasSuffix(string(memo), "\n") {
						return string(memo)
					}
					return string(memo) + "\n"
				})
			})
		},
	}

	cmd.Flags().BoolVar(&clearFlag, "clear", false, "erase the memo")
	return cmd
}
