// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// no config or log file needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.print(cmd.OutOrStdout(), BuildInfo, func(io.Writer) string {
				return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n", BuildInfo.Version, BuildInfo.Date, BuildInfo.Commit)
			})
		},
	}
}
