// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the tasksync command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-sync/internal/client"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server     string
	DB         string
	Unit       string
	LogLevel   string
	LogFile    string
	ConfigPath string
	Format     string
	Offline    bool

	cfg    *config.ClientConfig
	logger *logger.Logger

	// copyText writes to the system clipboard.
	copyText func(string) error
}

// BuildInfo is printed by the version command; the client binary sets it
// at startup.
var BuildInfo = models.NewBuildInfo("", "", "")

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the tasksync client.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{copyText: clipboard.WriteAll})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tasksync",
		Short:         "tasksync - offline-first shared task list",
		Long:          "Edit a shared task tree and memo offline; changes sync with the server when it is reachable.",
		Version:       BuildInfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.Server, "server", "s", "", "server address (default http://localhost:8080)")
	flags.StringVar(&opts.DB, "db", "", "local cache file (default tasksync.db)")
	flags.StringVarP(&opts.Unit, "unit", "u", "", "shared unit id (default \"default\")")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.LogFile, "log-file", "", "log file path")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (JSON or YAML)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.BoolVar(&opts.Offline, "offline", false, "do not contact the server")

	cmd.AddCommand(
		newRunCommand(opts),
		newUICommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDoneCommand(opts, true),
		newDoneCommand(opts, false),
		newCollapseCommand(opts),
		newMoveCommand(opts),
		newTrashCommand(opts),
		newEmptyTrashCommand(opts),
		newMemoCommand(opts),
		newSyncCommand(opts),
		newStatusCommand(opts),
		newVersionCommand(opts),
		newConflictsCommand(opts),
		newRestoreCommand(opts),
	)

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if h := hint(err); h != "" {
		fmt.Fprintln(stderr, h)
	}
	return GetExitCode(err)
}

// load builds the client config from flags, environment, JSON file and
// defaults, in that order of precedence.
func (o *RootOptions) load() error {
	overrides := &config.StructuredConfig{
		App: config.App{LogLevel: o.LogLevel, LogFile: o.LogFile},
		Storage: config.Storage{
			DB: config.DB{DSN: o.DB},
		},
		Adapter:      config.Adapter{HTTPAddress: o.Server},
		Sync:         config.Sync{UnitID: o.Unit},
		JSONFilePath: o.ConfigPath,
	}

	cfg, err := config.GetClientConfig(overrides)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.cfg = cfg

	o.logger = logger.NewClientLogger("tasksync", cfg.App.LogFile)
	if cfg.App.LogLevel != "" {
		if err = o.logger.SetLevel(cfg.App.LogLevel); err != nil {
			return WrapExitError(ExitCommandError, "invalid log level", err)
		}
	}
	return nil
}

// withApp opens the client, reconciles with the server unless --offline
// and runs fn. The app is closed when fn returns.
func (o *RootOptions) withApp(ctx context.Context, fn func(ctx context.Context, app *client.App) error) error {
	return o.openApp(ctx, !o.Offline, fn)
}

func (o *RootOptions) openApp(ctx context.Context, connect bool, fn func(ctx context.Context, app *client.App) error) error {
	app, err := client.NewApp(ctx, o.cfg, o.logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "open client", err)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			o.logger.Err(cerr).Str("func", "RootOptions.openApp").Msg("close client")
		}
	}()

	if connect {
		if err = app.Connect(ctx); err != nil {
			o.logger.Warn().
				Str("func", "RootOptions.openApp").
				Err(err).
				Msg("sync on open finished with errors")
		}
	}
	return fn(ctx, app)
}
