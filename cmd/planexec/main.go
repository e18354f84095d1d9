/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command planexec turns a natural language task into a sequence of
// function calls: a planner model splits the task into subtasks and an
// executor model maps each subtask to one registered function.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// errRunFailed makes the process exit non-zero without printing an error;
// the report already says what went wrong.
var errRunFailed = errors.New("run failed")

type cfgKey struct{}

func configFrom(ctx context.Context) *config {
	return ctx.Value(cfgKey{}).(*config)
}

func newRootCmd() *cobra.Command {
	var (
		logOpts logOptions
		closeLog = func() {}
	)
	root := &cobra.Command{
		Use:   "planexec",
		Short: "Plan a task with one model and execute it with another",
		Long: `planexec decomposes a task into subtasks with a planner model, then asks an
executor model to express each subtask as a single call to one of the
registered functions, and runs it.

Configuration is read from the environment (and a .env file, if present).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env file is fine.
			_ = godotenv.Load()

			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, envconfig.OsLookuper())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") {
				logOpts.level = cfg.LogLevel
			}
			ctx, closer, err := setupLogging(ctx, logOpts)
			if err != nil {
				return err
			}
			closeLog = closer
			cmd.SetContext(context.WithValue(ctx, cfgKey{}, cfg))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
	}

	root.PersistentFlags().StringVar(&logOpts.level, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logOpts.format, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().StringVar(&logOpts.file, "log-file", "", "Also append logs to this file")

	root.AddCommand(newRunCmd(), newServeCmd(), newFunctionsCmd(), newSchemaCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailed) {
			clog.ErrorContextf(ctx, "%v", err)
		}
		cancel()
		os.Exit(1)
	}
}
