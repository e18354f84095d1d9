/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"chainguard.dev/planexec/agents/model"
	"chainguard.dev/planexec/agents/orchestrator"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/report"
	"chainguard.dev/planexec/functions"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

const defaultTask = "perform tasks given in perform_tasks.txt"

type runOptions struct {
	functionsDir  string
	plannerModel  string
	executorModel string
	taskFile      string
	json          bool
}

// applyConfig fills unset options from the environment.
func (o *runOptions) applyConfig(cfg *config) {
	if o.functionsDir == "" {
		o.functionsDir = cfg.FunctionsDir
	}
	if o.plannerModel == "" {
		o.plannerModel = cfg.PlannerModel
	}
	if o.executorModel == "" {
		o.executorModel = cfg.ExecutorModel
	}
	if o.taskFile == "" {
		o.taskFile = cfg.TaskFile
	}
}

func addModelFlags(cmd *cobra.Command, o *runOptions) {
	cmd.Flags().StringVar(&o.functionsDir, "functions-dir", "", "Directory of function manifests (default $FUNCTIONS_DIR, then the built-in set)")
	cmd.Flags().StringVar(&o.plannerModel, "planner-model", "", "Planner model (default $PLANNER_MODEL)")
	cmd.Flags().StringVar(&o.executorModel, "executor-model", "", "Executor model (default $EXECUTOR_MODEL)")
	cmd.Flags().StringVar(&o.taskFile, "task-file-prompt", "", "Task file embedded in the planner prompt when the task names it (default $TASK_FILE)")
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Plan and execute a task",
		Long: `Run plans the task, executes every subtask and prints a report.

With no task, the task file is executed. The exit status is 1 when any
subtask fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			o.applyConfig(cfg)

			task := strings.TrimSpace(strings.Join(args, " "))
			if task == "" {
				task = defaultTask
			}

			reg, dir, err := resolveRegistry(ctx, cfg, o.functionsDir, cmd.Flags().Changed("functions-dir"))
			if err != nil {
				return err
			}
			planner, executor, err := newModels(ctx, cfg, o)
			if err != nil {
				return err
			}
			orch, err := orchestrator.New(planner, executor, append(orchestratorOptions(cfg, o), orchestrator.WithRegistry(reg))...)
			if err != nil {
				return err
			}

			res, err := orch.Run(ctx, task, dir)
			if res == nil {
				return err
			}
			if perr := printResult(cmd.OutOrStdout(), res, o.json); perr != nil {
				return perr
			}
			if !res.Success {
				return errRunFailed
			}
			return nil
		},
	}
	addModelFlags(cmd, &o)
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the result as JSON instead of a Markdown report")
	return cmd
}

// resolveRegistry returns an empty registry over the built-in catalog plus
// the directory Run should load. When the configured directory is missing
// and was not named on the command line, the embedded manifests are used.
func resolveRegistry(ctx context.Context, cfg *config, dir string, explicit bool) (*registry.Registry, string, error) {
	if _, err := os.Stat(dir); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("functions directory %s: %w", dir, err)
		}
		clog.FromContext(ctx).With("dir", dir).Info("Functions directory not found, using built-in functions")
		reg, err := functions.Builtin(ctx, cfg.functions())
		if err != nil {
			return nil, "", err
		}
		return reg, "", nil
	}
	return registry.New(registry.WithCatalog(functions.Catalog(cfg.functions()))), dir, nil
}

func newModels(ctx context.Context, cfg *config, o runOptions) (planner, executor model.Completer, err error) {
	planner, err = model.New(ctx, cfg.models(), o.plannerModel)
	if err != nil {
		return nil, nil, fmt.Errorf("planner: %w", err)
	}
	executor, err = model.New(ctx, cfg.models(), o.executorModel)
	if err != nil {
		return nil, nil, fmt.Errorf("executor: %w", err)
	}
	return planner, executor, nil
}

func orchestratorOptions(cfg *config, o runOptions) []orchestrator.Option {
	return []orchestrator.Option{
		orchestrator.WithTaskFile(o.taskFile),
		orchestrator.WithTimezone(cfg.Timezone),
		orchestrator.WithTransitionHook(func(ctx context.Context, t orchestrator.Transition) {
			clog.FromContext(ctx).Debugf("State: %s", t)
		}),
	}
}

func printResult(w io.Writer, res *orchestrator.RunResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	md, err := report.Markdown(res)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, md)
	return err
}
