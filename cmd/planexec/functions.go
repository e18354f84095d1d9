/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"

	"chainguard.dev/planexec/agents/orchestrator"
	"chainguard.dev/planexec/agents/schema"
	"github.com/spf13/cobra"
)

func newFunctionsCmd() *cobra.Command {
	var (
		dir     string
		schemas bool
	)
	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the functions the executor may call",
		Long: `Functions prints the metadata the models see for every registered
function. With --schema it prints a JSON Schema for each function's arguments.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			explicit := dir != ""
			if !explicit {
				dir = cfg.FunctionsDir
			}

			reg, load, err := resolveRegistry(ctx, cfg, dir, explicit)
			if err != nil {
				return err
			}
			if load != "" {
				if err := reg.Load(ctx, load); err != nil {
					return err
				}
			}

			if schemas {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(schema.ForDefinitions(reg.Definitions()))
			}
			out, err := reg.Describe()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "functions-dir", "", "Directory of function manifests (default $FUNCTIONS_DIR, then the built-in set)")
	cmd.Flags().BoolVar(&schemas, "schema", false, "Print argument JSON Schemas instead of metadata")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of run results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema.ReflectType[orchestrator.RunResult]())
		},
	}
}
