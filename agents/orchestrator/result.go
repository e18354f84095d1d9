/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import "chainguard.dev/planexec/agents/toolcall"

// SubtaskResult is the outcome of one subtask attempt.
type SubtaskResult struct {
	ID          int            `json:"id" jsonschema:"minimum=1"`
	Description string         `json:"description"`
	Call        *toolcall.Call `json:"function_call" jsonschema:"description=Parsed call; null when the executor reply could not be parsed"`
	Success     bool           `json:"success"`
	Result      string         `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// RunResult is the outcome of a whole run. Success is false iff at least one
// subtask failed or planning failed; Error holds the first failure.
type RunResult struct {
	Task     string          `json:"task"`
	Subtasks []SubtaskResult `json:"subtasks"`
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
}

// Failed returns the subtasks that did not succeed.
func (r *RunResult) Failed() []SubtaskResult {
	var out []SubtaskResult
	for _, s := range r.Subtasks {
		if !s.Success {
			out = append(out, s)
		}
	}
	return out
}
