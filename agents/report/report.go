/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders run results as markdown.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/planexec/agents/orchestrator"
)

const maxCell = 60

// Markdown renders res as a heading, a status line and one table row per
// subtask.
func Markdown(res *orchestrator.RunResult) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Run results\n\n")
	fmt.Fprintf(&sb, "**Task:** %s\n\n", oneLine(res.Task))
	if res.Success {
		sb.WriteString("**Overall success:** ✓\n\n")
	} else {
		sb.WriteString("**Overall success:** ✗\n\n")
	}
	if res.Error != "" {
		fmt.Fprintf(&sb, "**Error:** %s\n\n", oneLine(res.Error))
	}

	if len(res.Subtasks) == 0 {
		sb.WriteString("_No subtasks were planned._\n")
		return sb.String(), nil
	}

	var buf bytes.Buffer
	table := newMarkdownTable([]string{"#", "Subtask", "Call", "Status", "Result"}, &buf)
	for _, s := range res.Subtasks {
		call := "-"
		if s.Call != nil {
			call = s.Call.String()
		}
		status, detail := "✓", s.Result
		if !s.Success {
			status, detail = "✗", s.Error
		}
		if err := table.Append([]string{
			strconv.Itoa(s.ID),
			cell(s.Description),
			cell(call),
			status,
			cell(detail),
		}); err != nil {
			return "", fmt.Errorf("appending row %d: %w", s.ID, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}
	sb.Write(buf.Bytes())
	return sb.String(), nil
}

// cell flattens s onto one line, escapes pipes and truncates it.
func cell(s string) string {
	s = strings.ReplaceAll(oneLine(s), "|", `\|`)
	if r := []rune(s); len(r) > maxCell {
		return string(r[:maxCell-1]) + "…"
	}
	if s == "" {
		return "-"
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
