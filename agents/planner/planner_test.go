/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/planexec/agents/planner"
	"chainguard.dev/planexec/agents/toolcall"
	"github.com/google/go-cmp/cmp"
)

func TestExtractSubtasks(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{{
		name:     "python list in prose",
		response: "Sure! Here is the plan:\n['a', 'b', 'c']\nLet me know.",
		want:     []string{"a", "b", "c"},
	}, {
		name:     "json list",
		response: `["Retrieve list of all files within 'un_organized'", "Identify unique file types"]`,
		want:     []string{"Retrieve list of all files within 'un_organized'", "Identify unique file types"},
	}, {
		name:     "fenced json list with brackets in items",
		response: "```json\n[\"Read notes [draft]\", \"Email the summary\"]\n```",
		want:     []string{"Read notes [draft]", "Email the summary"},
	}, {
		name:     "multiline literal with trailing comma",
		response: "```python\n[\n  \"Send email reminder\",\n  'Set calendar reminder for Yoga at 5:00 AM IST',\n]\n```",
		want:     []string{"Send email reminder", "Set calendar reminder for Yoga at 5:00 AM IST"},
	}, {
		name:     "empty list",
		response: "Nothing to do: []",
		want:     []string{},
	}, {
		name:     "numbered lines",
		response: "1. do x\n2. do y",
		want:     []string{"do x", "do y"},
	}, {
		name:     "bullets with prose",
		response: "Plan:\n- do x\n* do y\n\nThat is all.",
		want:     []string{"do x", "do y"},
	}, {
		name:     "malformed literal falls through to lines",
		response: "[see notes]\n1. do x\n2. do y",
		want:     []string{"do x", "do y"},
	}, {
		name:     "freeform paragraph",
		response: "  Organise the folder and then compress the images.  ",
		want:     []string{"Organise the folder and then compress the images."},
	}, {
		name:     "empty response",
		response: "   ",
		want:     []string{},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planner.ExtractSubtasks(context.Background(), tt.response)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractSubtasks() (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestStrategiesInIsolation(t *testing.T) {
	if _, ok := planner.BracketList("no brackets here"); ok {
		t.Error("BracketList() succeeded without brackets")
	}
	if _, ok := planner.BracketList("['unterminated]"); ok {
		t.Error("BracketList() succeeded on a malformed literal")
	}
	if got, ok := planner.BracketList(`['it\'s done', "say \"hi\""]`); !ok || !cmp.Equal(got, []string{"it's done", `say "hi"`}) {
		t.Errorf("BracketList() = %q, %v", got, ok)
	}
	if _, ok := planner.NumberedLines("**Bold** text only"); ok {
		t.Error("NumberedLines() succeeded without markers")
	}
}

func TestExtractWith(t *testing.T) {
	never := func(string) ([]string, bool) { return nil, false }
	got := planner.ExtractWith(context.Background(), "anything", never)
	if got == nil || len(got) != 0 {
		t.Errorf("ExtractWith() = %#v, want empty non-nil plan", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	defs := []toolcall.Definition{{
		Name:        "ai_get_file_list",
		Description: "Returns the files under a directory tree.",
		Parameters:  []toolcall.Parameter{{Name: "path", Type: "str"}},
	}}

	t.Run("without task file", func(t *testing.T) {
		got, err := planner.BuildPrompt(defs, nil)
		if err != nil {
			t.Fatalf("BuildPrompt() = %v", err)
		}
		for _, want := range []string{
			`"name": "ai_get_file_list"`,
			`"signature": "(path: str)"`,
			"**Do not** include function names or arguments",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
		if strings.Contains(got, "Here is its content") {
			t.Error("prompt contains task file section without a task file")
		}
	})

	t.Run("with task file", func(t *testing.T) {
		tf := &planner.TaskFile{Name: "perform_tasks.txt", Contents: "1. Email {{team}} about the assignment"}
		got, err := planner.BuildPrompt(defs, tf)
		if err != nil {
			t.Fatalf("BuildPrompt() = %v", err)
		}
		if !strings.Contains(got, "perform_tasks.txt file to be read") {
			t.Error("prompt missing task file name")
		}
		if !strings.Contains(got, "1. Email {{team}} about the assignment") {
			t.Error("task file contents not embedded verbatim")
		}
	})
}

func TestLoadTaskFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "perform_tasks.txt")
	if err := os.WriteFile(path, []byte("Send the report."), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		task string
		want *planner.TaskFile
	}{{
		name: "referenced",
		path: path,
		task: "Read the PERFORM_TASKS.TXT file and do what it says",
		want: &planner.TaskFile{Name: "perform_tasks.txt", Contents: "Send the report."},
	}, {
		name: "not referenced",
		path: path,
		task: "Organise the downloads folder",
	}, {
		name: "referenced but missing",
		path: filepath.Join(t.TempDir(), "perform_tasks.txt"),
		task: "read perform_tasks.txt",
	}, {
		name: "no path",
		task: "read perform_tasks.txt",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := planner.LoadTaskFile(ctx, tt.path, tt.task)
			if err != nil {
				t.Fatalf("LoadTaskFile() = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadTaskFile() (-want, +got):\n%s", diff)
			}
		})
	}
}
