/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"chainguard.dev/planexec/agents/promptbuilder"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/toolcall"
	"github.com/chainguard-dev/clog"
)

var systemPrompt = promptbuilder.MustNewPrompt(`We are building an AI agent with two LLMs. You are the first LLM, responsible for breaking down complex tasks into smaller subtasks.
Your outputs will be processed by the second LLM, which will execute the subtasks.

The second LLM will have access to:
1. Your outputs
2. The following functions:

{{functions}}
{{task_file}}
### Instructions for You:
- Break down the task in a way that allows the second LLM to identify and call the necessary functions.
- Format your output as a list of subtasks, for example ["first subtask", "second subtask"].
- **Do not** include function names or arguments in your output.
- For email tasks, break them down like:
    - Send email reminder about assignment completion
    - Set up calendar reminder for Yoga Sadhana at 5:00 AM IST on specified date
- For file organization tasks:
    - Retrieve list of all files within <folder name>
    - Identify unique file types
    - Create organized folders based on the identified unique file types within the <folder name> directory.
    - Compress all images in "images" directory if directory exists
- In each of your predictions, if required, do not just say "source folder", but always say "source_path='<<<folder name>>>'" or "destination_path='<<<folder name>>>'".

Your focus is on structuring the task effectively, ensuring smooth execution by the second LLM.
`)

var taskFileSection = promptbuilder.MustNewPrompt(`
The user prompt asks for the {{name}} file to be read. Here is its content:

{{contents}}

Provide subtasks for the instructions in this file as well.
`)

// TaskFile is an instruction file the user asked the planner to consider.
type TaskFile struct {
	Name     string
	Contents string
}

var _ promptbuilder.Bindable = (*TaskFile)(nil)

// Bind fills the task_file section. A nil TaskFile leaves it empty.
func (tf *TaskFile) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	if tf == nil {
		return p.BindPrompt("task_file", nil)
	}
	section, err := taskFileSection.BindText("name", tf.Name)
	if err != nil {
		return nil, err
	}
	if section, err = section.BindText("contents", tf.Contents); err != nil {
		return nil, err
	}
	return p.BindPrompt("task_file", section)
}

// BuildPrompt renders the planner system prompt for the given functions.
func BuildPrompt(defs []toolcall.Definition, taskFile *TaskFile) (string, error) {
	p, err := systemPrompt.BindJSON("functions", registry.InfoFor(defs))
	if err != nil {
		return "", err
	}
	if p, err = taskFile.Bind(p); err != nil {
		return "", err
	}
	return p.Build()
}

// LoadTaskFile returns the file at path when the task mentions its base name
// (case-insensitively). It returns nil when the task does not reference the
// file or the file does not exist.
func LoadTaskFile(ctx context.Context, path, task string) (*TaskFile, error) {
	if path == "" {
		return nil, nil
	}
	name := filepath.Base(path)
	if !strings.Contains(strings.ToLower(task), strings.ToLower(name)) {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		clog.FromContext(ctx).With("path", path).Warn("Task references a task file that does not exist")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	return &TaskFile{Name: name, Contents: string(data)}, nil
}
