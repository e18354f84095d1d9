/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainguard.dev/planexec/agents/model"
	"chainguard.dev/planexec/agents/orchestrator"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const echoManifest = `module: echo
functions:
  - name: ai_echo
    doc: Echoes text back.
    params:
      - name: text
        type: str
  - name: ai_explode
    doc: Always fails.
`

func functionsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "echo.yaml"), []byte(echoManifest), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func catalog() *registry.Catalog {
	return registry.NewCatalog().
		Add("ai_echo", func(_ context.Context, args params.Args) (any, error) {
			return params.Extract[string](args, "text")
		}).
		Add("ai_explode", func(context.Context, params.Args) (any, error) {
			return nil, errors.New("kaboom")
		})
}

func static(text string) model.Completer {
	return model.CompleterFunc(func(context.Context, string, string) (string, error) {
		return text, nil
	})
}

// scripted answers each subtask with the reply registered for the first
// keyword found in the user text.
func scripted(t *testing.T, replies map[string]string) model.Completer {
	return model.CompleterFunc(func(_ context.Context, system, user string) (string, error) {
		if !strings.Contains(system, "ai_echo") {
			t.Errorf("executor system prompt does not list ai_echo")
		}
		if !strings.HasPrefix(user, "Subtask: ") {
			t.Errorf("executor user text = %q", user)
		}
		for k, v := range replies {
			if strings.Contains(user, k) {
				return v, nil
			}
		}
		t.Errorf("no scripted reply for %q", user)
		return "", nil
	})
}

func TestRunContinuesAfterFailure(t *testing.T) {
	var transitions []string
	orch, err := orchestrator.New(
		static(`Plan: ['Call the missing tool', 'Echo a greeting']`),
		scripted(t, map[string]string{
			"missing": "ai_missing()",
			"Echo":    "```\nai_echo(text='hello, world', extra=1)\n```",
		}),
		orchestrator.WithCatalog(catalog()),
		orchestrator.WithTransitionHook(func(_ context.Context, tr orchestrator.Transition) {
			transitions = append(transitions, tr.String())
		}),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	res, err := orch.Run(context.Background(), "Do two things", functionsDir(t))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}

	if res.Success {
		t.Error("Success = true, want false")
	}
	if len(res.Subtasks) != 2 {
		t.Fatalf("got %d subtasks, want 2", len(res.Subtasks))
	}
	first, second := res.Subtasks[0], res.Subtasks[1]
	if first.Success || !strings.Contains(first.Error, "not found in registry") {
		t.Errorf("subtask 1 = %+v, want a not-registered failure", first)
	}
	if !second.Success || second.Result != "hello, world" {
		t.Errorf("subtask 2 = %+v, want success with echoed text", second)
	}
	if second.Call == nil || second.Call.Name != "ai_echo" {
		t.Errorf("subtask 2 call = %v", second.Call)
	}
	if want := `Error in subtask 1: function "ai_missing" not found in registry`; res.Error != want {
		t.Errorf("Error = %q, want %q", res.Error, want)
	}
	if diff := cmp.Diff([]orchestrator.SubtaskResult{first}, res.Failed()); diff != "" {
		t.Errorf("Failed() (-want +got):\n%s", diff)
	}

	wantTransitions := []string{
		"idle -> planning",
		"planning -> executing(1/2)",
		"executing -> executing(2/2)",
		"executing -> done",
	}
	if diff := cmp.Diff(wantTransitions, transitions); diff != "" {
		t.Errorf("transitions (-want +got):\n%s", diff)
	}
}

func TestRunSubtaskFailures(t *testing.T) {
	tests := []struct {
		name      string
		executor  model.Completer
		wantError string
		wantCall  bool
	}{{
		name:      "unparseable reply",
		executor:  static("I cannot help with that."),
		wantError: "could not parse function call: I cannot help with that.",
	}, {
		name: "model error",
		executor: model.CompleterFunc(func(context.Context, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		}),
		wantError: "executor model: quota exceeded",
	}, {
		name:      "handler error",
		executor:  static("ai_explode()"),
		wantError: `error executing function "ai_explode": kaboom`,
		wantCall:  true,
	}, {
		name:      "wrong argument type",
		executor:  static("ai_echo(text=42)"),
		wantError: "ai_echo",
		wantCall:  true,
	}, {
		name: "executor panics",
		executor: model.CompleterFunc(func(context.Context, string, string) (string, error) {
			panic("boom")
		}),
		wantError: "panic: boom",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch, err := orchestrator.New(static(`["only step"]`), tt.executor, orchestrator.WithCatalog(catalog()))
			if err != nil {
				t.Fatalf("New() = %v", err)
			}
			res, err := orch.Run(context.Background(), "task", functionsDir(t))
			if err != nil {
				t.Fatalf("Run() = %v", err)
			}
			if res.Success || len(res.Subtasks) != 1 {
				t.Fatalf("Run() = %+v, want one failed subtask", res)
			}
			sr := res.Subtasks[0]
			if !strings.Contains(sr.Error, tt.wantError) {
				t.Errorf("Error = %q, want it to contain %q", sr.Error, tt.wantError)
			}
			if (sr.Call != nil) != tt.wantCall {
				t.Errorf("Call = %v, want present=%v", sr.Call, tt.wantCall)
			}
			if !strings.HasPrefix(res.Error, "Error in subtask 1: ") {
				t.Errorf("run Error = %q", res.Error)
			}
		})
	}
}

func TestRunEmptyPlan(t *testing.T) {
	var transitions []orchestrator.Transition
	orch, err := orchestrator.New(static("   "), static("unused"),
		orchestrator.WithCatalog(catalog()),
		orchestrator.WithTransitionHook(func(_ context.Context, tr orchestrator.Transition) {
			transitions = append(transitions, tr)
		}),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	res, err := orch.Run(context.Background(), "nothing", functionsDir(t))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	want := &orchestrator.RunResult{Task: "nothing", Subtasks: []orchestrator.SubtaskResult{}, Success: true}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Run() (-want +got):\n%s", diff)
	}
	wantTransitions := []orchestrator.Transition{
		{From: orchestrator.StateIdle, To: orchestrator.StatePlanning},
		{From: orchestrator.StatePlanning, To: orchestrator.StateDone},
	}
	if diff := cmp.Diff(wantTransitions, transitions); diff != "" {
		t.Errorf("transitions (-want +got):\n%s", diff)
	}
}

func TestRunPlannerFailure(t *testing.T) {
	plannerErr := errors.New("model unavailable")
	orch, err := orchestrator.New(
		model.CompleterFunc(func(context.Context, string, string) (string, error) { return "", plannerErr }),
		static("unused"),
		orchestrator.WithCatalog(catalog()),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	res, err := orch.Run(context.Background(), "task", functionsDir(t))
	if !errors.Is(err, plannerErr) {
		t.Fatalf("Run() error = %v, want %v", err, plannerErr)
	}
	if res == nil || res.Success || res.Error != "planning failed: model unavailable" {
		t.Errorf("Run() = %+v", res)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	orch, err := orchestrator.New(static("[]"), static(""), orchestrator.WithCatalog(catalog()))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	res, err := orch.Run(context.Background(), "task", filepath.Join(t.TempDir(), "absent"))
	if err == nil || res != nil {
		t.Errorf("Run() = %v, %v; want error and no result", res, err)
	}
}

func TestRunTaskFile(t *testing.T) {
	dir := t.TempDir()
	taskFile := filepath.Join(dir, "perform_tasks.txt")
	if err := os.WriteFile(taskFile, []byte("1. Echo the word banana"), 0o600); err != nil {
		t.Fatal(err)
	}

	var plannerSystem, plannerUser string
	orch, err := orchestrator.New(
		model.CompleterFunc(func(_ context.Context, system, user string) (string, error) {
			plannerSystem, plannerUser = system, user
			return `["Echo banana"]`, nil
		}),
		static("ai_echo(text='banana')"),
		orchestrator.WithCatalog(catalog()),
		orchestrator.WithTaskFile(taskFile),
	)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	res, err := orch.Run(context.Background(), "Read perform_tasks.txt and do it", functionsDir(t))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !res.Success {
		t.Errorf("Run() = %+v", res)
	}
	if plannerUser != "Read perform_tasks.txt and do it" {
		t.Errorf("planner user text = %q", plannerUser)
	}
	if !strings.Contains(plannerSystem, "Echo the word banana") {
		t.Error("planner prompt does not embed the task file")
	}
}

func TestRunWithRegistry(t *testing.T) {
	reg := registry.New(registry.WithCatalog(catalog()))
	if err := reg.Load(context.Background(), functionsDir(t)); err != nil {
		t.Fatal(err)
	}
	orch, err := orchestrator.New(static(`["Echo"]`), static("ai_echo(text='x')"), orchestrator.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	res, err := orch.Run(context.Background(), "task", "")
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if diff := cmp.Diff("x", res.Subtasks[0].Result); diff != "" {
		t.Errorf("Result (-want +got):\n%s", diff)
	}
}

func TestNewRequiresModels(t *testing.T) {
	if _, err := orchestrator.New(nil, static("")); err == nil {
		t.Error("New(nil, ...) succeeded")
	}
	if _, err := orchestrator.New(static(""), nil); err == nil {
		t.Error("New(..., nil) succeeded")
	}
}

func TestStateString(t *testing.T) {
	got := []string{
		orchestrator.StateIdle.String(),
		orchestrator.StatePlanning.String(),
		orchestrator.StateExecuting.String(),
		orchestrator.StateDone.String(),
		orchestrator.State(9).String(),
	}
	want := []string{"idle", "planning", "executing", "done", "State(9)"}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("String() (-want +got):\n%s", diff)
	}
}
