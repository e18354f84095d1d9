/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package registry_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/google/go-cmp/cmp"
)

func noop(context.Context, params.Args) (any, error) { return nil, nil }

func testCatalog() *registry.Catalog {
	return registry.NewCatalog().
		Add("ai_get_file_list", noop).
		Add("ai_send_email", noop).
		Add("helper_walk", noop)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		tool    toolcall.Tool
		wantErr bool
	}{{
		name: "valid",
		tool: toolcall.Tool{
			Def:     toolcall.Definition{Name: "ai_read_file", Parameters: []toolcall.Parameter{{Name: "filepath", Type: "str"}}},
			Handler: noop,
		},
	}, {
		name:    "missing prefix",
		tool:    toolcall.Tool{Def: toolcall.Definition{Name: "read_file"}, Handler: noop},
		wantErr: true,
	}, {
		name:    "nil handler",
		tool:    toolcall.Tool{Def: toolcall.Definition{Name: "ai_read_file"}},
		wantErr: true,
	}, {
		name: "unknown parameter type",
		tool: toolcall.Tool{
			Def:     toolcall.Definition{Name: "ai_read_file", Parameters: []toolcall.Parameter{{Name: "filepath", Type: "list"}}},
			Handler: noop,
		},
		wantErr: true,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			err := reg.Register(tt.tool)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, registry.ErrInvalidTool) {
				t.Errorf("Register() = %v, want ErrInvalidTool", err)
			}
			if want := map[bool]int{true: 0, false: 1}[tt.wantErr]; reg.Len() != want {
				t.Errorf("Len() = %d, want %d", reg.Len(), want)
			}
		})
	}
}

func TestRegisterLastWins(t *testing.T) {
	reg := registry.New()
	for _, doc := range []string{"first", "second"} {
		if err := reg.Register(toolcall.Tool{
			Def:     toolcall.Definition{Name: "ai_read_file", Description: doc},
			Handler: noop,
		}); err != nil {
			t.Fatalf("Register() = %v", err)
		}
	}

	tool, ok := reg.Lookup("ai_read_file")
	if !ok {
		t.Fatal("Lookup() not found")
	}
	if tool.Def.Description != "second" {
		t.Errorf("Description = %q, want second", tool.Def.Description)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join("testdata", "functions")

	reg := registry.New(registry.WithCatalog(testCatalog()))
	if err := reg.Load(ctx, dir); err != nil {
		t.Fatalf("Load() = %v", err)
	}

	// helper_walk lacks the prefix; broken/ manifests are skipped.
	want := []string{"ai_get_file_list", "ai_send_email"}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Errorf("Names() (-want, +got):\n%s", diff)
	}

	email, ok := reg.Lookup("ai_send_email")
	if !ok {
		t.Fatal("ai_send_email not registered")
	}
	wantDef := toolcall.Definition{
		Name:        "ai_send_email",
		Description: "Sends an email with the given subject and body.",
		Parameters:  []toolcall.Parameter{{Name: "subject", Type: "str"}, {Name: "body", Type: "str"}},
	}
	if diff := cmp.Diff(wantDef, email.Def); diff != "" {
		t.Errorf("Definition (-want, +got):\n%s", diff)
	}

	t.Run("idempotent", func(t *testing.T) {
		before := reg.Definitions()
		if err := reg.Load(ctx, dir); err != nil {
			t.Fatalf("Load() = %v", err)
		}
		if diff := cmp.Diff(before, reg.Definitions()); diff != "" {
			t.Errorf("second Load() changed definitions (-before, +after):\n%s", diff)
		}
	})
}

func TestLoadMissingDirectory(t *testing.T) {
	reg := registry.New(registry.WithCatalog(testCatalog()))
	err := reg.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadNotADirectory(t *testing.T) {
	reg := registry.New()
	err := reg.Load(context.Background(), filepath.Join("testdata", "functions", "file_ops.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.yaml":    {Data: []byte("")},
		"_draft.yaml":   {Data: []byte("module: draft\nfunctions:\n  - name: ai_send_email\n")},
		"unknown.yaml":  {Data: []byte("module: x\nextra: field\n")},
		"ops/list.yaml": {Data: []byte("module: ops\nfunctions:\n  - name: ai_get_file_list\n")},
	}

	reg := registry.New(registry.WithCatalog(testCatalog()))
	if err := reg.LoadFS(context.Background(), fsys, "."); err != nil {
		t.Fatalf("LoadFS() = %v", err)
	}
	if diff := cmp.Diff([]string{"ai_get_file_list"}, reg.Names()); diff != "" {
		t.Errorf("Names() (-want, +got):\n%s", diff)
	}
}

func TestLoadWithoutCatalog(t *testing.T) {
	reg := registry.New()
	if err := reg.Load(context.Background(), filepath.Join("testdata", "functions")); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestDescribe(t *testing.T) {
	reg := registry.New()
	for _, tool := range []toolcall.Tool{{
		Def: toolcall.Definition{
			Name:        "ai_send_email",
			Description: "Sends an email.",
			Parameters:  []toolcall.Parameter{{Name: "subject", Type: "str"}, {Name: "body", Type: "str"}},
		},
		Handler: noop,
	}, {
		Def:     toolcall.Definition{Name: "ai_get_unique_file_types", Description: "Lists extensions."},
		Handler: noop,
	}} {
		if err := reg.Register(tool); err != nil {
			t.Fatalf("Register() = %v", err)
		}
	}

	out, err := reg.Describe()
	if err != nil {
		t.Fatalf("Describe() = %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Describe() is not JSON: %v\n%s", err, out)
	}
	want := []map[string]any{{
		"name":       "ai_get_unique_file_types",
		"signature":  "()",
		"docstring":  "Lists extensions.",
		"parameters": []any{},
	}, {
		"name":      "ai_send_email",
		"signature": "(subject: str, body: str)",
		"docstring": "Sends an email.",
		"parameters": []any{
			map[string]any{"name": "subject", "type": "str"},
			map[string]any{"name": "body", "type": "str"},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Describe() (-want, +got):\n%s", diff)
	}
}

func TestCatalog(t *testing.T) {
	c := registry.NewCatalog(toolcall.ProviderFunc(func() map[string]toolcall.Func {
		return map[string]toolcall.Func{"ai_b": noop, "ai_a": noop}
	}))
	c.Add("ai_c", noop)

	if diff := cmp.Diff([]string{"ai_a", "ai_b", "ai_c"}, c.Names()); diff != "" {
		t.Errorf("Names() (-want, +got):\n%s", diff)
	}
	if _, ok := c.Handler("ai_missing"); ok {
		t.Error("Handler(ai_missing) found")
	}
}
