/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatcher_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/planexec/agents/dispatcher"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	calls []map[string]any
}

func (r *recorder) handler(_ context.Context, args params.Args) (any, error) {
	r.calls = append(r.calls, args.Plain())
	subject, err := params.Extract[string](args, "subject")
	if err != nil {
		return nil, err
	}
	return "sent: " + subject, nil
}

func newRegistry(t *testing.T, tools ...toolcall.Tool) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, tool := range tools {
		if err := reg.Register(tool); err != nil {
			t.Fatalf("Register() = %v", err)
		}
	}
	return reg
}

func emailTool(fn toolcall.Func) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:       "ai_send_email",
			Parameters: []toolcall.Parameter{{Name: "subject", Type: "str"}, {Name: "body", Type: "str"}},
		},
		Handler: fn,
	}
}

func TestExecuteNotRegistered(t *testing.T) {
	rec := &recorder{}
	d := dispatcher.New(newRegistry(t, emailTool(rec.handler)))

	_, err := d.Execute(context.Background(), "ai_launch_rockets", params.Args{"subject": params.String("x")})
	if !errors.Is(err, dispatcher.ErrNotRegistered) {
		t.Fatalf("Execute() = %v, want ErrNotRegistered", err)
	}
	if !strings.Contains(err.Error(), "ai_launch_rockets") {
		t.Errorf("error %q does not name the function", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("handler invoked %d times, want 0", len(rec.calls))
	}
}

func TestExecuteFiltersUndeclaredArguments(t *testing.T) {
	rec := &recorder{}
	d := dispatcher.New(newRegistry(t, emailTool(rec.handler)))

	got, err := d.Execute(context.Background(), "ai_send_email", params.Args{
		"subject":  params.String("Weekly report"),
		"body":     params.String("All green."),
		"priority": params.String("high"),
		"cc":       params.String("boss@example.com"),
	})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got != "sent: Weekly report" {
		t.Errorf("Execute() = %v, want sent: Weekly report", got)
	}

	want := []map[string]any{{"subject": "Weekly report", "body": "All green."}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("handler args (-want, +got):\n%s", diff)
	}
}

func TestExecuteArgumentTypes(t *testing.T) {
	var seen params.Args
	tool := toolcall.Tool{
		Def: toolcall.Definition{
			Name: "ai_resize",
			Parameters: []toolcall.Parameter{
				{Name: "width", Type: "int"},
				{Name: "ratio", Type: "float"},
				{Name: "label"},
			},
		},
		Handler: func(_ context.Context, args params.Args) (any, error) {
			seen = args
			return nil, nil
		},
	}
	d := dispatcher.New(newRegistry(t, tool))

	tests := []struct {
		name    string
		args    params.Args
		wantErr bool
	}{{
		name: "exact kinds",
		args: params.Args{"width": params.Int(10), "ratio": params.Float(0.5), "label": params.Bool(true)},
	}, {
		name: "int widens to float",
		args: params.Args{"ratio": params.Int(2)},
	}, {
		name: "null accepted",
		args: params.Args{"width": params.Null()},
	}, {
		name:    "string for int",
		args:    params.Args{"width": params.String("10")},
		wantErr: true,
	}, {
		name:    "float for int",
		args:    params.Args{"width": params.Float(1.5)},
		wantErr: true,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			_, err := d.Execute(context.Background(), "ai_resize", tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if diff := cmp.Diff(tt.args.Plain(), seen.Plain()); diff != "" {
					t.Errorf("handler args (-want, +got):\n%s", diff)
				}
				return
			}
			var argErr *dispatcher.ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("Execute() = %T, want *ArgumentError", err)
			}
			if argErr.Param != "width" {
				t.Errorf("Param = %q, want width", argErr.Param)
			}
			if seen != nil {
				t.Error("handler invoked despite argument error")
			}
		})
	}
}

func TestExecuteHandlerError(t *testing.T) {
	rec := &recorder{}
	d := dispatcher.New(newRegistry(t, emailTool(rec.handler)))

	// Missing required arguments surface from the handler itself.
	_, err := d.Execute(context.Background(), "ai_send_email", params.Args{"body": params.String("no subject")})
	var execErr *dispatcher.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Execute() = %v, want *ExecutionError", err)
	}
	if execErr.Function != "ai_send_email" {
		t.Errorf("Function = %q, want ai_send_email", execErr.Function)
	}
	if !strings.Contains(err.Error(), "subject parameter is required") {
		t.Errorf("error %q lost the handler message", err)
	}
}

func TestExecuteHandlerPanic(t *testing.T) {
	tool := toolcall.Tool{
		Def: toolcall.Definition{Name: "ai_explode"},
		Handler: func(context.Context, params.Args) (any, error) {
			panic("boom")
		},
	}
	d := dispatcher.New(newRegistry(t, tool))

	_, err := d.Execute(context.Background(), "ai_explode", nil)
	var execErr *dispatcher.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Execute() = %v, want *ExecutionError", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q lost the panic value", err)
	}
}
