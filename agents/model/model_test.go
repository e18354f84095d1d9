/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package model_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/planexec/agents/model"
)

func TestProviderFor(t *testing.T) {
	tests := []struct {
		name    string
		want    model.Provider
		wantErr bool
	}{
		{name: "gemini-2.0-flash", want: model.ProviderGoogle},
		{name: "claude-sonnet-4-20250514", want: model.ProviderAnthropic},
		{name: "gpt-4o", want: model.ProviderOpenAI},
		{name: "o1-mini", want: model.ProviderOpenAI},
		{name: "o3", want: model.ProviderOpenAI},
		{name: "o4-mini", want: model.ProviderOpenAI},
		{name: "llama-3", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ProviderFor(tt.name)
			if tt.wantErr {
				if !errors.Is(err, model.ErrUnknownModel) {
					t.Errorf("ProviderFor(%q) error = %v, want ErrUnknownModel", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProviderFor(%q) = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ProviderFor(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	full := model.Config{GoogleAPIKey: "g", AnthropicAPIKey: "a", OpenAIAPIKey: "o"}

	for _, name := range []string{"gemini-2.0-flash", "claude-sonnet-4-20250514", "gpt-4o-mini"} {
		t.Run(name, func(t *testing.T) {
			c, err := model.New(ctx, full, name)
			if err != nil {
				t.Fatalf("New() = %v", err)
			}
			if c == nil {
				t.Fatal("New() returned nil completer")
			}

			if _, err := model.New(ctx, model.Config{}, name); !errors.Is(err, model.ErrMissingAPIKey) {
				t.Errorf("New() without key error = %v, want ErrMissingAPIKey", err)
			}
		})
	}

	if _, err := model.New(ctx, full, "mistral-large"); !errors.Is(err, model.ErrUnknownModel) {
		t.Errorf("New() error = %v, want ErrUnknownModel", err)
	}
}

func TestCompleterFunc(t *testing.T) {
	var c model.Completer = model.CompleterFunc(func(_ context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})
	got, err := c.Complete(context.Background(), "s", "u")
	if err != nil || got != "s|u" {
		t.Errorf("Complete() = %q, %v", got, err)
	}
}
