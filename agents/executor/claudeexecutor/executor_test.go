/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/planexec/agents/executor/claudeexecutor"
	"chainguard.dev/planexec/agents/executor/retry"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const okMessage = `{
  "id": "msg_01", "type": "message", "role": "assistant", "model": "claude-sonnet-4-20250514",
  "content": [{"type": "text", "text": "ai_send_email("}, {"type": "text", "text": "subject='Hi', body='There')"}],
  "stop_reason": "end_turn", "stop_sequence": null,
  "usage": {"input_tokens": 20, "output_tokens": 9}
}`

func newClient(t *testing.T, handler http.HandlerFunc) anthropic.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
}

func TestComplete(t *testing.T) {
	var req struct {
		Model    string `json:"model"`
		System   []struct{ Text string } `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct{ Text string } `json:"content"`
		} `json:"messages"`
	}
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, okMessage)
	})

	exec, err := claudeexecutor.New(client)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	got, err := exec.Complete(context.Background(), "be terse", "Subtask: email")
	if err != nil {
		t.Fatalf("Complete() = %v", err)
	}
	if want := "ai_send_email(subject='Hi', body='There')"; got != want {
		t.Errorf("Complete() = %q, want %q", got, want)
	}
	if req.Model != claudeexecutor.DefaultModel {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.System) != 1 || req.System[0].Text != "be terse" {
		t.Errorf("system = %+v", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content[0].Text != "Subtask: email" {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestCompleteRetriesOverloaded(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(529)
			_, _ = io.WriteString(w, `{"type": "error", "error": {"type": "overloaded_error", "message": "Overloaded"}}`)
			return
		}
		_, _ = io.WriteString(w, okMessage)
	})

	exec, err := claudeexecutor.New(client, claudeexecutor.WithRetryConfig(retry.Config{
		MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond,
	}))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if _, err := exec.Complete(context.Background(), "", "hi"); err != nil {
		t.Fatalf("Complete() = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestCompleteBadRequest(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type": "error", "error": {"type": "invalid_request_error", "message": "bad"}}`)
	})

	exec, err := claudeexecutor.New(client)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	_, err = exec.Complete(context.Background(), "", "hi")
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Complete() error = %v, want a 400 API error", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestOptions(t *testing.T) {
	client := anthropic.NewClient(option.WithAPIKey("test-key"))
	tests := []struct {
		name    string
		opt     claudeexecutor.Option
		wantErr bool
	}{
		{name: "claude model", opt: claudeexecutor.WithModel("claude-opus-4-20250514")},
		{name: "gemini model", opt: claudeexecutor.WithModel("gemini-2.0-flash"), wantErr: true},
		{name: "temperature too high", opt: claudeexecutor.WithTemperature(1.2), wantErr: true},
		{name: "max tokens", opt: claudeexecutor.WithMaxTokens(1024)},
		{name: "max tokens too large", opt: claudeexecutor.WithMaxTokens(64000), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := claudeexecutor.New(client, tt.opt)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
