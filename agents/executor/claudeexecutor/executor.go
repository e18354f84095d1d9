/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/planexec/agents/agenttrace"
	"chainguard.dev/planexec/agents/executor/retry"
	"chainguard.dev/planexec/agents/metrics"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "claude-sonnet-4-20250514"

// Executor sends single-turn text completions to a Claude model.
type Executor struct {
	client       anthropic.Client
	modelName    string
	maxTokens    int64
	temperature  float64
	genaiMetrics *metrics.GenAI // token usage and request outcomes
	retryConfig  retry.Config   // retry configuration for transient Claude API errors
}

// New creates a Claude executor around client.
func New(client anthropic.Client, opts ...Option) (*Executor, error) {
	e := &Executor{
		client:       client,
		modelName:    DefaultModel,
		maxTokens:    8192,
		temperature:  0,
		genaiMetrics: metrics.NewGenAI(metrics.DefaultMeterName),
		retryConfig:  retry.DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Model returns the model name requests are sent to.
func (e *Executor) Model() string { return e.modelName }

// Complete sends system as the system prompt and user as the only message,
// and returns the concatenated text blocks of the reply.
func (e *Executor) Complete(ctx context.Context, system, user string) (string, error) {
	log := clog.FromContext(ctx).With("model", e.modelName)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.modelName),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(user),
			},
		}},
		Temperature: anthropic.Float(e.temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	log.Debug("Sending Claude completion request")
	start := time.Now()
	message, err := retry.Do(ctx, e.retryConfig, "create_message", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return e.client.Messages.New(ctx, params)
	})
	e.genaiMetrics.RecordRequest(ctx, e.modelName, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("creating message with model %q: %w", e.modelName, err)
	}

	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		e.genaiMetrics.RecordTokens(ctx, e.modelName, message.Usage.InputTokens, message.Usage.OutputTokens)
		agenttrace.RecordTokenUsage(ctx, e.modelName, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	if sb.Len() == 0 {
		log.With("stop_reason", message.StopReason).Warn("Claude returned no text")
		return "", errors.New("no text content found in response")
	}
	log.With("text_length", sb.Len()).Debug("Received Claude completion")
	return sb.String(), nil
}
