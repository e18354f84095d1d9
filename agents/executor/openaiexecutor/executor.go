/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chainguard.dev/planexec/agents/agenttrace"
	"chainguard.dev/planexec/agents/executor/retry"
	"chainguard.dev/planexec/agents/metrics"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gpt-4o-mini"

// Executor sends single-turn chat completions to an OpenAI model.
type Executor struct {
	client       openai.Client
	model        string
	temperature  float64
	maxTokens    int64
	genaiMetrics *metrics.GenAI
	retryConfig  retry.Config
}

// New creates an OpenAI executor around client.
func New(client openai.Client, opts ...Option) (*Executor, error) {
	e := &Executor{
		client:       client,
		model:        DefaultModel,
		temperature:  0,
		maxTokens:    8192,
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
func (e *Executor) Model() string { return e.model }

// reasoningModel reports whether model is an o-series model, which only
// accepts the default temperature.
func reasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4")
}

// Complete sends a system message and a user message and returns the content
// of the first choice.
func (e *Executor) Complete(ctx context.Context, system, user string) (string, error) {
	log := clog.FromContext(ctx).With("model", e.model)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(e.maxTokens),
	}
	if !reasoningModel(e.model) {
		params.Temperature = openai.Float(e.temperature)
	}

	log.Debug("Sending OpenAI completion request")
	start := time.Now()
	completion, err := retry.Do(ctx, e.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return e.client.Chat.Completions.New(ctx, params)
	})
	e.genaiMetrics.RecordRequest(ctx, e.model, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("creating chat completion with model %q: %w", e.model, err)
	}

	if completion.Usage.PromptTokens > 0 || completion.Usage.CompletionTokens > 0 {
		e.genaiMetrics.RecordTokens(ctx, e.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
		agenttrace.RecordTokenUsage(ctx, e.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("no content generated - no choices")
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		log.With("finish_reason", completion.Choices[0].FinishReason).Warn("OpenAI returned no text")
		return "", errors.New("no text content found in response")
	}
	return text, nil
}
