/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainguard.dev/planexec/agents/agenttrace"
	"chainguard.dev/planexec/agents/executor/retry"
	"chainguard.dev/planexec/agents/metrics"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-2.0-flash"

// Executor sends single-turn text completions to a Gemini model.
type Executor struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	genaiMetrics    *metrics.GenAI // token usage and request outcomes
	retryConfig     retry.Config   // retry configuration for transient Gemini errors
}

// New creates a Gemini executor around client.
func New(client *genai.Client, options ...Option) (*Executor, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}

	exec := &Executor{
		client:          client,
		model:           DefaultModel,
		temperature:     0, // planning and call formatting should be deterministic
		maxOutputTokens: 8192,
		genaiMetrics:    metrics.NewGenAI(metrics.DefaultMeterName),
		retryConfig:     retry.DefaultConfig(),
	}

	for _, opt := range options {
		if err := opt(exec); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return exec, nil
}

// Model returns the model name requests are sent to.
func (e *Executor) Model() string { return e.model }

// Complete sends system as the system instruction and user as the only user
// turn, and returns the text of the first candidate.
func (e *Executor) Complete(ctx context.Context, system, user string) (string, error) {
	log := clog.FromContext(ctx).With("model", e.model)

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(e.temperature),
		MaxOutputTokens: e.maxOutputTokens,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	contents := []*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}

	log.Debug("Sending Gemini completion request")
	start := time.Now()
	response, err := retry.Do(ctx, e.retryConfig, "generate_content", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return e.client.Models.GenerateContent(ctx, e.model, contents, config)
	})
	e.genaiMetrics.RecordRequest(ctx, e.model, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("generating content with model %q: %w", e.model, err)
	}

	if response.UsageMetadata != nil {
		in, out := int64(response.UsageMetadata.PromptTokenCount), int64(response.UsageMetadata.CandidatesTokenCount)
		e.genaiMetrics.RecordTokens(ctx, e.model, in, out)
		agenttrace.RecordTokenUsage(ctx, e.model, in, out)
	}

	if len(response.Candidates) == 0 {
		return "", errors.New("no content generated - no candidates")
	}
	text := response.Text()
	if text == "" {
		log.With("finish_reason", response.Candidates[0].FinishReason).Warn("Gemini returned no text")
		return "", errors.New("no text content found in response")
	}
	log.With("text_length", len(text)).Debug("Received Gemini completion")
	return text, nil
}

func ptr[T any](v T) *T {
	return &v
}
