/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package model defines the text-completion contract the pipeline uses for
// both the planner and the executor, and picks a provider by model name.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/planexec/agents/agenttrace"
	"chainguard.dev/planexec/agents/executor/claudeexecutor"
	"chainguard.dev/planexec/agents/executor/googleexecutor"
	"chainguard.dev/planexec/agents/executor/openaiexecutor"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Completer answers one system prompt plus one user message with text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system, user string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

// Provider identifies a model API.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// ErrUnknownModel is returned for model names no provider claims.
var ErrUnknownModel = errors.New("unknown model")

// ErrMissingAPIKey is returned when the selected provider has no key configured.
var ErrMissingAPIKey = errors.New("missing API key")

// Config holds provider credentials and endpoints.
// Empty base URLs use each SDK's default.
type Config struct {
	GoogleAPIKey     string
	GoogleBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	Temperature      float64
}

// ProviderFor returns the provider serving name.
func ProviderFor(name string) (Provider, error) {
	switch {
	case strings.HasPrefix(name, "gemini-"):
		return ProviderGoogle, nil
	case strings.HasPrefix(name, "claude-"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(name, "gpt-"), strings.HasPrefix(name, "o1"),
		strings.HasPrefix(name, "o3"), strings.HasPrefix(name, "o4"):
		return ProviderOpenAI, nil
	}
	return "", fmt.Errorf("%w: %q (expected gemini-*, claude-*, gpt-*, o1*, o3* or o4*)", ErrUnknownModel, name)
}

// New returns a Completer for the named model. Token metrics from every
// provider carry the pipeline role found in the request context.
func New(ctx context.Context, cfg Config, name string) (Completer, error) {
	provider, err := ProviderFor(name)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderGoogle:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY is required for %q", ErrMissingAPIKey, name)
		}
		cc := &genai.ClientConfig{
			APIKey:  cfg.GoogleAPIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.GoogleBaseURL != "" {
			cc.HTTPOptions.BaseURL = cfg.GoogleBaseURL
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		return wrap(googleexecutor.New(client,
			googleexecutor.WithModel(name),
			googleexecutor.WithTemperature(float32(cfg.Temperature)),
			googleexecutor.WithAttributeEnricher(agenttrace.Enrich),
		))

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is required for %q", ErrMissingAPIKey, name)
		}
		opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(cfg.AnthropicAPIKey)}
		if cfg.AnthropicBaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(cfg.AnthropicBaseURL))
		}
		return wrap(claudeexecutor.New(anthropic.NewClient(opts...),
			claudeexecutor.WithModel(name),
			claudeexecutor.WithTemperature(cfg.Temperature),
			claudeexecutor.WithAttributeEnricher(agenttrace.Enrich),
		))

	default:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for %q", ErrMissingAPIKey, name)
		}
		opts := []openaioption.RequestOption{openaioption.WithAPIKey(cfg.OpenAIAPIKey)}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openaioption.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return wrap(openaiexecutor.New(openai.NewClient(opts...),
			openaiexecutor.WithModel(name),
			openaiexecutor.WithTemperature(cfg.Temperature),
			openaiexecutor.WithAttributeEnricher(agenttrace.Enrich),
		))
	}
}

// wrap keeps a failed constructor from producing a non-nil Completer
// holding a nil pointer.
func wrap[T Completer](c T, err error) (Completer, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
