/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"fmt"

	"chainguard.dev/planexec/agents/executor/retry"
	"chainguard.dev/planexec/agents/metrics"
)

// Option is a functional option for configuring an Executor.
type Option func(*Executor) error

// WithModel sets the model name. Any name is accepted since OpenAI-compatible
// servers use their own naming.
func WithModel(model string) Option {
	return func(e *Executor) error {
		if model == "" {
			return fmt.Errorf("model name cannot be empty")
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the temperature (0.0 to 2.0). It is not sent to
// o-series models.
func WithTemperature(temp float64) Option {
	return func(e *Executor) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(tokens int64) Option {
	return func(e *Executor) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithAttributeEnricher sets a custom attribute enricher for metrics.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(e *Executor) error {
		e.genaiMetrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithRetryConfig sets the retry configuration for rate limit and transient
// server errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(e *Executor) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
