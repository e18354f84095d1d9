/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"fmt"
	"strings"

	"chainguard.dev/planexec/agents/executor/retry"
	"chainguard.dev/planexec/agents/metrics"
)

// Option is a functional option for configuring an Executor.
type Option func(*Executor) error

// WithModel sets the Gemini model to use.
func WithModel(model string) Option {
	return func(e *Executor) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature.
// Gemini models accept values from 0.0 to 2.0.
func WithTemperature(temperature float32) Option {
	return func(e *Executor) error {
		if temperature < 0.0 || temperature > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		e.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens sets the maximum output tokens for generation.
func WithMaxOutputTokens(tokens int32) Option {
	return func(e *Executor) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		if tokens > 32768 {
			return fmt.Errorf("max output tokens %d exceeds maximum of 32768", tokens)
		}
		e.maxOutputTokens = tokens
		return nil
	}
}

// WithAttributeEnricher sets the enricher applied to every metric recording.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(e *Executor) error {
		e.genaiMetrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithRetryConfig sets the backoff used for 429 RESOURCE_EXHAUSTED and other
// transient errors.
func WithRetryConfig(cfg retry.Config) Option {
	return func(e *Executor) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
