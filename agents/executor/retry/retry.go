/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries model calls that fail with rate limit or transient
// server errors.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"time"

	"chainguard.dev/planexec/agents/metrics"
	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior for model calls.
type Config struct {
	// MaxRetries is the number of attempts after the first. 0 disables retries.
	MaxRetries int
	// BaseBackoff is the wait before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the doubled backoff.
	MaxBackoff time.Duration
	// MaxJitter is the upper bound of the random delay added to each wait.
	MaxJitter time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig returns the configuration used by the executors. A run
// makes one planner call and one executor call per subtask, so the budget
// is sized for an interactive command rather than a batch job.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  20 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Classifier reports whether err is worth retrying.
type Classifier func(error) bool

// Statuses returns a Classifier matching errors for which status yields one
// of codes.
func Statuses(status func(error) (int, bool), codes ...int) Classifier {
	return func(err error) bool {
		if err == nil {
			return false
		}
		code, ok := status(err)
		return ok && slices.Contains(codes, code)
	}
}

// wait returns the backoff before retry number attempt (0-based).
func (c Config) wait(attempt int) time.Duration {
	backoff := min(c.BaseBackoff<<attempt, c.MaxBackoff)
	if c.MaxJitter > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(c.MaxJitter))); err == nil {
			backoff += time.Duration(n.Int64())
		}
	}
	return backoff
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the
// retries in cfg are used up.
func Do[T any](ctx context.Context, cfg Config, operation string, retryable Classifier, fn func() (T, error)) (T, error) {
	var (
		result  T
		lastErr error
	)
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return result, lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := cfg.wait(attempt)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", wait).
			With("error", lastErr.Error()).
			Warn("Transient model error, retrying")
		metrics.RecordRetry(operation)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return result, ctx.Err()
		case <-t.C:
		}
	}
	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}
