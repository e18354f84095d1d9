/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Roles a model call can play in a run.
const (
	RolePlanner  = "planner"
	RoleExecutor = "executor"
)

// ExecutionContext describes where in a run a model call happens.
type ExecutionContext struct {
	RunID   string `json:"run_id,omitempty"`
	Role    string `json:"role,omitempty"`    // RolePlanner or RoleExecutor
	Subtask int    `json:"subtask,omitempty"` // 1-based, executor calls only
}

// EnrichAttributes appends the bounded execution attributes to base.
// RunID is left out of metrics because every run would create a new series.
func (e ExecutionContext) EnrichAttributes(base []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(base), len(base)+1)
	copy(attrs, base)
	if e.Role != "" {
		attrs = append(attrs, attribute.String("role", e.Role))
	}
	return attrs
}

// Enrich is a metrics.AttributeEnricher that reads the execution context from ctx.
func Enrich(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
	return GetExecutionContext(ctx).EnrichAttributes(base)
}

type executionContextKey struct{}

// WithExecutionContext stores execCtx in ctx.
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, execCtx)
}

// GetExecutionContext returns the execution context stored in ctx, if any.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	if v, ok := ctx.Value(executionContextKey{}).(ExecutionContext); ok {
		return v
	}
	return ExecutionContext{}
}
