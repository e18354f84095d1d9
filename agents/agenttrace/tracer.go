/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Tracer creates run traces and receives them once complete.
type Tracer interface {
	NewTrace(ctx context.Context, task string) *Trace
	RecordTrace(trace *Trace)
}

type tracerKey struct{}

// WithTracer returns a context carrying tracer.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the tracer in ctx, or one that logs through clog.
func TracerFromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return NewDefaultTracer(ctx)
}

// StartRun starts a run trace with the tracer from ctx.
func StartRun(ctx context.Context, task string) *Trace {
	return TracerFromContext(ctx).NewTrace(ctx, task)
}

// TraceCallback receives completed traces.
type TraceCallback func(*Trace)

type byCodeTracer struct {
	callbacks []TraceCallback
}

// ByCode returns a Tracer that invokes each callback with completed traces.
func ByCode(callbacks ...TraceCallback) Tracer {
	return &byCodeTracer{callbacks: callbacks}
}

func (t *byCodeTracer) NewTrace(ctx context.Context, task string) *Trace {
	return newTraceWithTracer(ctx, t, task)
}

// RecordTrace runs the callbacks in parallel and waits for them.
func (t *byCodeTracer) RecordTrace(trace *Trace) {
	var g errgroup.Group
	for _, cb := range t.callbacks {
		if cb == nil {
			continue
		}
		g.Go(func() error {
			cb(trace)
			return nil
		})
	}
	_ = g.Wait()
}

// NewDefaultTracer returns a Tracer that logs each completed run at debug level.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(trace *Trace) {
		logger.With(
			"run_id", trace.ID,
			"duration_ms", trace.Duration().Milliseconds(),
			"steps", len(trace.Steps),
		).Debug("Run trace completed", "trace", trace.String())
	})
}
