/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "chainguard.dev/planexec/agents/agenttrace"

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// Trace records one pipeline run: the plan and every subtask attempt.
type Trace struct {
	ID              string    `json:"id"`
	Task            string    `json:"task"`
	PlannerResponse string    `json:"planner_response,omitempty"`
	Plan            []string  `json:"plan"`
	Steps           []*Step   `json:"steps"`
	Error           error     `json:"error,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`

	tracer Tracer
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
}

// Step records one subtask attempt within a run.
type Step struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Response    string    `json:"response,omitempty"`
	Call        string    `json:"call,omitempty"`
	Result      string    `json:"result,omitempty"`
	Error       error     `json:"error,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	trace *Trace
	mu    sync.Mutex
	span  oteltrace.Span
}

func newTraceWithTracer(ctx context.Context, t Tracer, task string) *Trace {
	id := generateTraceID()
	ctx, span := tracer().Start(ctx, "planexec.run", oteltrace.WithAttributes(
		attribute.String("run.id", id),
		attribute.String("run.task", task),
	))
	ctx = WithExecutionContext(ctx, ExecutionContext{RunID: id})

	return &Trace{
		ID:        id,
		Task:      task,
		Plan:      []string{},
		Steps:     []*Step{},
		StartTime: time.Now(),
		tracer:    t,
		ctx:       ctx,
		span:      span,
	}
}

// Context returns the run context carrying the run span and execution context.
func (t *Trace) Context() context.Context { return t.ctx }

// PlannerContext returns a context for the planner model call.
func (t *Trace) PlannerContext() context.Context {
	ec := GetExecutionContext(t.ctx)
	ec.Role = RolePlanner
	return WithExecutionContext(t.ctx, ec)
}

// RecordPlan stores the planner reply and the subtasks extracted from it.
func (t *Trace) RecordPlan(response string, plan []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.PlannerResponse = response
	t.Plan = append([]string(nil), plan...)
	if t.span != nil {
		t.span.SetAttributes(attribute.Int("run.subtasks", len(plan)))
	}
}

// StartStep opens a span for subtask id and returns a context for the
// executor model call.
func (t *Trace) StartStep(id int, description string) (context.Context, *Step) {
	ctx, span := tracer().Start(t.ctx, "planexec.subtask", oteltrace.WithAttributes(
		attribute.Int("subtask.id", id),
		attribute.String("subtask.description", description),
	))
	ec := GetExecutionContext(t.ctx)
	ec.Role, ec.Subtask = RoleExecutor, id
	ctx = WithExecutionContext(ctx, ec)

	return ctx, &Step{
		ID:          id,
		Description: description,
		StartTime:   time.Now(),
		trace:       t,
		span:        span,
	}
}

// RecordResponse stores the raw executor reply.
func (s *Step) RecordResponse(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Response = text
}

// RecordCall stores the parsed call and tags the span with the function name.
func (s *Step) RecordCall(name, expr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Call = expr
	if s.span != nil {
		s.span.SetAttributes(attribute.String("function.name", name))
	}
}

// Complete closes the step span and appends the step to its run.
func (s *Step) Complete(result string, err error) {
	s.mu.Lock()
	s.Result = result
	s.Error = err
	s.EndTime = time.Now()
	span, t := s.span, s.trace
	s.mu.Unlock()

	endSpan(span, err)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.Steps = append(t.Steps, s)
}

// Duration returns how long the step took, or has taken so far.
func (s *Step) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return elapsed(s.StartTime, s.EndTime)
}

// Complete closes the run span and hands the trace to its tracer.
func (t *Trace) Complete(err error) {
	t.mu.Lock()
	t.Error = err
	t.EndTime = time.Now()
	span, tr := t.span, t.tracer
	t.mu.Unlock()

	endSpan(span, err)
	if tr != nil {
		tr.RecordTrace(t)
	}
}

// Duration returns how long the run took, or has taken so far.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

// RecordTokenUsage tags the span in ctx with model token usage.
func RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens int64) {
	span := oteltrace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("model", model),
		attribute.Int64("tokens.input", inputTokens),
		attribute.Int64("tokens.output", outputTokens),
		attribute.Int64("tokens.total", inputTokens+outputTokens),
	)
}

// String renders the trace for logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Run %s ===\n", t.ID)
	fmt.Fprintf(&sb, "Task: %q\n", t.Task)
	fmt.Fprintf(&sb, "Duration: %v\n", elapsed(t.StartTime, t.EndTime))

	fmt.Fprintf(&sb, "\nPlan (%d subtasks):\n", len(t.Plan))
	for i, p := range t.Plan {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, p)
	}

	if len(t.Steps) > 0 {
		sb.WriteString("\nSteps:\n")
	}
	for _, s := range t.Steps {
		fmt.Fprintf(&sb, "  [%d] %s\n", s.ID, s.Description)
		if s.Call != "" {
			fmt.Fprintf(&sb, "      Call: %s\n", s.Call)
		}
		if s.Error != nil {
			fmt.Fprintf(&sb, "      Error: %v\n", s.Error)
		} else {
			fmt.Fprintf(&sb, "      Result: %s\n", truncate(s.Result, 200))
		}
	}

	sb.WriteString("\nCompletion:\n")
	if t.Error != nil {
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	} else {
		sb.WriteString("  OK\n")
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// generateTraceID returns an ID of the form YYYYMMDD-HHMMSS-RRRRRRRR.
func generateTraceID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405.000000")
	}
	return time.Now().Format("20060102-150405") + "-" + hex.EncodeToString(b)
}
