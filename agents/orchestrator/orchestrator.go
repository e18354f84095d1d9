/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/planexec/agents/agenttrace"
	"chainguard.dev/planexec/agents/callparser"
	"chainguard.dev/planexec/agents/dispatcher"
	"chainguard.dev/planexec/agents/execprompt"
	"chainguard.dev/planexec/agents/metrics"
	"chainguard.dev/planexec/agents/model"
	"chainguard.dev/planexec/agents/planner"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/result"
	"github.com/chainguard-dev/clog"
)

// Orchestrator runs tasks through the planner and executor models.
type Orchestrator struct {
	planner  model.Completer
	executor model.Completer

	registry *registry.Registry
	catalog  *registry.Catalog
	taskFile string
	timezone string
	hook     TransitionHook
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRegistry uses reg instead of a fresh registry per run. Run still loads
// the functions directory into it when one is given.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *Orchestrator) { o.registry = reg }
}

// WithCatalog sets the handlers that manifests may enable.
func WithCatalog(c *registry.Catalog) Option {
	return func(o *Orchestrator) { o.catalog = c }
}

// WithTaskFile sets the file embedded in the planner prompt when a task
// mentions its name.
func WithTaskFile(path string) Option {
	return func(o *Orchestrator) { o.taskFile = path }
}

// WithTimezone sets the timezone the executor is told to use for calendar
// invites.
func WithTimezone(tz string) Option {
	return func(o *Orchestrator) { o.timezone = tz }
}

// WithTransitionHook registers a hook called on every state change.
func WithTransitionHook(hook TransitionHook) Option {
	return func(o *Orchestrator) { o.hook = hook }
}

// New creates an Orchestrator that plans with planner and maps subtasks to
// calls with executor.
func New(planner, executor model.Completer, opts ...Option) (*Orchestrator, error) {
	if planner == nil {
		return nil, errors.New("planner model is required")
	}
	if executor == nil {
		return nil, errors.New("executor model is required")
	}
	o := &Orchestrator{
		planner:  planner,
		executor: executor,
		timezone: execprompt.DefaultTimezone,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run decomposes task into subtasks and executes each one in order.
//
// Subtask failures are recorded in the result and never stop the run; the
// returned error is non-nil only when the functions directory cannot be
// loaded or planning fails. On planning failure the result is still returned.
func (o *Orchestrator) Run(ctx context.Context, task, functionsDir string) (*RunResult, error) {
	reg, err := o.loadRegistry(ctx, functionsDir)
	if err != nil {
		return nil, err
	}

	trace := agenttrace.StartRun(ctx, task)
	ctx = trace.Context()
	log := clog.FromContext(ctx).With("run_id", trace.ID)
	ctx = clog.WithLogger(ctx, log)

	res := &RunResult{Task: task, Subtasks: []SubtaskResult{}, Success: true}
	var runErr error
	defer func() {
		metrics.RecordRun(res.Success)
		trace.Complete(runErr)
	}()

	o.transition(ctx, Transition{From: StateIdle, To: StatePlanning})
	defs := reg.Definitions()
	log.With("functions", len(defs)).Info("Planning task")

	subtasks, err := o.plan(ctx, trace, reg, task)
	if err != nil {
		runErr = fmt.Errorf("planning failed: %w", err)
		res.Success = false
		res.Error = runErr.Error()
		o.transition(ctx, Transition{From: StatePlanning, To: StateDone})
		return res, runErr
	}

	log.Infof("Planner generated %d subtasks", len(subtasks))
	for i, s := range subtasks {
		log.Infof("%d. %s", i+1, s)
	}

	system, err := execprompt.BuildPrompt(defs, execprompt.WithTimezone(o.timezone))
	if err != nil {
		runErr = fmt.Errorf("building executor prompt: %w", err)
		res.Success = false
		res.Error = runErr.Error()
		o.transition(ctx, Transition{From: StatePlanning, To: StateDone})
		return res, runErr
	}

	disp := dispatcher.New(reg)
	from := StatePlanning
	for i, desc := range subtasks {
		o.transition(ctx, Transition{From: from, To: StateExecuting, Subtask: i + 1, Total: len(subtasks)})
		from = StateExecuting

		sr := o.execute(ctx, trace, disp, system, i+1, desc)
		if !sr.Success {
			res.Success = false
			if res.Error == "" {
				res.Error = fmt.Sprintf("Error in subtask %d: %s", i+1, sr.Error)
			}
		}
		res.Subtasks = append(res.Subtasks, sr)
	}
	o.transition(ctx, Transition{From: from, To: StateDone})

	if !res.Success {
		runErr = errors.New(res.Error)
	}
	log.With("success", res.Success).Info("Run finished")
	return res, nil
}

func (o *Orchestrator) loadRegistry(ctx context.Context, dir string) (*registry.Registry, error) {
	reg := o.registry
	if reg == nil {
		if dir == "" {
			return nil, errors.New("functions directory is required")
		}
		reg = registry.New(registry.WithCatalog(o.catalog))
	}
	if dir == "" {
		return reg, nil
	}
	if err := reg.Load(ctx, dir); err != nil {
		return nil, err
	}
	return reg, nil
}

func (o *Orchestrator) plan(ctx context.Context, trace *agenttrace.Trace, reg *registry.Registry, task string) ([]string, error) {
	tf, err := planner.LoadTaskFile(ctx, o.taskFile, task)
	if err != nil {
		return nil, err
	}
	system, err := planner.BuildPrompt(reg.Definitions(), tf)
	if err != nil {
		return nil, fmt.Errorf("building planner prompt: %w", err)
	}

	resp, err := o.planner.Complete(trace.PlannerContext(), system, task)
	if err != nil {
		return nil, err
	}
	subtasks := planner.ExtractSubtasks(ctx, resp)
	metrics.RecordPlan(len(subtasks))
	trace.RecordPlan(resp, subtasks)
	return subtasks, nil
}

// execute runs one subtask attempt. Every failure, including a panic, ends
// up in the returned result.
func (o *Orchestrator) execute(ctx context.Context, trace *agenttrace.Trace, disp *dispatcher.Dispatcher, system string, id int, desc string) (sr SubtaskResult) {
	sr = SubtaskResult{ID: id, Description: desc}
	stepCtx, step := trace.StartStep(id, desc)
	log := clog.FromContext(stepCtx).With("subtask", id)

	outcome := metrics.OutcomeSuccess
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			outcome = metrics.OutcomeError
		}
		if err != nil {
			sr.Success, sr.Result, sr.Error = false, "", err.Error()
			log.With("error", err).Error("Subtask failed")
		} else {
			sr.Success = true
		}
		metrics.RecordSubtask(outcome)
		step.Complete(sr.Result, err)
	}()

	resp, err := o.executor.Complete(stepCtx, system, execprompt.UserText(desc))
	if err != nil {
		outcome = metrics.OutcomeModelError
		err = fmt.Errorf("executor model: %w", err)
		return sr
	}
	step.RecordResponse(resp)
	log.With("response", resp).Debug("Executor responded")

	clean := result.StripCodeFence(resp)
	call, ok := callparser.Parse(stepCtx, clean)
	if !ok {
		outcome = metrics.OutcomeParseError
		err = fmt.Errorf("could not parse function call: %s", clean)
		return sr
	}
	sr.Call = &call
	step.RecordCall(call.Name, call.String())
	log.With("function", call.Name).With("args", call.Args.Plain()).Info("Parsed function call")

	out, err := disp.Execute(stepCtx, call.Name, call.Args)
	if err != nil {
		outcome = classify(err)
		return sr
	}
	sr.Result = result.Format(out)
	return sr
}

func classify(err error) string {
	var argErr *dispatcher.ArgumentError
	switch {
	case errors.Is(err, dispatcher.ErrNotRegistered):
		return metrics.OutcomeNotRegistered
	case errors.As(err, &argErr):
		return metrics.OutcomeInvalidArgs
	}
	return metrics.OutcomeError
}

func (o *Orchestrator) transition(ctx context.Context, t Transition) {
	clog.FromContext(ctx).With("transition", t.String()).Debug("State transition")
	if o.hook != nil {
		o.hook(ctx, t)
	}
}
