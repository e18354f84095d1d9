/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"chainguard.dev/planexec/agents/metrics"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

// ErrNotRegistered is returned when a call names a function the registry does not hold.
var ErrNotRegistered = errors.New("not found in registry")

// ArgumentError reports a value whose kind does not satisfy the declared parameter type.
type ArgumentError struct {
	Function string
	Param    string
	Want     string
	Got      params.Kind
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("function %q: parameter %q must be %s, got %s", e.Function, e.Param, e.Want, e.Got)
}

// ExecutionError wraps a failure raised by the invoked function.
type ExecutionError struct {
	Function string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error executing function %q: %v", e.Function, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Dispatcher validates parsed calls against a registry and invokes them.
// It holds no state of its own.
type Dispatcher struct {
	reg *registry.Registry
}

// New creates a dispatcher over reg.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Execute runs the named function with args filtered down to its declared
// parameters. Undeclared keys are dropped and logged rather than rejected.
func (d *Dispatcher) Execute(ctx context.Context, name string, args params.Args) (result any, err error) {
	log := clog.FromContext(ctx).With("function", name)

	tool, ok := d.reg.Lookup(name)
	if !ok {
		metrics.RecordDispatch(metrics.UnregisteredFunction, metrics.OutcomeNotRegistered)
		return nil, fmt.Errorf("function %q %w", name, ErrNotRegistered)
	}

	filtered := make(params.Args, len(tool.Def.Parameters))
	for _, p := range tool.Def.Parameters {
		v, ok := args[p.Name]
		if !ok {
			continue
		}
		if !params.Accepts(p.Type, v) {
			metrics.RecordDispatch(name, metrics.OutcomeInvalidArgs)
			return nil, &ArgumentError{Function: name, Param: p.Name, Want: p.Type, Got: v.Kind()}
		}
		filtered[p.Name] = v
	}
	if dropped := undeclared(args, filtered); len(dropped) > 0 {
		log.With("dropped", dropped).Debug("Dropping undeclared arguments")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Function panicked: %v", r)
			metrics.RecordDispatch(name, metrics.OutcomeError)
			result, err = nil, &ExecutionError{Function: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	log.With("args", filtered.Plain()).Info("Executing function")
	result, err = tool.Handler(ctx, filtered)
	if err != nil {
		log.With("error", err).Error("Function failed")
		metrics.RecordDispatch(name, metrics.OutcomeError)
		return nil, &ExecutionError{Function: name, Err: err}
	}
	metrics.RecordDispatch(name, metrics.OutcomeSuccess)
	return result, nil
}

func undeclared(args, kept params.Args) []string {
	var dropped []string
	for _, k := range slices.Sorted(maps.Keys(args)) {
		if _, ok := kept[k]; !ok {
			dropped = append(dropped, k)
		}
	}
	return dropped
}
