/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"fmt"
)

// State is a stage of a run.
type State int

const (
	StateIdle State = iota
	StatePlanning
	StateExecuting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlanning:
		return "planning"
	case StateExecuting:
		return "executing"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Transition is one state change. Subtask is the 1-based subtask about to
// run when To is StateExecuting, and zero otherwise.
type Transition struct {
	From    State
	To      State
	Subtask int
	Total   int
}

func (t Transition) String() string {
	if t.To == StateExecuting {
		return fmt.Sprintf("%s -> %s(%d/%d)", t.From, t.To, t.Subtask, t.Total)
	}
	return fmt.Sprintf("%s -> %s", t.From, t.To)
}

// TransitionHook observes state changes. It runs synchronously on the run's
// goroutine.
type TransitionHook func(context.Context, Transition)
