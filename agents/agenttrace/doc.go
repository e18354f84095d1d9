/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records pipeline runs.

A Trace covers one run from planning to the last subtask. Each subtask
attempt is a Step. Both open OpenTelemetry spans ("planexec.run" and
"planexec.subtask") so model calls made with the returned contexts nest
under them.

	trace := agenttrace.StartRun(ctx, task)
	resp, err := planner.Complete(trace.PlannerContext(), system, task)
	trace.RecordPlan(resp, subtasks)

	stepCtx, step := trace.StartStep(1, subtasks[0])
	// ... executor call and dispatch using stepCtx ...
	step.Complete(result, err)

	trace.Complete(runErr)

Completed traces go to the Tracer found in the context. Without one, the
trace is logged at debug level through clog. Use ByCode to receive traces
in tests or to forward them elsewhere:

	ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode(func(t *agenttrace.Trace) {
		fmt.Println(t)
	}))

ExecutionContext tags model calls with their role in the run. Enrich adapts
it to metrics.AttributeEnricher so token counters carry a "role" dimension.
*/
package agenttrace
