/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the pipeline counters.
const (
	OutcomeSuccess       = "success"
	OutcomeNotRegistered = "not_registered"
	OutcomeInvalidArgs   = "invalid_arguments"
	OutcomeError         = "error"
	OutcomeParseError    = "parse_error"
	OutcomeModelError    = "model_error"
)

// UnregisteredFunction is the function label used for names missing from the
// registry, so hallucinated names cannot blow up label cardinality.
const UnregisteredFunction = "unregistered"

var (
	dispatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planexec_dispatch_total",
			Help: "Total number of function dispatches by function and outcome",
		},
		[]string{"function", "outcome"},
	)

	subtaskCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planexec_subtasks_total",
			Help: "Total number of executed subtasks by outcome",
		},
		[]string{"outcome"},
	)

	runCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planexec_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	retryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planexec_model_retries_total",
			Help: "Total number of retried model calls by operation",
		},
		[]string{"operation"},
	)

	plannedSubtasks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planexec_planned_subtasks",
			Help:    "Number of subtasks produced by the planner per run",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
)

// RecordDispatch counts one dispatcher invocation.
func RecordDispatch(function, outcome string) {
	dispatchCounter.With(prometheus.Labels{
		"function": function,
		"outcome":  outcome,
	}).Inc()
}

// RecordSubtask counts one subtask attempt.
func RecordSubtask(outcome string) {
	subtaskCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordPlan observes the size of a plan.
func RecordPlan(subtasks int) {
	plannedSubtasks.Observe(float64(subtasks))
}

// RecordRun counts one completed run.
func RecordRun(success bool) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeError
	}
	runCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// RecordRetry counts one retried model call.
func RecordRetry(operation string) {
	retryCounter.With(prometheus.Labels{"operation": operation}).Inc()
}
