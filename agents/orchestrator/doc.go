/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package orchestrator drives a task through the planner and the executor.

A run moves through four states:

	Idle -> Planning -> Executing(1..n) -> Done

Planning asks the planner model to split the task into subtasks. Each subtask
is then sent to the executor model, whose reply is parsed into one function
call and dispatched through the registry loaded from the functions directory.
A failed subtask is recorded and the run moves on; RunResult.Error holds the
first failure as "Error in subtask N: <message>".

	orch, err := orchestrator.New(plannerModel, executorModel,
	    orchestrator.WithCatalog(functions.Catalog(cfg)),
	    orchestrator.WithTaskFile("perform_tasks.txt"),
	)
	res, err := orch.Run(ctx, "Organize the 'downloads' folder", "functions")
*/
package orchestrator
