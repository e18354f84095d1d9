/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatcher invokes registered functions on behalf of the executor.
//
// Arguments are filtered to the function's declared parameters and checked
// against their declared types before the handler runs. Failures come back as
// ErrNotRegistered, *ArgumentError or *ExecutionError.
package dispatcher
