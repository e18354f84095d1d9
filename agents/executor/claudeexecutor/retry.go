/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"errors"

	"chainguard.dev/planexec/agents/executor/retry"
	"github.com/anthropics/anthropic-sdk-go"
)

func claudeStatus(err error) (int, bool) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// isRetryableClaudeError matches rate limit (429), overloaded (529) and
// transient gateway errors.
var isRetryableClaudeError = retry.Statuses(claudeStatus, 429, 503, 504, 529)
