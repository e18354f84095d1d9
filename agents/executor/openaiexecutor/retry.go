/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"
	"net/http"

	"chainguard.dev/planexec/agents/executor/retry"
	"github.com/openai/openai-go"
)

func openAIStatus(err error) (int, bool) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// isRetryableOpenAIError matches rate limit and transient gateway errors.
var isRetryableOpenAIError = retry.Statuses(openAIStatus,
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
)
