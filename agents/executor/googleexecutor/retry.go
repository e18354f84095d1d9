/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"net/http"
	"strings"

	"chainguard.dev/planexec/agents/executor/retry"
	"google.golang.org/genai"
)

var retryableStatus = retry.Statuses(geminiStatus,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
)

func geminiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, true
	}
	return 0, false
}

// isRetryableGeminiError matches quota, overload and transient server errors.
// Errors that did not come from the API are matched on the status names
// Google uses for the same conditions.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := geminiStatus(err); ok {
		return retryableStatus(err)
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "UNAVAILABLE") ||
		strings.Contains(msg, "Resource exhausted") ||
		strings.Contains(msg, "quota exceeded")
}
