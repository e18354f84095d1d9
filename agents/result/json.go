/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the body of the first ```json block in the response, or
// the response with any enclosing fence removed when there is no such block.
// An empty ```json block yields "".
func ExtractJSON(responseText string) string {
	var (
		body    []string
		inBlock bool
	)
	for _, line := range strings.Split(responseText, "\n") {
		switch {
		case !inBlock && strings.TrimSpace(line) == "```json":
			inBlock = true
		case inBlock && strings.TrimSpace(line) == "```":
			return strings.TrimSpace(strings.Join(body, "\n"))
		case inBlock:
			body = append(body, line)
		}
	}
	if inBlock {
		return strings.TrimSpace(strings.Join(body, "\n"))
	}
	return StripCodeFence(responseText)
}

// Extract unmarshals the JSON found by ExtractJSON into T.
func Extract[T any](responseText string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(ExtractJSON(responseText)), &out); err != nil {
		return out, err
	}
	return out, nil
}
