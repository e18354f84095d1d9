/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package claudeexecutor sends text completions to Claude models through
github.com/anthropics/anthropic-sdk-go.

	client := anthropic.NewClient(option.WithAPIKey(key))
	exec, err := claudeexecutor.New(client,
	    claudeexecutor.WithModel("claude-sonnet-4-20250514"),
	)
	text, err := exec.Complete(ctx, systemPrompt, userText)

Rate limit (429), overloaded (529) and gateway (503, 504) responses are
retried with backoff; other API errors are returned immediately.
*/
package claudeexecutor
