/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package googleexecutor sends text completions to Gemini models.

The planner and the executor of a run each need one system prompt and one
user turn answered with plain text. Executor does exactly that on top of
google.golang.org/genai:

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
	    APIKey:  os.Getenv("GOOGLE_API_KEY"),
	    Backend: genai.BackendGeminiAPI,
	})

	exec, err := googleexecutor.New(client,
	    googleexecutor.WithModel("gemini-2.0-flash"),
	    googleexecutor.WithTemperature(0),
	)

	text, err := exec.Complete(ctx, systemPrompt, "Subtask: List files in 'docs'")

# Options

  - WithModel: Gemini model name (must start with "gemini-")
  - WithTemperature: 0.0-2.0, default 0
  - WithMaxOutputTokens: response length limit
  - WithRetryConfig: backoff for quota and transient server errors
  - WithAttributeEnricher: extra dimensions on token metrics

# Observability

Token usage is recorded on the genai OpenTelemetry counters and on the span
found in the request context, so completions made inside an agenttrace step
show their token counts in the trace.

# Thread Safety

Executor holds no per-request state and is safe for concurrent use.
*/
package googleexecutor
