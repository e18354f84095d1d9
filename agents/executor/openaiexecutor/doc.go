/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor sends text completions to OpenAI chat models, or to
// any server that speaks the chat completions API, through
// github.com/openai/openai-go.
package openaiexecutor
