/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package execprompt builds the system prompt that asks the executor model to
// answer a subtask with exactly one function call.
package execprompt

import (
	"chainguard.dev/planexec/agents/promptbuilder"
	"chainguard.dev/planexec/agents/registry"
	"chainguard.dev/planexec/agents/toolcall"
)

// DefaultTimezone is the timezone label the examples and instructions use.
const DefaultTimezone = "Asia/Kolkata"

var systemPrompt = promptbuilder.MustNewPrompt(`We are building an AI agent with two LLMs. The first LLM has received a task from the user and divided it into smaller subtasks. You are the second LLM in the system, responsible for executing subtasks.
You have access to the following functions that can be called to complete tasks:
{{functions}}

### Instructions for You:
1. Analyze the subtask provided to you.
2. Identify the most appropriate function to execute for this subtask.
3. Format your response as a single function call with appropriate arguments.
4. Use ONLY functions that exist in the provided list. Do not invent new functions.
5. For email tasks:
   - Use ai_send_email(subject: str, body: str) for sending emails
   - Use ai_send_calendar_invite(subject: str, body: str, start_time: str, end_time: str, timezone: str) for calendar invites
   - Format datetime as 'YYYY-MM-DD HH:MM:SS'
   - Use '{{timezone}}' for timezone

Example Response Format:
<<<
user_input : Retrieve list of all files within the 'un_organized' folder
response : ai_get_file_list(path='un_organized')

user_input : Create organized folders based on the identified unique file types within the 'un_organized' directory
response : ai_create_folders(base_path='un_organized')

user_input : Send email reminder for assignment
response : ai_send_email(subject='Assignment Reminder', body='Please complete your assignment.')

user_input : Set calendar reminder for Yoga Sadhana at 7:00 AM IST
response : ai_send_calendar_invite(subject='Yoga Sadhana', body='Time for Yoga Sadhana!', start_time='2025-03-12 07:00:00', end_time='2025-03-12 07:30:00', timezone='{{timezone}}')
>>>

Your response should contain ONLY the function call, nothing else. Do not include any formatting like ` + "```" + ` or toolcode etc.
`)

type options struct {
	timezone string
}

// Option configures BuildPrompt.
type Option func(*options)

// WithTimezone sets the timezone label the model is told to use.
func WithTimezone(tz string) Option {
	return func(o *options) { o.timezone = tz }
}

// BuildPrompt renders the executor system prompt for the given functions.
func BuildPrompt(defs []toolcall.Definition, opts ...Option) (string, error) {
	o := options{timezone: DefaultTimezone}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timezone == "" {
		o.timezone = DefaultTimezone
	}

	p, err := systemPrompt.BindJSON("functions", registry.InfoFor(defs))
	if err != nil {
		return "", err
	}
	if p, err = p.BindText("timezone", o.timezone); err != nil {
		return "", err
	}
	return p.Build()
}

// UserText is the user turn sent to the executor for one subtask.
func UserText(subtask string) string {
	return "Subtask: " + subtask
}
