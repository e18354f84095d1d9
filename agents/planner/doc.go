/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package planner builds the system prompt for the planning model and turns
// its reply into an ordered list of subtask descriptions.
//
// Replies are not trusted to follow the requested format, so extraction is a
// chain of independent strategies tried in order:
//
//  1. BracketList: the first [...] span, parsed as a list of string literals.
//  2. NumberedLines: lines such as "1. do x" or "- do y", markers removed.
//  3. WholeResponse: the whole reply as one subtask.
//
// A strategy that cannot handle the reply reports false and the next one runs,
// so extraction never fails outright.
package planner
