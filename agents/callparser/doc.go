/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package callparser turns the single call expression produced by the
// executor model into a function name and typed arguments.
//
// Accepted input looks like:
//
//	ai_send_calendar_invite(subject='Standup', start_time='2025-03-12 07:00:00', online=true)
//
// Values are coerced in order: a quoted string keeps its contents, true and
// false (any case) become bools, none and null become null, digit runs become
// ints or floats, and anything else is kept as the raw token. Commas inside
// quotes never split arguments, and fragments without '=' are dropped.
package callparser
