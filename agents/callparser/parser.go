/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package callparser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"chainguard.dev/planexec/agents/toolcall"
	"chainguard.dev/planexec/agents/toolcall/params"
	"github.com/chainguard-dev/clog"
)

var (
	namePattern = regexp.MustCompile(`^(\w+)\s*\(`)
	argsPattern = regexp.MustCompile(`(?s)\((.*)\)`)
)

// Parse converts a call expression such as `ai_send_email(subject='Hi', body='...')`
// into a toolcall.Call. It reports false when no function name can be found.
//
// Parse never panics; unexpected failures are logged and reported as false.
func Parse(ctx context.Context, text string) (call toolcall.Call, ok bool) {
	log := clog.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.With("text", text).Errorf("Panic while parsing function call: %v", r)
			call, ok = toolcall.Call{}, false
		}
	}()

	text = strings.TrimSpace(text)
	m := namePattern.FindStringSubmatch(text)
	if m == nil {
		log.With("text", text).Debug("No function name found")
		return toolcall.Call{}, false
	}
	call = toolcall.Call{Name: m[1], Args: params.Args{}}

	am := argsPattern.FindStringSubmatch(text)
	if am == nil || strings.TrimSpace(am[1]) == "" {
		return call, true
	}

	for _, frag := range SplitArgs(am[1]) {
		key, raw, found := strings.Cut(frag, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		call.Args[key] = coerce(ctx, strings.TrimSpace(raw))
	}
	return call, true
}

// SplitArgs splits a raw argument list on commas that are not inside a quoted
// string. A quote only closes the string opened by the same quote character.
func SplitArgs(raw string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
	)
	for _, c := range raw {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteRune(c)
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}

// coerce applies the literal rules in order: quoted string, bool, null,
// number, then the raw token as a string.
func coerce(ctx context.Context, v string) params.Value {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return params.String(v[1 : len(v)-1])
	}

	switch strings.ToLower(v) {
	case "true":
		return params.Bool(true)
	case "false":
		return params.Bool(false)
	case "none", "null":
		return params.Null()
	}

	if !isNumeric(v) {
		return params.String(v)
	}
	if strings.Contains(v, ".") {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			clog.FromContext(ctx).With("value", v).Warnf("Keeping unparseable float as string: %v", err)
			return params.String(v)
		}
		return params.Float(f)
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		clog.FromContext(ctx).With("value", v).Warnf("Keeping out-of-range integer as string: %v", err)
		return params.String(v)
	}
	return params.Int(i)
}

// isNumeric reports whether v is a run of ASCII digits with at most one
// decimal point somewhere in it.
func isNumeric(v string) bool {
	digits, dots := 0, 0
	for _, c := range v {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// MustParse is Parse for tests and fixtures; it panics when text has no call.
func MustParse(text string) toolcall.Call {
	call, ok := Parse(context.Background(), text)
	if !ok {
		panic(fmt.Sprintf("callparser: no function call in %q", text))
	}
	return call
}
