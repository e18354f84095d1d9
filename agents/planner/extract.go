/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package planner

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"chainguard.dev/planexec/agents/result"
	"github.com/chainguard-dev/clog"
)

// Strategy attempts to pull an ordered subtask list out of a planner reply.
// It reports false when the reply is not in the shape it understands.
type Strategy func(response string) ([]string, bool)

// DefaultStrategies is the order ExtractSubtasks tries.
var DefaultStrategies = []Strategy{BracketList, NumberedLines, WholeResponse}

var (
	bracketPattern = regexp.MustCompile(`(?s)\[(.*?)\]`)
	markerPattern  = regexp.MustCompile(`^\s*(?:[\d\-\*]+\.\s*|[-*]\s+)`)
)

// ExtractSubtasks runs DefaultStrategies against the reply.
func ExtractSubtasks(ctx context.Context, response string) []string {
	return ExtractWith(ctx, response, DefaultStrategies...)
}

// ExtractWith returns the result of the first strategy that succeeds, or an
// empty plan when none do.
func ExtractWith(ctx context.Context, response string, strategies ...Strategy) []string {
	log := clog.FromContext(ctx)
	for i, s := range strategies {
		if subtasks, ok := s(response); ok {
			log.With("strategy", i).With("subtasks", len(subtasks)).Debug("Extracted subtasks")
			return subtasks
		}
	}
	log.With("response", response).Warn("No subtasks could be extracted from the planner response")
	return []string{}
}

// BracketList parses a reply that is a JSON list, fenced or bare. Otherwise
// it finds the first [...] span and parses it as a list of string literals,
// JSON first and then single- or double-quoted literal syntax.
func BracketList(response string) ([]string, bool) {
	if items, err := result.Extract[[]string](response); err == nil && items != nil {
		return compact(items), true
	}

	span := bracketPattern.FindString(response)
	if span == "" {
		return nil, false
	}

	var items []string
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		if items, err = parseLiteralList(span); err != nil {
			return nil, false
		}
	}
	return compact(items), true
}

// NumberedLines keeps the lines that start with a numbered or bulleted
// marker, with the marker removed.
func NumberedLines(response string) ([]string, bool) {
	var items []string
	for _, line := range strings.Split(response, "\n") {
		loc := markerPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if item := strings.TrimSpace(line[loc[1]:]); item != "" {
			items = append(items, item)
		}
	}
	return items, len(items) > 0
}

// WholeResponse treats the trimmed reply as a single subtask. A blank reply
// is an empty plan.
func WholeResponse(response string) ([]string, bool) {
	response = strings.TrimSpace(response)
	if response == "" {
		return []string{}, true
	}
	return []string{response}, true
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

var errMalformedList = errors.New("malformed list literal")

// parseLiteralList parses a bracketed list of quoted strings, such as
// ['a', "b's", 'c'], with an optional trailing comma.
func parseLiteralList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, errMalformedList
	}
	rest := strings.TrimSpace(s[1 : len(s)-1])

	items := []string{}
	for rest != "" {
		item, tail, err := readQuoted(rest)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		tail = strings.TrimSpace(tail)
		if tail == "" {
			break
		}
		if tail[0] != ',' {
			return nil, errMalformedList
		}
		rest = strings.TrimSpace(tail[1:])
	}
	return items, nil
}

// readQuoted consumes one quoted literal from the front of s and returns the
// decoded contents and the remainder.
func readQuoted(s string) (string, string, error) {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return "", "", errMalformedList
	}
	quote := s[0]

	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			switch e := s[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(e)
			}
		case c == quote:
			return sb.String(), s[i+1:], nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", "", errMalformedList
}
