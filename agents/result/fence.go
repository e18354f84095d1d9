/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"strings"
	"unicode"
)

const fence = "```"

// StripCodeFence trims the text and, when it both starts and ends with ```,
// removes the fences along with a leading language tag such as "python".
// Text that is not fully fenced is only trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 2*len(fence) || !strings.HasPrefix(text, fence) || !strings.HasSuffix(text, fence) {
		return text
	}
	inner := text[len(fence) : len(text)-len(fence)]

	// A language tag is a single word directly after the opening fence.
	if first, rest, ok := strings.Cut(inner, "\n"); ok && isLanguageTag(first) {
		inner = rest
	}
	return strings.TrimSpace(inner)
}

func isLanguageTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
