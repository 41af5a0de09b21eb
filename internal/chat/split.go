package chat

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the largest text we send in a single Chat message.
// Google Chat caps messages at 4096 characters; we leave some margin.
const MaxMessageLength = 4000

// SplitMessage divides a long message into parts of at most maxLength
// bytes, preferring to cut at the last newline within the limit, then
// at the last space, and only mid-word as a last resort. Cuts never land
// inside a multi-byte rune.
func SplitMessage(text string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = MaxMessageLength
	}
	if len(text) <= maxLength {
		return []string{text}
	}

	var parts []string
	remaining := text
	for len(remaining) > maxLength {
		cut := strings.LastIndex(remaining[:maxLength], "\n")
		if cut == -1 {
			cut = strings.LastIndex(remaining[:maxLength], " ")
		}
		if cut == -1 {
			cut = runeBoundary(remaining, maxLength)
			if cut == 0 {
				// Degenerate limit smaller than one rune; cut anyway.
				cut = maxLength
			}
		}
		parts = append(parts, strings.TrimSpace(remaining[:cut]))
		remaining = strings.TrimSpace(remaining[cut:])
	}
	if remaining != "" {
		parts = append(parts, remaining)
	}
	return parts
}

// TruncateForInline shortens text to fit a single synchronous webhook
// response. The webhook can only carry one message, so overflow is cut with
// a notice instead of being split.
func TruncateForInline(text string) string {
	if len(text) <= MaxMessageLength {
		return text
	}
	cut := runeBoundary(text, MaxMessageLength-100)
	return text[:cut] + "\n\n... (message truncated, long response)"
}

// runeBoundary returns the largest index <= max that does not split a
// multi-byte rune in text.
func runeBoundary(text string, max int) int {
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return max
}
