// Package text holds the string example functions for the matcher note.
package text

import (
	"strings"
	"unicode"
)

// Reverse returns s with its runes in reverse order. It is rune-correct,
// not byte-correct: multi-byte characters survive the round trip.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// Ellipsis shortens s to at most max runes, ending in "..." when it had to
// cut. Values of max below 4 return the bare dots truncated to max.
func Ellipsis(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return strings.Repeat(".", max)
	}
	return string(runes[:max-3]) + "..."
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Slug lowercases s and replaces every run of non-alphanumeric characters
// with a single hyphen. Leading and trailing hyphens are trimmed.
func Slug(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
