// Package textutil has small string helpers used by the presentation layer.
package textutil

import (
	"unicode"
	"unicode/utf8"
)

// Ellipsis is appended by TruncateText.
const Ellipsis = "..."

// TruncateText shortens text to at most maxLen runes and appends Ellipsis
// when anything was cut. A negative maxLen is treated as zero.
func TruncateText(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen]) + Ellipsis
}

// CapitalizeFirst upper-cases the first rune of text.
func CapitalizeFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}
