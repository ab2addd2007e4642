package js_ast

import (
	"strings"
	"unicode"
)

func IsIdentifierStart(c rune) bool {
	switch {
	case c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'):
		return true
	case c < utf8RuneSelf:
		return false
	}
	return unicode.IsLetter(c) || unicode.Is(unicode.Nl, c)
}

// ZWNJ and ZWJ may continue an identifier
func IsIdentifierContinue(c rune) bool {
	switch {
	case IsIdentifierStart(c) || ('0' <= c && c <= '9'):
		return true
	case c < utf8RuneSelf:
		return false
	case c == '\u200C' || c == '\u200D':
		return true
	}
	return unicode.In(c, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

const utf8RuneSelf = 0x80

func IsIdentifier(text string) bool {
	for i, c := range text {
		if i == 0 && !IsIdentifierStart(c) || i > 0 && !IsIdentifierContinue(c) {
			return false
		}
	}
	return text != ""
}

// Returns true for "a", "a.b" and "a.b.c" where each part is an identifier
func IsDotChain(text string) bool {
	for _, part := range strings.Split(text, ".") {
		if !IsIdentifier(part) {
			return false
		}
	}
	return true
}

// ForceValidIdentifier turns "text" into an identifier by replacing every
// character that can't appear in one with "_". With a non-empty prefix the
// first character only needs to be valid in the middle of an identifier.
func ForceValidIdentifier(prefix string, text string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	first := true
	for _, c := range text {
		valid := IsIdentifierContinue(c)
		if first && prefix == "" {
			valid = IsIdentifierStart(c)
		}
		if valid {
			sb.WriteRune(c)
		} else {
			sb.WriteByte('_')
		}
		first = false
	}
	if first {
		// Empty text still needs at least one character
		sb.WriteByte('_')
	}
	return sb.String()
}
