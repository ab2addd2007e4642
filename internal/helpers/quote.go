package helpers

import (
	"fmt"
	"unicode/utf8"
)

// QuoteString quotes text as a JavaScript string literal using "quote" as
// the delimiter. Control characters, lone surrogates, the BOM and the two
// characters JavaScript treats as line terminators (U+2028 and U+2029) are
// escaped. With asciiOnly, everything outside ASCII is escaped too, using
// surrogate pairs above U+FFFF.
func QuoteString(text string, quote byte, asciiOnly bool) []byte {
	buf := make([]byte, 0, len(text)+2)
	buf = append(buf, quote)

	for i, c := range text {
		switch c {
		case '\b':
			buf = append(buf, `\b`...)
		case '\f':
			buf = append(buf, `\f`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		case '\v':
			buf = append(buf, `\v`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\u2028', '\u2029', '\uFEFF':
			buf = appendUnicodeEscape(buf, c)

		default:
			switch {
			case c == rune(quote):
				buf = append(buf, '\\', quote)
			case c == utf8.RuneError && isInvalidByte(text, i):
				// Not valid UTF-8, so keep the byte's code point
				buf = appendUnicodeEscape(buf, rune(text[i]))
			case c < 0x20 || c == 0x7F:
				buf = appendUnicodeEscape(buf, c)
			case c < utf8.RuneSelf || !asciiOnly:
				buf = utf8.AppendRune(buf, c)
			case c > 0xFFFF:
				c -= 0x10000
				buf = appendUnicodeEscape(buf, 0xD800+(c>>10)&0x3FF)
				buf = appendUnicodeEscape(buf, 0xDC00+c&0x3FF)
			default:
				buf = appendUnicodeEscape(buf, c)
			}
		}
	}

	return append(buf, quote)
}

func isInvalidByte(text string, i int) bool {
	c, width := utf8.DecodeRuneInString(text[i:])
	return c == utf8.RuneError && width == 1
}

func appendUnicodeEscape(buf []byte, c rune) []byte {
	return fmt.Appendf(buf, `\u%04X`, c)
}
