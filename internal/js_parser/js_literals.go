package js_parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/yuusheng/rolldown/internal/js_ast"
)

func (p *parser) parseNumber(node *sitter.Node) js_ast.Expr {
	r := p.rangeOf(node)
	text := strings.ReplaceAll(p.text(node), "_", "")

	if strings.HasSuffix(text, "n") {
		value := text[:len(text)-1]
		// Normalize "0x10n" to "16"
		if n, ok := new(big.Int).SetString(value, 0); ok {
			value = n.String()
		}
		return js_ast.Expr{Range: r, Data: &js_ast.EBigInt{Value: value}}
	}

	if n, ok := parseIntegerWithPrefix(text); ok {
		return js_ast.Expr{Range: r, Data: &js_ast.ENumber{Value: n}}
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Out of range values are still valid and become infinity
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return js_ast.Expr{Range: r, Data: &js_ast.ENumber{Value: value}}
		}
		p.unsupported(node, "Number literal "+strconv.Quote(text))
		return js_ast.Expr{Range: r, Data: &js_ast.ENumber{Value: math.NaN()}}
	}
	return js_ast.Expr{Range: r, Data: &js_ast.ENumber{Value: value}}
}

// Handles "0x", "0o", "0b" and legacy octal literals such as "0777"
func parseIntegerWithPrefix(text string) (float64, bool) {
	if len(text) < 2 || text[0] != '0' {
		return 0, false
	}
	base := 0.0
	digits := text[2:]
	switch text[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		// "08" and "09" are decimal
		digits = text[1:]
		for _, c := range digits {
			if c < '0' || c > '7' {
				return 0, false
			}
		}
		base = 8
	}

	value := 0.0
	for _, c := range strings.ToLower(digits) {
		var digit float64
		switch {
		case c >= '0' && c <= '9':
			digit = float64(c - '0')
		case c >= 'a' && c <= 'f':
			digit = float64(c-'a') + 10
		default:
			return 0, false
		}
		if digit >= base {
			return 0, false
		}
		value = value*base + digit
	}
	return value, true
}

func (p *parser) stringValue(node *sitter.Node) string {
	text := p.text(node)
	if len(text) < 2 {
		return text
	}
	return decodeEscapes(text[1 : len(text)-1])
}

// Template literals keep "\r\n" normalized to "\n" in their cooked value
func cookTemplate(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return decodeEscapes(raw)
}

func decodeEscapes(text string) string {
	if !strings.ContainsRune(text, '\\') {
		return text
	}

	sb := strings.Builder{}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 == len(text) {
			sb.WriteByte(c)
			continue
		}
		i++
		c = text[i]
		switch c {
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)

		// Line continuations
		case '\n':
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}

		case 'x':
			if i+2 < len(text) {
				if n, err := strconv.ParseUint(text[i+1:i+3], 16, 8); err == nil {
					sb.WriteRune(rune(n))
					i += 2
					continue
				}
			}
			sb.WriteByte(c)

		case 'u':
			if i+1 < len(text) && text[i+1] == '{' {
				if end := strings.IndexByte(text[i:], '}'); end != -1 {
					if n, err := strconv.ParseUint(text[i+2:i+end], 16, 32); err == nil && n <= utf8.MaxRune {
						sb.WriteRune(rune(n))
						i += end
						continue
					}
				}
			} else if i+4 < len(text) {
				if n, err := strconv.ParseUint(text[i+1:i+5], 16, 16); err == nil {
					i += 4

					// Combine surrogate pairs
					if n >= 0xD800 && n <= 0xDBFF && i+6 < len(text) && text[i+1] == '\\' && text[i+2] == 'u' {
						if low, err := strconv.ParseUint(text[i+3:i+7], 16, 16); err == nil && low >= 0xDC00 && low <= 0xDFFF {
							sb.WriteRune(rune((n-0xD800)<<10 + (low - 0xDC00) + 0x10000))
							i += 6
							continue
						}
					}
					sb.WriteRune(rune(n))
					continue
				}
			}
			sb.WriteByte(c)

		default:
			// Any other character escapes itself
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
