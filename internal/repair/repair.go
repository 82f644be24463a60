// Package repair fixes common defects in raw JSON text without parsing it.
package repair

import "strings"

// TrailingCommaMarker is the fragment every trailing-comma parse error contains.
const TrailingCommaMarker = "trailing comma"

// FixTrailingCommas drops each comma outside a string literal whose next
// significant character is '}' or ']'. Commas are skipped during that
// lookahead, so runs such as ",," before a closer go in one pass.
// Everything else, whitespace included, is copied through unchanged.
// The result is not guaranteed to be valid JSON.
func FixTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			if closesAfter(text, i+1) {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// HasTrailingCommas reports whether FixTrailingCommas would change text.
func HasTrailingCommas(text string) bool {
	return FixTrailingCommas(text) != text
}

// HasTrailingCommaError reports whether a validation message describes a
// trailing comma, the case FixTrailingCommas repairs.
func HasTrailingCommaError(message string) bool {
	return strings.Contains(strings.ToLower(message), TrailingCommaMarker)
}

func closesAfter(text string, i int) bool {
	for ; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r', ',':
			continue
		case '}', ']':
			return true
		}
		return false
	}
	return false
}
