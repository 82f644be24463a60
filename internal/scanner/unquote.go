package scanner

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unquote decodes the raw text of a string token, quotes included.
// Surrogate pairs are joined; a lone surrogate decodes to U+FFFD.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("not a quoted string: %q", raw)
	}
	content := raw[1 : len(raw)-1]
	if strings.IndexByte(content, '\\') < 0 {
		return content, nil
	}

	var b strings.Builder
	b.Grow(len(content))
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(content) {
			return "", fmt.Errorf("dangling escape in %q", raw)
		}
		switch content[i] {
		case '"', '\\', '/':
			b.WriteByte(content[i])
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, ok := decodeHex4(content[i+1:])
			if !ok {
				return "", fmt.Errorf("invalid \\u escape in %q", raw)
			}
			i += 4
			if utf16.IsSurrogate(r) {
				if r2, ok := followingSurrogate(content[i+1:]); ok {
					if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
						b.WriteRune(dec)
						i += 6
						continue
					}
				}
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape \\%c in %q", content[i], raw)
		}
	}
	return b.String(), nil
}

func followingSurrogate(s string) (rune, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}
	return decodeHex4(s[2:])
}

func decodeHex4(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}
