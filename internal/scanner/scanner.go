// Package scanner turns JSON text into a stream of position-tracked tokens.
//
// Whitespace between tokens is skipped but still advances the position, so
// every token and every error carries the exact offset, line and column of
// the character it refers to.
package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Scanner produces tokens from a JSON text one at a time.
type Scanner struct {
	src string
	pos models.Position
}

// New creates a Scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src, pos: models.StartPosition()}
}

// Scan tokenizes the whole of src. The returned slice always ends with a
// TokenEOF token when err is nil.
func Scan(src string) ([]models.Token, error) {
	s := New(src)
	var tokens []models.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == models.TokenEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token. At the end of input it returns a TokenEOF
// token positioned just past the last character.
func (s *Scanner) Next() (models.Token, error) {
	s.skipWhitespace()
	start := s.pos
	if s.eof() {
		return models.Token{Kind: models.TokenEOF, Start: start, End: start}, nil
	}

	switch c := s.peek(); c {
	case '{':
		s.advance()
		return s.token(models.TokenObjectStart, start), nil
	case '}':
		s.advance()
		return s.token(models.TokenObjectEnd, start), nil
	case '[':
		s.advance()
		return s.token(models.TokenArrayStart, start), nil
	case ']':
		s.advance()
		return s.token(models.TokenArrayEnd, start), nil
	case ':':
		s.advance()
		return s.token(models.TokenColon, start), nil
	case ',':
		s.advance()
		return s.token(models.TokenComma, start), nil
	case '"':
		if err := s.scanString(); err != nil {
			return models.Token{}, err
		}
		return s.token(models.TokenString, start), nil
	case 't':
		if err := s.scanLiteral("true"); err != nil {
			return models.Token{}, err
		}
		return s.token(models.TokenTrue, start), nil
	case 'f':
		if err := s.scanLiteral("false"); err != nil {
			return models.Token{}, err
		}
		return s.token(models.TokenFalse, start), nil
	case 'n':
		if err := s.scanLiteral("null"); err != nil {
			return models.Token{}, err
		}
		return s.token(models.TokenNull, start), nil
	default:
		if c == '-' || isDigit(c) {
			if err := s.scanNumber(); err != nil {
				return models.Token{}, err
			}
			return s.token(models.TokenNumber, start), nil
		}
		return models.Token{}, errors.NewSyntaxError(start, "invalid character %s", s.describeNext())
	}
}

func (s *Scanner) token(kind models.TokenKind, start models.Position) models.Token {
	return models.Token{
		Kind:  kind,
		Start: start,
		End:   s.pos,
		Text:  s.src[start.Offset:s.pos.Offset],
	}
}

func (s *Scanner) eof() bool {
	return s.pos.Offset >= len(s.src)
}

func (s *Scanner) peek() byte {
	return s.src[s.pos.Offset]
}

// advance moves past one byte. Continuation bytes of a UTF-8 sequence do not
// move the column.
func (s *Scanner) advance() {
	c := s.src[s.pos.Offset]
	s.pos.Offset++
	switch {
	case c == '\n':
		s.pos.Line++
		s.pos.Column = 1
	case c&0xC0 != 0x80:
		s.pos.Column++
	}
}

func (s *Scanner) skipWhitespace() {
	for !s.eof() && isWhitespace(s.peek()) {
		s.advance()
	}
}

// describeNext renders the character at the current position for messages.
func (s *Scanner) describeNext() string {
	return s.describeNextAfter("")
}

// describeNextAfter renders the next character in single quotes behind
// prefix, as in '\x' for a bad escape.
func (s *Scanner) describeNextAfter(prefix string) string {
	if s.eof() {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos.Offset:])
	if r < 0x20 || r == utf8.RuneError {
		return fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("'%s%c'", prefix, r)
}

func (s *Scanner) scanString() error {
	s.advance() // opening quote
	for {
		if s.eof() {
			return errors.NewSyntaxError(s.pos, "unterminated string")
		}
		c := s.peek()
		switch {
		case c == '"':
			s.advance()
			return nil
		case c == '\\':
			s.advance()
			if err := s.scanEscape(); err != nil {
				return err
			}
		case c < 0x20:
			return errors.NewSyntaxError(s.pos, "invalid control character %s in string", s.describeNext())
		default:
			s.advance()
		}
	}
}

func (s *Scanner) scanEscape() error {
	if s.eof() {
		return errors.NewSyntaxError(s.pos, "unterminated string")
	}
	switch s.peek() {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.advance()
		return nil
	case 'u':
		s.advance()
		for i := 0; i < 4; i++ {
			if s.eof() {
				return errors.NewSyntaxError(s.pos, "unterminated string")
			}
			if !isHex(s.peek()) {
				return errors.NewSyntaxError(s.pos, "invalid character %s in \\u escape", s.describeNext())
			}
			s.advance()
		}
		return nil
	default:
		return errors.NewSyntaxError(s.pos, "invalid escape sequence %s", s.describeNextAfter(`\`))
	}
}

// scanNumber consumes -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func (s *Scanner) scanNumber() error {
	if s.peek() == '-' {
		s.advance()
	}
	if err := s.expectDigit(); err != nil {
		return err
	}
	if s.peek() == '0' {
		s.advance()
	} else {
		s.skipDigits()
	}

	if !s.eof() && s.peek() == '.' {
		s.advance()
		if err := s.expectDigit(); err != nil {
			return err
		}
		s.skipDigits()
	}

	if !s.eof() && (s.peek() == 'e' || s.peek() == 'E') {
		s.advance()
		if !s.eof() && (s.peek() == '+' || s.peek() == '-') {
			s.advance()
		}
		if err := s.expectDigit(); err != nil {
			return err
		}
		s.skipDigits()
	}
	return nil
}

func (s *Scanner) expectDigit() error {
	if s.eof() {
		return errors.NewSyntaxError(s.pos, "unexpected end of input in number")
	}
	if !isDigit(s.peek()) {
		return errors.NewSyntaxError(s.pos, "invalid character %s in number, expected digit", s.describeNext())
	}
	return nil
}

func (s *Scanner) skipDigits() {
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
}

func (s *Scanner) scanLiteral(word string) error {
	for i := 0; i < len(word); i++ {
		if s.eof() {
			return errors.NewSyntaxError(s.pos, "unexpected end of input in literal %q", word)
		}
		if s.peek() != word[i] {
			return errors.NewSyntaxError(s.pos, "invalid character %s in literal %q", s.describeNext(), word)
		}
		s.advance()
	}
	return nil
}

// ValidNumber reports whether s is exactly one JSON number literal.
func ValidNumber(s string) bool {
	if s == "" || (s[0] != '-' && !isDigit(s[0])) {
		return false
	}
	sc := New(s)
	if err := sc.scanNumber(); err != nil {
		return false
	}
	return sc.eof()
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
