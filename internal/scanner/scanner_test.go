package scanner

import (
	"testing"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []models.Token) []models.TokenKind {
	out := make([]models.TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScan_AllTokenKinds(t *testing.T) {
	tokens, err := Scan(`{"a": [1, -2.5e3, true, false, null]}`)
	require.NoError(t, err)

	assert.Equal(t, []models.TokenKind{
		models.TokenObjectStart,
		models.TokenString,
		models.TokenColon,
		models.TokenArrayStart,
		models.TokenNumber,
		models.TokenComma,
		models.TokenNumber,
		models.TokenComma,
		models.TokenTrue,
		models.TokenComma,
		models.TokenFalse,
		models.TokenComma,
		models.TokenNull,
		models.TokenArrayEnd,
		models.TokenObjectEnd,
		models.TokenEOF,
	}, kinds(tokens))

	assert.Equal(t, `"a"`, tokens[1].Text)
	assert.Equal(t, "-2.5e3", tokens[6].Text)
}

func TestScan_TracksPositions(t *testing.T) {
	tokens, err := Scan("{\n  \"key\": 1\n}")
	require.NoError(t, err)

	key := tokens[1]
	assert.Equal(t, models.Position{Offset: 4, Line: 2, Column: 3}, key.Start)
	assert.Equal(t, models.Position{Offset: 9, Line: 2, Column: 8}, key.End)

	closing := tokens[4]
	assert.Equal(t, models.TokenObjectEnd, closing.Kind)
	assert.Equal(t, models.Position{Offset: 13, Line: 3, Column: 1}, closing.Start)

	eof := tokens[5]
	assert.Equal(t, models.Position{Offset: 14, Line: 3, Column: 2}, eof.Start)
}

func TestScan_ColumnsCountCodePoints(t *testing.T) {
	tokens, err := Scan(`["héllo", 1]`)
	require.NoError(t, err)

	num := tokens[3]
	require.Equal(t, models.TokenNumber, num.Kind)
	// "héllo" is 8 bytes but 7 code points including quotes.
	assert.Equal(t, 11, num.Start.Offset)
	assert.Equal(t, 11, num.Start.Column)
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		offset  int
		line    int
		column  int
		message string
	}{
		{"unterminated string", `"abc`, 4, 1, 5, "unterminated string"},
		{"invalid escape", `"a\x"`, 3, 1, 4, `invalid escape sequence '\x'`},
		{"bad unicode escape", `"\u12G4"`, 5, 1, 6, `invalid character 'G' in \u escape`},
		{"raw newline in string", "\"a\nb\"", 2, 1, 3, "invalid control character U+000A in string"},
		{"minus without digits", `-`, 1, 1, 2, "unexpected end of input in number"},
		{"fraction without digits", `1.x`, 2, 1, 3, `invalid character 'x' in number, expected digit`},
		{"exponent without digits", `1e+`, 3, 1, 4, "unexpected end of input in number"},
		{"broken literal", `tru`, 3, 1, 4, `unexpected end of input in literal "true"`},
		{"wrong literal", `nulL`, 3, 1, 4, `invalid character 'L' in literal "null"`},
		{"stray character", "\n  @", 3, 2, 3, `invalid character '@'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(tt.input)
			require.Error(t, err)

			se, ok := errors.AsSyntaxError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, models.Position{Offset: tt.offset, Line: tt.line, Column: tt.column}, se.Position)
		})
	}
}

func TestScan_LeadingZeroSplitsTokens(t *testing.T) {
	tokens, err := Scan(`01`)
	require.NoError(t, err)
	assert.Equal(t, []models.TokenKind{models.TokenNumber, models.TokenNumber, models.TokenEOF}, kinds(tokens))
	assert.Equal(t, "0", tokens[0].Text)
	assert.Equal(t, 1, tokens[1].Start.Offset)
}

func TestValidNumber(t *testing.T) {
	valid := []string{"0", "-0", "42", "1.50", "-3.25e-7", "6E+2"}
	invalid := []string{"", "01", "+1", ".5", "1.", "1e", "--1", "1.5x", "NaN"}

	for _, s := range valid {
		assert.True(t, ValidNumber(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidNumber(s), s)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{`"plain"`, "plain"},
		{`""`, ""},
		{`"a\"b\\c\/d"`, `a"b\c/d`},
		{`"\b\f\n\r\t"`, "\b\f\n\r\t"},
		{`"\u00e9"`, "é"},
		{`"\ud83d\ude00"`, "😀"},
		{`"\ud83d!"`, "\ufffd!"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Unquote(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := Unquote("no quotes")
	assert.Error(t, err)
}
