package highlight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSnippet(t *testing.T) {
	h := New(PlainStyles())

	tests := []struct {
		name     string
		text     string
		loc      models.ErrorLocation
		expected string
	}{
		{
			name:     "first line",
			text:     `{"a":}`,
			loc:      models.ErrorLocation{Line: 1, Column: 6},
			expected: "1 | {\"a\":}\n         ^ bad",
		},
		{
			name:     "second line with CRLF",
			text:     "{\r\n  \"a\" 1\r\n}",
			loc:      models.ErrorLocation{Line: 2, Column: 7},
			expected: "2 |   \"a\" 1\n          ^ bad",
		},
		{
			name:     "tabs are kept",
			text:     "[\n\t\tx]",
			loc:      models.ErrorLocation{Line: 2, Column: 3},
			expected: "2 | \t\tx]\n    \t\t^ bad",
		},
		{
			name:     "past end of text",
			text:     "{\n",
			loc:      models.ErrorLocation{Line: 2, Column: 1},
			expected: "2 | \n    ^ bad",
		},
		{
			name:     "multi-byte characters count once",
			text:     `["é" x]`,
			loc:      models.ErrorLocation{Line: 1, Column: 6},
			expected: "1 | [\"é\" x]\n         ^ bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.ErrorSnippet(tt.text, tt.loc, "bad"))
		})
	}
}

func TestErrorSnippet_FromValidation(t *testing.T) {
	text := "{\n  \"a\": 1,\n}"
	res := parser.Validate(text)
	require.False(t, res.IsValid)
	require.NotNil(t, res.ErrorPosition)

	loc := models.ErrorLocation{Line: res.ErrorPosition.Line, Column: res.ErrorPosition.Column}
	snippet := New(PlainStyles()).ErrorSnippet(text, loc, "")
	assert.Equal(t, "2 |   \"a\": 1,\n            ^", snippet)
}

func TestColorize_PlainIsIdentity(t *testing.T) {
	text := "{\n  \"a\": [1, true, null],\n  \"b\": \"x\"\n}"
	assert.Equal(t, text, New(PlainStyles()).Colorize(text))
}

func TestColorize_KeepsContent(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, ModeAlways)
	h := New(NewStyles(r))

	text := `{"key": "value", "n": 12}`
	out := h.Colorize(text)
	for _, part := range []string{`"key"`, `"value"`, `"n"`, "12"} {
		assert.True(t, strings.Contains(out, part), part)
	}

	// Unscannable text passes through.
	assert.Equal(t, `{"a": @}`, h.Colorize(`{"a": @}`))
}

func TestNewRenderer_Never(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, ModeNever)
	styles := NewStyles(r)
	assert.True(t, styles.Plain)
	assert.Equal(t, "[1]", New(styles).Colorize("[1]"))
}
