// Package formatter renders value trees as pretty-printed or minified JSON.
package formatter

import (
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

const (
	// DefaultIndentWidth is the number of spaces per nesting level.
	DefaultIndentWidth = 2
	MinIndentWidth     = 1
	MaxIndentWidth     = 10
)

// Formatter renders JSON text canonically, either pretty-printed or minified
type Formatter struct {
	indent    string
	parseOpts parser.Options
}

// NewFormatter creates a Formatter using the default indent width
func NewFormatter() *Formatter {
	return &Formatter{
		indent:    strings.Repeat(" ", DefaultIndentWidth),
		parseOpts: parser.DefaultOptions(),
	}
}

// NewFormatterWithIndent creates a Formatter indenting by width spaces.
func NewFormatterWithIndent(width int, opts parser.Options) (*Formatter, error) {
	if width < MinIndentWidth || width > MaxIndentWidth {
		return nil, errors.NewFormatError("invalid indent width", errors.ErrInvalidIndent)
	}
	return &Formatter{
		indent:    strings.Repeat(" ", width),
		parseOpts: opts,
	}, nil
}

// Format validates JSON text and returns it pretty-printed
func (f *Formatter) Format(text string) (string, error) {
	v, err := parser.ParseWithOptions(text, f.parseOpts)
	if err != nil {
		return "", err
	}
	return f.Pretty(v), nil
}

// Minify validates JSON text and returns it without insignificant whitespace
func (f *Formatter) Minify(text string) (string, error) {
	v, err := parser.ParseWithOptions(text, f.parseOpts)
	if err != nil {
		return "", err
	}
	return Minify(v), nil
}

// Pretty renders a value tree with one member or element per line.
func (f *Formatter) Pretty(v models.Value) string {
	return PrettyWithPrefix(v, "", f.indent)
}

// Unit returns the indentation string for one nesting level.
func (f *Formatter) Unit() string {
	return f.indent
}

// PrettyWithPrefix renders v as if it started on a line indented by prefix,
// indenting nested levels by unit. The first line carries no prefix.
func PrettyWithPrefix(v models.Value, prefix, unit string) string {
	var b strings.Builder
	w := writer{b: &b, prefix: prefix, unit: unit, pretty: true}
	w.value(v, 0)
	return b.String()
}

// Minify renders a value tree with no whitespace between tokens.
func Minify(v models.Value) string {
	var b strings.Builder
	w := writer{b: &b}
	w.value(v, 0)
	return b.String()
}

type writer struct {
	b      *strings.Builder
	prefix string
	unit   string
	pretty bool
}

func (w *writer) value(v models.Value, depth int) {
	switch v.Kind {
	case models.KindNull:
		w.b.WriteString("null")
	case models.KindBool:
		if v.Bool {
			w.b.WriteString("true")
		} else {
			w.b.WriteString("false")
		}
	case models.KindNumber:
		w.b.WriteString(v.NumberText())
	case models.KindString:
		writeQuoted(w.b, v.Str)
	case models.KindArray:
		w.array(v.Items, depth)
	case models.KindObject:
		w.object(v.Members, depth)
	}
}

func (w *writer) array(items []models.Value, depth int) {
	if len(items) == 0 {
		w.b.WriteString("[]")
		return
	}
	w.b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			w.b.WriteByte(',')
		}
		w.newline(depth + 1)
		w.value(item, depth+1)
	}
	w.newline(depth)
	w.b.WriteByte(']')
}

func (w *writer) object(members []models.Member, depth int) {
	if len(members) == 0 {
		w.b.WriteString("{}")
		return
	}
	w.b.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			w.b.WriteByte(',')
		}
		w.newline(depth + 1)
		writeQuoted(w.b, m.Key)
		w.b.WriteByte(':')
		if w.pretty {
			w.b.WriteByte(' ')
		}
		w.value(m.Value, depth+1)
	}
	w.newline(depth)
	w.b.WriteByte('}')
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.b.WriteByte('\n')
	w.b.WriteString(w.prefix)
	for i := 0; i < depth; i++ {
		w.b.WriteString(w.unit)
	}
}
