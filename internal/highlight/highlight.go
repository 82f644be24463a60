// Package highlight renders JSON and syntax error locations for a terminal.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/scanner"
	"github.com/muesli/termenv"
)

// Color modes accepted by NewRenderer.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// Styles holds one style per token class.
type Styles struct {
	Key     lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Literal lipgloss.Style
	Punct   lipgloss.Style
	Gutter  lipgloss.Style
	Caret   lipgloss.Style
	Error   lipgloss.Style
	// Plain disables rendering entirely.
	Plain bool
}

// NewRenderer creates a lipgloss renderer for w honouring a color mode.
func NewRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch strings.ToLower(mode) {
	case ModeNever:
		r.SetColorProfile(termenv.Ascii)
	case ModeAlways:
		if r.ColorProfile() == termenv.Ascii {
			r.SetColorProfile(termenv.ANSI256)
		}
	}
	return r
}

// NewStyles builds the palette on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r.ColorProfile() == termenv.Ascii {
		return PlainStyles()
	}
	return Styles{
		Key:     r.NewStyle().Foreground(lipgloss.Color("81")),
		String:  r.NewStyle().Foreground(lipgloss.Color("114")),
		Number:  r.NewStyle().Foreground(lipgloss.Color("215")),
		Literal: r.NewStyle().Foreground(lipgloss.Color("177")),
		Punct:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Gutter:  r.NewStyle().Foreground(lipgloss.Color("240")),
		Caret:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() Styles {
	return Styles{Plain: true}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if s.Plain {
		return text
	}
	return st.Render(text)
}

// Highlighter colours JSON text and error snippets.
type Highlighter struct {
	styles Styles
}

// New creates a Highlighter.
func New(styles Styles) *Highlighter {
	return &Highlighter{styles: styles}
}

// Colorize returns text with every token styled by its class. Whitespace
// between tokens is copied verbatim. Text that does not scan is returned
// unchanged.
func (h *Highlighter) Colorize(text string) string {
	tokens, err := scanner.Scan(text)
	if err != nil || h.styles.Plain {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) * 2)
	last := 0
	for i, tok := range tokens {
		if tok.Kind == models.TokenEOF {
			break
		}
		b.WriteString(text[last:tok.Start.Offset])
		b.WriteString(h.styles.render(h.styleFor(tokens, i), tok.Text))
		last = tok.End.Offset
	}
	b.WriteString(text[last:])
	return b.String()
}

func (h *Highlighter) styleFor(tokens []models.Token, i int) lipgloss.Style {
	switch tokens[i].Kind {
	case models.TokenString:
		if i+1 < len(tokens) && tokens[i+1].Kind == models.TokenColon {
			return h.styles.Key
		}
		return h.styles.String
	case models.TokenNumber:
		return h.styles.Number
	case models.TokenTrue, models.TokenFalse, models.TokenNull:
		return h.styles.Literal
	}
	return h.styles.Punct
}

// ErrorSnippet renders the source line at loc with a caret under the
// offending column, followed by message.
func (h *Highlighter) ErrorSnippet(text string, loc models.ErrorLocation, message string) string {
	lines := strings.Split(text, "\n")
	line := ""
	if loc.Line >= 1 && loc.Line <= len(lines) {
		line = strings.TrimSuffix(lines[loc.Line-1], "\r")
	}

	gutter := fmt.Sprintf("%d | ", loc.Line)
	var pad strings.Builder
	pad.WriteString(strings.Repeat(" ", len(gutter)))
	col := 1
	for _, r := range line {
		if col >= loc.Column {
			break
		}
		// Tabs keep the caret aligned with the source line.
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
		col++
	}
	for ; col < loc.Column; col++ {
		pad.WriteByte(' ')
	}

	var b strings.Builder
	b.WriteString(h.styles.render(h.styles.Gutter, gutter))
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(pad.String())
	b.WriteString(h.styles.render(h.styles.Caret, "^"))
	if message != "" {
		b.WriteByte(' ')
		b.WriteString(h.styles.render(h.styles.Error, message))
	}
	return b.String()
}
