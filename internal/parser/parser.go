// Package parser validates JSON text and builds ordered value trees from it.
package parser

import (
	"strconv"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/scanner"
)

// DefaultMaxDepth bounds how deeply objects and arrays may nest.
const DefaultMaxDepth = 512

// Options controls parsing limits.
type Options struct {
	// MaxDepth is the deepest allowed nesting of objects and arrays.
	// Zero or negative means DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the options used by Parse and Validate.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Parse converts JSON text into a value tree.
// On failure the error is an *errors.SyntaxError positioned at the offending token.
func Parse(text string) (models.Value, error) {
	return ParseWithOptions(text, DefaultOptions())
}

// ParseWithOptions is Parse with explicit limits.
func ParseWithOptions(text string, opts Options) (models.Value, error) {
	p := newParser(text, opts, true)
	return p.parseDocument()
}

// Validate checks text against the JSON grammar without keeping the tree.
func Validate(text string) models.ValidationResult {
	return ValidateWithOptions(text, DefaultOptions())
}

// ValidateWithOptions is Validate with explicit limits.
func ValidateWithOptions(text string, opts Options) models.ValidationResult {
	p := newParser(text, opts, false)
	_, err := p.parseDocument()
	return resultFromError(err)
}

// ErrorPosition re-runs validation only to recover where it fails.
// It returns false when text is valid.
func ErrorPosition(text string) (models.Position, bool) {
	res := Validate(text)
	if res.IsValid || res.ErrorPosition == nil {
		return models.Position{}, false
	}
	return *res.ErrorPosition, true
}

func resultFromError(err error) models.ValidationResult {
	if err == nil {
		return models.ValidationResult{IsValid: true}
	}
	se, ok := errors.AsSyntaxError(err)
	if !ok {
		return models.ValidationResult{IsValid: false, ErrorMessage: err.Error()}
	}
	pos := se.Position
	return models.ValidationResult{
		IsValid:       false,
		ErrorMessage:  se.Error(),
		ErrorPosition: &pos,
	}
}

// parser is a recursive-descent parser over the scanner's tokens. tok always
// holds the next unconsumed token.
type parser struct {
	sc       *scanner.Scanner
	tok      models.Token
	maxDepth int
	depth    int
	build    bool
}

func newParser(text string, opts Options, build bool) *parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &parser{sc: scanner.New(text), maxDepth: maxDepth, build: build}
}

func (p *parser) next() error {
	tok, err := p.sc.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) parseDocument() (models.Value, error) {
	if err := p.next(); err != nil {
		return models.Value{}, err
	}
	root, err := p.parseValue()
	if err != nil {
		return models.Value{}, err
	}
	if p.tok.Kind != models.TokenEOF {
		return models.Value{}, errors.NewSyntaxError(p.tok.Start, "unexpected %s after top-level value", p.tok.Kind)
	}
	return root, nil
}

func (p *parser) parseValue() (models.Value, error) {
	tok := p.tok
	switch tok.Kind {
	case models.TokenObjectStart:
		return p.parseObject()
	case models.TokenArrayStart:
		return p.parseArray()
	case models.TokenString:
		s, err := p.unquote(tok)
		if err != nil {
			return models.Value{}, err
		}
		return models.NewString(s), p.next()
	case models.TokenNumber:
		var f float64
		if p.build {
			// Out-of-range literals parse to ±Inf; the literal text is kept either way.
			f, _ = strconv.ParseFloat(tok.Text, 64)
		}
		return models.NewNumber(f, tok.Text), p.next()
	case models.TokenTrue:
		return models.NewBool(true), p.next()
	case models.TokenFalse:
		return models.NewBool(false), p.next()
	case models.TokenNull:
		return models.Null(), p.next()
	case models.TokenEOF:
		return models.Value{}, errors.NewSyntaxError(tok.Start, "unexpected end of input")
	default:
		return models.Value{}, errors.NewSyntaxError(tok.Start, "expected value, found %s", tok.Kind)
	}
}

func (p *parser) parseObject() (models.Value, error) {
	if err := p.enter(); err != nil {
		return models.Value{}, err
	}
	if err := p.next(); err != nil {
		return models.Value{}, err
	}

	obj := models.Value{Kind: models.KindObject, Members: []models.Member{}}
	var index map[string]int
	if p.build {
		index = make(map[string]int)
	}

	if p.tok.Kind == models.TokenObjectEnd {
		return obj, p.leave()
	}

	for {
		if p.tok.Kind != models.TokenString {
			return models.Value{}, p.unexpected("expected string key, found %s")
		}
		key, err := p.unquote(p.tok)
		if err != nil {
			return models.Value{}, err
		}
		if err := p.next(); err != nil {
			return models.Value{}, err
		}

		if p.tok.Kind != models.TokenColon {
			return models.Value{}, p.unexpected("expected ':' after object key, found %s")
		}
		if err := p.next(); err != nil {
			return models.Value{}, err
		}

		val, err := p.parseValue()
		if err != nil {
			return models.Value{}, err
		}
		if p.build {
			// Duplicate keys: last write wins, first position kept.
			if i, ok := index[key]; ok {
				obj.Members[i].Value = val
			} else {
				index[key] = len(obj.Members)
				obj.Members = append(obj.Members, models.Member{Key: key, Value: val})
			}
		}

		switch p.tok.Kind {
		case models.TokenComma:
			comma := p.tok
			if err := p.next(); err != nil {
				return models.Value{}, err
			}
			if p.tok.Kind == models.TokenObjectEnd {
				return models.Value{}, errors.NewSyntaxError(comma.Start, "trailing comma before '}'")
			}
		case models.TokenObjectEnd:
			return obj, p.leave()
		default:
			return models.Value{}, p.unexpected("expected ',' or '}' after object member, found %s")
		}
	}
}

func (p *parser) parseArray() (models.Value, error) {
	if err := p.enter(); err != nil {
		return models.Value{}, err
	}
	if err := p.next(); err != nil {
		return models.Value{}, err
	}

	arr := models.Value{Kind: models.KindArray, Items: []models.Value{}}
	if p.tok.Kind == models.TokenArrayEnd {
		return arr, p.leave()
	}

	for {
		val, err := p.parseValue()
		if err != nil {
			return models.Value{}, err
		}
		if p.build {
			arr.Items = append(arr.Items, val)
		}

		switch p.tok.Kind {
		case models.TokenComma:
			comma := p.tok
			if err := p.next(); err != nil {
				return models.Value{}, err
			}
			if p.tok.Kind == models.TokenArrayEnd {
				return models.Value{}, errors.NewSyntaxError(comma.Start, "trailing comma before ']'")
			}
		case models.TokenArrayEnd:
			return arr, p.leave()
		default:
			return models.Value{}, p.unexpected("expected ',' or ']' after array element, found %s")
		}
	}
}

// enter is called with tok on an opening bracket.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		se := errors.NewSyntaxError(p.tok.Start, "maximum nesting depth of %d exceeded", p.maxDepth)
		se.Cause = errors.ErrDepthLimit
		return se
	}
	return nil
}

// leave is called with tok on a closing bracket and consumes it.
func (p *parser) leave() error {
	p.depth--
	return p.next()
}

// unexpected reports the current token, preferring the end-of-input wording.
func (p *parser) unexpected(format string) error {
	if p.tok.Kind == models.TokenEOF {
		return errors.NewSyntaxError(p.tok.Start, "unexpected end of input")
	}
	return errors.NewSyntaxError(p.tok.Start, format, p.tok.Kind)
}

func (p *parser) unquote(tok models.Token) (string, error) {
	if !p.build {
		return "", nil
	}
	s, err := scanner.Unquote(tok.Text)
	if err != nil {
		return "", errors.NewSyntaxError(tok.Start, "%v", err)
	}
	return s, nil
}
