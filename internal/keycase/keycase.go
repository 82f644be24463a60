// Package keycase rewrites object key names into a naming convention.
package keycase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// Style is a key naming convention.
type Style string

const (
	Camel          Style = "camel"
	Snake          Style = "snake"
	Pascal         Style = "pascal"
	Kebab          Style = "kebab"
	ScreamingSnake Style = "screaming_snake"
)

// Styles lists every supported style.
var Styles = []Style{Camel, Snake, Pascal, Kebab, ScreamingSnake}

// ParseStyle resolves a style name. Common spellings such as "camelCase" and
// "snake_case" are accepted.
func ParseStyle(s string) (Style, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "case")
	name = strings.TrimRight(name, "_-")
	switch name {
	case "camel", "lower_camel", "lowercamel":
		return Camel, nil
	case "snake":
		return Snake, nil
	case "pascal", "upper_camel", "uppercamel":
		return Pascal, nil
	case "kebab":
		return Kebab, nil
	case "screaming_snake", "screaming-snake", "screamingsnake", "constant":
		return ScreamingSnake, nil
	}
	return "", fmt.Errorf("%w: unknown key style %q", errors.ErrInvalidOption, s)
}

// Convert rewrites a single key. Words are split on case boundaries and on
// non-alphanumeric separators before being rejoined.
func Convert(key string, style Style) string {
	switch style {
	case Camel:
		return joinWords(key, false)
	case Snake:
		return strcase.ToSnake(key)
	case Pascal:
		return joinWords(key, true)
	case Kebab:
		return strcase.ToKebab(key)
	case ScreamingSnake:
		return strcase.ToScreamingSnake(key)
	}
	return key
}

// words splits key the way strcase.ToSnake does, including acronym
// boundaries, then on any rune that is neither a letter nor a digit.
func words(key string) []string {
	return strings.FieldsFunc(strcase.ToSnake(key), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// joinWords concatenates the words of key with every word after the first
// capitalised, and the first too when upper is set. Keys without letters or
// digits are returned unchanged.
func joinWords(key string, upper bool) string {
	parts := words(key)
	if len(parts) == 0 {
		return key
	}
	var b strings.Builder
	b.Grow(len(key))
	for i, w := range parts {
		w = strings.ToLower(w)
		if i == 0 && !upper {
			b.WriteString(w)
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[size:])
	}
	return b.String()
}

// Transform returns a copy of v with every object key rewritten, recursively.
// When two keys collapse to the same name the later member wins and the
// result keeps the position of the first.
func Transform(v models.Value, style Style) models.Value {
	return TransformFunc(v, styleFunc(style))
}

// TransformFunc is Transform with an arbitrary key rewrite.
func TransformFunc(v models.Value, rename func(string) string) models.Value {
	switch v.Kind {
	case models.KindArray:
		items := make([]models.Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = TransformFunc(item, rename)
		}
		return models.NewArray(items...)
	case models.KindObject:
		out := models.Value{Kind: models.KindObject, Members: make([]models.Member, 0, len(v.Members))}
		for _, m := range v.Members {
			out.Set(rename(m.Key), TransformFunc(m.Value, rename))
		}
		return out
	}
	return v
}

// Collisions reports the rewritten keys that more than one original key in
// the same object maps to.
func Collisions(v models.Value, rename func(string) string) []string {
	var found []string
	var walk func(models.Value)
	walk = func(v models.Value) {
		switch v.Kind {
		case models.KindArray:
			for _, item := range v.Items {
				walk(item)
			}
		case models.KindObject:
			seen := make(map[string]int, len(v.Members))
			for _, m := range v.Members {
				k := rename(m.Key)
				seen[k]++
				if seen[k] == 2 {
					found = append(found, k)
				}
				walk(m.Value)
			}
		}
	}
	walk(v)
	return found
}

func styleFunc(style Style) func(string) string {
	return func(key string) string { return Convert(key, style) }
}
