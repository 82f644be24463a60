// Package convert turns free text plus a declared type into a JSON value.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/scanner"
)

// ValueType is the declared type of a raw value.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeInteger ValueType = "integer"
	TypeFloat   ValueType = "float"
	TypeBoolean ValueType = "boolean"
	TypeNull    ValueType = "null"
	TypeJSON    ValueType = "json"
	TypeArray   ValueType = "array"
)

// ValueTypes lists the declared types in display order.
var ValueTypes = []ValueType{TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeNull, TypeJSON, TypeArray}

// ParseValueType resolves a type tag, accepting a few common aliases.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "str", "text":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "float", "number", "double":
		return TypeFloat, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "null", "nil":
		return TypeNull, nil
	case "json", "object":
		return TypeJSON, nil
	case "array", "list":
		return TypeArray, nil
	}
	names := make([]string, len(ValueTypes))
	for i, t := range ValueTypes {
		names[i] = string(t)
	}
	msg := fmt.Sprintf("unknown value type %q, expected one of: %s", s, strings.Join(names, ", "))
	return "", errors.NewConversionError(msg, errors.ErrUnknownValueType)
}

// Converter converts raw text into values.
type Converter struct {
	parseOpts parser.Options
}

// NewConverter creates a Converter that parses JSON with opts.
func NewConverter(opts parser.Options) *Converter {
	return &Converter{parseOpts: opts}
}

// Convert interprets raw as a value of type t. Failures are *errors.AppError
// of type conversion; for json and array input the wrapped error is the
// parser's *errors.SyntaxError.
func (c *Converter) Convert(raw string, t ValueType) (models.Value, error) {
	switch t {
	case TypeString:
		return models.NewString(raw), nil
	case TypeInteger:
		return convertInteger(raw)
	case TypeFloat:
		return convertFloat(raw)
	case TypeBoolean:
		return convertBoolean(raw)
	case TypeNull:
		return models.Null(), nil
	case TypeJSON:
		v, err := parser.ParseWithOptions(raw, c.parseOpts)
		if err != nil {
			return models.Value{}, errors.NewConversionError("value is not valid JSON", err)
		}
		return v, nil
	case TypeArray:
		return c.convertArray(raw), nil
	}
	return models.Value{}, errors.NewConversionError(fmt.Sprintf("unknown value type %q", t), errors.ErrUnknownValueType)
}

func convertInteger(raw string) (models.Value, error) {
	s := strings.TrimSpace(raw)
	if !isInteger(s) {
		return models.Value{}, mismatch(raw, TypeInteger)
	}
	s = strings.TrimPrefix(s, "+")
	s = canonicalInteger(s)

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.NewNumber(float64(n), s), nil
	}
	// Out of int64 range: keep every digit of the literal.
	f, _ := strconv.ParseFloat(s, 64)
	return models.NewNumber(f, s), nil
}

func convertFloat(raw string) (models.Value, error) {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || strings.ContainsAny(s, "xXpP_") {
		return models.Value{}, mismatch(raw, TypeFloat)
	}
	if scanner.ValidNumber(s) {
		return models.NewNumber(f, s), nil
	}
	return models.NewFloat(f), nil
}

func convertBoolean(raw string) (models.Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return models.NewBool(true), nil
	case "false":
		return models.NewBool(false), nil
	}
	return models.Value{}, mismatch(raw, TypeBoolean)
}

// convertArray never fails. Text that is not a JSON array is split on
// top-level commas and every trimmed segment, empty ones included, becomes a
// string, so the fallback always yields at least one element.
func (c *Converter) convertArray(raw string) models.Value {
	if v, err := parser.ParseWithOptions(raw, c.parseOpts); err == nil && v.Kind == models.KindArray {
		return v
	}
	segments := SplitTopLevel(raw)
	items := make([]models.Value, len(segments))
	for i, seg := range segments {
		items[i] = models.NewString(strings.TrimSpace(seg))
	}
	return models.NewArray(items...)
}

// SplitTopLevel splits s on commas that are outside double-quoted runs and
// outside brackets or braces.
func SplitTopLevel(s string) []string {
	var parts []string
	depth := 0
	inString := false
	escaped := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func isInteger(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// canonicalInteger strips leading zeros, which JSON number literals forbid.
func canonicalInteger(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return sign + s
}

func mismatch(raw string, t ValueType) error {
	return errors.NewConversionError(fmt.Sprintf("%q is not a valid %s", raw, t), errors.ErrTypeMismatch)
}
