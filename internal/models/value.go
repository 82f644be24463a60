package models

import (
	"math"
	"strconv"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a node of the parsed document tree.
// Only the fields matching Kind are meaningful. Object members keep insertion
// order and array items keep their order.
type Value struct {
	Kind Kind
	Bool bool
	// Number holds the parsed double and Literal the source text it came from.
	// Literal is what gets rendered, so "1.50" survives a round trip.
	Number  float64
	Literal string
	Str     string
	Items   []Value
	Members []Member
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// NewBool returns a boolean value.
func NewBool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// NewNumber returns a number carrying its original literal text.
func NewNumber(f float64, literal string) Value {
	return Value{Kind: KindNumber, Number: f, Literal: literal}
}

// NewFloat returns a number whose literal is derived from f.
func NewFloat(f float64) Value {
	return Value{Kind: KindNumber, Number: f, Literal: FormatFloat(f)}
}

// NewString returns a string value.
func NewString(s string) Value { return Value{Kind: KindString, Str: s} }

// NewArray returns an array holding items.
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// NewObject returns an object built from members. Duplicate keys follow Set.
func NewObject(members ...Member) Value {
	obj := Value{Kind: KindObject, Members: make([]Member, 0, len(members))}
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return obj
}

// FormatFloat renders f the way a JSON literal would be written by hand.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NumberText returns the text a number renders as.
func (v Value) NumberText() string {
	if v.Literal != "" {
		return v.Literal
	}
	return FormatFloat(v.Number)
}

// Set assigns key on an object. An existing member is overwritten in place,
// so the last write wins while the member keeps its first position.
func (v *Value) Set(key string, val Value) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			v.Members[i].Value = val
			return
		}
	}
	v.Members = append(v.Members, Member{Key: key, Value: val})
}

// Get returns the member value for key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the object has a member named key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the object's keys in member order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.Members))
	for i, m := range v.Members {
		keys[i] = m.Key
	}
	return keys
}

// Equal reports whether two trees hold the same data. Numbers compare by
// their parsed value, and object member order is significant.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Members) != len(o.Members) {
			return false
		}
		for i := range v.Members {
			if v.Members[i].Key != o.Members[i].Key || !v.Members[i].Value.Equal(o.Members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
