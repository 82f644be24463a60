// Package inserter merges a new key/value pair into a JSON document.
package inserter

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// Strategy names how a pair was merged into the document.
type Strategy string

const (
	// StrategyNewObject builds a fresh object from an empty document.
	StrategyNewObject Strategy = "new-object"
	// StrategySpliceObject inserts only the new member text, leaving the
	// rest of the document byte-identical.
	StrategySpliceObject Strategy = "splice-object"
	// StrategyMergeObject re-renders the whole object with the member appended.
	StrategyMergeObject Strategy = "merge-object"
	// StrategyWrapArray wraps an array root under Options.ArrayKey.
	StrategyWrapArray Strategy = "wrap-array"
	// StrategyWrapValue wraps any other root under Options.ValueKey.
	StrategyWrapValue Strategy = "wrap-value"
)

const (
	DefaultArrayKey = "data"
	DefaultValueKey = "value"
)

// Options configures an Inserter.
type Options struct {
	// PreserveFormatting splices the new member into object documents
	// instead of re-rendering them.
	PreserveFormatting bool
	IndentWidth        int
	ArrayKey           string
	ValueKey           string
	ParseOptions       parser.Options
}

// DefaultOptions returns the options used by the CLI when no config is given.
func DefaultOptions() Options {
	return Options{
		PreserveFormatting: true,
		IndentWidth:        formatter.DefaultIndentWidth,
		ArrayKey:           DefaultArrayKey,
		ValueKey:           DefaultValueKey,
		ParseOptions:       parser.DefaultOptions(),
	}
}

// Result is the outcome of an insertion.
type Result struct {
	Text string
	// Delta is len(Text) minus the length of the original document.
	Delta int
	// Caret is where a caller should place the edit position afterwards.
	Caret int
	// Key is the key actually used after collision resolution.
	Key      string
	Strategy Strategy
}

// Inserter merges key/value pairs into documents.
type Inserter struct {
	opts Options
	f    *formatter.Formatter
}

// NewInserter creates an Inserter. It fails only for an out-of-range indent width.
func NewInserter(opts Options) (*Inserter, error) {
	f, err := formatter.NewFormatterWithIndent(opts.IndentWidth, opts.ParseOptions)
	if err != nil {
		return nil, err
	}
	if opts.ArrayKey == "" {
		opts.ArrayKey = DefaultArrayKey
	}
	if opts.ValueKey == "" {
		opts.ValueKey = DefaultValueKey
	}
	return &Inserter{opts: opts, f: f}, nil
}

// Insert adds key: value to doc. The pair always lands at the end of the
// resolved object's member list; caret only steers the returned Caret.
func (in *Inserter) Insert(doc string, caret int, key string, value models.Value) Result {
	if strings.TrimSpace(doc) == "" {
		text := in.f.Pretty(models.NewObject(models.Member{Key: key, Value: value}))
		return in.shifted(doc, text, caret, key, StrategyNewObject)
	}

	root, err := parser.ParseWithOptions(doc, in.opts.ParseOptions)
	switch {
	case err == nil && root.Kind == models.KindObject:
		key = UniqueKey(root, key)
		if in.opts.PreserveFormatting {
			if text, at, ok := in.splice(doc, key, value); ok {
				return Result{
					Text:     text,
					Delta:    len(text) - len(doc),
					Caret:    at,
					Key:      key,
					Strategy: StrategySpliceObject,
				}
			}
		}
		root.Set(key, value)
		return in.shifted(doc, in.f.Pretty(root), caret, key, StrategyMergeObject)

	case err == nil && root.Kind == models.KindArray:
		wrapper := models.NewObject(models.Member{Key: in.opts.ArrayKey, Value: root})
		key = UniqueKey(wrapper, key)
		wrapper.Set(key, value)
		return in.shifted(doc, in.f.Pretty(wrapper), caret, key, StrategyWrapArray)
	}

	// Scalar roots are kept as their raw text, like unparsable ones.
	wrapper := models.NewObject(models.Member{Key: in.opts.ValueKey, Value: models.NewString(doc)})
	key = UniqueKey(wrapper, key)
	wrapper.Set(key, value)
	return in.shifted(doc, in.f.Pretty(wrapper), caret, key, StrategyWrapValue)
}

// shifted builds a Result whose caret moves by the length delta.
func (in *Inserter) shifted(doc, text string, caret int, key string, s Strategy) Result {
	delta := len(text) - len(doc)
	return Result{
		Text:     text,
		Delta:    delta,
		Caret:    clamp(caret+delta, 0, len(text)),
		Key:      key,
		Strategy: s,
	}
}

// UniqueKey returns key, or key with the first free "_N" suffix when obj
// already has a member of that name.
func UniqueKey(obj models.Value, key string) string {
	if !obj.Has(key) {
		return key
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", key, i)
		if !obj.Has(candidate) {
			return candidate
		}
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
