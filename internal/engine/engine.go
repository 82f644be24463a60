// Package engine exposes the JSON text operations as total functions: every
// call returns a result record and never leaves the caller without one.
package engine

import (
	"log/slog"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/convert"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/inserter"
	"github.com/mcncl/jsonkit/internal/keycase"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/repair"
	"github.com/mcncl/jsonkit/internal/sorter"
)

// Engine is stateless between calls and safe for concurrent use.
type Engine struct {
	cfg       *config.Config
	parseOpts parser.Options
	pretty    *formatter.Formatter
	converter *convert.Converter
	inserter  *inserter.Inserter
	logger    *slog.Logger
}

// RepairResult is the outcome of Repair.
type RepairResult struct {
	Text string
	// Changed reports whether any comma was removed.
	Changed    bool
	Validation models.ValidationResult
}

// NewEngine creates an Engine with the default configuration and no logging.
func NewEngine() *Engine {
	e, err := NewEngineWithConfig(config.NewConfig(), nil)
	if err != nil {
		// The defaults always validate.
		panic(err)
	}
	return e
}

// NewEngineWithConfig creates an Engine from cfg. A nil logger discards output.
func NewEngineWithConfig(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts := cfg.ParseOptions()
	pretty, err := formatter.NewFormatterWithIndent(cfg.Formatting.IndentWidth, opts)
	if err != nil {
		return nil, err
	}
	ins, err := inserter.NewInserter(cfg.InserterOptions())
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		parseOpts: opts,
		pretty:    pretty,
		converter: convert.NewConverter(opts),
		inserter:  ins,
		logger:    logger,
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Validate checks text against the JSON grammar.
func (e *Engine) Validate(text string) models.ValidationResult {
	res := parser.ValidateWithOptions(text, e.parseOpts)
	if !res.IsValid {
		e.logger.Debug("validation failed", "error", res.ErrorMessage, "bytes", len(text))
	}
	return res
}

// Format pretty-prints text with indentWidth spaces per level (1..10).
func (e *Engine) Format(text string, indentWidth int) models.FormatResult {
	f, err := formatter.NewFormatterWithIndent(indentWidth, e.parseOpts)
	if err != nil {
		return e.failure("format", err)
	}
	out, err := f.Format(text)
	if err != nil {
		return e.failure("format", err)
	}
	return success(out)
}

// Minify removes all insignificant whitespace from text.
func (e *Engine) Minify(text string) models.FormatResult {
	out, err := e.pretty.Minify(text)
	if err != nil {
		return e.failure("minify", err)
	}
	return success(out)
}

// SortKeys reorders every object's members and pretty-prints the result.
func (e *Engine) SortKeys(text string, order sorter.Order, by sorter.SortBy) models.FormatResult {
	v, err := parser.ParseWithOptions(text, e.parseOpts)
	if err != nil {
		return e.failure("sort", err)
	}
	sorted := sorter.NewSorter(order, by).Sort(v)
	e.logger.Debug("sorted keys", "order", order, "by", by)
	return success(e.pretty.Pretty(sorted))
}

// FormatKeyCase rewrites every object key into style and pretty-prints the
// result. Configured key mappings take precedence over the style.
func (e *Engine) FormatKeyCase(text string, style keycase.Style) models.FormatResult {
	v, err := parser.ParseWithOptions(text, e.parseOpts)
	if err != nil {
		return e.failure("key case", err)
	}
	rename := func(key string) string { return e.cfg.KeyName(key, style) }
	if collisions := keycase.Collisions(v, rename); len(collisions) > 0 {
		e.logger.Debug("key case collisions, last value kept", "style", style, "keys", collisions)
	}
	return success(e.pretty.Pretty(keycase.TransformFunc(v, rename)))
}

// Render pretty-prints a value with the configured indent width.
func (e *Engine) Render(v models.Value) string {
	return e.pretty.Pretty(v)
}

// FixTrailingCommas removes trailing commas from raw text.
func (e *Engine) FixTrailingCommas(text string) string {
	return repair.FixTrailingCommas(text)
}

// Repair removes trailing commas and re-validates the result.
func (e *Engine) Repair(text string) RepairResult {
	fixed := repair.FixTrailingCommas(text)
	res := e.Validate(fixed)
	e.logger.Debug("repair", "changed", fixed != text, "valid", res.IsValid)
	return RepairResult{Text: fixed, Changed: fixed != text, Validation: res}
}

// ConvertValue turns raw text into a value of the declared type. The error
// is an *errors.AppError of type conversion.
func (e *Engine) ConvertValue(raw string, t convert.ValueType) (models.Value, error) {
	v, err := e.converter.Convert(raw, t)
	if err != nil {
		e.logger.Debug("conversion failed", "type", t, "error", err)
	}
	return v, err
}

// InsertAtCursor merges key: value into doc.
func (e *Engine) InsertAtCursor(doc string, caret int, key string, value models.Value) inserter.Result {
	res := e.inserter.Insert(doc, caret, key, value)
	if res.Key != key {
		e.logger.Debug("key collision resolved", "requested", key, "used", res.Key)
	}
	e.logger.Debug("inserted", "strategy", res.Strategy, "delta", res.Delta, "caret", res.Caret)
	return res
}

// InsertTyped converts raw to t and inserts it under key.
func (e *Engine) InsertTyped(doc string, caret int, key, raw string, t convert.ValueType) (inserter.Result, error) {
	v, err := e.ConvertValue(raw, t)
	if err != nil {
		return inserter.Result{}, err
	}
	return e.InsertAtCursor(doc, caret, key, v), nil
}

// ExtractErrorLocation returns the line and column of a validation failure.
// Results without a position fall back to the location named in the message.
func (e *Engine) ExtractErrorLocation(res models.ValidationResult) (models.ErrorLocation, bool) {
	return ExtractErrorLocation(res)
}

// ExtractErrorLocation is the package-level form of Engine.ExtractErrorLocation.
func ExtractErrorLocation(res models.ValidationResult) (models.ErrorLocation, bool) {
	if res.IsValid {
		return models.ErrorLocation{}, false
	}
	if res.ErrorPosition != nil && res.ErrorPosition.IsValid() {
		return models.ErrorLocation{Line: res.ErrorPosition.Line, Column: res.ErrorPosition.Column}, true
	}
	return errors.ParseLocation(res.ErrorMessage)
}

func success(content string) models.FormatResult {
	return models.FormatResult{Success: true, Content: content}
}

func (e *Engine) failure(op string, err error) models.FormatResult {
	res := models.FormatResult{Success: false}
	if se, ok := errors.AsSyntaxError(err); ok {
		pos := se.Position
		res.ErrorMessage = se.Error()
		res.ErrorPosition = &pos
	} else {
		res.ErrorMessage = errors.UserFriendlyError(err)
	}
	e.logger.Debug(op+" failed", "error", res.ErrorMessage)
	return res
}
