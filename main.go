package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/convert"
	"github.com/mcncl/jsonkit/internal/engine"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/highlight"
	"github.com/mcncl/jsonkit/internal/input"
	"github.com/mcncl/jsonkit/internal/keycase"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/repair"
	"github.com/mcncl/jsonkit/internal/sorter"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config      string           `help:"Path to config file. Defaults to the nearest .jsonkit.yml." short:"c" type:"path"`
	Debug       bool             `help:"Enable debug logging." short:"d"`
	Color       string           `help:"Colorize output: auto, always or never."`
	Interactive bool             `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
	Version     kong.VersionFlag `help:"Show version information." short:"v"`

	Format   FormatCmd   `cmd:"" default:"withargs" help:"Pretty-print JSON."`
	Minify   MinifyCmd   `cmd:"" help:"Remove insignificant whitespace."`
	Validate ValidateCmd `cmd:"" help:"Check that the input is valid JSON."`
	Sort     SortCmd     `cmd:"" help:"Sort object members recursively."`
	Case     CaseCmd     `cmd:"" help:"Rewrite object keys into a naming style."`
	Fix      FixCmd      `cmd:"" help:"Remove trailing commas."`
	Convert  ConvertCmd  `cmd:"" help:"Convert a raw value to JSON of a declared type."`
	Insert   InsertCmd   `cmd:"" help:"Insert a key/value pair into a document."`
}

// overrides collects the settings given on the command line.
func (c *CLI) overrides() config.Overrides {
	return config.Overrides{
		IndentWidth: c.Format.Indent,
		Order:       c.Sort.Order,
		By:          c.Sort.By,
		Style:       c.Case.Style,
		Color:       c.Color,
		Debug:       c.Debug,
		Rerender:    c.Insert.Rerender,
	}
}

// Context holds the runtime context
type Context struct {
	Debug       bool
	Interactive bool
	Config      *config.Config
	Engine      *engine.Engine
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonkit --help\n")
		os.Exit(1)
	}
}

// run parses args and executes the selected command
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, options ...kong.Option) error {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("jsonkit"),
		kong.Description("Validate, format, sort, repair and edit JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": "jsonkit version " + Version},
		kong.Writers(stdout, stderr),
	}, options...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewInputError(err.Error(), errors.ErrInvalidOption)
	}

	ctx, err := newContext(&cli, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	// No arguments at all means a user at a terminal wants to paste JSON.
	ctx.Interactive = cli.Interactive || len(args) == 0

	return kctx.Run(ctx)
}

func newContext(cli *CLI, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, cli.overrides())
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if cfg.Dev.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	eng, err := engine.NewEngineWithConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Engine: eng,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// IOFlags are the input and output options shared by document commands
type IOFlags struct {
	File   string `arg:"" optional:"" help:"Path to input JSON file. If not specified, reads from stdin." type:"path"`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// readInput reads JSON from file or stdin
func (f *IOFlags) readInput(ctx *Context, allowEmpty bool) (string, error) {
	if f.File != "" {
		return input.ReadFile(f.File, allowEmpty)
	}
	return input.Stdin{In: ctx.Stdin, Prompt: ctx.Stderr, Interactive: ctx.Interactive}.Read(allowEmpty)
}

// writeOutput writes content to file or stdout
func (f *IOFlags) writeOutput(ctx *Context, content string) error {
	return writeOutput(ctx, f.Output, content, true)
}

func writeOutput(ctx *Context, path, content string, colorize bool) error {
	if ctx.Config.Output.TrailingNewline && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if path != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(ctx.Stderr, "Output written to %s\n", path)
		return nil
	}

	if colorize {
		content = highlighter(ctx, ctx.Stdout).Colorize(content)
	}
	if _, err := io.WriteString(ctx.Stdout, content); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func highlighter(ctx *Context, w io.Writer) *highlight.Highlighter {
	r := highlight.NewRenderer(w, ctx.Config.Output.Color)
	return highlight.New(highlight.NewStyles(r))
}

// syntaxFailure prints the offending line to stderr and returns the error
// main reports.
func syntaxFailure(ctx *Context, text, message string, pos *models.Position) error {
	if pos != nil {
		loc := models.ErrorLocation{Line: pos.Line, Column: pos.Column}
		fmt.Fprintln(ctx.Stderr, highlighter(ctx, ctx.Stderr).ErrorSnippet(text, loc, ""))
	}
	return errors.NewSyntaxAppError(message, errors.ErrInvalidJSON)
}

func resultOutput(ctx *Context, flags *IOFlags, text string, res models.FormatResult) error {
	if !res.Success {
		if res.ErrorPosition != nil {
			return syntaxFailure(ctx, text, res.ErrorMessage, res.ErrorPosition)
		}
		return errors.NewFormatError(res.ErrorMessage, nil)
	}
	return flags.writeOutput(ctx, res.Content)
}

// FormatCmd pretty-prints a document
type FormatCmd struct {
	IOFlags `embed:""`
	Indent  int `help:"Spaces per indentation level (1-10). Defaults to the configured width." short:"n"`
}

func (c *FormatCmd) Run(ctx *Context) error {
	text, err := c.readInput(ctx, false)
	if err != nil {
		return err
	}
	res := ctx.Engine.Format(text, ctx.Config.Formatting.IndentWidth)
	return resultOutput(ctx, &c.IOFlags, text, res)
}

// MinifyCmd strips whitespace from a document
type MinifyCmd struct {
	IOFlags `embed:""`
}

func (c *MinifyCmd) Run(ctx *Context) error {
	text, err := c.readInput(ctx, false)
	if err != nil {
		return err
	}
	return resultOutput(ctx, &c.IOFlags, text, ctx.Engine.Minify(text))
}

// ValidateCmd checks a document
type ValidateCmd struct {
	IOFlags `embed:""`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	text, err := c.readInput(ctx, false)
	if err != nil {
		return err
	}
	res := ctx.Engine.Validate(text)
	if !res.IsValid {
		err := syntaxFailure(ctx, text, res.ErrorMessage, res.ErrorPosition)
		if repair.HasTrailingCommaError(res.ErrorMessage) {
			fmt.Fprintln(ctx.Stderr, "Hint: run 'jsonkit fix' to remove trailing commas")
		}
		return err
	}
	return writeOutput(ctx, c.Output, "valid", false)
}

// SortCmd sorts object members
type SortCmd struct {
	IOFlags `embed:""`
	Order   string `help:"Sort direction: asc or desc."`
	By      string `help:"Sort on: key, type or value."`
}

func (c *SortCmd) Run(ctx *Context) error {
	text, err := c.readInput(ctx, false)
	if err != nil {
		return err
	}
	order, err := sorter.ParseOrder(ctx.Config.Sorting.Order)
	if err != nil {
		return errors.NewConfigError("invalid sort order", err)
	}
	by, err := sorter.ParseSortBy(ctx.Config.Sorting.By)
	if err != nil {
		return errors.NewConfigError("invalid sort field", err)
	}
	return resultOutput(ctx, &c.IOFlags, text, ctx.Engine.SortKeys(text, order, by))
}

// CaseCmd rewrites key names
type CaseCmd struct {
	IOFlags `embed:""`
	Style   string `help:"Key style: camel, snake, pascal, kebab or screaming_snake." short:"s"`
}

func (c *CaseCmd) Run(ctx *Context) error {
	text, err := c.readInput(ctx, false)
	if err != nil {
		return err
	}
	style, err := keycase.ParseStyle(ctx.Config.Naming.Style)
	if err != nil {
		return errors.NewConfigError("invalid key style", err)
	}
	return resultOutput(ctx, &c.IOFlags, text, ctx.Engine.FormatKeyCase(text, style))
}

// FixCmd removes trailing commas
type FixCmd struct {
	IOFlags `embed:""`
	Check   bool `help:"Only report whether trailing commas are present."`
}

func (c *FixCmd) Run(ctx *Context) error {
	text, err := c.readInput(ctx, false)
	if err != nil {
		return err
	}
	if c.Check {
		if repair.HasTrailingCommas(text) {
			return errors.NewFormatError("trailing commas found", errors.ErrInvalidJSON)
		}
		return nil
	}

	res := ctx.Engine.Repair(text)

	if err := writeOutput(ctx, c.Output, res.Text, false); err != nil {
		return err
	}
	if !res.Validation.IsValid {
		return errors.NewSyntaxAppError(res.Validation.ErrorMessage, errors.ErrStillInvalidAfter)
	}
	return nil
}

// ConvertCmd converts one raw value
type ConvertCmd struct {
	Type   string `help:"Declared type: string, integer, float, boolean, null, json or array." short:"t" required:""`
	Value  string `arg:"" help:"Raw value text."`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

func (c *ConvertCmd) Run(ctx *Context) error {
	t, err := convert.ParseValueType(c.Type)
	if err != nil {
		return err
	}
	v, err := ctx.Engine.ConvertValue(c.Value, t)
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.Output, ctx.Engine.Render(v), true)
}

// InsertCmd merges a key/value pair into a document
type InsertCmd struct {
	IOFlags  `embed:""`
	Key      string `help:"Key to insert. Suffixed with _1, _2, ... when taken." short:"k" required:""`
	Value    string `help:"Raw value text." short:"V"`
	Type     string `help:"Declared type of the value. Defaults to the configured type." short:"t"`
	Caret    int    `help:"Caret offset in the input, used to report the new caret. Defaults to the end." default:"-1"`
	Rerender bool   `help:"Re-render the whole object instead of splicing the new member in."`
}

func (c *InsertCmd) Run(ctx *Context) error {
	doc, err := c.readInput(ctx, true)
	if err != nil {
		return err
	}
	typeName := c.Type
	if typeName == "" {
		typeName = ctx.Config.Insert.DefaultType
	}
	t, err := convert.ParseValueType(typeName)
	if err != nil {
		return err
	}
	caret := c.Caret
	if caret < 0 {
		caret = len(doc)
	}

	res, err := ctx.Engine.InsertTyped(doc, caret, c.Key, c.Value, t)
	if err != nil {
		return err
	}
	if ctx.Debug {
		fmt.Fprintf(ctx.Stderr, "key=%s strategy=%s caret=%d delta=%d\n", res.Key, res.Strategy, res.Caret, res.Delta)
	}
	return c.writeOutput(ctx, res.Text)
}
