package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the CLI with stdin and captures both output streams.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr, kong.Exit(func(int) {}))
	return stdout.String(), stderr.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Format(t *testing.T) {
	out, _, err := runCLI(t, `{"name":"John","tags":["a"]}`, "format")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"John\",\n  \"tags\": [\n    \"a\"\n  ]\n}\n", out)

	out, _, err = runCLI(t, `{"a":1}`, "format", "--indent", "4")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", out)
}

func TestRun_FormatIsDefaultCommand(t *testing.T) {
	path := writeTemp(t, "doc.json", `[1,2]`)

	out, _, err := runCLI(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]\n", out)
}

func TestRun_Minify(t *testing.T) {
	out, _, err := runCLI(t, "{\n  \"a\" : [ 1.50 , true ]\n}", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":[1.50,true]}\n", out)
}

func TestRun_Validate(t *testing.T) {
	out, _, err := runCLI(t, `{"ok": true}`, "validate")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, stderr, err := runCLI(t, `{"a":1,}`, "validate")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)
	assert.Equal(t, "1 | {\"a\":1,}\n          ^\nHint: run 'jsonkit fix' to remove trailing commas\n", stderr)
	assert.Equal(t,
		"JSON syntax error: trailing comma before '}' at line 1, column 7 (offset 6)",
		errors.UserFriendlyError(err))

	_, stderr, err = runCLI(t, `{"a":}`, "validate")
	require.Error(t, err)
	assert.NotContains(t, stderr, "jsonkit fix")
}

func TestRun_Sort(t *testing.T) {
	out, _, err := runCLI(t, `{"b":2,"a":1,"c":{"z":0,"y":1}}`, "sort")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2,\n  \"c\": {\n    \"y\": 1,\n    \"z\": 0\n  }\n}\n", out)

	out, _, err = runCLI(t, `{"a":1,"b":2}`, "sort", "--order", "desc")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 2,\n  \"a\": 1\n}\n", out)

	_, _, err = runCLI(t, `{"a":1}`, "sort", "--by", "size")
	assert.ErrorIs(t, err, errors.ErrInvalidOption)
}

func TestRun_Case(t *testing.T) {
	out, _, err := runCLI(t, `{"firstName":"A","homeAddress":{"zipCode":1}}`, "case", "--style", "snake")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"first_name\": \"A\",\n  \"home_address\": {\n    \"zip_code\": 1\n  }\n}\n", out)
}

func TestRun_Fix(t *testing.T) {
	out, _, err := runCLI(t, `{"a":1,"b":2,}`, "fix")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1,\"b\":2}\n", out)

	_, _, err = runCLI(t, `[1,2,]`, "fix", "--check")
	assert.Error(t, err)

	_, _, err = runCLI(t, `[1,2]`, "fix", "--check")
	assert.NoError(t, err)

	// --check only looks for trailing commas.
	_, _, err = runCLI(t, `{"a" 1}`, "fix", "--check")
	assert.NoError(t, err)

	out, _, err = runCLI(t, `{"a" 1,}`, "fix")
	assert.ErrorIs(t, err, errors.ErrStillInvalidAfter)
	assert.Equal(t, "{\"a\" 1}\n", out)
}

func TestRun_Convert(t *testing.T) {
	out, _, err := runCLI(t, "", "convert", "-t", "integer", "42")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, _, err = runCLI(t, "", "convert", "-t", "array", "red, green")
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"red\",\n  \"green\"\n]\n", out)

	_, _, err = runCLI(t, "", "convert", "-t", "integer", "abc")
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "Conversion error")
}

func TestRun_Insert(t *testing.T) {
	out, _, err := runCLI(t, "", "insert", "-k", "user", "-V", "x")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"user\": \"x\"\n}\n", out)

	out, _, err = runCLI(t, `{"user":1}`, "insert", "-k", "user", "-V", "y")
	require.NoError(t, err)
	assert.Equal(t, "{\"user\":1,\"user_1\":\"y\"}\n", out)

	out, _, err = runCLI(t, `{"user":1}`, "insert", "-k", "n", "-V", "2.5", "-t", "float", "--rerender")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"user\": 1,\n  \"n\": 2.5\n}\n", out)

	out, stderr, err := runCLI(t, `[true]`, "--debug", "insert", "-k", "k", "-t", "null", "--caret", "0")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"data\": [\n    true\n  ],\n  \"k\": null\n}\n", out)
	assert.Contains(t, stderr, "strategy=wrap-array")
}

func TestRun_OutputFile(t *testing.T) {
	input := writeTemp(t, "in.json", `{"id":1}`)
	output := filepath.Join(t.TempDir(), "out.json")

	out, stderr, err := runCLI(t, "", "minify", input, "-o", output)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Output written to")

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n", string(content))

	_, _, err = runCLI(t, `{}`, "minify", "-o", "/non/existent/dir/out.json")
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeOutput, appErr.Type)
}

func TestRun_ConfigFile(t *testing.T) {
	cfgPath := writeTemp(t, ".jsonkit.yml", `
formatting:
  indent_width: 1
naming:
  style: pascal
output:
  trailing_newline: false
`)

	out, _, err := runCLI(t, `{"user_id":1}`, "--config", cfgPath, "case")
	require.NoError(t, err)
	assert.Equal(t, "{\n \"UserId\": 1\n}", out)

	// Command-line flags win over the file.
	out, _, err = runCLI(t, `{"user_id":1}`, "-c", cfgPath, "case", "--style", "kebab")
	require.NoError(t, err)
	assert.Equal(t, "{\n \"user-id\": 1\n}", out)
}

func TestRun_InputErrors(t *testing.T) {
	_, _, err := runCLI(t, "", "format")
	assert.ErrorIs(t, err, errors.ErrEmptyInput)

	_, _, err = runCLI(t, "", "format", "/non/existent/file.json")
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, _, err = runCLI(t, `{}`, "--color", "sometimes", "format")
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeConfig, appErr.Type)

	_, _, err = runCLI(t, `{}`, "insert")
	assert.ErrorIs(t, err, errors.ErrInvalidOption)
}
