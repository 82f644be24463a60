// Package input reads JSON documents from files or standard input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mcncl/jsonkit/internal/errors"
)

// ReadFile reads a whole document from filePath. An empty file is an error
// unless allowEmpty is set.
func ReadFile(filePath string, allowEmpty bool) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 && !allowEmpty {
		return "", errors.NewInputError(fmt.Sprintf("input file '%s' is empty", filePath), errors.ErrFileEmpty)
	}
	return string(data), nil
}

// Stdin reads a document from standard input, either piped or typed.
type Stdin struct {
	In io.Reader
	// Prompt receives the interactive banner.
	Prompt io.Writer
	// Interactive allows reading from a terminal until Ctrl+D.
	Interactive bool
}

// Read returns everything on the input. A terminal is only read in
// interactive mode. Empty input is an error unless allowEmpty is set.
func (s Stdin) Read(allowEmpty bool) (string, error) {
	if IsTerminal(s.In) {
		if !s.Interactive {
			return "", errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		return s.readInteractive(allowEmpty)
	}

	data, err := io.ReadAll(s.In)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 && !allowEmpty {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// readInteractive lets users paste JSON and signal completion with Ctrl+D (EOF)
func (s Stdin) readInteractive(allowEmpty bool) (string, error) {
	prompt := s.Prompt
	if prompt == nil {
		prompt = io.Discard
	}
	fmt.Fprintln(prompt, "jsonkit interactive mode")
	fmt.Fprintln(prompt, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(s.In)
	var b strings.Builder
	for {
		line, err := reader.ReadString('\n')
		b.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	if b.Len() == 0 && !allowEmpty {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	fmt.Fprintln(prompt)
	return b.String(), nil
}

// IsTerminal reports whether r is a terminal rather than a pipe or file.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
