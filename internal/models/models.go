package models

import "fmt"

// Position is a location in the source text.
// Offset is a 0-based byte offset; Line and Column are 1-based, and Column
// counts code points rather than bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// StartPosition is the position of the first character of any text.
func StartPosition() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// IsValid returns true if the position has been set (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", p.Line, p.Column, p.Offset)
}

// ValidationResult is the outcome of a single validation call.
// ErrorMessage and ErrorPosition are only set when IsValid is false.
type ValidationResult struct {
	IsValid       bool
	ErrorMessage  string
	ErrorPosition *Position
}

// FormatResult is returned by every text-transforming operation.
type FormatResult struct {
	Success      bool
	Content      string
	ErrorMessage string
	// ErrorPosition is set when the failure came from the validator.
	ErrorPosition *Position
}

// ErrorLocation is the line/column pair used to highlight a syntax error.
type ErrorLocation struct {
	Line   int
	Column int
}

func (l ErrorLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
