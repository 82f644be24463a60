package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/mcncl/jsonkit/internal/models"
)

// Standard application errors
var (
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON       = errors.New("invalid JSON format")
	ErrDepthLimit        = errors.New("nesting depth limit exceeded")
	ErrUnknownValueType  = errors.New("unknown value type")
	ErrInvalidIndent     = errors.New("indent width must be between 1 and 10")
	ErrInvalidOption     = errors.New("invalid option")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileEmpty         = errors.New("file is empty")
	ErrNoInput           = errors.New("no input provided: please specify a file or pipe JSON data to stdin")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrTypeMismatch      = errors.New("value does not match declared type")
	ErrStillInvalidAfter = errors.New("document is still invalid after repair")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeSyntax     ErrorType = "syntax"
	ErrorTypeConversion ErrorType = "conversion"
	ErrorTypeFormat     ErrorType = "format"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// SyntaxError is a malformed token or grammar violation. It always carries
// the position of the offending character.
type SyntaxError struct {
	Message  string
	Position models.Position
	// Cause optionally narrows the failure, e.g. ErrDepthLimit.
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d (offset %d)",
		e.Message, e.Position.Line, e.Position.Column, e.Position.Offset)
}

// Is matches ErrInvalidJSON so callers can test for any syntax failure.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidJSON
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// NewSyntaxError creates a syntax error at pos.
func NewSyntaxError(pos models.Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Position: pos}
}

// AsSyntaxError extracts a SyntaxError from err's chain.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewSyntaxAppError wraps a syntax failure with context
func NewSyntaxAppError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSyntax,
		Message: message,
		Err:     err,
	}
}

// NewConversionError creates a new error for a value that does not match its declared type
func NewConversionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConversion,
		Message: message,
		Err:     err,
	}
}

// NewFormatError creates a new error related to formatting
func NewFormatError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFormat,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

var locationRegex = regexp.MustCompile(`line (\d+), column (\d+)`)

// ParseLocation recovers a line/column pair from a rendered error message.
func ParseLocation(message string) (models.ErrorLocation, bool) {
	m := locationRegex.FindStringSubmatch(message)
	if m == nil {
		return models.ErrorLocation{}, false
	}
	line, err := strconv.Atoi(m[1])
	if err != nil {
		return models.ErrorLocation{}, false
	}
	col, err := strconv.Atoi(m[2])
	if err != nil {
		return models.ErrorLocation{}, false
	}
	return models.ErrorLocation{Line: line, Column: col}, true
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeSyntax:
			if se, ok := AsSyntaxError(appErr.Err); ok {
				return fmt.Sprintf("JSON syntax error: %s", se.Error())
			}
			return fmt.Sprintf("JSON syntax error: %s", appErr.Message)
		case ErrorTypeConversion:
			return fmt.Sprintf("Conversion error: %s", appErr.Message)
		case ErrorTypeFormat:
			return fmt.Sprintf("Formatting error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if se, ok := AsSyntaxError(err); ok {
		return fmt.Sprintf("JSON syntax error: %s", se.Error())
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
