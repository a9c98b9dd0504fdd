package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig = "CONFIG"
	ErrSource = "SOURCE" // external utility, process, or endpoint failed
	ErrParse  = "PARSE"  // source answered but the output was unexpected
	ErrRender = "RENDER" // layout does not fit the terminal
	ErrExec   = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered for the terminal as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Unavailable reports that a metric source could not be reached.
func Unavailable(source string, cause error) *Error {
	return &Error{
		Code:    ErrSource,
		Message: source + " unavailable",
		Cause:   cause,
	}
}

// Parse reports that a metric source returned output in an unexpected shape.
func Parse(source string, cause error) *Error {
	return &Error{
		Code:    ErrParse,
		Message: "unexpected " + source + " output",
		Cause:   cause,
	}
}

// Error implements the error interface with the multi-line terminal format.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns a single-line form suitable for log files.
func (e *Error) Short() string {
	if e.Cause == nil {
		return e.Code + ": " + e.Message
	}
	return e.Code + ": " + e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var aimErr *Error
	if errors.As(err, &aimErr) {
		return aimErr.Code == code
	}
	return false
}

// OneLine flattens any error for single-line logging.
func OneLine(err error) string {
	if err == nil {
		return ""
	}
	var aimErr *Error
	if errors.As(err, &aimErr) {
		return aimErr.Short()
	}
	return strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", " ")
}
