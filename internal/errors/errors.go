// Package errors provides sentinel errors, exit codes and the user-facing
// error format for the material CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes returned by the material binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigError indicates a component or workspace configuration could not be loaded.
	ExitConfigError = 2

	// ExitBuildError indicates the bundler failed for a component.
	ExitBuildError = 3

	// ExitConflictError indicates two components collide in the aggregate package.
	ExitConflictError = 4

	// ExitManifestError indicates a manifest or aggregate file could not be written.
	ExitManifestError = 5
)

// Sentinel errors for known conditions.
var (
	// ErrConfig indicates a malformed or missing configuration.
	ErrConfig = errors.New("configuration error")

	// ErrBuild indicates a bundler failure.
	ErrBuild = errors.New("build error")

	// ErrConflict indicates a naming collision between components.
	ErrConflict = errors.New("conflict")

	// ErrManifest indicates a manifest write failure.
	ErrManifest = errors.New("manifest error")
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrBuild):
		return ExitBuildError
	case errors.Is(err, ErrConflict):
		return ExitConflictError
	case errors.Is(err, ErrManifest):
		return ExitManifestError
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigError:
		return "Configuration Error"
	case ExitBuildError:
		return "Build Error"
	case ExitConflictError:
		return "Conflict"
	case ExitManifestError:
		return "Manifest Error"
	default:
		return "Unknown"
	}
}

// DetailError captures structured error information for terminal output.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path (optional).
	Location string

	// Field is the field name for schema errors (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
