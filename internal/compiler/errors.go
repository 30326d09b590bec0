package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/runtime"
)

// ErrEntryNotFound is returned when a component's entry module does not exist.
var ErrEntryNotFound = errors.New("entry module not found")

// ComponentBuildError reports a failed compile of one component for one
// runtime version.
type ComponentBuildError struct {
	ComponentID string
	Version     runtime.Version
	Cause       error
}

func (e *ComponentBuildError) Error() string {
	return fmt.Sprintf("building %s for %s: %v", e.ComponentID, e.Version, e.Cause)
}

func (e *ComponentBuildError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errors.ErrBuild) match.
func (e *ComponentBuildError) Is(target error) bool {
	return target == oerrors.ErrBuild
}

// BundleError carries the diagnostics of a failed esbuild run.
type BundleError struct {
	Format   string
	Messages []api.Message
}

func (e *BundleError) Error() string {
	lines := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		lines = append(lines, formatMessage(m))
	}
	return fmt.Sprintf("%s bundle: %s", e.Format, strings.Join(lines, "; "))
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}

// CommandError is returned when an external bundler exits non-zero.
type CommandError struct {
	Command string
	Cause   error
	Stderr  string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Cause)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}
