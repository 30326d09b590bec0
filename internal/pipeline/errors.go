package pipeline

import (
	"errors"
	"fmt"

	oerrors "github.com/material-cli/material/internal/errors"
)

// ErrNoComponents is returned when discovery finds no configuration files.
var ErrNoComponents = errors.New("no components found")

// EntryPointError reports a failed shim synthesis for one component.
type EntryPointError struct {
	ComponentID string
	Cause       error
}

func (e *EntryPointError) Error() string {
	return fmt.Sprintf("synthesizing entry points for %s: %v", e.ComponentID, e.Cause)
}

func (e *EntryPointError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errors.ErrBuild) match.
func (e *EntryPointError) Is(target error) bool {
	return target == oerrors.ErrBuild
}
