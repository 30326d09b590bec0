package cmdutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/material-cli/material/internal/compiler"
	"github.com/material-cli/material/internal/component"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
)

// Fail reports err in a user-friendly format and returns it wrapped in an
// ExitError carrying the matching exit code. The returned error is marked
// printed so main does not report it twice.
func Fail(msg string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	PrintError(msg, err)
	return &oerrors.ExitError{Err: err, Code: oerrors.ExitCodeFromError(err), Printed: true}
}

// PrintError prints err with the detail its type carries: CUE positions
// for configuration errors, bundler output for build errors, the clashing
// files for duplicate ids.
func PrintError(msg string, err error) {
	var (
		detailErr *oerrors.DetailError
		loadErr   *component.ConfigLoadError
		dupErr    *component.DuplicateComponentIDError
		nameErr   *component.ExportNameError
		buildErr  *compiler.ComponentBuildError
	)

	switch {
	case errors.As(err, &detailErr):
		output.Error(msg)
		output.Details(detailErr.Error())
	case errors.As(err, &loadErr):
		output.Error(fmt.Sprintf("%s: %s", msg, loadErr.Path), "field", loadErr.Field, "error", loadErr.Message)
		if details := loadErr.Details(); details != "" {
			output.Details(details)
		} else if loadErr.Cause != nil {
			output.Details(loadErr.Cause.Error())
		}
	case errors.As(err, &dupErr):
		output.Error(fmt.Sprintf("%s: duplicate component id %q", msg, dupErr.ID))
		output.Details("  " + strings.Join(dupErr.Paths, "\n  "))
	case errors.As(err, &nameErr):
		output.Error(fmt.Sprintf("%s: %s", msg, nameErr.Error()))
		output.Details("  " + strings.Join(nameErr.Paths, "\n  "))
	case errors.As(err, &buildErr):
		output.Error(fmt.Sprintf("%s: %s", msg, output.FormatComponentLine(buildErr.ComponentID, buildErr.Version.String(), output.StatusFailed)))
		if buildErr.Cause != nil {
			output.Details(buildErr.Cause.Error())
		}
	default:
		output.Error(msg, "error", err)
	}
}
