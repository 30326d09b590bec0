package component

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
	"github.com/charmbracelet/lipgloss"

	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
)

// ConfigLoadError indicates a component configuration could not be loaded.
type ConfigLoadError struct {
	// Path is the configuration file.
	Path string

	// Field is the offending field, empty when the whole file is at fault.
	Field string

	// Message describes what is wrong.
	Message string

	// Cause is the underlying error.
	Cause error
}

func (e *ConfigLoadError) Error() string {
	var sb strings.Builder
	sb.WriteString("loading ")
	sb.WriteString(e.Path)
	if e.Field != "" {
		sb.WriteString(": field ")
		sb.WriteString(e.Field)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errors.ErrConfig) match.
func (e *ConfigLoadError) Is(target error) bool {
	return target == oerrors.ErrConfig
}

// Details renders CUE failures one per line with their source positions.
// It returns the empty string when the cause is not a CUE error.
func (e *ConfigLoadError) Details() string {
	if e.Cause == nil {
		return ""
	}
	var cueErr cueerrors.Error
	if !errors.As(e.Cause, &cueErr) {
		return ""
	}
	return formatCUEDetails(e.Cause)
}

// DuplicateComponentIDError is returned when two components share a
// lowercased id.
type DuplicateComponentIDError struct {
	ID    string
	Paths []string
}

func (e *DuplicateComponentIDError) Error() string {
	return fmt.Sprintf("duplicate component id %q (case-insensitive) in %s", e.ID, strings.Join(e.Paths, ", "))
}

// Is lets errors.Is(err, errors.ErrConflict) match.
func (e *DuplicateComponentIDError) Is(target error) bool {
	return target == oerrors.ErrConflict
}

// ExportNameError is returned when a component's export name cannot be
// declared in the aggregate entry modules: it is not a valid identifier, or
// another component exports the same name.
type ExportNameError struct {
	Name string

	// IDs and Paths hold the offending component, then the component it
	// clashes with, if any.
	IDs   []string
	Paths []string
}

func (e *ExportNameError) Error() string {
	if len(e.IDs) > 1 {
		return fmt.Sprintf("components %s export the same name %q", strings.Join(e.IDs, " and "), e.Name)
	}
	return fmt.Sprintf("component %s: %q is not a usable export name (set componentName to a JavaScript identifier)", e.IDs[0], e.Name)
}

// Is lets errors.Is(err, errors.ErrConflict) match.
func (e *ExportNameError) Is(target error) bool {
	return target == oerrors.ErrConflict
}

// CheckUnique returns a DuplicateComponentIDError for the first lowercased id
// that appears more than once, then an ExportNameError for the first export
// name that is invalid or shared.
func CheckUnique(descs []*Descriptor) error {
	seen := make(map[string]*Descriptor, len(descs))
	for _, d := range descs {
		if prev, ok := seen[d.Key()]; ok {
			return &DuplicateComponentIDError{
				ID:    d.Key(),
				Paths: []string{prev.ConfigPath, d.ConfigPath},
			}
		}
		seen[d.Key()] = d
	}

	names := make(map[string]*Descriptor, len(descs))
	for _, d := range descs {
		name := d.ExportName()
		if !ValidIdentifier(name) {
			return &ExportNameError{Name: name, IDs: []string{d.ID}, Paths: []string{d.ConfigPath}}
		}
		if prev, ok := names[name]; ok {
			return &ExportNameError{
				Name:  name,
				IDs:   []string{prev.ID, d.ID},
				Paths: []string{prev.ConfigPath, d.ConfigPath},
			}
		}
		names[name] = d
	}
	return nil
}

var (
	errStylePath     = lipgloss.NewStyle().Foreground(output.ColorCyan)
	errStyleDim      = lipgloss.NewStyle().Faint(true)
	errStylePosition = lipgloss.NewStyle().Foreground(output.ColorYellow)
)

// formatCUEDetails formats a CUE error list as:
//
//	build.formats.0: 2 errors in empty disjunction:
//	    → ./packages/Button/material.config.cue:12:5
func formatCUEDetails(err error) string {
	cwd, _ := os.Getwd()

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return strings.Join(errs[i].Path(), ".") < strings.Join(errs[j].Path(), ".")
	})

	var b strings.Builder
	seen := make(map[string]bool, len(errs))
	for _, e := range errs {
		if seen[e.Error()] {
			continue
		}
		seen[e.Error()] = true

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if path := strings.Join(e.Path(), "."); path != "" {
			b.WriteString(errStylePath.Render(path))
			b.WriteString(": ")
		}
		format, args := e.Msg()
		b.WriteString(fmt.Sprintf(format, args...))

		for _, p := range cueerrors.Positions(e) {
			pos := p.Position()
			b.WriteString("\n    ")
			b.WriteString(errStyleDim.Render("→ " + relPath(pos.Filename, cwd)))
			if pos.IsValid() {
				b.WriteString(errStyleDim.Render(":"))
				b.WriteString(errStylePosition.Render(fmt.Sprintf("%d:%d", pos.Line, pos.Column)))
			}
		}
	}
	return b.String()
}

// firstCUEPath returns the dotted path of the first CUE error, if any.
func firstCUEPath(err error) string {
	for _, e := range cueerrors.Errors(err) {
		if p := strings.Join(e.Path(), "."); p != "" {
			return p
		}
	}
	return ""
}

func relPath(path, cwd string) string {
	if cwd == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return "." + string(filepath.Separator) + rel
}
