package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/cmdutil"
	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/config"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/templates"
)

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "add <Name>",
		Short: "Create a new component",
		Long: `Create a new component under packages/<Name> of the current workspace.

The component gets a configuration file, a TypeScript entry written against
vue-demi, a stylesheet and a test.

Examples:
  # Create packages/DatePicker with id "date-picker"
  material add DatePicker

  # Overwrite an existing directory
  material add Button --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runAdd(args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite files in an existing component directory")
	return cmd
}

func runAdd(name string, force bool) error {
	data, err := templates.NewData(name)
	if err != nil {
		return cmdutil.Fail("invalid component name", &oerrors.DetailError{
			Type:    "invalid name",
			Message: err.Error(),
			Hint:    "Use a name such as Button or DatePicker.",
			Cause:   oerrors.ErrConfig,
		})
	}

	root, err := config.FindRoot(".")
	if err != nil {
		if errors.Is(err, config.ErrNoWorkspace) {
			return cmdutil.Fail("adding component", &oerrors.DetailError{
				Type:    "no workspace",
				Message: "the current directory is not inside a material workspace",
				Hint:    "Run 'material init' first.",
				Cause:   oerrors.ErrConfig,
			})
		}
		return err
	}

	target := filepath.Join(root, config.PackagesDir, data.PascalName)
	if err := checkUnique(root, data.ID, component.PascalCase(data.PascalName), target, force); err != nil {
		return cmdutil.Fail("adding component", err)
	}
	if err := templates.CheckTarget(target, force); err != nil {
		return cmdutil.Fail("adding component", &oerrors.DetailError{
			Type:     "directory exists",
			Message:  err.Error(),
			Location: target,
			Cause:    oerrors.ErrConflict,
		})
	}

	files, err := templates.Render(templates.Component, target, data)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	rel, _ := filepath.Rel(root, target)
	output.Println(fmt.Sprintf("Created component %s (id %s) in %s\n",
		output.StyleNoun.Render(data.PascalName), data.ID, rel))
	output.Print(output.RenderFileTree(filepath.ToSlash(rel), describeFiles(files)))
	output.Println("\nNext steps:\n  material build\n  material dev " + data.ID)
	return nil
}

// checkUnique refuses a name whose id or export name is already taken by
// another component. With force, the component at target itself is not a
// conflict.
func checkUnique(root, id, exportName, target string, force bool) error {
	paths, err := component.Discover(root, component.DiscoverOptions{})
	if err != nil {
		return err
	}
	loader, err := component.NewLoader()
	if err != nil {
		return err
	}
	for _, p := range paths {
		d, err := loader.Load(p)
		if err != nil {
			output.Debug("skipping component", "path", p, "error", err)
			continue
		}
		if force && d.Dir() == target {
			continue
		}
		if d.Key() == id {
			return &component.DuplicateComponentIDError{ID: id, Paths: []string{p, target}}
		}
		if d.ExportName() == exportName {
			return &component.ExportNameError{
				Name:  exportName,
				IDs:   []string{d.ID, id},
				Paths: []string{p, target},
			}
		}
	}
	return nil
}
