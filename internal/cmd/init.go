package cmd

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/cmdutil"
	"github.com/material-cli/material/internal/config"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/templates"
)

// exampleComponent is scaffolded into every new workspace.
const exampleComponent = "Button"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new component library workspace",
		Long: `Create a new workspace with shared utilities, an example Button
component, material.yaml and playgrounds for Vue 2 and Vue 3.

Examples:
  # Create ./my-lib
  material init my-lib

  # Initialize the current (empty) directory
  material init

  # Use a package name different from the directory
  material init ui --name acme-ui`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInit(cmdutil.ResolveDir(args), name, force)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Package name (defaults to the directory name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Initialize a non-empty directory, overwriting files")
	return cmd
}

func runInit(dir, name string, force bool) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("getting absolute path: %w", err)
	}
	if name == "" {
		name = filepath.Base(absDir)
	}

	data, err := templates.NewData(name)
	if err != nil {
		return cmdutil.Fail("invalid workspace name", &oerrors.DetailError{
			Type:    "invalid name",
			Message: err.Error(),
			Hint:    "Pass a valid package name with --name.",
			Cause:   oerrors.ErrConfig,
		})
	}

	if err := templates.CheckTarget(absDir, force); err != nil {
		return cmdutil.Fail("creating workspace", &oerrors.DetailError{
			Type:     "directory not empty",
			Message:  err.Error(),
			Location: absDir,
			Cause:    oerrors.ErrConflict,
		})
	}

	files, err := templates.Render(templates.Project, absDir, data)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	example, err := templates.NewData(exampleComponent)
	if err != nil {
		return err
	}
	componentDir := path.Join(config.PackagesDir, example.PascalName)
	componentFiles, err := templates.Render(templates.Component, filepath.Join(absDir, filepath.FromSlash(componentDir)), example)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}
	for _, f := range componentFiles {
		files = append(files, path.Join(componentDir, f))
	}

	if err := config.WriteDefault(filepath.Join(absDir, config.FileName), force); err != nil {
		return fmt.Errorf("writing %s: %w", config.FileName, err)
	}
	files = append(files, config.FileName)

	output.Println(fmt.Sprintf("Created workspace %s in %s\n", output.StyleNoun.Render(data.ID), absDir))
	output.Print(output.RenderFileTree(filepath.Base(absDir), describeFiles(files)))

	steps := []string{"pnpm install", "material build", "material dev"}
	if cwd, err := os.Getwd(); err == nil && cwd != absDir {
		steps = append([]string{"cd " + dir}, steps...)
	}
	output.Println("\nNext steps:\n  " + strings.Join(steps, "\n  "))
	return nil
}

var fileDescriptions = map[string]string{
	"material.yaml":            "Workspace configuration",
	"material.config.json":     "Component configuration",
	"package.json":             "Workspace package",
	"tsconfig.json":            "TypeScript settings",
	"src/index.ts":             "Component entry",
	"src/types.ts":             "Props",
	"src/style.css":            "Styles",
	"src/utils/withInstall.ts": "Plugin helper",
	"vite.config.ts":           "Playground config",
}

// describeFiles pairs scaffolded paths with a short description for the
// file tree, matching on the full path, then on the last two segments, then
// on the base name.
func describeFiles(files []string) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		tail := path.Join(path.Base(path.Dir(f)), path.Base(f))
		for _, key := range []string{f, tail, path.Base(f)} {
			if desc, ok := fileDescriptions[key]; ok {
				out[f] = desc
				break
			}
		}
		if _, ok := out[f]; !ok {
			out[f] = ""
		}
	}
	return out
}
