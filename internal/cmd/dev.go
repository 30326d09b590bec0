package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/cmdutil"
	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/config"
	"github.com/material-cli/material/internal/devserver"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/runtime"
)

type devOptions struct {
	vue     string
	last    bool
	command string
}

// NewDevCmd creates the dev command.
func NewDevCmd() *cobra.Command {
	var opts devOptions

	cmd := &cobra.Command{
		Use:   "dev [component]",
		Short: "Start the playground dev server",
		Long: `Start the dev server of the Vue 2 or Vue 3 playground.

The selected component id is passed to the playground as
VITE_MATERIAL_COMPONENT and remembered in .material-dev-history.json.

Examples:
  # Vue 3 playground
  material dev

  # Vue 2 playground focused on the button component
  material dev button --vue 2

  # Reopen the component used last time
  material dev --last`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDev(c, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.vue, "vue", "3", "Vue major version of the playground: 2 or 3")
	cmd.Flags().BoolVar(&opts.last, "last", false, "Use the component from the previous session")
	cmd.Flags().StringVar(&opts.command, "command", devserver.DefaultCommand, "Dev server command")
	return cmd
}

func runDev(cmd *cobra.Command, args []string, opts devOptions) error {
	v, err := runtime.Parse(opts.vue)
	if err != nil {
		return cmdutil.Fail("invalid --vue", &oerrors.DetailError{
			Type:    "invalid flag",
			Message: err.Error(),
			Field:   "--vue",
			Cause:   oerrors.ErrConfig,
		})
	}

	root, err := config.FindRoot(".")
	if err != nil {
		if errors.Is(err, config.ErrNoWorkspace) {
			err = &oerrors.DetailError{
				Type:    "no workspace",
				Message: "the current directory is not inside a material workspace",
				Hint:    "Run 'material init' first.",
				Cause:   oerrors.ErrConfig,
			}
		}
		return cmdutil.Fail("starting dev server", err)
	}

	history, err := devserver.LoadHistory(root)
	if err != nil {
		output.Warn("dev history unreadable, starting a new one", "error", err)
	}

	selected := ""
	switch {
	case len(args) > 0:
		selected = args[0]
	case opts.last:
		selected = history.LastComponent
		if selected == "" {
			output.Warn("no previous component recorded")
		}
	}

	id := ""
	if selected != "" {
		id, err = resolveComponentID(root, selected)
		if err != nil {
			return cmdutil.Fail("starting dev server", err)
		}
		history.Record(id)
		if err := history.Save(); err != nil {
			output.Warn("dev history not saved", "error", err)
		}
	}

	output.Info(fmt.Sprintf("starting Vue %d playground", int(v)), "component", id)
	launcher := &devserver.Launcher{Command: opts.command, Component: id}
	if err := launcher.Start(cmd.Context(), root, v); err != nil {
		var pe *devserver.PlaygroundError
		if errors.As(err, &pe) {
			err = &oerrors.DetailError{
				Type:     "missing playground",
				Message:  pe.Error(),
				Location: pe.Dir,
				Hint:     "Workspaces created by 'material init' include vue2-playground and vue3-playground.",
				Cause:    oerrors.ErrConfig,
			}
		}
		return cmdutil.Fail("dev server failed", err)
	}
	return nil
}

// resolveComponentID finds the component whose id or name matches
// selected, ignoring case.
func resolveComponentID(root, selected string) (string, error) {
	paths, err := component.Discover(root, component.DiscoverOptions{})
	if err != nil {
		return "", err
	}
	loader, err := component.NewLoader()
	if err != nil {
		return "", err
	}

	var known []string
	for _, p := range paths {
		d, err := loader.Load(p)
		if err != nil {
			return "", err
		}
		if strings.EqualFold(d.ID, selected) || strings.EqualFold(d.Name, selected) {
			return d.Key(), nil
		}
		known = append(known, d.ID)
	}

	return "", &oerrors.DetailError{
		Type:    "unknown component",
		Message: fmt.Sprintf("no component with id or name %q", selected),
		Hint:    "Known components: " + strings.Join(known, ", "),
		Cause:   oerrors.ErrConfig,
	}
}
