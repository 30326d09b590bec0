package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/cmdutil"
	"github.com/material-cli/material/internal/config"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Manage the workspace configuration file material.yaml.`,
	}

	cmd.AddCommand(NewConfigInitCmd())
	cmd.AddCommand(NewConfigVetCmd())
	cmd.AddCommand(NewConfigShowCmd())

	return cmd
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write material.yaml with default values",
		Long: `Write material.yaml with every default value into the workspace root, or
into the current directory when it is not inside a workspace.

Examples:
  material config init
  material config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration")
	return cmd
}

func runConfigInit(force bool) error {
	path := configFlag
	if path == "" {
		root, err := config.FindRoot(".")
		if err != nil {
			root = "."
		}
		path = filepath.Join(root, config.FileName)
	}

	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return cmdutil.Fail("config init", &oerrors.DetailError{
				Type:     "already exists",
				Message:  "configuration file already exists",
				Location: path,
				Hint:     "Use --force to overwrite.",
				Cause:    oerrors.ErrConfig,
			})
		}
		return err
	}

	output.Println(output.FormatCheckmark("Wrote " + path))
	return nil
}

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate material.yaml against the configuration schema.

Checks performed:
  1. The file is valid YAML
  2. Only known keys are used, with the right types
  3. Values are consistent (glob pattern, bundler command, semver version)`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigVet()
		},
	}
}

func runConfigVet() error {
	path := configFlag
	if path == "" {
		root, err := config.FindRoot(".")
		if err != nil {
			return cmdutil.Fail("config vet", &oerrors.DetailError{
				Type:    "not found",
				Message: "no material workspace above the current directory",
				Hint:    "Run 'material config init' to create material.yaml.",
				Cause:   oerrors.ErrConfig,
			})
		}
		path = config.WorkspacePaths(root).ConfigFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cmdutil.Fail("config vet", &oerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: path,
			Hint:     "Run 'material config init' to create it.",
			Cause:    oerrors.ErrConfig,
		})
	}

	v, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := v.ValidateFile(path); err != nil {
		return cmdutil.Fail("config vet", &oerrors.DetailError{
			Type:     "invalid configuration",
			Message:  err.Error(),
			Location: path,
			Cause:    err,
		})
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + path))
	return nil
}

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration values and their sources",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ws, err := cmdutil.LoadWorkspace(cmdutil.WorkspaceOptions{Dir: ".", ConfigFile: configFlag})
			if err != nil {
				return cmdutil.Fail("loading workspace", err)
			}

			tbl := output.NewTable("KEY", "VALUE", "SOURCE")
			for _, rv := range ws.Loader.ResolveAll() {
				value := ""
				if rv.Value != nil {
					value = fmt.Sprint(rv.Value)
				}
				tbl.Row(rv.Key, value, string(rv.Source))
			}
			fmt.Fprintln(c.OutOrStdout(), tbl.String())
			return nil
		},
	}
}
