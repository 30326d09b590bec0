package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show material CLI version information.

Displays:
  - material version, commit, and build date
  - esbuild and CUE versions built into the CLI
  - the Node.js found on PATH, used by external bundlers and playgrounds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			node := version.DetectNode(cmd.Context())

			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			fmt.Fprintln(cmd.OutOrStdout(), node.String())
			return nil
		},
	}
}
