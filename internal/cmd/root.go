// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/config"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/version"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool
)

// NewRootCmd creates the root command for the material CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "material",
		Short: "Build Vue 2 and Vue 3 component libraries from one source tree",
		Long: `material builds every component of a workspace twice, once per Vue major
version, and publishes them as a single package whose entry points pick the
right build at load time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: <workspace>/material.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output (env: MATERIAL_LOG_TIMESTAMPS)")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewAddCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewDevCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging.
func initializeGlobals(cmd *cobra.Command) error {
	logCfg := output.LogConfig{
		Verbose: verboseFlag,
	}

	// Resolve timestamps: flag (if explicitly set) > workspace config > default.
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if ts := workspaceTimestamps(); ts != nil {
		logCfg.Timestamps = ts
	}

	output.SetupLogging(logCfg)

	info := version.Get()
	output.Debug("material CLI started",
		"version", info.Version,
		"esbuild", info.EsbuildVersion,
		"command", cmd.CommandPath(),
	)
	return nil
}

// workspaceTimestamps reads log.timestamps from the enclosing workspace, if
// any. Configuration errors are reported later by the command that loads
// the workspace.
func workspaceTimestamps() *bool {
	root, err := config.FindRoot(".")
	if err != nil {
		return nil
	}
	cfg, err := config.NewLoader().Load(root, configFlag)
	if err != nil {
		output.Debug("config load error", "error", err)
		return nil
	}
	return cfg.Log.Timestamps
}
