// Package cmdutil provides shared command utilities. It centralizes flag
// groups, workspace loading, compiler construction and error rendering.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/config"
)

// BuildFlags holds the flags of commands that run the build pipeline.
type BuildFlags struct {
	Watch       bool
	Parallel    int
	OutDir      string
	Bundler     string
	StrictTypes bool
}

// flagKeys maps build flags to the configuration keys they override.
var flagKeys = map[string]string{
	"parallel":     "parallel",
	"out-dir":      "dist",
	"bundler":      "bundler.kind",
	"strict-types": "strictDeclarations",
}

// AddTo registers the build flags on the given cobra command.
func (f *BuildFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.Watch, "watch", "w", false,
		"Rebuild when sources change")
	cmd.Flags().IntVarP(&f.Parallel, "parallel", "p", 1,
		"Number of compile workers (1 builds sequentially)")
	cmd.Flags().StringVarP(&f.OutDir, "out-dir", "o", "dist",
		"Aggregate output directory, relative to the workspace root")
	cmd.Flags().StringVar(&f.Bundler, "bundler", config.BundlerEsbuild,
		"Bundler to use: esbuild or command")
	cmd.Flags().BoolVar(&f.StrictTypes, "strict-types", false,
		"Fail when a component produces no type declarations")
}

// Bind makes the explicitly set build flags override configuration.
func (f *BuildFlags) Bind(cmd *cobra.Command, loader *config.Loader) error {
	for name, key := range flagKeys {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// ResolveDir returns the directory named by the first argument,
// defaulting to the current directory.
func ResolveDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
