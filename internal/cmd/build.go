package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/material-cli/material/internal/cmdutil"
	"github.com/material-cli/material/internal/config"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/pipeline"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var flags cmdutil.BuildFlags

	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build every component for Vue 2 and Vue 3",
		Long: `Build every component of the workspace for Vue 2 and Vue 3 and publish
the aggregate package.

For each component under packages/ the build:
  1. Compiles the sources twice, into dist/v2 and dist/v3
  2. Writes entry shims that pick the build matching the installed Vue
  3. Writes the published descriptor dist/component.json

The aggregate package (dist/ by default) is then written in one step: it is
replaced only when every component built.

Examples:
  # Build the workspace containing the current directory
  material build

  # Build with four compile workers
  material build --parallel 4

  # Rebuild on every change
  material build --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runBuild(c, args, &flags)
		},
	}

	flags.AddTo(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, args []string, flags *cmdutil.BuildFlags) error {
	ws, err := cmdutil.LoadWorkspace(cmdutil.WorkspaceOptions{
		Dir:        cmdutil.ResolveDir(args),
		ConfigFile: configFlag,
		Bind: func(l *config.Loader) error {
			return flags.Bind(cmd, l)
		},
	})
	if err != nil {
		return cmdutil.Fail("loading workspace", err)
	}

	c, err := cmdutil.NewCompiler(ws.Root, ws.Config)
	if err != nil {
		return cmdutil.Fail("configuring bundler", err)
	}

	opts := cmdutil.PipelineOptions(ws)
	tty := output.IsTTY()
	opts.Spinner = tty && !verboseFlag && !flags.Watch && opts.Parallel <= 1
	opts.UseColor = tty

	p, err := pipeline.New(c, opts)
	if err != nil {
		return cmdutil.Fail("preparing build", err)
	}

	output.Debug("building workspace",
		"root", ws.Root,
		"bundler", c.Bundler().Name(),
		"parallel", opts.Parallel,
		"out", p.Options().OutDir,
	)

	if flags.Watch {
		output.Info("watching for changes", "root", ws.Root)
		return p.Watch(cmd.Context(), pipeline.DefaultDebounce, func(res *pipeline.Result, err error) {
			if err != nil {
				cmdutil.PrintError("build failed", err)
				return
			}
			printBuildResult(res)
		})
	}

	res, err := p.Run(cmd.Context())
	if err != nil {
		return cmdutil.Fail("build failed", err)
	}
	printBuildResult(res)
	return nil
}

func printBuildResult(res *pipeline.Result) {
	warnings := 0
	for _, c := range res.Components {
		warnings += len(c.Warnings)
		for _, w := range c.Warnings {
			output.Debug("build warning", "component", c.Descriptor.ID, "warning", w)
		}
	}

	output.Println(pipeline.ReportTable(pipeline.BuildReport(res)).String())

	dir := res.Aggregate.Dir
	if rel, err := filepath.Rel(res.Root, dir); err == nil {
		dir = rel
	}
	msg := fmt.Sprintf("Built %d components into %s in %s",
		len(res.Components), output.StyleNoun.Render(dir), res.Duration.Round(time.Millisecond))
	if warnings > 0 {
		msg += fmt.Sprintf(" (%d warnings)", warnings)
	}
	output.Println(output.FormatCheckmark(msg))
}
