package cmdutil

import (
	"fmt"

	"github.com/material-cli/material/internal/aggregate"
	"github.com/material-cli/material/internal/compiler"
	"github.com/material-cli/material/internal/config"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/pipeline"
)

// NewCompiler builds the compiler selected by cfg: the in-process esbuild
// bundler or an external command, plus the declaration generator when one
// is configured.
func NewCompiler(root string, cfg *config.Config) (*compiler.Compiler, error) {
	var b compiler.Bundler
	switch cfg.Bundler.Kind {
	case "", config.BundlerEsbuild:
		b = compiler.NewEsbuildBundler()
	case config.BundlerCommand:
		cb, err := compiler.NewCommandBundler(cfg.Bundler.Command)
		if err != nil {
			return nil, &oerrors.DetailError{
				Type:    "invalid bundler",
				Message: err.Error(),
				Field:   "bundler.command",
				Hint:    `Set bundler.command, for example "npx vite build".`,
				Cause:   oerrors.ErrConfig,
			}
		}
		b = cb
	default:
		return nil, &oerrors.DetailError{
			Type:    "invalid bundler",
			Message: fmt.Sprintf("unknown bundler %q", cfg.Bundler.Kind),
			Field:   "bundler.kind",
			Hint:    fmt.Sprintf("Use %q or %q.", config.BundlerEsbuild, config.BundlerCommand),
			Cause:   oerrors.ErrConfig,
		}
	}

	var opts []compiler.Option
	if cfg.DeclarationsEnabled() {
		opts = append(opts, compiler.WithDeclarations(compiler.NewTSC(cfg.Bundler.DTS)))
	}
	return compiler.New(root, b, opts...), nil
}

// PipelineOptions maps workspace configuration onto pipeline options.
func PipelineOptions(ws *Workspace) pipeline.Options {
	cfg := ws.Config
	return pipeline.Options{
		Root:               ws.Root,
		Pattern:            cfg.Packages.Pattern,
		Excludes:           cfg.Packages.Exclude,
		OutDir:             cfg.Dist,
		Parallel:           cfg.Parallel,
		StrictDeclarations: cfg.StrictDeclarations,
		Package: aggregate.PackageOptions{
			Name:             cfg.Package.Name,
			Version:          cfg.Package.Version,
			Description:      cfg.Package.Description,
			License:          cfg.Package.License,
			Dependencies:     cfg.Package.Dependencies,
			PeerDependencies: cfg.Package.PeerDependencies,
		},
	}
}
