package cmdutil

import (
	"errors"
	"fmt"

	"github.com/material-cli/material/internal/config"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/output"
)

// Workspace is a loaded, validated workspace.
type Workspace struct {
	Root   string
	Config *config.Config
	Loader *config.Loader
}

// WorkspaceOptions configures LoadWorkspace.
type WorkspaceOptions struct {
	// Dir is where the root search starts.
	Dir string

	// ConfigFile overrides root/material.yaml.
	ConfigFile string

	// Bind registers flag overrides on the loader before loading.
	Bind func(*config.Loader) error
}

// LoadWorkspace finds the workspace root above opts.Dir, loads its
// configuration with env and flag overrides, and validates the result.
func LoadWorkspace(opts WorkspaceOptions) (*Workspace, error) {
	root, err := config.FindRoot(opts.Dir)
	if err != nil {
		if errors.Is(err, config.ErrNoWorkspace) {
			return nil, &oerrors.DetailError{
				Type:     "no workspace",
				Message:  fmt.Sprintf("no material.yaml or package.json with a packages/ directory above %s", opts.Dir),
				Location: opts.Dir,
				Hint:     "Run 'material init' to create a workspace.",
				Cause:    oerrors.ErrConfig,
			}
		}
		return nil, err
	}

	loader := config.NewLoader()
	if opts.Bind != nil {
		if err := opts.Bind(loader); err != nil {
			return nil, err
		}
	}

	cfg, err := loader.Load(root, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	v, err := config.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(cfg); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid configuration",
			Message:  err.Error(),
			Location: loader.Path(),
			Hint:     "Run 'material config vet' for details.",
			Cause:    oerrors.ErrConfig,
		}
	}

	output.Debug("workspace loaded",
		"root", root,
		"config", loader.Path(),
		"found", loader.FileExists(),
		"dotenv", len(loader.DotEnv()),
	)
	config.LogResolvedValues(loader.ResolveAll())

	return &Workspace{Root: root, Config: cfg, Loader: loader}, nil
}
