// Package config loads workspace configuration from material.yaml, MATERIAL_*
// environment variables and a workspace .env file.
package config

import (
	"github.com/material-cli/material/internal/component"
)

// Bundler kinds.
const (
	BundlerEsbuild = "esbuild"
	BundlerCommand = "command"
)

// DeclarationsNone disables declaration generation.
const DeclarationsNone = "none"

// PackagesConfig controls component discovery.
type PackagesConfig struct {
	// Pattern is the doublestar glob matching component configuration files.
	// Env: MATERIAL_PACKAGES_PATTERN
	Pattern string `mapstructure:"pattern" yaml:"pattern" json:"pattern,omitempty"`

	// Exclude lists path segments never descended into.
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude,omitempty"`
}

// BundlerConfig selects how components are compiled.
type BundlerConfig struct {
	// Kind is "esbuild" (in-process) or "command".
	// Env: MATERIAL_BUNDLER_KIND
	Kind string `mapstructure:"kind" yaml:"kind" json:"kind,omitempty"`

	// Command is run once per component and runtime version when Kind is
	// "command", for example "npx vite build".
	// Env: MATERIAL_BUNDLER_COMMAND
	Command string `mapstructure:"command" yaml:"command,omitempty" json:"command,omitempty"`

	// DTS is the declaration generator command line. "none" disables it.
	// Env: MATERIAL_BUNDLER_DTS
	DTS string `mapstructure:"dts" yaml:"dts" json:"dts,omitempty"`
}

// PackageConfig overrides fields of the generated package.json.
type PackageConfig struct {
	Name             string            `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Version          string            `mapstructure:"version" yaml:"version,omitempty" json:"version,omitempty"`
	Description      string            `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	License          string            `mapstructure:"license" yaml:"license,omitempty" json:"license,omitempty"`
	Dependencies     map[string]string `mapstructure:"dependencies" yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	PeerDependencies map[string]string `mapstructure:"peerDependencies" yaml:"peerDependencies,omitempty" json:"peerDependencies,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	// Env: MATERIAL_LOG_TIMESTAMPS
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty" json:"timestamps,omitempty"`
}

// Config is the workspace configuration.
type Config struct {
	Packages PackagesConfig `mapstructure:"packages" yaml:"packages" json:"packages"`

	// Dist is the aggregate destination, relative to the workspace root.
	// Env: MATERIAL_DIST
	Dist string `mapstructure:"dist" yaml:"dist" json:"dist,omitempty"`

	// Parallel is the number of compile workers. 1 builds sequentially.
	// Env: MATERIAL_PARALLEL
	Parallel int `mapstructure:"parallel" yaml:"parallel" json:"parallel"`

	Bundler BundlerConfig `mapstructure:"bundler" yaml:"bundler" json:"bundler"`

	// StrictDeclarations fails the build when a component has no .d.ts.
	// Env: MATERIAL_STRICT_DECLARATIONS
	StrictDeclarations bool `mapstructure:"strictDeclarations" yaml:"strictDeclarations" json:"strictDeclarations"`

	Package PackageConfig `mapstructure:"package" yaml:"package,omitempty" json:"package,omitempty"`

	Log LogConfig `mapstructure:"log" yaml:"log,omitempty" json:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `material config init` to generate the initial file.
func DefaultConfig() *Config {
	return &Config{
		Packages: PackagesConfig{
			Pattern: component.DefaultPattern,
			Exclude: append([]string(nil), component.DefaultExcludes...),
		},
		Dist:     "dist",
		Parallel: 1,
		Bundler: BundlerConfig{
			Kind: BundlerEsbuild,
			DTS:  "tsc",
		},
	}
}

// DeclarationsEnabled reports whether a declaration generator is configured.
func (c *Config) DeclarationsEnabled() bool {
	return c.Bundler.DTS != "" && c.Bundler.DTS != DeclarationsNone
}
