// Package compiler builds one component against one runtime version.
package compiler

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/runtime"
)

// Target is one (component, runtime version) pair.
type Target struct {
	Component *component.Descriptor
	Version   runtime.Version
}

// OutDir is dist/<version> under the component directory.
func (t Target) OutDir() string {
	return filepath.Join(t.Component.DistDir(), t.Version.Dir())
}

// String returns "<id>@<version>".
func (t Target) String() string {
	return fmt.Sprintf("%s@%s", t.Component.ID, t.Version)
}

// Request is what a Bundler receives for one target.
type Request struct {
	Target Target

	// Options are the component build options with defaults applied.
	Options component.Resolved

	// Root is the workspace root (where node_modules lives).
	Root string

	// SourceDir is the component directory.
	SourceDir string

	// Entry is the absolute entry module path.
	Entry string

	// OutDir is the staging directory the bundler must write into.
	OutDir string
}

// Report carries what a bundler learned while building.
type Report struct {
	// Externals are the import paths left unbundled, deduplicated.
	Externals []string

	// Warnings are non-fatal bundler diagnostics.
	Warnings []string
}

// Artifact is one bundle file of a compiled output.
type Artifact struct {
	Format component.Format
	Path   string
	Size   int64
}

// Output is the artifact set of one compiled target. It is not modified
// after Compile returns.
type Output struct {
	Target Target

	// Dir is the published output directory (dist/v2 or dist/v3).
	Dir string

	// Bundles are ordered as the formats were requested.
	Bundles []Artifact

	// Style is the stylesheet path, empty when none was produced.
	Style string

	// Types are declaration files under Dir/types, in natural order.
	Types []string

	Externals []string
	Warnings  []string
	Duration  time.Duration
}

// Bundle returns the artifact for format f.
func (o *Output) Bundle(f component.Format) (Artifact, bool) {
	for _, a := range o.Bundles {
		if a.Format == f {
			return a, true
		}
	}
	return Artifact{}, false
}
