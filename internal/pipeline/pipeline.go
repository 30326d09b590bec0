// Package pipeline discovers, compiles and aggregates every component of a
// workspace.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/material-cli/material/internal/aggregate"
	"github.com/material-cli/material/internal/compiler"
	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/manifest"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/runtime"
	"github.com/material-cli/material/internal/shim"
)

// DefaultOutDir is the aggregate destination relative to the workspace root.
const DefaultOutDir = "dist"

// Options configures a pipeline run.
type Options struct {
	// Root is the workspace root.
	Root string

	// Pattern and Excludes override the discovery defaults.
	Pattern  string
	Excludes []string

	// OutDir is the aggregate destination. Relative paths are resolved
	// against Root.
	OutDir string

	// Parallel <= 1 builds one component at a time, V2 before V3.
	// Larger values run that many compile workers.
	Parallel int

	StrictDeclarations bool

	// Repository overrides the metadata read from package.json.
	Repository manifest.Repository

	Package aggregate.PackageOptions

	// Spinner shows a spinner around each compile in sequential mode.
	Spinner bool

	// UseColor colors the package.json diff.
	UseColor bool
}

// ComponentResult is the outcome of one component's phase.
type ComponentResult struct {
	Descriptor *component.Descriptor
	Outputs    map[runtime.Version]*compiler.Output
	Shim       *shim.Result

	// DescriptorPath is empty when the descriptor could not be written.
	DescriptorPath string

	Warnings []string
}

// Result is the outcome of a successful run.
type Result struct {
	Root       string
	Components []*ComponentResult
	Aggregate  *aggregate.Result
	IndexPath  string
	Duration   time.Duration
}

// Pipeline runs builds for one workspace.
type Pipeline struct {
	opts     Options
	compiler *compiler.Compiler
	loader   *component.Loader
}

// New creates a Pipeline.
func New(c *compiler.Compiler, opts Options) (*Pipeline, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("pipeline: no workspace root")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	opts.Root = root

	if opts.OutDir == "" {
		opts.OutDir = DefaultOutDir
	}
	if !filepath.IsAbs(opts.OutDir) {
		opts.OutDir = filepath.Join(root, opts.OutDir)
	}

	loader, err := component.NewLoader()
	if err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts, compiler: c, loader: loader}, nil
}

// Options returns the resolved options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run executes one build.
//
// Phase sequence:
//  1. DISCOVER:  component.Discover() → config paths
//  2. LOAD:      Loader.LoadAll() → descriptors; component.CheckUnique()
//  3. BUILD:     per component, V2 and V3 compiles, then shim + descriptor
//  4. INDEX:     manifest.ReadRepository() → index metadata
//  5. AGGREGATE: aggregate.Aggregate() → <out>/, material.manifest.json included
//
// The aggregate is published as a whole, so any error leaves the destination
// as it was.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	// Phase 1: DISCOVER
	paths, err := component.Discover(p.opts.Root, component.DiscoverOptions{
		Pattern:  p.opts.Pattern,
		Excludes: p.opts.Excludes,
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoComponents
	}
	output.Debug("discovered components", "count", len(paths))

	// Phase 2: LOAD
	descs, err := p.loader.LoadAll(paths)
	if err != nil {
		return nil, err
	}
	if err := component.CheckUnique(descs); err != nil {
		return nil, err
	}

	// Phase 3: BUILD
	var comps []*ComponentResult
	if p.opts.Parallel > 1 {
		comps, err = p.buildParallel(ctx, descs)
	} else {
		comps, err = p.buildSequential(ctx, descs)
	}
	if err != nil {
		return nil, err
	}

	// Phase 4: INDEX
	repo, err := manifest.ReadRepository(p.opts.Root, p.opts.Repository)
	if err != nil {
		return nil, err
	}
	prevDigest := manifest.ReadDigest(filepath.Join(p.opts.OutDir, manifest.IndexFile))

	// Phase 5: AGGREGATE
	entries := make([]aggregate.Entry, len(descs))
	for i, d := range descs {
		entries[i] = aggregate.Entry{Descriptor: d}
	}
	agg, err := aggregate.New(aggregate.Options{
		OutDir:     p.opts.OutDir,
		Package:    p.packageOptions(),
		Repository: &repo,
		UseColor:   p.opts.UseColor,
	}).Aggregate(ctx, entries)
	if err != nil {
		return nil, err
	}
	if agg.PackageDiff != "" {
		output.Debug("package.json changed")
		output.Details(agg.PackageDiff)
	}
	indexPath := agg.IndexPath
	if digest := manifest.ReadDigest(indexPath); digest != "" && digest == prevDigest {
		output.Debug("catalog unchanged", "digest", digest)
	}

	return &Result{
		Root:       p.opts.Root,
		Components: comps,
		Aggregate:  agg,
		IndexPath:  indexPath,
		Duration:   time.Since(start),
	}, nil
}

// packageOptions fills unset package.json metadata from the repository.
func (p *Pipeline) packageOptions() aggregate.PackageOptions {
	opts := p.opts.Package
	if opts.Name != "" && opts.Version != "" {
		return opts
	}
	repo, err := manifest.ReadRepository(p.opts.Root, p.opts.Repository)
	if err != nil {
		return opts
	}
	if opts.Name == "" {
		opts.Name = repo.Name
	}
	if opts.Version == "" {
		opts.Version = repo.Version
	}
	if opts.Description == "" {
		opts.Description = repo.Description
	}
	return opts
}

// compile runs one target, behind a spinner when enabled.
func (p *Pipeline) compile(ctx context.Context, t compiler.Target) (*compiler.Output, error) {
	if !p.opts.Spinner {
		return p.compiler.Compile(ctx, t)
	}
	var out *compiler.Output
	title := fmt.Sprintf("Building %s for Vue %d", t.Component.ID, int(t.Version))
	err := output.RunStep(ctx, title, func(ctx context.Context) error {
		var err error
		out, err = p.compiler.Compile(ctx, t)
		return err
	})
	return out, err
}

// finish runs the per-component phase once both targets compiled: entry
// shims, then the descriptor. A descriptor write failure is a warning.
func (p *Pipeline) finish(d *component.Descriptor, outs map[runtime.Version]*compiler.Output) (*ComponentResult, error) {
	log := output.ComponentLogger(d.ID)
	res := &ComponentResult{Descriptor: d, Outputs: outs}

	sr, err := shim.Synthesize(d.DistDir(), shim.Options{
		Component:          d,
		StrictDeclarations: p.opts.StrictDeclarations,
	})
	if err != nil {
		var cbe *compiler.ComponentBuildError
		if errors.As(err, &cbe) {
			return nil, err
		}
		return nil, &EntryPointError{ComponentID: d.ID, Cause: err}
	}
	res.Shim = sr
	if sr.TypesSource == shim.TypesSynthesized {
		log.Warn("no declarations found, wrote a permissive index.d.ts")
		res.Warnings = append(res.Warnings, "declarations synthesized")
	}

	path, err := manifest.WriteDescriptor(d.DistDir(), d)
	if err != nil {
		log.Warn("descriptor not written", "err", err)
		res.Warnings = append(res.Warnings, err.Error())
	} else {
		res.DescriptorPath = path
	}

	for _, v := range runtime.All() {
		for _, w := range outs[v].Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", v, w))
		}
	}

	output.Info(output.FormatComponentLine(d.ID, d.Version, output.StatusBuilt))
	return res, nil
}
