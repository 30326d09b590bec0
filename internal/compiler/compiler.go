package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/output"
)

// Compiler compiles targets with a Bundler and, optionally, a declaration
// generator. It is safe for concurrent use when its Bundler is.
type Compiler struct {
	root         string
	bundler      Bundler
	declarations DeclarationGenerator
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithDeclarations sets the declaration generator used when a component
// asks for declarations.
func WithDeclarations(g DeclarationGenerator) Option {
	return func(c *Compiler) {
		c.declarations = g
	}
}

// New creates a Compiler for the workspace at root.
func New(root string, b Bundler, opts ...Option) *Compiler {
	c := &Compiler{root: root, bundler: b}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bundler returns the configured bundler.
func (c *Compiler) Bundler() Bundler {
	return c.bundler
}

// Compile builds one target. Bundles are written to a staging directory and
// moved to dist/<version> only when the bundler succeeded; on failure the
// previous dist/<version> is left untouched. Errors are *ComponentBuildError.
func (c *Compiler) Compile(ctx context.Context, t Target) (*Output, error) {
	start := time.Now()
	d := t.Component
	log := output.ComponentLogger(d.ID)

	fail := func(err error) (*Output, error) {
		return nil, &ComponentBuildError{ComponentID: d.ID, Version: t.Version, Cause: err}
	}

	if !t.Version.Valid() {
		return fail(fmt.Errorf("unsupported runtime version %d", int(t.Version)))
	}

	opts := d.Options()
	entry := filepath.Join(d.Dir(), filepath.FromSlash(opts.Entry))
	if _, err := os.Stat(entry); err != nil {
		return fail(fmt.Errorf("%w: %s", ErrEntryNotFound, entry))
	}

	dist := d.DistDir()
	_, statErr := os.Stat(dist)
	createdDist := os.IsNotExist(statErr)
	if err := os.MkdirAll(dist, 0o755); err != nil {
		return fail(fmt.Errorf("creating %s: %w", dist, err))
	}

	stage, err := os.MkdirTemp(dist, ".stage-"+t.Version.Dir()+"-")
	if err != nil {
		return fail(fmt.Errorf("creating staging directory: %w", err))
	}
	published := false
	defer func() {
		if published {
			return
		}
		_ = os.RemoveAll(stage)
		if createdDist {
			// Only succeeds when nothing else was written.
			_ = os.Remove(dist)
		}
	}()

	req := Request{
		Target:    t,
		Options:   opts,
		Root:      c.root,
		SourceDir: d.Dir(),
		Entry:     entry,
		OutDir:    stage,
	}

	log.Debug("bundling", "version", t.Version, "bundler", c.bundler.Name(), "formats", opts.Formats)
	report, err := c.bundler.Bundle(ctx, req)
	if err != nil {
		return fail(err)
	}

	if opts.DTS && c.declarations != nil {
		if err := c.declarations.Generate(ctx, req); err != nil {
			if ctx.Err() != nil {
				return fail(ctx.Err())
			}
			log.Warn("declaration generation failed", "version", t.Version, "err", err)
		}
	}

	final := t.OutDir()
	if err := os.RemoveAll(final); err != nil {
		return fail(fmt.Errorf("clearing %s: %w", final, err))
	}
	if err := os.Rename(stage, final); err != nil {
		return fail(fmt.Errorf("publishing %s: %w", final, err))
	}
	published = true

	out, err := collect(final, t, opts.Formats)
	if err != nil {
		return fail(err)
	}
	if report != nil {
		out.Externals = report.Externals
		out.Warnings = report.Warnings
	}
	out.Duration = time.Since(start)

	for _, w := range out.Warnings {
		log.Warn(w, "version", t.Version)
	}
	log.Debug("compiled", "version", t.Version, "bundles", len(out.Bundles), "duration", out.Duration.Round(time.Millisecond))
	return out, nil
}

// collect inventories a published output directory.
func collect(dir string, t Target, formats []component.Format) (*Output, error) {
	out := &Output{Target: t, Dir: dir}

	for _, f := range formats {
		p := filepath.Join(dir, f.FileName())
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("bundler produced no %s output (%s)", f, f.FileName())
		}
		out.Bundles = append(out.Bundles, Artifact{Format: f, Path: p, Size: info.Size()})
	}

	if style := filepath.Join(dir, "style.css"); fileExists(style) {
		out.Style = style
	}

	typesDir := filepath.Join(dir, "types")
	if fileExists(typesDir) {
		err := filepath.WalkDir(typesDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".d.ts") {
				out.Types = append(out.Types, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("listing declarations: %w", err)
		}
		sort.Slice(out.Types, func(i, j int) bool { return natural.Less(out.Types[i], out.Types[j]) })
	}

	return out, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
