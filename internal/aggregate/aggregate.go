// Package aggregate assembles every component's compiled output into one
// distributable package.
package aggregate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/fsutil"
	"github.com/material-cli/material/internal/manifest"
	"github.com/material-cli/material/internal/output"
	"github.com/material-cli/material/internal/runtime"
)

// ComponentsDir is the sub-directory holding one directory per component.
const ComponentsDir = "components"

// Entry is one component to aggregate.
type Entry struct {
	Descriptor *component.Descriptor

	// Dist overrides the component's output directory.
	Dist string
}

func (e Entry) dist() string {
	if e.Dist != "" {
		return e.Dist
	}
	return e.Descriptor.DistDir()
}

// Options configures an Aggregator.
type Options struct {
	// OutDir is the destination directory. It is replaced on success.
	OutDir string

	Package PackageOptions

	// Repository, when set, heads an index manifest written into the
	// package before it is published.
	Repository *manifest.Repository

	// UseColor enables colored package.json diffs.
	UseColor bool
}

// Result describes a published aggregate.
type Result struct {
	Dir string

	// Components lists the component directory names in order.
	Components []string

	// Files lists the generated top-level files.
	Files []string

	Package *PackageJSON

	// IndexPath is the published index manifest, if one was written.
	IndexPath string

	// PackageDiff is the rendered change against the previously published
	// package.json. Empty when nothing changed.
	PackageDiff string
}

// Aggregator builds the aggregate package.
type Aggregator struct {
	opts Options
}

// New creates an Aggregator.
func New(opts Options) *Aggregator {
	return &Aggregator{opts: opts}
}

// Aggregate stages the package, index manifest included, next to the
// destination and replaces the destination with it once every step
// succeeded. On failure the staging
// directory is removed and the destination is left as it was.
func (a *Aggregator) Aggregate(ctx context.Context, entries []Entry) (*Result, error) {
	if a.opts.OutDir == "" {
		return nil, fmt.Errorf("aggregate: no output directory")
	}

	descs := make([]*component.Descriptor, len(entries))
	for i, e := range entries {
		descs[i] = e.Descriptor
	}
	if err := component.CheckUnique(descs); err != nil {
		return nil, err
	}

	out, err := filepath.Abs(a.opts.OutDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, fmt.Errorf("creating output parent: %w", err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(out), "."+filepath.Base(out)+".staging-")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	published := false
	defer func() {
		if !published {
			os.RemoveAll(staging)
		}
	}()

	result, err := a.stage(ctx, staging, entries)
	if err != nil {
		return nil, err
	}

	previous, _ := os.ReadFile(filepath.Join(out, "package.json"))
	current, err := os.ReadFile(filepath.Join(staging, "package.json"))
	if err != nil {
		return nil, err
	}
	diff, err := Diff(previous, current, a.opts.UseColor)
	if err != nil {
		output.Debug("package.json diff failed", "err", err)
	}
	result.PackageDiff = diff

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := publish(staging, out); err != nil {
		return nil, fmt.Errorf("publishing %s: %w", out, err)
	}
	published = true

	result.Dir = out
	if a.opts.Repository != nil {
		result.IndexPath = filepath.Join(out, manifest.IndexFile)
	}
	return result, nil
}

func (a *Aggregator) stage(ctx context.Context, dir string, entries []Entry) (*Result, error) {
	result := &Result{}
	comps := make([]entryData, 0, len(entries))

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := e.Descriptor.Key()
		src := e.dist()
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("component %s: no compiled output at %s", e.Descriptor.ID, src)
		}

		dst := filepath.Join(dir, ComponentsDir, key)
		if err := copyTree(src, dst); err != nil {
			return nil, fmt.Errorf("copying component %s: %w", e.Descriptor.ID, err)
		}
		output.ComponentLogger(e.Descriptor.ID).Debug("copied output", "from", src)

		comps = append(comps, entryData{
			ExportName: e.Descriptor.ExportName(),
			Dir:        path.Join(ComponentsDir, key),
		})
		result.Components = append(result.Components, key)
	}

	files, err := writeEntries(dir, comps)
	if err != nil {
		return nil, err
	}

	pkg := NewPackageJSON(a.opts.Package, comps)
	data, err := pkg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding package.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing package.json: %w", err)
	}

	files = append(files, "package.json")

	if a.opts.Repository != nil {
		descs := make([]*component.Descriptor, len(entries))
		for i, e := range entries {
			descs[i] = e.Descriptor
		}
		if err := manifest.WriteIndex(filepath.Join(dir, manifest.IndexFile), *a.opts.Repository, descs); err != nil {
			return nil, err
		}
		files = append(files, manifest.IndexFile)
	}

	result.Files = files
	result.Package = pkg
	return result, nil
}

// publish moves staging to out, keeping the previous out until the rename
// succeeded.
func publish(staging, out string) error {
	backup := ""
	if _, err := os.Stat(out); err == nil {
		backup = staging + ".prev"
		if err := os.Rename(out, backup); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.Rename(staging, out); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, out); rerr != nil {
				output.Warn("could not restore previous output", "path", out, "backup", backup, "err", rerr)
			}
		}
		return err
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			output.Warn("could not remove previous output", "path", backup, "err", err)
		}
	}
	return nil
}

// skip reports whether a path relative to a component's dist is left out of
// the aggregate: per-version declarations, build configs and compiler
// staging directories.
func skip(rel string, d fs.DirEntry) bool {
	rel = filepath.ToSlash(rel)
	if d.IsDir() {
		for _, v := range runtime.All() {
			if rel == v.Dir()+"/types" {
				return true
			}
		}
		return strings.HasPrefix(d.Name(), ".stage-")
	}
	return strings.HasPrefix(d.Name(), "material.config.")
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if rel != "." && skip(rel, d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fsutil.CopyFile(p, target)
	})
}
