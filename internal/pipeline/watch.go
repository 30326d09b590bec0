package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/material-cli/material/internal/output"
)

// DefaultDebounce is how long Watch waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// skipDirs are never watched and never trigger a rebuild.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	"dist":         {},
	".git":         {},
}

// Watch runs the pipeline once, then again each time files under the
// workspace change and stay quiet for debounce. onRun receives every
// outcome. Watch returns when ctx is done.
func (p *Pipeline) Watch(ctx context.Context, debounce time.Duration, onRun func(*Result, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := p.watchDirs(watcher, p.opts.Root); err != nil {
		return err
	}

	run := func() {
		res, err := p.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		onRun(res, err)
	}
	run()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if p.ignored(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := p.watchDirs(watcher, ev.Name); err != nil {
						output.Warn("cannot watch directory", "path", ev.Name, "err", err)
					}
				}
			}
			if !isWatchEvent(ev.Op) {
				continue
			}
			output.Debug("change detected", "path", p.rel(ev.Name), "op", ev.Op.String())
			fire = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			output.Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			output.Info("rebuilding")
			run()
		}
	}
}

func (p *Pipeline) watchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			output.Debug("cannot access path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != p.opts.Root && p.ignored(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// ignored reports whether a path under the workspace is build output or
// otherwise not a source: anything below a skipped or hidden directory, or
// below the aggregate destination.
func (p *Pipeline) ignored(path string) bool {
	if p.opts.OutDir != "" && (path == p.opts.OutDir || strings.HasPrefix(path, p.opts.OutDir+string(filepath.Separator))) {
		return true
	}
	rel := p.rel(path)
	if rel == "." {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := skipDirs[seg]; ok {
			return true
		}
		if strings.HasPrefix(seg, ".") && seg != ".." && seg != ".env" {
			return true
		}
	}
	return false
}

func (p *Pipeline) rel(path string) string {
	rel, err := filepath.Rel(p.opts.Root, path)
	if err != nil {
		return path
	}
	return rel
}

func isWatchEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
