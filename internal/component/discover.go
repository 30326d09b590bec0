package component

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches component configuration files under packages/.
const DefaultPattern = "packages/**/material.config.{cue,json,yaml,yml,ts,js,mjs}"

// DefaultExcludes are path segments never descended into.
var DefaultExcludes = []string{"node_modules", "dist"}

// extPreference orders configuration formats when one directory holds several.
var extPreference = []string{".cue", ".json", ".yaml", ".yml", ".ts", ".mjs", ".js"}

// DiscoverOptions configures Discover.
type DiscoverOptions struct {
	// Pattern is a doublestar glob relative to the root. Empty means DefaultPattern.
	Pattern string

	// Excludes are path segments that disqualify a match. nil means DefaultExcludes.
	Excludes []string
}

// Discover returns absolute paths of the component configuration files under
// root. At most one file per directory is returned.
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid discovery pattern %q", pattern)
	}
	excludes := opts.Excludes
	if excludes == nil {
		excludes = DefaultExcludes
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	matches, err := doublestar.Glob(os.DirFS(abs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", abs, err)
	}

	// Pick one configuration per directory, keeping first-seen order.
	var dirs []string
	byDir := make(map[string]string)
	for _, m := range matches {
		if excluded(m, excludes) {
			continue
		}
		dir := path.Dir(m)
		prev, ok := byDir[dir]
		if !ok {
			dirs = append(dirs, dir)
			byDir[dir] = m
			continue
		}
		if rank(m) < rank(prev) {
			byDir[dir] = m
		}
	}

	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, filepath.Join(abs, filepath.FromSlash(byDir[dir])))
	}
	return out, nil
}

func excluded(slashPath string, excludes []string) bool {
	for _, seg := range strings.Split(slashPath, "/") {
		for _, ex := range excludes {
			if seg == ex {
				return true
			}
		}
	}
	return false
}

func rank(p string) int {
	ext := strings.ToLower(path.Ext(p))
	for i, e := range extPreference {
		if e == ext {
			return i
		}
	}
	return len(extPreference)
}
