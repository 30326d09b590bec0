// Package testutil provides helpers for building throwaway workspaces in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file with the given content under dir, creating parent
// directories as needed, and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of a file or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Workspace creates a temporary workspace root with a package.json.
func Workspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "package.json", `{
  "name": "demo-lib",
  "version": "1.2.3",
  "description": "Demo component library",
  "private": true
}
`)
	return root
}

// Component describes a fixture component written by AddComponent.
type Component struct {
	// Dir is the directory name under packages/.
	Dir string

	// ID and Name populate the configuration.
	ID   string
	Name string

	// Build is an optional JSON object literal for the "build" key.
	Build string

	// Source overrides the generated src/index.ts.
	Source string

	// NoStyle omits the stylesheet import.
	NoStyle bool
}

// AddComponent writes packages/<Dir>/material.config.json and a small
// TypeScript entry that esbuild can bundle. It returns the configuration path.
func AddComponent(t *testing.T, root string, c Component) string {
	t.Helper()
	if c.Dir == "" {
		c.Dir = c.Name
	}

	build := c.Build
	if build == "" {
		build = `{"formats": ["es", "cjs"], "dts": false, "sourcemap": false}`
	}

	cfg := fmt.Sprintf(`{
  "id": %q,
  "name": %q,
  "title": %q,
  "category": "basic",
  "version": "1.0.0",
  "keywords": [%q],
  "props": [{"name": "disabled", "defaultValue": false}],
  "build": %s
}
`, c.ID, c.Name, c.Name, c.ID, build)

	src := c.Source
	if src == "" {
		src = ComponentSource(c.Name, !c.NoStyle)
	}

	pkg := filepath.Join("packages", c.Dir)
	WriteFile(t, root, filepath.Join(pkg, "src", "index.ts"), src)
	if !c.NoStyle && c.Source == "" {
		WriteFile(t, root, filepath.Join(pkg, "src", "style.css"), fmt.Sprintf(".m-%s { color: red; }\n", c.ID))
	}
	return WriteFile(t, root, filepath.Join(pkg, "material.config.json"), cfg)
}

// ComponentSource returns a TypeScript entry exporting a component named name
// with an install function.
func ComponentSource(name string, withStyle bool) string {
	style := ""
	if withStyle {
		style = "import './style.css'\n"
	}
	return fmt.Sprintf(`import { defineComponent, h } from 'vue'
%s
export const %[2]s = defineComponent({
  name: '%[2]s',
  setup() {
    return () => h('div', { class: 'm-%[2]s' })
  },
}) as any

%[2]s.install = (app: any) => {
  app.component('%[2]s', %[2]s)
}

export default %[2]s
`, style, name)
}
