// Package templates provides the embedded scaffolding trees for new
// workspaces and components.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/maruel/natural"

	"github.com/material-cli/material/internal/component"
)

//go:embed all:component all:project
var templateFS embed.FS

// Kind selects a template tree.
type Kind string

const (
	// Component is a single component under packages/<Name>.
	Component Kind = "component"

	// Project is a complete workspace with playgrounds for both runtimes.
	Project Kind = "project"
)

// namePlaceholder in a template path is replaced by Data.ID.
const namePlaceholder = "__name__"

// renamed maps template file names that cannot be embedded under their
// final name.
var renamed = map[string]string{
	"gitignore": ".gitignore",
}

// Template describes one template tree.
type Template struct {
	Kind        Kind
	Description string
}

var registry = []Template{
	{Kind: Component, Description: "Component package with configuration, source, styles and tests"},
	{Kind: Project, Description: "Workspace with shared utilities and Vue 2/Vue 3 playgrounds"},
}

// List returns every available template.
func List() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

// Get returns the template of the given kind.
func Get(kind Kind) (Template, error) {
	for _, t := range registry {
		if t.Kind == kind {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown template %q; valid templates: %s, %s", kind, Component, Project)
}

// Data is passed to every template file.
type Data struct {
	// Name is the name as given by the user.
	Name string

	// PascalName is Name in PascalCase (e.g. "DatePicker").
	PascalName string

	// ID is the kebab-case identifier (e.g. "date-picker").
	ID string

	// Version is the initial version.
	Version string
}

// NewData derives template data from a user supplied name.
func NewData(name string) (Data, error) {
	if err := ValidateName(name); err != nil {
		return Data{}, err
	}
	pascal := component.PascalCase(name)
	return Data{
		Name:       name,
		PascalName: pascal,
		ID:         KebabCase(pascal),
		Version:    "0.1.0",
	}, nil
}

// Render writes the template tree of kind into targetDir and returns the
// created paths relative to targetDir. Existing files are overwritten; use
// CheckTarget first to refuse non-empty directories.
func Render(kind Kind, targetDir string, data Data) ([]string, error) {
	if _, err := Get(kind); err != nil {
		return nil, err
	}
	root := string(kind)

	var created []string
	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := targetPath(strings.TrimPrefix(p, root+"/"), data)
		dest := filepath.Join(targetDir, filepath.FromSlash(rel))

		content, err := fs.ReadFile(templateFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		tmpl, err := template.New(path.Base(p)).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", p, err)
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", dest, err)
		}
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("creating file %s: %w", dest, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("executing template %s: %w", p, err)
		}

		created = append(created, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Sort(natural.StringSlice(created))
	return created, nil
}

// Files lists the paths Render would create for kind, without writing.
func Files(kind Kind, data Data) ([]string, error) {
	if _, err := Get(kind); err != nil {
		return nil, err
	}
	root := string(kind)

	var files []string
	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, targetPath(strings.TrimPrefix(p, root+"/"), data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing template %s: %w", kind, err)
	}
	sort.Sort(natural.StringSlice(files))
	return files, nil
}

func targetPath(rel string, data Data) string {
	rel = strings.TrimSuffix(rel, ".tmpl")
	rel = strings.ReplaceAll(rel, namePlaceholder, data.ID)
	dir, base := path.Split(rel)
	if name, ok := renamed[base]; ok {
		base = name
	}
	return dir + base
}

// CheckTarget fails if dir exists and is not an empty directory, unless
// force is set.
func CheckTarget(dir string, force bool) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading target directory: %w", err)
	}
	if len(entries) > 0 && !force {
		return fmt.Errorf("directory %s is not empty; use --force to overwrite existing files", dir)
	}
	return nil
}
