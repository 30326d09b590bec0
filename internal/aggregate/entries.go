package aggregate

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var tmpl = template.Must(template.New("aggregate").ParseFS(templatesFS, "templates/*.tmpl"))

// entryFiles maps generated file names to their templates.
var entryFiles = []struct {
	name     string
	template string
}{
	{"index.js", "index.js.tmpl"},
	{"index.mjs", "index.mjs.tmpl"},
	{"index.d.ts", "index.d.ts.tmpl"},
	{"style.js", "style.js.tmpl"},
}

// entryData is one component as the entry templates see it.
type entryData struct {
	ExportName string

	// Dir is components/<key>, slash separated.
	Dir string
}

func writeEntries(dir string, comps []entryData) ([]string, error) {
	written := make([]string, 0, len(entryFiles))
	for _, f := range entryFiles {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, f.template, comps); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", f.name, err)
		}
		out := bytes.TrimLeft(buf.Bytes(), "\n")
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), out, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.name, err)
		}
		written = append(written, f.name)
	}
	return written, nil
}
