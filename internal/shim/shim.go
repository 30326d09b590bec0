// Package shim writes the runtime-detecting entry points of a component:
// CommonJS and ES module shims that defer to dist/v2 or dist/v3, plus the
// hoisted stylesheet and declarations.
package shim

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/material-cli/material/internal/compiler"
	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/fsutil"
	"github.com/material-cli/material/internal/runtime"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var tmpl = template.Must(template.New("shim").ParseFS(templatesFS, "templates/*.tmpl"))

// ErrNoDeclarations is the cause reported in strict mode when no
// declaration file was produced.
var ErrNoDeclarations = errors.New("no declaration files were produced")

// Where the hoisted declarations came from.
const (
	TypesCopied      = "copied"
	TypesFallback    = "fallback"
	TypesSynthesized = "synthesized"
)

// Options configures Synthesize.
type Options struct {
	Component *component.Descriptor

	// StrictDeclarations turns missing declarations into a build error.
	StrictDeclarations bool
}

// Result lists the files Synthesize wrote.
type Result struct {
	CJS   string
	ESM   string
	Style string

	// TypesDir holds at least index.d.ts.
	TypesDir string

	// TypesSource is one of TypesCopied, TypesFallback or TypesSynthesized.
	TypesSource string

	// StyleFrom is the version whose stylesheet was hoisted, zero when empty.
	StyleFrom runtime.Version
}

// Resolve returns the module specifier, relative to the component dist, that
// the generated shims load for version v and format f. The templates use it
// for both branches, so it is the single description of the branch logic.
func Resolve(v runtime.Version, f component.Format) string {
	return "./" + v.Dir() + "/" + f.FileName()
}

// ResolveStyle returns the stylesheet specifier for version v.
func ResolveStyle(v runtime.Version) string {
	return "./" + v.Dir() + "/style.css"
}

type branch struct {
	CJS   string
	ESM   string
	Style string
}

type shimData struct {
	ID         string
	ExportName string
	Detector   string
	V2         branch
	V3         branch
}

// Synthesize writes index.js, index.mjs, style.css and types/ into dir, the
// component's dist directory, which must already hold v2/ and v3/.
func Synthesize(dir string, opts Options) (*Result, error) {
	d := opts.Component
	res := &Result{
		CJS:      filepath.Join(dir, "index.js"),
		ESM:      filepath.Join(dir, "index.mjs"),
		Style:    filepath.Join(dir, "style.css"),
		TypesDir: filepath.Join(dir, "types"),
	}

	data := shimData{
		ID:         d.ID,
		ExportName: d.ExportName(),
		Detector:   runtime.DetectorModule,
		V2:         branchFor(dir, runtime.V2),
		V3:         branchFor(dir, runtime.V3),
	}
	if data.V2.ESM == "" || data.V3.ESM == "" {
		return nil, fmt.Errorf("%s: missing ES or CommonJS bundle under %s", d.ID, dir)
	}

	if err := render(res.CJS, "index.js.tmpl", data); err != nil {
		return nil, err
	}
	if err := render(res.ESM, "index.mjs.tmpl", data); err != nil {
		return nil, err
	}

	from, err := hoistStyle(dir, res.Style)
	if err != nil {
		return nil, err
	}
	res.StyleFrom = from

	src, err := hoistTypes(dir, res.TypesDir)
	if err != nil {
		return nil, err
	}
	if src == "" {
		if opts.StrictDeclarations {
			return nil, &compiler.ComponentBuildError{ComponentID: d.ID, Version: runtime.V3, Cause: ErrNoDeclarations}
		}
		if err := os.MkdirAll(res.TypesDir, 0o755); err != nil {
			return nil, err
		}
		if err := render(filepath.Join(res.TypesDir, "index.d.ts"), "index.d.ts.tmpl", data); err != nil {
			return nil, err
		}
		src = TypesSynthesized
	}
	res.TypesSource = src

	if err := ensureTypesIndex(res.TypesDir); err != nil {
		return nil, err
	}
	return res, nil
}

// branchFor describes what one version's subtree offers. The ESM branch
// falls back to the CommonJS bundle when no ES bundle was built.
func branchFor(dir string, v runtime.Version) branch {
	var b branch
	if exists(filepath.Join(dir, v.Dir(), component.FormatCJS.FileName())) {
		b.CJS = Resolve(v, component.FormatCJS)
	}
	switch {
	case exists(filepath.Join(dir, v.Dir(), component.FormatES.FileName())):
		b.ESM = Resolve(v, component.FormatES)
	case b.CJS != "":
		b.ESM = b.CJS
	}
	if exists(filepath.Join(dir, v.Dir(), "style.css")) {
		b.Style = ResolveStyle(v)
	}
	return b
}

func render(path, name string, data shimData) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// hoistStyle copies v3/style.css, else v2/style.css, to dst. With neither it
// writes an empty file so style imports never dangle.
func hoistStyle(dir, dst string) (runtime.Version, error) {
	for _, v := range []runtime.Version{runtime.V3, runtime.V2} {
		src := filepath.Join(dir, v.Dir(), "style.css")
		if exists(src) {
			return v, fsutil.CopyFile(src, dst)
		}
	}
	return 0, os.WriteFile(dst, nil, 0o644)
}

// hoistTypes fills dst from v3/types. Failing that, it collects every .d.ts
// under v3/ then v2/. It returns "" when nothing was found.
func hoistTypes(dir, dst string) (string, error) {
	if err := os.RemoveAll(dst); err != nil {
		return "", err
	}

	primary := filepath.Join(dir, runtime.V3.Dir(), "types")
	if n, err := copyDeclarations(primary, dst); err != nil {
		return "", err
	} else if n > 0 {
		return TypesCopied, nil
	}

	for _, v := range []runtime.Version{runtime.V3, runtime.V2} {
		n, err := copyDeclarations(filepath.Join(dir, v.Dir()), dst)
		if err != nil {
			return "", err
		}
		if n > 0 {
			return TypesFallback, nil
		}
	}
	return "", nil
}

// copyDeclarations copies *.d.ts under src to dst, stripping a leading
// "types/" so fallback files land where primary ones would.
func copyDeclarations(src, dst string) (int, error) {
	if !exists(src) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".d.ts") {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		rel = strings.TrimPrefix(rel, "types"+string(filepath.Separator))
		target := filepath.Join(dst, rel)
		if exists(target) {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		n++
		return fsutil.CopyFile(p, target)
	})
	return n, err
}

// ensureTypesIndex writes an index.d.ts re-exporting the first top-level
// declaration when none exists.
func ensureTypesIndex(dir string) error {
	index := filepath.Join(dir, "index.d.ts")
	if exists(index) {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var lines []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".d.ts") {
			continue
		}
		mod := strings.TrimSuffix(e.Name(), ".d.ts")
		lines = append(lines, fmt.Sprintf("export * from './%s'", mod))
	}
	return os.WriteFile(index, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
