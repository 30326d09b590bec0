// Package component discovers component configuration files in a workspace
// and loads them into descriptors.
package component

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Default build settings applied when a configuration leaves them unset.
var (
	DefaultTargets = []string{"es2015"}
	DefaultFormats = []Format{FormatES, FormatCJS, FormatUMD}
)

// DefaultEntry is the component entry module relative to its directory.
const DefaultEntry = "src/index.ts"

// Format is a bundle output format.
type Format string

const (
	FormatES  Format = "es"
	FormatCJS Format = "cjs"
	FormatUMD Format = "umd"
)

// FileName returns the bundle file name for the format.
func (f Format) FileName() string {
	switch f {
	case FormatES:
		return "index.mjs"
	case FormatUMD:
		return "index.umd.js"
	default:
		return "index.js"
	}
}

// BuildOptions is the build sub-object of a component configuration.
// Pointer fields distinguish "unset" from an explicit false.
type BuildOptions struct {
	Target     []string `json:"target,omitempty"`
	Formats    []Format `json:"formats,omitempty"`
	CSS        *bool    `json:"css,omitempty"`
	DTS        *bool    `json:"dts,omitempty"`
	Sourcemap  *bool    `json:"sourcemap,omitempty"`
	Entry      string   `json:"entry,omitempty"`
	GlobalName string   `json:"globalName,omitempty"`
	Externals  []string `json:"externals,omitempty"`
}

// Resolved is BuildOptions with every default applied.
type Resolved struct {
	Target     []string
	Formats    []Format
	CSS        bool
	DTS        bool
	Sourcemap  bool
	Entry      string
	GlobalName string
	Externals  []string
}

// Descriptor is one component's configuration.
//
// The typed fields cover what the build reads. Raw holds the complete
// configuration as JSON, unknown fields included, and is what gets published.
type Descriptor struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Title         string        `json:"title,omitempty"`
	Description   string        `json:"description,omitempty"`
	Category      string        `json:"category,omitempty"`
	Group         string        `json:"group,omitempty"`
	Status        string        `json:"status,omitempty"`
	ComponentName string        `json:"componentName,omitempty"`
	Version       string        `json:"version,omitempty"`
	Package       string        `json:"package,omitempty"`
	DocURL        string        `json:"docUrl,omitempty"`
	Screenshot    string        `json:"screenshot,omitempty"`
	Icon          string        `json:"icon,omitempty"`
	Priority      float64       `json:"priority,omitempty"`
	Keywords      []string      `json:"keywords,omitempty"`
	Build         *BuildOptions `json:"build,omitempty"`

	// Raw is the full configuration document.
	Raw json.RawMessage `json:"-"`

	// ConfigPath is the absolute path of the configuration file.
	ConfigPath string `json:"-"`
}

// Dir is the component root: the directory holding the configuration file.
func (d *Descriptor) Dir() string {
	return filepath.Dir(d.ConfigPath)
}

// DistDir is the component's output directory.
func (d *Descriptor) DistDir() string {
	return filepath.Join(d.Dir(), "dist")
}

// Key is the lowercased id used for aggregate paths and export keys.
func (d *Descriptor) Key() string {
	return strings.ToLower(d.ID)
}

// ExportName is the identifier the component is re-exported under.
// componentName wins; otherwise name is converted to PascalCase.
func (d *Descriptor) ExportName() string {
	if d.ComponentName != "" {
		return d.ComponentName
	}
	return PascalCase(d.Name)
}

// Public returns the descriptor as published: the raw configuration with the
// build sub-object removed.
func (d *Descriptor) Public() (json.RawMessage, error) {
	return Strip(d.Raw)
}

// Strip removes the top-level "build" key from a JSON object.
// Stripping an already stripped document returns it unchanged.
func Strip(raw []byte) (json.RawMessage, error) {
	if !gjson.GetBytes(raw, "build").Exists() {
		return append(json.RawMessage(nil), raw...), nil
	}
	out, err := sjson.DeleteBytes(raw, "build")
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Options resolves the build options against the defaults.
func (d *Descriptor) Options() Resolved {
	r := Resolved{
		Target:    DefaultTargets,
		Formats:   DefaultFormats,
		CSS:       true,
		DTS:       true,
		Sourcemap: true,
		Entry:     DefaultEntry,
	}

	b := d.Build
	if b == nil {
		r.GlobalName = d.ExportName()
		return r
	}

	if len(b.Target) > 0 {
		r.Target = b.Target
	}
	if len(b.Formats) > 0 {
		r.Formats = normalizeFormats(b.Formats)
	}
	if b.CSS != nil {
		r.CSS = *b.CSS
	}
	if b.DTS != nil {
		r.DTS = *b.DTS
	}
	if b.Sourcemap != nil {
		r.Sourcemap = *b.Sourcemap
	}
	if b.Entry != "" {
		r.Entry = b.Entry
	}
	r.GlobalName = b.GlobalName
	if r.GlobalName == "" {
		r.GlobalName = d.ExportName()
	}
	r.Externals = b.Externals
	return r
}

// normalizeFormats maps "esm" to "es" and drops duplicates, keeping order.
func normalizeFormats(in []Format) []Format {
	seen := make(map[Format]bool, len(in))
	out := make([]Format, 0, len(in))
	for _, f := range in {
		if f == "esm" {
			f = FormatES
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// PascalCase converts "my-button", "my_button" or "my button" into "MyButton".
func PascalCase(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if sb.Len() == 0 && unicode.IsDigit(r) {
			sb.WriteRune('_')
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
