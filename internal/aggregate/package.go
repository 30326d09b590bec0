package aggregate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Fixed export keys of the aggregate package.
const (
	ExportRoot       = "."
	ExportBundle     = "./bundle"
	ExportComponents = "./components"
)

// Default dependency ranges written when the workspace config sets none.
var (
	DefaultDependencies     = map[string]string{"vue-demi": "^0.14.0"}
	DefaultPeerDependencies = map[string]string{"vue": "^2.6.0 || ^3.2.0"}
)

// PackageOptions is the configurable part of the generated package.json.
type PackageOptions struct {
	Name             string
	Version          string
	Description      string
	License          string
	Dependencies     map[string]string
	PeerDependencies map[string]string
}

// Conditions is one conditional export target.
type Conditions struct {
	Types   string `json:"types,omitempty"`
	Import  string `json:"import,omitempty"`
	Require string `json:"require,omitempty"`
	Style   string `json:"style,omitempty"`
}

// Export is a single sub-path export.
type Export struct {
	Path       string
	Conditions Conditions
}

// Exports keeps sub-path exports in insertion order when marshalled.
type Exports []Export

// MarshalJSON writes the exports as an object in slice order.
func (e Exports) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, ex := range e {
		val, err := json.Marshal(ex.Conditions)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, escapeKey(ex.Path), val)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", ex.Path, err)
		}
	}
	return out, nil
}

var keyEscaper = strings.NewReplacer(
	`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`, ":", `\:`,
)

// escapeKey makes an export path usable as a single sjson path component.
func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}

// Keys returns the export paths in order.
func (e Exports) Keys() []string {
	keys := make([]string, len(e))
	for i, ex := range e {
		keys[i] = ex.Path
	}
	return keys
}

// PackageJSON is the generated manifest of the aggregate package.
type PackageJSON struct {
	Name             string            `json:"name,omitempty"`
	Version          string            `json:"version,omitempty"`
	Description      string            `json:"description,omitempty"`
	License          string            `json:"license,omitempty"`
	Main             string            `json:"main"`
	Module           string            `json:"module"`
	Types            string            `json:"types"`
	Style            string            `json:"style"`
	SideEffects      []string          `json:"sideEffects"`
	Files            []string          `json:"files"`
	Exports          Exports           `json:"exports"`
	Dependencies     map[string]string `json:"dependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

func rootConditions() Conditions {
	return Conditions{
		Types:   "./index.d.ts",
		Import:  "./index.mjs",
		Require: "./index.js",
	}
}

// NewPackageJSON builds the manifest for the given components, in order.
func NewPackageJSON(opts PackageOptions, comps []entryData) *PackageJSON {
	bundle := rootConditions()
	bundle.Style = "./style.js"

	exports := Exports{
		{Path: ExportRoot, Conditions: rootConditions()},
		{Path: ExportBundle, Conditions: bundle},
		{Path: ExportComponents, Conditions: rootConditions()},
	}
	for _, c := range comps {
		base := "./" + c.Dir
		exports = append(exports, Export{
			Path: base,
			Conditions: Conditions{
				Types:   base + "/types/index.d.ts",
				Import:  base + "/index.mjs",
				Require: base + "/index.js",
				Style:   base + "/style.css",
			},
		})
	}
	deps := opts.Dependencies
	if deps == nil {
		deps = DefaultDependencies
	}
	peers := opts.PeerDependencies
	if peers == nil {
		peers = DefaultPeerDependencies
	}

	return &PackageJSON{
		Name:             opts.Name,
		Version:          opts.Version,
		Description:      opts.Description,
		License:          opts.License,
		Main:             "./index.js",
		Module:           "./index.mjs",
		Types:            "./index.d.ts",
		Style:            "./style.js",
		SideEffects:      []string{"*.css", "./style.js"},
		Files:            []string{"index.js", "index.mjs", "index.d.ts", "style.js", "components"},
		Exports:          exports,
		Dependencies:     deps,
		PeerDependencies: peers,
	}
}

// Marshal renders the manifest as indented JSON with a trailing newline.
func (p *PackageJSON) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
