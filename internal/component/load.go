package component

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/coreos/go-semver/semver"
)

//go:embed schema.cue
var schemaFS embed.FS

// ErrScriptConfig is the cause attached to configurations written as scripts.
var ErrScriptConfig = errors.New("script configurations cannot be evaluated; convert it to material.config.cue, .json or .yaml")

// Loader parses component configuration files and checks them against the
// embedded #Component schema. A Loader owns a CUE context and is not safe for
// concurrent use.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader creates a Loader with the compiled schema.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()

	data, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename("schema.cue"))
	if v.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", v.Err())
	}

	schema := v.LookupPath(cue.ParsePath("#Component"))
	if !schema.Exists() {
		return nil, fmt.Errorf("schema has no #Component definition")
	}

	return &Loader{ctx: ctx, schema: schema}, nil
}

// Load parses one configuration file.
func Load(path string) (*Descriptor, error) {
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return l.Load(path)
}

// Load parses one configuration file into a Descriptor.
// Every failure is a *ConfigLoadError.
func (l *Loader) Load(path string) (*Descriptor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConfigLoadError{Path: path, Message: "resolving path", Cause: err}
	}

	val, err := l.parse(abs)
	if err != nil {
		return nil, err
	}

	if val.Kind() != cue.StructKind {
		return nil, &ConfigLoadError{Path: abs, Message: "configuration must be an object"}
	}

	for _, field := range []string{"id", "name"} {
		if err := requireString(val, field); err != "" {
			return nil, &ConfigLoadError{Path: abs, Field: field, Message: err}
		}
	}

	if err := l.schema.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return nil, &ConfigLoadError{
			Path:    abs,
			Field:   firstCUEPath(err),
			Message: "does not match the component schema",
			Cause:   err,
		}
	}

	raw, err := val.MarshalJSON()
	if err != nil {
		return nil, &ConfigLoadError{Path: abs, Message: "configuration is not concrete", Cause: err}
	}

	d := &Descriptor{}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, &ConfigLoadError{Path: abs, Message: "decoding configuration", Cause: err}
	}
	d.Raw = raw
	d.ConfigPath = abs

	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			return nil, &ConfigLoadError{
				Path:    abs,
				Field:   "version",
				Message: fmt.Sprintf("%q is not a semantic version", d.Version),
				Cause:   err,
			}
		}
	}

	return d, nil
}

// LoadAll loads every path in order and stops at the first failure.
func (l *Loader) LoadAll(paths []string) ([]*Descriptor, error) {
	descs := make([]*Descriptor, 0, len(paths))
	for _, p := range paths {
		d, err := l.Load(p)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

func (l *Loader) parse(path string) (cue.Value, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".ts", ".js", ".mjs":
		return cue.Value{}, &ConfigLoadError{Path: path, Cause: ErrScriptConfig}
	case ".cue", ".json", ".yaml", ".yml":
	default:
		return cue.Value{}, &ConfigLoadError{Path: path, Message: fmt.Sprintf("unsupported configuration format %q", ext)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, &ConfigLoadError{Path: path, Message: "reading file", Cause: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cue.Value{}, &ConfigLoadError{Path: path, Message: "file is empty"}
	}

	var val cue.Value
	switch ext {
	case ".cue":
		val = l.ctx.CompileBytes(data, cue.Filename(path))
	case ".json":
		expr, err := cuejson.Extract(path, data)
		if err != nil {
			return cue.Value{}, &ConfigLoadError{Path: path, Message: "parsing JSON", Cause: err}
		}
		val = l.ctx.BuildExpr(expr, cue.Filename(path))
	default:
		f, err := cueyaml.Extract(path, data)
		if err != nil {
			return cue.Value{}, &ConfigLoadError{Path: path, Message: "parsing YAML", Cause: err}
		}
		val = l.ctx.BuildFile(f, cue.Filename(path))
	}

	if val.Err() != nil {
		return cue.Value{}, &ConfigLoadError{Path: path, Message: "evaluating configuration", Cause: val.Err()}
	}
	return val, nil
}

// requireString returns a message when field is absent, not a string or blank.
func requireString(val cue.Value, field string) string {
	fv := val.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "is required"
	}
	s, err := fv.String()
	if err != nil {
		return "must be a string"
	}
	if strings.TrimSpace(s) == "" {
		return "must not be empty"
	}
	return ""
}
