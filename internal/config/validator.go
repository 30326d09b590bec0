package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/go-semver/semver"

	oerrors "github.com/material-cli/material/internal/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString("  ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Is lets errors.Is(err, errors.ErrConfig) match.
func (e ValidationErrors) Is(target error) bool {
	return target == oerrors.ErrConfig
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	v := ctx.CompileBytes(schemaData, cue.Filename("schema.cue"))
	if v.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", v.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: v.LookupPath(cue.ParsePath("#Config")),
	}, nil
}

// ValidateFile checks a material.yaml file against the schema, then checks
// the values the schema cannot express.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	f, err := cueyaml.Extract(path, data)
	if err != nil {
		return ValidationErrors{{Message: "parsing YAML: " + err.Error()}}
	}
	val := v.ctx.BuildFile(f, cue.Filename(path))
	if val.Err() != nil {
		return ValidationErrors{{Message: val.Err().Error()}}
	}

	unified := v.schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fromCUE(err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return ValidationErrors{{Message: "decoding: " + err.Error()}}
	}
	return v.Validate(&cfg)
}

// Validate checks values of a loaded configuration.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Packages.Pattern != "" && !doublestar.ValidatePattern(cfg.Packages.Pattern) {
		errs = append(errs, ValidationError{Field: "packages.pattern", Message: "is not a valid glob pattern"})
	}
	if cfg.Parallel < 0 {
		errs = append(errs, ValidationError{Field: "parallel", Message: "must not be negative"})
	}

	switch cfg.Bundler.Kind {
	case "", BundlerEsbuild:
	case BundlerCommand:
		if strings.TrimSpace(cfg.Bundler.Command) == "" {
			errs = append(errs, ValidationError{Field: "bundler.command", Message: `is required when bundler.kind is "command"`})
		}
	default:
		errs = append(errs, ValidationError{Field: "bundler.kind", Message: fmt.Sprintf("must be %q or %q", BundlerEsbuild, BundlerCommand)})
	}

	if cfg.Package.Version != "" {
		if _, err := semver.NewVersion(cfg.Package.Version); err != nil {
			errs = append(errs, ValidationError{Field: "package.version", Message: "must be a semantic version"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fromCUE(err error) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   strings.TrimPrefix(strings.Join(e.Path(), "."), "#Config."),
			Message: fmt.Sprintf(format, args...),
		}
		if seen[ve.Error()] {
			continue
		}
		seen[ve.Error()] = true
		errs = append(errs, ve)
	}
	if len(errs) == 0 {
		errs = append(errs, ValidationError{Message: err.Error()})
	}
	return errs
}
