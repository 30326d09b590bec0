package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	oerrors "github.com/material-cli/material/internal/errors"
)

// Environment variable prefix for material configuration.
const envPrefix = "MATERIAL"

// binding ties a config key to its environment variable.
type binding struct {
	key string
	env string
}

// bindings lists every key that can be set from the environment, in the
// order they are reported.
var bindings = []binding{
	{"packages.pattern", "MATERIAL_PACKAGES_PATTERN"},
	{"packages.exclude", "MATERIAL_PACKAGES_EXCLUDE"},
	{"dist", "MATERIAL_DIST"},
	{"parallel", "MATERIAL_PARALLEL"},
	{"bundler.kind", "MATERIAL_BUNDLER_KIND"},
	{"bundler.command", "MATERIAL_BUNDLER_COMMAND"},
	{"bundler.dts", "MATERIAL_BUNDLER_DTS"},
	{"strictDeclarations", "MATERIAL_STRICT_DECLARATIONS"},
	{"package.name", "MATERIAL_PACKAGE_NAME"},
	{"package.version", "MATERIAL_PACKAGE_VERSION"},
	{"package.description", "MATERIAL_PACKAGE_DESCRIPTION"},
	{"package.license", "MATERIAL_PACKAGE_LICENSE"},
	{"log.timestamps", "MATERIAL_LOG_TIMESTAMPS"},
}

// Keys returns every configuration key that takes part in resolution.
func Keys() []string {
	keys := make([]string, len(bindings))
	for i, b := range bindings {
		keys[i] = b.key
	}
	return keys
}

// EnvVar returns the environment variable bound to key, or "".
func EnvVar(key string) string {
	for _, b := range bindings {
		if b.key == key {
			return b.env
		}
	}
	return ""
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper

	// file reads the configuration file alone, to tell config values apart
	// from env and flag values during resolution.
	file *viper.Viper

	flags    map[string]*pflag.Flag
	defaults map[string]any
	path     string
	dotenv   []string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range bindings {
		_ = v.BindEnv(b.key, b.env)
	}

	def := DefaultConfig()
	defaults := map[string]any{
		"packages.pattern":   def.Packages.Pattern,
		"packages.exclude":   def.Packages.Exclude,
		"dist":               def.Dist,
		"parallel":           def.Parallel,
		"bundler.kind":       def.Bundler.Kind,
		"bundler.dts":        def.Bundler.DTS,
		"strictDeclarations": def.StrictDeclarations,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	return &Loader{
		v:        v,
		file:     viper.New(),
		flags:    make(map[string]*pflag.Flag),
		defaults: defaults,
	}
}

// BindFlag makes a command-line flag the highest-precedence source for key.
// The flag only counts when it was set explicitly.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: no such flag", key)
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return err
	}
	l.flags[key] = flag
	return nil
}

// Load reads root/.env into the environment (without overriding variables
// that are already set), then the configuration file, and returns the merged
// configuration. An empty configFile selects root/material.yaml. A missing
// file is not an error.
func (l *Loader) Load(root, configFile string) (*Config, error) {
	paths := WorkspacePaths(root)

	applied, err := LoadDotEnv(paths.DotEnv)
	if err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid .env file",
			Message:  err.Error(),
			Location: paths.DotEnv,
			Cause:    oerrors.ErrConfig,
		}
	}
	l.dotenv = applied

	if configFile == "" {
		configFile = paths.ConfigFile
	}
	configFile, err = ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}
	l.path = configFile

	for _, v := range []*viper.Viper{l.v, l.file} {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, &oerrors.DetailError{
				Type:     "invalid configuration",
				Message:  err.Error(),
				Location: configFile,
				Hint:     "Run 'material config vet' for details.",
				Cause:    oerrors.ErrConfig,
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid configuration",
			Message:  err.Error(),
			Location: configFile,
			Cause:    oerrors.ErrConfig,
		}
	}
	return &cfg, nil
}

// Path returns the configuration file path of the last Load.
func (l *Loader) Path() string {
	return l.path
}

// DotEnv returns the variables the last Load took from .env.
func (l *Loader) DotEnv() []string {
	return l.dotenv
}

// FileExists reports whether the last Load found a configuration file.
func (l *Loader) FileExists() bool {
	return l.path != "" && fileExists(l.path)
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || os.IsNotExist(err) || errors.Is(err, os.ErrNotExist)
}

// LoadDotEnv sets the variables of a .env file that are not already set in
// the environment and returns their names. A missing file is not an error.
func LoadDotEnv(path string) ([]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var applied []string
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return applied, err
		}
		applied = append(applied, k)
	}
	return applied, nil
}
