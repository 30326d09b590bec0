package config

import (
	"fmt"
	"os"

	"github.com/material-cli/material/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one key after applying precedence.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource

	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// Resolve reports the winning source of key using precedence
// flag > env > config > default, with every lower value it shadows.
// Source is empty when no source sets the key.
func (l *Loader) Resolve(key string) ResolvedValue {
	type candidate struct {
		source ConfigSource
		value  any
	}
	var found []candidate

	if f, ok := l.flags[key]; ok && f.Changed {
		found = append(found, candidate{SourceFlag, f.Value.String()})
	}
	if env := EnvVar(key); env != "" {
		if v, ok := os.LookupEnv(env); ok {
			found = append(found, candidate{SourceEnv, v})
		}
	}
	if l.file.IsSet(key) {
		found = append(found, candidate{SourceConfig, l.file.Get(key)})
	}
	if v, ok := l.defaults[key]; ok {
		found = append(found, candidate{SourceDefault, v})
	}

	res := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	if len(found) == 0 {
		return res
	}
	res.Source = found[0].source
	res.Value = l.v.Get(key)
	for _, c := range found[1:] {
		res.Shadowed[c.source] = c.value
	}
	return res
}

// ResolveAll resolves every known key.
func (l *Loader) ResolveAll() []ResolvedValue {
	values := make([]ResolvedValue, 0, len(bindings))
	for _, key := range Keys() {
		if rv := l.Resolve(key); rv.Source != "" {
			values = append(values, rv)
		}
	}
	return values
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", fmt.Sprint(v.Value),
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", fmt.Sprint(shadowed),
			)
		}
	}
}
