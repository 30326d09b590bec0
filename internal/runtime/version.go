// Package runtime describes the two supported major versions of the Vue
// runtime and every per-version fact the build needs.
package runtime

import (
	"fmt"
	"strings"
)

// Version is a supported runtime major version.
type Version int

const (
	// V2 is Vue 2.x, consumed through the "vue2" package alias.
	V2 Version = 2

	// V3 is Vue 3.x.
	V3 Version = 3
)

// DetectorModule is the module whose isVue2 flag selects a branch at load time.
const DetectorModule = "vue-demi"

// All returns the supported versions in build order.
func All() []Version {
	return []Version{V2, V3}
}

// Parse parses "2", "v2", "vue2" (and the same for 3) into a Version.
func Parse(s string) (Version, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "vue")
	s = strings.TrimPrefix(s, "v")
	switch s {
	case "2":
		return V2, nil
	case "3":
		return V3, nil
	default:
		return 0, fmt.Errorf("unsupported runtime version %q (want 2 or 3)", s)
	}
}

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	return v == V2 || v == V3
}

// String returns "v2" or "v3".
func (v Version) String() string {
	return v.Dir()
}

// Dir is the output subdirectory for this version, relative to a component dist.
func (v Version) Dir() string {
	return fmt.Sprintf("v%d", int(v))
}

// Package is the module the bare "vue" import resolves to.
func (v Version) Package() string {
	if v == V2 {
		return "vue2"
	}
	return "vue"
}

// DemiLibDir is the version-specific vue-demi implementation directory
// relative to the vue-demi package root.
func (v Version) DemiLibDir() string {
	return "lib/" + v.Dir()
}

// Playground is the dev playground directory for this version.
func (v Version) Playground() string {
	return fmt.Sprintf("vue%d-playground", int(v))
}

// IsVue2 is the value of the detector flag under this version.
func (v Version) IsVue2() bool {
	return v == V2
}
