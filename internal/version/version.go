// Package version provides version information for the material CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version.
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Modules whose versions are reported alongside the CLI.
const (
	esbuildModule = "github.com/evanw/esbuild"
	cueModule     = "cuelang.org/go"
)

// Info contains version information.
type Info struct {
	Version        string `json:"version"`
	GitCommit      string `json:"gitCommit"`
	BuildDate      string `json:"buildDate"`
	GoVersion      string `json:"goVersion"`
	EsbuildVersion string `json:"esbuildVersion"`
	CUEVersion     string `json:"cueVersion"`
}

// Get returns the current version information.
func Get() Info {
	info := Info{
		Version:        Version,
		GitCommit:      GitCommit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		EsbuildVersion: "unknown",
		CUEVersion:     "unknown",
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range bi.Deps {
			switch dep.Path {
			case esbuildModule:
				info.EsbuildVersion = dep.Version
			case cueModule:
				info.CUEVersion = dep.Version
			}
		}
	}
	return info
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("material version %s\n  Commit:   %s\n  Built:    %s\n  Go:       %s\n  esbuild:  %s\n  CUE:      %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.EsbuildVersion, i.CUEVersion)
}
