package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
)

// MinNodeMajor is the oldest Node.js major the external bundler and the
// playgrounds are expected to run on.
const MinNodeMajor = 18

var nodeVersionRegex = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// NodeInfo describes the Node.js installation found on PATH.
type NodeInfo struct {
	Version    string `json:"version"`
	Path       string `json:"path"`
	Found      bool   `json:"found"`
	Compatible bool   `json:"compatible"`
	Message    string `json:"message,omitempty"`
}

// DetectNode finds node on PATH and checks its version.
func DetectNode(ctx context.Context) NodeInfo {
	path, err := exec.LookPath("node")
	if err != nil {
		return NodeInfo{Message: "node not found in PATH"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return NodeInfo{Path: path, Found: true, Message: "failed to get node version: " + err.Error()}
	}

	v := extractVersion(out.String())
	info := NodeInfo{Version: v, Path: path, Found: true}
	info.Compatible, info.Message = NodeCompatible(v)
	return info
}

// NodeCompatible reports whether v satisfies MinNodeMajor.
func NodeCompatible(v string) (bool, string) {
	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return false, "invalid version format"
	}
	if parsed.Major < MinNodeMajor {
		return false, fmt.Sprintf("node %d or newer required", MinNodeMajor)
	}
	return true, "compatible"
}

func extractVersion(s string) string {
	m := nodeVersionRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	return "v" + m[1]
}

// String returns a human-readable description.
func (n NodeInfo) String() string {
	if !n.Found {
		return "  Node:     not found"
	}
	status := "compatible"
	if !n.Compatible {
		status = n.Message
	}
	return fmt.Sprintf("  Node:     %s (%s)\n  Path:     %s", n.Version, status, n.Path)
}
