package version

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion)
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.EsbuildVersion)
	assert.NotEmpty(t, info.CUEVersion)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:        "v1.0.0",
		GitCommit:      "abc123",
		BuildDate:      "2026-01-29",
		GoVersion:      "go1.25",
		EsbuildVersion: "v0.27.2",
		CUEVersion:     "v0.15.4",
	}

	str := info.String()

	assert.Contains(t, str, "material version v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
	assert.Contains(t, str, "v0.27.2")
	assert.Contains(t, str, "v0.15.4")
}

func TestNodeCompatible(t *testing.T) {
	tests := []struct {
		version string
		want    bool
		message string
	}{
		{"v20.11.1", true, "compatible"},
		{"18.0.0", true, "compatible"},
		{"v16.20.2", false, "node 18 or newer required"},
		{"garbage", false, "invalid version format"},
		{"", false, "invalid version format"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			ok, msg := NodeCompatible(tt.version)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, "v20.11.1", extractVersion("v20.11.1\n"))
	assert.Equal(t, "v18.0.0", extractVersion("node 18.0.0"))
	assert.Empty(t, extractVersion("unknown"))
}

func TestDetectNode(t *testing.T) {
	info := DetectNode(context.Background())
	if !info.Found {
		assert.Equal(t, "node not found in PATH", info.Message)
		assert.Contains(t, info.String(), "not found")
		return
	}
	assert.NotEmpty(t, info.Path)
	assert.Contains(t, info.String(), info.Path)
}

func TestNodeInfoString(t *testing.T) {
	n := NodeInfo{Version: "v16.0.0", Path: "/usr/bin/node", Found: true, Message: "node 18 or newer required"}
	assert.Contains(t, n.String(), "node 18 or newer required")
}
