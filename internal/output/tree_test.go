package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFileTree_Empty(t *testing.T) {
	assert.Equal(t, "", RenderFileTree("dist", nil))
}

func TestRenderFileTree_DirectoriesFirstNaturalOrder(t *testing.T) {
	out := RenderFileTree("dist", map[string]string{
		"index.js":               "CommonJS entry",
		"v10/index.js":           "",
		"v2/index.js":            "",
		"types/index.d.ts":       "declarations",
		"package.json":           "",
		"components/a/style.css": "",
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "dist/")

	idx := func(s string) int {
		for i, l := range lines {
			if strings.Contains(l, s) {
				return i
			}
		}
		return -1
	}

	assert.Less(t, idx("components/"), idx("index.js"), "directories sort before files")
	assert.Less(t, idx("v2/"), idx("v10/"), "natural ordering")
	assert.Contains(t, out, "CommonJS entry")
	assert.Contains(t, out, "└── ")
}

func TestRenderFileTree_NestedIndent(t *testing.T) {
	out := RenderFileTree("acme-ui", map[string]string{
		"packages/Button/material.config.json": "component config",
		"README.md":                            "",
	})
	assert.Contains(t, out, "└── packages/")
	assert.Contains(t, out, "    └── Button/")
	assert.Contains(t, out, "        └── material.config.json")
	assert.Contains(t, out, "component config")
}
