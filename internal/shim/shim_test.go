package shim

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/material-cli/material/internal/compiler"
	"github.com/material-cli/material/internal/component"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/runtime"
	"github.com/material-cli/material/internal/testutil"
)

// distFixture lays out a compiled dist with the given files (relative paths).
func distFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "dist")
	for name, content := range files {
		testutil.WriteFile(t, dir, name, content)
	}
	return dir
}

func bundles() map[string]string {
	return map[string]string{
		"v2/index.js":  "module.exports = 'v2'",
		"v2/index.mjs": "export default 'v2'",
		"v3/index.js":  "module.exports = 'v3'",
		"v3/index.mjs": "export default 'v3'",
	}
}

func with(base map[string]string, extra map[string]string) map[string]string {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

var button = &component.Descriptor{ID: "button", Name: "Button"}

func TestResolve_EachVersionStaysInItsSubtree(t *testing.T) {
	for _, v := range runtime.All() {
		for _, f := range []component.Format{component.FormatES, component.FormatCJS, component.FormatUMD} {
			got := Resolve(v, f)
			assert.True(t, strings.HasPrefix(got, "./"+v.Dir()+"/"), "%s %s -> %s", v, f, got)
			for _, other := range runtime.All() {
				if other != v {
					assert.NotContains(t, got, other.Dir())
				}
			}
		}
		assert.Equal(t, "./"+v.Dir()+"/style.css", ResolveStyle(v))
	}
}

var ternary = regexp.MustCompile(`isVue2 \? require\('([^']+)'\) : require\('([^']+)'\)`)

func TestSynthesize_CJSBranches(t *testing.T) {
	dir := distFixture(t, bundles())

	res, err := Synthesize(dir, Options{Component: button})
	require.NoError(t, err)

	src := testutil.ReadFile(t, res.CJS)
	assert.Contains(t, src, "require('vue-demi').isVue2")

	m := ternary.FindStringSubmatch(src)
	require.Len(t, m, 3, src)
	assert.Equal(t, Resolve(runtime.V2, component.FormatCJS), m[1], "isVue2 branch")
	assert.Equal(t, Resolve(runtime.V3, component.FormatCJS), m[2], "vue3 branch")
}

func TestSynthesize_ESMIsLazy(t *testing.T) {
	dir := distFixture(t, with(bundles(), map[string]string{"v2/style.css": ".a{}"}))

	res, err := Synthesize(dir, Options{Component: button})
	require.NoError(t, err)

	src := testutil.ReadFile(t, res.ESM)

	// The only static import is the detector.
	staticImports := regexp.MustCompile(`(?m)^import .* from '([^']+)'`).FindAllStringSubmatch(src, -1)
	require.Len(t, staticImports, 1)
	assert.Equal(t, "vue-demi", staticImports[0][1])

	assert.Contains(t, src, "import('./v2/index.mjs')")
	assert.Contains(t, src, "import('./v2/style.css')")
	assert.Contains(t, src, "import('./v3/index.mjs')")
	assert.NotContains(t, src, "./v3/style.css", "v3 built no stylesheet")
	assert.Contains(t, src, "install(app, ...options)")
	assert.Contains(t, src, "then(resolve, reject)")
	assert.Contains(t, src, "export default Button")
}

func TestSynthesize_ESMFallsBackToCJSBundle(t *testing.T) {
	dir := distFixture(t, map[string]string{
		"v2/index.js": "module.exports = 2",
		"v3/index.js": "module.exports = 3",
	})

	res, err := Synthesize(dir, Options{Component: button})
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, res.ESM), "import('./v3/index.js')")
}

func TestSynthesize_NoCJSBundle(t *testing.T) {
	dir := distFixture(t, map[string]string{
		"v2/index.mjs": "export default 2",
		"v3/index.mjs": "export default 3",
	})

	res, err := Synthesize(dir, Options{Component: button})
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadFile(t, res.CJS), "throw new Error")
}

func TestSynthesize_MissingBundles(t *testing.T) {
	dir := distFixture(t, map[string]string{"v3/index.mjs": "export default 3"})
	_, err := Synthesize(dir, Options{Component: button})
	assert.Error(t, err)
}

func TestSynthesize_StylePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
		from  runtime.Version
	}{
		{"v3 wins", map[string]string{"v2/style.css": "two", "v3/style.css": "three"}, "three", runtime.V3},
		{"v2 fallback", map[string]string{"v2/style.css": "two"}, "two", runtime.V2},
		{"empty", map[string]string{}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := distFixture(t, with(bundles(), tt.files))
			res, err := Synthesize(dir, Options{Component: button})
			require.NoError(t, err)
			assert.Equal(t, tt.want, testutil.ReadFile(t, res.Style))
			assert.Equal(t, tt.from, res.StyleFrom)
		})
	}
}

func TestSynthesize_Types(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		wantSource string
		wantFiles  []string
	}{
		{
			name:       "copied from v3",
			files:      map[string]string{"v3/types/index.d.ts": "v3", "v3/types/props.d.ts": "p", "v2/types/index.d.ts": "v2"},
			wantSource: TypesCopied,
			wantFiles:  []string{"index.d.ts", "props.d.ts"},
		},
		{
			name:       "fallback to v2",
			files:      map[string]string{"v2/types/index.d.ts": "v2"},
			wantSource: TypesFallback,
			wantFiles:  []string{"index.d.ts"},
		},
		{
			name:       "fallback without index gets one",
			files:      map[string]string{"v2/button.d.ts": "x"},
			wantSource: TypesFallback,
			wantFiles:  []string{"button.d.ts", "index.d.ts"},
		},
		{
			name:       "synthesized",
			files:      map[string]string{},
			wantSource: TypesSynthesized,
			wantFiles:  []string{"index.d.ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := distFixture(t, with(bundles(), tt.files))
			res, err := Synthesize(dir, Options{Component: button})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, res.TypesSource)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(res.TypesDir, f))
			}
			assert.FileExists(t, filepath.Join(res.TypesDir, "index.d.ts"))
		})
	}
}

func TestSynthesize_CopiedTypesKeepContent(t *testing.T) {
	dir := distFixture(t, with(bundles(), map[string]string{"v3/types/index.d.ts": "export declare const x: 3"}))
	res, err := Synthesize(dir, Options{Component: button})
	require.NoError(t, err)
	assert.Equal(t, "export declare const x: 3", testutil.ReadFile(t, filepath.Join(res.TypesDir, "index.d.ts")))
}

func TestSynthesize_SynthesizedTypesArePermissive(t *testing.T) {
	dir := distFixture(t, bundles())
	res, err := Synthesize(dir, Options{Component: &component.Descriptor{ID: "date", Name: "date-picker"}})
	require.NoError(t, err)

	src := testutil.ReadFile(t, filepath.Join(res.TypesDir, "index.d.ts"))
	assert.Contains(t, src, "declare const DatePicker: Plugin & Record<string, any>")
	assert.Contains(t, src, "export default DatePicker")
}

func TestSynthesize_StrictDeclarations(t *testing.T) {
	dir := distFixture(t, bundles())
	_, err := Synthesize(dir, Options{Component: button, StrictDeclarations: true})

	var cbe *compiler.ComponentBuildError
	require.ErrorAs(t, err, &cbe)
	assert.Equal(t, "button", cbe.ComponentID)
	assert.Equal(t, runtime.V3, cbe.Version)
	assert.ErrorIs(t, err, ErrNoDeclarations)
	assert.ErrorIs(t, err, oerrors.ErrBuild)
}

func TestSynthesize_Rerun(t *testing.T) {
	dir := distFixture(t, with(bundles(), map[string]string{"v3/types/index.d.ts": "new"}))
	testutil.WriteFile(t, dir, "types/stale.d.ts", "stale")

	res, err := Synthesize(dir, Options{Component: button})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(res.TypesDir, "stale.d.ts"))
}
