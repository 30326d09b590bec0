package aggregate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/material-cli/material/internal/component"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/manifest"
	"github.com/material-cli/material/internal/testutil"
)

// fakeComponent writes a compiled dist tree the way the compiler and shim
// leave it and returns the matching entry.
func fakeComponent(t *testing.T, root, dir, id, name string) Entry {
	t.Helper()
	base := filepath.Join(root, "packages", dir)
	d := &component.Descriptor{
		ID:         id,
		Name:       name,
		ConfigPath: filepath.Join(base, "material.config.json"),
		Raw:        []byte(`{"id":"` + id + `","name":"` + name + `"}`),
	}
	dist := d.DistDir()
	for _, f := range []string{
		"index.js", "index.mjs", "style.css", "component.json", "types/index.d.ts",
		"v2/index.js", "v2/index.mjs", "v2/style.css", "v2/types/index.d.ts",
		"v3/index.js", "v3/index.mjs", "v3/style.css", "v3/types/index.d.ts",
		"material.config.json",
	} {
		testutil.WriteFile(t, dist, f, "// "+f+"\n")
	}
	return Entry{Descriptor: d}
}

func exportKeys(t *testing.T, pkg []byte) []string {
	t.Helper()
	var keys []string
	gjson.GetBytes(pkg, "exports").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

func TestAggregate_ButtonAndCard(t *testing.T) {
	root := t.TempDir()
	entries := []Entry{
		fakeComponent(t, root, "Button", "button", "Button"),
		fakeComponent(t, root, "Card", "card", "Card"),
	}
	out := filepath.Join(root, "dist")

	res, err := New(Options{
		OutDir:  out,
		Package: PackageOptions{Name: "demo-lib", Version: "1.2.3"},
	}).Aggregate(context.Background(), entries)
	require.NoError(t, err)

	assert.Equal(t, out, res.Dir)
	assert.Equal(t, []string{"button", "card"}, res.Components)
	assert.ElementsMatch(t, []string{"index.js", "index.mjs", "index.d.ts", "style.js", "package.json"}, res.Files)

	pkg := testutil.ReadFile(t, filepath.Join(out, "package.json"))
	assert.Equal(t,
		[]string{".", "./bundle", "./components", "./components/button", "./components/card"},
		exportKeys(t, []byte(pkg)))
	assert.Equal(t, "./style.js", gjson.Get(pkg, `exports.\./bundle.style`).String())
	assert.False(t, gjson.Get(pkg, `exports.\./components.style`).Exists())
	assert.Equal(t, "./components/card/types/index.d.ts", gjson.Get(pkg, `exports.\./components/card.types`).String())
	assert.Equal(t, "./components/button/style.css", gjson.Get(pkg, `exports.\./components/button.style`).String())
	assert.Equal(t, "demo-lib", gjson.Get(pkg, "name").String())
	assert.Equal(t, "^0.14.0", gjson.Get(pkg, "dependencies.vue-demi").String())

	for _, id := range []string{"button", "card"} {
		dir := filepath.Join(out, ComponentsDir, id)
		assert.True(t, testutil.Exists(filepath.Join(dir, "index.mjs")))
		assert.True(t, testutil.Exists(filepath.Join(dir, "v2", "index.js")))
		assert.True(t, testutil.Exists(filepath.Join(dir, "v3", "index.mjs")))
		assert.True(t, testutil.Exists(filepath.Join(dir, "types", "index.d.ts")))
		assert.True(t, testutil.Exists(filepath.Join(dir, "component.json")))
		assert.False(t, testutil.Exists(filepath.Join(dir, "v2", "types")))
		assert.False(t, testutil.Exists(filepath.Join(dir, "v3", "types")))
		assert.False(t, testutil.Exists(filepath.Join(dir, "material.config.json")))
	}

	cjs := testutil.ReadFile(t, filepath.Join(out, "index.js"))
	assert.Contains(t, cjs, "var Button = pick(require('./components/button/index.js'), 'Button')")
	assert.Contains(t, cjs, "var components = [Button, Card]")
	assert.Contains(t, cjs, "install: install,")
	assert.Contains(t, cjs, "Card: Card,")

	esm := testutil.ReadFile(t, filepath.Join(out, "index.mjs"))
	assert.Contains(t, esm, "import Button from './components/button/index.mjs'")
	assert.Contains(t, esm, "export async function install(app, ...options)")
	assert.Contains(t, esm, "export { Button, Card }")
	assert.Contains(t, esm, "export default { install, Button, Card }")

	dts := testutil.ReadFile(t, filepath.Join(out, "index.d.ts"))
	assert.Contains(t, dts, "import Card from './components/card/types/index'")
	assert.Contains(t, dts, "export declare function install(app: App, ...options: any[]): Promise<void>")

	style := testutil.ReadFile(t, filepath.Join(out, "style.js"))
	assert.Equal(t, "import './components/button/style.css'\nimport './components/card/style.css'\n", style)

	assertNoStaging(t, root)
}

func TestAggregate_DuplicateIDsWriteNothing(t *testing.T) {
	root := t.TempDir()
	entries := []Entry{
		fakeComponent(t, root, "Button", "Button", "Button"),
		fakeComponent(t, root, "button2", "button", "Button Two"),
	}
	out := filepath.Join(root, "dist")

	_, err := New(Options{OutDir: out}).Aggregate(context.Background(), entries)
	require.Error(t, err)

	var dup *component.DuplicateComponentIDError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "button", dup.ID)
	assert.True(t, errors.Is(err, oerrors.ErrConflict))

	assert.False(t, testutil.Exists(out))
	assertNoStaging(t, root)
}

func TestAggregate_FailureKeepsPreviousOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	testutil.WriteFile(t, out, "package.json", `{"name":"previous"}`)

	missing := Entry{Descriptor: &component.Descriptor{
		ID:         "ghost",
		Name:       "Ghost",
		ConfigPath: filepath.Join(root, "packages", "Ghost", "material.config.json"),
	}}
	entries := []Entry{fakeComponent(t, root, "Button", "button", "Button"), missing}

	_, err := New(Options{OutDir: out}).Aggregate(context.Background(), entries)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")

	assert.Equal(t, `{"name":"previous"}`, testutil.ReadFile(t, filepath.Join(out, "package.json")))
	assert.False(t, testutil.Exists(filepath.Join(out, ComponentsDir)))
	assertNoStaging(t, root)
}

func TestAggregate_CancelledContext(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(root, "dist")
	_, err := New(Options{OutDir: out}).Aggregate(ctx, []Entry{fakeComponent(t, root, "Button", "button", "Button")})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, testutil.Exists(out))
	assertNoStaging(t, root)
}

func TestAggregate_RepublishReplacesAndDiffs(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	button := fakeComponent(t, root, "Button", "button", "Button")
	agg := New(Options{OutDir: out})

	_, err := agg.Aggregate(context.Background(), []Entry{button})
	require.NoError(t, err)
	testutil.WriteFile(t, out, "stale.txt", "old")

	res, err := agg.Aggregate(context.Background(), []Entry{button})
	require.NoError(t, err)
	assert.Empty(t, res.PackageDiff)
	assert.False(t, testutil.Exists(filepath.Join(out, "stale.txt")))

	card := fakeComponent(t, root, "Card", "card", "Card")
	res, err = agg.Aggregate(context.Background(), []Entry{button, card})
	require.NoError(t, err)
	assert.Contains(t, res.PackageDiff, "components/card")
	assertNoStaging(t, root)
}

func TestAggregate_ComponentNameIsExportName(t *testing.T) {
	root := t.TempDir()
	e := fakeComponent(t, root, "date-picker", "date-picker", "date picker")
	e.Descriptor.ComponentName = "MDatePicker"

	out := filepath.Join(root, "dist")
	_, err := New(Options{OutDir: out}).Aggregate(context.Background(), []Entry{e})
	require.NoError(t, err)

	assert.Contains(t, testutil.ReadFile(t, filepath.Join(out, "index.mjs")),
		"import MDatePicker from './components/date-picker/index.mjs'")
}

func TestNewPackageJSON_OverridesDependencies(t *testing.T) {
	pkg := NewPackageJSON(PackageOptions{
		Dependencies:     map[string]string{},
		PeerDependencies: map[string]string{"vue": "^3.3.0"},
	}, nil)
	data, err := pkg.Marshal()
	require.NoError(t, err)

	assert.False(t, gjson.GetBytes(data, "dependencies").Exists())
	assert.Equal(t, "^3.3.0", gjson.GetBytes(data, "peerDependencies.vue").String())
	assert.Equal(t, []string{".", "./bundle", "./components"}, pkg.Exports.Keys())
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestDiff(t *testing.T) {
	same := []byte(`{"name":"a","exports":{".":{"import":"./index.mjs"}}}`)

	out, err := Diff(same, same, false)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Diff(same, []byte(`{"name":"b","exports":{".":{"import":"./index.mjs"}}}`), false)
	require.NoError(t, err)
	assert.Contains(t, out, "name")

	out, err = Diff(nil, same, false)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = Diff([]byte("{not json"), same, false)
	assert.Error(t, err)
}

func assertNoStaging(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".staging-"), "leftover %s", e.Name())
	}
}

func TestAggregate_WritesIndexBeforePublish(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	repo := &manifest.Repository{Name: "demo-lib", Version: "1.2.3"}

	res, err := New(Options{OutDir: out, Repository: repo}).
		Aggregate(context.Background(), []Entry{fakeComponent(t, root, "Button", "button", "Button")})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, manifest.IndexFile), res.IndexPath)
	assert.Contains(t, res.Files, manifest.IndexFile)
	idx := testutil.ReadFile(t, res.IndexPath)
	assert.Equal(t, "demo-lib", gjson.Get(idx, "name").String())
	assert.Equal(t, "button", gjson.Get(idx, "components.0.id").String())
}

func TestAggregate_IndexFailureKeepsPreviousOutput(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	testutil.WriteFile(t, out, "package.json", `{"name":"previous"}`)

	broken := fakeComponent(t, root, "Button", "button", "Button")
	broken.Descriptor.Raw = []byte("{not json")

	_, err := New(Options{OutDir: out, Repository: &manifest.Repository{Name: "x", Version: "0.0.0"}}).
		Aggregate(context.Background(), []Entry{broken})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrManifest)

	assert.Equal(t, `{"name":"previous"}`, testutil.ReadFile(t, filepath.Join(out, "package.json")))
	assert.False(t, testutil.Exists(filepath.Join(out, ComponentsDir)))
	assertNoStaging(t, root)
}

func TestAggregate_InvalidExportNameWritesNothing(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	entries := []Entry{
		fakeComponent(t, root, "Button", "button", "Button"),
		fakeComponent(t, root, "Bang", "bang", "!!!"),
	}

	_, err := New(Options{OutDir: out}).Aggregate(context.Background(), entries)
	var nameErr *component.ExportNameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, []string{"bang"}, nameErr.IDs)
	assert.ErrorIs(t, err, oerrors.ErrConflict)
	assert.False(t, testutil.Exists(out))
	assertNoStaging(t, root)
}

func TestExports_MarshalKeepsOrderAndLiteralKeys(t *testing.T) {
	exports := Exports{
		{Path: "./components/z", Conditions: Conditions{Import: "./z.mjs"}},
		{Path: ".", Conditions: rootConditions()},
		{Path: "./components/a.b", Conditions: Conditions{Import: "./a.mjs"}},
	}
	data, err := exports.MarshalJSON()
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))

	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, exports.Keys(), keys)
	assert.Equal(t, "./a.mjs", gjson.GetBytes(data, `\./components/a\.b.import`).String())

	empty, err := Exports(nil).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}
