package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/testutil"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		wantErr bool
	}{
		{"component", Component, false},
		{"project", Project, false},
		{"unknown", "library", true},
		{"case-sensitive", "Component", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, tmpl.Kind)
			assert.NotEmpty(t, tmpl.Description)
		})
	}

	assert.Len(t, List(), 2)
}

func TestNewData(t *testing.T) {
	tests := []struct {
		input      string
		wantPascal string
		wantID     string
		wantErr    bool
	}{
		{"Button", "Button", "button", false},
		{"date-picker", "DatePicker", "date-picker", false},
		{"DatePicker", "DatePicker", "date-picker", false},
		{"my_lib", "MyLib", "my-lib", false},
		{"HTMLEditor", "HTMLEditor", "html-editor", false},
		{"Tab2", "Tab2", "tab2", false},
		{"", "", "", true},
		{"1button", "", "", true},
		{"my button", "", "", true},
		{"pkg/name", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			data, err := NewData(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, data.Name)
			assert.Equal(t, tt.wantPascal, data.PascalName)
			assert.Equal(t, tt.wantID, data.ID)
			assert.Equal(t, "0.1.0", data.Version)
		})
	}
}

func TestFiles(t *testing.T) {
	data, err := NewData("DatePicker")
	require.NoError(t, err)

	files, err := Files(Component, data)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"__tests__/date-picker.test.ts",
		"material.config.json",
		"src/index.ts",
		"src/style.css",
		"src/types.ts",
	}, files)

	files, err = Files(Project, data)
	require.NoError(t, err)
	assert.Contains(t, files, ".gitignore")
	assert.Contains(t, files, "package.json")
	assert.Contains(t, files, "src/utils/withInstall.ts")
	assert.Contains(t, files, "vue2-playground/vite.config.ts")
	assert.Contains(t, files, "vue3-playground/vite.config.ts")
	for _, f := range files {
		assert.False(t, strings.HasSuffix(f, ".tmpl"), f)
	}

	_, err = Files("unknown", data)
	assert.Error(t, err)
}

func TestRenderComponent(t *testing.T) {
	root := testutil.Workspace(t)
	target := filepath.Join(root, "packages", "DatePicker")

	data, err := NewData("DatePicker")
	require.NoError(t, err)

	created, err := Render(Component, target, data)
	require.NoError(t, err)
	want, err := Files(Component, data)
	require.NoError(t, err)
	assert.Equal(t, want, created)

	for _, f := range created {
		assert.FileExists(t, filepath.Join(target, f))
	}

	index := testutil.ReadFile(t, filepath.Join(target, "src", "index.ts"))
	assert.Contains(t, index, "export const VDatePicker = withInstall(DatePicker)")
	assert.Contains(t, index, "'m-date-picker'")
	assert.NotContains(t, index, "{{")

	// The generated configuration is accepted by the component loader.
	d, err := component.Load(filepath.Join(target, "material.config.json"))
	require.NoError(t, err)
	assert.Equal(t, "date-picker", d.ID)
	assert.Equal(t, "DatePicker", d.Name)
	assert.Equal(t, "0.1.0", d.Version)
	assert.Equal(t, target, d.Dir())

	paths, err := component.Discover(root, component.DiscoverOptions{})
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRenderProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "my-lib")

	data, err := NewData("my-lib")
	require.NoError(t, err)

	created, err := Render(Project, target, data)
	require.NoError(t, err)
	assert.Contains(t, created, ".gitignore")

	pkg := testutil.ReadFile(t, filepath.Join(target, "package.json"))
	assert.Equal(t, "my-lib", gjson.Get(pkg, "name").String())
	assert.Equal(t, "0.1.0", gjson.Get(pkg, "version").String())
	assert.Equal(t, "material build", gjson.Get(pkg, "scripts.build").String())
	assert.True(t, gjson.Get(pkg, "dependencies.vue-demi").Exists())

	vite2 := testutil.ReadFile(t, filepath.Join(target, "vue2-playground", "vite.config.ts"))
	assert.Contains(t, vite2, "@vitejs/plugin-vue2")
	assert.Contains(t, vite2, "lib/v2/index.mjs")
	vite3 := testutil.ReadFile(t, filepath.Join(target, "vue3-playground", "vite.config.ts"))
	assert.Contains(t, vite3, "lib/v3/index.mjs")

	html := testutil.ReadFile(t, filepath.Join(target, "vue2-playground", "index.html"))
	assert.Contains(t, html, "my-lib · Vue 2 playground")
}

func TestRenderOverwrites(t *testing.T) {
	target := t.TempDir()
	testutil.WriteFile(t, target, "src/types.ts", "stale")

	data, err := NewData("Card")
	require.NoError(t, err)
	_, err = Render(Component, target, data)
	require.NoError(t, err)

	assert.Contains(t, testutil.ReadFile(t, filepath.Join(target, "src", "types.ts")), "export interface CardProps")
}

func TestCheckTarget(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing directory", func(t *testing.T) {
		assert.NoError(t, CheckTarget(filepath.Join(dir, "new"), false))
	})

	t.Run("empty directory", func(t *testing.T) {
		empty := filepath.Join(dir, "empty")
		require.NoError(t, os.Mkdir(empty, 0o755))
		assert.NoError(t, CheckTarget(empty, false))
	})

	t.Run("non-empty directory", func(t *testing.T) {
		full := filepath.Join(dir, "full")
		testutil.WriteFile(t, full, "README.md", "x")
		err := CheckTarget(full, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")
		assert.NoError(t, CheckTarget(full, true))
	})

	t.Run("file", func(t *testing.T) {
		file := testutil.WriteFile(t, dir, "file.txt", "x")
		assert.Error(t, CheckTarget(file, true))
	})
}
