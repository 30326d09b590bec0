package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/material-cli/material/internal/component"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/testutil"
)

func desc(id string, raw string) *component.Descriptor {
	return &component.Descriptor{ID: id, Name: id, Raw: []byte(raw)}
}

func TestWriteDescriptor(t *testing.T) {
	dir := t.TempDir()
	d := desc("button", `{"id":"button","name":"Button","build":{"css":true},"props":[{"name":"size"}]}`)

	path, err := WriteDescriptor(dir, d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DescriptorFile), path)

	data := []byte(testutil.ReadFile(t, path))
	assert.False(t, gjson.GetBytes(data, "build").Exists())
	assert.Equal(t, "size", gjson.GetBytes(data, "props.0.name").String())
	assert.Contains(t, string(data), "\n  \"name\"", "indented")
}

func TestWriteDescriptor_Failure(t *testing.T) {
	blocker := testutil.WriteFile(t, t.TempDir(), "file", "x")

	_, err := WriteDescriptor(filepath.Join(blocker, "dist"), desc("a", `{"id":"a"}`))
	var mwe *ManifestWriteError
	require.ErrorAs(t, err, &mwe)
	assert.ErrorIs(t, err, oerrors.ErrManifest)
}

func TestWriteDescriptor_RenameFailureLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DescriptorFile, "occupied"), 0o755))

	_, err := WriteDescriptor(dir, desc("a", `{"id":"a"}`))
	require.ErrorIs(t, err, oerrors.ErrManifest)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DescriptorFile, entries[0].Name())
}

func TestWriteIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", IndexFile)
	descs := []*component.Descriptor{
		desc("button", `{"id":"button","name":"Button","build":{}}`),
		desc("card", `{"id":"card","name":"Card"}`),
	}

	err := WriteIndex(path, Repository{Name: "demo-lib", Version: "1.2.3", Description: "Demo"}, descs)
	require.NoError(t, err)

	data := []byte(testutil.ReadFile(t, path))
	assert.Equal(t, "demo-lib", gjson.GetBytes(data, "name").String())
	assert.Equal(t, "1.2.3", gjson.GetBytes(data, "version").String())
	assert.Equal(t, "Demo", gjson.GetBytes(data, "description").String())
	assert.Equal(t, "material.manifest/v1", gjson.GetBytes(data, "catalog.schema").String())
	rts := gjson.GetBytes(data, "catalog.runtimes").Array()
	require.Len(t, rts, 2)
	assert.Equal(t, int64(2), rts[0].Int())
	assert.Equal(t, int64(3), rts[1].Int())

	ids := gjson.GetBytes(data, "components.#.id").Array()
	require.Len(t, ids, 2)
	assert.Equal(t, "button", ids[0].String())
	assert.Equal(t, "card", ids[1].String())
	assert.False(t, gjson.GetBytes(data, "components.0.build").Exists())
}

func TestWriteIndex_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndexFile)
	require.NoError(t, WriteIndex(path, Repository{Name: "x", Version: "0.0.0"}, nil))
	assert.Equal(t, "[]", gjson.Get(testutil.ReadFile(t, path), "components").Raw)
}

func TestReadRepository(t *testing.T) {
	t.Run("from package.json", func(t *testing.T) {
		root := testutil.Workspace(t)
		repo, err := ReadRepository(root, Repository{})
		require.NoError(t, err)
		assert.Equal(t, Repository{Name: "demo-lib", Version: "1.2.3", Description: "Demo component library"}, repo)
	})

	t.Run("overrides win", func(t *testing.T) {
		root := testutil.Workspace(t)
		repo, err := ReadRepository(root, Repository{Name: "@scope/ui", Version: "2.0.0"})
		require.NoError(t, err)
		assert.Equal(t, "@scope/ui", repo.Name)
		assert.Equal(t, "2.0.0", repo.Version)
		assert.Equal(t, "Demo component library", repo.Description)
	})

	t.Run("no package.json", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "my-lib")
		require.NoError(t, os.MkdirAll(root, 0o755))
		repo, err := ReadRepository(root, Repository{})
		require.NoError(t, err)
		assert.Equal(t, "my-lib", repo.Name)
		assert.Equal(t, "0.0.0", repo.Version)
	})

	t.Run("invalid package.json", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "package.json", "{nope")
		_, err := ReadRepository(root, Repository{})
		assert.Error(t, err)
	})
}

func TestComputeDigest(t *testing.T) {
	a := desc("button", `{"id":"button","name":"Button"}`)
	b := desc("card", `{"id":"card","name":"Card"}`)

	d1, err := ComputeDigest([]*component.Descriptor{a, b})
	require.NoError(t, err)
	d2, err := ComputeDigest([]*component.Descriptor{b, a})
	require.NoError(t, err)
	assert.Equal(t, d1, d2, "order independent")
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, d1)

	d3, err := ComputeDigest([]*component.Descriptor{a})
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestReadDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndexFile)
	assert.Empty(t, ReadDigest(path))

	descs := []*component.Descriptor{desc("button", `{"id":"button"}`)}
	require.NoError(t, WriteIndex(path, Repository{Name: "x", Version: "0.0.0"}, descs))

	want, err := ComputeDigest(descs)
	require.NoError(t, err)
	assert.Equal(t, want, ReadDigest(path))
}
