package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	oerrors "github.com/material-cli/material/internal/errors"
)

func TestStrip_RemovesBuildAndIsIdempotent(t *testing.T) {
	raw := []byte(`{"id":"button","build":{"css":true},"props":[{"name":"a"}]}`)

	once, err := Strip(raw)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(once, "build").Exists())
	assert.Equal(t, "a", gjson.GetBytes(once, "props.0.name").String())

	twice, err := Strip(once)
	require.NoError(t, err)
	assert.JSONEq(t, string(once), string(twice))
}

func TestStrip_KeepsNestedBuildKeys(t *testing.T) {
	out, err := Strip([]byte(`{"id":"x","docs":{"build":1}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(out, "docs.build").Int())
}

func TestDescriptor_Public(t *testing.T) {
	d := &Descriptor{ID: "card", Name: "Card", Raw: []byte(`{"id":"card","name":"Card","build":{"dts":false}}`)}
	pub, err := d.Public()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"card","name":"Card"}`, string(pub))
}

func TestDescriptor_Key(t *testing.T) {
	assert.Equal(t, "mybutton", (&Descriptor{ID: "MyButton"}).Key())
}

func TestDescriptor_OptionsDefaults(t *testing.T) {
	opts := (&Descriptor{Name: "date-picker"}).Options()
	assert.Equal(t, DefaultFormats, opts.Formats)
	assert.True(t, opts.CSS)
	assert.True(t, opts.DTS)
	assert.True(t, opts.Sourcemap)
	assert.Equal(t, "DatePicker", opts.GlobalName)
}

func TestFormat_FileName(t *testing.T) {
	assert.Equal(t, "index.mjs", FormatES.FileName())
	assert.Equal(t, "index.js", FormatCJS.FileName())
	assert.Equal(t, "index.umd.js", FormatUMD.FileName())
}

func TestPascalCase(t *testing.T) {
	tests := map[string]string{
		"button":      "Button",
		"Button":      "Button",
		"date-picker": "DatePicker",
		"my_card x":   "MyCardX",
		"3d-box":      "_3dBox",
	}
	for in, want := range tests {
		assert.Equal(t, want, PascalCase(in), in)
	}
}

func TestCheckUnique(t *testing.T) {
	a := &Descriptor{ID: "Button", Name: "Button", ConfigPath: "/a/material.config.json"}
	b := &Descriptor{ID: "card", Name: "Card", ConfigPath: "/b/material.config.json"}
	c := &Descriptor{ID: "button", Name: "Button Next", ConfigPath: "/c/material.config.json"}

	assert.NoError(t, CheckUnique([]*Descriptor{a, b}))

	err := CheckUnique([]*Descriptor{a, b, c})
	var dup *DuplicateComponentIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "button", dup.ID)
	assert.Equal(t, []string{a.ConfigPath, c.ConfigPath}, dup.Paths)
	assert.ErrorIs(t, err, oerrors.ErrConflict)
}

func TestCheckUnique_ExportNames(t *testing.T) {
	button := &Descriptor{ID: "button", Name: "Button", ConfigPath: "/a/material.config.json"}

	tests := []struct {
		name  string
		other *Descriptor
		ids   []string
	}{
		{
			name:  "same name different id",
			other: &Descriptor{ID: "fancy-button", Name: "Button", ConfigPath: "/b/material.config.json"},
			ids:   []string{"button", "fancy-button"},
		},
		{
			name:  "componentName clash",
			other: &Descriptor{ID: "alt", Name: "Alt", ComponentName: "Button", ConfigPath: "/b/material.config.json"},
			ids:   []string{"button", "alt"},
		},
		{
			name:  "no identifier characters",
			other: &Descriptor{ID: "bang", Name: "!!!", ConfigPath: "/b/material.config.json"},
			ids:   []string{"bang"},
		},
		{
			name:  "reserved in entry modules",
			other: &Descriptor{ID: "installer", Name: "x", ComponentName: "install", ConfigPath: "/b/material.config.json"},
			ids:   []string{"installer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUnique([]*Descriptor{button, tt.other})
			var nameErr *ExportNameError
			require.ErrorAs(t, err, &nameErr)
			assert.Equal(t, tt.ids, nameErr.IDs)
			assert.ErrorIs(t, err, oerrors.ErrConflict)
		})
	}
}

func TestValidIdentifier(t *testing.T) {
	for name, want := range map[string]bool{
		"Button":   true,
		"_Private": true,
		"$el":      true,
		"V2Tag":    true,
		"":         false,
		"2Tag":     false,
		"my-tag":   false,
		"class":    false,
		"install":  false,
		"Install":  true,
	} {
		assert.Equal(t, want, ValidIdentifier(name), name)
	}
}
