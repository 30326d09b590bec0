package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFacts(t *testing.T) {
	tests := []struct {
		v          Version
		dir        string
		pkg        string
		demi       string
		playground string
		isVue2     bool
	}{
		{V2, "v2", "vue2", "lib/v2", "vue2-playground", true},
		{V3, "v3", "vue", "lib/v3", "vue3-playground", false},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.True(t, tt.v.Valid())
			assert.Equal(t, tt.dir, tt.v.Dir())
			assert.Equal(t, tt.dir, tt.v.String())
			assert.Equal(t, tt.pkg, tt.v.Package())
			assert.Equal(t, tt.demi, tt.v.DemiLibDir())
			assert.Equal(t, tt.playground, tt.v.Playground())
			assert.Equal(t, tt.isVue2, tt.v.IsVue2())
		})
	}
}

func TestParse(t *testing.T) {
	for _, in := range []string{"2", "v2", "vue2", " V2 "} {
		v, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, V2, v)
	}
	for _, in := range []string{"3", "v3", "Vue3"} {
		v, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, V3, v)
	}
	_, err := Parse("2.7")
	assert.Error(t, err)
}

func TestAll_BuildOrder(t *testing.T) {
	assert.Equal(t, []Version{V2, V3}, All())
	assert.False(t, Version(4).Valid())
}
