package orthofoot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestObject(t *testing.T) {
	m, err := ParseManifest([]byte(`{"keyword":"ORTO","containers":["a.gpkg","dir/b.gpkg"],"note":1}`))
	require.NoError(t, err)
	assert.Equal(t, "ORTO", m.Keyword)
	assert.Equal(t, []string{"a.gpkg", "dir/b.gpkg"}, m.Containers)

	m, err = ParseManifest([]byte(`{"containers":[]}`))
	require.NoError(t, err)
	assert.Empty(t, m.Keyword)
	assert.Empty(t, m.Containers)
}

func TestParseManifestArray(t *testing.T) {
	m, err := ParseManifest([]byte(` ["x.gpkg", "y.gpkg"] `))
	require.NoError(t, err)
	assert.Equal(t, []string{"x.gpkg", "y.gpkg"}, m.Containers)
	assert.Empty(t, m.Keyword)
}

func TestParseManifestInvalid(t *testing.T) {
	for _, in := range []string{
		`{"containers":`,
		`"a.gpkg"`,
		`{"keyword":"ORTO"}`,
		`{"containers":"a.gpkg"}`,
		`{"containers":["a.gpkg", 3]}`,
		`{"containers":["a.gpkg"],"keyword":5}`,
		`[null]`,
	} {
		m, err := ParseManifest([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidManifest, in)
		assert.Nil(t, m, in)
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"containers":["a.gpkg"],"keyword":"ORTO"}`), 0o644))
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, &Manifest{Containers: []string{"a.gpkg"}, Keyword: "ORTO"}, m)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrInvalidManifest)
}
