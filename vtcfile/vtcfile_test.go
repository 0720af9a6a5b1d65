package vtcfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpyte/vtc/environment"
	"github.com/dpyte/vtc/value"
	"github.com/dpyte/vtc/vtcerr"
)

func TestLoadFileMergesNamespaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.vtc")
	require.NoError(t, os.WriteFile(path, []byte(`@a: $x := 7`), 0o644))

	env := environment.New()
	require.NoError(t, LoadFile(env, path))

	ns, ok := env.Namespace("a")
	require.True(t, ok)
	v, ok := ns.Variable("x")
	require.True(t, ok)
	assert.True(t, value.Equal(value.Integer(7), v))
}

func TestLoadFileMissingPathFails(t *testing.T) {
	env := environment.New()
	err := LoadFile(env, filepath.Join(t.TempDir(), "missing.vtc"))
	assert.Equal(t, vtcerr.FileReadError, vtcerr.KindOf(err))
}

func TestSaveWritesAtomicallyAndCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.vtc")

	require.NoError(t, Save(path, "@a: $x := 1\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@a: $x := 1\n", string(data))
}
