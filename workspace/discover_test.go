package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFindsAncestorWithProjectManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".project.json"), []byte("{}"), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Discover(nested)
	require.NoError(t, err)

	wantRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestDiscoverFindsMetaOnlyManifest(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".meta.json"), []byte("{}"), 0o644))

	found, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestDiscoverFailsWhenNoManifestExists(t *testing.T) {
	root := t.TempDir()
	isolated := filepath.Join(root, "x", "y")
	require.NoError(t, os.MkdirAll(isolated, 0o755))

	_, err := Discover(isolated)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
