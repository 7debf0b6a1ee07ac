package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/kip"
	"github.com/sensmetry/sysand/storage"
)

func TestCachedDirectoryEnvironmentCachesVersions(t *testing.T) {
	inner := NewLocalDirectoryEnvironment(t.TempDir())
	cached := NewCachedDirectoryEnvironment(inner)

	require.NoError(t, inner.PutProject("urn:kpar:dep", "1.0.0", func(w storage.ProjectWrite) error {
		require.NoError(t, w.PutInfo(kip.InfoRaw{Name: "dep", Version: "1.0.0"}, true))
		return w.PutMeta(kip.MetaRaw{Created: "2024-01-01T00:00:00Z"}, true)
	}))

	versions, err := cached.Versions("urn:kpar:dep")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, versions)

	_, ok := cached.cache.Get("urn:kpar:dep")
	assert.True(t, ok)

	has, err := cached.HasVersion("urn:kpar:dep", "1.0.0")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCachedDirectoryEnvironmentInvalidatesOnWrite(t *testing.T) {
	inner := NewLocalDirectoryEnvironment(t.TempDir())
	cached := NewCachedDirectoryEnvironment(inner)

	_, err := cached.Versions("urn:kpar:dep")
	require.NoError(t, err)
	_, ok := cached.cache.Get("urn:kpar:dep")
	assert.True(t, ok)

	require.NoError(t, cached.PutProject("urn:kpar:dep", "1.0.0", func(w storage.ProjectWrite) error {
		require.NoError(t, w.PutInfo(kip.InfoRaw{Name: "dep", Version: "1.0.0"}, true))
		return w.PutMeta(kip.MetaRaw{Created: "2024-01-01T00:00:00Z"}, true)
	}))

	_, ok = cached.cache.Get("urn:kpar:dep")
	assert.False(t, ok)

	versions, err := cached.Versions("urn:kpar:dep")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, versions)
}
