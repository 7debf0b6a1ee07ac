package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/kip"
)

func putSampleProject(t *testing.T, p ProjectWrite) {
	t.Helper()
	require.NoError(t, p.PutInfo(kip.InfoRaw{Name: "widget", Version: "1.0.0"}, false))
	require.NoError(t, p.PutMeta(kip.MetaRaw{Created: "2024-01-01T00:00:00Z"}, false))
	require.NoError(t, p.WriteSource("a.sysml", []byte("package A;"), false))
}

// TestRoundTripEveryBackend exercises spec.md §8's "for every storage
// backend B, put then get yields the same value" property across every
// in-process backend (local and memory; remote/kpar/browser have their own
// dedicated tests given their distinct construction).
func TestRoundTripEveryBackend(t *testing.T) {
	backends := map[string]ProjectWrite{
		"memory": NewMemoryProject(),
		"local":  NewLocalProject(t.TempDir()),
	}
	for name, p := range backends {
		t.Run(name, func(t *testing.T) {
			putSampleProject(t, p)

			info, err := p.GetInfo()
			require.NoError(t, err)
			require.NotNil(t, info)
			assert.Equal(t, "widget", info.Name)

			meta, err := p.GetMeta()
			require.NoError(t, err)
			require.NotNil(t, meta)

			data, err := p.ReadSource("a.sysml")
			require.NoError(t, err)
			assert.Equal(t, []byte("package A;"), data)
		})
	}
}

func TestPutInfoRefusesOverwriteUnlessRequested(t *testing.T) {
	p := NewMemoryProject()
	require.NoError(t, p.PutInfo(kip.InfoRaw{Name: "widget", Version: "1.0.0"}, false))

	err := p.PutInfo(kip.InfoRaw{Name: "widget", Version: "2.0.0"}, false)
	require.Error(t, err)
	var exists *AlreadyExistsError
	require.ErrorAs(t, err, &exists)

	require.NoError(t, p.PutInfo(kip.InfoRaw{Name: "widget", Version: "2.0.0"}, true))
	info, err := p.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", info.Version)
}

func TestReadSourceNotFound(t *testing.T) {
	p := NewMemoryProject()
	_, err := p.ReadSource("missing.sysml")
	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestGetInfoMissingIsNilNotError(t *testing.T) {
	p := NewMemoryProject()
	info, err := p.GetInfo()
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestChecksumCanonicalHexRequiresInfoAndMeta(t *testing.T) {
	p := NewMemoryProject()
	_, ok, err := ChecksumCanonicalHex(p)
	require.NoError(t, err)
	assert.False(t, ok)

	putSampleProject(t, p)
	hex, ok, err := ChecksumCanonicalHex(p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, hex, 64)
}

func TestIncludeSourceComputesChecksumAndIndex(t *testing.T) {
	p := NewMemoryProject()
	putSampleProject(t, p)

	require.NoError(t, p.IncludeSource("a.sysml", true, true))

	meta, err := p.GetMeta()
	require.NoError(t, err)
	require.NotNil(t, meta)
	require.NotNil(t, meta.Checksum)
	entry, ok := meta.Checksum["a.sysml"]
	require.True(t, ok)
	assert.Equal(t, "SHA256", entry.Algorithm)
	assert.Equal(t, "a.sysml", meta.Index["A"])
}

func TestExcludeSourceRemovesChecksumAndIndex(t *testing.T) {
	p := NewMemoryProject()
	putSampleProject(t, p)
	require.NoError(t, p.IncludeSource("a.sysml", true, true))

	existed, err := p.ExcludeSource("a.sysml")
	require.NoError(t, err)
	assert.True(t, existed)

	meta, err := p.GetMeta()
	require.NoError(t, err)
	_, ok := meta.Checksum["a.sysml"]
	assert.False(t, ok)
	_, ok = meta.Index["A"]
	assert.False(t, ok)

	existed, err = p.ExcludeSource("a.sysml")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestCloneProjectCopiesEverything(t *testing.T) {
	src := NewMemoryProject()
	putSampleProject(t, src)
	require.NoError(t, src.IncludeSource("a.sysml", true, true))

	dst := NewMemoryProject()
	require.NoError(t, CloneProject(src, dst, false))

	srcHex, _, err := ChecksumCanonicalHex(src)
	require.NoError(t, err)
	dstHex, _, err := ChecksumCanonicalHex(dst)
	require.NoError(t, err)
	assert.Equal(t, srcHex, dstHex)
}

func TestCloneProjectRequiresManifests(t *testing.T) {
	src := NewMemoryProject()
	dst := NewMemoryProject()
	err := CloneProject(src, dst, false)
	require.Error(t, err)
}

func TestEditableProjectReportsEditableSource(t *testing.T) {
	inner := NewMemoryProject()
	e := &EditableProject{Path: ".", Inner: inner}

	sources := e.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, kip.SourceEditable, sources[0].Kind)
	assert.Equal(t, ".", sources[0].Path)
}

func TestCachedProjectReadsLocalReportsRemoteSources(t *testing.T) {
	local := NewMemoryProject()
	putSampleProject(t, local)

	remote := NewMemoryProject()
	remote.SetSources([]kip.SourceDescriptor{kip.RemoteSrcDescriptor("https://example.test/widget")})

	c := &CachedProject{Local: local, Remote: remote}

	info, err := c.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "widget", info.Name)

	sources := c.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, kip.SourceRemoteSrc, sources[0].Kind)
}

func TestReferenceProjectDelegates(t *testing.T) {
	inner := NewMemoryProject()
	putSampleProject(t, inner)

	ref := NewReferenceProject(inner)
	info, err := ref.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "widget", info.Name)
}
