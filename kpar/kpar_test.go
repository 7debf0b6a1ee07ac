package kpar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/kip"
)

func buildArchive(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteInfo(kip.InfoRaw{Name: "widget", Version: "1.0.0"}))
	require.NoError(t, w.WriteMeta(kip.MetaRaw{
		Created: "2024-01-01T00:00:00Z",
		Index:   map[string]string{"P": "test.sysml"},
	}))
	require.NoError(t, w.WriteSource("test.sysml", []byte("package P;")))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestWriteOpenReadRoundTrip(t *testing.T) {
	data := buildArchive(t)

	a, err := Open(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	info, err := a.ReadInfo()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "widget", info.Name)

	meta, err := a.ReadMeta()
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "test.sysml", meta.Index["P"])

	src, err := a.ReadSource("test.sysml")
	require.NoError(t, err)
	assert.Equal(t, []byte("package P;"), src)

	assert.Equal(t, []string{"test.sysml"}, a.Paths())
}

func TestReadSourceNotFoundInArchive(t *testing.T) {
	data := buildArchive(t)
	a, err := Open(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	_, err = a.ReadSource("missing.sysml")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFindsManifestsUnderTopLevelDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	require.NoError(t, w.WriteInfo(kip.InfoRaw{Name: "widget", Version: "1.0.0"}))
	require.NoError(t, w.WriteMeta(kip.MetaRaw{Created: "2024-01-01T00:00:00Z"}))
	require.NoError(t, w.Close())

	// Re-pack with every entry nested under a single top-level directory,
	// mirroring an archive created by an external tool that wraps its
	// output in a folder.
	original, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	info, err := original.ReadInfo()
	require.NoError(t, err)
	meta, err := original.ReadMeta()
	require.NoError(t, err)

	wrapped := &bytes.Buffer{}
	ww := NewWriter(wrapped)
	require.NoError(t, ww.writeJSON("widget-1.0.0/.project.json", info))
	require.NoError(t, ww.writeJSON("widget-1.0.0/.meta.json", meta))
	require.NoError(t, ww.Close())

	a, err := Open(bytes.NewReader(wrapped.Bytes()), int64(wrapped.Len()))
	require.NoError(t, err)
	got, err := a.ReadInfo()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "widget", got.Name)
}

func TestOpenRejectsArchiveWithoutManifest(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := NewWriter(buf)
	require.NoError(t, zw.WriteSource("loose.sysml", []byte("package Loose;")))
	require.NoError(t, zw.Close())

	_, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Error(t, err)
}
