package kip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePathRejectsAbsoluteAndParent(t *testing.T) {
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("/abs/path"))
	assert.Error(t, ValidatePath("../escape.sysml"))
	assert.Error(t, ValidatePath("a\\b.sysml"))
	assert.NoError(t, ValidatePath("a/b.sysml"))
}

func TestMetaRawValidateRejectsBadTimestamp(t *testing.T) {
	_, err := MetaRaw{Created: "not-a-time"}.Validate()
	require.Error(t, err)
}

func TestMetaRawValidateRequiresChecksumForEveryIndexEntry(t *testing.T) {
	_, err := MetaRaw{
		Created: "2024-01-01T00:00:00Z",
		Index:   map[string]string{"P": "p.sysml"},
		Checksum: map[string]ChecksumEntry{
			"other.sysml": {Algorithm: "SHA256", Value: "deadbeef"},
		},
	}.Validate()
	require.Error(t, err)
}

func TestMetaRawValidateAcceptsMatchingChecksum(t *testing.T) {
	meta, err := MetaRaw{
		Created: "2024-01-01T00:00:00Z",
		Index:   map[string]string{"P": "p.sysml"},
		Checksum: map[string]ChecksumEntry{
			"p.sysml": {Algorithm: "SHA256", Value: "deadbeef"},
		},
	}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "p.sysml", meta.Index["P"])
}

func TestMetaSourcePathsPrefersChecksumOverIndex(t *testing.T) {
	meta, err := MetaRaw{
		Created: "2024-01-01T00:00:00Z",
		Index:   map[string]string{"P": "p.sysml", "Q": "q.sysml"},
		Checksum: map[string]ChecksumEntry{
			"p.sysml": {Algorithm: "SHA256", Value: "deadbeef"},
			"q.sysml": {Algorithm: "SHA256", Value: "beefdead"},
			"r.sysml": {Algorithm: "SHA256", Value: "cafebabe"},
		},
	}.Validate()
	require.NoError(t, err)

	assert.Equal(t, []string{"p.sysml", "q.sysml", "r.sysml"}, meta.SourcePaths())
}

func TestMetaRoundTripThroughRaw(t *testing.T) {
	raw := MetaRaw{
		Created:   "2024-01-01T00:00:00Z",
		Index:     map[string]string{"P": "p.sysml"},
		Metamodel: strp("urn:kpar:kernel-library"),
	}
	meta, err := raw.Validate()
	require.NoError(t, err)

	back := meta.Raw()
	assert.Equal(t, raw.Index, back.Index)
	assert.Equal(t, *raw.Metamodel, *back.Metamodel)
}
