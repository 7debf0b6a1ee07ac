package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/kip"
)

func TestLockMarshalUnmarshalRoundTrip(t *testing.T) {
	size := int64(1024)
	name := "widget"

	l := New()
	l.Project = append(l.Project, Project{
		Name:        &name,
		Version:     "1.2.3",
		Exports:     []string{"Widget"},
		Identifiers: []string{"urn:kpar:widget"},
		Checksum:    "deadbeef",
		Sources: []Source{
			{RemoteKpar: &RemoteKpar{URL: "https://example.test/widget.kpar", Size: &size}},
		},
		Usages: []kip.UsageRaw{
			{Resource: "urn:kpar:dep"},
		},
	})

	data, err := Marshal(l)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)

	require.Len(t, back.Project, 1)
	assert.Equal(t, LockVersion, back.LockVersion)
	assert.Equal(t, "1.2.3", back.Project[0].Version)
	assert.Equal(t, []string{"urn:kpar:widget"}, back.Project[0].Identifiers)
	require.NotNil(t, back.Project[0].Sources[0].RemoteKpar)
	assert.Equal(t, "https://example.test/widget.kpar", back.Project[0].Sources[0].RemoteKpar.URL)
	require.NotNil(t, back.Project[0].Sources[0].RemoteKpar.Size)
	assert.Equal(t, int64(1024), *back.Project[0].Sources[0].RemoteKpar.Size)
}

func TestUnmarshalRejectsMismatchedLockVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`lock_version = "99.0"`))
	assert.Error(t, err)
}

func TestSourceDescriptorRoundTrip(t *testing.T) {
	descs := []kip.SourceDescriptor{
		kip.Editable("./src"),
		kip.LocalSrc("/abs/src"),
		kip.LocalKpar("/abs/widget.kpar"),
		kip.RemoteSrcDescriptor("https://example.test/src"),
		kip.RemoteKparDescriptor("https://example.test/widget.kpar", nil),
		kip.GitDescriptor("https://example.test/repo.git", "deadbeef"),
	}

	for _, d := range descs {
		s := SourceFromDescriptor(d)
		back, err := s.Descriptor()
		require.NoError(t, err)
		assert.Equal(t, d, back)
	}
}

func TestSourceDescriptorRejectsAmbiguousTable(t *testing.T) {
	path := "./src"
	url := "https://example.test/src"
	s := Source{Editable: &path, RemoteSrc: &url}
	_, err := s.Descriptor()
	assert.Error(t, err)
}

func TestFindByIdentifier(t *testing.T) {
	l := New()
	l.Project = append(l.Project, Project{
		Version:     "1.0.0",
		Identifiers: []string{"urn:kpar:found"},
		Checksum:    "abc",
	})

	found, ok := l.FindByIdentifier("urn:kpar:found")
	assert.True(t, ok)
	assert.Equal(t, "1.0.0", found.Version)

	_, ok = l.FindByIdentifier("urn:kpar:missing")
	assert.False(t, ok)
}
