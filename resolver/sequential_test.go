package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/storage"
)

func TestSequentialResolverPreservesOrderAndConcatenates(t *testing.T) {
	foo1 := storage.NewMemoryProject()
	bar1 := storage.NewMemoryProject()
	bar2 := storage.NewMemoryProject()
	baz1 := storage.NewMemoryProject()

	resolver1 := NewMemoryResolver(map[string][]storage.ProjectRead{
		"urn:kpar:foo": {foo1},
		"urn:kpar:bar": {bar1},
	})
	resolver2 := NewMemoryResolver(map[string][]storage.ProjectRead{
		"urn:kpar:bar": {bar2},
		"urn:kpar:baz": {baz1},
	})

	seq := NewSequentialResolver(resolver1, resolver2)

	foos, err := seq.Resolve("urn:kpar:foo")
	require.NoError(t, err)
	assert.Equal(t, Resolved, foos.Kind)
	assert.Equal(t, []storage.ProjectRead{foo1}, foos.Candidates)

	bars, err := seq.Resolve("urn:kpar:bar")
	require.NoError(t, err)
	assert.Equal(t, Resolved, bars.Kind)
	assert.Equal(t, []storage.ProjectRead{bar1, bar2}, bars.Candidates)

	bazs, err := seq.Resolve("urn:kpar:baz")
	require.NoError(t, err)
	assert.Equal(t, Resolved, bazs.Kind)
	assert.Equal(t, []storage.ProjectRead{baz1}, bazs.Candidates)
}

func TestSequentialResolverUnresolvableBeatsUnsupported(t *testing.T) {
	onlyAcceptsHTTP := NewMemoryResolver(nil)
	onlyAcceptsHTTP.IRIPredicate = AcceptScheme{Scheme: "http"}

	empty := NewMemoryResolver(map[string][]storage.ProjectRead{})
	empty.IRIPredicate = AcceptScheme{Scheme: "urn"}

	seq := NewSequentialResolver(onlyAcceptsHTTP, empty)

	outcome, err := seq.Resolve("urn:kpar:missing")
	require.NoError(t, err)
	assert.Equal(t, Unresolvable, outcome.Kind)
}

func TestSequentialResolverAllUnsupported(t *testing.T) {
	httpOnly := NewMemoryResolver(nil)
	httpOnly.IRIPredicate = AcceptScheme{Scheme: "http"}

	seq := NewSequentialResolver(httpOnly)
	outcome, err := seq.Resolve("urn:kpar:x")
	require.NoError(t, err)
	assert.Equal(t, UnsupportedIRIType, outcome.Kind)
}
