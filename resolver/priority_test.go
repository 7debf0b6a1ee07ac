package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/storage"
)

func TestPriorityResolverPrefersHighWhenResolved(t *testing.T) {
	high := NewMemoryResolver(map[string][]storage.ProjectRead{
		"urn:kpar:x": {storage.NewMemoryProject()},
	})
	low := NewMemoryResolver(map[string][]storage.ProjectRead{
		"urn:kpar:x": {storage.NewMemoryProject(), storage.NewMemoryProject()},
	})

	pri := &PriorityResolver{High: high, Low: low}
	outcome, err := pri.Resolve("urn:kpar:x")
	require.NoError(t, err)
	require.Equal(t, Resolved, outcome.Kind)
	assert.Len(t, outcome.Candidates, 1)
}

func TestPriorityResolverFallsBackToLow(t *testing.T) {
	high := NewMemoryResolver(map[string][]storage.ProjectRead{})
	low := NewMemoryResolver(map[string][]storage.ProjectRead{
		"urn:kpar:x": {storage.NewMemoryProject()},
	})

	pri := &PriorityResolver{High: high, Low: low}
	outcome, err := pri.Resolve("urn:kpar:x")
	require.NoError(t, err)
	assert.Equal(t, Resolved, outcome.Kind)
}
