package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensmetry/sysand/environment"
	"github.com/sensmetry/sysand/storage"
)

func TestCombinedResolverFallsThroughUnsupported(t *testing.T) {
	env := environment.NewMemoryEnvironment()
	require.NoError(t, env.PutProject("urn:kpar:x", "1.0.0", func(p storage.ProjectWrite) error { return nil }))

	combined := NewCombinedResolver(
		&FileResolver{},
		&EnvResolver{Env: env},
		NullResolver{},
		NullResolver{},
	)

	outcome, err := combined.Resolve("urn:kpar:x")
	require.NoError(t, err)
	assert.Equal(t, Resolved, outcome.Kind)
	assert.Len(t, outcome.Candidates, 1)
}

func TestCombinedResolverPropagatesUnresolvable(t *testing.T) {
	env := environment.NewMemoryEnvironment()

	combined := NewCombinedResolver(
		&FileResolver{},
		&EnvResolver{Env: env},
		NullResolver{},
		NullResolver{},
	)

	outcome, err := combined.Resolve("urn:kpar:missing")
	require.NoError(t, err)
	assert.Equal(t, Unresolvable, outcome.Kind)
}
