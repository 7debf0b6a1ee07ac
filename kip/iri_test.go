package kip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIRIRejectsEmpty(t *testing.T) {
	_, err := ParseIRI("")
	require.Error(t, err)
	var invalid *InvalidIRIError
	assert.ErrorAs(t, err, &invalid)
}

func TestParseIRIAcceptsURNAndURL(t *testing.T) {
	for _, text := range []string{
		"urn:kpar:function-library",
		"https://example.test/widget",
		"file:///tmp/widget",
	} {
		iri, err := ParseIRI(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, iri.String())
	}
}

func TestIRIEqualIsSchemeCaseInsensitive(t *testing.T) {
	a, err := ParseIRI("HTTPS://example.test/widget")
	require.NoError(t, err)
	b, err := ParseIRI("https://example.test/widget")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestIRIEqualDistinguishesDifferentResources(t *testing.T) {
	a, err := ParseIRI("https://example.test/a")
	require.NoError(t, err)
	b, err := ParseIRI("https://example.test/b")
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
}
