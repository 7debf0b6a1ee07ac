package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTopLevelSimplePackage(t *testing.T) {
	names, err := ExtractTopLevel("package P;")
	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, names)
}

func TestExtractTopLevelIgnoresNestedDeclarations(t *testing.T) {
	names, err := ExtractTopLevel(`package Outer {
		part def Inner;
	}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Outer"}, names)
}

func TestExtractTopLevelMultipleDeclarations(t *testing.T) {
	names, err := ExtractTopLevel(`package A; package B;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestExtractTopLevelSkipsQualifiedReferences(t *testing.T) {
	names, err := ExtractTopLevel(`import Other::Thing; package P;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, names)
}

func TestExtractTopLevelDeduplicates(t *testing.T) {
	names, err := ExtractTopLevel(`package P; package P;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, names)
}

func TestExtractTopLevelIgnoresComments(t *testing.T) {
	names, err := ExtractTopLevel("/* not a decl */ package P; // trailing\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, names)
}

func TestExtractTopLevelQuotedName(t *testing.T) {
	names, err := ExtractTopLevel(`package 'My Package';`)
	require.NoError(t, err)
	assert.Equal(t, []string{"My Package"}, names)
}

func TestExtractTopLevelPropagatesLexError(t *testing.T) {
	_, err := ExtractTopLevel("package /* unterminated")
	require.Error(t, err)
}
