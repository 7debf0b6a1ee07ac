package kip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestInfoRawValidateRejectsEmptyName(t *testing.T) {
	_, err := InfoRaw{Name: "  ", Version: "1.0.0"}.Validate()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestInfoRawValidateRejectsBadSemVer(t *testing.T) {
	_, err := InfoRaw{Name: "widget", Version: "not-a-version"}.Validate()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "version", ve.Field)
}

func TestInfoRawValidateRejectsBadLicense(t *testing.T) {
	_, err := InfoRaw{Name: "widget", Version: "1.0.0", License: strp("   ")}.Validate()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "license", ve.Field)
}

func TestInfoRawValidateAcceptsCompoundSPDX(t *testing.T) {
	info, err := InfoRaw{Name: "widget", Version: "1.0.0", License: strp("MIT OR Apache-2.0")}.Validate()
	require.NoError(t, err)
	require.NotNil(t, info.License)
	assert.Equal(t, "MIT OR Apache-2.0", *info.License)
}

func TestInfoRawValidateRejectsBadWebsite(t *testing.T) {
	_, err := InfoRaw{Name: "widget", Version: "1.0.0", Website: strp(":::not a url")}.Validate()
	require.Error(t, err)
}

func TestInfoRoundTripThroughRaw(t *testing.T) {
	raw := InfoRaw{
		Name:        "widget",
		Description: strp("a widget"),
		Version:     "1.2.3",
		License:     strp("MIT"),
		Maintainer:  []string{"a@example.test"},
		Website:     strp("https://example.test"),
		Topic:       []string{"demo"},
		Usage: []UsageRaw{
			{Resource: "urn:kpar:dep", VersionConstraint: strp(">=1.0.0")},
		},
	}
	info, err := raw.Validate()
	require.NoError(t, err)

	back := info.Raw()
	assert.Equal(t, raw.Name, back.Name)
	assert.Equal(t, raw.Version, back.Version)
	assert.Equal(t, *raw.License, *back.License)
	assert.Equal(t, *raw.Website, *back.Website)
	require.Len(t, back.Usage, 1)
	assert.Equal(t, "urn:kpar:dep", back.Usage[0].Resource)
	assert.Equal(t, ">=1.0.0", *back.Usage[0].VersionConstraint)
}

func TestUsageEqualIsPostNormalisation(t *testing.T) {
	a, err := UsageRaw{Resource: "HTTPS://example.test/x", VersionConstraint: strp(">=1.0.0")}.Validate()
	require.NoError(t, err)
	b, err := UsageRaw{Resource: "https://example.test/x", VersionConstraint: strp(">=1.0.0")}.Validate()
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := UsageRaw{Resource: "https://example.test/x", VersionConstraint: strp(">=2.0.0")}.Validate()
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestUsageSatisfiesConstraint(t *testing.T) {
	u, err := UsageRaw{Resource: "urn:kpar:dep", VersionConstraint: strp(">1.0.0")}.Validate()
	require.NoError(t, err)

	v1, err := InfoRaw{Name: "dep", Version: "1.0.0"}.Validate()
	require.NoError(t, err)
	assert.False(t, u.Satisfies(v1.Version))

	v2, err := InfoRaw{Name: "dep", Version: "1.0.1"}.Validate()
	require.NoError(t, err)
	assert.True(t, u.Satisfies(v2.Version))
}

func TestUsageWithNoConstraintSatisfiesAnyVersion(t *testing.T) {
	u, err := UsageRaw{Resource: "urn:kpar:dep"}.Validate()
	require.NoError(t, err)

	v, err := InfoRaw{Name: "dep", Version: "0.0.1"}.Validate()
	require.NoError(t, err)
	assert.True(t, u.Satisfies(v.Version))
}
