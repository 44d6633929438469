package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdboyer/vsolver/version"
)

func TestParseRangeSimpleComparison(t *testing.T) {
	r, err := version.ParseRange("lib", ">=1.2.0")
	require.NoError(t, err)
	assert.True(t, r.Versions.Contains(version.MustParseVersion("1.2.0")))
	assert.True(t, r.Versions.Contains(version.MustParseVersion("9.9.9")))
	assert.False(t, r.Versions.Contains(version.MustParseVersion("1.1.9")))
}

func TestParseRangeAndGroup(t *testing.T) {
	r, err := version.ParseRange("lib", ">=1.0.0, <2.0.0")
	require.NoError(t, err)
	assert.True(t, r.Versions.Contains(version.MustParseVersion("1.5.0")))
	assert.False(t, r.Versions.Contains(version.MustParseVersion("2.0.0")))
}

func TestParseRangeOrGroup(t *testing.T) {
	r, err := version.ParseRange("lib", "<1.0.0 || >=2.0.0")
	require.NoError(t, err)
	assert.True(t, r.Versions.Contains(version.MustParseVersion("0.5.0")))
	assert.True(t, r.Versions.Contains(version.MustParseVersion("2.5.0")))
	assert.False(t, r.Versions.Contains(version.MustParseVersion("1.5.0")))
}

func TestParseRangeCaretPinsMajor(t *testing.T) {
	r, err := version.ParseRange("lib", "^1.2.3")
	require.NoError(t, err)
	assert.True(t, r.Versions.Contains(version.MustParseVersion("1.9.9")))
	assert.False(t, r.Versions.Contains(version.MustParseVersion("2.0.0")))
	assert.False(t, r.Versions.Contains(version.MustParseVersion("1.2.2")))
}

func TestParseRangeTildePinsMinor(t *testing.T) {
	r, err := version.ParseRange("lib", "~1.2.3")
	require.NoError(t, err)
	assert.True(t, r.Versions.Contains(version.MustParseVersion("1.2.9")))
	assert.False(t, r.Versions.Contains(version.MustParseVersion("1.3.0")))
}

func TestParseRangeRejectsMalformedVersion(t *testing.T) {
	_, err := version.ParseRange("lib", ">=not-a-version")
	assert.Error(t, err)
}
