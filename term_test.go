package vsolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vsolver "github.com/sdboyer/vsolver"
	"github.com/sdboyer/vsolver/version"
)

func rng(expr string) version.Range {
	return version.MustParseRange("pkg", expr)
}

func TestTermInverseIsInvolution(t *testing.T) {
	term := vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0"))
	assert.Equal(t, term, term.Inverse().Inverse())
}

func TestTermRelationToSelfIsSubset(t *testing.T) {
	term := vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0"))
	assert.Equal(t, vsolver.Subset, term.RelationTo(term))
}

func TestTermImpliesImpliesSubset(t *testing.T) {
	wide := vsolver.Pos[string, version.Range](rng(">=1.0.0, <3.0.0"))
	narrow := vsolver.Pos[string, version.Range](rng(">=1.5.0, <2.0.0"))
	require.True(t, narrow.Implies(wide))
	assert.Equal(t, vsolver.Subset, narrow.RelationTo(wide))
}

func TestTermExcludesIsSymmetric(t *testing.T) {
	a := vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0"))
	b := vsolver.Pos[string, version.Range](rng(">=2.0.0, <3.0.0"))
	assert.True(t, a.Excludes(b))
	assert.True(t, b.Excludes(a))
	assert.Equal(t, vsolver.Disjoint, a.RelationTo(b))
}

func TestTermOverlappingRangesOverlap(t *testing.T) {
	a := vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0"))
	b := vsolver.Pos[string, version.Range](rng(">=1.5.0, <3.0.0"))
	assert.False(t, a.Implies(b))
	assert.False(t, a.Excludes(b))
	assert.Equal(t, vsolver.Overlap, a.RelationTo(b))
}

func TestTermNegativeExcludesPositiveWhenPositiveImpliesNegatedRange(t *testing.T) {
	notOne := vsolver.Neg[string, version.Range](rng(">=1.0.0, <2.0.0"))
	withinOne := vsolver.Pos[string, version.Range](rng(">=1.2.0, <1.8.0"))
	assert.True(t, notOne.Excludes(withinOne))
	assert.True(t, withinOne.Excludes(notOne))
}

func TestTermIntersectionOfPositivesIsRangeIntersection(t *testing.T) {
	a := vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0"))
	b := vsolver.Pos[string, version.Range](rng(">=1.5.0, <3.0.0"))
	got, ok := a.Intersection(b)
	require.True(t, ok)
	want := vsolver.Pos[string, version.Range](rng(">=1.5.0, <2.0.0"))
	assert.True(t, got.Req.Versions.Equal(want.Req.Versions))
}

func TestTermIntersectionOfDisjointPositivesFails(t *testing.T) {
	a := vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0"))
	b := vsolver.Pos[string, version.Range](rng(">=2.0.0, <3.0.0"))
	_, ok := a.Intersection(b)
	assert.False(t, ok)
}

func TestTermDifferenceMatchesIntersectionWithInverse(t *testing.T) {
	a := vsolver.Pos[string, version.Range](rng(">=1.0.0, <3.0.0"))
	b := vsolver.Pos[string, version.Range](rng(">=2.0.0, <4.0.0"))
	diff, ok := a.Difference(b)
	require.True(t, ok)
	want := rng(">=1.0.0, <2.0.0")
	assert.True(t, diff.Req.Versions.Equal(want.Versions))
}
