package vsolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vsolver "github.com/sdboyer/vsolver"
	"github.com/sdboyer/vsolver/version"
)

func TestPartialSolutionSatisfiesAfterDecision(t *testing.T) {
	ps := vsolver.NewPartialSolution[string, version.Range]()
	ps.RecordDecision(vsolver.Pos[string, version.Range](rng(">=1.0.0, <2.0.0")))

	// The decided range [1.0.0, 2.0.0) does not lie inside the narrower
	// range, so it does not imply it; it does lie inside the wider one.
	narrower := vsolver.Pos[string, version.Range](rng(">=1.2.0, <1.5.0"))
	assert.False(t, ps.Satisfies(narrower))

	wider := vsolver.Pos[string, version.Range](rng(">=0.5.0, <3.0.0"))
	assert.True(t, ps.Satisfies(wider))
}

func derivationCause(t *testing.T) *vsolver.Incompatibility[string, version.Range] {
	t.Helper()
	store := vsolver.NewStore[string, version.Range]()
	return store.Emplace([]vsolver.Term[string, version.Range]{
		vsolver.Pos[string, version.Range](version.MustParseRange("unrelated", ">=1.0.0")),
	}, vsolver.Cause[string, version.Range]{Kind: vsolver.CauseRoot})
}

func TestPartialSolutionNextUnsatisfiedPositiveSkipsDecided(t *testing.T) {
	ps := vsolver.NewPartialSolution[string, version.Range]()
	cause := derivationCause(t)
	ps.RecordDerivation(vsolver.Pos[string, version.Range](version.MustParseRange("a", ">=1.0.0")), cause)
	ps.RecordDecision(vsolver.Pos[string, version.Range](version.MustParseRange("a", ">=1.0.0")))
	ps.RecordDerivation(vsolver.Pos[string, version.Range](version.MustParseRange("b", ">=1.0.0")), cause)

	next, ok := ps.NextUnsatisfiedPositive()
	require.True(t, ok)
	assert.Equal(t, "b", next.Key())
}

func TestPartialSolutionCompletedSolutionOnlyListsDecisions(t *testing.T) {
	ps := vsolver.NewPartialSolution[string, version.Range]()
	ps.RecordDerivation(vsolver.Pos[string, version.Range](version.MustParseRange("a", ">=1.0.0")), derivationCause(t))
	ps.RecordDecision(vsolver.Pos[string, version.Range](version.MustParseRange("b", "=1.0.0")))

	sol := ps.CompletedSolution()
	require.Len(t, sol, 1)
	assert.Equal(t, "b", sol[0].Key())
}

func TestPartialSolutionBacktrackShrinksCompletedSolution(t *testing.T) {
	ps := vsolver.NewPartialSolution[string, version.Range]()
	ps.RecordDecision(vsolver.Pos[string, version.Range](version.MustParseRange("a", "=1.0.0")))
	ps.RecordDecision(vsolver.Pos[string, version.Range](version.MustParseRange("b", "=1.0.0")))

	require.Len(t, ps.CompletedSolution(), 2)
	ps.BacktrackTo(1)
	assert.Len(t, ps.CompletedSolution(), 1)
	assert.True(t, ps.Decided("a"))
	assert.False(t, ps.Decided("b"))
}
